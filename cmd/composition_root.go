package cmd

import (
	"context"
	"log/slog"

	httpin "marketplace/internal/adapters/in/http"
	"marketplace/internal/adapters/out/catalog"
	"marketplace/internal/adapters/out/jwtauth"
	"marketplace/internal/adapters/out/postgres"
	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/core/ports"
	"marketplace/internal/jobs"
	"marketplace/internal/pkg/keymutex"

	"gorm.io/gorm"
)

// CompositionRoot wires adapters, domain services and use case handlers.
// The courier directory, the per-order lock set and the notifier are process
// singletons; handlers are cheap and constructed per call site.
type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	directory  *services.CourierDirectory
	dispatcher services.Dispatcher
	locks      *keymutex.KeyMutex
	notifier   ports.NotificationPublisher
	catalog    ports.CatalogClient
	identity   ports.IdentityClient
}

func NewCompositionRoot(configs Config, gormDB *gorm.DB, notifier ports.NotificationPublisher) CompositionRoot {
	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		directory:  services.NewCourierDirectory(),
		dispatcher: services.NewDispatcher(),
		locks:      keymutex.New(),
		notifier:   notifier,
		catalog:    catalog.NewClient(configs.CatalogServiceURL),
		identity:   jwtauth.NewIdentityClient(configs.JWTSecret),
	}
}

// HydrateCourierDirectory loads persisted couriers into the in-process
// directory. Must run before the HTTP server and jobs start so dispatch
// sees the whole fleet.
func (c *CompositionRoot) HydrateCourierDirectory(ctx context.Context) error {
	couriers, err := c.uowFactory.Create().CourierRepository().GetAll(ctx)
	if err != nil {
		return err
	}

	for _, courier := range couriers {
		if err := c.directory.Upsert(courier); err != nil {
			return err
		}
	}

	return nil
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.OrderCouponUoWFactory = FuncOrderCouponUoWFactory(func() commands.OrderCouponUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(f, c.catalog, services.NewPricingEngine(), c.notifier)
}

func (c *CompositionRoot) CreateTransitionOrderCommandHandler() commands.TransitionOrderCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewTransitionOrderCommandHandler(f, c.directory, c.dispatcher, c.locks, c.notifier)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.CreateTransitionOrderCommandHandler())
}

func (c *CompositionRoot) CreateRegisterCourierCommandHandler() commands.RegisterCourierCommandHandler {
	var f commands.CourierUoWFactory = FuncCourierUoWFactory(func() commands.CourierUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRegisterCourierCommandHandler(f, c.directory)
}

func (c *CompositionRoot) CreateSetCourierAvailabilityCommandHandler() commands.SetCourierAvailabilityCommandHandler {
	var f commands.CourierUoWFactory = FuncCourierUoWFactory(func() commands.CourierUoW {
		return c.uowFactory.Create()
	})
	return commands.NewSetCourierAvailabilityCommandHandler(f, c.directory)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetCompletedOrdersQueryHandler() queries.GetCompletedOrdersQueryHandler {
	return queries.NewGetCompletedOrdersQueryHandler(c.gormDB)
}

// CreateJobManager wires the dispatch job against a non-transactional order
// repository for its read-only sweep.
func (c *CompositionRoot) CreateJobManager(logger *slog.Logger) *jobs.JobManager {
	return jobs.NewJobManager(
		c.uowFactory.Create().OrderRepository(),
		c.CreateTransitionOrderCommandHandler(),
		logger,
	)
}

// CreateServer builds the HTTP server with every handler wired.
func (c *CompositionRoot) CreateServer() *httpin.Server {
	return httpin.NewServer(
		c.CreateCreateOrderCommandHandler(),
		c.CreateTransitionOrderCommandHandler(),
		c.CreateCancelOrderCommandHandler(),
		c.CreateRegisterCourierCommandHandler(),
		c.CreateSetCourierAvailabilityCommandHandler(),
		c.CreateGetOrderQueryHandler(),
		c.CreateGetCompletedOrdersQueryHandler(),
		c.identity,
	)
}

type FuncCourierUoWFactory func() commands.CourierUoW

func (f FuncCourierUoWFactory) Create() commands.CourierUoW {
	return f()
}

type FuncOrderCouponUoWFactory func() commands.OrderCouponUoW

func (f FuncOrderCouponUoWFactory) Create() commands.OrderCouponUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
