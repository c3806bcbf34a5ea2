package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/keymutex"
)

// ErrActorForbidden is returned when the actor's role would allow the
// transition but the actor is not a participant of this particular order:
// a customer who did not place it, a restaurant that does not own it, or a
// courier it is not assigned to.
var ErrActorForbidden = errors.New("actor is not a participant of this order")

// TransitionOrderCommandHandler moves orders through their lifecycle.
//
// Responsibilities:
//   - Serializing transitions per order with an in-process keyed mutex
//   - Enforcing participant checks on top of the role-gated transition table
//   - Dispatching a courier when an order leaves for delivery
//   - Releasing the courier's slot when the order closes
//   - Persisting the order with an optimistic version guard
//
// Within a single process the keyed mutex makes transitions on one order
// strictly sequential; across processes the version guard in the repository
// turns lost races into errs.ErrVersionIsInvalid.
type TransitionOrderCommandHandler struct {
	uowFactory UoWFactory
	directory  *services.CourierDirectory
	dispatcher services.Dispatcher
	locks      *keymutex.KeyMutex
	notifier   ports.NotificationPublisher
}

// NewTransitionOrderCommandHandler creates a handler for order transitions.
func NewTransitionOrderCommandHandler(
	uowFactory UoWFactory,
	directory *services.CourierDirectory,
	dispatcher services.Dispatcher,
	locks *keymutex.KeyMutex,
	notifier ports.NotificationPublisher,
) TransitionOrderCommandHandler {
	return TransitionOrderCommandHandler{
		uowFactory: uowFactory,
		directory:  directory,
		dispatcher: dispatcher,
		locks:      locks,
		notifier:   notifier,
	}
}

// Handle processes the transition command.
//
// The domain decides whether the transition is legal for the actor's role;
// the handler adds participant checks, courier dispatch and release, and the
// transactional write. Dispatch reserves the courier's slot before the
// write and releases it again if the write does not commit.
func (h *TransitionOrderCommandHandler) Handle(ctx context.Context, cmd TransitionOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	aggregate, err := h.transition(ctx, cmd)
	if err != nil {
		return err
	}

	// The publish happens after the per-order lock is released; a stalled
	// broker must not hold up later transitions of the same order.
	if err = h.notifier.PublishOrderEvent(ctx, aggregate); err != nil {
		slog.WarnContext(ctx, "order notification failed",
			"order_id", aggregate.ID().String(), "error", err)
	}

	return nil
}

// transition runs the locked, transactional part of the command and
// returns the committed aggregate.
func (h *TransitionOrderCommandHandler) transition(
	ctx context.Context,
	cmd TransitionOrderCommand,
) (*order.Order, error) {
	h.locks.Lock(cmd.OrderID().String())
	defer h.locks.Unlock(cmd.OrderID().String())

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if err = h.authorize(aggregate, cmd.Actor()); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	note := cmd.Note()

	var reserved *courierReservation
	defer func() {
		if reserved != nil && !reserved.committed {
			if releaseErr := h.directory.Release(reserved.id); releaseErr != nil {
				slog.WarnContext(ctx, "failed to roll back courier reservation",
					"courier_id", reserved.id.String(), "error", releaseErr)
			}
		}
	}()

	if cmd.Target() == order.OutForDelivery {
		reserved, err = h.dispatch(ctx, uow, aggregate, &note)
		if err != nil {
			return nil, err
		}
	}

	releasedCourier := aggregate.Courier()
	releasing := releasedCourier != nil &&
		(cmd.Target() == order.Delivered || cmd.Target() == order.Cancelled)

	if err = aggregate.TransitionTo(cmd.Target(), cmd.Actor().Role, now, note); err != nil {
		return nil, err
	}

	if releasing {
		if err = uow.CourierRepository().ReleaseSlot(ctx, *releasedCourier); err != nil {
			return nil, err
		}
	}

	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	if reserved != nil {
		reserved.committed = true
	}

	if releasing {
		if releaseErr := h.directory.Release(*releasedCourier); releaseErr != nil {
			slog.WarnContext(ctx, "failed to release courier slot",
				"courier_id", releasedCourier.String(), "error", releaseErr)
		}
	}

	return aggregate, nil
}

// authorize checks that the actor is a participant of the order.
// Admin and dispatch act on any order; the transition table still limits
// what each role may do.
func (h *TransitionOrderCommandHandler) authorize(aggregate *order.Order, actor ports.Actor) error {
	switch actor.Role {
	case order.RoleCustomer:
		if !actor.UserID.IsEqual(aggregate.CustomerID()) {
			return ErrActorForbidden
		}
	case order.RoleRestaurant:
		if !actor.UserID.IsEqual(aggregate.RestaurantID()) {
			return ErrActorForbidden
		}
	case order.RoleCourier:
		if aggregate.Courier() == nil || !actor.UserID.IsEqual(*aggregate.Courier()) {
			return ErrActorForbidden
		}
	case order.RoleAdmin, order.RoleDispatch:
	default:
		return ErrActorForbidden
	}

	return nil
}

type courierReservation struct {
	id        kernel.UUID
	committed bool
}

// dispatch selects and reserves a courier for the order's pickup location,
// assigns it to the aggregate and persists the courier's claimed slot in
// the same transaction as the order.
func (h *TransitionOrderCommandHandler) dispatch(
	ctx context.Context,
	uow UoW,
	aggregate *order.Order,
	note *string,
) (*courierReservation, error) {
	courierID, err := h.dispatcher.Dispatch(aggregate.PickupLocation(), h.directory)
	if err != nil {
		return nil, err
	}

	reservation := &courierReservation{id: courierID}

	if err = aggregate.AssignCourier(courierID); err != nil {
		return reservation, err
	}

	if err = uow.CourierRepository().ReserveSlot(ctx, courierID); err != nil {
		return reservation, err
	}

	if *note == "" {
		view, viewErr := h.directory.Get(courierID)
		if viewErr != nil {
			return reservation, viewErr
		}
		*note = fmt.Sprintf("assigned to courier %s", view.Name)
	}

	return reservation, nil
}
