package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"

	"github.com/cenkalti/backoff/v4"
	"github.com/robfig/cron/v3"
)

// dispatchSchedule runs the sweep every second so orders that became ready
// between API calls are picked up promptly.
const dispatchSchedule = "* * * * * *"

// DispatchJob sweeps orders waiting for a courier and drives each through
// the dispatch transition. Orders that cannot be dispatched because no
// courier is available stay ready and are retried on the next sweep; that
// outcome is expected and never logged as an error.
type DispatchJob struct {
	orders      ports.OrderRepository
	transitions commands.TransitionOrderCommandHandler
	actor       ports.Actor
	cron        *cron.Cron
	logger      *slog.Logger
	maxAttempts uint64
}

// NewDispatchJob creates the dispatch sweep job. The job acts with its own
// dispatch identity so assignment transitions are attributable in order
// history and pass the role gate.
func NewDispatchJob(
	orders ports.OrderRepository,
	transitions commands.TransitionOrderCommandHandler,
	logger *slog.Logger,
) *DispatchJob {
	return &DispatchJob{
		orders:      orders,
		transitions: transitions,
		actor:       ports.Actor{UserID: kernel.NewUUID(), Role: order.RoleDispatch},
		cron:        cron.New(cron.WithSeconds()),
		logger:      logger.With("component", "dispatch_job"),
		maxAttempts: 3,
	}
}

// Start begins the dispatch job to run every second.
func (j *DispatchJob) Start() error {
	_, err := j.cron.AddFunc(dispatchSchedule, func() {
		ctx := context.Background()
		if err := j.sweep(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Dispatch sweep failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Dispatch job started (running every second)")
	return nil
}

// Stop stops the dispatch job.
func (j *DispatchJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Dispatch job stopped")
}

// sweep loads every order waiting for a courier and attempts to dispatch
// each one. A failure on one order does not stop the sweep.
func (j *DispatchJob) sweep(ctx context.Context) error {
	ready, err := j.orders.GetAllInStatus(ctx, order.ReadyForPickup)
	if err != nil {
		return err
	}

	for _, aggregate := range ready {
		if err := j.dispatchOne(ctx, aggregate.ID()); err != nil {
			j.logger.ErrorContext(ctx, "Failed to dispatch order",
				"order_id", aggregate.ID().String(), "error", err)
		}
	}

	return nil
}

// dispatchOne drives a single order to out_for_delivery, retrying version
// conflicts with exponential backoff. Conflicts happen when an API call
// moves the same order concurrently; after the retry budget the next sweep
// picks the order up again if it is still ready.
func (j *DispatchJob) dispatchOne(ctx context.Context, orderID kernel.UUID) error {
	cmd, err := commands.NewTransitionOrderCommand(orderID, order.OutForDelivery, j.actor, "")
	if err != nil {
		return err
	}

	operation := func() error {
		err := j.transitions.Handle(ctx, cmd)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, services.ErrNoCourierAvailable):
			// Expected when the fleet is saturated; retry on the next sweep
			return nil
		case errors.Is(err, errs.ErrVersionIsInvalid):
			return err
		case errors.Is(err, order.ErrInvalidTransition),
			errors.Is(err, order.ErrOrderClosed),
			errors.Is(err, errs.ErrObjectNotFound):
			// The order moved on; nothing left to dispatch
			return nil
		default:
			return backoff.Permanent(err)
		}
	}

	policy := backoff.WithMaxRetries(newRetryPolicy(), j.maxAttempts)
	return backoff.Retry(operation, backoff.WithContext(policy, ctx))
}

func newRetryPolicy() *backoff.ExponentialBackOff {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 50 * time.Millisecond
	policy.MaxInterval = 500 * time.Millisecond
	return policy
}
