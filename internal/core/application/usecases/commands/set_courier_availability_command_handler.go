package commands

import (
	"context"

	"marketplace/internal/core/domain/services"
)

// SetCourierAvailabilityCommandHandler handles duty status changes.
// The persisted row is updated first; the in-process directory follows
// after a successful commit.
type SetCourierAvailabilityCommandHandler struct {
	uowFactory CourierUoWFactory
	directory  *services.CourierDirectory
}

// NewSetCourierAvailabilityCommandHandler creates a handler for duty
// status changes.
func NewSetCourierAvailabilityCommandHandler(
	uowFactory CourierUoWFactory,
	directory *services.CourierDirectory,
) SetCourierAvailabilityCommandHandler {
	return SetCourierAvailabilityCommandHandler{
		uowFactory: uowFactory,
		directory:  directory,
	}
}

// Handle processes the duty status command.
func (h *SetCourierAvailabilityCommandHandler) Handle(ctx context.Context, cmd SetCourierAvailabilityCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.CourierRepository().Get(ctx, cmd.CourierID())
	if err != nil {
		return err
	}

	aggregate.SetOnDuty(cmd.OnDuty())

	if err = uow.CourierRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return h.directory.SetOnDuty(cmd.CourierID(), cmd.OnDuty())
}
