package commands

import (
	"context"

	"marketplace/internal/core/domain/model/courier"
	"marketplace/internal/core/domain/services"
)

// RegisterCourierCommandHandler handles adding couriers to the fleet.
// The courier is persisted first; once the transaction commits it is
// published into the in-process directory and becomes dispatchable.
type RegisterCourierCommandHandler struct {
	uowFactory CourierUoWFactory
	directory  *services.CourierDirectory
}

// NewRegisterCourierCommandHandler creates a handler for courier registration.
func NewRegisterCourierCommandHandler(
	uowFactory CourierUoWFactory,
	directory *services.CourierDirectory,
) RegisterCourierCommandHandler {
	return RegisterCourierCommandHandler{
		uowFactory: uowFactory,
		directory:  directory,
	}
}

// Handle processes the courier registration command.
func (h *RegisterCourierCommandHandler) Handle(ctx context.Context, cmd RegisterCourierCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	newCourier, err := courier.NewCourier(cmd.CourierID(), cmd.Name(), cmd.Capacity(), cmd.Location())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.CourierRepository().Add(ctx, newCourier); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return h.directory.Upsert(newCourier)
}
