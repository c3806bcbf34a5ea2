package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrSetCourierAvailabilityCommandIsNotConstructed = errors.New(
	"SetCourierAvailabilityCommand must be created via NewSetCourierAvailabilityCommand constructor",
)

// SetCourierAvailabilityCommand represents a request to put a courier on or
// off duty. An off-duty courier stops receiving new assignments but keeps
// the orders already in flight.
type SetCourierAvailabilityCommand struct { //nolint:recvcheck //using for validation
	courierID kernel.UUID
	onDuty    bool

	guard guard.ConstructorGuard
}

// NewSetCourierAvailabilityCommand creates a command to change a courier's
// duty status.
func NewSetCourierAvailabilityCommand(courierID kernel.UUID, onDuty bool) (SetCourierAvailabilityCommand, error) {
	if err := courierID.Validate(); err != nil {
		return SetCourierAvailabilityCommand{}, err
	}

	return SetCourierAvailabilityCommand{
		guard:     guard.NewConstructorGuard(),
		courierID: courierID,
		onDuty:    onDuty,
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c SetCourierAvailabilityCommand) Validate() error {
	return c.guard.Validate(ErrSetCourierAvailabilityCommandIsNotConstructed)
}

// CourierID returns the courier whose duty status changes.
func (c SetCourierAvailabilityCommand) CourierID() kernel.UUID {
	return c.courierID
}

// OnDuty returns the requested duty status.
func (c SetCourierAvailabilityCommand) OnDuty() bool {
	return c.onDuty
}
