package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var (
	ErrRegisterCourierCommandIsNotConstructed = errors.New(
		"RegisterCourierCommand must be created via NewRegisterCourierCommand constructor",
	)
	ErrCourierNameIsRequired = errors.New("courier name is required")
	ErrCapacityIsInvalid     = errors.New("capacity must be greater than 0")
)

// RegisterCourierCommand represents a request to add a courier to the fleet.
type RegisterCourierCommand struct { //nolint:recvcheck //using for validation
	courierID kernel.UUID
	name      string
	capacity  int
	location  kernel.Location

	guard guard.ConstructorGuard
}

// NewRegisterCourierCommand creates a command to register a new courier.
// Validates that the courier ID is valid, the name is not empty, the
// capacity is positive and the starting location is on the grid.
func NewRegisterCourierCommand(
	courierID kernel.UUID,
	name string,
	capacity int,
	location kernel.Location,
) (RegisterCourierCommand, error) {
	cmd := RegisterCourierCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setCourierID(courierID),
		cmd.setName(name),
		cmd.setCapacity(capacity),
		cmd.setLocation(location),
	); err != nil {
		return RegisterCourierCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RegisterCourierCommand) Validate() error {
	return c.guard.Validate(ErrRegisterCourierCommandIsNotConstructed)
}

// CourierID returns the identifier of the new courier.
func (c RegisterCourierCommand) CourierID() kernel.UUID {
	return c.courierID
}

// Name returns the courier's display name.
func (c RegisterCourierCommand) Name() string {
	return c.name
}

// Capacity returns the courier's maximum concurrent orders.
func (c RegisterCourierCommand) Capacity() int {
	return c.capacity
}

// Location returns the courier's starting position on the delivery grid.
func (c RegisterCourierCommand) Location() kernel.Location {
	return c.location
}

func (c *RegisterCourierCommand) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	c.courierID = courierID
	return nil
}

func (c *RegisterCourierCommand) setName(name string) error {
	if name == "" {
		return ErrCourierNameIsRequired
	}

	c.name = name
	return nil
}

func (c *RegisterCourierCommand) setCapacity(capacity int) error {
	if capacity <= 0 {
		return ErrCapacityIsInvalid
	}

	c.capacity = capacity
	return nil
}

func (c *RegisterCourierCommand) setLocation(location kernel.Location) error {
	if err := location.Validate(); err != nil {
		return err
	}

	c.location = location
	return nil
}
