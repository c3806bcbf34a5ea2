package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/guard"
)

var ErrTransitionOrderCommandIsNotConstructed = errors.New(
	"TransitionOrderCommand must be created via NewTransitionOrderCommand constructor",
)

// TransitionOrderCommand represents a request to move an order to a new
// lifecycle status on behalf of an authenticated actor.
//
// Example:
//
//	cmd, err := NewTransitionOrderCommand(orderID, order.Confirmed, actor, "")
//	if err != nil {
//	    return fmt.Errorf("invalid transition request: %w", err)
//	}
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("transition failed: %w", err)
//	}
type TransitionOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	target  order.Status
	actor   ports.Actor
	note    string

	guard guard.ConstructorGuard
}

// NewTransitionOrderCommand creates a command to move an order to the target
// status. Validates the order ID, the target status and the actor's role.
func NewTransitionOrderCommand(
	orderID kernel.UUID,
	target order.Status,
	actor ports.Actor,
	note string,
) (TransitionOrderCommand, error) {
	cmd := TransitionOrderCommand{
		guard: guard.NewConstructorGuard(),
		note:  note,
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setTarget(target),
		cmd.setActor(actor),
	); err != nil {
		return TransitionOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c TransitionOrderCommand) Validate() error {
	return c.guard.Validate(ErrTransitionOrderCommandIsNotConstructed)
}

// OrderID returns the order being transitioned.
func (c TransitionOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Target returns the requested lifecycle status.
func (c TransitionOrderCommand) Target() order.Status {
	return c.target
}

// Actor returns the authenticated principal requesting the transition.
func (c TransitionOrderCommand) Actor() ports.Actor {
	return c.actor
}

// Note returns the optional free-form note recorded in the order history.
func (c TransitionOrderCommand) Note() string {
	return c.note
}

func (c *TransitionOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *TransitionOrderCommand) setTarget(target order.Status) error {
	if err := target.Validate(); err != nil {
		return err
	}

	c.target = target
	return nil
}

func (c *TransitionOrderCommand) setActor(actor ports.Actor) error {
	if err := errors.Join(
		actor.UserID.Validate(),
		actor.Role.Validate(),
	); err != nil {
		return err
	}

	c.actor = actor
	return nil
}
