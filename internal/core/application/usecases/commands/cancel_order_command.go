package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/guard"
)

var ErrCancelOrderCommandIsNotConstructed = errors.New(
	"CancelOrderCommand must be created via NewCancelOrderCommand constructor",
)

// CancelOrderCommand represents a request to cancel an order on behalf of
// an authenticated actor, with an optional reason recorded in the order
// history.
type CancelOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actor   ports.Actor
	reason  string

	guard guard.ConstructorGuard
}

// NewCancelOrderCommand creates a command to cancel an order.
func NewCancelOrderCommand(orderID kernel.UUID, actor ports.Actor, reason string) (CancelOrderCommand, error) {
	cmd := CancelOrderCommand{
		guard:  guard.NewConstructorGuard(),
		reason: reason,
	}

	if err := errors.Join(
		orderID.Validate(),
		actor.UserID.Validate(),
		actor.Role.Validate(),
	); err != nil {
		return CancelOrderCommand{}, err
	}

	cmd.orderID = orderID
	cmd.actor = actor
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CancelOrderCommand) Validate() error {
	return c.guard.Validate(ErrCancelOrderCommandIsNotConstructed)
}

// OrderID returns the order being cancelled.
func (c CancelOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Actor returns the authenticated principal requesting the cancellation.
func (c CancelOrderCommand) Actor() ports.Actor {
	return c.actor
}

// Reason returns the optional cancellation reason.
func (c CancelOrderCommand) Reason() string {
	return c.reason
}
