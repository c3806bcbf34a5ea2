package commands

import (
	"context"

	"marketplace/internal/core/domain/model/order"
)

// CancelOrderCommandHandler handles order cancellation.
//
// Cancellation is a transition to the cancelled status: the same role gates,
// participant checks, courier release and concurrency control apply, so the
// handler delegates to the transition handler.
type CancelOrderCommandHandler struct {
	transitions TransitionOrderCommandHandler
}

// NewCancelOrderCommandHandler creates a handler for order cancellation.
func NewCancelOrderCommandHandler(transitions TransitionOrderCommandHandler) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		transitions: transitions,
	}
}

// Handle processes the cancellation command.
func (h *CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	note := cmd.Reason()
	if note == "" {
		note = "order cancelled"
	}

	transition, err := NewTransitionOrderCommand(cmd.OrderID(), order.Cancelled, cmd.Actor(), note)
	if err != nil {
		return err
	}

	return h.transitions.Handle(ctx, transition)
}
