package order

import (
	"errors"
	"fmt"

	"marketplace/internal/pkg/errs"
)

// Errors returned by transition checks. ErrInvalidTransition and
// ErrOrderClosed are wrapped with the offending from/to pair so callers can
// surface a precise message.
var (
	// ErrInvalidTransition is returned when no role is permitted to move an
	// order between the requested pair of statuses.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrOrderClosed is returned for any transition attempt on a terminal
	// order (delivered or cancelled).
	ErrOrderClosed = errors.New("order closed")

	// ErrRoleNotPermitted is returned when the requested transition exists
	// but the caller's role is not allowed to perform it.
	ErrRoleNotPermitted = errors.New("role not permitted")
)

// Status represents the lifecycle state of an order.
// It implements a state machine whose edges are gated by the caller's Role:
//
//	Pending ──restaurant──> Confirmed ──restaurant──> Preparing ──restaurant──> ReadyForPickup
//	   │                        │                                                   │
//	customer/restaurant     restaurant                                          dispatch
//	   │                        │                                                   │
//	   v                        v                                                   v
//	Cancelled <──admin── (any non-terminal)                  OutForDelivery ──courier──> Delivered
//
// Delivered and Cancelled are terminal: no further transitions are accepted.
// Extending the workflow means adding table rows, not new code paths.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status of a freshly created order, awaiting
	// the restaurant's confirmation.
	Pending

	// Confirmed indicates the restaurant accepted the order.
	Confirmed

	// Preparing indicates the restaurant is preparing the order.
	Preparing

	// ReadyForPickup indicates the order awaits a courier. Entering this
	// status makes the order eligible for dispatch.
	ReadyForPickup

	// OutForDelivery indicates a courier is carrying the order.
	OutForDelivery

	// Delivered is the successful terminal status.
	Delivered

	// Cancelled is the terminal status for abandoned orders.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "unknown",
		Pending:        "pending",
		Confirmed:      "confirmed",
		Preparing:      "preparing",
		ReadyForPickup: "ready_for_pickup",
		OutForDelivery: "out_for_delivery",
		Delivered:      "delivered",
		Cancelled:      "cancelled",
	}
}

// StatusFromString parses a status name as used on the wire and in storage.
// Returns an error for unrecognized names and for "unknown".
func StatusFromString(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if name == s && status != Unknown {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// transitionTable lists, per origin status, the roles permitted to leave it
// and the statuses each role may move the order to. Admin cancellation from
// any non-terminal status is part of the table, not a code path.
func transitionTable() map[Status]map[Role][]Status {
	return map[Status]map[Role][]Status{
		Pending: {
			RoleRestaurant: {Confirmed, Cancelled},
			RoleCustomer:   {Cancelled},
			RoleAdmin:      {Cancelled},
		},
		Confirmed: {
			RoleRestaurant: {Preparing, Cancelled},
			RoleAdmin:      {Cancelled},
		},
		Preparing: {
			RoleRestaurant: {ReadyForPickup},
			RoleAdmin:      {Cancelled},
		},
		ReadyForPickup: {
			RoleDispatch: {OutForDelivery},
			RoleAdmin:    {Cancelled},
		},
		OutForDelivery: {
			RoleCourier: {Delivered},
			RoleAdmin:   {Cancelled},
		},
	}
}

// Validate checks if the Status value is one of the defined lifecycle states.
// Unknown (0) and any other values are invalid.
func (s Status) Validate() error {
	if s < Pending || s > Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the lowercase snake_case name of the status.
// It implements fmt.Stringer and is safe on any value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether the status accepts no further transitions.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// CanTransition checks whether role may move an order from s to target.
//
// The checks are ordered so callers get the most precise failure:
//  1. a terminal origin always fails with ErrOrderClosed;
//  2. a from/to pair no role allows fails with ErrInvalidTransition,
//     naming the attempted pair;
//  3. a pair some role allows, but not this one, fails with
//     ErrRoleNotPermitted.
//
// Returns nil when the transition is permitted.
func (s Status) CanTransition(target Status, role Role) error {
	if err := errors.Join(s.Validate(), target.Validate(), role.Validate()); err != nil {
		return err
	}

	if s.IsTerminal() {
		return fmt.Errorf("%w: order is %s", ErrOrderClosed, s)
	}

	edges := transitionTable()[s]

	allowedForSome := false
	for _, targets := range edges {
		if containsStatus(targets, target) {
			allowedForSome = true
			break
		}
	}
	if !allowedForSome {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s, target)
	}

	if !containsStatus(edges[role], target) {
		return fmt.Errorf("%w: %s may not move %s -> %s", ErrRoleNotPermitted, role, s, target)
	}

	return nil
}

// ValidateCanHaveCourier validates the consistency between order status and
// courier assignment. A courier is required while the order is out for
// delivery and on the delivered record, and must be absent everywhere else;
// an order waiting in ReadyForPickup has no courier because reservation and
// the OutForDelivery commit happen together.
func (s Status) ValidateCanHaveCourier(courier bool) error {
	requiresCourier := s == OutForDelivery || s == Delivered

	if courier && !requiresCourier {
		return errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status to have a courier", s),
		)
	}

	if !courier && requiresCourier {
		return errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status to have no courier", s),
		)
	}

	return nil
}

func containsStatus(list []Status, s Status) bool {
	for _, candidate := range list {
		if candidate == s {
			return true
		}
	}
	return false
}
