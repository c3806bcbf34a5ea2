package order

import (
	"fmt"

	"marketplace/internal/pkg/errs"
)

// Role identifies the kind of actor requesting an order transition.
// The state machine is keyed by (status, role) pairs, so the role fully
// determines which transitions a caller may perform.
type Role int

const (
	// RoleUnknown represents an invalid or undefined role.
	RoleUnknown Role = iota

	// RoleCustomer is the customer who placed the order.
	RoleCustomer

	// RoleRestaurant is the restaurant (owner) preparing the order.
	RoleRestaurant

	// RoleCourier is the courier carrying the order.
	RoleCourier

	// RoleAdmin is a marketplace administrator.
	RoleAdmin

	// RoleDispatch is the system itself, acting when the dispatch engine
	// advances a ready order to delivery.
	RoleDispatch
)

func getRoleStrings() map[Role]string {
	return map[Role]string{
		RoleUnknown:    "unknown",
		RoleCustomer:   "customer",
		RoleRestaurant: "restaurant",
		RoleCourier:    "courier",
		RoleAdmin:      "admin",
		RoleDispatch:   "dispatch",
	}
}

// RoleFromString parses a role name as carried in identity tokens.
// Returns an error for unrecognized names and for "unknown".
func RoleFromString(s string) (Role, error) {
	for role, name := range getRoleStrings() {
		if name == s && role != RoleUnknown {
			return role, nil
		}
	}
	return RoleUnknown, errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a valid role", s))
}

// Validate checks that the role is one of the defined actor roles.
func (r Role) Validate() error {
	if r <= RoleUnknown || r > RoleDispatch {
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%d is not a valid role", r))
	}
	return nil
}

// String returns the lowercase name of the role.
// It implements fmt.Stringer and is safe on any value.
func (r Role) String() string {
	if str, ok := getRoleStrings()[r]; ok {
		return str
	}
	return "unknown"
}
