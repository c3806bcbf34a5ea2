// Package guard implements the constructor-guard pattern used by domain
// value objects and aggregates to detect zero-value instances that bypassed
// their constructor functions.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when the guarded object
// was not created through its constructor and no specific error was provided.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks an object as properly constructed. Embed it in a
// struct and set it via NewConstructorGuard inside the constructor; the zero
// value fails Validate, so zero-value structs are detectable.
//
// Example:
//
//	type Money struct {
//	    amount   int
//	    currency string
//	    guard    guard.ConstructorGuard
//	}
//
//	func NewMoney(amount int, currency string) (Money, error) {
//	    // validation ...
//	    return Money{amount: amount, currency: currency, guard: guard.NewConstructorGuard()}, nil
//	}
//
//	func (m Money) Validate() error {
//	    return m.guard.Validate(ErrMoneyNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard creates a guard marking its owner as properly constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil when the owner was properly constructed.
// Otherwise it returns validationError, or ErrDefaultConstructorGuard
// when validationError is nil.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
