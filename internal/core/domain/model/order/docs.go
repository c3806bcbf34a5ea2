// Package order provides domain entities and business logic for order
// lifecycle management in the marketplace. It implements the Order aggregate
// root with role-gated status transitions.
//
// The package includes:
//   - Order: The aggregate root owning identity, priced items, courier
//     assignment, version counter and transition history
//   - Status: A state machine whose edges are gated by the caller's Role
//   - Role: The kind of actor requesting a transition
//   - Item: An ordered line with a unit-price snapshot
//
// Key business rules:
//   - total = subtotal - discount and total is never negative
//   - transitions follow a static table keyed by (status, role);
//     delivered and cancelled are terminal
//   - a courier is attached exactly while the status requires one;
//     cancellation dissolves the assignment
//   - every committed transition appends one history record
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are enforced.
package order
