// Package courier provides domain entities and business logic for courier
// management in the marketplace. It implements the Courier aggregate root
// with duty status, position tracking and concurrent order capacity.
//
// The package includes:
//   - Courier: The aggregate root that manages courier identity, position,
//     duty status and the reserve/release of order slots
//
// Key business rules:
//   - Couriers must have a valid unique identifier, name, and positive capacity
//   - A slot can be reserved only while the courier is on duty and the number
//     of active orders is below capacity
//   - Released slots immediately become available for new assignments
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are enforced.
package courier
