// Package services provides domain services that orchestrate business operations
// across multiple domain entities in the marketplace. It implements complex
// business workflows that don't naturally belong to a single aggregate root.
//
// The package includes:
//   - PricingEngine: computes order quotes from lines and an optional coupon
//   - CourierDirectory: the in-process courier registry with atomic slot reservation
//   - Dispatcher: ranks available couriers and reserves the best one for a pickup
//
// Domain services coordinate between aggregates, implementing business logic that
// spans multiple bounded contexts following Domain-Driven Design principles.
package services
