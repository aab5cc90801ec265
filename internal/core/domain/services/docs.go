// Package services provides domain services that orchestrate business operations
// across multiple domain entities in the dispatch system. It implements business
// workflows that don't naturally belong to a single aggregate root.
//
// The package includes:
//   - OrderMatcher: A domain service that computes the set of orders a courier
//     can work on, combining radius matching with per-courier exclusions
//
// Domain services coordinate between aggregates, implementing business logic that
// spans multiple bounded contexts following Domain-Driven Design principles.
package services
