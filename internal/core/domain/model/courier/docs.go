// Package courier provides domain entities and business logic for courier
// management in the dispatch system. It implements the Courier aggregate
// root with availability, verification, live location, and per-courier
// order bookkeeping.
//
// The package includes:
//   - Courier: The aggregate root managing identity, availability, location, and order sets
//   - Rating: A value object aggregating delivery scores
//
// Key business rules:
//   - A courier starts unverified and unavailable; verification is granted by an external collaborator
//   - Matching requires the courier to be verified, available, and to have reported a location
//   - The rejection set grows monotonically and only filters matches for this courier
//   - activeOrderIDs is a projection of the Order store and can be rebuilt from it
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are enforced.
package courier
