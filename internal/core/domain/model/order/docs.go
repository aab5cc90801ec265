// Package order provides domain entities and business logic for order
// management in the dispatch system. It implements the Order aggregate
// root with lifecycle management and state transitions.
//
// The package includes:
//   - Order: The aggregate root managing identity, items, geo points, courier assignment, and lifecycle
//   - Status: A state machine enforcing the monotonic order workflow
//   - Item: A value object for one order line
//   - HistoryEntry: An immutable record in the append-only status history
//
// Key business rules:
//   - Status moves monotonically along processing -> confirmed -> preparing -> out_for_delivery -> delivered
//   - Cancelled is reachable from any non-terminal status
//   - At most one courier is assigned at a time, set only on the out_for_delivery transition
//   - Every transition is appended to the status history
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are enforced.
package order
