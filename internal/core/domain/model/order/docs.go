// Package order provides the Order aggregate root and its lifecycle state
// machine for the order distribution subsystem.
//
// The package includes:
//   - Order: the aggregate root linking customer, vendor, and courier
//   - Status: a state machine enforcing the fixed lifecycle graph
//   - Event: the immutable record of one accepted mutation
//
// Key business rules:
//   - Status follows a single forward path: pending -> confirmed -> preparing
//     -> ready -> picked_up -> in_transit -> delivered, one step at a time
//   - Cancellation is reachable from any non-terminal status; delivered and
//     cancelled are terminal
//   - Re-submitting the current status is rejected, not silently accepted
//   - Courier assignment happens at most once, while the order is ready or
//     earlier
//
// Which role may drive which transition is not decided here; that lives in
// the services.AccessPolicy so the role matrix stays in one place.
package order
