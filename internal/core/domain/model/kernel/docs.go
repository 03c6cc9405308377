// Package kernel provides core domain primitives shared by every aggregate in
// the order lifecycle model.
//
// The package includes:
//   - UUID: a value object for unique identifiers with validation and comparison
//   - Money: a non-negative monetary amount in integer cents
//   - Address: a non-empty postal address line for pickup and delivery points
//
// These primitives enforce their invariants at construction time, so domain
// objects built from them are always in a valid state. They are immutable and
// thread-safe, making them suitable for concurrent use.
package kernel
