// Package services provides domain services that implement business rules
// spanning multiple aggregates.
//
// The package includes:
//   - AccessPolicy: the consolidated role matrix deciding which actor may
//     drive which order transition, who may chat on an order, and who the
//     derived message recipient is
//
// Keeping authorization in a single domain service prevents the role matrix
// from drifting apart between the HTTP surface, the realtime surface, and
// background jobs.
package services
