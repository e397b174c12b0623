// Package route implements the Route aggregate: the assignment of one order to
// one courier together with its delivery status, its place in the courier's
// schedule and its calibrated ETA.
//
// Route follows these invariants:
//   - At most one non-terminal route exists per order (enforced by the store)
//   - Status only moves forward through assigned -> cooking -> delivery -> done,
//     except for administrative overrides
//   - ETA point, bounds and confidence are replaced together as one Eta value
//   - completedAt is set exactly once, when the route reaches done
package route
