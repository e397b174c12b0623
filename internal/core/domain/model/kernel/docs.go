// Package kernel holds the value objects shared by every aggregate of the
// dispatch domain:
//   - UUID: identifiers of couriers, routes, orders and customers
//   - Location: a validated WGS84 coordinate pair with the planar city metric
//     used for courier selection
//
// Values are immutable and must be created through their constructors; a zero
// value fails Validate.
package kernel
