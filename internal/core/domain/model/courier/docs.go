// Package courier implements the Courier aggregate of the courier directory.
//
// A courier carries its last reported position, an availability flag that the
// dispatcher keeps equal to "has no active routes", and a Calibration: the bias
// factor and reliability score learned from the courier's completed deliveries.
//
// Key business rules:
//   - Couriers must have a valid identifier, a name and a position
//   - Bias factor is clamped to [0.75, 1.45], reliability score to [35, 99]
//   - New couriers start available with the default calibration (1.0, 80)
package courier
