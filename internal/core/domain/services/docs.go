// Package services holds the stateless domain services of the dispatcher:
//   - DistanceModel: the synthetic city-grid metric, travel and dwell times
//   - RouteOptimizer: orders a courier's stops, exactly up to ExactSearchLimit
//     stops and greedily beyond
//   - EtaCalibrator: turns raw optimizer ETAs into courier-calibrated estimates
//   - EstimateCalibration: learns bias and reliability from completed routes
//   - OptimizingPlanner and FallbackSchedule: the normal and the degraded way of
//     producing a courier schedule
//   - CourierSelector: picks the courier for a new order
//
// Everything here is deterministic for the same input.
package services
