package services

import (
	"math"

	"delivery/internal/core/domain/model/courier"
	"delivery/internal/core/domain/model/route"

	"gonum.org/v1/gonum/stat"
)

// CalibrationWindow is how many of a courier's most recent completed routes
// feed its calibration.
const CalibrationWindow = 80

type CompletionSample struct {
	PredictedMinutes float64
	ActualMinutes    float64
}

// SampleFromRoute measures a completed route: the prediction is the first
// calibrated ETA it received, the actual duration runs from creation to
// completion and is floored at one minute. Routes without a prediction are
// skipped.
func SampleFromRoute(r *route.Route) (CompletionSample, bool) {
	if r.Status() != route.Done || r.CompletedAt() == nil || r.InitialEtaMinutes() <= 0 {
		return CompletionSample{}, false
	}

	actual := math.Max(1, r.CompletedAt().Sub(r.CreatedAt()).Minutes())
	return CompletionSample{
		PredictedMinutes: float64(r.InitialEtaMinutes()),
		ActualMinutes:    actual,
	}, true
}

// EstimateCalibration derives bias and reliability from the newest samples
// (the first CalibrationWindow of the slice):
//
//	bias        = mean(actual / predicted)
//	reliability = 100 - mean(|actual - predicted| / predicted) * 100
//
// Without samples the courier keeps the default calibration. Clamping is left
// to courier.NewCalibration.
func EstimateCalibration(samples []CompletionSample, completedCount int) (courier.Calibration, error) {
	if len(samples) > CalibrationWindow {
		samples = samples[:CalibrationWindow]
	}
	if len(samples) == 0 {
		return courier.NewCalibration(courier.DefaultBiasFactor, courier.DefaultReliabilityScore, completedCount)
	}

	ratios := make([]float64, len(samples))
	relErrors := make([]float64, len(samples))
	for i, s := range samples {
		ratios[i] = s.ActualMinutes / s.PredictedMinutes
		relErrors[i] = math.Abs(s.ActualMinutes-s.PredictedMinutes) / s.PredictedMinutes
	}

	bias := stat.Mean(ratios, nil)
	reliability := 100 - stat.Mean(relErrors, nil)*100

	return courier.NewCalibration(bias, reliability, completedCount)
}
