package services

import (
	"fmt"
	"math"

	"delivery/internal/core/domain/model/courier"
	"delivery/internal/core/domain/model/route"
	"delivery/internal/pkg/errs"
)

const (
	spreadBase             = 0.10
	spreadPerMissingPoint  = 1.0 / 250
	SpreadMin              = 0.08
	SpreadMax              = 0.32
	ConfidenceDecayPerStop = 1.6
	ConfidenceFloor        = 30.0
	ConfidenceCeiling      = 99.0
)

// CalibratedStop is a planned stop with its courier-calibrated estimate.
type CalibratedStop struct {
	PlannedStop
	Eta route.Eta
}

// EtaCalibrator applies a courier's calibration to raw optimizer ETAs.
//
// For a raw ETA r, bias b, reliability q and 1-based position n:
//
//	eta        = max(1, round(r*b))
//	spread     = clamp((100-q)/250 + 0.10, 0.08, 0.32)
//	lower      = max(1, round(eta*(1-spread)))
//	upper      = max(lower, round(eta*(1+spread)))
//	confidence = clamp(q - 1.6*(n-1), 30, 99)
type EtaCalibrator struct{}

func NewEtaCalibrator() EtaCalibrator {
	return EtaCalibrator{}
}

func (c EtaCalibrator) Calibrate(plan Plan, calibration courier.Calibration) ([]CalibratedStop, error) {
	if err := calibration.Validate(); err != nil {
		return nil, err
	}

	out := make([]CalibratedStop, 0, len(plan.Steps))
	for _, step := range plan.Steps {
		if step.DistanceKm < 0 || math.IsNaN(step.DistanceKm) {
			return nil, errs.NewValueIsInvalidErrorWithCause("distanceKm", fmt.Errorf("%v is negative", step.DistanceKm))
		}
		eta, err := c.CalibrateEta(step.EtaMinutes, step.Sequence, calibration)
		if err != nil {
			return nil, err
		}
		out = append(out, CalibratedStop{PlannedStop: step, Eta: eta})
	}
	return out, nil
}

func (c EtaCalibrator) CalibrateEta(rawMinutes, sequence int, calibration courier.Calibration) (route.Eta, error) {
	if rawMinutes < 0 {
		return route.Eta{}, errs.NewValueIsOutOfRangeError("etaMinutes", rawMinutes, 0, math.MaxInt)
	}
	if sequence < 1 {
		return route.Eta{}, errs.NewValueIsOutOfRangeError("sequence", sequence, 1, math.MaxInt)
	}

	reliability := calibration.ReliabilityScore()
	calibrated := max(1, int(math.Round(float64(rawMinutes)*calibration.BiasFactor())))

	spread := Spread(reliability)
	lower := max(1, int(math.Round(float64(calibrated)*(1-spread))))
	upper := max(lower, int(math.Round(float64(calibrated)*(1+spread))))

	return route.NewEta(calibrated, lower, upper, Confidence(reliability, sequence))
}

// Spread is the relative half-width of the ETA band for a reliability score.
func Spread(reliability float64) float64 {
	return math.Max(SpreadMin, math.Min(SpreadMax, (100-reliability)*spreadPerMissingPoint+spreadBase))
}

// Confidence decays the reliability score along the schedule, rounded to 0.1.
func Confidence(reliability float64, sequence int) float64 {
	raw := reliability - ConfidenceDecayPerStop*float64(sequence-1)
	return roundTo(math.Max(ConfidenceFloor, math.Min(ConfidenceCeiling, raw)), 10)
}
