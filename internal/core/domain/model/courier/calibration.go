package courier

import (
	"fmt"
	"math"

	"delivery/internal/pkg/errs"
	"delivery/internal/pkg/guard"
)

const (
	BiasFactorMin     = 0.75
	BiasFactorMax     = 1.45
	DefaultBiasFactor = 1.0

	ReliabilityScoreMin     = 35.0
	ReliabilityScoreMax     = 99.0
	DefaultReliabilityScore = 80.0
)

var ErrCalibrationIsNotConstructed = errs.NewValueIsRequiredError(
	"calibration must be created via NewCalibration or DefaultCalibration")

// Calibration is the per-courier correction applied to raw optimizer ETAs.
// Values outside the allowed ranges are clamped, never rejected.
type Calibration struct {
	biasFactor       float64
	reliabilityScore float64
	completedCount   int
	guard            guard.ConstructorGuard
}

func NewCalibration(biasFactor, reliabilityScore float64, completedCount int) (Calibration, error) {
	if math.IsNaN(biasFactor) || math.IsInf(biasFactor, 0) {
		return Calibration{}, errs.NewValueIsInvalidErrorWithCause("biasFactor", fmt.Errorf("%v is not finite", biasFactor))
	}
	if math.IsNaN(reliabilityScore) || math.IsInf(reliabilityScore, 0) {
		return Calibration{}, errs.NewValueIsInvalidErrorWithCause(
			"reliabilityScore", fmt.Errorf("%v is not finite", reliabilityScore))
	}
	if completedCount < 0 {
		return Calibration{}, errs.NewValueIsOutOfRangeError("completedCount", completedCount, 0, math.MaxInt)
	}

	return Calibration{
		biasFactor:       clamp(biasFactor, BiasFactorMin, BiasFactorMax),
		reliabilityScore: clamp(reliabilityScore, ReliabilityScoreMin, ReliabilityScoreMax),
		completedCount:   completedCount,
		guard:            guard.NewConstructorGuard(),
	}, nil
}

func DefaultCalibration() Calibration {
	return Calibration{
		biasFactor:       DefaultBiasFactor,
		reliabilityScore: DefaultReliabilityScore,
		guard:            guard.NewConstructorGuard(),
	}
}

func (c Calibration) Validate() error {
	return c.guard.Validate(ErrCalibrationIsNotConstructed)
}

func (c Calibration) BiasFactor() float64 {
	return c.biasFactor
}

func (c Calibration) ReliabilityScore() float64 {
	return c.reliabilityScore
}

func (c Calibration) CompletedCount() int {
	return c.completedCount
}

func (c Calibration) String() string {
	return fmt.Sprintf("Calibration(bias=%.3f, reliability=%.1f, completed=%d)",
		c.biasFactor, c.reliabilityScore, c.completedCount)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
