package route

import (
	"fmt"
	"math"

	"delivery/internal/pkg/errs"
	"delivery/internal/pkg/guard"
)

const (
	ConfidenceMin = 0.0
	ConfidenceMax = 100.0
)

var ErrEtaIsNotConstructed = errs.NewValueIsRequiredError("eta must be created via NewEta constructor")

// Eta is the arrival estimate of a route in whole minutes: a point value, its
// confidence band and a confidence score.
type Eta struct {
	minutes    int
	lower      int
	upper      int
	confidence float64
	guard      guard.ConstructorGuard
}

// NewEta requires 1 <= lower <= minutes <= upper.
func NewEta(minutes, lower, upper int, confidence float64) (Eta, error) {
	if lower < 1 {
		return Eta{}, errs.NewValueIsOutOfRangeError("etaLowerMinutes", lower, 1, minutes)
	}
	if minutes < lower || minutes > upper {
		return Eta{}, errs.NewValueIsInvalidErrorWithCause(
			"eta", fmt.Errorf("bounds %d..%d do not contain %d", lower, upper, minutes))
	}
	if math.IsNaN(confidence) || confidence < ConfidenceMin || confidence > ConfidenceMax {
		return Eta{}, errs.NewValueIsOutOfRangeError("etaConfidenceScore", confidence, ConfidenceMin, ConfidenceMax)
	}

	return Eta{
		minutes:    minutes,
		lower:      lower,
		upper:      upper,
		confidence: confidence,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (e Eta) Validate() error {
	return e.guard.Validate(ErrEtaIsNotConstructed)
}

func (e Eta) Minutes() int {
	return e.minutes
}

func (e Eta) LowerMinutes() int {
	return e.lower
}

func (e Eta) UpperMinutes() int {
	return e.upper
}

func (e Eta) Confidence() float64 {
	return e.confidence
}

func (e Eta) String() string {
	return fmt.Sprintf("%dm [%d..%d] %.1f%%", e.minutes, e.lower, e.upper, e.confidence)
}

func (e Eta) IsEqual(other Eta) bool {
	return e.minutes == other.minutes && e.lower == other.lower && e.upper == other.upper &&
		math.Abs(e.confidence-other.confidence) < 1e-9
}
