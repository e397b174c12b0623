package commands

import (
	"errors"

	"delivery/internal/core/domain/model/route"
	"delivery/internal/core/domain/services"
	"delivery/internal/pkg/errs"
	"delivery/internal/pkg/metrics"
)

// Outcome tells callers how a command was carried out.
type Outcome string

const (
	// OutcomeApplied means every step succeeded.
	OutcomeApplied Outcome = "applied"
	// OutcomeDegraded means the change was applied but at least one best
	// effort step took its fallback path.
	OutcomeDegraded Outcome = "degraded"
	// OutcomeRejected means a business rule refused the command; nothing
	// was written.
	OutcomeRejected Outcome = "rejected"
)

// Degradation names one fallback path taken while serving a command.
type Degradation string

const (
	DegradedFallbackSchedule Degradation = "fallback_schedule"
	DegradedSnapshotSync     Degradation = "snapshot_sync"
	DegradedStatusSync       Degradation = "status_sync"
)

var ErrRouteIsNotOwned = errors.New("route is assigned to another courier")

// Result is returned by every handler alongside its payload.
type Result struct {
	Outcome      Outcome
	Degradations []Degradation
}

func applied() Result {
	return Result{Outcome: OutcomeApplied}
}

func (r *Result) degrade(d Degradation) {
	metrics.Degradations.WithLabelValues(string(d)).Inc()
	r.Outcome = OutcomeDegraded
	for _, existing := range r.Degradations {
		if existing == d {
			return
		}
	}
	r.Degradations = append(r.Degradations, d)
}

// IsDegraded reports whether the given fallback path was taken.
func (r Result) IsDegraded(d Degradation) bool {
	for _, existing := range r.Degradations {
		if existing == d {
			return true
		}
	}
	return false
}

// IsRejection reports whether err is a business rule violation rather than an
// infrastructure failure.
func IsRejection(err error) bool {
	return errors.Is(err, errs.ErrValueIsRequired) ||
		errors.Is(err, errs.ErrValueIsInvalid) ||
		errors.Is(err, errs.ErrValueIsOutOfRange) ||
		errors.Is(err, errs.ErrObjectNotFound) ||
		errors.Is(err, route.ErrInvalidTransition) ||
		errors.Is(err, route.ErrRouteIsCompleted) ||
		errors.Is(err, ErrRouteIsNotOwned) ||
		errors.Is(err, services.ErrCourierNotFound)
}

// conclude records the outcome metric and turns business rule violations into
// rejected results. Infrastructure errors keep an empty outcome.
func conclude(command string, result Result, err error) (Result, error) {
	switch {
	case err == nil:
		metrics.CommandOutcomes.WithLabelValues(command, string(result.Outcome)).Inc()
		return result, nil
	case IsRejection(err):
		metrics.CommandOutcomes.WithLabelValues(command, string(OutcomeRejected)).Inc()
		return Result{Outcome: OutcomeRejected}, err
	default:
		metrics.CommandOutcomes.WithLabelValues(command, "failed").Inc()
		return Result{}, err
	}
}

func (r *Result) absorb(schedule CourierSchedule) {
	if schedule.Schedule.Degraded {
		r.degrade(DegradedFallbackSchedule)
	}
}
