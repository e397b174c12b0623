package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"delivery/internal/core/domain/model/kernel"
	"delivery/internal/core/domain/model/route"
	"delivery/internal/pkg/errs"
)

// ExactSearchLimit is the largest stop count searched exhaustively; beyond it
// the optimizer always runs the greedy heuristic.
const ExactSearchLimit = 5

// distanceEpsilon absorbs float noise when comparing route totals, so that the
// first ordering found wins ties.
const distanceEpsilon = 1e-9

var ErrDuplicateStop = errors.New("stop is listed twice")

type Mode string

const (
	ModeExact     Mode = "exact"
	ModeHeuristic Mode = "heuristic"
)

// ParseMode accepts "exact", "heuristic" and the empty string, which selects
// exact search.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeExact:
		return ModeExact, nil
	case ModeHeuristic:
		return ModeHeuristic, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("mode", fmt.Errorf("%q is not exact or heuristic", s))
	}
}

// Stop is one active route of the courier as seen by the optimizer.
type Stop struct {
	OrderID  kernel.UUID
	Location kernel.Location
	Status   route.Status
}

// PlannedStop is one step of the visiting order with raw, uncalibrated times.
type PlannedStop struct {
	Sequence      int
	OrderID       kernel.UUID
	DistanceKm    float64
	TravelMinutes int
	DwellMinutes  int
	EtaMinutes    int
	CumulativeKm  float64
}

type Plan struct {
	Mode            Mode
	Steps           []PlannedStop
	TotalMinutes    int
	TotalDistanceKm float64
}

// RouteOptimizer orders one courier's stops to minimise the total distance
// travelled from the courier's position.
type RouteOptimizer struct {
	distances DistanceModel
}

func NewRouteOptimizer(distances DistanceModel) RouteOptimizer {
	return RouteOptimizer{distances: distances}
}

// Optimize returns an empty plan for no stops. Stops are sorted by order ID
// before searching, which makes every tie-break deterministic.
func (o RouteOptimizer) Optimize(start kernel.Location, stops []Stop, hint Mode) (Plan, error) {
	if err := o.validate(start, stops); err != nil {
		return Plan{}, err
	}

	mode := hint
	if mode == "" {
		mode = ModeExact
	}
	if len(stops) > ExactSearchLimit {
		mode = ModeHeuristic
	}

	sorted := make([]Stop, len(stops))
	copy(sorted, stops)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].OrderID.Less(sorted[j].OrderID) })

	var order []int
	switch mode {
	case ModeExact:
		order = o.exact(start, sorted)
	case ModeHeuristic:
		order = o.nearestNeighbour(start, sorted)
	default:
		return Plan{}, errs.NewValueIsInvalidErrorWithCause("mode", fmt.Errorf("%q is not supported", hint))
	}

	return o.buildPlan(mode, start, sorted, order), nil
}

// TotalDistance is the length of visiting stops in the given order.
func (o RouteOptimizer) TotalDistance(start kernel.Location, stops []Stop) float64 {
	total := 0.0
	cursor := start
	for _, s := range stops {
		total += o.distances.Distance(cursor, s.Location)
		cursor = s.Location
	}
	return roundTo(total, 100)
}

func (o RouteOptimizer) validate(start kernel.Location, stops []Stop) error {
	if err := start.Validate(); err != nil {
		return err
	}

	seen := make(map[kernel.UUID]struct{}, len(stops))
	for _, s := range stops {
		if err := errors.Join(s.OrderID.Validate(), s.Location.Validate(), s.Status.Validate()); err != nil {
			return fmt.Errorf("stop %s: %w", s.OrderID, err)
		}
		if _, ok := seen[s.OrderID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateStop, s.OrderID)
		}
		seen[s.OrderID] = struct{}{}
	}
	return nil
}

// nearestNeighbour repeatedly visits the closest remaining stop. Equal
// distances keep the stop with the smaller order ID.
func (o RouteOptimizer) nearestNeighbour(start kernel.Location, stops []Stop) []int {
	visited := make([]bool, len(stops))
	order := make([]int, 0, len(stops))
	cursor := start

	for range stops {
		best := -1
		bestKm := 0.0
		for i, s := range stops {
			if visited[i] {
				continue
			}
			km := o.distances.Distance(cursor, s.Location)
			if best == -1 || km < bestKm-distanceEpsilon {
				best, bestKm = i, km
			}
		}
		visited[best] = true
		order = append(order, best)
		cursor = stops[best].Location
	}
	return order
}

// exact walks all permutations in lexicographic order of the sorted stops and
// prunes prefixes that are already no shorter than the best complete route.
func (o RouteOptimizer) exact(start kernel.Location, stops []Stop) []int {
	n := len(stops)
	best := make([]int, 0, n)
	bestKm := -1.0

	used := make([]bool, n)
	prefix := make([]int, 0, n)

	var walk func(cursor kernel.Location, km float64)
	walk = func(cursor kernel.Location, km float64) {
		if bestKm >= 0 && km >= bestKm-distanceEpsilon {
			return
		}
		if len(prefix) == n {
			bestKm = km
			best = append(best[:0], prefix...)
			return
		}
		for i := range stops {
			if used[i] {
				continue
			}
			used[i] = true
			prefix = append(prefix, i)
			walk(stops[i].Location, km+o.distances.Distance(cursor, stops[i].Location))
			prefix = prefix[:len(prefix)-1]
			used[i] = false
		}
	}
	walk(start, 0)

	return best
}

func (o RouteOptimizer) buildPlan(mode Mode, start kernel.Location, stops []Stop, order []int) Plan {
	plan := Plan{Mode: mode, Steps: make([]PlannedStop, 0, len(order))}

	cursor := start
	eta := 0
	cumulative := 0.0
	for idx, i := range order {
		s := stops[i]
		leg := o.distances.Distance(cursor, s.Location)
		travel := o.distances.TravelMinutes(leg, idx)
		dwell := DwellMinutes(s.Status)

		eta += travel + dwell
		cumulative = roundTo(cumulative+leg, 100)

		plan.Steps = append(plan.Steps, PlannedStop{
			Sequence:      idx + 1,
			OrderID:       s.OrderID,
			DistanceKm:    leg,
			TravelMinutes: travel,
			DwellMinutes:  dwell,
			EtaMinutes:    eta,
			CumulativeKm:  cumulative,
		})
		cursor = s.Location
	}

	plan.TotalMinutes = eta
	plan.TotalDistanceKm = cumulative
	return plan
}
