package services

import (
	"sort"

	"delivery/internal/core/domain/model/courier"
	"delivery/internal/core/domain/model/kernel"
	"delivery/internal/core/domain/model/route"

	"github.com/zeebo/xxh3"
)

const (
	FallbackConfidence   = 45.0
	fallbackBaseMinutes  = 5
	fallbackStepMinutes  = 2
	fallbackLowerMinutes = 2
	fallbackUpperMinutes = 4
	fallbackLegKm        = 1.5

	placeholderBaseMinutes = 5
	placeholderSpread      = 10
)

// ScheduledStop is the slot a route takes in its courier's schedule.
type ScheduledStop struct {
	OrderID       kernel.UUID
	Sequence      int
	Eta           route.Eta
	RawEtaMinutes int
	DistanceKm    float64
	CumulativeKm  float64
	TravelMinutes int
	DwellMinutes  int
}

// Schedule is a courier's complete, calibrated visiting order. Degraded is set
// when it was produced by FallbackSchedule.
type Schedule struct {
	Mode            Mode
	Degraded        bool
	Stops           []ScheduledStop
	TotalMinutes    int
	TotalDistanceKm float64
}

// RoutePlanner computes a courier's schedule.
type RoutePlanner interface {
	Plan(start kernel.Location, stops []Stop, hint Mode, calibration courier.Calibration) (Schedule, error)
}

// OptimizingPlanner chains RouteOptimizer and EtaCalibrator.
type OptimizingPlanner struct {
	optimizer  RouteOptimizer
	calibrator EtaCalibrator
}

func NewOptimizingPlanner(optimizer RouteOptimizer, calibrator EtaCalibrator) *OptimizingPlanner {
	return &OptimizingPlanner{optimizer: optimizer, calibrator: calibrator}
}

func (p *OptimizingPlanner) Plan(
	start kernel.Location,
	stops []Stop,
	hint Mode,
	calibration courier.Calibration,
) (Schedule, error) {
	plan, err := p.optimizer.Optimize(start, stops, hint)
	if err != nil {
		return Schedule{}, err
	}

	calibrated, err := p.calibrator.Calibrate(plan, calibration)
	if err != nil {
		return Schedule{}, err
	}

	schedule := Schedule{
		Mode:            plan.Mode,
		Stops:           make([]ScheduledStop, 0, len(calibrated)),
		TotalDistanceKm: plan.TotalDistanceKm,
	}
	for _, c := range calibrated {
		schedule.Stops = append(schedule.Stops, ScheduledStop{
			OrderID:       c.OrderID,
			Sequence:      c.Sequence,
			Eta:           c.Eta,
			RawEtaMinutes: c.EtaMinutes,
			DistanceKm:    c.DistanceKm,
			CumulativeKm:  c.CumulativeKm,
			TravelMinutes: c.TravelMinutes,
			DwellMinutes:  c.DwellMinutes,
		})
	}
	if n := len(schedule.Stops); n > 0 {
		schedule.TotalMinutes = schedule.Stops[n-1].Eta.Minutes()
	}
	return schedule, nil
}

// FallbackSchedule orders active routes by creation time and assigns fixed
// increments: ETA 5+2i minutes with a [-2, +4] band, 1.5 km per stop and a
// constant confidence of 45.
func FallbackSchedule(routes []*route.Route) (Schedule, error) {
	sorted := make([]*route.Route, len(routes))
	copy(sorted, routes)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].CreatedAt().Equal(sorted[j].CreatedAt()) {
			return sorted[i].CreatedAt().Before(sorted[j].CreatedAt())
		}
		return sorted[i].OrderID().Less(sorted[j].OrderID())
	})

	schedule := Schedule{
		Mode:     ModeHeuristic,
		Degraded: true,
		Stops:    make([]ScheduledStop, 0, len(sorted)),
	}
	for i, r := range sorted {
		minutes := fallbackBaseMinutes + fallbackStepMinutes*i
		eta, err := route.NewEta(
			minutes,
			max(1, minutes-fallbackLowerMinutes),
			minutes+fallbackUpperMinutes,
			FallbackConfidence,
		)
		if err != nil {
			return Schedule{}, err
		}

		schedule.Stops = append(schedule.Stops, ScheduledStop{
			OrderID:       r.OrderID(),
			Sequence:      i + 1,
			Eta:           eta,
			RawEtaMinutes: minutes,
			DistanceKm:    fallbackLegKm,
			CumulativeKm:  fallbackLegKm * float64(i+1),
		})
		schedule.TotalMinutes = minutes
		schedule.TotalDistanceKm = fallbackLegKm * float64(i+1)
	}
	return schedule, nil
}

// PlaceholderEta is the estimate a route carries between creation and its
// first schedule: a stable value in [5, 15) minutes derived from the order ID.
func PlaceholderEta(orderID kernel.UUID) (route.Eta, error) {
	id := orderID.Bytes()
	minutes := placeholderBaseMinutes + int(xxh3.Hash(id[:])%placeholderSpread)
	return route.NewEta(minutes, minutes, minutes, 0)
}
