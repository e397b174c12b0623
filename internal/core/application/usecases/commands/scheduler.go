package commands

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"delivery/internal/core/domain/model/courier"
	"delivery/internal/core/domain/model/kernel"
	"delivery/internal/core/domain/model/route"
	"delivery/internal/core/domain/services"
)

// CourierSchedule is the persisted state of one courier after recomputation.
type CourierSchedule struct {
	Courier  *courier.Courier
	Schedule services.Schedule
	// Routes are the courier's active routes re-read after commit, ordered by
	// sequence.
	Routes []*route.Route
	// Changed lists the orders whose route slot was rewritten.
	Changed []kernel.UUID
}

// RouteOf returns the active route of the order, if the courier holds it.
func (s CourierSchedule) RouteOf(orderID kernel.UUID) (*route.Route, bool) {
	for _, rt := range s.Routes {
		if rt.OrderID().IsEqual(orderID) {
			return rt, true
		}
	}
	return nil, false
}

// Scheduler recomputes a courier's whole schedule and writes it back in one
// transaction together with the courier's availability. The transaction holds
// the courier's row lock.
//
// A planner error or panic never fails the recomputation: the degraded
// services.FallbackSchedule is written instead.
type Scheduler struct {
	uowFactory UoWFactory
	planner    services.RoutePlanner
	clock      func() time.Time
	logger     *slog.Logger
}

func NewScheduler(
	uowFactory UoWFactory,
	planner services.RoutePlanner,
	clock func() time.Time,
	logger *slog.Logger,
) *Scheduler {
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	return &Scheduler{
		uowFactory: uowFactory,
		planner:    planner,
		clock:      clock,
		logger:     logger.With("component", "scheduler"),
	}
}

// Now is the clock shared by all handlers.
func (s *Scheduler) Now() time.Time {
	return s.clock()
}

// Recompute plans the courier's active routes with the given mode hint (empty
// selects the default) and persists sequence, ETA and totals of every route.
func (s *Scheduler) Recompute(ctx context.Context, courierID kernel.UUID, hint services.Mode) (CourierSchedule, error) {
	if err := courierID.Validate(); err != nil {
		return CourierSchedule{}, err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return CourierSchedule{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	courierRepo := uow.CourierRepository()
	routeRepo := uow.RouteRepository()

	// Recomputations of one courier run one after another.
	c, err := courierRepo.GetForUpdate(ctx, courierID)
	if err != nil {
		return CourierSchedule{}, err
	}

	routes, err := routeRepo.GetActiveByCourier(ctx, courierID)
	if err != nil {
		return CourierSchedule{}, err
	}

	schedule, err := s.plan(c, routes, hint)
	if err != nil {
		s.logger.WarnContext(ctx, "Route planner failed, using fallback schedule",
			"courier_id", courierID.String(), "error", err)
		if schedule, err = services.FallbackSchedule(routes); err != nil {
			return CourierSchedule{}, err
		}
	}

	now := s.clock()
	byOrder := make(map[kernel.UUID]*route.Route, len(routes))
	for _, rt := range routes {
		byOrder[rt.OrderID()] = rt
	}

	changed := make([]kernel.UUID, 0, len(schedule.Stops))
	for _, stop := range schedule.Stops {
		rt, ok := byOrder[stop.OrderID]
		if !ok {
			return CourierSchedule{}, fmt.Errorf("schedule lists unknown order %s", stop.OrderID)
		}

		updated, scheduleErr := rt.Schedule(stop.Sequence, stop.Eta, schedule.TotalMinutes, schedule.TotalDistanceKm, now)
		if scheduleErr != nil {
			return CourierSchedule{}, scheduleErr
		}
		if !updated {
			continue
		}
		if err = routeRepo.Update(ctx, rt); err != nil {
			return CourierSchedule{}, err
		}
		changed = append(changed, rt.OrderID())
	}

	if c.SyncAvailability(len(routes)) {
		if err = courierRepo.Update(ctx, c); err != nil {
			return CourierSchedule{}, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return CourierSchedule{}, err
	}

	return s.reload(ctx, courierID, schedule, changed)
}

func (s *Scheduler) plan(c *courier.Courier, routes []*route.Route, hint services.Mode) (schedule services.Schedule, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("route planner panicked: %v", r)
		}
	}()

	stops := make([]services.Stop, 0, len(routes))
	for _, rt := range routes {
		stops = append(stops, services.Stop{
			OrderID:  rt.OrderID(),
			Location: rt.Location(),
			Status:   rt.Status(),
		})
	}
	return s.planner.Plan(c.Location(), stops, hint, c.Calibration())
}

// reload re-reads the committed state outside of any transaction.
func (s *Scheduler) reload(
	ctx context.Context,
	courierID kernel.UUID,
	schedule services.Schedule,
	changed []kernel.UUID,
) (CourierSchedule, error) {
	uow := s.uowFactory.Create()

	c, err := uow.CourierRepository().Get(ctx, courierID)
	if err != nil {
		return CourierSchedule{}, err
	}

	routes, err := uow.RouteRepository().GetActiveByCourier(ctx, courierID)
	if err != nil {
		return CourierSchedule{}, err
	}
	sortBySequence(routes)

	return CourierSchedule{
		Courier:  c,
		Schedule: schedule,
		Routes:   routes,
		Changed:  changed,
	}, nil
}

func sortBySequence(routes []*route.Route) {
	slices.SortStableFunc(routes, func(a, b *route.Route) int {
		return cmp.Compare(a.Sequence(), b.Sequence())
	})
}
