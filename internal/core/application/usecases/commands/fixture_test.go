package commands_test

import (
	"testing"
	"time"

	"delivery/internal/core/application/usecases/commands"
	"delivery/internal/core/domain/model/courier"
	"delivery/internal/core/domain/model/kernel"
	"delivery/internal/core/domain/model/route"
	"delivery/internal/core/domain/services"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2026, time.March, 14, 12, 0, 0, 0, time.UTC)

type dispatchFixture struct {
	store      *memoryStore
	clock      *fakeClock
	sync       *MockOrderSync
	live       *MockLiveNotifier
	scheduler  *commands.Scheduler
	propagator *commands.Propagator
}

func newFixture(t *testing.T, planner services.RoutePlanner) *dispatchFixture {
	t.Helper()

	if planner == nil {
		planner = services.NewOptimizingPlanner(
			services.NewRouteOptimizer(services.NewDistanceModel()),
			services.NewEtaCalibrator(),
		)
	}

	f := &dispatchFixture{
		store: newMemoryStore(),
		clock: &fakeClock{now: baseTime},
		sync:  &MockOrderSync{},
		live:  &MockLiveNotifier{},
	}
	f.scheduler = commands.NewScheduler(f.store, planner, f.clock.Now, discardLogger())
	f.propagator = commands.NewPropagator(f.sync, f.live, discardLogger())

	f.live.On("RouteChanged", mock.Anything, mock.Anything).Return(1).Maybe()
	return f
}

// acceptSync makes both order sync calls succeed.
func (f *dispatchFixture) acceptSync() {
	f.sync.On("SyncSnapshot", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	f.sync.On("SyncStatus", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
}

func (f *dispatchFixture) addCourier(t *testing.T, name string, lat, lng float64) *courier.Courier {
	t.Helper()

	c, err := courier.NewCourier(kernel.NewUUID(), name, location(t, lat, lng))
	require.NoError(t, err)
	require.NoError(t, (&memoryCourierRepo{s: f.store}).Add(t.Context(), c))
	return c
}

func (f *dispatchFixture) assignHandler() commands.AssignCourierCommandHandler {
	return commands.NewAssignCourierCommandHandler(f.store, f.scheduler, f.propagator)
}

func (f *dispatchFixture) manualHandler() commands.AssignCourierManuallyCommandHandler {
	return commands.NewAssignCourierManuallyCommandHandler(f.store, f.scheduler, f.propagator)
}

func (f *dispatchFixture) advanceHandler() commands.AdvanceStatusCommandHandler {
	return commands.NewAdvanceStatusCommandHandler(f.store, f.scheduler, f.propagator)
}

func (f *dispatchFixture) overrideHandler() commands.OverrideStatusCommandHandler {
	return commands.NewOverrideStatusCommandHandler(f.store, f.scheduler, f.propagator)
}

// assign auto-assigns a new order placed at the given point.
func (f *dispatchFixture) assign(t *testing.T, lat, lng float64) commands.AssignResult {
	t.Helper()

	cmd, err := commands.NewAssignCourierCommand(orderDetails(t, lat, lng))
	require.NoError(t, err)

	res, err := f.assignHandler().Handle(t.Context(), cmd)
	require.NoError(t, err)
	f.clock.Advance(time.Minute)
	return res
}

func (f *dispatchFixture) advance(t *testing.T, orderID kernel.UUID, status route.Status) (commands.RouteResult, error) {
	t.Helper()

	cmd, err := commands.NewAdvanceStatusCommand(orderID, status, nil)
	require.NoError(t, err)
	return f.advanceHandler().Handle(t.Context(), cmd)
}

func location(t *testing.T, lat, lng float64) kernel.Location {
	t.Helper()

	loc, err := kernel.NewLocation(lat, lng)
	require.NoError(t, err)
	return loc
}

func orderDetails(t *testing.T, lat, lng float64) route.OrderDetails {
	t.Helper()

	pizza, err := route.NewItem("pizza", 2, 12.5)
	require.NoError(t, err)

	return route.OrderDetails{
		OrderID:  kernel.NewUUID(),
		UserID:   kernel.NewUUID(),
		Address:  "Tverskaya 1",
		Location: location(t, lat, lng),
		Total:    25,
		Items:    []route.Item{pizza},
	}
}

// requireDenseSequences checks that the courier's active routes occupy the
// slots 1..n exactly once.
func requireDenseSequences(t *testing.T, routes []*route.Route) {
	t.Helper()

	seen := make(map[int]bool, len(routes))
	for _, rt := range routes {
		require.GreaterOrEqual(t, rt.Sequence(), 1)
		require.LessOrEqual(t, rt.Sequence(), len(routes))
		require.False(t, seen[rt.Sequence()], "sequence %d is used twice", rt.Sequence())
		seen[rt.Sequence()] = true
	}
}
