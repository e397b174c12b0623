package commands_test

import (
	"sync"
	"testing"
	"time"

	"delivery/internal/core/application/usecases/commands"
	"delivery/internal/core/domain/model/kernel"
	"delivery/internal/core/domain/model/route"
	"delivery/internal/core/domain/services"
	"delivery/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestOptimizeCourierRouteCommandHandler_IsIdempotent(t *testing.T) {
	f := newFixture(t, nil)
	f.acceptSync()
	c := f.addCourier(t, "Solo", 55.75, 37.60)
	for i := range 3 {
		f.assign(t, 55.752+float64(i)*0.003, 37.598+float64(i)*0.004)
	}
	handler := commands.NewOptimizeCourierRouteCommandHandler(f.scheduler, f.propagator)

	cmd, err := commands.NewOptimizeCourierRouteCommand(c.ID(), "exact")
	require.NoError(t, err)

	first, err := handler.Handle(t.Context(), cmd)
	require.NoError(t, err)
	second, err := handler.Handle(t.Context(), cmd)
	require.NoError(t, err)

	assert.Equal(t, services.ModeExact, first.Schedule.Mode)
	assert.Empty(t, second.Changed)
	require.Len(t, second.Routes, 3)
	for i, rt := range second.Routes {
		assert.Equal(t, i+1, rt.Sequence())
		assert.True(t, rt.OrderID().IsEqual(first.Routes[i].OrderID()))
		assert.True(t, rt.Eta().IsEqual(first.Routes[i].Eta()))
	}
}

func TestOptimizeCourierRouteCommandHandler_HeuristicHint(t *testing.T) {
	f := newFixture(t, nil)
	f.acceptSync()
	c := f.addCourier(t, "Solo", 55.75, 37.60)
	f.assign(t, 55.752, 37.602)
	handler := commands.NewOptimizeCourierRouteCommandHandler(f.scheduler, f.propagator)

	cmd, err := commands.NewOptimizeCourierRouteCommand(c.ID(), "heuristic")
	require.NoError(t, err)

	res, err := handler.Handle(t.Context(), cmd)
	require.NoError(t, err)

	assert.Equal(t, services.ModeHeuristic, res.Schedule.Mode)
}

func TestOptimizeCourierRouteCommandHandler_IdleCourier(t *testing.T) {
	f := newFixture(t, nil)
	c := f.addCourier(t, "Solo", 55.75, 37.60)
	handler := commands.NewOptimizeCourierRouteCommandHandler(f.scheduler, f.propagator)

	cmd, err := commands.NewOptimizeCourierRouteCommand(c.ID(), "")
	require.NoError(t, err)

	res, err := handler.Handle(t.Context(), cmd)
	require.NoError(t, err)

	assert.Equal(t, commands.OutcomeApplied, res.Outcome)
	assert.Empty(t, res.Routes)
	assert.Zero(t, res.Schedule.TotalMinutes)
	assert.True(t, res.Courier.IsAvailable())
}

func TestOptimizeCourierRouteCommandHandler_RepairsUnsequencedRoute(t *testing.T) {
	f := newFixture(t, nil)
	f.acceptSync()
	c := f.addCourier(t, "Solo", 55.75, 37.60)
	f.assign(t, 55.752, 37.598)

	// A route written without the recomputation that normally follows it.
	placeholder, err := services.PlaceholderEta(kernel.NewUUID())
	require.NoError(t, err)
	stray, err := route.NewRoute(kernel.NewUUID(), orderDetails(t, 55.756, 37.607), c, placeholder, baseTime)
	require.NoError(t, err)
	require.NoError(t, (&memoryRouteRepo{s: f.store}).Add(t.Context(), stray))
	require.Zero(t, f.store.route(stray.OrderID()).Sequence())

	cmd, err := commands.NewOptimizeCourierRouteCommand(c.ID(), "")
	require.NoError(t, err)
	res, err := commands.NewOptimizeCourierRouteCommandHandler(f.scheduler, f.propagator).Handle(t.Context(), cmd)
	require.NoError(t, err)

	assert.Contains(t, res.Changed, stray.OrderID())
	active := f.store.active(c.ID())
	require.Len(t, active, 2)
	requireDenseSequences(t, active)
}

func TestNewOptimizeCourierRouteCommand_UnknownMode(t *testing.T) {
	_, err := commands.NewOptimizeCourierRouteCommand(kernel.NewUUID(), "genetic")

	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestRecalculateEtaCommandHandler(t *testing.T) {
	f := newFixture(t, nil)
	f.acceptSync()
	c := f.addCourier(t, "Solo", 55.75, 37.60)
	created := f.assign(t, 55.752, 37.602)
	handler := commands.NewRecalculateEtaCommandHandler(f.store, f.scheduler, f.propagator)

	cmd, err := commands.NewRecalculateEtaCommand(created.Route.OrderID())
	require.NoError(t, err)

	res, err := handler.Handle(t.Context(), cmd)
	require.NoError(t, err)

	assert.True(t, res.Route.IsEqual(created.Route))
	assert.True(t, res.Route.Eta().IsEqual(created.Route.Eta()))
	assert.True(t, res.Schedule.Courier.ID().IsEqual(c.ID()))
	assert.Empty(t, res.Schedule.Changed)
}

func TestRecalculateEtaCommandHandler_UnknownOrder(t *testing.T) {
	f := newFixture(t, nil)
	handler := commands.NewRecalculateEtaCommandHandler(f.store, f.scheduler, f.propagator)

	cmd, err := commands.NewRecalculateEtaCommand(kernel.NewUUID())
	require.NoError(t, err)

	res, err := handler.Handle(t.Context(), cmd)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	assert.Equal(t, commands.OutcomeRejected, res.Outcome)
}

func TestMoveCourierCommandHandler_RecomputesSchedule(t *testing.T) {
	f := newFixture(t, nil)
	f.acceptSync()
	c := f.addCourier(t, "Solo", 55.75, 37.60)
	created := f.assign(t, 55.80, 37.70)
	handler := commands.NewMoveCourierCommandHandler(f.store, f.scheduler, f.propagator)

	target := location(t, 55.7995, 37.6995)
	cmd, err := commands.NewMoveCourierCommand(c.ID(), target)
	require.NoError(t, err)

	res, err := handler.Handle(t.Context(), cmd)
	require.NoError(t, err)

	assert.True(t, res.Courier.Location().IsEqual(target))
	require.Len(t, res.Routes, 1)
	assert.Less(t, res.Routes[0].Eta().Minutes(), created.Route.Eta().Minutes())
	assert.Len(t, res.Changed, 1)
	f.sync.AssertNumberOfCalls(t, "SyncSnapshot", 2)
	f.live.AssertCalled(t, "RouteChanged", mock.Anything, mock.Anything)
}

func TestMoveCourierCommandHandler_UnknownCourier(t *testing.T) {
	f := newFixture(t, nil)
	handler := commands.NewMoveCourierCommandHandler(f.store, f.scheduler, f.propagator)

	cmd, err := commands.NewMoveCourierCommand(kernel.NewUUID(), location(t, 55.75, 37.60))
	require.NoError(t, err)

	res, err := handler.Handle(t.Context(), cmd)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	assert.Equal(t, commands.OutcomeRejected, res.Outcome)
}

func TestScheduler_WaitsForCourierLock(t *testing.T) {
	f := newFixture(t, nil)
	f.acceptSync()
	c := f.addCourier(t, "Solo", 55.75, 37.60)
	f.assign(t, 55.752, 37.598)
	handler := commands.NewOptimizeCourierRouteCommandHandler(f.scheduler, f.propagator)

	holder := f.store.Create()
	require.NoError(t, holder.Begin(t.Context()))
	_, err := holder.CourierRepository().GetForUpdate(t.Context(), c.ID())
	require.NoError(t, err)

	cmd, err := commands.NewOptimizeCourierRouteCommand(c.ID(), "")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, handleErr := handler.Handle(t.Context(), cmd)
		done <- handleErr
	}()

	select {
	case <-done:
		t.Fatal("recomputation ran while another transaction held the courier")
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, holder.Rollback(t.Context()))
	select {
	case err = <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("recomputation did not resume after the lock was released")
	}
}

func TestScheduler_ConcurrentUpdatesKeepSequencesDense(t *testing.T) {
	f := newFixture(t, nil)
	f.acceptSync()
	c := f.addCourier(t, "Solo", 55.75, 37.60)
	assignHandler := f.assignHandler()
	moveHandler := commands.NewMoveCourierCommandHandler(f.store, f.scheduler, f.propagator)
	optimizeHandler := commands.NewOptimizeCourierRouteCommandHandler(f.scheduler, f.propagator)

	const orders = 6
	assigns := make([]commands.AssignCourierCommand, 0, orders)
	for i := range orders {
		cmd, err := commands.NewAssignCourierCommand(orderDetails(t, 55.752+float64(i)*0.002, 37.598+float64(i)*0.003))
		require.NoError(t, err)
		assigns = append(assigns, cmd)
	}
	move, err := commands.NewMoveCourierCommand(c.ID(), location(t, 55.755, 37.605))
	require.NoError(t, err)
	optimize, err := commands.NewOptimizeCourierRouteCommand(c.ID(), "")
	require.NoError(t, err)

	var wg sync.WaitGroup
	errCh := make(chan error, 3*orders)
	for _, cmd := range assigns {
		wg.Add(3)
		go func() {
			defer wg.Done()
			_, handleErr := assignHandler.Handle(t.Context(), cmd)
			errCh <- handleErr
		}()
		go func() {
			defer wg.Done()
			_, handleErr := moveHandler.Handle(t.Context(), move)
			errCh <- handleErr
		}()
		go func() {
			defer wg.Done()
			_, handleErr := optimizeHandler.Handle(t.Context(), optimize)
			errCh <- handleErr
		}()
	}
	wg.Wait()
	close(errCh)

	for handleErr := range errCh {
		require.NoError(t, handleErr)
	}

	active := f.store.active(c.ID())
	require.Len(t, active, orders)
	requireDenseSequences(t, active)
}
