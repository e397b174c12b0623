package commands_test

import (
	"testing"
	"time"

	"delivery/internal/core/application/usecases/commands"
	"delivery/internal/core/domain/model/courier"
	"delivery/internal/core/domain/model/kernel"
	"delivery/internal/core/domain/model/order"
	"delivery/internal/core/domain/model/route"
	"delivery/internal/core/ports"
	"delivery/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAdvanceStatusCommandHandler_NextStatus(t *testing.T) {
	f := newFixture(t, nil)
	f.acceptSync()
	f.addCourier(t, "Solo", 55.75, 37.60)
	created := f.assign(t, 55.751, 37.601)

	res, err := f.advance(t, created.Route.OrderID(), route.Delivery)
	require.NoError(t, err)

	assert.Equal(t, commands.OutcomeApplied, res.Outcome)
	assert.Equal(t, route.Delivery, res.Route.Status())
	assert.Equal(t, route.Delivery, f.store.route(created.Route.OrderID()).Status())
	f.sync.AssertCalled(t, "SyncSnapshot", mock.Anything, ports.EventDeliveryUpdated, mock.Anything)
	f.sync.AssertCalled(t, "SyncStatus", mock.Anything, created.Route.OrderID(), order.Delivery)
}

func TestAdvanceStatusCommandHandler_SkippingAStatusIsRejected(t *testing.T) {
	f := newFixture(t, nil)
	f.acceptSync()
	f.addCourier(t, "Solo", 55.75, 37.60)
	created := f.assign(t, 55.751, 37.601)

	res, err := f.advance(t, created.Route.OrderID(), route.Done)

	require.ErrorIs(t, err, route.ErrInvalidTransition)
	assert.Contains(t, err.Error(), "allowed next status: delivery")
	assert.Equal(t, commands.OutcomeRejected, res.Outcome)
	assert.Equal(t, route.Cooking, f.store.route(created.Route.OrderID()).Status())
}

func TestAdvanceStatusCommandHandler_RepeatedStatusIsNoOp(t *testing.T) {
	f := newFixture(t, nil)
	f.acceptSync()
	f.addCourier(t, "Solo", 55.75, 37.60)
	created := f.assign(t, 55.751, 37.601)
	before := f.store.route(created.Route.OrderID())

	res, err := f.advance(t, created.Route.OrderID(), route.Cooking)
	require.NoError(t, err)

	assert.Equal(t, commands.OutcomeApplied, res.Outcome)
	assert.Equal(t, before.UpdatedAt(), f.store.route(created.Route.OrderID()).UpdatedAt())
	f.sync.AssertNotCalled(t, "SyncSnapshot", mock.Anything, ports.EventDeliveryUpdated, mock.Anything)
}

func TestAdvanceStatusCommandHandler_ForeignCourierIsRejected(t *testing.T) {
	f := newFixture(t, nil)
	f.acceptSync()
	f.addCourier(t, "Solo", 55.75, 37.60)
	created := f.assign(t, 55.751, 37.601)

	stranger := kernel.NewUUID()
	cmd, err := commands.NewAdvanceStatusCommand(created.Route.OrderID(), route.Delivery, &stranger)
	require.NoError(t, err)

	res, err := f.advanceHandler().Handle(t.Context(), cmd)

	require.ErrorIs(t, err, commands.ErrRouteIsNotOwned)
	assert.Equal(t, commands.OutcomeRejected, res.Outcome)
	assert.Equal(t, route.Cooking, f.store.route(created.Route.OrderID()).Status())
}

func TestAdvanceStatusCommandHandler_OwnerMayAdvance(t *testing.T) {
	f := newFixture(t, nil)
	f.acceptSync()
	c := f.addCourier(t, "Solo", 55.75, 37.60)
	created := f.assign(t, 55.751, 37.601)

	owner := c.ID()
	cmd, err := commands.NewAdvanceStatusCommand(created.Route.OrderID(), route.Delivery, &owner)
	require.NoError(t, err)

	res, err := f.advanceHandler().Handle(t.Context(), cmd)

	require.NoError(t, err)
	assert.Equal(t, route.Delivery, res.Route.Status())
}

func TestAdvanceStatusCommandHandler_UnknownOrder(t *testing.T) {
	f := newFixture(t, nil)

	res, err := f.advance(t, kernel.NewUUID(), route.Delivery)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	assert.Equal(t, commands.OutcomeRejected, res.Outcome)
}

func TestAdvanceStatusCommandHandler_DoneRecalibratesCourier(t *testing.T) {
	f := newFixture(t, nil)
	f.acceptSync()
	c := f.addCourier(t, "Solo", 55.75, 37.60)
	created := f.assign(t, 55.751, 37.601)
	other := f.assign(t, 55.755, 37.605)

	_, err := f.advance(t, created.Route.OrderID(), route.Delivery)
	require.NoError(t, err)
	f.clock.Advance(20 * time.Minute)

	res, err := f.advance(t, created.Route.OrderID(), route.Done)
	require.NoError(t, err)

	done := f.store.route(created.Route.OrderID())
	assert.Equal(t, route.Done, res.Route.Status())
	require.NotNil(t, done.CompletedAt())
	assert.Equal(t, f.clock.Now(), *done.CompletedAt())

	stored := f.store.courier(c.ID())
	assert.Equal(t, 1, stored.Calibration().CompletedCount())

	actual := done.CompletedAt().Sub(done.CreatedAt()).Minutes()
	wantBias := min(max(actual/float64(done.InitialEtaMinutes()), courier.BiasFactorMin), courier.BiasFactorMax)
	assert.InDelta(t, wantBias, stored.Calibration().BiasFactor(), 1e-9)

	// The remaining route moves up to the first slot.
	remaining := f.store.active(c.ID())
	require.Len(t, remaining, 1)
	assert.True(t, remaining[0].OrderID().IsEqual(other.Route.OrderID()))
	assert.Equal(t, 1, remaining[0].Sequence())
	assert.False(t, stored.IsAvailable())
	f.sync.AssertCalled(t, "SyncStatus", mock.Anything, created.Route.OrderID(), order.Done)
}

func TestAdvanceStatusCommandHandler_LastDoneFreesCourier(t *testing.T) {
	f := newFixture(t, nil)
	f.acceptSync()
	c := f.addCourier(t, "Solo", 55.75, 37.60)
	created := f.assign(t, 55.751, 37.601)

	_, err := f.advance(t, created.Route.OrderID(), route.Delivery)
	require.NoError(t, err)
	_, err = f.advance(t, created.Route.OrderID(), route.Done)
	require.NoError(t, err)

	assert.True(t, f.store.courier(c.ID()).IsAvailable())

	_, err = f.advance(t, created.Route.OrderID(), route.Delivery)
	require.ErrorIs(t, err, route.ErrInvalidTransition)
	assert.Contains(t, err.Error(), "allowed next status: none")
}

func TestAdvanceStatusCommandHandler_RepeatedDoneIsRejected(t *testing.T) {
	f := newFixture(t, nil)
	f.acceptSync()
	c := f.addCourier(t, "Solo", 55.75, 37.60)
	created := f.assign(t, 55.751, 37.601)

	_, err := f.advance(t, created.Route.OrderID(), route.Delivery)
	require.NoError(t, err)
	_, err = f.advance(t, created.Route.OrderID(), route.Done)
	require.NoError(t, err)
	completedAt := *f.store.route(created.Route.OrderID()).CompletedAt()

	owner := c.ID()
	cmd, err := commands.NewAdvanceStatusCommand(created.Route.OrderID(), route.Done, &owner)
	require.NoError(t, err)

	res, err := f.advanceHandler().Handle(t.Context(), cmd)

	require.ErrorIs(t, err, route.ErrInvalidTransition)
	assert.Contains(t, err.Error(), "allowed next status: none")
	assert.Equal(t, commands.OutcomeRejected, res.Outcome)
	assert.Equal(t, completedAt, *f.store.route(created.Route.OrderID()).CompletedAt())
	assert.Equal(t, 1, f.store.courier(c.ID()).Calibration().CompletedCount())
}

func TestOverrideStatusCommandHandler_AssignedIsNotPushed(t *testing.T) {
	f := newFixture(t, nil)
	f.acceptSync()
	f.addCourier(t, "Solo", 55.75, 37.60)
	created := f.assign(t, 55.751, 37.601)

	cmd, err := commands.NewOverrideStatusCommand(created.Route.OrderID(), route.Assigned)
	require.NoError(t, err)

	res, err := f.overrideHandler().Handle(t.Context(), cmd)
	require.NoError(t, err)

	assert.Equal(t, route.Assigned, res.Route.Status())
	f.sync.AssertCalled(t, "SyncSnapshot", mock.Anything, ports.EventDeliveryUpdated, mock.Anything)
	f.sync.AssertNotCalled(t, "SyncStatus", mock.Anything, created.Route.OrderID(), order.Pending)
}

func TestOverrideStatusCommandHandler_JumpsToDone(t *testing.T) {
	f := newFixture(t, nil)
	f.acceptSync()
	c := f.addCourier(t, "Solo", 55.75, 37.60)
	created := f.assign(t, 55.751, 37.601)

	cmd, err := commands.NewOverrideStatusCommand(created.Route.OrderID(), route.Done)
	require.NoError(t, err)

	res, err := f.overrideHandler().Handle(t.Context(), cmd)
	require.NoError(t, err)

	assert.Equal(t, route.Done, res.Route.Status())
	assert.NotNil(t, res.Route.CompletedAt())
	assert.Equal(t, 1, f.store.courier(c.ID()).Calibration().CompletedCount())
	assert.True(t, f.store.courier(c.ID()).IsAvailable())
}

func TestOverrideStatusCommandHandler_DoneRouteStaysDone(t *testing.T) {
	f := newFixture(t, nil)
	f.acceptSync()
	f.addCourier(t, "Solo", 55.75, 37.60)
	created := f.assign(t, 55.751, 37.601)

	toDone, err := commands.NewOverrideStatusCommand(created.Route.OrderID(), route.Done)
	require.NoError(t, err)
	_, err = f.overrideHandler().Handle(t.Context(), toDone)
	require.NoError(t, err)

	back, err := commands.NewOverrideStatusCommand(created.Route.OrderID(), route.Cooking)
	require.NoError(t, err)

	res, err := f.overrideHandler().Handle(t.Context(), back)
	require.NoError(t, err)

	assert.Equal(t, commands.OutcomeApplied, res.Outcome)
	assert.Equal(t, route.Done, res.Route.Status())
	assert.Equal(t, route.Done, f.store.route(created.Route.OrderID()).Status())
}
