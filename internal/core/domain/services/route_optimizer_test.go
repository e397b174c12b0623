package services_test

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"delivery/internal/core/domain/model/kernel"
	"delivery/internal/core/domain/model/route"
	"delivery/internal/core/domain/services"
	"delivery/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orderID(n int) kernel.UUID {
	return kernel.MustUUID(fmt.Sprintf("00000000-0000-0000-0000-%012d", n))
}

func randomStops(t *testing.T, rng *rand.Rand, n int) []services.Stop {
	t.Helper()
	stops := make([]services.Stop, n)
	for i := range stops {
		stops[i] = services.Stop{
			OrderID:  orderID(i + 1),
			Location: loc(t, 55.70+rng.Float64()*0.1, 37.55+rng.Float64()*0.1),
			Status:   route.Cooking,
		}
	}
	return stops
}

func TestRouteOptimizer_ExactNeverWorseThanHeuristic(t *testing.T) {
	optimizer := services.NewRouteOptimizer(services.NewDistanceModel())
	rng := rand.New(rand.NewPCG(7, 11))
	start := loc(t, 55.75, 37.60)

	for n := 1; n <= services.ExactSearchLimit; n++ {
		for trial := range 25 {
			stops := randomStops(t, rng, n)

			exact, err := optimizer.Optimize(start, stops, services.ModeExact)
			require.NoError(t, err)
			heuristic, err := optimizer.Optimize(start, stops, services.ModeHeuristic)
			require.NoError(t, err)

			assert.Equal(t, services.ModeExact, exact.Mode)
			assert.LessOrEqual(t, exact.TotalDistanceKm, heuristic.TotalDistanceKm+1e-9,
				"n=%d trial=%d", n, trial)
		}
	}
}

func TestRouteOptimizer_FallsBackToHeuristicAboveLimit(t *testing.T) {
	optimizer := services.NewRouteOptimizer(services.NewDistanceModel())
	stops := randomStops(t, rand.New(rand.NewPCG(1, 2)), services.ExactSearchLimit+1)

	plan, err := optimizer.Optimize(loc(t, 55.75, 37.60), stops, services.ModeExact)

	require.NoError(t, err)
	assert.Equal(t, services.ModeHeuristic, plan.Mode)
	assert.Len(t, plan.Steps, services.ExactSearchLimit+1)
}

func TestRouteOptimizer_PlanShape(t *testing.T) {
	optimizer := services.NewRouteOptimizer(services.NewDistanceModel())
	stops := randomStops(t, rand.New(rand.NewPCG(3, 4)), 4)
	stops[2].Status = route.Delivery

	plan, err := optimizer.Optimize(loc(t, 55.75, 37.60), stops, "")
	require.NoError(t, err)

	seen := map[kernel.UUID]bool{}
	prevEta, cumulative := 0, 0.0
	for i, step := range plan.Steps {
		assert.Equal(t, i+1, step.Sequence)
		assert.False(t, seen[step.OrderID])
		seen[step.OrderID] = true

		assert.GreaterOrEqual(t, step.TravelMinutes, 1)
		assert.Equal(t, prevEta+step.TravelMinutes+step.DwellMinutes, step.EtaMinutes)
		cumulative += step.DistanceKm
		assert.InDelta(t, cumulative, step.CumulativeKm, 1e-6)
		prevEta = step.EtaMinutes
	}
	assert.Equal(t, prevEta, plan.TotalMinutes)
	assert.InDelta(t, cumulative, plan.TotalDistanceKm, 1e-6)
}

func TestRouteOptimizer_Deterministic(t *testing.T) {
	optimizer := services.NewRouteOptimizer(services.NewDistanceModel())
	stops := randomStops(t, rand.New(rand.NewPCG(5, 6)), 5)
	reversed := make([]services.Stop, len(stops))
	for i := range stops {
		reversed[len(stops)-1-i] = stops[i]
	}

	first, err := optimizer.Optimize(loc(t, 55.75, 37.60), stops, services.ModeExact)
	require.NoError(t, err)
	second, err := optimizer.Optimize(loc(t, 55.75, 37.60), reversed, services.ModeExact)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRouteOptimizer_IdenticalCoordinates(t *testing.T) {
	optimizer := services.NewRouteOptimizer(services.NewDistanceModel())
	here := loc(t, 55.75, 37.60)
	stops := []services.Stop{
		{OrderID: orderID(2), Location: here, Status: route.Cooking},
		{OrderID: orderID(1), Location: here, Status: route.Cooking},
	}

	plan, err := optimizer.Optimize(here, stops, services.ModeExact)

	require.NoError(t, err)
	require.Len(t, plan.Steps, 2)
	for _, step := range plan.Steps {
		assert.InDelta(t, 0.55, step.DistanceKm, 1e-9)
	}
	assert.True(t, plan.Steps[0].OrderID.IsEqual(orderID(1)), "ties keep order id order")
}

func TestRouteOptimizer_Empty(t *testing.T) {
	optimizer := services.NewRouteOptimizer(services.NewDistanceModel())

	plan, err := optimizer.Optimize(loc(t, 0, 0), nil, services.ModeHeuristic)

	require.NoError(t, err)
	assert.Empty(t, plan.Steps)
	assert.Zero(t, plan.TotalMinutes)
	assert.Zero(t, plan.TotalDistanceKm)
}

func TestRouteOptimizer_InvalidInput(t *testing.T) {
	optimizer := services.NewRouteOptimizer(services.NewDistanceModel())
	here := loc(t, 55.75, 37.60)

	_, err := optimizer.Optimize(kernel.Location{}, nil, services.ModeExact)
	require.ErrorIs(t, err, kernel.ErrLocationIsNotConstructed)

	_, err = optimizer.Optimize(here, []services.Stop{{OrderID: orderID(1), Status: route.Cooking}}, services.ModeExact)
	require.ErrorIs(t, err, kernel.ErrLocationIsNotConstructed)

	dup := services.Stop{OrderID: orderID(1), Location: here, Status: route.Cooking}
	_, err = optimizer.Optimize(here, []services.Stop{dup, dup}, services.ModeExact)
	require.ErrorIs(t, err, services.ErrDuplicateStop)

	_, err = optimizer.Optimize(here, nil, services.Mode("genetic"))
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestParseMode(t *testing.T) {
	m, err := services.ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, services.ModeExact, m)

	m, err = services.ParseMode("Heuristic")
	require.NoError(t, err)
	assert.Equal(t, services.ModeHeuristic, m)

	_, err = services.ParseMode("fast")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}
