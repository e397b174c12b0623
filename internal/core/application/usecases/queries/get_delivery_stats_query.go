package queries

import (
	"errors"

	"delivery/internal/core/domain/model/kernel"
	"delivery/internal/pkg/guard"
)

var ErrGetDeliveryStatsQueryIsNotConstructed = errors.New(
	"GetDeliveryStatsQuery must be created via NewGetDeliveryStatsQuery constructor",
)

// GetDeliveryStatsQuery aggregates the current dispatch state for operators.
type GetDeliveryStatsQuery struct {
	guard guard.ConstructorGuard
}

func NewGetDeliveryStatsQuery() GetDeliveryStatsQuery {
	return GetDeliveryStatsQuery{guard: guard.NewConstructorGuard()}
}

func (q GetDeliveryStatsQuery) Validate() error {
	return q.guard.Validate(ErrGetDeliveryStatsQueryIsNotConstructed)
}

type DeliveryStats struct {
	ActiveRoutes      int
	CompletedRoutes   int
	RoutesByStatus    map[string]int
	AverageEtaMinutes float64
	AvailableCouriers int
	BusyCouriers      int
	Couriers          []CourierStats
}

type CourierStats struct {
	CourierID        kernel.UUID
	Name             string
	ActiveRoutes     int
	CompletedRoutes  int
	BiasFactor       float64
	ReliabilityScore float64
}
