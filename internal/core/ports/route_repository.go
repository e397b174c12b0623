package ports

import (
	"context"

	"delivery/internal/core/domain/model/kernel"
	"delivery/internal/core/domain/model/route"
)

// RouteRepository is the persistence contract of the route store.
type RouteRepository interface {
	// Add persists a new route. A second active route for the same order is
	// rejected by the store.
	Add(ctx context.Context, route *route.Route) error

	// Update persists the whole route state.
	Update(ctx context.Context, route *route.Route) error

	// GetByOrder returns the newest route of an order, active or done, or an
	// errs.ObjectNotFoundError.
	GetByOrder(ctx context.Context, orderID kernel.UUID) (*route.Route, error)

	// GetActiveByCourier returns the courier's non-done routes ordered by
	// creation time.
	GetActiveByCourier(ctx context.Context, courierID kernel.UUID) ([]*route.Route, error)

	// CountActiveByCourier maps courier IDs to their number of non-done routes.
	// Couriers without active routes are absent.
	CountActiveByCourier(ctx context.Context) (map[kernel.UUID]int, error)

	// GetCompletedByCourier returns up to limit done routes, newest completion
	// first.
	GetCompletedByCourier(ctx context.Context, courierID kernel.UUID, limit int) ([]*route.Route, error)

	// CountCompletedByCourier counts every done route of the courier.
	CountCompletedByCourier(ctx context.Context, courierID kernel.UUID) (int, error)
}
