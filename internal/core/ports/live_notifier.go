package ports

import (
	"context"

	"delivery/internal/core/domain/model/route"
)

// LiveNotifier fans route changes out to connected observers.
type LiveNotifier interface {
	// RouteChanged returns the number of observers the update was handed to.
	RouteChanged(ctx context.Context, route *route.Route) int
}
