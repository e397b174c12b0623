// Package ports declares what the dispatch core needs from the outside world:
// persistence for couriers and routes, the unit of work that groups their
// writes, synchronization with the order aggregate and live notifications.
package ports

import (
	"context"

	"delivery/internal/core/domain/model/courier"
	"delivery/internal/core/domain/model/kernel"
)

// CourierRepository is the persistence contract of the courier directory.
type CourierRepository interface {
	// Add persists a new courier.
	Add(ctx context.Context, courier *courier.Courier) error

	// Update persists position, availability and calibration of an existing
	// courier. Returns an errs.ObjectNotFoundError if it does not exist.
	Update(ctx context.Context, courier *courier.Courier) error

	// Get returns an errs.ObjectNotFoundError for unknown couriers.
	Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error)

	// GetForUpdate is Get that also holds a row lock on the courier until the
	// enclosing transaction ends. Units of work that rewrite the courier's
	// schedule take it before reading the courier's routes.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*courier.Courier, error)

	// GetAll returns every courier ordered by ID.
	GetAll(ctx context.Context) ([]*courier.Courier, error)
}
