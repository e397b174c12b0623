// Package commands holds the operations that change dispatch state. Every
// handler validates its command, mutates aggregates inside one unit of work,
// recomputes the affected couriers' schedules and then propagates the new
// route state to the order aggregate and to live observers.
package commands

import (
	"context"

	"delivery/internal/core/ports"
)

type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	CourierRepoFactory interface {
		CourierRepository() ports.CourierRepository
	}

	RouteRepoFactory interface {
		RouteRepository() ports.RouteRepository
	}

	// CourierUoW manages transactions for courier-only operations.
	CourierUoW interface {
		TxManager
		CourierRepoFactory
	}

	CourierUoWFactory interface {
		Create() CourierUoW
	}

	// UoW manages transactions across couriers and routes.
	//
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   routes := uow.RouteRepository()
	//   couriers := uow.CourierRepository()
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		CourierRepoFactory
		RouteRepoFactory
	}

	UoWFactory interface {
		Create() UoW
	}
)
