package commands

import (
	"errors"

	"delivery/internal/core/domain/model/kernel"
	"delivery/internal/core/domain/services"
	"delivery/internal/pkg/guard"
)

var ErrOptimizeCourierRouteCommandIsNotConstructed = errors.New(
	"OptimizeCourierRouteCommand must be created via NewOptimizeCourierRouteCommand constructor",
)

// OptimizeCourierRouteCommand recomputes a courier's schedule on demand. The
// mode string may be empty, "exact" or "heuristic".
type OptimizeCourierRouteCommand struct {
	courierID kernel.UUID
	mode      services.Mode
	guard     guard.ConstructorGuard
}

func NewOptimizeCourierRouteCommand(courierID kernel.UUID, mode string) (OptimizeCourierRouteCommand, error) {
	parsed, modeErr := services.ParseMode(mode)
	if err := errors.Join(courierID.Validate(), modeErr); err != nil {
		return OptimizeCourierRouteCommand{}, err
	}
	return OptimizeCourierRouteCommand{
		courierID: courierID,
		mode:      parsed,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c OptimizeCourierRouteCommand) Validate() error {
	return c.guard.Validate(ErrOptimizeCourierRouteCommandIsNotConstructed)
}

func (c OptimizeCourierRouteCommand) CourierID() kernel.UUID {
	return c.courierID
}

func (c OptimizeCourierRouteCommand) Mode() services.Mode {
	return c.mode
}
