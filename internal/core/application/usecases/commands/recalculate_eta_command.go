package commands

import (
	"errors"

	"delivery/internal/core/domain/model/kernel"
	"delivery/internal/pkg/guard"
)

var ErrRecalculateEtaCommandIsNotConstructed = errors.New(
	"RecalculateEtaCommand must be created via NewRecalculateEtaCommand constructor",
)

// RecalculateEtaCommand refreshes the ETA of one order by recomputing the
// whole schedule of the courier holding it.
type RecalculateEtaCommand struct {
	orderID kernel.UUID
	guard   guard.ConstructorGuard
}

func NewRecalculateEtaCommand(orderID kernel.UUID) (RecalculateEtaCommand, error) {
	if err := orderID.Validate(); err != nil {
		return RecalculateEtaCommand{}, err
	}
	return RecalculateEtaCommand{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c RecalculateEtaCommand) Validate() error {
	return c.guard.Validate(ErrRecalculateEtaCommandIsNotConstructed)
}

func (c RecalculateEtaCommand) OrderID() kernel.UUID {
	return c.orderID
}
