package commands

import (
	"errors"

	"delivery/internal/core/domain/model/kernel"
	"delivery/internal/core/domain/model/route"
	"delivery/internal/pkg/guard"
)

var ErrOverrideStatusCommandIsNotConstructed = errors.New(
	"OverrideStatusCommand must be created via NewOverrideStatusCommand constructor",
)

// OverrideStatusCommand is an administrative status change that may jump to
// any status. Overriding a done route is accepted and changes nothing.
type OverrideStatusCommand struct {
	orderID kernel.UUID
	status  route.Status
	guard   guard.ConstructorGuard
}

func NewOverrideStatusCommand(orderID kernel.UUID, status route.Status) (OverrideStatusCommand, error) {
	if err := errors.Join(orderID.Validate(), status.Validate()); err != nil {
		return OverrideStatusCommand{}, err
	}
	return OverrideStatusCommand{
		orderID: orderID,
		status:  status,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c OverrideStatusCommand) Validate() error {
	return c.guard.Validate(ErrOverrideStatusCommandIsNotConstructed)
}

func (c OverrideStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c OverrideStatusCommand) Status() route.Status {
	return c.status
}
