package commands

import (
	"errors"

	"delivery/internal/core/domain/model/kernel"
	"delivery/internal/core/domain/model/route"
	"delivery/internal/pkg/guard"
)

var ErrAdvanceStatusCommandIsNotConstructed = errors.New(
	"AdvanceStatusCommand must be created via NewAdvanceStatusCommand constructor",
)

// AdvanceStatusCommand is a courier-initiated status change. Only the next
// status of the forward sequence, or the current one, is accepted. When an
// actor courier is given it must own the route.
type AdvanceStatusCommand struct {
	orderID kernel.UUID
	status  route.Status
	actor   *kernel.UUID
	guard   guard.ConstructorGuard
}

// NewAdvanceStatusCommand accepts a nil actor for calls made on behalf of an
// administrator.
func NewAdvanceStatusCommand(orderID kernel.UUID, status route.Status, actor *kernel.UUID) (AdvanceStatusCommand, error) {
	errList := []error{orderID.Validate(), status.Validate()}
	if actor != nil {
		errList = append(errList, actor.Validate())
	}
	if err := errors.Join(errList...); err != nil {
		return AdvanceStatusCommand{}, err
	}

	cmd := AdvanceStatusCommand{
		orderID: orderID,
		status:  status,
		guard:   guard.NewConstructorGuard(),
	}
	if actor != nil {
		id := *actor
		cmd.actor = &id
	}
	return cmd, nil
}

func (c AdvanceStatusCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceStatusCommandIsNotConstructed)
}

func (c AdvanceStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c AdvanceStatusCommand) Status() route.Status {
	return c.status
}

func (c AdvanceStatusCommand) Actor() (kernel.UUID, bool) {
	if c.actor == nil {
		return kernel.UUID{}, false
	}
	return *c.actor, true
}
