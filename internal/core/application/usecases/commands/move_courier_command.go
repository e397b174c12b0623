package commands

import (
	"errors"

	"delivery/internal/core/domain/model/kernel"
	"delivery/internal/pkg/guard"
)

var ErrMoveCourierCommandIsNotConstructed = errors.New(
	"MoveCourierCommand must be created via NewMoveCourierCommand constructor",
)

// MoveCourierCommand reports a courier's new position.
type MoveCourierCommand struct {
	courierID kernel.UUID
	location  kernel.Location
	guard     guard.ConstructorGuard
}

func NewMoveCourierCommand(courierID kernel.UUID, location kernel.Location) (MoveCourierCommand, error) {
	if err := errors.Join(courierID.Validate(), location.Validate()); err != nil {
		return MoveCourierCommand{}, err
	}
	return MoveCourierCommand{
		courierID: courierID,
		location:  location,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c MoveCourierCommand) Validate() error {
	return c.guard.Validate(ErrMoveCourierCommandIsNotConstructed)
}

func (c MoveCourierCommand) CourierID() kernel.UUID {
	return c.courierID
}

func (c MoveCourierCommand) Location() kernel.Location {
	return c.location
}
