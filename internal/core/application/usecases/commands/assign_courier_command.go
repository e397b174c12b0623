package commands

import (
	"errors"

	"delivery/internal/core/domain/model/route"
	"delivery/internal/pkg/guard"
)

var ErrAssignCourierCommandIsNotConstructed = errors.New(
	"AssignCourierCommand must be created via NewAssignCourierCommand constructor",
)

// AssignCourierCommand asks for a new order to be handed to the most suitable
// courier: the nearest idle one, or the nearest overall when nobody is idle.
//
// Example:
//
//	cmd, err := NewAssignCourierCommand(route.OrderDetails{
//	    OrderID:  orderID,
//	    UserID:   userID,
//	    Address:  "Tverskaya 1",
//	    Location: location,
//	    Total:    31.5,
//	    Items:    items,
//	})
//	if err != nil {
//	    return err
//	}
//	res, err := handler.Handle(ctx, cmd)
type AssignCourierCommand struct {
	order route.OrderDetails
	guard guard.ConstructorGuard
}

func NewAssignCourierCommand(order route.OrderDetails) (AssignCourierCommand, error) {
	if err := order.Validate(); err != nil {
		return AssignCourierCommand{}, err
	}

	return AssignCourierCommand{
		order: order,
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (c AssignCourierCommand) Validate() error {
	return c.guard.Validate(ErrAssignCourierCommandIsNotConstructed)
}

func (c AssignCourierCommand) Order() route.OrderDetails {
	return c.order
}
