package commands

import (
	"errors"
	"fmt"

	"delivery/internal/core/domain/model/kernel"
	"delivery/internal/core/domain/model/route"
	"delivery/internal/pkg/errs"
	"delivery/internal/pkg/guard"
)

var ErrAssignCourierManuallyCommandIsNotConstructed = errors.New(
	"AssignCourierManuallyCommand must be created via NewAssignCourierManuallyCommand constructor",
)

// AssignCourierManuallyCommand hands an order to a courier chosen by an
// administrator. Order details are only needed when the order has no route
// yet; an active route is simply reassigned.
type AssignCourierManuallyCommand struct {
	orderID   kernel.UUID
	courierID kernel.UUID
	order     *route.OrderDetails
	guard     guard.ConstructorGuard
}

// NewAssignCourierManuallyCommand accepts nil details. When details are given
// their order ID must equal orderID.
func NewAssignCourierManuallyCommand(
	orderID, courierID kernel.UUID,
	order *route.OrderDetails,
) (AssignCourierManuallyCommand, error) {
	errList := []error{orderID.Validate(), courierID.Validate()}
	if order != nil {
		errList = append(errList, order.Validate())
		if !order.OrderID.IsEqual(orderID) {
			errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
				"orderId", fmt.Errorf("body order %s differs from %s", order.OrderID, orderID)))
		}
	}
	if err := errors.Join(errList...); err != nil {
		return AssignCourierManuallyCommand{}, err
	}

	cmd := AssignCourierManuallyCommand{
		orderID:   orderID,
		courierID: courierID,
		guard:     guard.NewConstructorGuard(),
	}
	if order != nil {
		details := *order
		cmd.order = &details
	}
	return cmd, nil
}

func (c AssignCourierManuallyCommand) Validate() error {
	return c.guard.Validate(ErrAssignCourierManuallyCommandIsNotConstructed)
}

func (c AssignCourierManuallyCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c AssignCourierManuallyCommand) CourierID() kernel.UUID {
	return c.courierID
}

// Order returns the details to create the route from, if given.
func (c AssignCourierManuallyCommand) Order() (route.OrderDetails, bool) {
	if c.order == nil {
		return route.OrderDetails{}, false
	}
	return *c.order, true
}
