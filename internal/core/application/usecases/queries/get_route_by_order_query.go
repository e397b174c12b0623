package queries

import (
	"errors"

	"delivery/internal/core/domain/model/kernel"
	"delivery/internal/pkg/guard"
)

var ErrGetRouteByOrderQueryIsNotConstructed = errors.New(
	"GetRouteByOrderQuery must be created via NewGetRouteByOrderQuery constructor",
)

// GetRouteByOrderQuery looks up the newest route of an order, active or done.
type GetRouteByOrderQuery struct {
	orderID kernel.UUID
	guard   guard.ConstructorGuard
}

func NewGetRouteByOrderQuery(orderID kernel.UUID) (GetRouteByOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetRouteByOrderQuery{}, err
	}
	return GetRouteByOrderQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetRouteByOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetRouteByOrderQueryIsNotConstructed)
}

func (q GetRouteByOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}
