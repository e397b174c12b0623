package services

import (
	"errors"
	"math"

	"delivery/internal/core/domain/model/courier"
	"delivery/internal/core/domain/model/kernel"
)

var ErrCourierNotFound = errors.New("courier not found")

// CourierLoad is a courier together with its current number of active routes.
type CourierLoad struct {
	Courier      *courier.Courier
	ActiveRoutes int
}

// CourierSelector picks the courier for a new order.
//
// Business rules:
//   - Idle couriers (no active routes) closest to the delivery point win
//   - With nobody idle, the closest courier overall takes the order
//   - Distance is the straight grid distance, ties go to the smaller courier ID
type CourierSelector struct{}

func NewCourierSelector() CourierSelector {
	return CourierSelector{}
}

func (s CourierSelector) Select(target kernel.Location, candidates []CourierLoad) (*courier.Courier, error) {
	if err := target.Validate(); err != nil {
		return nil, err
	}
	for _, c := range candidates {
		if err := c.Courier.Validate(); err != nil {
			return nil, err
		}
	}

	if best := s.nearest(target, candidates, true); best != nil {
		return best, nil
	}
	if best := s.nearest(target, candidates, false); best != nil {
		return best, nil
	}
	return nil, ErrCourierNotFound
}

func (s CourierSelector) nearest(target kernel.Location, candidates []CourierLoad, idleOnly bool) *courier.Courier {
	var (
		best     *courier.Courier
		bestDist = math.MaxFloat64
	)

	for _, c := range candidates {
		if idleOnly && c.ActiveRoutes > 0 {
			continue
		}
		d := c.Courier.Location().PlanarKm(target)
		if d < bestDist || (d == bestDist && best != nil && c.Courier.ID().Less(best.ID())) {
			best, bestDist = c.Courier, d
		}
	}
	return best
}
