package order

import (
	"fmt"

	"delivery/internal/core/domain/model/route"
	"delivery/internal/pkg/errs"
)

// Status is the lifecycle of the order aggregate. It differs from route.Status
// only in its first state: a route that is merely assigned leaves the order
// pending.
type Status int

const (
	Unknown Status = iota
	Pending
	Cooking
	Delivery
	Done
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:  "unknown",
		Pending:  "pending",
		Cooking:  "cooking",
		Delivery: "delivery",
		Done:     "done",
	}
}

// FromRouteStatus maps a route status onto the order lifecycle.
func FromRouteStatus(s route.Status) (Status, error) {
	switch s {
	case route.Assigned:
		return Pending, nil
	case route.Cooking:
		return Cooking, nil
	case route.Delivery:
		return Delivery, nil
	case route.Done:
		return Done, nil
	default:
		return Unknown, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid", fmt.Errorf("%s has no order status", s))
	}
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}
