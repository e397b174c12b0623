package commands

import (
	"time"

	"delivery/internal/core/domain/model/courier"
	"delivery/internal/core/domain/model/kernel"
	"delivery/internal/core/domain/model/route"
	"delivery/internal/core/domain/services"
)

func newRoute(details route.OrderDetails, c *courier.Courier, now time.Time) (*route.Route, error) {
	placeholder, err := services.PlaceholderEta(details.OrderID)
	if err != nil {
		return nil, err
	}
	return route.NewRoute(kernel.NewUUID(), details, c, placeholder, now)
}
