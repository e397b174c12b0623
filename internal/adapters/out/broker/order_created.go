package broker

import (
	"delivery/internal/core/domain/model/kernel"
	"delivery/internal/core/domain/model/route"
)

// OrderCreatedEvent is the upstream payload announcing a new order.
type OrderCreatedEvent struct {
	OrderID string           `json:"orderId"`
	UserID  string           `json:"userId"`
	Address string           `json:"address"`
	Coords  Coordinates      `json:"coordinates"`
	Total   float64          `json:"total"`
	Items   []OrderItemEvent `json:"items"`
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type OrderItemEvent struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// OrderDetails converts the payload, validating every field on the way.
func (e OrderCreatedEvent) OrderDetails() (route.OrderDetails, error) {
	orderID, err := kernel.UUIDFromString(e.OrderID)
	if err != nil {
		return route.OrderDetails{}, err
	}
	userID, err := kernel.UUIDFromString(e.UserID)
	if err != nil {
		return route.OrderDetails{}, err
	}
	loc, err := kernel.NewLocation(e.Coords.Lat, e.Coords.Lng)
	if err != nil {
		return route.OrderDetails{}, err
	}

	items := make([]route.Item, 0, len(e.Items))
	for _, it := range e.Items {
		item, itemErr := route.NewItem(it.Name, it.Quantity, it.Price)
		if itemErr != nil {
			return route.OrderDetails{}, itemErr
		}
		items = append(items, item)
	}

	details := route.OrderDetails{
		OrderID:  orderID,
		UserID:   userID,
		Address:  e.Address,
		Location: loc,
		Total:    e.Total,
		Items:    items,
	}
	return details, details.Validate()
}
