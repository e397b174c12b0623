package order

import (
	"time"

	"delivery/internal/core/domain/model/route"
)

// DeliverySnapshot is the flat view of a route that the order aggregate stores
// and that delivery events carry.
type DeliverySnapshot struct {
	OrderID               string    `json:"orderId"`
	CourierID             string    `json:"courierId"`
	CourierName           string    `json:"courierName"`
	Address               string    `json:"address"`
	EtaMinutes            int       `json:"etaMinutes"`
	EtaLowerMinutes       int       `json:"etaLowerMinutes"`
	EtaUpperMinutes       int       `json:"etaUpperMinutes"`
	EtaConfidenceScore    float64   `json:"etaConfidenceScore"`
	RouteSequence         int       `json:"routeSequence"`
	RouteTotalTimeMinutes int       `json:"routeTotalTimeMinutes"`
	RouteDistanceKm       float64   `json:"routeDistanceKm"`
	Status                string    `json:"status"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

func NewDeliverySnapshot(r *route.Route) DeliverySnapshot {
	eta := r.Eta()
	return DeliverySnapshot{
		OrderID:               r.OrderID().String(),
		CourierID:             r.CourierID().String(),
		CourierName:           r.CourierName(),
		Address:               r.Address(),
		EtaMinutes:            eta.Minutes(),
		EtaLowerMinutes:       eta.LowerMinutes(),
		EtaUpperMinutes:       eta.UpperMinutes(),
		EtaConfidenceScore:    eta.Confidence(),
		RouteSequence:         r.Sequence(),
		RouteTotalTimeMinutes: r.TotalTimeMinutes(),
		RouteDistanceKm:       r.DistanceKm(),
		Status:                r.Status().String(),
		UpdatedAt:             r.UpdatedAt(),
	}
}
