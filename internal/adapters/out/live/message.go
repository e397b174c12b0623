package live

import (
	"time"

	"delivery/internal/core/application/usecases/queries"
)

const TypeDeliveryUpdated = "delivery.updated"

// Envelope is the frame written to live observers.
type Envelope struct {
	Type      string       `json:"type"`
	EmittedAt time.Time    `json:"emittedAt"`
	Route     RouteMessage `json:"route"`
}

type RouteMessage struct {
	ID                    string             `json:"id"`
	OrderID               string             `json:"orderId"`
	UserID                string             `json:"userId"`
	CourierID             string             `json:"courierId"`
	CourierName           string             `json:"courierName"`
	Address               string             `json:"address"`
	Lat                   float64            `json:"lat"`
	Lng                   float64            `json:"lng"`
	Status                string             `json:"status"`
	EtaMinutes            int                `json:"etaMinutes"`
	EtaLowerMinutes       int                `json:"etaLowerMinutes"`
	EtaUpperMinutes       int                `json:"etaUpperMinutes"`
	EtaConfidenceScore    float64            `json:"etaConfidenceScore"`
	RouteSequence         int                `json:"routeSequence"`
	RouteTotalTimeMinutes int                `json:"routeTotalTimeMinutes"`
	RouteDistanceKm       float64            `json:"routeDistanceKm"`
	Total                 float64            `json:"total"`
	Items                 []queries.ItemView `json:"items"`
	UpdatedAt             time.Time          `json:"updatedAt"`
	CompletedAt           *time.Time         `json:"completedAt,omitempty"`
}

func newRouteMessage(v queries.RouteView) RouteMessage {
	return RouteMessage{
		ID:                    v.ID.String(),
		OrderID:               v.OrderID.String(),
		UserID:                v.UserID.String(),
		CourierID:             v.CourierID.String(),
		CourierName:           v.CourierName,
		Address:               v.Address,
		Lat:                   v.Location.Lat(),
		Lng:                   v.Location.Lng(),
		Status:                v.Status,
		EtaMinutes:            v.Eta.Minutes,
		EtaLowerMinutes:       v.Eta.LowerMinutes,
		EtaUpperMinutes:       v.Eta.UpperMinutes,
		EtaConfidenceScore:    v.Eta.Confidence,
		RouteSequence:         v.Sequence,
		RouteTotalTimeMinutes: v.RouteTotalTimeMinutes,
		RouteDistanceKm:       v.RouteDistanceKm,
		Total:                 v.Total,
		Items:                 v.Items,
		UpdatedAt:             v.UpdatedAt,
		CompletedAt:           v.CompletedAt,
	}
}
