// Package queries contains the read side: plain SQL over the routes and
// couriers tables, returning read models instead of aggregates.
package queries

import (
	"time"

	"delivery/internal/core/domain/model/kernel"
	"delivery/internal/core/domain/model/route"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// RouteView is the read model of a route. It is also what handlers return
// after a command, so both sides render the same shape.
type RouteView struct {
	ID                    kernel.UUID
	OrderID               kernel.UUID
	UserID                kernel.UUID
	CourierID             kernel.UUID
	CourierName           string
	Address               string
	Location              kernel.Location
	Status                string
	Eta                   EtaView
	Sequence              int
	RouteTotalTimeMinutes int
	RouteDistanceKm       float64
	Total                 float64
	Items                 []ItemView
	CreatedAt             time.Time
	UpdatedAt             time.Time
	CompletedAt           *time.Time
}

type EtaView struct {
	Minutes      int
	LowerMinutes int
	UpperMinutes int
	Confidence   float64
}

type ItemView struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// NewRouteView renders an aggregate.
func NewRouteView(rt *route.Route) RouteView {
	items := make([]ItemView, 0, len(rt.Items()))
	for _, it := range rt.Items() {
		items = append(items, ItemView{Name: it.Name(), Quantity: it.Quantity(), Price: it.Price()})
	}

	return RouteView{
		ID:          rt.ID(),
		OrderID:     rt.OrderID(),
		UserID:      rt.UserID(),
		CourierID:   rt.CourierID(),
		CourierName: rt.CourierName(),
		Address:     rt.Address(),
		Location:    rt.Location(),
		Status:      rt.Status().String(),
		Eta: EtaView{
			Minutes:      rt.Eta().Minutes(),
			LowerMinutes: rt.Eta().LowerMinutes(),
			UpperMinutes: rt.Eta().UpperMinutes(),
			Confidence:   rt.Eta().Confidence(),
		},
		Sequence:              rt.Sequence(),
		RouteTotalTimeMinutes: rt.TotalTimeMinutes(),
		RouteDistanceKm:       rt.DistanceKm(),
		Total:                 rt.Total(),
		Items:                 items,
		CreatedAt:             rt.CreatedAt(),
		UpdatedAt:             rt.UpdatedAt(),
		CompletedAt:           rt.CompletedAt(),
	}
}

const routeColumns = `
	id, order_id, user_id, courier_id, courier_name, address,
	location_lat, location_lng, status,
	eta_minutes, eta_lower_minutes, eta_upper_minutes, eta_confidence,
	sequence, total_time_minutes, distance_km, total, items,
	created_at, updated_at, completed_at`

type routeRow struct {
	ID               uuid.UUID
	OrderID          uuid.UUID
	UserID           uuid.UUID
	CourierID        uuid.UUID
	CourierName      string
	Address          string
	LocationLat      float64
	LocationLng      float64
	Status           string
	EtaMinutes       int
	EtaLowerMinutes  int
	EtaUpperMinutes  int
	EtaConfidence    float64
	Sequence         int
	TotalTimeMinutes int
	DistanceKm       float64
	Total            float64
	Items            datatypes.JSONSlice[ItemView]
	CreatedAt        time.Time
	UpdatedAt        time.Time
	CompletedAt      *time.Time
}

func (r routeRow) toView() (RouteView, error) {
	ids := make([]kernel.UUID, 0, 4)
	for _, raw := range []uuid.UUID{r.ID, r.OrderID, r.UserID, r.CourierID} {
		id, err := kernel.UUIDFromBytes(raw[:])
		if err != nil {
			return RouteView{}, err
		}
		ids = append(ids, id)
	}

	loc, err := kernel.NewLocation(r.LocationLat, r.LocationLng)
	if err != nil {
		return RouteView{}, err
	}

	items := make([]ItemView, 0, len(r.Items))
	items = append(items, r.Items...)

	return RouteView{
		ID:          ids[0],
		OrderID:     ids[1],
		UserID:      ids[2],
		CourierID:   ids[3],
		CourierName: r.CourierName,
		Address:     r.Address,
		Location:    loc,
		Status:      r.Status,
		Eta: EtaView{
			Minutes:      r.EtaMinutes,
			LowerMinutes: r.EtaLowerMinutes,
			UpperMinutes: r.EtaUpperMinutes,
			Confidence:   r.EtaConfidence,
		},
		Sequence:              r.Sequence,
		RouteTotalTimeMinutes: r.TotalTimeMinutes,
		RouteDistanceKm:       r.DistanceKm,
		Total:                 r.Total,
		Items:                 items,
		CreatedAt:             r.CreatedAt.UTC(),
		UpdatedAt:             r.UpdatedAt.UTC(),
		CompletedAt:           r.CompletedAt,
	}, nil
}

func toViews(rows []routeRow) ([]RouteView, error) {
	views := make([]RouteView, 0, len(rows))
	for _, row := range rows {
		v, err := row.toView()
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}
