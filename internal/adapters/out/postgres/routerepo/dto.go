// Package routerepo persists delivery routes. Every route row carries the
// order details it was created from, so routes are self-contained and the
// order service is never queried on the read path.
package routerepo

import (
	"time"

	"delivery/internal/core/domain/model/kernel"
	"delivery/internal/core/domain/model/route"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// RouteDTO represents the database structure for persisting route aggregates.
// At most one non-done route may exist per order.
type RouteDTO struct {
	ID                uuid.UUID                    `gorm:"type:uuid;primaryKey"`
	OrderID           uuid.UUID                    `gorm:"type:uuid;not null;index:idx_routes_order_created,priority:1;uniqueIndex:idx_routes_active_order,where:status <> 'done'"`
	UserID            uuid.UUID                    `gorm:"type:uuid;not null"`
	CourierID         uuid.UUID                    `gorm:"type:uuid;not null;index:idx_routes_courier_status,priority:1"`
	CourierName       string                       `gorm:"type:varchar(255);not null"`
	Address           string                       `gorm:"type:text;not null"`
	Location          LocationDTO                  `gorm:"embedded;embeddedPrefix:location_"`
	Status            string                       `gorm:"type:varchar(16);not null;index:idx_routes_courier_status,priority:2"`
	Eta               EtaDTO                       `gorm:"embedded;embeddedPrefix:eta_"`
	InitialEtaMinutes int                          `gorm:"not null;default:0"`
	Sequence          int                          `gorm:"not null;default:0"`
	TotalTimeMinutes  int                          `gorm:"not null;default:0"`
	DistanceKm        float64                      `gorm:"not null;default:0"`
	Total             float64                      `gorm:"not null;default:0"`
	Items             datatypes.JSONSlice[ItemDTO] `gorm:"not null"`
	CreatedAt         time.Time                    `gorm:"not null;autoCreateTime:false;index:idx_routes_order_created,priority:2"`
	UpdatedAt         time.Time                    `gorm:"not null;autoUpdateTime:false"`
	CompletedAt       *time.Time
}

// TableName overrides GORM's default "route_dtos".
func (RouteDTO) TableName() string {
	return "routes"
}

// LocationDTO stores the delivery destination.
type LocationDTO struct {
	Lat float64 `gorm:"not null"`
	Lng float64 `gorm:"not null"`
}

// EtaDTO stores the current estimate and its band.
type EtaDTO struct {
	Minutes      int     `gorm:"not null"`
	LowerMinutes int     `gorm:"not null"`
	UpperMinutes int     `gorm:"not null"`
	Confidence   float64 `gorm:"not null"`
}

// ItemDTO is one order line inside the items JSON column.
type ItemDTO struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

func fromDomain(r *route.Route) RouteDTO {
	items := make([]ItemDTO, 0, len(r.Items()))
	for _, it := range r.Items() {
		items = append(items, ItemDTO{Name: it.Name(), Quantity: it.Quantity(), Price: it.Price()})
	}

	return RouteDTO{
		ID:          r.ID().Bytes(),
		OrderID:     r.OrderID().Bytes(),
		UserID:      r.UserID().Bytes(),
		CourierID:   r.CourierID().Bytes(),
		CourierName: r.CourierName(),
		Address:     r.Address(),
		Location: LocationDTO{
			Lat: r.Location().Lat(),
			Lng: r.Location().Lng(),
		},
		Status: r.Status().String(),
		Eta: EtaDTO{
			Minutes:      r.Eta().Minutes(),
			LowerMinutes: r.Eta().LowerMinutes(),
			UpperMinutes: r.Eta().UpperMinutes(),
			Confidence:   r.Eta().Confidence(),
		},
		InitialEtaMinutes: r.InitialEtaMinutes(),
		Sequence:          r.Sequence(),
		TotalTimeMinutes:  r.TotalTimeMinutes(),
		DistanceKm:        r.DistanceKm(),
		Total:             r.Total(),
		Items:             datatypes.NewJSONSlice(items),
		CreatedAt:         r.CreatedAt().UTC(),
		UpdatedAt:         r.UpdatedAt().UTC(),
		CompletedAt:       utcOrNil(r.CompletedAt()),
	}
}

func toDomain(dto RouteDTO) (*route.Route, error) {
	ids := make([]kernel.UUID, 0, 4)
	for _, raw := range []uuid.UUID{dto.ID, dto.OrderID, dto.UserID, dto.CourierID} {
		id, err := kernel.UUIDFromBytes(raw[:])
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	loc, err := kernel.NewLocation(dto.Location.Lat, dto.Location.Lng)
	if err != nil {
		return nil, err
	}

	status, err := route.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	eta, err := route.NewEta(dto.Eta.Minutes, dto.Eta.LowerMinutes, dto.Eta.UpperMinutes, dto.Eta.Confidence)
	if err != nil {
		return nil, err
	}

	items := make([]route.Item, 0, len(dto.Items))
	for _, it := range dto.Items {
		item, itemErr := route.NewItem(it.Name, it.Quantity, it.Price)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return route.RestoreRoute(route.State{
		ID:                ids[0],
		OrderID:           ids[1],
		UserID:            ids[2],
		CourierID:         ids[3],
		CourierName:       dto.CourierName,
		Address:           dto.Address,
		Location:          loc,
		Status:            status,
		Eta:               eta,
		InitialEtaMinutes: dto.InitialEtaMinutes,
		Sequence:          dto.Sequence,
		TotalTimeMinutes:  dto.TotalTimeMinutes,
		DistanceKm:        dto.DistanceKm,
		Total:             dto.Total,
		Items:             items,
		CreatedAt:         dto.CreatedAt,
		UpdatedAt:         dto.UpdatedAt,
		CompletedAt:       dto.CompletedAt,
	})
}

func utcOrNil(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
