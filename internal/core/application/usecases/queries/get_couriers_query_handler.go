package queries

import (
	"context"

	"delivery/internal/core/domain/model/kernel"
	"delivery/internal/core/domain/model/route"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetCouriersQueryHandler reads couriers sorted by name, each with the number
// of routes it is still working on.
type GetCouriersQueryHandler struct {
	db *gorm.DB
}

func NewGetCouriersQueryHandler(db *gorm.DB) GetCouriersQueryHandler {
	return GetCouriersQueryHandler{db: db}
}

func (h GetCouriersQueryHandler) Handle(ctx context.Context, query GetCouriersQuery) ([]CourierView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	couriers := make([]CourierView, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			c.id,
			c.name,
			c.location_lat,
			c.location_lng,
			c.available,
			c.bias_factor,
			c.reliability_score,
			c.completed_count,
			COUNT(r.id) AS active_routes
		FROM couriers c
		LEFT JOIN routes r ON r.courier_id = c.id AND r.status <> ?
		GROUP BY c.id, c.name, c.location_lat, c.location_lng, c.available,
			c.bias_factor, c.reliability_score, c.completed_count
		ORDER BY c.name, c.id
	`, route.Done.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var view CourierView
		var lat, lng float64
		var id uuid.UUID

		err = rows.Scan(
			&id,
			&view.Name,
			&lat,
			&lng,
			&view.Available,
			&view.BiasFactor,
			&view.ReliabilityScore,
			&view.CompletedCount,
			&view.ActiveRoutes,
		)
		if err != nil {
			return nil, err
		}

		courierID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		view.ID = courierID

		location, locErr := kernel.NewLocation(lat, lng)
		if locErr != nil {
			return nil, locErr
		}
		view.Location = location
		couriers = append(couriers, view)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return couriers, nil
}
