package queries

import (
	"context"
	"math"

	"delivery/internal/core/domain/model/kernel"
	"delivery/internal/core/domain/model/route"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetDeliveryStatsQueryHandler struct {
	db *gorm.DB
}

func NewGetDeliveryStatsQueryHandler(db *gorm.DB) GetDeliveryStatsQueryHandler {
	return GetDeliveryStatsQueryHandler{db: db}
}

// Handle reads route counts per status, the mean current ETA of active routes
// and per-courier workload. Every status appears in RoutesByStatus, with zero
// when no route has it.
func (h GetDeliveryStatsQueryHandler) Handle(ctx context.Context, query GetDeliveryStatsQuery) (DeliveryStats, error) {
	if err := query.Validate(); err != nil {
		return DeliveryStats{}, err
	}

	tx := h.db.WithContext(ctx)
	stats := DeliveryStats{
		RoutesByStatus: map[string]int{
			route.Assigned.String(): 0,
			route.Cooking.String():  0,
			route.Delivery.String(): 0,
			route.Done.String():     0,
		},
	}

	var statusRows []struct {
		Status string
		Routes int
	}
	if err := tx.Raw(`
		SELECT status, COUNT(*) AS routes
		FROM routes
		GROUP BY status
	`).Scan(&statusRows).Error; err != nil {
		return DeliveryStats{}, err
	}
	for _, row := range statusRows {
		stats.RoutesByStatus[row.Status] = row.Routes
		if row.Status == route.Done.String() {
			stats.CompletedRoutes += row.Routes
		} else {
			stats.ActiveRoutes += row.Routes
		}
	}

	var avg struct {
		AverageEta *float64
	}
	if err := tx.Raw(`
		SELECT AVG(eta_minutes) AS average_eta
		FROM routes
		WHERE status <> ?
	`, route.Done.String()).Scan(&avg).Error; err != nil {
		return DeliveryStats{}, err
	}
	if avg.AverageEta != nil {
		stats.AverageEtaMinutes = math.Round(*avg.AverageEta*10) / 10
	}

	var courierRows []struct {
		ID               uuid.UUID
		Name             string
		Available        bool
		BiasFactor       float64
		ReliabilityScore float64
		ActiveRoutes     int
		CompletedRoutes  int
	}
	if err := tx.Raw(`
		SELECT
			c.id,
			c.name,
			c.available,
			c.bias_factor,
			c.reliability_score,
			COALESCE(SUM(CASE WHEN r.status <> ? THEN 1 ELSE 0 END), 0) AS active_routes,
			COALESCE(SUM(CASE WHEN r.status = ? THEN 1 ELSE 0 END), 0) AS completed_routes
		FROM couriers c
		LEFT JOIN routes r ON r.courier_id = c.id
		GROUP BY c.id, c.name, c.available, c.bias_factor, c.reliability_score
		ORDER BY c.name, c.id
	`, route.Done.String(), route.Done.String()).Scan(&courierRows).Error; err != nil {
		return DeliveryStats{}, err
	}

	stats.Couriers = make([]CourierStats, 0, len(courierRows))
	for _, row := range courierRows {
		id, err := kernel.UUIDFromBytes(row.ID[:])
		if err != nil {
			return DeliveryStats{}, err
		}
		if row.Available {
			stats.AvailableCouriers++
		} else {
			stats.BusyCouriers++
		}
		stats.Couriers = append(stats.Couriers, CourierStats{
			CourierID:        id,
			Name:             row.Name,
			ActiveRoutes:     row.ActiveRoutes,
			CompletedRoutes:  row.CompletedRoutes,
			BiasFactor:       row.BiasFactor,
			ReliabilityScore: row.ReliabilityScore,
		})
	}

	return stats, nil
}
