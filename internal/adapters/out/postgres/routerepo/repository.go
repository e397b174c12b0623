package routerepo

import (
	"context"
	"errors"

	"delivery/internal/core/domain/model/kernel"
	"delivery/internal/core/domain/model/route"
	"delivery/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var doneStatus = route.Done.String()

// GormRouteRepository implements ports.RouteRepository using GORM.
type GormRouteRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormRouteRepository creates a new GORM route repository.
func NewGormRouteRepository(db *gorm.DB, tracker aggregateTracker) *GormRouteRepository {
	return &GormRouteRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts a new route. The partial unique index on order_id rejects a
// second active route for the same order.
func (r *GormRouteRepository) Add(ctx context.Context, aggregate *route.Route) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update overwrites every column of an existing route.
func (r *GormRouteRepository) Update(ctx context.Context, aggregate *route.Route) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&RouteDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("routeId", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// GetByOrder returns the newest route of the order.
func (r *GormRouteRepository) GetByOrder(ctx context.Context, orderID kernel.UUID) (*route.Route, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dto RouteDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("created_at DESC").
		Order("id DESC").
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundErrorWithCause("orderId", orderID.String(), err)
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetActiveByCourier returns the courier's non-done routes, oldest first.
func (r *GormRouteRepository) GetActiveByCourier(ctx context.Context, courierID kernel.UUID) ([]*route.Route, error) {
	if err := courierID.Validate(); err != nil {
		return nil, err
	}

	var dtos []RouteDTO
	if err := r.db.WithContext(ctx).
		Where("courier_id = ? AND status <> ?", courierID.Bytes(), doneStatus).
		Order("created_at").
		Order("id").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	return toDomainAll(dtos)
}

// CountActiveByCourier groups non-done routes by courier.
func (r *GormRouteRepository) CountActiveByCourier(ctx context.Context) (map[kernel.UUID]int, error) {
	var rows []struct {
		CourierID uuid.UUID
		Active    int
	}
	if err := r.db.WithContext(ctx).
		Model(&RouteDTO{}).
		Select("courier_id, COUNT(*) AS active").
		Where("status <> ?", doneStatus).
		Group("courier_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[kernel.UUID]int, len(rows))
	for _, row := range rows {
		id, err := kernel.UUIDFromBytes(row.CourierID[:])
		if err != nil {
			return nil, err
		}
		counts[id] = row.Active
	}
	return counts, nil
}

// GetCompletedByCourier returns the newest done routes of the courier.
func (r *GormRouteRepository) GetCompletedByCourier(
	ctx context.Context,
	courierID kernel.UUID,
	limit int,
) ([]*route.Route, error) {
	if err := courierID.Validate(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return []*route.Route{}, nil
	}

	var dtos []RouteDTO
	if err := r.db.WithContext(ctx).
		Where("courier_id = ? AND status = ?", courierID.Bytes(), doneStatus).
		Order("completed_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	return toDomainAll(dtos)
}

// CountCompletedByCourier counts all done routes of the courier.
func (r *GormRouteRepository) CountCompletedByCourier(ctx context.Context, courierID kernel.UUID) (int, error) {
	if err := courierID.Validate(); err != nil {
		return 0, err
	}

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&RouteDTO{}).
		Where("courier_id = ? AND status = ?", courierID.Bytes(), doneStatus).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

func toDomainAll(dtos []RouteDTO) ([]*route.Route, error) {
	routes := make([]*route.Route, 0, len(dtos))
	for _, dto := range dtos {
		rt, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		routes = append(routes, rt)
	}
	return routes, nil
}
