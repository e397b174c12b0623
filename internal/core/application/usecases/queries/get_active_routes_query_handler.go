package queries

import (
	"context"

	"delivery/internal/core/domain/model/route"

	"gorm.io/gorm"
)

// GetActiveRoutesQueryHandler returns active routes grouped by courier and in
// visiting order within each courier.
type GetActiveRoutesQueryHandler struct {
	db *gorm.DB
}

func NewGetActiveRoutesQueryHandler(db *gorm.DB) GetActiveRoutesQueryHandler {
	return GetActiveRoutesQueryHandler{db: db}
}

func (h GetActiveRoutesQueryHandler) Handle(ctx context.Context, query GetActiveRoutesQuery) ([]RouteView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	tx := h.db.WithContext(ctx)
	var rows []routeRow

	var err error
	if courierID, ok := query.CourierID(); ok {
		err = tx.Raw(`
			SELECT `+routeColumns+`
			FROM routes
			WHERE status <> ? AND courier_id = ?
			ORDER BY sequence, created_at, id
		`, route.Done.String(), courierID.Bytes()).Scan(&rows).Error
	} else {
		err = tx.Raw(`
			SELECT `+routeColumns+`
			FROM routes
			WHERE status <> ?
			ORDER BY courier_id, sequence, created_at, id
		`, route.Done.String()).Scan(&rows).Error
	}
	if err != nil {
		return nil, err
	}

	return toViews(rows)
}
