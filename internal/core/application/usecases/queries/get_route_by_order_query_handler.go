package queries

import (
	"context"

	"delivery/internal/pkg/errs"

	"gorm.io/gorm"
)

type GetRouteByOrderQueryHandler struct {
	db *gorm.DB
}

func NewGetRouteByOrderQueryHandler(db *gorm.DB) GetRouteByOrderQueryHandler {
	return GetRouteByOrderQueryHandler{db: db}
}

// Handle returns errs.ObjectNotFoundError when the order has no route.
func (h GetRouteByOrderQueryHandler) Handle(ctx context.Context, query GetRouteByOrderQuery) (RouteView, error) {
	if err := query.Validate(); err != nil {
		return RouteView{}, err
	}

	var rows []routeRow
	err := h.db.WithContext(ctx).Raw(`
		SELECT `+routeColumns+`
		FROM routes
		WHERE order_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`, query.OrderID().Bytes()).Scan(&rows).Error
	if err != nil {
		return RouteView{}, err
	}

	if len(rows) == 0 {
		return RouteView{}, errs.NewObjectNotFoundError("orderId", query.OrderID().String())
	}

	return rows[0].toView()
}
