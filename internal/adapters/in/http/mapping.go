package http

import (
	"errors"
	"fmt"

	"delivery/internal/core/application/usecases/commands"
	"delivery/internal/core/application/usecases/queries"
	"delivery/internal/core/domain/model/kernel"
	"delivery/internal/core/domain/model/route"
	"delivery/internal/generated/servers"
	"delivery/internal/pkg/errs"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

func fromAPIUUID(id openapi_types.UUID) (kernel.UUID, error) {
	return kernel.UUIDFromBytes(id[:])
}

func toAPIUUID(id kernel.UUID) openapi_types.UUID {
	return id.Bytes()
}

func parseStatus(s servers.StatusRequestStatus) (route.Status, error) {
	return route.ParseStatus(string(s))
}

func orderDetails(
	orderID, userID openapi_types.UUID,
	address string,
	coordinates servers.Location,
	total float64,
	items *[]servers.Item,
) (route.OrderDetails, error) {
	var errList []error

	oid, err := fromAPIUUID(orderID)
	errList = append(errList, wrapField("orderId", err))
	uid, err := fromAPIUUID(userID)
	errList = append(errList, wrapField("userId", err))
	loc, err := kernel.NewLocation(coordinates.Lat, coordinates.Lng)
	errList = append(errList, err)

	var lineItems []route.Item
	if items != nil {
		for i, it := range *items {
			item, itemErr := route.NewItem(it.Name, it.Quantity, it.Price)
			if itemErr != nil {
				errList = append(errList, fmt.Errorf("items[%d]: %w", i, itemErr))
				continue
			}
			lineItems = append(lineItems, item)
		}
	}

	if err = errors.Join(errList...); err != nil {
		return route.OrderDetails{}, err
	}

	return route.OrderDetails{
		OrderID:  oid,
		UserID:   uid,
		Address:  address,
		Location: loc,
		Total:    total,
		Items:    lineItems,
	}, nil
}

// manualOrderDetails returns nil when the request carries no order data at
// all, which asks for a reassignment of the existing route.
func manualOrderDetails(req servers.ManualAssignRequest) (*route.OrderDetails, error) {
	if req.UserId == nil && req.Address == nil && req.Coordinates == nil && req.Total == nil && req.Items == nil {
		return nil, nil
	}
	if req.UserId == nil {
		return nil, errs.NewValueIsRequiredError("userId")
	}
	if req.Address == nil {
		return nil, errs.NewValueIsRequiredError("address")
	}
	if req.Coordinates == nil {
		return nil, errs.NewValueIsRequiredError("coordinates")
	}

	total := 0.0
	if req.Total != nil {
		total = *req.Total
	}

	details, err := orderDetails(req.OrderId, *req.UserId, *req.Address, *req.Coordinates, total, req.Items)
	if err != nil {
		return nil, err
	}
	return &details, nil
}

func wrapField(field string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", field, err)
}

func toLocation(l kernel.Location) servers.Location {
	return servers.Location{Lat: l.Lat(), Lng: l.Lng()}
}

func toRoute(v queries.RouteView) servers.Route {
	items := make([]servers.Item, len(v.Items))
	for i, it := range v.Items {
		items[i] = servers.Item{Name: it.Name, Quantity: it.Quantity, Price: it.Price}
	}

	return servers.Route{
		Id:          toAPIUUID(v.ID),
		OrderId:     toAPIUUID(v.OrderID),
		UserId:      toAPIUUID(v.UserID),
		CourierId:   toAPIUUID(v.CourierID),
		CourierName: v.CourierName,
		Address:     v.Address,
		Location:    toLocation(v.Location),
		Status:      v.Status,
		Eta: servers.Eta{
			Minutes:         v.Eta.Minutes,
			LowerMinutes:    v.Eta.LowerMinutes,
			UpperMinutes:    v.Eta.UpperMinutes,
			ConfidenceScore: v.Eta.Confidence,
		},
		RouteSequence:         v.Sequence,
		RouteTotalTimeMinutes: v.RouteTotalTimeMinutes,
		RouteDistanceKm:       v.RouteDistanceKm,
		Total:                 v.Total,
		Items:                 items,
		CreatedAt:             v.CreatedAt,
		UpdatedAt:             v.UpdatedAt,
		CompletedAt:           v.CompletedAt,
	}
}

func toRoutes(views []queries.RouteView) []servers.Route {
	out := make([]servers.Route, len(views))
	for i, v := range views {
		out[i] = toRoute(v)
	}
	return out
}

func toEta(e route.Eta) servers.Eta {
	return servers.Eta{
		Minutes:         e.Minutes(),
		LowerMinutes:    e.LowerMinutes(),
		UpperMinutes:    e.UpperMinutes(),
		ConfidenceScore: e.Confidence(),
	}
}

func degradations(r commands.Result) *[]string {
	if len(r.Degradations) == 0 {
		return nil
	}
	out := make([]string, len(r.Degradations))
	for i, d := range r.Degradations {
		out[i] = string(d)
	}
	return &out
}

func toAssignResponse(res commands.AssignResult) servers.AssignResponse {
	return servers.AssignResponse{
		Outcome:      string(res.Outcome),
		Degradations: degradations(res.Result),
		Created:      res.Created,
		Route:        toRoute(queries.NewRouteView(res.Route)),
	}
}

func toRouteResponse(res commands.RouteResult) servers.RouteResponse {
	return servers.RouteResponse{
		Outcome:      string(res.Outcome),
		Degradations: degradations(res.Result),
		Route:        toRoute(queries.NewRouteView(res.Route)),
	}
}

func toOptimizedRoute(s commands.CourierSchedule, result commands.Result) servers.OptimizedRoute {
	steps := make([]servers.RouteStep, len(s.Schedule.Stops))
	for i, stop := range s.Schedule.Stops {
		raw := stop.RawEtaMinutes
		steps[i] = servers.RouteStep{
			Sequence:             stop.Sequence,
			OrderId:              toAPIUUID(stop.OrderID),
			DistanceKm:           stop.DistanceKm,
			TravelMinutes:        stop.TravelMinutes,
			DwellMinutes:         stop.DwellMinutes,
			RawEtaMinutes:        &raw,
			Eta:                  toEta(stop.Eta),
			CumulativeDistanceKm: stop.CumulativeKm,
		}
	}

	routes := make([]servers.Route, len(s.Routes))
	for i, rt := range s.Routes {
		routes[i] = toRoute(queries.NewRouteView(rt))
	}

	var courierID openapi_types.UUID
	if s.Courier != nil {
		courierID = toAPIUUID(s.Courier.ID())
	}

	return servers.OptimizedRoute{
		Outcome:          string(result.Outcome),
		Degradations:     degradations(result),
		CourierId:        courierID,
		Mode:             string(s.Schedule.Mode),
		Degraded:         s.Schedule.Degraded,
		Steps:            steps,
		TotalTimeMinutes: s.Schedule.TotalMinutes,
		TotalDistanceKm:  s.Schedule.TotalDistanceKm,
		Routes:           routes,
	}
}

func toCourier(v queries.CourierView) servers.Courier {
	return servers.Courier{
		Id:               toAPIUUID(v.ID),
		Name:             v.Name,
		Location:         toLocation(v.Location),
		Available:        v.Available,
		BiasFactor:       v.BiasFactor,
		ReliabilityScore: v.ReliabilityScore,
		CompletedCount:   v.CompletedCount,
		ActiveRoutes:     v.ActiveRoutes,
	}
}

func toDeliveryStats(s queries.DeliveryStats) servers.DeliveryStats {
	couriers := make([]servers.CourierStats, len(s.Couriers))
	for i, c := range s.Couriers {
		couriers[i] = servers.CourierStats{
			CourierId:        toAPIUUID(c.CourierID),
			Name:             c.Name,
			ActiveRoutes:     c.ActiveRoutes,
			CompletedRoutes:  c.CompletedRoutes,
			BiasFactor:       c.BiasFactor,
			ReliabilityScore: c.ReliabilityScore,
		}
	}

	return servers.DeliveryStats{
		ActiveRoutes:      s.ActiveRoutes,
		CompletedRoutes:   s.CompletedRoutes,
		RoutesByStatus:    s.RoutesByStatus,
		AverageEtaMinutes: s.AverageEtaMinutes,
		AvailableCouriers: s.AvailableCouriers,
		BusyCouriers:      s.BusyCouriers,
		Couriers:          couriers,
	}
}
