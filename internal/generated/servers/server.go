package servers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// Administrator forces a route status
	// (POST /api/v1/admin/routes/orders/{orderId}/status)
	OverrideStatus(ctx echo.Context, orderId openapi_types.UUID) error
	// Courier directory
	// (GET /api/v1/couriers)
	GetCouriers(ctx echo.Context) error
	// Register a courier
	// (POST /api/v1/couriers)
	CreateCourier(ctx echo.Context) error
	// Report a courier position
	// (PUT /api/v1/couriers/{courierId}/location)
	MoveCourier(ctx echo.Context, courierId openapi_types.UUID) error
	// Recompute and return a courier's schedule
	// (GET /api/v1/couriers/{courierId}/optimized-route)
	GetOptimizedRoute(ctx echo.Context, courierId openapi_types.UUID, params GetOptimizedRouteParams) error
	// Routes that are not done
	// (GET /api/v1/routes/active)
	GetActiveRoutes(ctx echo.Context, params GetActiveRoutesParams) error
	// Assign the nearest suitable courier to a new order
	// (POST /api/v1/routes/assign)
	AssignCourier(ctx echo.Context) error
	// Hand an order to a chosen courier
	// (POST /api/v1/routes/assign/manual)
	AssignCourierManually(ctx echo.Context) error
	// Latest route of an order
	// (GET /api/v1/routes/orders/{orderId})
	GetRouteByOrder(ctx echo.Context, orderId openapi_types.UUID) error
	// Recompute the schedule of the courier holding the order
	// (POST /api/v1/routes/orders/{orderId}/recalculate)
	RecalculateEta(ctx echo.Context, orderId openapi_types.UUID) error
	// Courier moves the route to its next status
	// (POST /api/v1/routes/orders/{orderId}/status)
	AdvanceStatus(ctx echo.Context, orderId openapi_types.UUID) error
	// Aggregate dispatch state
	// (GET /api/v1/stats)
	GetDeliveryStats(ctx echo.Context) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

// OverrideStatus converts echo context to params.
func (w *ServerInterfaceWrapper) OverrideStatus(ctx echo.Context) error {
	orderId, err := bindUUIDPath(ctx, "orderId")
	if err != nil {
		return err
	}

	ctx.Set(BearerAuthScopes, []string{})

	return w.Handler.OverrideStatus(ctx, orderId)
}

// GetCouriers converts echo context to params.
func (w *ServerInterfaceWrapper) GetCouriers(ctx echo.Context) error {
	ctx.Set(BearerAuthScopes, []string{})

	return w.Handler.GetCouriers(ctx)
}

// CreateCourier converts echo context to params.
func (w *ServerInterfaceWrapper) CreateCourier(ctx echo.Context) error {
	ctx.Set(BearerAuthScopes, []string{})

	return w.Handler.CreateCourier(ctx)
}

// MoveCourier converts echo context to params.
func (w *ServerInterfaceWrapper) MoveCourier(ctx echo.Context) error {
	courierId, err := bindUUIDPath(ctx, "courierId")
	if err != nil {
		return err
	}

	ctx.Set(BearerAuthScopes, []string{})

	return w.Handler.MoveCourier(ctx, courierId)
}

// GetOptimizedRoute converts echo context to params.
func (w *ServerInterfaceWrapper) GetOptimizedRoute(ctx echo.Context) error {
	courierId, err := bindUUIDPath(ctx, "courierId")
	if err != nil {
		return err
	}

	ctx.Set(BearerAuthScopes, []string{})

	var params GetOptimizedRouteParams
	err = runtime.BindQueryParameter("form", true, false, "mode", ctx.QueryParams(), &params.Mode)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter mode: %s", err))
	}

	return w.Handler.GetOptimizedRoute(ctx, courierId, params)
}

// GetActiveRoutes converts echo context to params.
func (w *ServerInterfaceWrapper) GetActiveRoutes(ctx echo.Context) error {
	ctx.Set(BearerAuthScopes, []string{})

	var params GetActiveRoutesParams
	err := runtime.BindQueryParameter("form", true, false, "courierId", ctx.QueryParams(), &params.CourierId)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter courierId: %s", err))
	}

	return w.Handler.GetActiveRoutes(ctx, params)
}

// AssignCourier converts echo context to params.
func (w *ServerInterfaceWrapper) AssignCourier(ctx echo.Context) error {
	ctx.Set(BearerAuthScopes, []string{})

	return w.Handler.AssignCourier(ctx)
}

// AssignCourierManually converts echo context to params.
func (w *ServerInterfaceWrapper) AssignCourierManually(ctx echo.Context) error {
	ctx.Set(BearerAuthScopes, []string{})

	return w.Handler.AssignCourierManually(ctx)
}

// GetRouteByOrder converts echo context to params.
func (w *ServerInterfaceWrapper) GetRouteByOrder(ctx echo.Context) error {
	orderId, err := bindUUIDPath(ctx, "orderId")
	if err != nil {
		return err
	}

	ctx.Set(BearerAuthScopes, []string{})

	return w.Handler.GetRouteByOrder(ctx, orderId)
}

// RecalculateEta converts echo context to params.
func (w *ServerInterfaceWrapper) RecalculateEta(ctx echo.Context) error {
	orderId, err := bindUUIDPath(ctx, "orderId")
	if err != nil {
		return err
	}

	ctx.Set(BearerAuthScopes, []string{})

	return w.Handler.RecalculateEta(ctx, orderId)
}

// AdvanceStatus converts echo context to params.
func (w *ServerInterfaceWrapper) AdvanceStatus(ctx echo.Context) error {
	orderId, err := bindUUIDPath(ctx, "orderId")
	if err != nil {
		return err
	}

	ctx.Set(BearerAuthScopes, []string{})

	return w.Handler.AdvanceStatus(ctx, orderId)
}

// GetDeliveryStats converts echo context to params.
func (w *ServerInterfaceWrapper) GetDeliveryStats(ctx echo.Context) error {
	ctx.Set(BearerAuthScopes, []string{})

	return w.Handler.GetDeliveryStats(ctx)
}

func bindUUIDPath(ctx echo.Context, name string) (openapi_types.UUID, error) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, ctx.Param(name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return id, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter %s: %s", name, err))
	}
	return id, nil
}

// EchoRouter is the subset of echo.Echo and echo.Group used for registration.
type EchoRouter interface {
	CONNECT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	DELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	HEAD(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	OPTIONS(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PATCH(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	TRACE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds each server route to the EchoRouter.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	RegisterHandlersWithBaseURL(router, si, "")
}

// RegisterHandlersWithBaseURL registers handlers, and prepends BaseURL to
// the paths, so that the paths can be served under a prefix.
func RegisterHandlersWithBaseURL(router EchoRouter, si ServerInterface, baseURL string) {
	wrapper := ServerInterfaceWrapper{
		Handler: si,
	}

	router.POST(baseURL+"/api/v1/admin/routes/orders/:orderId/status", wrapper.OverrideStatus)
	router.GET(baseURL+"/api/v1/couriers", wrapper.GetCouriers)
	router.POST(baseURL+"/api/v1/couriers", wrapper.CreateCourier)
	router.PUT(baseURL+"/api/v1/couriers/:courierId/location", wrapper.MoveCourier)
	router.GET(baseURL+"/api/v1/couriers/:courierId/optimized-route", wrapper.GetOptimizedRoute)
	router.GET(baseURL+"/api/v1/routes/active", wrapper.GetActiveRoutes)
	router.POST(baseURL+"/api/v1/routes/assign", wrapper.AssignCourier)
	router.POST(baseURL+"/api/v1/routes/assign/manual", wrapper.AssignCourierManually)
	router.GET(baseURL+"/api/v1/routes/orders/:orderId", wrapper.GetRouteByOrder)
	router.POST(baseURL+"/api/v1/routes/orders/:orderId/recalculate", wrapper.RecalculateEta)
	router.POST(baseURL+"/api/v1/routes/orders/:orderId/status", wrapper.AdvanceStatus)
	router.GET(baseURL+"/api/v1/stats", wrapper.GetDeliveryStats)
}
