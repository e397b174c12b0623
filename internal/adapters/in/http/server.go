package http

import (
	"log/slog"
	"net/http"

	"delivery/internal/adapters/in/auth"
	"delivery/internal/core/application/usecases/commands"
	"delivery/internal/core/application/usecases/queries"
	"delivery/internal/core/domain/model/kernel"
	"delivery/internal/generated/servers"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

var _ servers.ServerInterface = (*Server)(nil)

// Server implements the ServerInterface for handling HTTP requests.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	assignCourierHandler         commands.AssignCourierCommandHandler
	assignCourierManuallyHandler commands.AssignCourierManuallyCommandHandler
	advanceStatusHandler         commands.AdvanceStatusCommandHandler
	overrideStatusHandler        commands.OverrideStatusCommandHandler
	recalculateEtaHandler        commands.RecalculateEtaCommandHandler
	optimizeCourierRouteHandler  commands.OptimizeCourierRouteCommandHandler
	createCourierHandler         commands.CreateCourierCommandHandler
	moveCourierHandler           commands.MoveCourierCommandHandler

	// Query handlers
	getRouteByOrderHandler  queries.GetRouteByOrderQueryHandler
	getActiveRoutesHandler  queries.GetActiveRoutesQueryHandler
	getCouriersHandler      queries.GetCouriersQueryHandler
	getDeliveryStatsHandler queries.GetDeliveryStatsQueryHandler

	logger *slog.Logger
}

// Handlers groups everything NewServer needs.
type Handlers struct {
	AssignCourier         commands.AssignCourierCommandHandler
	AssignCourierManually commands.AssignCourierManuallyCommandHandler
	AdvanceStatus         commands.AdvanceStatusCommandHandler
	OverrideStatus        commands.OverrideStatusCommandHandler
	RecalculateEta        commands.RecalculateEtaCommandHandler
	OptimizeCourierRoute  commands.OptimizeCourierRouteCommandHandler
	CreateCourier         commands.CreateCourierCommandHandler
	MoveCourier           commands.MoveCourierCommandHandler

	GetRouteByOrder  queries.GetRouteByOrderQueryHandler
	GetActiveRoutes  queries.GetActiveRoutesQueryHandler
	GetCouriers      queries.GetCouriersQueryHandler
	GetDeliveryStats queries.GetDeliveryStatsQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(h Handlers, logger *slog.Logger) *Server {
	return &Server{
		assignCourierHandler:         h.AssignCourier,
		assignCourierManuallyHandler: h.AssignCourierManually,
		advanceStatusHandler:         h.AdvanceStatus,
		overrideStatusHandler:        h.OverrideStatus,
		recalculateEtaHandler:        h.RecalculateEta,
		optimizeCourierRouteHandler:  h.OptimizeCourierRoute,
		createCourierHandler:         h.CreateCourier,
		moveCourierHandler:           h.MoveCourier,
		getRouteByOrderHandler:       h.GetRouteByOrder,
		getActiveRoutesHandler:       h.GetActiveRoutes,
		getCouriersHandler:           h.GetCouriers,
		getDeliveryStatsHandler:      h.GetDeliveryStats,
		logger:                       logger.With("component", "http"),
	}
}

// AssignCourier handles POST /api/v1/routes/assign - auto-assigns a new order.
func (s *Server) AssignCourier(ctx echo.Context) error {
	if _, ok := auth.Authorize(ctx, auth.RoleAdmin, auth.RoleService); !ok {
		return forbidden(ctx)
	}

	var req servers.AssignCourierJSONRequestBody
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	details, err := orderDetails(req.OrderId, req.UserId, req.Address, req.Coordinates, req.Total, req.Items)
	if err != nil {
		return s.problem(ctx, err)
	}
	cmd, err := commands.NewAssignCourierCommand(details)
	if err != nil {
		return s.problem(ctx, err)
	}

	res, err := s.assignCourierHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.problem(ctx, err)
	}

	return ctx.JSON(createdOrOK(res.Created), toAssignResponse(res))
}

// AssignCourierManually handles POST /api/v1/routes/assign/manual.
func (s *Server) AssignCourierManually(ctx echo.Context) error {
	if _, ok := auth.Authorize(ctx, auth.RoleAdmin); !ok {
		return forbidden(ctx)
	}

	var req servers.AssignCourierManuallyJSONRequestBody
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	orderID, err := fromAPIUUID(req.OrderId)
	if err != nil {
		return s.problem(ctx, err)
	}
	courierID, err := fromAPIUUID(req.CourierId)
	if err != nil {
		return s.problem(ctx, err)
	}
	details, err := manualOrderDetails(req)
	if err != nil {
		return s.problem(ctx, err)
	}

	cmd, err := commands.NewAssignCourierManuallyCommand(orderID, courierID, details)
	if err != nil {
		return s.problem(ctx, err)
	}

	res, err := s.assignCourierManuallyHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.problem(ctx, err)
	}

	return ctx.JSON(createdOrOK(res.Created), toAssignResponse(res))
}

// GetRouteByOrder handles GET /api/v1/routes/orders/{orderId}.
func (s *Server) GetRouteByOrder(ctx echo.Context, orderId openapi_types.UUID) error {
	orderID, err := fromAPIUUID(orderId)
	if err != nil {
		return s.problem(ctx, err)
	}
	query, err := queries.NewGetRouteByOrderQuery(orderID)
	if err != nil {
		return s.problem(ctx, err)
	}

	view, err := s.getRouteByOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.problem(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toRoute(view))
}

// GetActiveRoutes handles GET /api/v1/routes/active - optionally for one courier.
func (s *Server) GetActiveRoutes(ctx echo.Context, params servers.GetActiveRoutesParams) error {
	var courierID *kernel.UUID
	if params.CourierId != nil {
		id, err := fromAPIUUID(*params.CourierId)
		if err != nil {
			return s.problem(ctx, err)
		}
		courierID = &id
	}

	query, err := queries.NewGetActiveRoutesQuery(courierID)
	if err != nil {
		return s.problem(ctx, err)
	}

	views, err := s.getActiveRoutesHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.problem(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toRoutes(views))
}

// AdvanceStatus handles POST /api/v1/routes/orders/{orderId}/status. A courier
// may only move its own routes; administrators act on any route.
func (s *Server) AdvanceStatus(ctx echo.Context, orderId openapi_types.UUID) error {
	principal, ok := auth.Authorize(ctx, auth.RoleCourier, auth.RoleAdmin)
	if !ok {
		return forbidden(ctx)
	}

	var req servers.AdvanceStatusJSONRequestBody
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	var actor *kernel.UUID
	if !principal.IsAdmin() {
		id, err := kernel.UUIDFromString(principal.Subject)
		if err != nil {
			return forbidden(ctx)
		}
		actor = &id
	}

	orderID, err := fromAPIUUID(orderId)
	if err != nil {
		return s.problem(ctx, err)
	}
	status, err := parseStatus(req.Status)
	if err != nil {
		return s.problem(ctx, err)
	}
	cmd, err := commands.NewAdvanceStatusCommand(orderID, status, actor)
	if err != nil {
		return s.problem(ctx, err)
	}

	res, err := s.advanceStatusHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.problem(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toRouteResponse(res))
}

// OverrideStatus handles POST /api/v1/admin/routes/orders/{orderId}/status.
func (s *Server) OverrideStatus(ctx echo.Context, orderId openapi_types.UUID) error {
	if _, ok := auth.Authorize(ctx, auth.RoleAdmin); !ok {
		return forbidden(ctx)
	}

	var req servers.OverrideStatusJSONRequestBody
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	orderID, err := fromAPIUUID(orderId)
	if err != nil {
		return s.problem(ctx, err)
	}
	status, err := parseStatus(req.Status)
	if err != nil {
		return s.problem(ctx, err)
	}
	cmd, err := commands.NewOverrideStatusCommand(orderID, status)
	if err != nil {
		return s.problem(ctx, err)
	}

	res, err := s.overrideStatusHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.problem(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toRouteResponse(res))
}

// RecalculateEta handles POST /api/v1/routes/orders/{orderId}/recalculate.
func (s *Server) RecalculateEta(ctx echo.Context, orderId openapi_types.UUID) error {
	orderID, err := fromAPIUUID(orderId)
	if err != nil {
		return s.problem(ctx, err)
	}
	cmd, err := commands.NewRecalculateEtaCommand(orderID)
	if err != nil {
		return s.problem(ctx, err)
	}

	res, err := s.recalculateEtaHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.problem(ctx, err)
	}

	return ctx.JSON(http.StatusOK, servers.RecalculateResponse{
		Outcome:        string(res.Outcome),
		Degradations:   degradations(res.Result),
		Route:          toRoute(queries.NewRouteView(res.Route)),
		OptimizedRoute: toOptimizedRoute(res.Schedule, res.Result),
	})
}

// GetCouriers handles GET /api/v1/couriers - retrieves all couriers.
func (s *Server) GetCouriers(ctx echo.Context) error {
	views, err := s.getCouriersHandler.Handle(ctx.Request().Context(), queries.NewGetCouriersQuery())
	if err != nil {
		return s.problem(ctx, err)
	}

	response := make([]servers.Courier, len(views))
	for i, v := range views {
		response[i] = toCourier(v)
	}

	return ctx.JSON(http.StatusOK, response)
}

// CreateCourier handles POST /api/v1/couriers - creates a new courier.
func (s *Server) CreateCourier(ctx echo.Context) error {
	if _, ok := auth.Authorize(ctx, auth.RoleAdmin); !ok {
		return forbidden(ctx)
	}

	var newCourier servers.CreateCourierJSONRequestBody
	if err := ctx.Bind(&newCourier); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	location, err := kernel.NewLocation(newCourier.Location.Lat, newCourier.Location.Lng)
	if err != nil {
		return s.problem(ctx, err)
	}
	cmd, err := commands.NewCreateCourierCommand(newCourier.Name, location)
	if err != nil {
		return s.problem(ctx, err)
	}

	created, _, err := s.createCourierHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.problem(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, toCourier(queries.NewCourierView(created, 0)))
}

// MoveCourier handles PUT /api/v1/couriers/{courierId}/location. Couriers may
// only report their own position.
func (s *Server) MoveCourier(ctx echo.Context, courierId openapi_types.UUID) error {
	principal, ok := auth.Authorize(ctx, auth.RoleCourier, auth.RoleAdmin)
	if !ok || (!principal.IsAdmin() && principal.Subject != courierId.String()) {
		return forbidden(ctx)
	}

	var req servers.MoveCourierJSONRequestBody
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	courierID, err := fromAPIUUID(courierId)
	if err != nil {
		return s.problem(ctx, err)
	}
	location, err := kernel.NewLocation(req.Lat, req.Lng)
	if err != nil {
		return s.problem(ctx, err)
	}
	cmd, err := commands.NewMoveCourierCommand(courierID, location)
	if err != nil {
		return s.problem(ctx, err)
	}

	res, err := s.moveCourierHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.problem(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOptimizedRoute(res.CourierSchedule, res.Result))
}

// GetOptimizedRoute handles GET /api/v1/couriers/{courierId}/optimized-route.
func (s *Server) GetOptimizedRoute(ctx echo.Context, courierId openapi_types.UUID, params servers.GetOptimizedRouteParams) error {
	courierID, err := fromAPIUUID(courierId)
	if err != nil {
		return s.problem(ctx, err)
	}

	mode := ""
	if params.Mode != nil {
		mode = string(*params.Mode)
	}
	cmd, err := commands.NewOptimizeCourierRouteCommand(courierID, mode)
	if err != nil {
		return s.problem(ctx, err)
	}

	res, err := s.optimizeCourierRouteHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.problem(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOptimizedRoute(res.CourierSchedule, res.Result))
}

// GetDeliveryStats handles GET /api/v1/stats.
func (s *Server) GetDeliveryStats(ctx echo.Context) error {
	if _, ok := auth.Authorize(ctx, auth.RoleAdmin); !ok {
		return forbidden(ctx)
	}

	stats, err := s.getDeliveryStatsHandler.Handle(ctx.Request().Context(), queries.NewGetDeliveryStatsQuery())
	if err != nil {
		return s.problem(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toDeliveryStats(stats))
}

func createdOrOK(created bool) int {
	if created {
		return http.StatusCreated
	}
	return http.StatusOK
}
