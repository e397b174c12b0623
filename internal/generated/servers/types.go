package servers

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

const (
	BearerAuthScopes = "bearerAuth.Scopes"
)

// Defines values for StatusRequestStatus.
const (
	StatusRequestStatusAssigned StatusRequestStatus = "assigned"
	StatusRequestStatusCooking  StatusRequestStatus = "cooking"
	StatusRequestStatusDelivery StatusRequestStatus = "delivery"
	StatusRequestStatusDone     StatusRequestStatus = "done"
)

// Defines values for GetOptimizedRouteParamsMode.
const (
	Exact     GetOptimizedRouteParamsMode = "exact"
	Heuristic GetOptimizedRouteParamsMode = "heuristic"
)

// AssignRequest defines model for AssignRequest.
type AssignRequest struct {
	Address     string             `json:"address"`
	Coordinates Location           `json:"coordinates"`
	Items       *[]Item            `json:"items,omitempty"`
	OrderId     openapi_types.UUID `json:"orderId"`
	Total       float64            `json:"total"`
	UserId      openapi_types.UUID `json:"userId"`
}

// AssignResponse defines model for AssignResponse.
type AssignResponse struct {
	Created      bool      `json:"created"`
	Degradations *[]string `json:"degradations,omitempty"`
	Outcome      string    `json:"outcome"`
	Route        Route     `json:"route"`
}

// Courier defines model for Courier.
type Courier struct {
	ActiveRoutes     int                `json:"activeRoutes"`
	Available        bool               `json:"available"`
	BiasFactor       float64            `json:"biasFactor"`
	CompletedCount   int                `json:"completedCount"`
	Id               openapi_types.UUID `json:"id"`
	Location         Location           `json:"location"`
	Name             string             `json:"name"`
	ReliabilityScore float64            `json:"reliabilityScore"`
}

// CourierStats defines model for CourierStats.
type CourierStats struct {
	ActiveRoutes     int                `json:"activeRoutes"`
	BiasFactor       float64            `json:"biasFactor"`
	CompletedRoutes  int                `json:"completedRoutes"`
	CourierId        openapi_types.UUID `json:"courierId"`
	Name             string             `json:"name"`
	ReliabilityScore float64            `json:"reliabilityScore"`
}

// DeliveryStats defines model for DeliveryStats.
type DeliveryStats struct {
	ActiveRoutes      int            `json:"activeRoutes"`
	AvailableCouriers int            `json:"availableCouriers"`
	AverageEtaMinutes float64        `json:"averageEtaMinutes"`
	BusyCouriers      int            `json:"busyCouriers"`
	CompletedRoutes   int            `json:"completedRoutes"`
	Couriers          []CourierStats `json:"couriers"`
	RoutesByStatus    map[string]int `json:"routesByStatus"`
}

// Error defines model for Error.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Eta defines model for Eta.
type Eta struct {
	ConfidenceScore float64 `json:"confidenceScore"`
	LowerMinutes    int     `json:"lowerMinutes"`
	Minutes         int     `json:"minutes"`
	UpperMinutes    int     `json:"upperMinutes"`
}

// Item defines model for Item.
type Item struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// Location defines model for Location.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ManualAssignRequest defines model for ManualAssignRequest.
type ManualAssignRequest struct {
	Address     *string             `json:"address,omitempty"`
	Coordinates *Location           `json:"coordinates,omitempty"`
	CourierId   openapi_types.UUID  `json:"courierId"`
	Items       *[]Item             `json:"items,omitempty"`
	OrderId     openapi_types.UUID  `json:"orderId"`
	Total       *float64            `json:"total,omitempty"`
	UserId      *openapi_types.UUID `json:"userId,omitempty"`
}

// NewCourier defines model for NewCourier.
type NewCourier struct {
	Location Location `json:"location"`
	Name     string   `json:"name"`
}

// OptimizedRoute defines model for OptimizedRoute.
type OptimizedRoute struct {
	CourierId        openapi_types.UUID `json:"courierId"`
	Degradations     *[]string          `json:"degradations,omitempty"`
	Degraded         bool               `json:"degraded"`
	Mode             string             `json:"mode"`
	Outcome          string             `json:"outcome"`
	Routes           []Route            `json:"routes"`
	Steps            []RouteStep        `json:"steps"`
	TotalDistanceKm  float64            `json:"totalDistanceKm"`
	TotalTimeMinutes int                `json:"totalTimeMinutes"`
}

// RecalculateResponse defines model for RecalculateResponse.
type RecalculateResponse struct {
	Degradations   *[]string      `json:"degradations,omitempty"`
	OptimizedRoute OptimizedRoute `json:"optimizedRoute"`
	Outcome        string         `json:"outcome"`
	Route          Route          `json:"route"`
}

// Route defines model for Route.
type Route struct {
	Address               string             `json:"address"`
	CompletedAt           *time.Time         `json:"completedAt,omitempty"`
	CourierId             openapi_types.UUID `json:"courierId"`
	CourierName           string             `json:"courierName"`
	CreatedAt             time.Time          `json:"createdAt"`
	Eta                   Eta                `json:"eta"`
	Id                    openapi_types.UUID `json:"id"`
	Items                 []Item             `json:"items"`
	Location              Location           `json:"location"`
	OrderId               openapi_types.UUID `json:"orderId"`
	RouteDistanceKm       float64            `json:"routeDistanceKm"`
	RouteSequence         int                `json:"routeSequence"`
	RouteTotalTimeMinutes int                `json:"routeTotalTimeMinutes"`
	Status                string             `json:"status"`
	Total                 float64            `json:"total"`
	UpdatedAt             time.Time          `json:"updatedAt"`
	UserId                openapi_types.UUID `json:"userId"`
}

// RouteResponse defines model for RouteResponse.
type RouteResponse struct {
	Degradations *[]string `json:"degradations,omitempty"`
	Outcome      string    `json:"outcome"`
	Route        Route     `json:"route"`
}

// RouteStep defines model for RouteStep.
type RouteStep struct {
	CumulativeDistanceKm float64            `json:"cumulativeDistanceKm"`
	DistanceKm           float64            `json:"distanceKm"`
	DwellMinutes         int                `json:"dwellMinutes"`
	Eta                  Eta                `json:"eta"`
	OrderId              openapi_types.UUID `json:"orderId"`
	RawEtaMinutes        *int               `json:"rawEtaMinutes,omitempty"`
	Sequence             int                `json:"sequence"`
	TravelMinutes        int                `json:"travelMinutes"`
}

// StatusRequest defines model for StatusRequest.
type StatusRequest struct {
	Status StatusRequestStatus `json:"status"`
}

// StatusRequestStatus defines model for StatusRequest.Status.
type StatusRequestStatus string

// GetActiveRoutesParams defines parameters for GetActiveRoutes.
type GetActiveRoutesParams struct {
	CourierId *openapi_types.UUID `form:"courierId,omitempty" json:"courierId,omitempty"`
}

// GetOptimizedRouteParams defines parameters for GetOptimizedRoute.
type GetOptimizedRouteParams struct {
	Mode *GetOptimizedRouteParamsMode `form:"mode,omitempty" json:"mode,omitempty"`
}

// GetOptimizedRouteParamsMode defines parameters for GetOptimizedRoute.
type GetOptimizedRouteParamsMode string

// AssignCourierJSONRequestBody defines body for AssignCourier for application/json ContentType.
type AssignCourierJSONRequestBody = AssignRequest

// AssignCourierManuallyJSONRequestBody defines body for AssignCourierManually for application/json ContentType.
type AssignCourierManuallyJSONRequestBody = ManualAssignRequest

// AdvanceStatusJSONRequestBody defines body for AdvanceStatus for application/json ContentType.
type AdvanceStatusJSONRequestBody = StatusRequest

// OverrideStatusJSONRequestBody defines body for OverrideStatus for application/json ContentType.
type OverrideStatusJSONRequestBody = StatusRequest

// CreateCourierJSONRequestBody defines body for CreateCourier for application/json ContentType.
type CreateCourierJSONRequestBody = NewCourier

// MoveCourierJSONRequestBody defines body for MoveCourier for application/json ContentType.
type MoveCourierJSONRequestBody = Location
