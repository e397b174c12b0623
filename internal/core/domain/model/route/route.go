package route

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"delivery/internal/core/domain/model/courier"
	"delivery/internal/core/domain/model/kernel"
	"delivery/internal/pkg/errs"
	"delivery/internal/pkg/guard"
)

// OrderDetails is the part of an upstream order a route is created from.
type OrderDetails struct {
	OrderID  kernel.UUID
	UserID   kernel.UUID
	Address  string
	Location kernel.Location
	Total    float64
	Items    []Item
}

// Validate checks identifiers, destination, address and total.
func (o OrderDetails) Validate() error {
	var errList []error
	if err := o.OrderID.Validate(); err != nil {
		errList = append(errList, err)
	}
	if err := o.UserID.Validate(); err != nil {
		errList = append(errList, err)
	}
	if err := o.Location.Validate(); err != nil {
		errList = append(errList, err)
	}
	if strings.TrimSpace(o.Address) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("address"))
	}
	if math.IsNaN(o.Total) || math.IsInf(o.Total, 0) || o.Total < 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"total", fmt.Errorf("%v is not a valid amount", o.Total)))
	}
	return errors.Join(errList...)
}

// State is the full persisted shape of a route, used to rehydrate it.
type State struct {
	ID                kernel.UUID
	OrderID           kernel.UUID
	UserID            kernel.UUID
	CourierID         kernel.UUID
	CourierName       string
	Address           string
	Location          kernel.Location
	Status            Status
	Eta               Eta
	InitialEtaMinutes int
	Sequence          int
	TotalTimeMinutes  int
	DistanceKm        float64
	Total             float64
	Items             []Item
	CreatedAt         time.Time
	UpdatedAt         time.Time
	CompletedAt       *time.Time
}

// Route is the aggregate root for one order's delivery.
//
// A route is created in status Cooking with a placeholder ETA and sequence 0;
// the first schedule computed for its courier assigns the real position and
// estimate. initialEtaMinutes keeps that first calibrated estimate so the
// courier's accuracy can be measured once the route is done.
type Route struct {
	id                kernel.UUID
	orderID           kernel.UUID
	userID            kernel.UUID
	courierID         kernel.UUID
	courierName       string
	address           string
	location          kernel.Location
	status            Status
	eta               Eta
	initialEtaMinutes int
	sequence          int
	totalTimeMinutes  int
	distanceKm        float64
	total             float64
	items             []Item
	createdAt         time.Time
	updatedAt         time.Time
	completedAt       *time.Time
	guard             guard.ConstructorGuard
}

func NewRoute(id kernel.UUID, order OrderDetails, c *courier.Courier, placeholder Eta, now time.Time) (*Route, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	r := &Route{
		status:      Cooking,
		courierID:   c.ID(),
		courierName: c.Name(),
		createdAt:   now,
		updatedAt:   now,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		r.setID(id),
		r.setOrder(order),
		r.setEta(placeholder),
	); err != nil {
		return nil, err
	}

	return r, nil
}

func RestoreRoute(s State) (*Route, error) {
	r := &Route{
		courierID:         s.CourierID,
		courierName:       s.CourierName,
		status:            s.Status,
		initialEtaMinutes: s.InitialEtaMinutes,
		sequence:          s.Sequence,
		totalTimeMinutes:  s.TotalTimeMinutes,
		distanceKm:        s.DistanceKm,
		createdAt:         s.CreatedAt,
		updatedAt:         s.UpdatedAt,
		completedAt:       s.CompletedAt,
		guard:             guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		r.setID(s.ID),
		r.setOrder(OrderDetails{
			OrderID:  s.OrderID,
			UserID:   s.UserID,
			Address:  s.Address,
			Location: s.Location,
			Total:    s.Total,
			Items:    s.Items,
		}),
		r.setEta(s.Eta),
		s.CourierID.Validate(),
		s.Status.Validate(),
	); err != nil {
		return nil, err
	}

	return r, nil
}

func (r *Route) Validate() error {
	if r == nil {
		return ErrRouteIsNotConstructed
	}
	return r.guard.Validate(ErrRouteIsNotConstructed)
}

func (r *Route) IsEqual(other *Route) bool {
	return other != nil && r.id.IsEqual(other.id)
}

func (r *Route) ID() kernel.UUID {
	return r.id
}

func (r *Route) OrderID() kernel.UUID {
	return r.orderID
}

func (r *Route) UserID() kernel.UUID {
	return r.userID
}

func (r *Route) CourierID() kernel.UUID {
	return r.courierID
}

func (r *Route) CourierName() string {
	return r.courierName
}

func (r *Route) Address() string {
	return r.address
}

func (r *Route) Location() kernel.Location {
	return r.location
}

func (r *Route) Status() Status {
	return r.status
}

func (r *Route) Eta() Eta {
	return r.eta
}

func (r *Route) InitialEtaMinutes() int {
	return r.initialEtaMinutes
}

func (r *Route) Sequence() int {
	return r.sequence
}

func (r *Route) TotalTimeMinutes() int {
	return r.totalTimeMinutes
}

func (r *Route) DistanceKm() float64 {
	return r.distanceKm
}

func (r *Route) Total() float64 {
	return r.total
}

func (r *Route) CreatedAt() time.Time {
	return r.createdAt
}

func (r *Route) UpdatedAt() time.Time {
	return r.updatedAt
}

func (r *Route) CompletedAt() *time.Time {
	return r.completedAt
}

func (r *Route) IsActive() bool {
	return !r.status.IsTerminal()
}

func (r *Route) IsAssignedTo(id kernel.UUID) bool {
	return r.courierID.IsEqual(id)
}

func (r *Route) Items() []Item {
	out := make([]Item, len(r.items))
	copy(out, r.items)
	return out
}

// Reassign hands the route over to another courier. The schedule position is
// reset until the new courier's schedule is recomputed.
func (r *Route) Reassign(c *courier.Courier, now time.Time) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if r.status.IsTerminal() {
		return ErrRouteIsCompleted
	}
	if r.courierID.IsEqual(c.ID()) {
		return nil
	}

	r.courierID = c.ID()
	r.courierName = c.Name()
	r.sequence = 0
	r.updatedAt = now
	return nil
}

// Advance applies a courier-initiated status change. Repeating the current
// status is accepted and reports false.
func (r *Route) Advance(target Status, now time.Time) (bool, error) {
	if err := r.status.ValidateAdvance(target); err != nil {
		return false, err
	}
	return r.moveTo(target, now), nil
}

// Override applies an administrative status change to any state. A done route
// stays done: the override is accepted and reports false.
func (r *Route) Override(target Status, now time.Time) (bool, error) {
	if err := target.Validate(); err != nil {
		return false, err
	}
	if r.status.IsTerminal() {
		return false, nil
	}
	return r.moveTo(target, now), nil
}

// Schedule writes the route's slot in its courier's schedule. It reports
// whether anything changed.
func (r *Route) Schedule(sequence int, eta Eta, totalTimeMinutes int, distanceKm float64, now time.Time) (bool, error) {
	if sequence < 1 {
		return false, errs.NewValueIsOutOfRangeError("sequence", sequence, 1, math.MaxInt)
	}
	if totalTimeMinutes < 0 {
		return false, errs.NewValueIsOutOfRangeError("routeTotalTimeMinutes", totalTimeMinutes, 0, math.MaxInt)
	}
	if math.IsNaN(distanceKm) || math.IsInf(distanceKm, 0) || distanceKm < 0 {
		return false, errs.NewValueIsInvalidErrorWithCause("routeDistanceKm", fmt.Errorf("%v is not a distance", distanceKm))
	}
	if err := eta.Validate(); err != nil {
		return false, err
	}

	if r.initialEtaMinutes == 0 {
		r.initialEtaMinutes = eta.Minutes()
	}

	changed := r.sequence != sequence || !r.eta.IsEqual(eta) ||
		r.totalTimeMinutes != totalTimeMinutes || math.Abs(r.distanceKm-distanceKm) > 1e-9
	if !changed {
		return false, nil
	}

	r.sequence = sequence
	r.eta = eta
	r.totalTimeMinutes = totalTimeMinutes
	r.distanceKm = distanceKm
	r.updatedAt = now
	return true, nil
}

func (r *Route) moveTo(target Status, now time.Time) bool {
	if r.status == target {
		return false
	}

	r.status = target
	r.updatedAt = now
	if target == Done && r.completedAt == nil {
		completedAt := now
		r.completedAt = &completedAt
	}
	return true
}

func (r *Route) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	r.id = id
	return nil
}

func (r *Route) setOrder(order OrderDetails) error {
	if err := order.Validate(); err != nil {
		return err
	}

	r.orderID = order.OrderID
	r.userID = order.UserID
	r.address = strings.TrimSpace(order.Address)
	r.location = order.Location
	r.total = order.Total
	r.items = append([]Item(nil), order.Items...)
	return nil
}

func (r *Route) setEta(eta Eta) error {
	if err := eta.Validate(); err != nil {
		return err
	}
	r.eta = eta
	return nil
}
