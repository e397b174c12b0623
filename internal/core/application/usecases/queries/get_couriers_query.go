package queries

import (
	"errors"

	"delivery/internal/core/domain/model/courier"
	"delivery/internal/core/domain/model/kernel"
	"delivery/internal/pkg/guard"
)

var ErrGetCouriersQueryIsNotConstructed = errors.New(
	"GetCouriersQuery must be created via NewGetCouriersQuery constructor",
)

// GetCouriersQuery lists the courier directory.
type GetCouriersQuery struct {
	guard guard.ConstructorGuard
}

func NewGetCouriersQuery() GetCouriersQuery {
	return GetCouriersQuery{guard: guard.NewConstructorGuard()}
}

func (q GetCouriersQuery) Validate() error {
	return q.guard.Validate(ErrGetCouriersQueryIsNotConstructed)
}

// CourierView is a courier with its calibration and current workload.
type CourierView struct {
	ID               kernel.UUID
	Name             string
	Location         kernel.Location
	Available        bool
	BiasFactor       float64
	ReliabilityScore float64
	CompletedCount   int
	ActiveRoutes     int
}

// NewCourierView renders an aggregate whose active route count is known.
func NewCourierView(c *courier.Courier, activeRoutes int) CourierView {
	calibration := c.Calibration()
	return CourierView{
		ID:               c.ID(),
		Name:             c.Name(),
		Location:         c.Location(),
		Available:        c.IsAvailable(),
		BiasFactor:       calibration.BiasFactor(),
		ReliabilityScore: calibration.ReliabilityScore(),
		CompletedCount:   calibration.CompletedCount(),
		ActiveRoutes:     activeRoutes,
	}
}
