package commands

import (
	"context"
	"errors"

	"delivery/internal/core/domain/model/kernel"
	"delivery/internal/core/domain/model/route"
	"delivery/internal/core/domain/services"
	"delivery/internal/core/ports"
	"delivery/internal/pkg/errs"
)

// AssignResult is returned by both assignment handlers.
type AssignResult struct {
	Result
	// Route is the order's active route as persisted after recomputation.
	Route *route.Route
	// Created is false when the order already had an active route and the
	// command was answered with it.
	Created bool
}

// AssignCourierCommandHandler creates the route of a new order for the
// selected courier, recomputes that courier's schedule and announces the
// assignment.
//
// Example:
//
//	res, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, services.ErrCourierNotFound):
//	    log.Println("No couriers registered")
//	case err != nil:
//	    log.Printf("Assignment failed: %v", err)
//	case res.Outcome == OutcomeDegraded:
//	    log.Printf("Assigned with degradations: %v", res.Degradations)
//	}
type AssignCourierCommandHandler struct {
	uowFactory UoWFactory
	scheduler  *Scheduler
	propagator *Propagator
	selector   services.CourierSelector
}

func NewAssignCourierCommandHandler(
	uowFactory UoWFactory,
	scheduler *Scheduler,
	propagator *Propagator,
) AssignCourierCommandHandler {
	return AssignCourierCommandHandler{
		uowFactory: uowFactory,
		scheduler:  scheduler,
		propagator: propagator,
		selector:   services.NewCourierSelector(),
	}
}

func (h AssignCourierCommandHandler) Handle(ctx context.Context, command AssignCourierCommand) (AssignResult, error) {
	res, err := h.handle(ctx, command)
	res.Result, err = conclude("assign_courier", res.Result, err)
	return res, err
}

func (h AssignCourierCommandHandler) handle(ctx context.Context, command AssignCourierCommand) (AssignResult, error) {
	if err := command.Validate(); err != nil {
		return AssignResult{}, err
	}

	details := command.Order()
	existing, courierID, err := h.createRoute(ctx, details)
	if err != nil {
		return AssignResult{}, err
	}
	if existing != nil {
		return AssignResult{Result: applied(), Route: existing}, nil
	}

	result := applied()
	schedule, err := h.scheduler.Recompute(ctx, courierID, "")
	if err != nil {
		return AssignResult{}, err
	}
	result.absorb(schedule)

	rt, ok := schedule.RouteOf(details.OrderID)
	if !ok {
		return AssignResult{}, errs.NewObjectNotFoundError("orderId", details.OrderID.String())
	}

	h.propagator.RouteChanged(ctx, ports.EventOrderAssigned, rt, &result)
	h.propagator.StatusChanged(ctx, rt, false, &result)
	h.propagator.ScheduleChanged(ctx, schedule, &result, details.OrderID)

	return AssignResult{Result: result, Route: rt, Created: true}, nil
}

// createRoute persists the new route and returns the chosen courier. When the
// order already has an active route, that route is returned instead.
func (h AssignCourierCommandHandler) createRoute(
	ctx context.Context,
	details route.OrderDetails,
) (*route.Route, kernel.UUID, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, kernel.UUID{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	routeRepo := uow.RouteRepository()
	courierRepo := uow.CourierRepository()

	current, err := routeRepo.GetByOrder(ctx, details.OrderID)
	switch {
	case err == nil && current.IsActive():
		return current, current.CourierID(), nil
	case err != nil && !errors.Is(err, errs.ErrObjectNotFound):
		return nil, kernel.UUID{}, err
	}

	couriers, err := courierRepo.GetAll(ctx)
	if err != nil {
		return nil, kernel.UUID{}, err
	}

	active, err := routeRepo.CountActiveByCourier(ctx)
	if err != nil {
		return nil, kernel.UUID{}, err
	}

	candidates := make([]services.CourierLoad, 0, len(couriers))
	for _, c := range couriers {
		candidates = append(candidates, services.CourierLoad{Courier: c, ActiveRoutes: active[c.ID()]})
	}

	selected, err := h.selector.Select(details.Location, candidates)
	if err != nil {
		return nil, kernel.UUID{}, err
	}

	if _, err = courierRepo.GetForUpdate(ctx, selected.ID()); err != nil {
		return nil, kernel.UUID{}, err
	}

	rt, err := newRoute(details, selected, h.scheduler.Now())
	if err != nil {
		return nil, kernel.UUID{}, err
	}

	if err = routeRepo.Add(ctx, rt); err != nil {
		return nil, kernel.UUID{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, kernel.UUID{}, err
	}

	return nil, selected.ID(), nil
}
