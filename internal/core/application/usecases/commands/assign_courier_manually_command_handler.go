package commands

import (
	"context"
	"errors"

	"delivery/internal/core/domain/model/kernel"
	"delivery/internal/core/ports"
	"delivery/internal/pkg/errs"
)

// AssignCourierManuallyCommandHandler creates or reassigns an order's route
// for an administrator-chosen courier. On reassignment both the new and the
// previous courier get their schedules recomputed. A done route cannot be
// reassigned.
type AssignCourierManuallyCommandHandler struct {
	uowFactory UoWFactory
	scheduler  *Scheduler
	propagator *Propagator
}

func NewAssignCourierManuallyCommandHandler(
	uowFactory UoWFactory,
	scheduler *Scheduler,
	propagator *Propagator,
) AssignCourierManuallyCommandHandler {
	return AssignCourierManuallyCommandHandler{
		uowFactory: uowFactory,
		scheduler:  scheduler,
		propagator: propagator,
	}
}

func (h AssignCourierManuallyCommandHandler) Handle(
	ctx context.Context,
	command AssignCourierManuallyCommand,
) (AssignResult, error) {
	res, err := h.handle(ctx, command)
	res.Result, err = conclude("assign_courier_manually", res.Result, err)
	return res, err
}

func (h AssignCourierManuallyCommandHandler) handle(
	ctx context.Context,
	command AssignCourierManuallyCommand,
) (AssignResult, error) {
	if err := command.Validate(); err != nil {
		return AssignResult{}, err
	}

	previous, created, err := h.assign(ctx, command)
	if err != nil {
		return AssignResult{}, err
	}

	result := applied()
	schedule, err := h.scheduler.Recompute(ctx, command.CourierID(), "")
	if err != nil {
		return AssignResult{}, err
	}
	result.absorb(schedule)

	var previousSchedule *CourierSchedule
	if previous != nil && !previous.IsEqual(command.CourierID()) {
		s, recomputeErr := h.scheduler.Recompute(ctx, *previous, "")
		if recomputeErr != nil {
			return AssignResult{}, recomputeErr
		}
		result.absorb(s)
		previousSchedule = &s
	}

	rt, ok := schedule.RouteOf(command.OrderID())
	if !ok {
		return AssignResult{}, errs.NewObjectNotFoundError("orderId", command.OrderID().String())
	}

	h.propagator.RouteChanged(ctx, ports.EventOrderAssignedManual, rt, &result)
	if created {
		h.propagator.StatusChanged(ctx, rt, false, &result)
	}
	h.propagator.ScheduleChanged(ctx, schedule, &result, command.OrderID())
	if previousSchedule != nil {
		h.propagator.ScheduleChanged(ctx, *previousSchedule, &result)
	}

	return AssignResult{Result: result, Route: rt, Created: created}, nil
}

// assign returns the previous courier of a reassigned route, or created=true
// when a new route was written.
func (h AssignCourierManuallyCommandHandler) assign(
	ctx context.Context,
	command AssignCourierManuallyCommand,
) (*kernel.UUID, bool, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	routeRepo := uow.RouteRepository()

	target, err := uow.CourierRepository().GetForUpdate(ctx, command.CourierID())
	if err != nil {
		return nil, false, err
	}

	now := h.scheduler.Now()
	current, err := routeRepo.GetByOrder(ctx, command.OrderID())
	switch {
	case err == nil:
		previous := current.CourierID()
		if err = current.Reassign(target, now); err != nil {
			return nil, false, err
		}
		if err = routeRepo.Update(ctx, current); err != nil {
			return nil, false, err
		}
		if err = uow.Commit(ctx); err != nil {
			return nil, false, err
		}
		return &previous, false, nil

	case !errors.Is(err, errs.ErrObjectNotFound):
		return nil, false, err
	}

	details, ok := command.Order()
	if !ok {
		return nil, false, errs.NewValueIsRequiredErrorWithCause("order",
			errors.New("the order has no route yet, order details are required"))
	}

	rt, err := newRoute(details, target, now)
	if err != nil {
		return nil, false, err
	}
	if err = routeRepo.Add(ctx, rt); err != nil {
		return nil, false, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, false, err
	}
	return nil, true, nil
}
