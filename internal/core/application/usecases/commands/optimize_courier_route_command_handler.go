package commands

import (
	"context"
)

// ScheduleResult carries a courier's recomputed schedule.
type ScheduleResult struct {
	Result
	CourierSchedule
}

// OptimizeCourierRouteCommandHandler recomputes and returns a courier's
// schedule. Routes whose slot changed are announced as delivery updates; a
// second call without intervening mutations changes nothing.
type OptimizeCourierRouteCommandHandler struct {
	scheduler  *Scheduler
	propagator *Propagator
}

func NewOptimizeCourierRouteCommandHandler(
	scheduler *Scheduler,
	propagator *Propagator,
) OptimizeCourierRouteCommandHandler {
	return OptimizeCourierRouteCommandHandler{
		scheduler:  scheduler,
		propagator: propagator,
	}
}

func (h OptimizeCourierRouteCommandHandler) Handle(
	ctx context.Context,
	command OptimizeCourierRouteCommand,
) (ScheduleResult, error) {
	res, err := h.handle(ctx, command)
	res.Result, err = conclude("optimize_courier_route", res.Result, err)
	return res, err
}

func (h OptimizeCourierRouteCommandHandler) handle(
	ctx context.Context,
	command OptimizeCourierRouteCommand,
) (ScheduleResult, error) {
	if err := command.Validate(); err != nil {
		return ScheduleResult{}, err
	}

	schedule, err := h.scheduler.Recompute(ctx, command.CourierID(), command.Mode())
	if err != nil {
		return ScheduleResult{}, err
	}

	result := applied()
	result.absorb(schedule)
	h.propagator.ScheduleChanged(ctx, schedule, &result)

	return ScheduleResult{Result: result, CourierSchedule: schedule}, nil
}
