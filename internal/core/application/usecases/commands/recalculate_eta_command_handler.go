package commands

import (
	"context"

	"delivery/internal/core/domain/model/route"
)

// RecalculateResult returns both the refreshed route and its courier's full
// schedule.
type RecalculateResult struct {
	Result
	Route    *route.Route
	Schedule CourierSchedule
}

type RecalculateEtaCommandHandler struct {
	uowFactory UoWFactory
	scheduler  *Scheduler
	propagator *Propagator
}

func NewRecalculateEtaCommandHandler(
	uowFactory UoWFactory,
	scheduler *Scheduler,
	propagator *Propagator,
) RecalculateEtaCommandHandler {
	return RecalculateEtaCommandHandler{
		uowFactory: uowFactory,
		scheduler:  scheduler,
		propagator: propagator,
	}
}

func (h RecalculateEtaCommandHandler) Handle(
	ctx context.Context,
	command RecalculateEtaCommand,
) (RecalculateResult, error) {
	res, err := h.handle(ctx, command)
	res.Result, err = conclude("recalculate_eta", res.Result, err)
	return res, err
}

func (h RecalculateEtaCommandHandler) handle(
	ctx context.Context,
	command RecalculateEtaCommand,
) (RecalculateResult, error) {
	if err := command.Validate(); err != nil {
		return RecalculateResult{}, err
	}

	rt, err := h.uowFactory.Create().RouteRepository().GetByOrder(ctx, command.OrderID())
	if err != nil {
		return RecalculateResult{}, err
	}

	schedule, err := h.scheduler.Recompute(ctx, rt.CourierID(), "")
	if err != nil {
		return RecalculateResult{}, err
	}

	result := applied()
	result.absorb(schedule)
	h.propagator.ScheduleChanged(ctx, schedule, &result)

	if refreshed, ok := schedule.RouteOf(command.OrderID()); ok {
		rt = refreshed
	}

	return RecalculateResult{Result: result, Route: rt, Schedule: schedule}, nil
}
