package commands

import (
	"context"
	"time"

	"delivery/internal/core/domain/model/route"
)

// OverrideStatusCommandHandler applies administrative status changes. The
// resulting status is pushed to the order aggregate unless it maps to
// pending, which the order aggregate decides on its own.
type OverrideStatusCommandHandler struct {
	flow statusFlow
}

func NewOverrideStatusCommandHandler(
	uowFactory UoWFactory,
	scheduler *Scheduler,
	propagator *Propagator,
) OverrideStatusCommandHandler {
	return OverrideStatusCommandHandler{
		flow: statusFlow{uowFactory: uowFactory, scheduler: scheduler, propagator: propagator},
	}
}

func (h OverrideStatusCommandHandler) Handle(ctx context.Context, command OverrideStatusCommand) (RouteResult, error) {
	res, err := h.handle(ctx, command)
	res.Result, err = conclude("override_status", res.Result, err)
	return res, err
}

func (h OverrideStatusCommandHandler) handle(ctx context.Context, command OverrideStatusCommand) (RouteResult, error) {
	if err := command.Validate(); err != nil {
		return RouteResult{}, err
	}

	return h.flow.run(ctx, command.OrderID(), func(rt *route.Route, now time.Time) (bool, error) {
		return rt.Override(command.Status(), now)
	}, true)
}
