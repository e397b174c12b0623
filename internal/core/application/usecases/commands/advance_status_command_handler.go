package commands

import (
	"context"
	"time"

	"delivery/internal/core/domain/model/route"
)

// AdvanceStatusCommandHandler moves a route one step forward on behalf of its
// courier. Invalid transitions are rejected with a route.InvalidTransitionError
// naming the only allowed next status.
type AdvanceStatusCommandHandler struct {
	flow statusFlow
}

func NewAdvanceStatusCommandHandler(
	uowFactory UoWFactory,
	scheduler *Scheduler,
	propagator *Propagator,
) AdvanceStatusCommandHandler {
	return AdvanceStatusCommandHandler{
		flow: statusFlow{uowFactory: uowFactory, scheduler: scheduler, propagator: propagator},
	}
}

func (h AdvanceStatusCommandHandler) Handle(ctx context.Context, command AdvanceStatusCommand) (RouteResult, error) {
	res, err := h.handle(ctx, command)
	res.Result, err = conclude("advance_status", res.Result, err)
	return res, err
}

func (h AdvanceStatusCommandHandler) handle(ctx context.Context, command AdvanceStatusCommand) (RouteResult, error) {
	if err := command.Validate(); err != nil {
		return RouteResult{}, err
	}

	actor, hasActor := command.Actor()
	return h.flow.run(ctx, command.OrderID(), func(rt *route.Route, now time.Time) (bool, error) {
		if hasActor && !rt.IsAssignedTo(actor) {
			return false, ErrRouteIsNotOwned
		}
		return rt.Advance(command.Status(), now)
	}, false)
}
