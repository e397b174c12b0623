package commands

import (
	"context"
	"time"

	"delivery/internal/core/domain/model/kernel"
	"delivery/internal/core/domain/model/route"
	"delivery/internal/core/domain/services"
	"delivery/internal/core/ports"
)

// RouteResult carries the route as persisted after the command.
type RouteResult struct {
	Result
	Route *route.Route
}

// transition applies one status change. It returns false for a no-op.
type transition func(rt *route.Route, now time.Time) (bool, error)

// statusFlow is shared by the courier and the administrative status handlers:
// persist the status, recalibrate the courier once the route is done,
// recompute the schedule and announce the change.
type statusFlow struct {
	uowFactory UoWFactory
	scheduler  *Scheduler
	propagator *Propagator
}

func (f statusFlow) run(
	ctx context.Context,
	orderID kernel.UUID,
	apply transition,
	skipPendingStatus bool,
) (RouteResult, error) {
	rt, changed, err := f.persist(ctx, orderID, apply)
	if err != nil {
		return RouteResult{}, err
	}
	if !changed {
		return RouteResult{Result: applied(), Route: rt}, nil
	}

	result := applied()
	schedule, err := f.scheduler.Recompute(ctx, rt.CourierID(), "")
	if err != nil {
		return RouteResult{}, err
	}
	result.absorb(schedule)

	// A done route drops out of the schedule, so re-read it by order.
	if refreshed, ok := schedule.RouteOf(orderID); ok {
		rt = refreshed
	} else if rt, err = f.uowFactory.Create().RouteRepository().GetByOrder(ctx, orderID); err != nil {
		return RouteResult{}, err
	}

	f.propagator.RouteChanged(ctx, ports.EventDeliveryUpdated, rt, &result)
	f.propagator.StatusChanged(ctx, rt, skipPendingStatus, &result)
	f.propagator.ScheduleChanged(ctx, schedule, &result, orderID)

	return RouteResult{Result: result, Route: rt}, nil
}

func (f statusFlow) persist(ctx context.Context, orderID kernel.UUID, apply transition) (*route.Route, bool, error) {
	uow := f.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	routeRepo := uow.RouteRepository()

	rt, err := routeRepo.GetByOrder(ctx, orderID)
	if err != nil {
		return nil, false, err
	}

	// The status write must not interleave with a recomputation of the same
	// courier, so take its lock and read the route again under it.
	if _, err = uow.CourierRepository().GetForUpdate(ctx, rt.CourierID()); err != nil {
		return nil, false, err
	}
	if rt, err = routeRepo.GetByOrder(ctx, orderID); err != nil {
		return nil, false, err
	}

	changed, err := apply(rt, f.scheduler.Now())
	if err != nil || !changed {
		return rt, false, err
	}

	if err = routeRepo.Update(ctx, rt); err != nil {
		return nil, false, err
	}

	if rt.Status() == route.Done {
		if err = f.recalibrate(ctx, uow, rt.CourierID()); err != nil {
			return nil, false, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, false, err
	}
	return rt, true, nil
}

// recalibrate refreshes the courier's calibration from its completed routes,
// including the one just written in this transaction.
func (f statusFlow) recalibrate(ctx context.Context, uow UoW, courierID kernel.UUID) error {
	routeRepo := uow.RouteRepository()
	courierRepo := uow.CourierRepository()

	completed, err := routeRepo.GetCompletedByCourier(ctx, courierID, services.CalibrationWindow)
	if err != nil {
		return err
	}
	count, err := routeRepo.CountCompletedByCourier(ctx, courierID)
	if err != nil {
		return err
	}

	samples := make([]services.CompletionSample, 0, len(completed))
	for _, rt := range completed {
		if sample, ok := services.SampleFromRoute(rt); ok {
			samples = append(samples, sample)
		}
	}

	calibration, err := services.EstimateCalibration(samples, count)
	if err != nil {
		return err
	}

	c, err := courierRepo.Get(ctx, courierID)
	if err != nil {
		return err
	}
	if err = c.Recalibrate(calibration); err != nil {
		return err
	}
	return courierRepo.Update(ctx, c)
}
