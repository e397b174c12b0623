package commands

import (
	"context"
)

// MoveCourierCommandHandler stores the courier's position and recomputes its
// schedule from there, announcing every route whose slot changed.
type MoveCourierCommandHandler struct {
	uowFactory UoWFactory
	scheduler  *Scheduler
	propagator *Propagator
}

func NewMoveCourierCommandHandler(
	uowFactory UoWFactory,
	scheduler *Scheduler,
	propagator *Propagator,
) MoveCourierCommandHandler {
	return MoveCourierCommandHandler{
		uowFactory: uowFactory,
		scheduler:  scheduler,
		propagator: propagator,
	}
}

func (h MoveCourierCommandHandler) Handle(ctx context.Context, command MoveCourierCommand) (ScheduleResult, error) {
	res, err := h.handle(ctx, command)
	res.Result, err = conclude("move_courier", res.Result, err)
	return res, err
}

func (h MoveCourierCommandHandler) handle(ctx context.Context, command MoveCourierCommand) (ScheduleResult, error) {
	if err := command.Validate(); err != nil {
		return ScheduleResult{}, err
	}

	if err := h.move(ctx, command); err != nil {
		return ScheduleResult{}, err
	}

	schedule, err := h.scheduler.Recompute(ctx, command.CourierID(), "")
	if err != nil {
		return ScheduleResult{}, err
	}

	result := applied()
	result.absorb(schedule)
	h.propagator.ScheduleChanged(ctx, schedule, &result)

	return ScheduleResult{Result: result, CourierSchedule: schedule}, nil
}

func (h MoveCourierCommandHandler) move(ctx context.Context, command MoveCourierCommand) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	courierRepo := uow.CourierRepository()

	c, err := courierRepo.GetForUpdate(ctx, command.CourierID())
	if err != nil {
		return err
	}

	if err = c.MoveTo(command.Location()); err != nil {
		return err
	}

	if err = courierRepo.Update(ctx, c); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
