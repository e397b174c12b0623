package commands

import (
	"context"
	"log/slog"

	"delivery/internal/core/domain/model/kernel"
	"delivery/internal/core/domain/model/order"
	"delivery/internal/core/domain/model/route"
	"delivery/internal/core/ports"
)

// Propagator pushes committed route state to the order aggregate and to live
// observers. Failures are logged and recorded on the Result, never returned.
type Propagator struct {
	sync   ports.OrderSync
	live   ports.LiveNotifier
	logger *slog.Logger
}

func NewPropagator(sync ports.OrderSync, live ports.LiveNotifier, logger *slog.Logger) *Propagator {
	return &Propagator{
		sync:   sync,
		live:   live,
		logger: logger.With("component", "propagator"),
	}
}

// RouteChanged syncs the snapshot for the event and fans the route out.
func (p *Propagator) RouteChanged(ctx context.Context, event ports.DeliveryEvent, rt *route.Route, result *Result) {
	if err := p.sync.SyncSnapshot(ctx, event, order.NewDeliverySnapshot(rt)); err != nil {
		p.logger.WarnContext(ctx, "Delivery snapshot sync failed",
			"event", string(event), "order_id", rt.OrderID().String(), "mode", p.sync.Mode(), "error", err)
		result.degrade(DegradedSnapshotSync)
	}
	p.live.RouteChanged(ctx, rt)
}

// StatusChanged pushes the route status onto the order's own state machine.
// A route status that maps to pending is not pushed when skipPending is set.
func (p *Propagator) StatusChanged(ctx context.Context, rt *route.Route, skipPending bool, result *Result) {
	status, err := order.FromRouteStatus(rt.Status())
	if err != nil {
		p.logger.ErrorContext(ctx, "Route status has no order status", "order_id", rt.OrderID().String(), "error", err)
		return
	}
	if skipPending && status == order.Pending {
		return
	}

	if err = p.sync.SyncStatus(ctx, rt.OrderID(), status); err != nil {
		p.logger.WarnContext(ctx, "Order status sync failed",
			"order_id", rt.OrderID().String(), "status", status.String(), "error", err)
		result.degrade(DegradedStatusSync)
	}
}

// ScheduleChanged announces every rewritten route of the schedule except the
// listed orders, whose own event has already been sent.
func (p *Propagator) ScheduleChanged(ctx context.Context, schedule CourierSchedule, result *Result, except ...kernel.UUID) {
	for _, orderID := range schedule.Changed {
		if containsID(except, orderID) {
			continue
		}
		rt, ok := schedule.RouteOf(orderID)
		if !ok {
			continue
		}
		p.RouteChanged(ctx, ports.EventDeliveryUpdated, rt, result)
	}
}

func containsID(ids []kernel.UUID, id kernel.UUID) bool {
	for _, candidate := range ids {
		if candidate.IsEqual(id) {
			return true
		}
	}
	return false
}
