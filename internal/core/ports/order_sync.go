package ports

import (
	"context"

	"delivery/internal/core/domain/model/kernel"
	"delivery/internal/core/domain/model/order"
)

// DeliveryEvent names the kind of route mutation being propagated. The values
// double as broker subjects.
type DeliveryEvent string

const (
	EventOrderAssigned       DeliveryEvent = "order.assigned"
	EventOrderAssignedManual DeliveryEvent = "order.assigned.manual"
	EventDeliveryUpdated     DeliveryEvent = "delivery.updated"
)

// OrderSync keeps the order aggregate's denormalized delivery fields and its
// status in step with routes. Implementations are best effort: callers log
// and count failures, they never roll back because of them.
type OrderSync interface {
	// SyncSnapshot propagates the route snapshot for the given event.
	SyncSnapshot(ctx context.Context, event DeliveryEvent, snapshot order.DeliverySnapshot) error

	// SyncStatus pushes a status onto the order aggregate's own state machine.
	SyncStatus(ctx context.Context, orderID kernel.UUID, status order.Status) error

	// Mode reports "broker" or "direct".
	Mode() string
}
