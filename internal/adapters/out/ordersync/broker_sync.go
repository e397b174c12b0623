package ordersync

import (
	"context"
	"log/slog"

	"delivery/internal/core/domain/model/kernel"
	"delivery/internal/core/domain/model/order"
	"delivery/internal/core/ports"
	"delivery/internal/pkg/metrics"
)

type EventPublisher interface {
	Publish(ctx context.Context, subject string, payload any) error
}

var _ ports.OrderSync = (*BrokerSync)(nil)

// BrokerSync publishes snapshots as delivery events. The order service
// consumes them on its own. When a publish fails because the broker cannot be
// reached the snapshot is written through the direct path instead. Status
// changes have no event and always go direct.
type BrokerSync struct {
	publisher      EventPublisher
	direct         *DirectSync
	isConnectivity func(error) bool
	logger         *slog.Logger
}

func NewBrokerSync(
	publisher EventPublisher,
	direct *DirectSync,
	isConnectivity func(error) bool,
	logger *slog.Logger,
) *BrokerSync {
	return &BrokerSync{
		publisher:      publisher,
		direct:         direct,
		isConnectivity: isConnectivity,
		logger:         logger.With("component", "broker-sync"),
	}
}

func (s *BrokerSync) SyncSnapshot(ctx context.Context, event ports.DeliveryEvent, snapshot order.DeliverySnapshot) error {
	err := s.publisher.Publish(ctx, string(event), snapshot)
	if err == nil || !s.isConnectivity(err) {
		return err
	}

	metrics.Degradations.WithLabelValues("broker_fallback").Inc()
	s.logger.WarnContext(ctx, "Broker unreachable, syncing snapshot directly",
		"event", string(event), "order_id", snapshot.OrderID, "error", err)
	return s.direct.SyncSnapshot(ctx, event, snapshot)
}

func (s *BrokerSync) SyncStatus(ctx context.Context, orderID kernel.UUID, status order.Status) error {
	return s.direct.SyncStatus(ctx, orderID, status)
}

func (s *BrokerSync) Mode() string {
	return "broker"
}
