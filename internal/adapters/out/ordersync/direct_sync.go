// Package ordersync implements ports.OrderSync. BrokerSync is used while the
// broker is reachable; DirectSync calls the order service synchronously.
package ordersync

import (
	"context"

	"delivery/internal/core/domain/model/kernel"
	"delivery/internal/core/domain/model/order"
	"delivery/internal/core/ports"
)

// OrderClient is the synchronous API of the order service.
type OrderClient interface {
	PutDeliverySnapshot(ctx context.Context, orderID kernel.UUID, snapshot order.DeliverySnapshot) error
	PutStatus(ctx context.Context, orderID kernel.UUID, status order.Status) error
}

var _ ports.OrderSync = (*DirectSync)(nil)

type DirectSync struct {
	client OrderClient
}

func NewDirectSync(client OrderClient) *DirectSync {
	return &DirectSync{client: client}
}

// SyncSnapshot writes the snapshot whatever the event; the order service
// only keeps the latest one.
func (s *DirectSync) SyncSnapshot(ctx context.Context, _ ports.DeliveryEvent, snapshot order.DeliverySnapshot) error {
	orderID, err := kernel.UUIDFromString(snapshot.OrderID)
	if err != nil {
		return err
	}
	return s.client.PutDeliverySnapshot(ctx, orderID, snapshot)
}

func (s *DirectSync) SyncStatus(ctx context.Context, orderID kernel.UUID, status order.Status) error {
	return s.client.PutStatus(ctx, orderID, status)
}

func (s *DirectSync) Mode() string {
	return "direct"
}
