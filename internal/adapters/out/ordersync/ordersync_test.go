package ordersync_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"delivery/internal/adapters/out/ordersync"
	"delivery/internal/core/domain/model/kernel"
	"delivery/internal/core/domain/model/order"
	"delivery/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	orderID        = kernel.MustUUID("0b9b8c1e-6a53-4f43-9d3e-7f7a0c3b1a01")
	errUnreachable = errors.New("nats: no servers available for connection")
)

type MockOrderClient struct {
	mock.Mock
}

func (m *MockOrderClient) PutDeliverySnapshot(ctx context.Context, id kernel.UUID, snapshot order.DeliverySnapshot) error {
	args := m.Called(ctx, id, snapshot)
	return args.Error(0)
}

func (m *MockOrderClient) PutStatus(ctx context.Context, id kernel.UUID, status order.Status) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, subject string, payload any) error {
	args := m.Called(ctx, subject, payload)
	return args.Error(0)
}

func isUnreachable(err error) bool {
	return errors.Is(err, errUnreachable)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func snapshot() order.DeliverySnapshot {
	return order.DeliverySnapshot{OrderID: orderID.String(), CourierName: "Ivan", EtaMinutes: 9, Status: "cooking"}
}

func TestDirectSync_Snapshot(t *testing.T) {
	// Arrange
	ctx := context.Background()
	client := &MockOrderClient{}
	client.On("PutDeliverySnapshot", ctx, orderID, snapshot()).Return(nil).Once()
	sync := ordersync.NewDirectSync(client)

	// Act
	err := sync.SyncSnapshot(ctx, ports.EventOrderAssigned, snapshot())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "direct", sync.Mode())
	client.AssertExpectations(t)
}

func TestDirectSync_SnapshotWithInvalidOrderID(t *testing.T) {
	client := &MockOrderClient{}
	sync := ordersync.NewDirectSync(client)

	err := sync.SyncSnapshot(context.Background(), ports.EventDeliveryUpdated, order.DeliverySnapshot{OrderID: "broken"})

	assert.Error(t, err)
	client.AssertNotCalled(t, "PutDeliverySnapshot", mock.Anything, mock.Anything, mock.Anything)
}

func TestDirectSync_Status(t *testing.T) {
	ctx := context.Background()
	client := &MockOrderClient{}
	client.On("PutStatus", ctx, orderID, order.Delivery).Return(errors.New("503")).Once()

	err := ordersync.NewDirectSync(client).SyncStatus(ctx, orderID, order.Delivery)

	assert.EqualError(t, err, "503")
	client.AssertExpectations(t)
}

func TestBrokerSync_PublishesEvent(t *testing.T) {
	// Arrange
	ctx := context.Background()
	publisher := &MockPublisher{}
	client := &MockOrderClient{}
	publisher.On("Publish", ctx, "order.assigned.manual", snapshot()).Return(nil).Once()
	sync := ordersync.NewBrokerSync(publisher, ordersync.NewDirectSync(client), isUnreachable, discardLogger())

	// Act
	err := sync.SyncSnapshot(ctx, ports.EventOrderAssignedManual, snapshot())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "broker", sync.Mode())
	publisher.AssertExpectations(t)
	client.AssertNotCalled(t, "PutDeliverySnapshot", mock.Anything, mock.Anything, mock.Anything)
}

func TestBrokerSync_FallsBackWhenUnreachable(t *testing.T) {
	// Arrange
	ctx := context.Background()
	publisher := &MockPublisher{}
	client := &MockOrderClient{}
	publisher.On("Publish", ctx, "delivery.updated", snapshot()).Return(errUnreachable).Once()
	client.On("PutDeliverySnapshot", ctx, orderID, snapshot()).Return(nil).Once()
	sync := ordersync.NewBrokerSync(publisher, ordersync.NewDirectSync(client), isUnreachable, discardLogger())

	// Act
	err := sync.SyncSnapshot(ctx, ports.EventDeliveryUpdated, snapshot())

	// Assert
	require.NoError(t, err)
	mock.AssertExpectationsForObjects(t, publisher, client)
}

func TestBrokerSync_ReturnsOtherPublishErrors(t *testing.T) {
	ctx := context.Background()
	publisher := &MockPublisher{}
	client := &MockOrderClient{}
	publisher.On("Publish", ctx, "order.assigned", snapshot()).Return(errors.New("maximum payload exceeded")).Once()
	sync := ordersync.NewBrokerSync(publisher, ordersync.NewDirectSync(client), isUnreachable, discardLogger())

	err := sync.SyncSnapshot(ctx, ports.EventOrderAssigned, snapshot())

	assert.EqualError(t, err, "maximum payload exceeded")
	client.AssertNotCalled(t, "PutDeliverySnapshot", mock.Anything, mock.Anything, mock.Anything)
}

func TestBrokerSync_StatusGoesDirect(t *testing.T) {
	ctx := context.Background()
	publisher := &MockPublisher{}
	client := &MockOrderClient{}
	client.On("PutStatus", ctx, orderID, order.Done).Return(nil).Once()
	sync := ordersync.NewBrokerSync(publisher, ordersync.NewDirectSync(client), isUnreachable, discardLogger())

	require.NoError(t, sync.SyncStatus(ctx, orderID, order.Done))

	client.AssertExpectations(t)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}
