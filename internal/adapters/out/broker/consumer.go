package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"delivery/internal/core/application/usecases/commands"
	"delivery/internal/pkg/metrics"

	"github.com/nats-io/nats.go/jetstream"
)

// AssignHandler is the auto-assignment use case.
type AssignHandler interface {
	Handle(ctx context.Context, command commands.AssignCourierCommand) (commands.AssignResult, error)
}

// OrderCreatedConsumer turns order.created messages into auto-assignments.
//
// Every message is acknowledged whatever the outcome. A failed assignment is
// logged and not redelivered, so a poison message cannot assign couriers over
// and over.
type OrderCreatedConsumer struct {
	js             jetstream.JetStream
	handler        AssignHandler
	logger         *slog.Logger
	handlerTimeout time.Duration
	consumeCtx     jetstream.ConsumeContext
}

func NewOrderCreatedConsumer(js jetstream.JetStream, handler AssignHandler, logger *slog.Logger) *OrderCreatedConsumer {
	return &OrderCreatedConsumer{
		js:             js,
		handler:        handler,
		logger:         logger.With("component", "order-created-consumer"),
		handlerTimeout: 30 * time.Second,
	}
}

// Start creates the durable consumer and begins pushing messages to the
// handler on the client's goroutines.
func (c *OrderCreatedConsumer) Start(ctx context.Context) error {
	cons, err := c.js.CreateOrUpdateConsumer(ctx, StreamName, jetstream.ConsumerConfig{
		Name:          DurableName,
		Durable:       DurableName,
		FilterSubject: SubjectOrderCreated,
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       time.Minute,
		DeliverPolicy: jetstream.DeliverAllPolicy,
	})
	if err != nil {
		return fmt.Errorf("create consumer %s: %w", DurableName, err)
	}

	c.consumeCtx, err = cons.Consume(func(msg jetstream.Msg) {
		c.handle(msg)
	})
	if err != nil {
		return fmt.Errorf("consume %s: %w", SubjectOrderCreated, err)
	}

	c.logger.InfoContext(ctx, "Order created consumer started", "durable", DurableName)
	return nil
}

func (c *OrderCreatedConsumer) Stop() {
	if c.consumeCtx != nil {
		c.consumeCtx.Stop()
		c.logger.Info("Order created consumer stopped")
	}
}

func (c *OrderCreatedConsumer) handle(msg jetstream.Msg) {
	defer func() {
		if err := msg.Ack(); err != nil {
			c.logger.Warn("Failed to ack order.created", "error", err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), c.handlerTimeout)
	defer cancel()

	var event OrderCreatedEvent
	if err := json.Unmarshal(msg.Data(), &event); err != nil {
		metrics.ConsumedEvents.WithLabelValues("malformed").Inc()
		c.logger.WarnContext(ctx, "Malformed order.created payload", "error", err)
		return
	}

	details, err := event.OrderDetails()
	if err != nil {
		metrics.ConsumedEvents.WithLabelValues("malformed").Inc()
		c.logger.WarnContext(ctx, "Invalid order.created payload", "order_id", event.OrderID, "error", err)
		return
	}

	cmd, err := commands.NewAssignCourierCommand(details)
	if err != nil {
		metrics.ConsumedEvents.WithLabelValues("malformed").Inc()
		c.logger.WarnContext(ctx, "Invalid order.created payload", "order_id", event.OrderID, "error", err)
		return
	}

	res, err := c.handler.Handle(ctx, cmd)
	if err != nil {
		metrics.ConsumedEvents.WithLabelValues("failed").Inc()
		c.logger.ErrorContext(ctx, "Auto-assignment failed", "order_id", event.OrderID, "error", err)
		return
	}

	metrics.ConsumedEvents.WithLabelValues(string(res.Outcome)).Inc()
	attrs := []any{"order_id", event.OrderID, "created", res.Created, "outcome", string(res.Outcome)}
	if res.Route != nil {
		attrs = append(attrs, "courier_id", res.Route.CourierID().String())
	}
	c.logger.InfoContext(ctx, "Order assigned", attrs...)
}
