// Package broker connects the dispatcher to NATS JetStream: it publishes
// delivery events and consumes upstream order.created events.
package broker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

const (
	StreamName = "DELIVERY"

	SubjectOrderCreated = "order.created"

	// DurableName is the consumer shared by every dispatcher instance, so each
	// order.created message is handled once.
	DurableName = "courier-dispatch"
)

// StreamSubjects are captured by the DELIVERY stream.
var StreamSubjects = []string{"order.>", "delivery.>"}

// Connect dials NATS once within timeout and makes sure the stream exists.
// It never retries: callers fall back to direct synchronization instead.
func Connect(ctx context.Context, url string, timeout time.Duration, logger *slog.Logger) (*nats.Conn, jetstream.JetStream, error) {
	nc, err := nats.Connect(url,
		nats.Name("courier-dispatch"),
		nats.Timeout(timeout),
		nats.RetryOnFailedConnect(false),
		nats.MaxReconnects(10),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("NATS reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to nats %s: %w", url, err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, nil, fmt.Errorf("jetstream context: %w", err)
	}

	streamCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err = EnsureStream(streamCtx, js); err != nil {
		nc.Close()
		return nil, nil, err
	}

	return nc, js, nil
}

// EnsureStream creates the DELIVERY stream or updates its subjects.
func EnsureStream(ctx context.Context, js jetstream.JetStream) error {
	_, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:      StreamName,
		Subjects:  StreamSubjects,
		Retention: jetstream.LimitsPolicy,
		MaxAge:    72 * time.Hour,
		Storage:   jetstream.FileStorage,
	})
	if err != nil {
		return fmt.Errorf("create stream %s: %w", StreamName, err)
	}
	return nil
}
