package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"delivery/internal/pkg/metrics"

	"github.com/nats-io/nats.go/jetstream"
)

// Publisher writes JSON events to the DELIVERY stream and waits for the
// stream acknowledgement.
type Publisher struct {
	js jetstream.JetStream
}

func NewPublisher(js jetstream.JetStream) *Publisher {
	return &Publisher{js: js}
}

func (p *Publisher) Publish(ctx context.Context, subject string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		metrics.PublishedEvents.WithLabelValues(subject, "invalid").Inc()
		return fmt.Errorf("encode %s payload: %w", subject, err)
	}

	if _, err = p.js.Publish(ctx, subject, data); err != nil {
		metrics.PublishedEvents.WithLabelValues(subject, "failed").Inc()
		return fmt.Errorf("publish %s: %w", subject, err)
	}

	metrics.PublishedEvents.WithLabelValues(subject, "ok").Inc()
	return nil
}
