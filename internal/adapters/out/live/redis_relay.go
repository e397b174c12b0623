package live

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"delivery/internal/core/domain/model/kernel"

	"github.com/redis/go-redis/v9"
)

const RelayChannel = "dispatch:live"

type relayFrame struct {
	Origin   string   `json:"origin"`
	Envelope Envelope `json:"envelope"`
}

// RedisRelay shares envelopes between instances over Redis pub/sub. Frames
// carry the publishing instance so that Run skips its own.
type RedisRelay struct {
	client   *redis.Client
	instance string
	logger   *slog.Logger
}

func NewRedisRelay(client *redis.Client, logger *slog.Logger) *RedisRelay {
	return &RedisRelay{
		client:   client,
		instance: kernel.NewUUID().String(),
		logger:   logger.With("component", "live-relay"),
	}
}

// ConnectRedis parses url and pings the server once.
func ConnectRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err = client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

func (r *RedisRelay) Publish(ctx context.Context, env Envelope) error {
	data, err := json.Marshal(relayFrame{Origin: r.instance, Envelope: env})
	if err != nil {
		return err
	}
	return r.client.Publish(ctx, RelayChannel, data).Err()
}

// Run broadcasts frames published by other instances on hub until ctx is
// done. ready, if not nil, is closed once the subscription is confirmed.
func (r *RedisRelay) Run(ctx context.Context, hub *Hub, ready chan<- struct{}) error {
	pubsub := r.client.Subscribe(ctx, RelayChannel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", RelayChannel, err)
	}
	if ready != nil {
		close(ready)
	}

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var frame relayFrame
			if err := json.Unmarshal([]byte(msg.Payload), &frame); err != nil {
				r.logger.Warn("Malformed live relay frame", "error", err)
				continue
			}
			if frame.Origin == r.instance {
				continue
			}
			hub.Broadcast(frame.Envelope)
		}
	}
}
