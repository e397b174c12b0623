// Package live fans route updates out to connected observers. The Hub is
// an explicit registry owned by the composition root; an optional Redis relay
// forwards updates between service instances.
package live

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"delivery/internal/core/application/usecases/queries"
	"delivery/internal/core/domain/model/route"
	"delivery/internal/core/ports"
	"delivery/internal/pkg/metrics"
)

const RoleAdmin = "admin"

// Identity is who an observer is connected as.
type Identity struct {
	Subject string
	Role    string
}

// Sees reports whether updates of the courier's routes are visible to the
// identity: admins see everything, anyone else only the routes of the courier
// they are authenticated as.
func (i Identity) Sees(courierID string) bool {
	return i.Role == RoleAdmin || (i.Subject != "" && i.Subject == courierID)
}

// Observer receives envelopes. Deliver must not block; an observer that cannot
// keep up drops the frame and returns false.
type Observer interface {
	Identity() Identity
	Deliver(env Envelope) bool
}

// Relay forwards locally produced envelopes to other instances.
type Relay interface {
	Publish(ctx context.Context, env Envelope) error
}

var _ ports.LiveNotifier = (*Hub)(nil)

type Hub struct {
	mu        sync.RWMutex
	observers map[uint64]Observer
	nextID    uint64
	relay     Relay
	clock     func() time.Time
	logger    *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		observers: make(map[uint64]Observer),
		clock:     time.Now,
		logger:    logger.With("component", "live-hub"),
	}
}

// AttachRelay makes RouteChanged forward every envelope through r.
func (h *Hub) AttachRelay(r Relay) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.relay = r
}

// Subscribe registers the observer and returns the func that removes it.
// Calling the returned func more than once is safe.
func (h *Hub) Subscribe(o Observer) func() {
	h.mu.Lock()
	h.nextID++
	id := h.nextID
	h.observers[id] = o
	h.mu.Unlock()
	metrics.LiveObservers.Inc()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.observers, id)
			h.mu.Unlock()
			metrics.LiveObservers.Dec()
		})
	}
}

func (h *Hub) Observers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.observers)
}

// RouteChanged hands the route to local observers and to the relay. It
// returns the number of local observers that accepted the update.
func (h *Hub) RouteChanged(ctx context.Context, rt *route.Route) int {
	env := Envelope{
		Type:      TypeDeliveryUpdated,
		EmittedAt: h.clock().UTC(),
		Route:     newRouteMessage(queries.NewRouteView(rt)),
	}

	delivered := h.Broadcast(env)

	h.mu.RLock()
	relay := h.relay
	h.mu.RUnlock()
	if relay != nil {
		if err := relay.Publish(ctx, env); err != nil {
			metrics.Degradations.WithLabelValues("live_relay").Inc()
			h.logger.WarnContext(ctx, "Live relay publish failed", "order_id", env.Route.OrderID, "error", err)
		}
	}

	return delivered
}

// Broadcast delivers env to every local observer allowed to see it.
func (h *Hub) Broadcast(env Envelope) int {
	h.mu.RLock()
	targets := make([]Observer, 0, len(h.observers))
	for _, o := range h.observers {
		if o.Identity().Sees(env.Route.CourierID) {
			targets = append(targets, o)
		}
	}
	h.mu.RUnlock()

	delivered := 0
	for _, o := range targets {
		if o.Deliver(env) {
			delivered++
		}
	}
	metrics.LiveDeliveries.Add(float64(delivered))
	return delivered
}
