package commands_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"delivery/internal/core/application/usecases/commands"
	"delivery/internal/core/domain/model/courier"
	"delivery/internal/core/domain/model/kernel"
	"delivery/internal/core/domain/model/order"
	"delivery/internal/core/domain/model/route"
	"delivery/internal/core/domain/services"
	"delivery/internal/core/ports"
	"delivery/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
)

var errNoTransaction = errors.New("no active transaction")

// memoryStore is an in-memory courier and route store with copy-on-begin
// transactions. Aggregates are cloned on every read and write so that only
// explicit Updates reach the store.
//
// Courier locks are real mutexes held until commit or rollback. Taking one
// refreshes the transaction's copy, which matches a locking read under READ
// COMMITTED as long as the transaction has not written yet.
type memoryStore struct {
	mu       sync.Mutex
	couriers map[kernel.UUID]*courier.Courier
	routes   map[kernel.UUID]*route.Route
	locks    map[kernel.UUID]*sync.Mutex
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		couriers: map[kernel.UUID]*courier.Courier{},
		routes:   map[kernel.UUID]*route.Route{},
		locks:    map[kernel.UUID]*sync.Mutex{},
	}
}

func (s *memoryStore) courierLock(id kernel.UUID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

func (s *memoryStore) snapshot() *memoryStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := newMemoryStore()
	for id, c := range s.couriers {
		cp.couriers[id] = cloneCourier(c)
	}
	for id, r := range s.routes {
		cp.routes[id] = cloneRoute(r)
	}
	return cp
}

func (s *memoryStore) replaceWith(other *memoryStore) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.couriers = other.couriers
	s.routes = other.routes
}

func (s *memoryStore) Create() commands.UoW {
	return &memoryUoW{store: s}
}

// route returns a detached copy of the newest route of the order.
func (s *memoryStore) route(orderID kernel.UUID) *route.Route {
	rt, err := (&memoryRouteRepo{s: s}).GetByOrder(context.Background(), orderID)
	if err != nil {
		return nil
	}
	return rt
}

func (s *memoryStore) courier(id kernel.UUID) *courier.Courier {
	c, err := (&memoryCourierRepo{s: s}).Get(context.Background(), id)
	if err != nil {
		return nil
	}
	return c
}

func (s *memoryStore) active(courierID kernel.UUID) []*route.Route {
	routes, _ := (&memoryRouteRepo{s: s}).GetActiveByCourier(context.Background(), courierID)
	return routes
}

type memoryUoW struct {
	store *memoryStore
	tx    *memoryStore
	held  []*sync.Mutex
}

func (u *memoryUoW) Begin(context.Context) error {
	if u.tx == nil {
		u.tx = u.store.snapshot()
	}
	return nil
}

func (u *memoryUoW) Commit(context.Context) error {
	if u.tx == nil {
		return errNoTransaction
	}
	u.store.replaceWith(u.tx)
	u.tx = nil
	u.release()
	return nil
}

func (u *memoryUoW) Rollback(context.Context) error {
	if u.tx == nil {
		return errNoTransaction
	}
	u.tx = nil
	u.release()
	return nil
}

func (u *memoryUoW) lockCourier(id kernel.UUID) {
	l := u.store.courierLock(id)
	l.Lock()
	u.held = append(u.held, l)
	u.tx.replaceWith(u.store.snapshot())
}

func (u *memoryUoW) release() {
	for _, l := range u.held {
		l.Unlock()
	}
	u.held = nil
}

func (u *memoryUoW) conn() *memoryStore {
	if u.tx != nil {
		return u.tx
	}
	return u.store
}

func (u *memoryUoW) CourierRepository() ports.CourierRepository {
	return &memoryCourierRepo{s: u.conn(), uow: u}
}

func (u *memoryUoW) RouteRepository() ports.RouteRepository {
	return &memoryRouteRepo{s: u.conn()}
}

type memoryCourierRepo struct {
	s   *memoryStore
	uow *memoryUoW
}

func (r *memoryCourierRepo) Add(_ context.Context, c *courier.Courier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.couriers[c.ID()] = cloneCourier(c)
	return nil
}

func (r *memoryCourierRepo) Update(_ context.Context, c *courier.Courier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.couriers[c.ID()]; !ok {
		return errs.NewObjectNotFoundError("courierId", c.ID().String())
	}
	r.s.couriers[c.ID()] = cloneCourier(c)
	return nil
}

func (r *memoryCourierRepo) Get(_ context.Context, id kernel.UUID) (*courier.Courier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.couriers[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("courierId", id.String())
	}
	return cloneCourier(c), nil
}

func (r *memoryCourierRepo) GetForUpdate(ctx context.Context, id kernel.UUID) (*courier.Courier, error) {
	if r.uow != nil && r.uow.tx != nil {
		r.uow.lockCourier(id)
	}
	return r.Get(ctx, id)
}

func (r *memoryCourierRepo) GetAll(context.Context) ([]*courier.Courier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*courier.Courier, 0, len(r.s.couriers))
	for _, c := range r.s.couriers {
		out = append(out, cloneCourier(c))
	}
	slices.SortFunc(out, func(a, b *courier.Courier) int {
		if a.ID().Less(b.ID()) {
			return -1
		}
		return 1
	})
	return out, nil
}

type memoryRouteRepo struct{ s *memoryStore }

func (r *memoryRouteRepo) Add(_ context.Context, rt *route.Route) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.routes {
		if existing.OrderID().IsEqual(rt.OrderID()) && existing.IsActive() {
			return errors.New("duplicate active route")
		}
	}
	r.s.routes[rt.ID()] = cloneRoute(rt)
	return nil
}

func (r *memoryRouteRepo) Update(_ context.Context, rt *route.Route) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.routes[rt.ID()]; !ok {
		return errs.NewObjectNotFoundError("routeId", rt.ID().String())
	}
	r.s.routes[rt.ID()] = cloneRoute(rt)
	return nil
}

func (r *memoryRouteRepo) GetByOrder(_ context.Context, orderID kernel.UUID) (*route.Route, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var newest *route.Route
	for _, rt := range r.s.routes {
		if rt.OrderID().IsEqual(orderID) && (newest == nil || rt.CreatedAt().After(newest.CreatedAt())) {
			newest = rt
		}
	}
	if newest == nil {
		return nil, errs.NewObjectNotFoundError("orderId", orderID.String())
	}
	return cloneRoute(newest), nil
}

func (r *memoryRouteRepo) GetActiveByCourier(_ context.Context, courierID kernel.UUID) ([]*route.Route, error) {
	out := r.filter(func(rt *route.Route) bool { return rt.IsAssignedTo(courierID) && rt.IsActive() })
	slices.SortStableFunc(out, func(a, b *route.Route) int { return a.CreatedAt().Compare(b.CreatedAt()) })
	return out, nil
}

func (r *memoryRouteRepo) CountActiveByCourier(context.Context) (map[kernel.UUID]int, error) {
	counts := map[kernel.UUID]int{}
	for _, rt := range r.filter(func(rt *route.Route) bool { return rt.IsActive() }) {
		counts[rt.CourierID()]++
	}
	return counts, nil
}

func (r *memoryRouteRepo) GetCompletedByCourier(_ context.Context, courierID kernel.UUID, limit int) ([]*route.Route, error) {
	out := r.filter(func(rt *route.Route) bool { return rt.IsAssignedTo(courierID) && !rt.IsActive() })
	slices.SortStableFunc(out, func(a, b *route.Route) int { return b.CompletedAt().Compare(*a.CompletedAt()) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memoryRouteRepo) CountCompletedByCourier(_ context.Context, courierID kernel.UUID) (int, error) {
	return len(r.filter(func(rt *route.Route) bool { return rt.IsAssignedTo(courierID) && !rt.IsActive() })), nil
}

func (r *memoryRouteRepo) filter(keep func(*route.Route) bool) []*route.Route {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*route.Route, 0)
	for _, rt := range r.s.routes {
		if keep(rt) {
			out = append(out, cloneRoute(rt))
		}
	}
	return out
}

func cloneCourier(c *courier.Courier) *courier.Courier {
	cp, err := courier.RestoreCourier(c.ID(), c.Name(), c.Location(), c.IsAvailable(), c.Calibration())
	if err != nil {
		panic(err)
	}
	return cp
}

func cloneRoute(r *route.Route) *route.Route {
	cp, err := route.RestoreRoute(route.State{
		ID:                r.ID(),
		OrderID:           r.OrderID(),
		UserID:            r.UserID(),
		CourierID:         r.CourierID(),
		CourierName:       r.CourierName(),
		Address:           r.Address(),
		Location:          r.Location(),
		Status:            r.Status(),
		Eta:               r.Eta(),
		InitialEtaMinutes: r.InitialEtaMinutes(),
		Sequence:          r.Sequence(),
		TotalTimeMinutes:  r.TotalTimeMinutes(),
		DistanceKm:        r.DistanceKm(),
		Total:             r.Total(),
		Items:             r.Items(),
		CreatedAt:         r.CreatedAt(),
		UpdatedAt:         r.UpdatedAt(),
		CompletedAt:       r.CompletedAt(),
	})
	if err != nil {
		panic(err)
	}
	return cp
}

type MockOrderSync struct{ mock.Mock }

func (m *MockOrderSync) SyncSnapshot(ctx context.Context, event ports.DeliveryEvent, snapshot order.DeliverySnapshot) error {
	args := m.Called(ctx, event, snapshot)
	return args.Error(0)
}

func (m *MockOrderSync) SyncStatus(ctx context.Context, orderID kernel.UUID, status order.Status) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

func (m *MockOrderSync) Mode() string {
	return "direct"
}

type MockLiveNotifier struct{ mock.Mock }

func (m *MockLiveNotifier) RouteChanged(ctx context.Context, rt *route.Route) int {
	args := m.Called(ctx, rt)
	return args.Int(0)
}

type failingPlanner struct{ panics bool }

func (p failingPlanner) Plan(kernel.Location, []services.Stop, services.Mode, courier.Calibration) (services.Schedule, error) {
	if p.panics {
		panic("planner exploded")
	}
	return services.Schedule{}, errors.New("planner unavailable")
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
