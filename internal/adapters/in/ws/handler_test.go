package ws_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"delivery/internal/adapters/in/auth"
	"delivery/internal/adapters/in/ws"
	"delivery/internal/adapters/out/live"
	"delivery/internal/core/domain/model/courier"
	"delivery/internal/core/domain/model/kernel"
	"delivery/internal/core/domain/model/route"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	hub      *live.Hub
	verifier *auth.Verifier
	url      string
}

func newFixture(t *testing.T, allowedOrigins ...string) fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	verifier, err := auth.NewVerifier("ws-secret")
	require.NoError(t, err)
	hub := live.NewHub(logger)

	e := echo.New()
	e.GET("/ws/live", ws.NewHandler(hub, verifier, allowedOrigins, logger).Live)
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	return fixture{hub: hub, verifier: verifier, url: "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/live"}
}

func (f fixture) dial(t *testing.T, subject, role string) *websocket.Conn {
	t.Helper()
	token, err := f.verifier.Issue(subject, role, time.Hour)
	require.NoError(t, err)

	conn, resp, err := websocket.DefaultDialer.Dial(f.url+"?token="+token, nil)
	require.NoError(t, err)
	_ = resp.Body.Close()
	t.Cleanup(func() { _ = conn.Close() })

	require.Eventually(t, func() bool { return f.hub.Observers() > 0 }, 2*time.Second, 10*time.Millisecond)
	return conn
}

func newRoute(t *testing.T) *route.Route {
	t.Helper()
	loc, err := kernel.NewLocation(55.75, 37.61)
	require.NoError(t, err)
	c, err := courier.NewCourier(kernel.NewUUID(), "Ivan", loc)
	require.NoError(t, err)
	eta, err := route.NewEta(9, 8, 11, 75)
	require.NoError(t, err)
	rt, err := route.NewRoute(kernel.NewUUID(), route.OrderDetails{
		OrderID:  kernel.NewUUID(),
		UserID:   kernel.NewUUID(),
		Address:  "Arbat 10",
		Location: loc,
		Total:    12,
	}, c, eta, time.Now())
	require.NoError(t, err)
	return rt
}

func TestLive_StreamsRouteUpdates(t *testing.T) {
	f := newFixture(t)
	conn := f.dial(t, "ops", auth.RoleAdmin)
	rt := newRoute(t)

	delivered := f.hub.RouteChanged(context.Background(), rt)
	require.Equal(t, 1, delivered)

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var env live.Envelope
	require.NoError(t, conn.ReadJSON(&env))
	assert.Equal(t, "delivery.updated", env.Type)
	assert.Equal(t, rt.OrderID().String(), env.Route.OrderID)
	assert.Equal(t, 9, env.Route.EtaMinutes)
}

func TestLive_CourierSeesOnlyOwnRoutes(t *testing.T) {
	f := newFixture(t)
	f.dial(t, kernel.NewUUID().String(), auth.RoleCourier)

	assert.Zero(t, f.hub.RouteChanged(context.Background(), newRoute(t)))
}

func TestLive_RejectsMissingToken(t *testing.T) {
	f := newFixture(t)

	_, resp, err := websocket.DefaultDialer.Dial(f.url, nil)

	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLive_UnsubscribesOnDisconnect(t *testing.T) {
	f := newFixture(t)
	conn := f.dial(t, "ops", auth.RoleAdmin)

	require.NoError(t, conn.Close())

	require.Eventually(t, func() bool { return f.hub.Observers() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestLive_OriginPolicy(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		origin  string
		want    int
	}{
		{"listed origin", []string{"https://ops.example.com"}, "https://ops.example.com", http.StatusSwitchingProtocols},
		{"unlisted origin", []string{"https://ops.example.com"}, "https://evil.example.com", http.StatusForbidden},
		{"wildcard", []string{"*"}, "https://anywhere.example.com", http.StatusSwitchingProtocols},
		{"same host only by default", nil, "https://evil.example.com", http.StatusForbidden},
		{"no origin header", []string{"https://ops.example.com"}, "", http.StatusSwitchingProtocols},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.allowed...)
			token, err := f.verifier.Issue("ops", auth.RoleAdmin, time.Hour)
			require.NoError(t, err)

			header := http.Header{}
			if tt.origin != "" {
				header.Set("Origin", tt.origin)
			}
			conn, resp, err := websocket.DefaultDialer.Dial(f.url+"?token="+token, header)
			if conn != nil {
				t.Cleanup(func() { _ = conn.Close() })
			}

			require.NotNil(t, resp)
			_ = resp.Body.Close()
			assert.Equal(t, tt.want, resp.StatusCode)
			if tt.want == http.StatusForbidden {
				require.Error(t, err)
			}
		})
	}
}
