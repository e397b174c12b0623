// Package ws serves the live delivery channel over websockets.
package ws

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"delivery/internal/adapters/in/auth"
	"delivery/internal/adapters/out/live"
	"delivery/internal/generated/servers"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	sendBuffer = 32
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

type Handler struct {
	hub      *live.Hub
	verifier *auth.Verifier
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHandler builds the live endpoint. allowedOrigins lists the browser
// origins that may open the channel, "*" admits any origin and an empty list
// admits only the service's own host.
func NewHandler(hub *live.Hub, verifier *auth.Verifier, allowedOrigins []string, logger *slog.Logger) *Handler {
	return &Handler{
		hub:      hub,
		verifier: verifier,
		upgrader: websocket.Upgrader{
			CheckOrigin: originChecker(allowedOrigins),
		},
		logger: logger.With("component", "ws"),
	}
}

// originChecker returns nil for an empty list, which keeps the upgrader's
// same-host check. Clients that send no Origin header are not browsers and
// pass.
func originChecker(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 {
		return nil
	}
	if slices.Contains(allowed, "*") {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(allowed, origin)
	}
}

// Live handles GET /ws/live?token=... . The token is checked before the
// upgrade so that unauthenticated clients get a plain 401.
func (h *Handler) Live(c echo.Context) error {
	principal, err := h.verifier.Verify(c.QueryParam("token"))
	if err != nil {
		return c.JSON(http.StatusUnauthorized, servers.Error{
			Code:    http.StatusUnauthorized,
			Message: "invalid or missing token query parameter",
		})
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Warn("Websocket upgrade failed", "error", err)
		return nil
	}

	obs := &observer{
		identity: live.Identity{Subject: principal.Subject, Role: principal.Role},
		send:     make(chan live.Envelope, sendBuffer),
	}
	unsubscribe := h.hub.Subscribe(obs)
	h.logger.Info("Live observer connected", "subject", principal.Subject, "role", principal.Role)

	ctx, cancel := context.WithCancel(c.Request().Context())
	go h.readPump(conn, cancel)
	h.writePump(ctx, conn, obs)

	unsubscribe()
	_ = conn.Close()
	h.logger.Info("Live observer disconnected", "subject", principal.Subject)
	return nil
}

// readPump discards client frames and cancels ctx when the client goes away.
func (h *Handler) readPump(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()

	conn.SetReadLimit(1024)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Handler) writePump(ctx context.Context, conn *websocket.Conn, obs *observer) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		case env := <-obs.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(env); err != nil {
				h.logger.Warn("Websocket write failed", "error", err)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

type observer struct {
	identity live.Identity
	send     chan live.Envelope
}

func (o *observer) Identity() live.Identity {
	return o.identity
}

// Deliver drops the frame when the client is too slow to drain its buffer.
func (o *observer) Deliver(env live.Envelope) bool {
	select {
	case o.send <- env:
		return true
	default:
		return false
	}
}
