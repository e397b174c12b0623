package broker

import (
	"context"
	"errors"
	"net"
	"syscall"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// IsConnectivityError reports whether err means the broker could not be
// reached, as opposed to a rejected or malformed publish.
func IsConnectivityError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, nats.ErrTimeout) ||
		errors.Is(err, nats.ErrNoServers) ||
		errors.Is(err, nats.ErrDisconnected) ||
		errors.Is(err, nats.ErrConnectionClosed) ||
		errors.Is(err, nats.ErrConnectionDraining) ||
		errors.Is(err, jetstream.ErrNoStreamResponse) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}

	// Dial, DNS and socket timeout failures all surface as net.Error.
	var netErr net.Error
	return errors.As(err, &netErr)
}
