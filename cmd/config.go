package cmd

import (
	"fmt"
	"strings"
	"time"
)

const (
	DefaultHTTPPort           = "8080"
	DefaultNatsConnectTimeout = 3 * time.Second
	DefaultRecomputeSchedule  = "@every 30s"
)

type Config struct {
	HTTPPort           string
	DBHost             string
	DBPort             string
	DBUser             string
	DBPassword         string
	DBName             string
	DBSslMode          string
	NatsURL            string
	NatsConnectTimeout string
	OrderServiceURL    string
	RedisURL           string
	JWTSecret          string
	RecomputeSchedule  string
	WSAllowedOrigins   string
}

// DSN is the postgres connection string.
func (c Config) DSN() string {
	sslMode := c.DBSslMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, sslMode)
}

func (c Config) Port() string {
	if c.HTTPPort == "" {
		return DefaultHTTPPort
	}
	return c.HTTPPort
}

// NatsTimeout bounds the single broker connection attempt made at startup.
func (c Config) NatsTimeout() (time.Duration, error) {
	if c.NatsConnectTimeout == "" {
		return DefaultNatsConnectTimeout, nil
	}
	d, err := time.ParseDuration(c.NatsConnectTimeout)
	if err != nil {
		return 0, fmt.Errorf("NATS_CONNECT_TIMEOUT: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("NATS_CONNECT_TIMEOUT must be positive, got %s", d)
	}
	return d, nil
}

func (c Config) Recompute() string {
	if c.RecomputeSchedule == "" {
		return DefaultRecomputeSchedule
	}
	return c.RecomputeSchedule
}

// AllowedOrigins splits the comma-separated WS_ALLOWED_ORIGINS list.
func (c Config) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.WSAllowedOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// Validate checks the settings the service cannot start without.
func (c Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.OrderServiceURL == "" {
		return fmt.Errorf("ORDER_SERVICE_URL is required")
	}
	if _, err := c.NatsTimeout(); err != nil {
		return err
	}
	return nil
}
