package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"delivery/cmd"
	"delivery/internal/adapters/in/auth"
	"delivery/internal/adapters/in/ws"
	"delivery/internal/adapters/out/broker"
	"delivery/internal/adapters/out/live"
	"delivery/internal/adapters/out/orderclient"
	"delivery/internal/adapters/out/ordersync"
	"delivery/internal/adapters/out/postgres"
	"delivery/internal/core/ports"
	"delivery/internal/generated/servers"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	configs := getConfigs()
	if err := configs.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB, err := gorm.Open(gormpostgres.Open(configs.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := postgres.Migrate(gormDB); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	client, err := orderclient.NewClient(configs.OrderServiceURL)
	if err != nil {
		log.Fatalf("Failed to create order client: %v", err)
	}
	direct := ordersync.NewDirectSync(client)

	hub := live.NewHub(logger)
	startRedisRelay(ctx, configs, hub, logger)

	natsConn, js := connectBroker(ctx, configs, logger)
	var orderSync ports.OrderSync = direct
	if js != nil {
		orderSync = ordersync.NewBrokerSync(broker.NewPublisher(js), direct, broker.IsConnectivityError, logger)
	}
	logger.Info("Order synchronization selected", "mode", orderSync.Mode())

	app := cmd.NewCompositionRoot(configs, gormDB, orderSync, hub, logger)

	if js != nil {
		consumer := broker.NewOrderCreatedConsumer(js, app.CreateAssignCourierCommandHandler(), logger)
		if err := consumer.Start(ctx); err != nil {
			logger.Error("Failed to start order.created consumer", "error", err)
		} else {
			defer consumer.Stop()
		}
	}
	if natsConn != nil {
		defer natsConn.Drain()
	}

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	verifier, err := auth.NewVerifier(configs.JWTSecret)
	if err != nil {
		log.Fatalf("Failed to create token verifier: %v", err)
	}

	startWebServer(ctx, app, hub, verifier, configs, logger)
}

func getConfigs() cmd.Config {
	loadDotEnv()
	config := cmd.Config{
		HTTPPort:           os.Getenv("HTTP_PORT"),
		DBHost:             os.Getenv("DB_HOST"),
		DBPort:             os.Getenv("DB_PORT"),
		DBUser:             os.Getenv("DB_USER"),
		DBPassword:         os.Getenv("DB_PASSWORD"),
		DBName:             os.Getenv("DB_NAME"),
		DBSslMode:          os.Getenv("DB_SSLMODE"),
		NatsURL:            os.Getenv("NATS_URL"),
		NatsConnectTimeout: os.Getenv("NATS_CONNECT_TIMEOUT"),
		OrderServiceURL:    os.Getenv("ORDER_SERVICE_URL"),
		RedisURL:           os.Getenv("REDIS_URL"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		RecomputeSchedule:  os.Getenv("RECOMPUTE_SCHEDULE"),
		WSAllowedOrigins:   os.Getenv("WS_ALLOWED_ORIGINS"),
	}
	return config
}

// loadDotEnv reads .env when present. Variables already set in the
// environment win.
func loadDotEnv() {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("Error loading .env file: %v", err)
	}
}

// connectBroker makes one bounded attempt. A nil JetStream means the service
// runs with direct order synchronization.
func connectBroker(ctx context.Context, configs cmd.Config, logger *slog.Logger) (*nats.Conn, jetstream.JetStream) {
	if configs.NatsURL == "" {
		logger.Info("NATS_URL is empty, broker disabled")
		return nil, nil
	}

	timeout, err := configs.NatsTimeout()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	nc, js, err := broker.Connect(ctx, configs.NatsURL, timeout, logger)
	if err != nil {
		logger.Warn("Broker unavailable, falling back to direct order sync", "error", err)
		return nil, nil
	}
	return nc, js
}

func startRedisRelay(ctx context.Context, configs cmd.Config, hub *live.Hub, logger *slog.Logger) {
	if configs.RedisURL == "" {
		return
	}

	connectCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	client, err := live.ConnectRedis(connectCtx, configs.RedisURL)
	if err != nil {
		logger.Warn("Redis unavailable, live relay disabled", "error", err)
		return
	}

	relay := live.NewRedisRelay(client, logger)
	hub.AttachRelay(relay)
	go func() {
		defer client.Close()
		if err := relay.Run(ctx, hub, nil); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Live relay stopped", "error", err)
		}
	}()
}

func startWebServer(
	ctx context.Context,
	app *cmd.CompositionRoot,
	hub *live.Hub,
	verifier *auth.Verifier,
	configs cmd.Config,
	logger *slog.Logger,
) {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	swagger, err := servers.GetSwagger()
	if err != nil {
		log.Fatalf("Error loading swagger spec: %v", err)
	}
	specJSON, err := json.Marshal(swagger)
	if err != nil {
		log.Fatalf("Error encoding swagger spec: %v", err)
	}
	e.GET("/api/openapi.json", func(c echo.Context) error {
		return c.JSONBlob(http.StatusOK, specJSON)
	})
	e.GET("/swagger/*", echoSwagger.EchoWrapHandler(echoSwagger.URL("/api/openapi.json")))

	e.GET("/ws/live", ws.NewHandler(hub, verifier, configs.AllowedOrigins(), logger).Live)

	api := e.Group("", auth.Middleware(verifier))
	servers.RegisterHandlers(api, app.CreateHTTPServer())

	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", configs.Port())); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
}
