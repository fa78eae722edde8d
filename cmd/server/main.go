package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"blog-agent/internal/adapter/blog_http"
	"blog-agent/internal/di"
	"blog-agent/internal/infra"
	"blog-agent/internal/infra/config"
	"blog-agent/internal/infra/logger"
	"blog-agent/internal/infra/telemetry"
)

func main() {
	// 1. Load Config
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize Telemetry and Logger
	shutdownTelemetry, err := telemetry.InitProvider(context.Background(), telemetry.Config{
		Enabled:        cfg.OTel.Enabled,
		ServiceName:    logger.ServiceName,
		ServiceVersion: cfg.OTel.ServiceVersion,
		Environment:    cfg.Env,
		OTLPEndpoint:   cfg.OTel.Endpoint,
		SampleRatio:    cfg.OTel.SampleRatio,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init telemetry: %v\n", err)
		os.Exit(1)
	}
	log := logger.NewWithOTel(cfg.OTel.Enabled)
	slog.SetDefault(log)

	// 3. Load Style Profile
	profile, err := config.LoadStyleProfile(cfg.Style.ProfilePath)
	if err != nil {
		log.Error("failed to load style profile", "error", err, "path", cfg.Style.ProfilePath)
		os.Exit(1)
	}

	// 4. Initialize DB (optional unless the database source is required)
	var dbPool *pgxpool.Pool
	if cfg.Sources.DatabaseEnabled {
		dbPool, err = infra.NewPostgresDB(context.Background(), cfg.DB.DSN(), infra.PoolConfig{
			MaxConns: cfg.DB.MaxConns,
			MinConns: cfg.DB.MinConns,
		})
		if err != nil {
			if cfg.Sources.DatabaseRequired {
				log.Error("failed to connect to db", "error", err)
				os.Exit(1)
			}
			log.Warn("db_unavailable_continuing_without_database_source", "error", err)
			dbPool = nil
		} else {
			defer dbPool.Close()
		}
	}

	// 5. Initialize Components
	client, err := di.NewGenerationClient(cfg, log)
	if err != nil {
		log.Error("failed to create generation client", "error", err)
		os.Exit(1)
	}
	components, err := di.NewApplicationComponents(cfg, profile, dbPool, client, log)
	if err != nil {
		log.Error("failed to wire components", "error", err)
		os.Exit(1)
	}

	// 6. Start Worker
	if components.Worker != nil {
		components.Worker.Start()
		defer func() {
			log.Info("Stopping worker...")
			components.Worker.Stop()
		}()
	}

	// 7. Initialize Echo
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency_ms", v.Latency.Milliseconds(),
				"request_id", v.RequestID,
			}
			if v.Error != nil {
				log.ErrorContext(c.Request().Context(), "http_request", append(attrs, "error", v.Error.Error())...)
				return nil
			}
			log.InfoContext(c.Request().Context(), "http_request", attrs...)
			return nil
		},
	}))
	e.Use(middleware.Recover())

	// 8. Register Handlers
	var ready blog_http.ReadinessCheck
	if dbPool != nil {
		ready = dbPool.Ping
	}
	handler := blog_http.NewHandler(components.GenerateUsecase, components.Aggregator, ready, log)
	handler.Register(e)

	// 9. Start Server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		log.Info("Starting server", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	// 10. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error("failed to shutdown server", "error", err)
	}
	if err := shutdownTelemetry(ctx); err != nil {
		log.Error("failed to shutdown telemetry", "error", err)
	}
}
