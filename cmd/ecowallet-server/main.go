package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"ecowallet/internal/backend"
	"ecowallet/internal/cli"
	"ecowallet/internal/events"
	apphttp "ecowallet/internal/http"
	"ecowallet/internal/log"
	"ecowallet/internal/metrics"
	"ecowallet/internal/middleware/ratelimit"
	"ecowallet/internal/services"
)

func main() {
	cfg := cli.LoadConfig()
	logger := cli.SetupLogger(cfg, log.ComponentApp, os.Stdout)
	cli.MustValidate(logger, cfg.Validate())

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}
	factory := backend.NewFactory(logger.WithComponent(log.ComponentBackend).Logger)
	result, err := factory.CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to initialize data backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}

	m := metrics.New()

	// Ledger events are optional: without AMQP the service is a pass-through.
	var publisher services.Publisher
	if cfg.AMQPURL != "" {
		client, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		publisher = client
		logger.Info("Publishing ledger events", "exchange", cfg.AMQPExchange)
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}
	// Closing the ledger closes the publisher and the store.
	ledger := services.NewLedgerService(result.Store, publisher, m)
	defer func() {
		if err := ledger.Close(); err != nil {
			logger.Error("Failed to close data backend", "error", err)
		}
	}()

	var limiter *ratelimit.Limiter
	if cfg.RateLimitPerMin > 0 {
		limiter, err = ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: cfg.RateLimitPerMin})
		if err != nil {
			logger.Error("Failed to initialize rate limiter", "error", err)
			os.Exit(1)
		}
	}

	srv := apphttp.NewServer(":"+cfg.Port, ledger, apphttp.Options{
		AllowedOrigin: cfg.FrontendURL,
		Logger:        logger,
		Metrics:       m,
		Limiter:       limiter,
	})

	ctx := cli.GracefulShutdown(logger, cfg.ShutdownTimeout, func(shutdownCtx context.Context) {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	})

	logger.Info("Starting ecowallet server", "port", cfg.Port, "backend", result.Type)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
