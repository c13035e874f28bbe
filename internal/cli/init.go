// Package cli provides the start-up steps shared by the ecowallet binaries.
package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"ecowallet/internal/config"
	"ecowallet/internal/log"
)

// LoadConfig loads the .env file for local development, ignoring a missing
// one, and reads the configuration from the environment.
func LoadConfig() *config.Config {
	_ = godotenv.Load()
	return config.Load()
}

// SetupLogger builds the logger described by cfg for component and makes it
// the process default.
func SetupLogger(cfg *config.Config, component string, out io.Writer) *log.Logger {
	logger := log.New(log.Config{
		Level:     log.ParseLevel(cfg.LogLevel),
		Format:    cfg.LogFormat,
		Component: component,
		Output:    out,
	})
	log.SetDefault(logger)
	return logger
}

// MustValidate exits the process when err is not nil.
func MustValidate(logger *log.Logger, err error) {
	if err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
}

// GracefulShutdown sets up signal handling for graceful shutdown.
// The returned context is cancelled once cleanup has run, or after timeout
// if cleanup hangs.
func GracefulShutdown(logger *log.Logger, timeout time.Duration, cleanup func(context.Context)) context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		defer cancel()
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		done := make(chan struct{})
		go func() {
			if cleanup != nil {
				cleanup(shutdownCtx)
			}
			close(done)
		}()

		select {
		case <-done:
			logger.Info("Shutdown complete")
		case <-shutdownCtx.Done():
			logger.Warn("Shutdown timeout reached")
		}
	}()

	return ctx
}
