package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"ecowallet/internal/backend"
	"ecowallet/internal/cache"
	"ecowallet/internal/cli"
	"ecowallet/internal/client"
	"ecowallet/internal/commands"
	"ecowallet/internal/log"
	"ecowallet/internal/metrics"
	"ecowallet/internal/session"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg := cli.LoadConfig()

	// The CLI only reports problems; normal output goes to stdout.
	level := cfg.LogLevel
	if os.Getenv("LOG_LEVEL") == "" {
		level = "warn"
	}
	logger := log.New(log.Config{
		Level:     log.ParseLevel(level),
		Format:    cfg.LogFormat,
		Component: log.ComponentCLI,
		Output:    os.Stderr,
	})

	if err := cfg.ValidateClient(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := cache.OpenSQLite(cfg.CachePath, logger.WithComponent(log.ComponentCache).Logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "opening cache: %v\n", err)
		return 1
	}
	defer store.Close()

	sess, err := session.Load(cfg.SessionPath, store)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading session: %v\n", err)
		return 1
	}

	baseURL := cfg.APIURL
	if os.Getenv("ECOWALLET_API_URL") == "" && sess.ServerURL() != "" {
		baseURL = sess.ServerURL()
	}

	reads := metrics.NewClient()
	opts := []client.Option{
		client.WithMetrics(reads),
		client.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		client.WithCache(store),
		client.WithLogger(logger.WithComponent(log.ComponentClient).Logger),
		client.WithUserSource(sess),
	}

	// A direct store lets "shop clear" finish when the API is down.
	if cfg.DirectBackend != "" {
		backendCfg, err := backend.DirectFromAppConfig(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		result, err := backend.NewFactory(logger.WithComponent(log.ComponentBackend).Logger).CreateBackend(ctx, backendCfg)
		if err != nil {
			logger.Warn("Direct store unavailable", "backend", cfg.DirectBackend, "error", err)
		} else {
			defer result.Cleanup()
			opts = append(opts, client.WithPurchasedCleaner(result.Store))
		}
	}

	app := &commands.App{
		Client:  client.New(baseURL, opts...),
		Session: sess,
	}
	err = commands.NewRootCommand(app).ExecuteContext(ctx)
	if n := reads.CacheFallbacks(); n > 0 {
		logger.Debug("Reads served without the network", "count", n)
	}
	if err != nil {
		return 1
	}
	return 0
}
