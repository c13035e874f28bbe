// Package http serves the EcoWallet REST API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"ecowallet/internal/log"
	"ecowallet/internal/metrics"
	"ecowallet/internal/middleware/ratelimit"
	"ecowallet/internal/middleware/security"
	"ecowallet/internal/store"
)

// Options configures the optional collaborators of a Server.
type Options struct {
	// AllowedOrigin is the CORS origin; empty means "*".
	AllowedOrigin string
	Logger        *log.Logger
	Metrics       *metrics.Metrics
	// Limiter throttles mutating routes when set.
	Limiter *ratelimit.Limiter
	Now     func() time.Time
}

type Server struct {
	http.Server
	store   store.Store
	logger  *log.Logger
	events  *log.StructuredLogger
	metrics *metrics.Metrics
	limiter *ratelimit.Limiter
	origin  string
	now     func() time.Time

	shutdownOnce sync.Once
}

// NewServer wires the router over st. st is usually the event-publishing
// ledger service wrapping the selected store.
func NewServer(addr string, st store.Store, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Discard()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.AllowedOrigin == "" {
		opts.AllowedOrigin = "*"
	}

	s := &Server{
		store:   st,
		logger:  opts.Logger.WithComponent(log.ComponentHTTP),
		metrics: opts.Metrics,
		limiter: opts.Limiter,
		origin:  opts.AllowedOrigin,
		now:     opts.Now,
	}
	s.events = log.NewStructuredLogger(s.logger)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(s.cors)
	r.Use(log.Middleware(s.logger))
	r.Use(s.observe)

	r.Get("/health", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(security.Headers(security.APIHeadersConfig()))
		r.Get("/health", s.handleHealth)

		r.Group(func(r chi.Router) {
			if s.limiter != nil {
				r.Use(s.limitWrites)
			}

			r.Route("/transactions", func(r chi.Router) {
				r.Get("/", s.handleListTransactions)
				r.Post("/", s.handleCreateTransaction)
				r.Patch("/{id}", s.handleUpdateTransaction)
				r.Delete("/{id}", s.handleDeleteTransaction)
			})

			r.Route("/shopping", func(r chi.Router) {
				r.Get("/", s.handleListShopping)
				r.Post("/", s.handleCreateShopping)
				// Registered before /{id} for readability; chi prefers the
				// static segment anyway.
				r.Delete("/clear-purchased", s.handleClearPurchased)
				r.Patch("/{id}", s.handleUpdateShopping)
				r.Delete("/{id}", s.handleDeleteShopping)
			})

			r.Route("/income", func(r chi.Router) {
				r.Get("/{monthId}", s.handleGetIncome)
				r.Post("/{monthId}", s.handleSetIncome)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}

// Shutdown stops the listener and the rate limiter cleanup goroutine.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.limiter != nil {
			s.limiter.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
