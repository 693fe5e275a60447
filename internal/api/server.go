// Copyright (c) 2026 Fruvia. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/fruvia/internal/core/cart"
	"github.com/taibuivan/fruvia/internal/core/catalog"
	"github.com/taibuivan/fruvia/internal/core/contact"
	"github.com/taibuivan/fruvia/internal/core/content"
	"github.com/taibuivan/fruvia/internal/core/feedback"
	"github.com/taibuivan/fruvia/internal/core/order"
	"github.com/taibuivan/fruvia/internal/platform/config"
	"github.com/taibuivan/fruvia/internal/platform/constants"
	"github.com/taibuivan/fruvia/internal/platform/middleware"
	"github.com/taibuivan/fruvia/internal/platform/sec"
	"github.com/taibuivan/fruvia/internal/users/account"
	"github.com/taibuivan/fruvia/internal/users/auth"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
//
// # Usage
//
// New domains add a field here — no other change to server.go is required.
type Handlers struct {
	// Liveness is the /health handler — always returns 200 if process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler — returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth handles authentication routes (register, login, refresh, logout).
	Auth *auth.Handler

	// Account handles self-service profiles and admin customer management.
	Account *account.Handler

	// Catalog handles product discovery and inventory management.
	Catalog *catalog.Handler

	// Cart handles the authenticated user's shopping cart.
	Cart *cart.Handler

	// Order handles checkout and the order lifecycle.
	Order *order.Handler

	// Feedback handles customer submissions and staff responses.
	Feedback *feedback.Handler

	// Content handles health tips and about-page material.
	Content *content.Handler

	// Contact handles the shop contact record.
	Contact *contact.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(
	context context.Context,
	cfg *config.Config,
	log *slog.Logger,
	verifier middleware.TokenVerifier,
	denylist middleware.TokenDenylist,
	h Handlers,
) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.Authenticate(verifier, denylist))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	// Domain-specific route groups mounted under versioned prefix.
	r.Route("/api/v1", func(api chi.Router) {
		// Public surface. Catalog and content read endpoints work without a
		// token; their embedded admin groups enforce roles themselves.
		api.Mount("/auth", h.Auth.Routes())
		api.Route("/products", h.Catalog.RegisterRoutes)
		api.Mount("/content", h.Content.Routes())
		api.Mount("/contact", h.Contact.Routes())

		// Authenticated customer surface.
		api.Group(func(private chi.Router) {
			private.Use(middleware.RequireAuth)

			private.Mount("/account", h.Account.Routes())
			private.Mount("/cart", h.Cart.Routes())
			private.Mount("/orders", h.Order.Routes())
			private.Mount("/feedback", h.Feedback.Routes())
		})

		// Staff surface.
		api.Route("/admin", func(admin chi.Router) {
			admin.Use(middleware.RequireRole(sec.RoleAdmin))

			admin.Mount("/customers", h.Account.AdminRoutes())
			admin.Mount("/orders", h.Order.AdminRoutes())
			admin.Mount("/feedback", h.Feedback.AdminRoutes())
			admin.Mount("/content", h.Content.AdminRoutes())
			admin.Mount("/contact", h.Contact.AdminRoutes())
		})
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
