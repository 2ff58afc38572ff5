// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GlowGirl Contributors

package web

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/samber/oops"

	"github.com/glowgirl/glowgirl/internal/auth"
	"github.com/glowgirl/glowgirl/internal/observability"
)

// RouterDeps holds what NewRouter wires together.
type RouterDeps struct {
	Service AuthService
	Tokens  auth.TokenVerifier

	// Metrics may be nil.
	Metrics *observability.Metrics
	// Logger defaults to slog.Default().
	Logger *slog.Logger
	// CORSOrigins defaults to allowing any origin.
	CORSOrigins []string
}

// NewRouter builds the API handler.
//
// Middleware order, outermost first:
//
//	RequestID → RealIP → Logging → Recovery → Tracing → Metrics → CORS
//
// /api/auth/me and /api/auth/logout additionally require a bearer token.
func NewRouter(deps RouterDeps) (http.Handler, error) {
	if deps.Service == nil {
		return nil, oops.Errorf("auth service is required")
	}
	if deps.Tokens == nil {
		return nil, oops.Errorf("token verifier is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	origins := deps.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	h := &handlers{service: deps.Service, metrics: deps.Metrics, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(NewLoggingMiddleware(logger))
	r.Use(NewRecoveryMiddleware(logger))
	r.Use(NewTracingMiddleware())
	r.Use(NewMetricsMiddleware(deps.Metrics))
	r.Use(NewCORSMiddleware(origins))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeErrorMessage(w, http.StatusNotFound, MsgRouteNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeErrorMessage(w, http.StatusMethodNotAllowed, MsgMethodNotAllowed)
	})

	r.Get("/api/test", health)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", h.register)
		r.Post("/login", h.login)

		r.Group(func(r chi.Router) {
			r.Use(NewBearerMiddleware(deps.Tokens))
			r.Get("/me", h.me)
			r.Post("/logout", h.logout)
		})
	})

	return r, nil
}
