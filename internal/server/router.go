package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/af-corp/scribe/internal/auth"
)

// Options configures the HTTP router.
type Options struct {
	// Keys enables Bearer-token auth on the API routes when non-nil.
	Keys *auth.StaticKeySet
	// RateLimit, when non-nil, is applied to the API routes after auth.
	RateLimit func(http.Handler) http.Handler
	// Version is reported by the health endpoint.
	Version string
}

// Routes builds the chi router for the service.
func Routes(h *Handler, opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)

	// Unauthenticated routes
	r.Get("/scribe/v1/health", healthHandler(opts.Version))

	// API routes
	r.Group(func(r chi.Router) {
		if opts.Keys != nil {
			r.Use(auth.Middleware(opts.Keys))
		}
		if opts.RateLimit != nil {
			r.Use(opts.RateLimit)
		}

		r.Post("/v1/generate", h.Generate)
		r.Post("/v1/variations", h.Variations)
		r.Post("/v1/estimate", h.Estimate)
		r.Get("/v1/templates", h.ListTemplates)
		r.Post("/v1/templates", h.RegisterTemplate)
		r.Get("/v1/templates/{name}", h.GetTemplate)
		r.Get("/v1/statistics", h.Statistics)
		r.Delete("/v1/statistics", h.ResetStatistics)
		r.Get("/v1/history", h.History)
		r.Delete("/v1/history", h.ClearHistory)
		r.Delete("/v1/cache", h.ClearCache)
	})

	return r
}

func healthHandler(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"status":  "healthy",
			"version": version,
		})
	}
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = "req_" + uuid.NewString()
		}
		w.Header().Set("X-Request-ID", reqID)
		next.ServeHTTP(w, r)
	})
}
