package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig holds the HTTP concerns that are not part of a handler.
type RouterConfig struct {
	AllowedOrigins     []string
	RateLimitPerSecond int
	RateLimitBurst     int
	RequestTimeout     time.Duration
}

// NewRouter mounts every endpoint of the game API.
func NewRouter(h *Handler, cfg RouterConfig) *chi.Mux {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", promhttp.Handler())

	limiter := NewIPRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/game", h.GetGame)
		r.Get("/game/stats", h.GetDayStats)
		r.Get("/players", h.SearchPlayers)

		r.Group(func(r chi.Router) {
			r.Use(h.RateLimit(limiter))
			r.Post("/guess", h.SubmitGuess)
			r.Post("/report", h.SubmitReport)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		h.errorResponse(w, http.StatusNotFound, "Not found")
	})
	return r
}
