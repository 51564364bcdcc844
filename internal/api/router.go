package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/MikeSquared-Agency/Arranger/internal/arranger"
	"github.com/MikeSquared-Agency/Arranger/internal/config"
	"github.com/MikeSquared-Agency/Arranger/internal/metrics"
)

func NewRouter(a *arranger.Arranger, m *metrics.Metrics, cfg config.ServerConfig, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	if cfg.RateLimit > 0 {
		r.Use(RateLimitMiddleware(cfg.RateLimit))
	}
	if m != nil {
		r.Use(RouteMetrics(m))
	}

	rank := NewRankHandler(a)
	sets := NewSetsHandler(a)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/rank", rank.Rank)

		r.Post("/sets", sets.Create)
		r.Get("/sets", sets.List)
		r.Get("/sets/{id}", sets.Get)
		r.Post("/sets/{id}/tasks", sets.AddTask)
		r.Post("/sets/{id}/arrange", sets.Arrange)
		r.Post("/sets/{id}/tasks/{task_id}/complete", sets.Complete)
		r.Post("/sets/{id}/ranked/{rank}/complete", sets.CompleteRank)
		r.Get("/sets/{id}/evaluation", sets.Evaluate)
		r.Get("/stats", sets.Stats)

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(cfg.AdminToken))
			r.Delete("/sets", sets.Reset)
		})
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: false,
	})
	return c.Handler(r)
}

func NewMetricsRouter(g prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	return r
}
