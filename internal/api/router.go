package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MikeSquared-Agency/Placement/internal/broker"
	"github.com/MikeSquared-Agency/Placement/internal/metrics"
	"github.com/MikeSquared-Agency/Placement/internal/store"
)

type RouterOptions struct {
	AdminToken string
	// RateLimit is the number of requests per minute per client. Zero disables limiting.
	RateLimit int
}

func NewRouter(s store.Store, b *broker.Broker, m *metrics.Metrics, opts RouterOptions, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	if opts.RateLimit > 0 {
		r.Use(RateLimitMiddleware(opts.RateLimit))
	}

	engine := NewTopsisHandler(m)
	placements := NewPlacementHandler(b)
	nodes := NewNodesHandler(s, b)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/topsis/score", engine.Score)
		r.Post("/topsis/rank", engine.Rank)
		r.Post("/topsis/explain", engine.Explain)

		r.Post("/placement/score", placements.Score)

		r.Get("/nodes", nodes.List)
		r.Get("/nodes/{name}", nodes.Get)

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(opts.AdminToken))
			r.Put("/nodes/{name}", nodes.Put)
			r.Delete("/nodes/{name}", nodes.Delete)
			r.Post("/nodes/{name}/cordon", nodes.Cordon)
			r.Post("/nodes/{name}/uncordon", nodes.Uncordon)
		})
	})

	return r
}

// NewMetricsRouter serves health and the metrics gathered by g.
func NewMetricsRouter(g prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	return r
}
