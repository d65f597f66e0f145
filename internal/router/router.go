package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"modreview-dashboard/internal/handlers"
	"modreview-dashboard/internal/middleware"
)

// DefaultExportRateLimit applies when Options leaves the export limit unset.
const DefaultExportRateLimit = 30

type Options struct {
	// QueryTimeout bounds each API request, store reads included.
	QueryTimeout time.Duration
	// ExportRateLimit is the number of CSV exports per client per minute.
	ExportRateLimit int
}

func New(dashboardHandler *handlers.DashboardHandler, opts Options) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(chimiddleware.Recoverer)

	exportLimit := opts.ExportRateLimit
	if exportLimit < 1 {
		exportLimit = DefaultExportRateLimit
	}

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if opts.QueryTimeout > 0 {
			r.Use(chimiddleware.Timeout(opts.QueryTimeout))
		}

		// ──── Selection Routes ────
		r.Get("/users", dashboardHandler.Users)
		r.Get("/users/{username}/sessions", dashboardHandler.Sessions)

		// ──── Dashboard Routes ────
		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/", dashboardHandler.Dashboard)
			r.With(middleware.RateLimitByIP(exportLimit, time.Minute)).Get("/export.csv", dashboardHandler.Export)
		})
	})

	return r
}
