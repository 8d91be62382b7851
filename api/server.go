/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests from the configured dashboard origins

ROUTE GROUPS:
  /api/health           Readiness
  /api/industries/*     Industry and company catalog
  /api/dashboard/*      Industry dashboards
  /api/student/*        Student dashboards
  /api/companies/*      Company comparison
  /api/simulate/*       What-if simulator
  /api/resume/*         Resume scoring
  /api/datasets/*       Dataset management (dev/demo)

SECURITY NOTE:
  No authentication middleware. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)

		r.Route("/industries", func(r chi.Router) {
			r.Get("/", h.ListIndustries)
			r.Get("/{industry}/companies", h.ListCompanies)
			r.Get("/{industry}/jobs", h.ListJobs)
		})

		r.Get("/dashboard/{industry}/{year}", h.GetDashboard)
		r.Get("/student/dashboard/{industry}/{year}", h.GetStudentDashboard)
		r.Get("/companies/compare", h.CompareCompanies)

		r.Route("/simulate", func(r chi.Router) {
			r.Post("/", h.Simulate)
			r.Post("/sweep", h.Sweep)
			r.Get("/bounds", h.GetDeltaBounds)
			r.Get("/runs", h.ListSimulationRuns)
		})

		r.Post("/resume/analyze", h.AnalyzeResume)

		r.Route("/datasets", func(r chi.Router) {
			r.Get("/", h.ListDatasets)
			r.Post("/load", h.LoadDataset)
			r.Post("/reset", h.ResetDataset)
		})
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Workforce Engine</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Workforce Engine API</h1>
<ul>
<li><a href="/api/industries">/api/industries</a> - Industries and years</li>
<li><a href="/api/industries/IT/jobs">/api/industries/IT/jobs</a> - Entry-level roles for resume scoring</li>
<li><a href="/api/simulate/bounds">/api/simulate/bounds</a> - Simulator slider ranges</li>
<li><a href="/api/datasets">/api/datasets</a> - Demo datasets</li>
</ul>
</body>
</html>`))
	})

	return r
}
