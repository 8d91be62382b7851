/*
handlers.go - HTTP API handlers for the workforce engine

PURPOSE:
  Exposes the industry dashboards, company comparison, what-if simulator
  and dataset management via REST API. Handles HTTP request/response and
  JSON serialization, and delegates to the domain packages.

ENDPOINTS:
  Service:
    GET    /api/health                              Readiness and model state

  Industries:
    GET    /api/industries                          Industries and years
    GET    /api/industries/{industry}/companies     Company catalog
    GET    /api/industries/{industry}/jobs          Job catalog
    GET    /api/dashboard/{industry}/{year}         Industry dashboard
    GET    /api/student/dashboard/{industry}/{year} Dashboard + student insights
    GET    /api/companies/compare                   ?industry=&companies=a,b&year=

  Simulation:
    POST   /api/simulate                            One what-if run (recorded)
    POST   /api/simulate/sweep                      Sensitivity over one delta
    GET    /api/simulate/bounds                     Slider ranges
    GET    /api/simulate/runs                       Recorded runs, newest first

  Resume:
    POST   /api/resume/analyze                      Score resume text against a job

  Datasets:
    GET    /api/datasets                            Demo datasets + current load
    POST   /api/datasets/load                       Load a demo or inline document
    POST   /api/datasets/reset                      Clear all data

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: Database access
  - Engine: What-if engine gated on the configured forecast year
  - Cached analysis.Model, rebuilt by Refresh (on load and by the scheduler)

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Unknown industry or year, no dataset loaded
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - datasets.go: Dataset endpoints
  - resume.go: Resume analysis
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/sirupsen/logrus"

	"github.com/warp/workforce-engine/analysis"
	"github.com/warp/workforce-engine/company"
	"github.com/warp/workforce-engine/dataset"
	"github.com/warp/workforce-engine/resume"
	"github.com/warp/workforce-engine/simulation"
	"github.com/warp/workforce-engine/store/sqlite"
)

const (
	defaultRunsLimit = 50
	maxRunsLimit     = 500
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store  *sqlite.Store
	Engine simulation.Engine

	opts analysis.Options
	log  *logrus.Entry

	mu      sync.RWMutex
	model   *analysis.Model
	builtAt time.Time
}

// NewHandler creates a new handler with the given store and model options.
// Call Refresh before serving to build the first model.
func NewHandler(store *sqlite.Store, opts analysis.Options) *Handler {
	return &Handler{
		Store:  store,
		Engine: simulation.NewEngine(opts.ForecastYear),
		opts:   opts,
		log:    logrus.WithField("component", "api"),
	}
}

// Refresh rebuilds the cached model from the store. An empty store clears
// the model.
func (h *Handler) Refresh(ctx context.Context) error {
	model, err := analysis.Load(ctx, h.Store, h.opts)
	if errors.Is(err, analysis.ErrNoRecords) {
		h.setModel(nil)
		h.log.Warn("no workforce records loaded; dashboards unavailable")
		return nil
	}
	if err != nil {
		return err
	}

	h.setModel(model)
	h.log.WithFields(logrus.Fields{
		"industries": len(model.Industries()),
		"years":      len(model.Years()),
	}).Info("analysis model rebuilt")
	return nil
}

func (h *Handler) setModel(m *analysis.Model) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.model = m
	h.builtAt = time.Now().UTC()
}

// Model returns the cached model, or ErrNoRecords when none is loaded.
func (h *Handler) Model() (*analysis.Model, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.model == nil {
		return nil, analysis.ErrNoRecords
	}
	return h.model, nil
}

// catalog returns the stored companies of an industry, falling back to
// the built-in catalog.
func (h *Handler) catalog(ctx context.Context, industry string) ([]string, error) {
	names, err := h.Store.ListCompanies(ctx, industry)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		names = company.DefaultCatalog[industry]
	}
	return names, nil
}

// jobs returns the stored jobs of an industry, falling back to the
// built-in catalog.
func (h *Handler) jobs(ctx context.Context, industry string) ([]resume.Job, error) {
	list, err := h.Store.ListJobs(ctx, industry)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		list = resume.DefaultJobs[industry]
	}
	return list, nil
}

// =============================================================================
// SERVICE ENDPOINTS
// =============================================================================

// Health reports readiness.
// GET /api/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Ping(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "Database unavailable", err)
		return
	}

	resp := HealthDTO{Status: "ok", ForecastYear: h.opts.ForecastYear}
	if model, err := h.Model(); err == nil {
		resp.Industries = len(model.Industries())
		h.mu.RLock()
		builtAt := h.builtAt
		h.mu.RUnlock()
		resp.ModelBuiltAt = &builtAt
	}
	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// INDUSTRY ENDPOINTS
// =============================================================================

// ListIndustries returns the industries and years of the loaded dataset.
// GET /api/industries
func (h *Handler) ListIndustries(w http.ResponseWriter, r *http.Request) {
	model, err := h.Model()
	if err != nil {
		writeDomainError(w, "No dataset loaded", err)
		return
	}
	writeJSON(w, http.StatusOK, IndustriesResponse{
		Industries:   model.Industries(),
		ForecastYear: model.Options().ForecastYear,
		Years:        model.Years(),
	})
}

// ListCompanies returns the company catalog of an industry.
// GET /api/industries/{industry}/companies
func (h *Handler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	industry := chi.URLParam(r, "industry")

	names, err := h.catalog(r.Context(), industry)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list companies", err)
		return
	}
	if len(names) == 0 {
		writeError(w, http.StatusNotFound, "Industry not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, CompaniesResponse{Industry: industry, Companies: names})
}

// ListJobs returns the job catalog of an industry.
// GET /api/industries/{industry}/jobs
func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
	industry := chi.URLParam(r, "industry")

	list, err := h.jobs(r.Context(), industry)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list jobs", err)
		return
	}
	if len(list) == 0 {
		writeError(w, http.StatusNotFound, "Industry not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, JobsResponse{Industry: industry, Jobs: list})
}

// GetDashboard returns the industry dashboard for a year.
// GET /api/dashboard/{industry}/{year}
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	h.serveDashboard(w, r, false)
}

// GetStudentDashboard returns the dashboard with student insights.
// GET /api/student/dashboard/{industry}/{year}
func (h *Handler) GetStudentDashboard(w http.ResponseWriter, r *http.Request) {
	h.serveDashboard(w, r, true)
}

func (h *Handler) serveDashboard(w http.ResponseWriter, r *http.Request, student bool) {
	industry := chi.URLParam(r, "industry")
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return
	}

	model, err := h.Model()
	if err != nil {
		writeDomainError(w, "No dataset loaded", err)
		return
	}

	var dash *analysis.Dashboard
	if student {
		dash, err = model.StudentDashboard(industry, year)
	} else {
		dash, err = model.Dashboard(industry, year)
	}
	if err != nil {
		writeDomainError(w, "Dashboard unavailable", err)
		return
	}

	resp := DashboardResponse{Dashboard: dash, CompanyMetrics: []company.Summary{}}
	names, err := h.catalog(r.Context(), industry)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list companies", err)
		return
	}
	if len(names) > 0 {
		summaries, err := company.Summaries(model, industry, names, year)
		if err != nil {
			writeDomainError(w, "Company metrics unavailable", err)
			return
		}
		resp.CompanyMetrics = summaries
	}

	writeJSON(w, http.StatusOK, resp)
}

// CompareCompanies compares selected companies of an industry.
// GET /api/companies/compare?industry=IT&companies=MetaSystems,NexTech&year=2026
func (h *Handler) CompareCompanies(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	industry := q.Get("industry")
	if industry == "" {
		writeError(w, http.StatusBadRequest, "industry is required", nil)
		return
	}
	var selected []string
	for _, name := range strings.Split(q.Get("companies"), ",") {
		if name = strings.TrimSpace(name); name != "" {
			selected = append(selected, name)
		}
	}
	if len(selected) == 0 {
		writeError(w, http.StatusBadRequest, "companies is required", nil)
		return
	}
	year, err := strconv.Atoi(q.Get("year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return
	}

	model, err := h.Model()
	if err != nil {
		writeDomainError(w, "No dataset loaded", err)
		return
	}
	names, err := h.catalog(r.Context(), industry)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list companies", err)
		return
	}

	results, err := company.Compare(model, industry, names, selected, year)
	if err != nil {
		writeDomainError(w, "Comparison failed", err)
		return
	}
	writeJSON(w, http.StatusOK, CompareResponse{Industry: industry, Year: year, Companies: results})
}

// =============================================================================
// SIMULATION ENDPOINTS
// =============================================================================

// Simulate runs the engine once and records the run.
// POST /api/simulate
func (h *Handler) Simulate(w http.ResponseWriter, r *http.Request) {
	var req SimulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	simCtx, baseline, err := h.resolveContext(req.Industry, req.Year, req.Context)
	if err != nil {
		writeDomainError(w, "Simulation context unavailable", err)
		return
	}
	if req.Baseline != nil {
		baseline = req.Baseline
	}
	if err := simulation.ValidateContext(simCtx); err != nil {
		writeDomainError(w, "Invalid simulation context", err)
		return
	}
	if err := simulation.ValidateDeltas(req.Deltas); err != nil {
		writeDomainError(w, "Invalid deltas", err)
		return
	}

	result := h.Engine.Compute(simCtx, req.Deltas, req.Year)

	resp := SimulateResponse{
		Industry:    req.Industry,
		Year:        req.Year,
		Deltas:      req.Deltas,
		Result:      result,
		OutOfBounds: simulation.OutOfBounds(req.Deltas),
	}
	if baseline != nil {
		cmp := simulation.Compare(result, *baseline, req.Deltas)
		resp.Comparison = &cmp
	}

	runID, err := h.Store.SaveSimulationRun(r.Context(), sqlite.SimulationRun{
		Industry: req.Industry,
		Year:     req.Year,
		Deltas:   req.Deltas,
		Result:   result,
	})
	if err != nil {
		h.log.WithError(err).Warn("failed to record simulation run")
	} else {
		resp.RunID = runID
	}

	writeJSON(w, http.StatusOK, resp)
}

// Sweep walks one delta across a range and returns the result series.
// POST /api/simulate/sweep
func (h *Handler) Sweep(w http.ResponseWriter, r *http.Request) {
	var req SweepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	simCtx, _, err := h.resolveContext(req.Industry, req.Year, req.Context)
	if err != nil {
		writeDomainError(w, "Simulation context unavailable", err)
		return
	}
	if err := simulation.ValidateContext(simCtx); err != nil {
		writeDomainError(w, "Invalid simulation context", err)
		return
	}
	if err := simulation.ValidateDeltas(req.Deltas); err != nil {
		writeDomainError(w, "Invalid deltas", err)
		return
	}

	field := simulation.DeltaField(req.Field)
	points, err := simulation.Sweep(h.Engine, simCtx, req.Deltas, req.Year, field, req.From, req.To, req.Step)
	if err != nil {
		writeDomainError(w, "Sweep failed", err)
		return
	}

	writeJSON(w, http.StatusOK, SweepResponse{
		Industry: req.Industry,
		Year:     req.Year,
		Field:    field,
		Points:   points,
	})
}

// GetDeltaBounds returns the slider ranges of each delta.
// GET /api/simulate/bounds
func (h *Handler) GetDeltaBounds(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, simulation.DeltaBounds)
}

// ListSimulationRuns returns recorded runs, newest first.
// GET /api/simulate/runs?industry=IT&limit=20
func (h *Handler) ListSimulationRuns(w http.ResponseWriter, r *http.Request) {
	limit := defaultRunsLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "Invalid limit", err)
			return
		}
		limit = min(n, maxRunsLimit)
	}

	runs, err := h.Store.ListSimulationRuns(r.Context(), r.URL.Query().Get("industry"), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list simulation runs", err)
		return
	}

	dtos := make([]SimulationRunDTO, len(runs))
	for i, run := range runs {
		dtos[i] = toRunDTO(run)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// resolveContext returns the explicit context when given, otherwise the
// dashboard context and baseline of industry/year.
func (h *Handler) resolveContext(industry string, year int, explicit *simulation.Context) (simulation.Context, *simulation.BaselineMetrics, error) {
	if explicit != nil {
		return *explicit, nil, nil
	}
	if industry == "" || year == 0 {
		return simulation.Context{}, nil, errMissingSelection
	}

	model, err := h.Model()
	if err != nil {
		return simulation.Context{}, nil, err
	}
	dash, err := model.Dashboard(industry, year)
	if err != nil {
		return simulation.Context{}, nil, err
	}
	baseline := dash.Metrics.BaselineMetrics()
	return dash.SimulationContext, &baseline, nil
}

// =============================================================================
// HELPERS
// =============================================================================

var errMissingSelection = errors.New("industry and year are required when no context is given")

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps domain errors onto HTTP status codes.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	switch {
	case analysis.IsNotFound(err), errors.Is(err, resume.ErrJobNotFound):
		writeError(w, http.StatusNotFound, message, err)
	case simulation.IsClientError(err),
		errors.Is(err, errMissingSelection),
		errors.Is(err, dataset.ErrInvalidDataset),
		errors.Is(err, dataset.ErrUnknownDemo),
		errors.Is(err, resume.ErrEmptyResume):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}
