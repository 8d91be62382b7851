/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Domain types that are
  already published as-is (analysis.Dashboard, company.Comparison,
  simulation.Result) are embedded rather than copied.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/warp/workforce-engine/analysis"
	"github.com/warp/workforce-engine/company"
	"github.com/warp/workforce-engine/dataset"
	"github.com/warp/workforce-engine/resume"
	"github.com/warp/workforce-engine/simulation"
	"github.com/warp/workforce-engine/store/sqlite"
)

// =============================================================================
// SERVICE
// =============================================================================

// HealthDTO reports service readiness.
type HealthDTO struct {
	Status       string     `json:"status"`
	Industries   int        `json:"industries"`
	ForecastYear int        `json:"forecast_year"`
	ModelBuiltAt *time.Time `json:"model_built_at,omitempty"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// INDUSTRIES AND DASHBOARDS
// =============================================================================

// IndustriesResponse lists the industries of the loaded dataset.
type IndustriesResponse struct {
	Industries   []string `json:"industries"`
	ForecastYear int      `json:"forecast_year"`
	Years        []int    `json:"years"`
}

// CompaniesResponse lists the company catalog of an industry.
type CompaniesResponse struct {
	Industry  string   `json:"industry"`
	Companies []string `json:"companies"`
}

// JobsResponse lists the job catalog of an industry.
type JobsResponse struct {
	Industry string       `json:"industry"`
	Jobs     []resume.Job `json:"jobs"`
}

// DashboardResponse is an industry dashboard with its company summaries.
type DashboardResponse struct {
	*analysis.Dashboard
	CompanyMetrics []company.Summary `json:"Company_Metrics"`
}

// CompareResponse is the result of a company comparison.
type CompareResponse struct {
	Industry  string               `json:"industry"`
	Year      int                  `json:"year"`
	Companies []company.Comparison `json:"companies"`
}

// =============================================================================
// SIMULATION
// =============================================================================

// SimulateRequest runs the engine either for a stored industry/year or
// for an explicit context. When Context is set, Industry and Year are
// only recorded and Baseline (optional) drives the comparison.
type SimulateRequest struct {
	Industry string                      `json:"industry"`
	Year     int                         `json:"year"`
	Deltas   simulation.DeltaSet         `json:"deltas"`
	Context  *simulation.Context         `json:"context,omitempty"`
	Baseline *simulation.BaselineMetrics `json:"baseline,omitempty"`
}

// SimulateResponse carries the result and its comparison to the baseline.
type SimulateResponse struct {
	RunID       int64                   `json:"run_id,omitempty"`
	Industry    string                  `json:"industry"`
	Year        int                     `json:"year"`
	Deltas      simulation.DeltaSet     `json:"deltas"`
	Result      simulation.Result       `json:"result"`
	Comparison  *simulation.Comparison  `json:"comparison,omitempty"`
	OutOfBounds []simulation.DeltaField `json:"out_of_bounds,omitempty"`
}

// SweepRequest walks one delta across a range.
type SweepRequest struct {
	Industry string              `json:"industry"`
	Year     int                 `json:"year"`
	Context  *simulation.Context `json:"context,omitempty"`
	Deltas   simulation.DeltaSet `json:"deltas"`
	Field    string              `json:"field"`
	From     float64             `json:"from"`
	To       float64             `json:"to"`
	Step     float64             `json:"step"`
}

// SweepResponse is the sensitivity series of a sweep.
type SweepResponse struct {
	Industry string                  `json:"industry"`
	Year     int                     `json:"year"`
	Field    simulation.DeltaField   `json:"field"`
	Points   []simulation.SweepPoint `json:"points"`
}

// SimulationRunDTO is a recorded what-if run.
type SimulationRunDTO struct {
	ID        int64               `json:"id"`
	Industry  string              `json:"industry"`
	Year      int                 `json:"year"`
	Deltas    simulation.DeltaSet `json:"deltas"`
	Result    simulation.Result   `json:"result"`
	CreatedAt time.Time           `json:"created_at"`
}

func toRunDTO(r sqlite.SimulationRun) SimulationRunDTO {
	return SimulationRunDTO{
		ID:        r.ID,
		Industry:  r.Industry,
		Year:      r.Year,
		Deltas:    r.Deltas,
		Result:    r.Result,
		CreatedAt: r.CreatedAt,
	}
}

// =============================================================================
// RESUME
// =============================================================================

// AnalyzeResumeRequest scores resume text against a job. Year defaults to
// the forecast year.
type AnalyzeResumeRequest struct {
	Industry string `json:"industry"`
	JobTitle string `json:"job_title"`
	Company  string `json:"company,omitempty"`
	Year     int    `json:"year,omitempty"`
	Text     string `json:"text"`
}

// AnalyzeResumeResponse is the analysis with the selection it was made for.
type AnalyzeResumeResponse struct {
	Industry string `json:"industry"`
	JobTitle string `json:"job_title"`
	Company  string `json:"company,omitempty"`
	Year     int    `json:"year"`
	*resume.Analysis
}

// =============================================================================
// DATASETS
// =============================================================================

// DatasetLoadDTO describes the currently loaded dataset.
type DatasetLoadDTO struct {
	Name        string    `json:"name"`
	RecordCount int       `json:"record_count"`
	LoadedAt    time.Time `json:"loaded_at"`
}

// DatasetsResponse lists demo datasets and the current one.
type DatasetsResponse struct {
	Demos   []dataset.Demo  `json:"demos"`
	Current *DatasetLoadDTO `json:"current"`
}

// LoadDatasetRequest loads either a built-in demo or an inline document.
type LoadDatasetRequest struct {
	Demo     string            `json:"demo,omitempty"`
	Name     string            `json:"name,omitempty"`
	Document *dataset.Document `json:"document,omitempty"`
}

// LoadDatasetResponse reports a completed load.
type LoadDatasetResponse struct {
	Name       string   `json:"name"`
	Records    int      `json:"records"`
	Industries []string `json:"industries"`
}
