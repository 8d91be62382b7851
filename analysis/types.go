/*
Package analysis builds the industry dashboard from historical workforce records.

PURPOSE:
  Turns per-industry yearly records (intern intake, conversion, attrition,
  growth) into normalized talent supply/demand scores, a workforce risk
  score, a hiring-surge outlook and the SimulationContext the what-if
  engine runs against.

PIPELINE (model.go):
  1. Forecast future years per industry (forecast.go)
  2. Raw signals: supply = intake * conversion, demand = growth + attrition * 1.5
  3. Per-industry P5/P95 bounds over history + forecast
  4. Scores clipped to the window, scaled to 0-100, then held to [10,90]
  5. Demand trend = year-over-year change in demand score
  6. Risk = max(core, dynamic baseline), clamped to [0,100]

KEY TYPES:
  Record:    One industry/year observation (input)
  Row:       A Record with its derived scores
  Model:     All rows plus normalization bounds, immutable once built
  Dashboard: The industry view served to clients (dashboard.go)

SEE ALSO:
  - simulation/engine.go: the what-if engine fed by Dashboard.SimulationContext
  - company/company.go: company-level view derived from Rows
*/
package analysis

import "context"

// =============================================================================
// INPUT RECORDS
// =============================================================================

// Record is a single industry/year observation.
type Record struct {
	Industry       string
	Year           int
	InternsIntake  float64
	ConversionRate float64
	AttritionRate  float64
	GrowthRate     float64
	TopSkills      []string

	// Forecast marks rows projected by the model rather than observed.
	Forecast bool
}

// Source supplies records and company catalogs to the model.
// Implemented by store/sqlite.Store and analysis/store.Memory.
type Source interface {
	ListRecords(ctx context.Context) ([]Record, error)
	ListCompanies(ctx context.Context, industry string) ([]string, error)
}

// =============================================================================
// DERIVED ROWS
// =============================================================================

// Row is a record with its derived scores.
type Row struct {
	Record

	RawSupply   float64
	RawDemand   float64
	SupplyScore float64
	DemandScore float64
	DemandTrend float64
	RiskScore   float64
}

// Gap is demand minus supply score.
func (r Row) Gap() float64 {
	return r.DemandScore - r.SupplyScore
}

// Bounds is the P5/P95 normalization window of an industry.
type Bounds struct {
	SupplyP5  float64
	SupplyP95 float64
	DemandP5  float64
	DemandP95 float64
}

// Options controls model construction.
type Options struct {
	// ForecastYear is the planning year that receives a hiring-surge outlook.
	ForecastYear int

	// FutureYears are projected for every industry that lacks them.
	FutureYears []int
}

// DefaultOptions returns the options of the reference deployment.
func DefaultOptions() Options {
	return Options{
		ForecastYear: 2026,
		FutureYears:  []int{2027, 2028, 2029},
	}
}
