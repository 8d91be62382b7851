/*
Package simulation provides the workforce risk simulation engine.

PURPOSE:
  Converts baseline workforce parameters for one industry/year plus four
  user-chosen percentage adjustments into normalized supply and demand
  scores, a composite risk index, a risk category and, for the forecast
  year only, a hiring-surge window.

KEY CONCEPTS IN THIS FILE (types.go):
  - Baseline: unmodified reference values for an industry/year
  - Context: baseline plus the P5/P95 normalization window and demand trend
  - DeltaSet: four signed percentage adjustments
  - Result: the computed scores, never mutated after creation
  - BaselineMetrics: precomputed dashboard scores used for comparison only

DESIGN PRINCIPLES:
  1. Purity: Compute has no side effects and no shared state
  2. Totality: every finite input yields a Result
  3. Values: all types are plain structs passed by value

SEE ALSO:
  - engine.go: Compute and Normalize
  - validate.go: Input checks applied before Compute
  - compare.go: Result vs BaselineMetrics
*/
package simulation

// =============================================================================
// INPUTS
// =============================================================================

// Baseline holds the unmodified industry/year values before any delta.
type Baseline struct {
	InternshipIntake float64 `json:"Internship_Intake" yaml:"internship_intake"`
	ConversionRate   float64 `json:"Conversion_Rate" yaml:"conversion_rate"`
	AttritionRate    float64 `json:"Attrition_Rate" yaml:"attrition_rate"`
	GrowthRate       float64 `json:"Growth_Rate" yaml:"growth_rate"`
}

// Context is supplied per industry/year and held read-only while that
// selection is active.
type Context struct {
	SupplyP5    float64  `json:"Supply_P5"`
	SupplyP95   float64  `json:"Supply_P95"`
	DemandP5    float64  `json:"Demand_P5"`
	DemandP95   float64  `json:"Demand_P95"`
	DemandTrend float64  `json:"Demand_Trend"`
	Baseline    Baseline `json:"Baseline"`
}

// DeltaSet is a set of percentage adjustments, each applied as (1 + d/100).
type DeltaSet struct {
	InternshipDelta float64 `json:"internship_delta"`
	ConversionDelta float64 `json:"conversion_delta"`
	AttritionDelta  float64 `json:"attrition_delta"`
	GrowthDelta     float64 `json:"growth_delta"`
}

// IsZero reports whether no adjustment is applied.
func (d DeltaSet) IsZero() bool {
	return d == DeltaSet{}
}

// =============================================================================
// OUTPUTS
// =============================================================================

type RiskLevel string

const (
	LowRisk    RiskLevel = "Low Risk"
	MediumRisk RiskLevel = "Medium Risk"
	HighRisk   RiskLevel = "High Risk"
)

type SurgeWindow string

const (
	OneToThreeMonths  SurgeWindow = "1-3 Months"
	FourToSixMonths   SurgeWindow = "4-6 Months"
	SixToTwelveMonths SurgeWindow = "6-12 Months"
)

// Result is the outcome of one simulation run.
type Result struct {
	Supply    float64   `json:"supply"`
	Demand    float64   `json:"demand"`
	Risk      float64   `json:"risk"`
	RiskLevel RiskLevel `json:"risk_level"`

	// HiringSurgeWindow is nil unless the run targeted the forecast year.
	HiringSurgeWindow *SurgeWindow `json:"hiring_surge_window"`

	// Raw signals before normalization
	RawSupply float64 `json:"raw_supply"`
	RawDemand float64 `json:"raw_demand"`

	// HPI is the hiring pressure index; zero when no window was computed.
	HPI float64 `json:"hpi,omitempty"`
}

// HasSurgeWindow reports whether a hiring-surge window was computed.
func (r Result) HasSurgeWindow() bool {
	return r.HiringSurgeWindow != nil
}

// BaselineMetrics are the remote service's own scores for the industry/year.
// They are a reference point for display and never feed into Compute.
type BaselineMetrics struct {
	WorkforceRiskScore float64 `json:"Workforce_Risk_Score"`
	TalentSupplyScore  float64 `json:"Talent_Supply_Score"`
	TalentDemandScore  float64 `json:"Talent_Demand_Score"`
}
