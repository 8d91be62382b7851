/*
engine.go - Workforce risk computation

PURPOSE:
  Implements Compute: baseline + deltas -> scores, risk and surge window.

ALGORITHM:
  1. Apply each delta multiplicatively to its baseline field
  2. rawSupply = interns * conversion
     rawDemand = growth + attrition * 1.5
  3. Normalize both against the P5/P95 window (clamped, 0-100)
  4. coreRisk     = (demand - supply) + attrition * 15
     baselineRisk = 15 + attrition * 10 + trend * 0.5
     risk         = clamp(max(baselineRisk, coreRisk), 0, 100)
  5. Classify: >=70 high, >=40 medium, else low
  6. Forecast year only:
     hpi = (demand - supply) + attrition * 20 + trend * 0.8
     >60 -> 1-3 months, >30 -> 4-6 months, else 6-12 months

  baselineRisk is a structural floor: a scenario cannot report less risk
  than attrition and market trend alone imply. The attrition weights
  (15, 10, 20) differ per formula and must stay as they are.

CONCURRENCY:
  Engine is a value with no mutable state. Compute may be called from any
  number of goroutines.
*/
package simulation

import "math"

// DefaultForecastYear is the near-term planning year for which a
// hiring-surge window is produced.
const DefaultForecastYear = 2026

// Risk classification thresholds.
const (
	HighRiskThreshold   = 70.0
	MediumRiskThreshold = 40.0
)

// Hiring pressure thresholds.
const (
	ImmediateSurgeHPI = 60.0
	NearTermSurgeHPI  = 30.0
)

const (
	demandAttritionWeight   = 1.5
	coreAttritionWeight     = 15.0
	baselineRiskFloor       = 15.0
	baselineAttritionWeight = 10.0
	baselineTrendWeight     = 0.5
	hpiAttritionWeight      = 20.0
	hpiTrendWeight          = 0.8
)

// Engine computes simulation results. The zero value is not useful; use
// NewEngine or set ForecastYear explicitly.
type Engine struct {
	ForecastYear int
}

// NewEngine returns an engine gated on the given forecast year.
func NewEngine(forecastYear int) Engine {
	return Engine{ForecastYear: forecastYear}
}

// Compute runs the simulation with DefaultForecastYear.
func Compute(ctx Context, deltas DeltaSet, year int) Result {
	return NewEngine(DefaultForecastYear).Compute(ctx, deltas, year)
}

// Compute applies deltas to the context baseline and derives the result.
func (e Engine) Compute(ctx Context, deltas DeltaSet, year int) Result {
	b := ctx.Baseline
	interns := b.InternshipIntake * factor(deltas.InternshipDelta)
	conversion := b.ConversionRate * factor(deltas.ConversionDelta)
	attrition := b.AttritionRate * factor(deltas.AttritionDelta)
	growth := b.GrowthRate * factor(deltas.GrowthDelta)

	rawSupply := interns * conversion
	rawDemand := growth + attrition*demandAttritionWeight

	supply := Normalize(rawSupply, ctx.SupplyP5, ctx.SupplyP95)
	demand := Normalize(rawDemand, ctx.DemandP5, ctx.DemandP95)

	coreRisk := (demand - supply) + attrition*coreAttritionWeight
	baselineRisk := baselineRiskFloor + attrition*baselineAttritionWeight + ctx.DemandTrend*baselineTrendWeight
	risk := clamp(math.Max(baselineRisk, coreRisk), 0, 100)

	result := Result{
		Supply:    supply,
		Demand:    demand,
		Risk:      risk,
		RiskLevel: ClassifyRisk(risk),
		RawSupply: rawSupply,
		RawDemand: rawDemand,
	}

	if year == e.ForecastYear {
		hpi := (demand - supply) + attrition*hpiAttritionWeight + ctx.DemandTrend*hpiTrendWeight
		window := SurgeWindowFor(hpi)
		result.HPI = hpi
		result.HiringSurgeWindow = &window
	}

	return result
}

// Normalize min-max scales v into [0,100] against [p5,p95], clamping v to
// the window first. A zero-width (or inverted) window yields 0.
func Normalize(v, p5, p95 float64) float64 {
	if !(p95 > p5) {
		return 0
	}
	return (clamp(v, p5, p95) - p5) / (p95 - p5) * 100
}

// ClassifyRisk maps a risk score to its level.
func ClassifyRisk(risk float64) RiskLevel {
	switch {
	case risk >= HighRiskThreshold:
		return HighRisk
	case risk >= MediumRiskThreshold:
		return MediumRisk
	default:
		return LowRisk
	}
}

// SurgeWindowFor maps a hiring pressure index to a surge window.
func SurgeWindowFor(hpi float64) SurgeWindow {
	switch {
	case hpi > ImmediateSurgeHPI:
		return OneToThreeMonths
	case hpi > NearTermSurgeHPI:
		return FourToSixMonths
	default:
		return SixToTwelveMonths
	}
}

func factor(delta float64) float64 {
	return 1 + delta/100
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
