/*
company.go - Company-level workforce comparison

PURPOSE:
  Breaks an industry/year row down into per-company metrics and compares a
  selection of companies against their industry peers.

DERIVATION:
  Company drivers are derived from the published industry metrics with
  stable per-company factors, seeded by the company name and year:

    intake     = industry intake * scale           scale  in [0.8, 1.2]
    growth     = industry growth * bias            bias   in [0.7, 1.3]
    attrition  = industry attrition +/- 0.025      held to [0.02, 0.35]
    conversion = industry conversion +/- 0.02      held to [0.40, 0.95]

  The same company always derives the same numbers for the same year.

SCORING:
  Supply and demand are normalized against the P5/P95 window of every
  company in the industry (not only the selected ones) and held to [10,90].

SEE ALSO:
  - analysis/model.go: the industry-level version of the same scoring
*/
package company

import (
	"math"
	"math/rand"

	"github.com/warp/workforce-engine/analysis"
	"github.com/warp/workforce-engine/simulation"
)

// =============================================================================
// CATALOG
// =============================================================================

// DefaultCatalog lists the companies tracked per industry when a dataset
// does not bring its own.
var DefaultCatalog = map[string][]string{
	"IT":            {"MetaSystems", "CyberCloud", "DataPulse", "NexTech", "CloudCore"},
	"Healthcare":    {"BioHealth", "MediLife", "NanoCare", "PulseMedical", "LifeStream"},
	"Manufacturing": {"SteelForge", "AutoMaker", "IndustrialX", "GlobalFab", "PrecisionParts"},
	"EV":            {"VoltMotors", "ChargePoint", "EcoDrive", "LithiumIon", "SparkEV"},
	"Finance":       {"WealthWise", "SecureBank", "FinFlow", "CapitalOne", "TradeMaster"},
}

// =============================================================================
// TYPES
// =============================================================================

// Drivers are the derived raw workforce drivers of one company.
type Drivers struct {
	Supply           float64 `json:"Supply"`
	Demand           float64 `json:"Demand"`
	InternshipIntake float64 `json:"Internship_Intake"`
	ConversionRate   float64 `json:"Conversion_Rate"`
	AttritionRate    float64 `json:"Attrition_Rate"`
	GrowthRate       float64 `json:"Growth_Rate"`
}

// Metrics are the published scores of one company.
type Metrics struct {
	SupplyScore   float64                 `json:"Supply_Score"`
	DemandScore   float64                 `json:"Demand_Score"`
	RiskScore     float64                 `json:"Risk_Score"`
	RiskLevel     string                  `json:"Risk_Level"`
	AttritionRate float64                 `json:"Attrition_Rate"`
	HiringSurge   *simulation.SurgeWindow `json:"Hiring_Surge"`
}

// Comparison is one company's entry in a comparison.
type Comparison struct {
	Company  string   `json:"Company"`
	Metrics  Metrics  `json:"Metrics"`
	Insights []string `json:"Insights"`
}

// Summary is the condensed company view attached to industry dashboards.
type Summary struct {
	Company     string                  `json:"Company"`
	RiskScore   float64                 `json:"Risk_Score"`
	RiskLevel   string                  `json:"Risk_Level"`
	HiringSurge *simulation.SurgeWindow `json:"Hiring_Surge"`
}

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	scoreFloor   = 10.0
	scoreCeiling = 90.0

	demandAttritionWeight = 1.5
	riskAttritionWeight   = 15.0
	hpiAttritionWeight    = 20.0
	hpiTrendWeight        = 0.8

	lowRiskBelow    = 30.0
	mediumRiskBelow = 60.0

	immediateHPI = 30.0
	nearTermHPI  = 15.0

	maxInsights = 2
)

// =============================================================================
// DERIVATION
// =============================================================================

// Derive computes a company's raw drivers from its industry's published
// metrics for a year.
func Derive(industry analysis.Metrics, name string, year int) Drivers {
	rng := rand.New(rand.NewSource(nameSeed(name) + int64(year)))

	scale := 0.8 + rng.Float64()*0.4
	bias := 0.7 + rng.Float64()*0.6
	attrVariance := (rng.Float64() - 0.5) * 0.05
	convVariance := (rng.Float64() - 0.5) * 0.04

	d := Drivers{
		InternshipIntake: float64(industry.InternshipIntake) * scale,
		ConversionRate:   clip(industry.ConversionRate+convVariance, 0.4, 0.95),
		AttritionRate:    clip(industry.AttritionRate+attrVariance, 0.02, 0.35),
		GrowthRate:       industry.GrowthRate * bias,
	}
	d.Supply = d.InternshipIntake * d.ConversionRate
	d.Demand = d.GrowthRate + d.AttritionRate*demandAttritionWeight
	return d
}

// TrendProxy is a stable per-company stand-in for demand momentum in
// [-5, 5), used until companies carry multi-year history.
func TrendProxy(name string) float64 {
	rng := rand.New(rand.NewSource(nameSeed(name)))
	return (rng.Float64() - 0.5) * 10
}

func nameSeed(name string) int64 {
	var sum int64
	for _, r := range name {
		sum += int64(r)
	}
	return sum
}

// =============================================================================
// COMPARISON
// =============================================================================

// Compare scores the selected companies of an industry against every
// company in catalog. Selected names that are not in catalog are ignored.
// Results follow catalog order.
func Compare(model *analysis.Model, industry string, catalog, selected []string, year int) ([]Comparison, error) {
	if len(catalog) == 0 {
		return nil, &analysis.LookupError{Industry: industry, Err: analysis.ErrIndustryNotFound}
	}
	dash, err := model.Dashboard(industry, year)
	if err != nil {
		return nil, err
	}

	drivers := make([]Drivers, len(catalog))
	supplies := make([]float64, len(catalog))
	demands := make([]float64, len(catalog))
	for i, name := range catalog {
		drivers[i] = Derive(dash.Metrics, name, year)
		supplies[i] = drivers[i].Supply
		demands[i] = drivers[i].Demand
	}

	supplyP5, supplyP95 := analysis.Quantile(supplies, 0.05), analysis.Quantile(supplies, 0.95)
	demandP5, demandP95 := analysis.Quantile(demands, 0.05), analysis.Quantile(demands, 0.95)

	want := make(map[string]bool, len(selected))
	for _, s := range selected {
		want[s] = true
	}

	forecast := year == model.Options().ForecastYear
	out := make([]Comparison, 0, len(selected))
	for i, name := range catalog {
		if !want[name] {
			continue
		}
		d := drivers[i]

		supply := clip(scale(d.Supply, supplyP5, supplyP95), scoreFloor, scoreCeiling)
		demand := clip(scale(d.Demand, demandP5, demandP95), scoreFloor, scoreCeiling)
		risk := clip(demand-supply+d.AttritionRate*riskAttritionWeight, 0, 100)

		var surge *simulation.SurgeWindow
		if forecast {
			trend := TrendProxy(name)
			hpi := demand - supply + d.AttritionRate*hpiAttritionWeight + trend*hpiTrendWeight
			w := surgeFor(hpi, trend)
			surge = &w
		}

		out = append(out, Comparison{
			Company: name,
			Metrics: Metrics{
				SupplyScore:   analysis.Round2(supply),
				DemandScore:   analysis.Round2(demand),
				RiskScore:     analysis.Round2(risk),
				RiskLevel:     RiskLevelFor(risk),
				AttritionRate: analysis.Round3(d.AttritionRate),
				HiringSurge:   surge,
			},
			Insights: insights(d, supply, demand, risk),
		})
	}
	return out, nil
}

// Summaries condenses a comparison of every company in catalog.
func Summaries(model *analysis.Model, industry string, catalog []string, year int) ([]Summary, error) {
	results, err := Compare(model, industry, catalog, catalog, year)
	if err != nil {
		return nil, err
	}
	out := make([]Summary, len(results))
	for i, r := range results {
		out[i] = Summary{
			Company:     r.Company,
			RiskScore:   r.Metrics.RiskScore,
			RiskLevel:   r.Metrics.RiskLevel,
			HiringSurge: r.Metrics.HiringSurge,
		}
	}
	return out, nil
}

// RiskLevelFor classifies a company risk score.
func RiskLevelFor(risk float64) string {
	switch {
	case risk < lowRiskBelow:
		return "Low Risk"
	case risk < mediumRiskBelow:
		return "Medium Risk"
	default:
		return "High Risk"
	}
}

func surgeFor(hpi, trend float64) simulation.SurgeWindow {
	switch {
	case hpi >= immediateHPI:
		return simulation.OneToThreeMonths
	case hpi >= nearTermHPI || trend > 0:
		return simulation.FourToSixMonths
	default:
		return simulation.SixToTwelveMonths
	}
}

func insights(d Drivers, supply, demand, risk float64) []string {
	var out []string
	if d.AttritionRate > 0.15 {
		out = append(out, "High attrition is driving elevated hiring pressure.")
	}
	if supply > 70 {
		out = append(out, "Strong internal talent pipeline reduces supply-side risk.")
	}
	if demand > 75 {
		out = append(out, "Rapid growth requirements are outpacing current supply.")
	}
	if risk < lowRiskBelow {
		out = append(out, "Workforce stability is exceptionally high.")
	}
	if len(out) == 0 {
		out = append(out, "Workforce metrics are currently in a state of equilibrium.")
	}
	if len(out) > maxInsights {
		out = out[:maxInsights]
	}
	return out
}

// scale maps v onto 0-100 against [p5,p95]; a zero-width window divides
// by 1.
func scale(v, p5, p95 float64) float64 {
	width := p95 - p5
	if width == 0 {
		width = 1
	}
	return (clip(v, p5, p95) - p5) / width * 100
}

func clip(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
