/*
dashboard.go - Industry dashboard assembly

PURPOSE:
  Produces the read-only industry/year view: published metrics, hiring
  surge outlook, rule-based explanation, supply/demand history and the
  SimulationContext + BaselineMetrics pair the what-if engine consumes.

ROUNDING:
  Published scores are rounded to 2 decimals and attrition/growth rates to
  3. The SimulationContext baseline keeps unrounded rates and a truncated
  intake; its percentile bounds and trend are rounded to 2 decimals.

SEE ALSO:
  - explain.go: explanation and surge rules
  - student.go: student-facing reframing of the same row
*/
package analysis

import (
	"math"

	"github.com/warp/workforce-engine/simulation"
)

// Metrics are the published scores and drivers of one industry/year.
type Metrics struct {
	TalentSupplyScore  float64 `json:"Talent_Supply_Score"`
	TalentDemandScore  float64 `json:"Talent_Demand_Score"`
	WorkforceRiskScore float64 `json:"Workforce_Risk_Score"`
	RiskLevel          string  `json:"Risk_Level"`
	InternshipIntake   int     `json:"Internship_Intake"`
	ConversionRate     float64 `json:"Conversion_Rate"`
	AttritionRate      float64 `json:"Attrition_Rate"`
	GrowthRate         float64 `json:"Growth_Rate"`
}

// BaselineMetrics returns the scores the simulator compares against.
func (m Metrics) BaselineMetrics() simulation.BaselineMetrics {
	return simulation.BaselineMetrics{
		WorkforceRiskScore: m.WorkforceRiskScore,
		TalentSupplyScore:  m.TalentSupplyScore,
		TalentDemandScore:  m.TalentDemandScore,
	}
}

// TrendPoint is one year of the supply/demand chart.
type TrendPoint struct {
	Year         int     `json:"Year"`
	TalentSupply float64 `json:"Talent_Supply"`
	TalentDemand float64 `json:"Talent_Demand"`
	Forecast     bool    `json:"Forecast"`
}

// Dashboard is the industry view for one year.
type Dashboard struct {
	Industry          string                  `json:"Industry"`
	Year              int                     `json:"Year"`
	Metrics           Metrics                 `json:"Metrics"`
	HiringSurge       *simulation.SurgeWindow `json:"Hiring_Surge_Timeline"`
	Explanation       string                  `json:"AI_Explanation"`
	SupplyDemandTrend []TrendPoint            `json:"Supply_Demand_Trend"`
	SimulationContext simulation.Context      `json:"Simulation_Context"`
	StudentInsights   *StudentInsights        `json:"Student_Insights,omitempty"`
}

// Dashboard builds the industry view for a year.
func (m *Model) Dashboard(industry string, year int) (*Dashboard, error) {
	row, err := m.Row(industry, year)
	if err != nil {
		return nil, err
	}
	series, _ := m.Series(industry)
	bounds, _ := m.Bounds(industry)

	trend := make([]TrendPoint, len(series))
	for i, r := range series {
		trend[i] = TrendPoint{
			Year:         r.Year,
			TalentSupply: Round2(r.SupplyScore),
			TalentDemand: Round2(r.DemandScore),
			Forecast:     r.Forecast,
		}
	}

	return &Dashboard{
		Industry:          industry,
		Year:              year,
		Metrics:           metricsFor(row),
		HiringSurge:       m.HiringSurge(row),
		Explanation:       m.Explain(row),
		SupplyDemandTrend: trend,
		SimulationContext: simulation.Context{
			SupplyP5:    Round2(bounds.SupplyP5),
			SupplyP95:   Round2(bounds.SupplyP95),
			DemandP5:    Round2(bounds.DemandP5),
			DemandP95:   Round2(bounds.DemandP95),
			DemandTrend: Round2(m.RecentDemandTrend(industry)),
			Baseline: simulation.Baseline{
				InternshipIntake: math.Trunc(row.InternsIntake),
				ConversionRate:   row.ConversionRate,
				AttritionRate:    row.AttritionRate,
				GrowthRate:       row.GrowthRate,
			},
		},
	}, nil
}

func metricsFor(row Row) Metrics {
	return Metrics{
		TalentSupplyScore:  Round2(row.SupplyScore),
		TalentDemandScore:  Round2(row.DemandScore),
		WorkforceRiskScore: Round2(row.RiskScore),
		RiskLevel:          RiskLevelFor(row.RiskScore),
		InternshipIntake:   int(row.InternsIntake),
		ConversionRate:     Round2(row.ConversionRate),
		AttritionRate:      Round3(row.AttritionRate),
		GrowthRate:         Round3(row.GrowthRate),
	}
}
