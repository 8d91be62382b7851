package analysis

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/warp/workforce-engine/simulation"
)

// Industry-level hiring pressure thresholds. These are stricter than the
// what-if engine's and also react to demand momentum.
const (
	industryImmediateHPI   = 30.0
	industryMomentumHPI    = 20.0
	industryMomentumTrend  = 5.0
	industryNearTermHPI    = 15.0
	industryHPIAttrition   = 20.0
	industryHPITrendWeight = 0.8
)

// HiringSurge returns the surge outlook of a row, or nil outside the
// forecast year.
func (m *Model) HiringSurge(row Row) *simulation.SurgeWindow {
	if row.Year != m.opts.ForecastYear {
		return nil
	}
	w := surgeForIndustry(HiringPressure(row), row.DemandTrend)
	return &w
}

// HiringPressure is the industry hiring pressure index of a row.
func HiringPressure(row Row) float64 {
	return row.Gap() + row.AttritionRate*industryHPIAttrition + row.DemandTrend*industryHPITrendWeight
}

func surgeForIndustry(hpi, trend float64) simulation.SurgeWindow {
	switch {
	case hpi >= industryImmediateHPI || (hpi >= industryMomentumHPI && trend > industryMomentumTrend):
		return simulation.OneToThreeMonths
	case hpi >= industryNearTermHPI || trend > 0:
		return simulation.FourToSixMonths
	default:
		return simulation.SixToTwelveMonths
	}
}

// Explain builds the rule-based explanation of a row. At most three
// reasons are kept, in priority order: gap, momentum, attrition, risk context.
func (m *Model) Explain(row Row) string {
	var reasons []string

	gap := row.Gap()
	switch {
	case gap > 20:
		reasons = append(reasons, "demand significantly exceeds supply, creating critical shortage pressure")
	case gap > 0:
		reasons = append(reasons, "demand outpaces supply, tightening the talent pipeline")
	case gap < -20:
		reasons = append(reasons, "talent supply is robust relative to current market demand")
	default:
		reasons = append(reasons, "supply and demand are currently in a state of relative equilibrium")
	}

	switch {
	case row.DemandTrend > 10:
		reasons = append(reasons, "strong demand momentum suggests accelerating hiring needs")
	case row.DemandTrend > 0:
		reasons = append(reasons, "positive demand momentum indicates steady market growth")
	case row.DemandTrend < -10:
		reasons = append(reasons, "declining demand trend is easing immediate workforce pressure")
	}

	switch {
	case row.AttritionRate > 0.18:
		reasons = append(reasons, "aggressive attrition rates are accelerating workforce leakage")
	case row.AttritionRate > 0.12:
		reasons = append(reasons, "steady attrition continues to drive routine hiring requirements")
	case row.AttritionRate < 0.05:
		reasons = append(reasons, "exceptionally stable retention rates are mitigating overall risk")
	}

	switch {
	case math.Abs(row.RiskScore-baseRisk) < 5:
		reasons = append(reasons, "workforce risk is at a historic low for this industry")
	case gap < 0 && row.RiskScore > 20:
		reasons = append(reasons, "operational risk remains elevated due to high attrition despite healthy supply")
	}

	if len(reasons) > 3 {
		reasons = reasons[:3]
	}

	yearCtx := ""
	if row.Year == m.opts.ForecastYear {
		yearCtx = " (Current Planning Horizon)"
	}

	return RiskLevelFor(row.RiskScore) + yearCtx + " detected. " + capitalize(strings.Join(reasons, "; ")) + "."
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
