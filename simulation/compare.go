package simulation

import (
	"fmt"
	"math"
	"strconv"
)

// Direction describes how a simulated risk moved relative to the baseline.
type Direction string

const (
	DirectionSurge   Direction = "Surge"
	DirectionReduced Direction = "Reduced"
	DirectionStable  Direction = "Stable"
)

// Comparison is a simulated result set against the dashboard baseline.
type Comparison struct {
	Baseline       BaselineMetrics `json:"baseline"`
	RiskVariance   float64         `json:"risk_variance"`
	SupplyVariance float64         `json:"supply_variance"`
	DemandVariance float64         `json:"demand_variance"`
	Direction      Direction       `json:"direction"`
	Impact         string          `json:"impact"`
}

// Compare measures result against baseline. deltas drive the narrative only.
func Compare(result Result, baseline BaselineMetrics, deltas DeltaSet) Comparison {
	c := Comparison{
		Baseline:       baseline,
		RiskVariance:   result.Risk - baseline.WorkforceRiskScore,
		SupplyVariance: result.Supply - baseline.TalentSupplyScore,
		DemandVariance: result.Demand - baseline.TalentDemandScore,
	}

	switch {
	case result.Risk > baseline.WorkforceRiskScore:
		c.Direction = DirectionSurge
	case result.Risk < baseline.WorkforceRiskScore:
		c.Direction = DirectionReduced
	default:
		c.Direction = DirectionStable
	}

	c.Impact = impactNarrative(deltas, math.Abs(c.RiskVariance))
	return c
}

func impactNarrative(d DeltaSet, riskShift float64) string {
	shift := strconv.FormatFloat(riskShift, 'f', 1, 64)
	switch {
	case d.AttritionDelta < 0:
		pct := strconv.FormatFloat(math.Abs(d.AttritionDelta), 'f', -1, 64)
		return fmt.Sprintf("Optimizing attrition by %s%% reduces risk pressure by %s index points.", pct, shift)
	case d.AttritionDelta > 0:
		return fmt.Sprintf("Unchecked attrition volatility adds %s to the workforce risk score.", shift)
	case d.InternshipDelta > 0:
		return "Expanding the intake funnel directly enhances structural supply stability."
	default:
		return "Adjust parameters to generate a strategic dynamic impact projection."
	}
}
