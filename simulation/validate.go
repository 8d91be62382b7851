package simulation

import "math"

// Bounds is an inclusive slider range in percent.
type Bounds struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v lies inside the range.
func (b Bounds) Contains(v float64) bool {
	return v >= b.Min && v <= b.Max
}

// DeltaBounds are the ranges the dashboard sliders enforce. Compute does not
// enforce them and behaves sanely outside them.
var DeltaBounds = map[DeltaField]Bounds{
	InternshipField: {Min: -30, Max: 30},
	ConversionField: {Min: -20, Max: 20},
	AttritionField:  {Min: -10, Max: 10},
	GrowthField:     {Min: -15, Max: 15},
}

// ValidateContext rejects contexts carrying NaN or infinite values.
// Degenerate percentile windows are allowed; Normalize handles them.
func ValidateContext(ctx Context) error {
	fields := []struct {
		name string
		v    float64
	}{
		{"Supply_P5", ctx.SupplyP5},
		{"Supply_P95", ctx.SupplyP95},
		{"Demand_P5", ctx.DemandP5},
		{"Demand_P95", ctx.DemandP95},
		{"Demand_Trend", ctx.DemandTrend},
		{"Baseline.Internship_Intake", ctx.Baseline.InternshipIntake},
		{"Baseline.Conversion_Rate", ctx.Baseline.ConversionRate},
		{"Baseline.Attrition_Rate", ctx.Baseline.AttritionRate},
		{"Baseline.Growth_Rate", ctx.Baseline.GrowthRate},
	}
	for _, f := range fields {
		if !isFinite(f.v) {
			return &InputError{Field: f.name, Value: f.v}
		}
	}
	return nil
}

// ValidateDeltas rejects delta sets carrying NaN or infinite values.
func ValidateDeltas(d DeltaSet) error {
	for _, field := range DeltaFields {
		v, _ := d.Get(field)
		if !isFinite(v) {
			return &InputError{Field: string(field), Value: v}
		}
	}
	return nil
}

// OutOfBounds lists the delta fields that fall outside DeltaBounds.
func OutOfBounds(d DeltaSet) []DeltaField {
	var out []DeltaField
	for _, field := range DeltaFields {
		v, _ := d.Get(field)
		if !DeltaBounds[field].Contains(v) {
			out = append(out, field)
		}
	}
	return out
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
