package analysis

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

// Quantile returns the p-quantile of values using linear interpolation
// between closest ranks: h = (n-1)p, x[floor(h)] + (h-floor(h)) * step.
// values is not modified. Empty input yields 0.
func Quantile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	h := float64(len(sorted)-1) * p
	lo := int(math.Floor(h))
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	if lo < 0 {
		return sorted[0]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
}

// Round2 rounds a published metric to two decimal places.
func Round2(v float64) float64 {
	return roundTo(v, 2)
}

// Round3 rounds a published rate to three decimal places.
func Round3(v float64) float64 {
	return roundTo(v, 3)
}

func roundTo(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

func clip(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
