/*
forecast.go - Linear trend projection of workforce drivers

PURPOSE:
  Extends each industry's history into the future years of Options so the
  dashboard and the simulator can serve planning years with no observed data.

METHOD:
  One least-squares fit per driver across every industry:

    value = slope * (year - meanYear) + intercept[industry]

  The slope is shared, each industry gets its own intercept (one-hot
  industry columns). Solved with gonum's QR factorization. When no
  industry has two distinct years the slope is dropped and each industry
  projects its mean. Projected rates are held to [0,1] and intake to >= 0.

  Years an industry already has records for are never overwritten.
*/
package analysis

import (
	"math"
	"sort"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

type driver struct {
	get func(Record) float64
	set func(*Record, float64)
	lo  float64
	hi  float64
}

var drivers = []driver{
	{
		get: func(r Record) float64 { return r.InternsIntake },
		set: func(r *Record, v float64) { r.InternsIntake = v },
		lo:  0,
		hi:  math.Inf(1),
	},
	{
		get: func(r Record) float64 { return r.ConversionRate },
		set: func(r *Record, v float64) { r.ConversionRate = v },
		lo:  0,
		hi:  1,
	},
	{
		get: func(r Record) float64 { return r.AttritionRate },
		set: func(r *Record, v float64) { r.AttritionRate = v },
		lo:  0,
		hi:  1,
	},
	{
		get: func(r Record) float64 { return r.GrowthRate },
		set: func(r *Record, v float64) { r.GrowthRate = v },
		lo:  math.Inf(-1),
		hi:  math.Inf(1),
	},
}

// Forecast projects history (any industries, any order) onto years.
// The returned records are marked Forecast and sorted by industry, then
// year.
func Forecast(history []Record, years []int) []Record {
	if len(history) == 0 {
		return nil
	}

	fit := fitTrend(history)

	have := make(map[string]map[int]bool, len(fit.industries))
	for _, r := range history {
		if have[r.Industry] == nil {
			have[r.Industry] = make(map[int]bool)
		}
		have[r.Industry][r.Year] = true
	}

	future := append([]int(nil), years...)
	sort.Ints(future)

	var out []Record
	for k, industry := range fit.industries {
		for _, year := range future {
			if have[industry][year] {
				continue
			}
			have[industry][year] = true
			rec := Record{Industry: industry, Year: year, Forecast: true}
			for j, d := range drivers {
				v := fit.intercept[k][j] + fit.slope[j]*(float64(year)-fit.center)
				d.set(&rec, clip(v, d.lo, d.hi))
			}
			out = append(out, rec)
		}
	}
	return out
}

// trend is the fitted pooled model. intercept is indexed [industry][driver].
type trend struct {
	industries []string
	center     float64
	slope      []float64
	intercept  [][]float64
}

func fitTrend(history []Record) trend {
	index := make(map[string]int)
	var industries []string
	for _, r := range history {
		if _, ok := index[r.Industry]; !ok {
			index[r.Industry] = 0
			industries = append(industries, r.Industry)
		}
	}
	sort.Strings(industries)
	for k, name := range industries {
		index[name] = k
	}

	xs := make([]float64, len(history))
	for i, r := range history {
		xs[i] = float64(r.Year)
	}

	t := trend{
		industries: industries,
		center:     stat.Mean(xs, nil),
		slope:      make([]float64, len(drivers)),
		intercept:  industryMeans(history, index, len(industries)),
	}
	if withinYearVariance(history, index, len(industries)) == 0 {
		return t
	}

	// Columns: one indicator per industry, then the centered year.
	cols := len(industries) + 1
	x := mat.NewDense(len(history), cols, nil)
	y := mat.NewDense(len(history), len(drivers), nil)
	for i, r := range history {
		x.Set(i, index[r.Industry], 1)
		x.Set(i, cols-1, xs[i]-t.center)
		for j, d := range drivers {
			y.Set(i, j, d.get(r))
		}
	}

	var qr mat.QR
	qr.Factorize(x)
	var coef mat.Dense
	if err := qr.SolveTo(&coef, false, y); err != nil {
		logrus.WithError(err).Warn("trend fit failed; projecting industry means")
		return t
	}

	for j := range drivers {
		t.slope[j] = coef.At(cols-1, j)
		for k := range industries {
			t.intercept[k][j] = coef.At(k, j)
		}
	}
	return t
}

// industryMeans returns the mean of every driver per industry.
func industryMeans(history []Record, index map[string]int, n int) [][]float64 {
	sums := make([][]float64, n)
	counts := make([]float64, n)
	for k := range sums {
		sums[k] = make([]float64, len(drivers))
	}
	for _, r := range history {
		k := index[r.Industry]
		counts[k]++
		for j, d := range drivers {
			sums[k][j] += d.get(r)
		}
	}
	for k := range sums {
		for j := range sums[k] {
			sums[k][j] /= counts[k]
		}
	}
	return sums
}

// withinYearVariance is the sum of squared year deviations from each
// industry's own mean year. Zero means the shared slope is not identified.
func withinYearVariance(history []Record, index map[string]int, n int) float64 {
	sums := make([]float64, n)
	counts := make([]float64, n)
	for _, r := range history {
		k := index[r.Industry]
		sums[k] += float64(r.Year)
		counts[k]++
	}
	var ss float64
	for _, r := range history {
		k := index[r.Industry]
		d := float64(r.Year) - sums[k]/counts[k]
		ss += d * d
	}
	return ss
}
