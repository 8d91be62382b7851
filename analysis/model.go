package analysis

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/sirupsen/logrus"
)

// =============================================================================
// SCORING CONSTANTS
// =============================================================================

const (
	demandAttritionWeight = 1.5

	// Published scores are held away from the absolute ends of the scale.
	scoreFloor   = 10.0
	scoreCeiling = 90.0

	baseRisk             = 5.0
	riskAttritionFactor  = 10.0
	riskTrendFactor      = 0.5
	coreAttritionWeight  = 15.0
	lowRiskUpperBound    = 35.0
	mediumRiskUpperBound = 65.0
)

// =============================================================================
// MODEL
// =============================================================================

// Model holds every scored row, grouped by industry and sorted by year.
// A Model is immutable after BuildModel and safe for concurrent reads.
type Model struct {
	opts       Options
	industries []string
	rows       map[string][]Row
	bounds     map[string]Bounds
}

// Load reads all records from src and builds a model.
func Load(ctx context.Context, src Source, opts Options) (*Model, error) {
	records, err := src.ListRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}
	return BuildModel(records, opts)
}

// BuildModel forecasts, normalizes and scores records.
func BuildModel(records []Record, opts Options) (*Model, error) {
	if len(records) == 0 {
		return nil, ErrNoRecords
	}

	byIndustry := make(map[string][]Record)
	for _, r := range records {
		byIndustry[r.Industry] = append(byIndustry[r.Industry], r)
	}
	for _, r := range Forecast(records, opts.FutureYears) {
		byIndustry[r.Industry] = append(byIndustry[r.Industry], r)
	}

	m := &Model{
		opts:   opts,
		rows:   make(map[string][]Row, len(byIndustry)),
		bounds: make(map[string]Bounds, len(byIndustry)),
	}

	for industry, all := range byIndustry {
		sort.Slice(all, func(i, j int) bool { return all[i].Year < all[j].Year })

		rows, bounds := scoreIndustry(all)
		m.rows[industry] = rows
		m.bounds[industry] = bounds
		m.industries = append(m.industries, industry)

		logrus.WithFields(logrus.Fields{
			"industry":   industry,
			"supply_p5":  Round2(bounds.SupplyP5),
			"supply_p95": Round2(bounds.SupplyP95),
			"demand_p5":  Round2(bounds.DemandP5),
			"demand_p95": Round2(bounds.DemandP95),
			"rows":       len(rows),
		}).Debug("normalization bounds computed")
	}
	sort.Strings(m.industries)

	return m, nil
}

func scoreIndustry(records []Record) ([]Row, Bounds) {
	rows := make([]Row, len(records))
	supplies := make([]float64, len(records))
	demands := make([]float64, len(records))
	for i, r := range records {
		rows[i] = Row{
			Record:    r,
			RawSupply: r.InternsIntake * r.ConversionRate,
			RawDemand: r.GrowthRate + r.AttritionRate*demandAttritionWeight,
		}
		supplies[i] = rows[i].RawSupply
		demands[i] = rows[i].RawDemand
	}

	b := Bounds{
		SupplyP5:  Quantile(supplies, 0.05),
		SupplyP95: Quantile(supplies, 0.95),
		DemandP5:  Quantile(demands, 0.05),
		DemandP95: Quantile(demands, 0.95),
	}

	for i := range rows {
		row := &rows[i]
		row.SupplyScore = clip(scaleToWindow(row.RawSupply, b.SupplyP5, b.SupplyP95), scoreFloor, scoreCeiling)
		row.DemandScore = clip(scaleToWindow(row.RawDemand, b.DemandP5, b.DemandP95), scoreFloor, scoreCeiling)
	}

	for i := range rows {
		row := &rows[i]
		if i > 0 {
			row.DemandTrend = row.DemandScore - rows[i-1].DemandScore
		}
		dynamicBaseline := math.Max(baseRisk, baseRisk+row.AttritionRate*riskAttritionFactor+row.DemandTrend*riskTrendFactor)
		coreRisk := row.Gap() + row.AttritionRate*coreAttritionWeight
		row.RiskScore = clip(math.Max(coreRisk, dynamicBaseline), 0, 100)
	}

	return rows, b
}

// scaleToWindow clips v to [p5,p95] and scales it to 0-100. A zero-width
// window scales by 1, which places every value at 0.
func scaleToWindow(v, p5, p95 float64) float64 {
	width := p95 - p5
	if width == 0 {
		width = 1
	}
	return (clip(v, p5, p95) - p5) / width * 100
}

// RiskLevelFor classifies a dashboard risk score.
func RiskLevelFor(score float64) string {
	switch {
	case score <= lowRiskUpperBound:
		return "Low Risk"
	case score <= mediumRiskUpperBound:
		return "Medium Risk"
	default:
		return "High Risk"
	}
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Options returns the options the model was built with.
func (m *Model) Options() Options {
	return m.opts
}

// Industries returns the industry names in sorted order.
func (m *Model) Industries() []string {
	return append([]string(nil), m.industries...)
}

// Years returns every year any industry has a row for, ascending.
func (m *Model) Years() []int {
	seen := make(map[int]bool)
	var out []int
	for _, rows := range m.rows {
		for _, r := range rows {
			if !seen[r.Year] {
				seen[r.Year] = true
				out = append(out, r.Year)
			}
		}
	}
	sort.Ints(out)
	return out
}

// Series returns every row of an industry, oldest first.
func (m *Model) Series(industry string) ([]Row, error) {
	rows, ok := m.rows[industry]
	if !ok {
		return nil, &LookupError{Industry: industry, Err: ErrIndustryNotFound}
	}
	return append([]Row(nil), rows...), nil
}

// Row returns the row of an industry for a year.
func (m *Model) Row(industry string, year int) (Row, error) {
	rows, ok := m.rows[industry]
	if !ok {
		return Row{}, &LookupError{Industry: industry, Err: ErrIndustryNotFound}
	}
	for _, r := range rows {
		if r.Year == year {
			return r, nil
		}
	}
	return Row{}, &LookupError{Industry: industry, Year: year, Err: ErrYearNotAvailable}
}

// Bounds returns the normalization window of an industry.
func (m *Model) Bounds(industry string) (Bounds, error) {
	b, ok := m.bounds[industry]
	if !ok {
		return Bounds{}, &LookupError{Industry: industry, Err: ErrIndustryNotFound}
	}
	return b, nil
}

// RecentDemandTrend is the change in demand score across the last three
// rows of an industry, or 0 when fewer than three exist.
func (m *Model) RecentDemandTrend(industry string) float64 {
	rows := m.rows[industry]
	if len(rows) < 3 {
		return 0
	}
	return rows[len(rows)-1].DemandScore - rows[len(rows)-3].DemandScore
}
