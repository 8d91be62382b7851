package company_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/workforce-engine/analysis"
	"github.com/warp/workforce-engine/company"
)

func buildModel(t *testing.T) *analysis.Model {
	t.Helper()
	var records []analysis.Record
	for i, year := range []int{2023, 2024, 2025, 2026} {
		records = append(records, analysis.Record{
			Industry:       "IT",
			Year:           year,
			InternsIntake:  1200 + float64(i)*150,
			ConversionRate: 0.62 + float64(i)*0.02,
			AttritionRate:  0.14 + float64(i)*0.01,
			GrowthRate:     6 + float64(i),
		})
	}
	m, err := analysis.BuildModel(records, analysis.Options{ForecastYear: 2026})
	require.NoError(t, err)
	return m
}

func TestDerive_DeterministicAndBounded(t *testing.T) {
	// GIVEN: Industry metrics
	// WHEN: Deriving the same company twice, and across many companies
	// THEN: Results are identical per name/year and respect the documented ranges

	industry := analysis.Metrics{
		InternshipIntake: 1000,
		ConversionRate:   0.7,
		AttritionRate:    0.12,
		GrowthRate:       8,
	}

	a := company.Derive(industry, "MetaSystems", 2026)
	b := company.Derive(industry, "MetaSystems", 2026)
	assert.Equal(t, a, b)

	other := company.Derive(industry, "MetaSystems", 2025)
	assert.NotEqual(t, a, other, "year is part of the seed")

	for _, names := range company.DefaultCatalog {
		for _, name := range names {
			d := company.Derive(industry, name, 2026)
			assert.GreaterOrEqual(t, d.InternshipIntake, 800.0, name)
			assert.LessOrEqual(t, d.InternshipIntake, 1200.0, name)
			assert.GreaterOrEqual(t, d.GrowthRate, 5.6, name)
			assert.LessOrEqual(t, d.GrowthRate, 10.4, name)
			assert.InDelta(t, 0.12, d.AttritionRate, 0.025+1e-9, name)
			assert.InDelta(t, 0.7, d.ConversionRate, 0.02+1e-9, name)
			assert.InDelta(t, d.InternshipIntake*d.ConversionRate, d.Supply, 1e-9)
			assert.InDelta(t, d.GrowthRate+d.AttritionRate*1.5, d.Demand, 1e-9)
		}
	}
}

func TestDerive_ClampsRates(t *testing.T) {
	d := company.Derive(analysis.Metrics{InternshipIntake: 10, ConversionRate: 1, AttritionRate: 0.9}, "SparkEV", 2026)
	assert.Equal(t, 0.95, d.ConversionRate)
	assert.Equal(t, 0.35, d.AttritionRate)

	d = company.Derive(analysis.Metrics{InternshipIntake: 10, AttritionRate: -0.5}, "SparkEV", 2026)
	assert.Equal(t, 0.4, d.ConversionRate)
	assert.Equal(t, 0.02, d.AttritionRate)
}

func TestTrendProxy(t *testing.T) {
	for _, names := range company.DefaultCatalog {
		for _, name := range names {
			v := company.TrendProxy(name)
			assert.GreaterOrEqual(t, v, -5.0)
			assert.Less(t, v, 5.0)
			assert.Equal(t, v, company.TrendProxy(name))
		}
	}
}

func TestCompare_SelectionAndScores(t *testing.T) {
	m := buildModel(t)
	catalog := company.DefaultCatalog["IT"]

	results, err := company.Compare(m, "IT", catalog, []string{"NexTech", "MetaSystems", "Unknown"}, 2026)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "MetaSystems", results[0].Company, "catalog order")
	assert.Equal(t, "NexTech", results[1].Company)

	for _, r := range results {
		assert.GreaterOrEqual(t, r.Metrics.SupplyScore, 10.0)
		assert.LessOrEqual(t, r.Metrics.SupplyScore, 90.0)
		assert.GreaterOrEqual(t, r.Metrics.DemandScore, 10.0)
		assert.LessOrEqual(t, r.Metrics.DemandScore, 90.0)
		assert.GreaterOrEqual(t, r.Metrics.RiskScore, 0.0)
		assert.LessOrEqual(t, r.Metrics.RiskScore, 100.0)
		assert.Equal(t, company.RiskLevelFor(r.Metrics.RiskScore), r.Metrics.RiskLevel)
		assert.NotEmpty(t, r.Insights)
		assert.LessOrEqual(t, len(r.Insights), 2)
		require.NotNil(t, r.Metrics.HiringSurge, "forecast year carries a surge window")
	}
}

func TestCompare_NormalizesAgainstWholeCatalog(t *testing.T) {
	// GIVEN: One company compared alone and within the full catalog
	// THEN: Its scores do not depend on what else was selected

	m := buildModel(t)
	catalog := company.DefaultCatalog["IT"]

	alone, err := company.Compare(m, "IT", catalog, []string{"DataPulse"}, 2025)
	require.NoError(t, err)
	all, err := company.Compare(m, "IT", catalog, catalog, 2025)
	require.NoError(t, err)

	require.Len(t, alone, 1)
	require.Len(t, all, 5)
	assert.Equal(t, alone[0], all[2])
	assert.Nil(t, alone[0].Metrics.HiringSurge, "no surge outside the forecast year")
}

func TestCompare_Errors(t *testing.T) {
	m := buildModel(t)

	_, err := company.Compare(m, "Retail", nil, []string{"X"}, 2026)
	assert.True(t, analysis.IsNotFound(err))

	_, err = company.Compare(m, "IT", company.DefaultCatalog["IT"], []string{"NexTech"}, 1990)
	assert.ErrorIs(t, err, analysis.ErrYearNotAvailable)
}

func TestSummaries(t *testing.T) {
	m := buildModel(t)
	catalog := company.DefaultCatalog["IT"]

	summaries, err := company.Summaries(m, "IT", catalog, 2026)
	require.NoError(t, err)
	require.Len(t, summaries, len(catalog))

	full, err := company.Compare(m, "IT", catalog, catalog, 2026)
	require.NoError(t, err)
	for i, s := range summaries {
		assert.Equal(t, full[i].Company, s.Company)
		assert.Equal(t, full[i].Metrics.RiskScore, s.RiskScore)
		assert.Equal(t, full[i].Metrics.HiringSurge, s.HiringSurge)
	}
}

func TestRiskLevelFor(t *testing.T) {
	assert.Equal(t, "Low Risk", company.RiskLevelFor(29.99))
	assert.Equal(t, "Medium Risk", company.RiskLevelFor(30))
	assert.Equal(t, "Medium Risk", company.RiskLevelFor(59.99))
	assert.Equal(t, "High Risk", company.RiskLevelFor(60))
}
