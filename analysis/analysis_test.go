package analysis_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/workforce-engine/analysis"
	"github.com/warp/workforce-engine/analysis/store"
	"github.com/warp/workforce-engine/simulation"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

const eps = 1e-6

// alphaRecords: supply climbs 100..500, demand flat.
// betaRecords: supply flat at 0, demand climbs 0..40.
func alphaRecords() []analysis.Record {
	var out []analysis.Record
	for i := 0; i < 5; i++ {
		r := analysis.Record{
			Industry:       "Alpha",
			Year:           2020 + i,
			InternsIntake:  float64(100 * (i + 1)),
			ConversionRate: 1,
			GrowthRate:     10,
		}
		if r.Year == 2022 {
			r.TopSkills = []string{"Go", "Kubernetes", "ML"}
		}
		out = append(out, r)
	}
	return out
}

func betaRecords() []analysis.Record {
	var out []analysis.Record
	for i := 0; i < 5; i++ {
		out = append(out, analysis.Record{
			Industry:   "Beta",
			Year:       2020 + i,
			GrowthRate: float64(10 * i),
		})
	}
	return out
}

func testOptions() analysis.Options {
	return analysis.Options{ForecastYear: 2022}
}

func buildTestModel(t *testing.T) *analysis.Model {
	t.Helper()
	m, err := analysis.BuildModel(append(alphaRecords(), betaRecords()...), testOptions())
	require.NoError(t, err)
	return m
}

// =============================================================================
// QUANTILE
// =============================================================================

func TestQuantile_LinearInterpolation(t *testing.T) {
	values := []float64{5, 1, 4, 2, 3}

	assert.InDelta(t, 1.2, analysis.Quantile(values, 0.05), eps)
	assert.InDelta(t, 4.8, analysis.Quantile(values, 0.95), eps)
	assert.InDelta(t, 3.0, analysis.Quantile(values, 0.5), eps)
	assert.Equal(t, 1.0, analysis.Quantile(values, 0))
	assert.Equal(t, 5.0, analysis.Quantile(values, 1))
	assert.Equal(t, []float64{5, 1, 4, 2, 3}, values, "input must not be reordered")

	assert.Equal(t, 0.0, analysis.Quantile(nil, 0.5))
	assert.Equal(t, 7.0, analysis.Quantile([]float64{7}, 0.95))
}

func TestRound(t *testing.T) {
	assert.Equal(t, 21.2, analysis.Round2(21.199999999))
	assert.Equal(t, 0.123, analysis.Round3(0.12345))
	assert.Equal(t, -3.46, analysis.Round2(-3.456))
}

// =============================================================================
// FORECAST
// =============================================================================

func TestForecast_LinearTrend(t *testing.T) {
	history := []analysis.Record{
		{Industry: "X", Year: 2022, InternsIntake: 120, ConversionRate: 0.5, AttritionRate: 1.0, GrowthRate: 3},
		{Industry: "X", Year: 2020, InternsIntake: 100, ConversionRate: 0.5, AttritionRate: 0.9, GrowthRate: 5},
		{Industry: "X", Year: 2021, InternsIntake: 110, ConversionRate: 0.5, AttritionRate: 0.95, GrowthRate: 4},
	}

	out := analysis.Forecast(history, []int{2024, 2022, 2023})
	require.Len(t, out, 2, "existing year 2022 is not re-projected")

	assert.Equal(t, 2023, out[0].Year)
	assert.Equal(t, 2024, out[1].Year)
	assert.True(t, out[0].Forecast)
	assert.Equal(t, "X", out[0].Industry)

	assert.InDelta(t, 130, out[0].InternsIntake, eps)
	assert.InDelta(t, 140, out[1].InternsIntake, eps)
	assert.InDelta(t, 0.5, out[0].ConversionRate, eps)
	assert.Equal(t, 1.0, out[0].AttritionRate, "rates are held to [0,1]")
	assert.InDelta(t, 2, out[0].GrowthRate, eps, "growth may fall freely")
}

func TestForecast_SingleObservationIsFlat(t *testing.T) {
	history := []analysis.Record{{Industry: "X", Year: 2020, InternsIntake: 50, ConversionRate: 0.3, AttritionRate: 0.1, GrowthRate: 6}}

	out := analysis.Forecast(history, []int{2021})
	require.Len(t, out, 1)
	assert.InDelta(t, 50, out[0].InternsIntake, eps)
	assert.InDelta(t, 6, out[0].GrowthRate, eps)
}

func TestForecast_SharedSlopeAcrossIndustries(t *testing.T) {
	// GIVEN: A gains 10 interns a year, B gains 30
	// WHEN: Forecasting both together
	// THEN: Both use the pooled slope of 20 from their own mean level

	history := []analysis.Record{
		{Industry: "B", Year: 2020, InternsIntake: 100, ConversionRate: 0.5},
		{Industry: "A", Year: 2020, InternsIntake: 100, ConversionRate: 0.5},
		{Industry: "A", Year: 2021, InternsIntake: 110, ConversionRate: 0.5},
		{Industry: "B", Year: 2021, InternsIntake: 130, ConversionRate: 0.5},
		{Industry: "A", Year: 2022, InternsIntake: 120, ConversionRate: 0.5},
		{Industry: "B", Year: 2022, InternsIntake: 160, ConversionRate: 0.5},
	}

	out := analysis.Forecast(history, []int{2023, 2024})
	require.Len(t, out, 4)

	assert.Equal(t, "A", out[0].Industry)
	assert.Equal(t, 2023, out[0].Year)
	assert.InDelta(t, 150, out[0].InternsIntake, eps, "per-industry fit would give 140")
	assert.InDelta(t, 170, out[1].InternsIntake, eps)
	assert.Equal(t, "B", out[2].Industry)
	assert.InDelta(t, 170, out[2].InternsIntake, eps, "per-industry fit would give 190")
	assert.InDelta(t, 190, out[3].InternsIntake, eps)
	assert.InDelta(t, 0.5, out[3].ConversionRate, eps)
}

func TestForecast_SingleYearIndustryUsesSharedSlope(t *testing.T) {
	history := []analysis.Record{
		{Industry: "A", Year: 2020, GrowthRate: 1},
		{Industry: "A", Year: 2021, GrowthRate: 2},
		{Industry: "A", Year: 2022, GrowthRate: 3},
		{Industry: "New", Year: 2022, GrowthRate: 10},
	}

	out := analysis.Forecast(history, []int{2024})
	require.Len(t, out, 2)
	assert.InDelta(t, 5, out[0].GrowthRate, eps)
	assert.Equal(t, "New", out[1].Industry)
	assert.InDelta(t, 12, out[1].GrowthRate, eps)
}

func TestForecast_Empty(t *testing.T) {
	assert.Nil(t, analysis.Forecast(nil, []int{2030}))
}

// =============================================================================
// MODEL
// =============================================================================

func TestBuildModel_NoRecords(t *testing.T) {
	_, err := analysis.BuildModel(nil, testOptions())
	assert.ErrorIs(t, err, analysis.ErrNoRecords)
	assert.True(t, analysis.IsNotFound(err))
}

func TestBuildModel_SupplyNormalization(t *testing.T) {
	// GIVEN: Alpha raw supply 100..500 (P5=120, P95=480)
	// THEN: Scores are clipped to [10,90] after scaling

	m := buildTestModel(t)

	b, err := m.Bounds("Alpha")
	require.NoError(t, err)
	assert.InDelta(t, 120, b.SupplyP5, eps)
	assert.InDelta(t, 480, b.SupplyP95, eps)

	first, _ := m.Row("Alpha", 2020)
	mid, _ := m.Row("Alpha", 2022)
	last, _ := m.Row("Alpha", 2024)
	assert.InDelta(t, 10, first.SupplyScore, eps)
	assert.InDelta(t, 50, mid.SupplyScore, eps)
	assert.InDelta(t, 90, last.SupplyScore, eps)

	// Flat demand: zero-width window places everything at the floor
	assert.InDelta(t, 10, mid.DemandScore, eps)
	assert.Equal(t, 0.0, mid.DemandTrend)
	assert.InDelta(t, 5, mid.RiskScore, eps, "dynamic baseline floor")
}

func TestBuildModel_DemandTrendAndRisk(t *testing.T) {
	// GIVEN: Beta raw demand 0..40 (P5=2, P95=38)
	// THEN: Trend is the year-over-year change and risk takes the larger formula

	m := buildTestModel(t)

	rows, err := m.Series("Beta")
	require.NoError(t, err)
	require.Len(t, rows, 5)

	assert.Equal(t, 0.0, rows[0].DemandTrend)
	assert.InDelta(t, 800.0/36-10, rows[1].DemandTrend, eps)
	assert.InDelta(t, 50, rows[2].DemandScore, eps)
	assert.InDelta(t, 40, rows[2].RiskScore, eps, "core risk 50-10 beats baseline 5+trend/2")
	assert.InDelta(t, 80, rows[4].RiskScore, eps)
}

func TestBuildModel_ForecastsFutureYears(t *testing.T) {
	m, err := analysis.BuildModel(alphaRecords(), analysis.DefaultOptions())
	require.NoError(t, err)

	rows, err := m.Series("Alpha")
	require.NoError(t, err)
	require.Len(t, rows, 8)
	assert.Equal(t, 2029, rows[7].Year)
	assert.True(t, rows[7].Forecast)
	assert.False(t, rows[4].Forecast)
	assert.InDelta(t, 1000, rows[7].InternsIntake, eps)
}

func TestModel_Lookups(t *testing.T) {
	m := buildTestModel(t)

	assert.Equal(t, []string{"Alpha", "Beta"}, m.Industries())

	_, err := m.Row("Gamma", 2022)
	assert.ErrorIs(t, err, analysis.ErrIndustryNotFound)

	_, err = m.Row("Alpha", 1999)
	assert.ErrorIs(t, err, analysis.ErrYearNotAvailable)
	var lookup *analysis.LookupError
	require.True(t, errors.As(err, &lookup))
	assert.Equal(t, 1999, lookup.Year)
}

func TestRiskLevelFor(t *testing.T) {
	assert.Equal(t, "Low Risk", analysis.RiskLevelFor(35))
	assert.Equal(t, "Medium Risk", analysis.RiskLevelFor(35.01))
	assert.Equal(t, "Medium Risk", analysis.RiskLevelFor(65))
	assert.Equal(t, "High Risk", analysis.RiskLevelFor(65.01))
}

// =============================================================================
// DASHBOARD
// =============================================================================

func TestDashboard_Beta(t *testing.T) {
	m := buildTestModel(t)

	d, err := m.Dashboard("Beta", 2022)
	require.NoError(t, err)

	assert.Equal(t, 50.0, d.Metrics.TalentDemandScore)
	assert.Equal(t, 10.0, d.Metrics.TalentSupplyScore)
	assert.Equal(t, 40.0, d.Metrics.WorkforceRiskScore)
	assert.Equal(t, "Medium Risk", d.Metrics.RiskLevel)

	// hpi = 40 + 0 + 27.78*0.8 = 62.2
	require.NotNil(t, d.HiringSurge)
	assert.Equal(t, simulation.OneToThreeMonths, *d.HiringSurge)

	assert.Equal(t,
		"Medium Risk (Current Planning Horizon) detected. Demand significantly exceeds supply, creating critical shortage pressure; "+
			"strong demand momentum suggests accelerating hiring needs; exceptionally stable retention rates are mitigating overall risk.",
		d.Explanation)

	sc := d.SimulationContext
	assert.Equal(t, 2.0, sc.DemandP5)
	assert.Equal(t, 38.0, sc.DemandP95)
	assert.Equal(t, 40.0, sc.DemandTrend, "last demand score 90 minus third-last 50")
	assert.Equal(t, 0.0, sc.Baseline.InternshipIntake)

	require.Len(t, d.SupplyDemandTrend, 5)
	assert.Equal(t, 22.22, d.SupplyDemandTrend[1].TalentDemand)

	base := d.Metrics.BaselineMetrics()
	assert.Equal(t, d.Metrics.WorkforceRiskScore, base.WorkforceRiskScore)
}

func TestDashboard_AlphaExplanation(t *testing.T) {
	m := buildTestModel(t)

	d, err := m.Dashboard("Alpha", 2022)
	require.NoError(t, err)
	assert.Equal(t,
		"Low Risk (Current Planning Horizon) detected. Talent supply is robust relative to current market demand; "+
			"exceptionally stable retention rates are mitigating overall risk; workforce risk is at a historic low for this industry.",
		d.Explanation)

	other, err := m.Dashboard("Alpha", 2023)
	require.NoError(t, err)
	assert.Nil(t, other.HiringSurge, "surge only for the forecast year")
}

func TestDashboard_FeedsSimulation(t *testing.T) {
	// GIVEN: The dashboard's SimulationContext
	// WHEN: Running the engine with no deltas
	// THEN: It validates and produces bounded scores

	m := buildTestModel(t)
	d, err := m.Dashboard("Alpha", 2022)
	require.NoError(t, err)

	require.NoError(t, simulation.ValidateContext(d.SimulationContext))
	r := simulation.NewEngine(2022).Compute(d.SimulationContext, simulation.DeltaSet{}, 2022)
	assert.InDelta(t, 50, r.Supply, eps)
	assert.NotNil(t, r.HiringSurgeWindow)
}

func TestDashboard_NotFound(t *testing.T) {
	m := buildTestModel(t)
	_, err := m.Dashboard("Alpha", 2030)
	assert.True(t, analysis.IsNotFound(err))
}

// =============================================================================
// STUDENT VIEW
// =============================================================================

func TestStudentDashboard_Beta(t *testing.T) {
	m := buildTestModel(t)

	d, err := m.StudentDashboard("Beta", 2022)
	require.NoError(t, err)
	in := d.StudentInsights
	require.NotNil(t, in)

	assert.Equal(t, "Moderate", in.HiringOutlook)
	assert.Equal(t, analysis.HighOpportunity, in.CompetitionLevel)
	assert.Equal(t, []string{
		"Immediate Action: Finalize your portfolio and start applying now to catch the upcoming hiring peak.",
		"Speed-to-Market: Optimize your LinkedIn and resume for rapid technical screening.",
		"Network Strategy: Connect with 3-5 professionals currently in Beta to understand team culture.",
		"Broaden Search: Diversify your applications beyond just internships to include direct entry-level roles.",
	}, in.PreparationGuidance)
	assert.Nil(t, in.IndustrySwitch, "Beta already has the better demand-to-risk balance")
}

func TestStudentDashboard_AlphaSwitchAndSkills(t *testing.T) {
	m := buildTestModel(t)

	d, err := m.StudentDashboard("Alpha", 2022)
	require.NoError(t, err)
	in := d.StudentInsights

	require.NotNil(t, in.IndustrySwitch)
	assert.Equal(t, "Beta", in.IndustrySwitch.TargetIndustry)
	assert.Equal(t, analysis.HyperCompetitive, in.CompetitionLevel)

	assert.Equal(t, "Go", in.Skills.Core[0].Name)
	assert.Equal(t, "Communication", in.Skills.Core[1].Name)
	assert.Equal(t, "Kubernetes", in.Skills.InDemand[0].Name)
	assert.Equal(t, "Data Analysis", in.Skills.InDemand[1].Name)
	assert.Equal(t, "ML", in.Skills.Future[0].Name)

	// 2024 carries no skills: the most recent observed list is used
	later, err := m.StudentDashboard("Alpha", 2024)
	require.NoError(t, err)
	assert.Equal(t, "Go", later.StudentInsights.Skills.Core[0].Name)
}

// =============================================================================
// SOURCE
// =============================================================================

func TestLoad_FromMemory(t *testing.T) {
	mem := store.NewMemory()
	mem.Put(betaRecords()...)
	mem.Put(alphaRecords()...)
	mem.PutCompanies("Alpha", "A1", "A2")

	m, err := analysis.Load(context.Background(), mem, testOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha", "Beta"}, m.Industries())

	names, err := mem.ListCompanies(context.Background(), "Alpha")
	require.NoError(t, err)
	assert.Equal(t, []string{"A1", "A2"}, names)
}
