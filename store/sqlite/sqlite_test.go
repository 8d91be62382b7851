package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/workforce-engine/analysis"
	"github.com/warp/workforce-engine/resume"
	"github.com/warp/workforce-engine/simulation"
	"github.com/warp/workforce-engine/store/sqlite"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleRecords() []analysis.Record {
	return []analysis.Record{
		{Industry: "IT", Year: 2025, InternsIntake: 1500, ConversionRate: 0.67, AttritionRate: 0.15, GrowthRate: 8.9},
		{Industry: "IT", Year: 2024, InternsIntake: 1450, ConversionRate: 0.66, AttritionRate: 0.14, GrowthRate: 8.2,
			TopSkills: []string{"Python", "Cloud Computing"}},
		{Industry: "EV", Year: 2025, InternsIntake: 600, ConversionRate: 0.6, AttritionRate: 0.1, GrowthRate: 14},
	}
}

// =============================================================================
// RECORDS
// =============================================================================

func TestRecords_SaveAndList(t *testing.T) {
	// GIVEN: Records saved out of order
	// WHEN: Listing
	// THEN: They come back ordered by industry then year, skills intact

	store := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveRecords(ctx, sampleRecords()))

	records, err := store.ListRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "EV", records[0].Industry)
	assert.Equal(t, 2024, records[1].Year)
	assert.Equal(t, []string{"Python", "Cloud Computing"}, records[1].TopSkills)
	assert.Nil(t, records[2].TopSkills)
	assert.Equal(t, 0.67, records[2].ConversionRate)

	industries, err := store.ListIndustries(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"EV", "IT"}, industries)
}

func TestRecords_Upsert(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveRecords(ctx, sampleRecords()))
	require.NoError(t, store.SaveRecords(ctx, []analysis.Record{
		{Industry: "EV", Year: 2025, InternsIntake: 800, ConversionRate: 0.5, AttritionRate: 0.2, GrowthRate: 11},
	}))

	records, err := store.ListRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, 800.0, records[0].InternsIntake)
}

func TestStore_FeedsAnalysis(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	require.NoError(t, store.SaveRecords(ctx, sampleRecords()))

	model, err := analysis.Load(ctx, store, analysis.Options{ForecastYear: 2025})
	require.NoError(t, err)
	assert.Equal(t, []string{"EV", "IT"}, model.Industries())
}

// =============================================================================
// COMPANIES AND DATASETS
// =============================================================================

func TestCompanies_ReplaceKeepsOrder(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveCompanies(ctx, "IT", []string{"NexTech", "CloudCore", "NexTech"}))
	require.NoError(t, store.SaveCompanies(ctx, "IT", []string{"MetaSystems", "CyberCloud"}))

	names, err := store.ListCompanies(ctx, "IT")
	require.NoError(t, err)
	assert.Equal(t, []string{"MetaSystems", "CyberCloud"}, names)

	names, err = store.ListCompanies(ctx, "Retail")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestReplaceDataset(t *testing.T) {
	// GIVEN: A store with records, companies and a simulation run
	// WHEN: Replacing the dataset
	// THEN: Records and companies are swapped, runs survive, the load is logged

	store := newStore(t)
	ctx := context.Background()

	latest, err := store.LatestDatasetLoad(ctx)
	require.NoError(t, err)
	assert.Nil(t, latest)

	require.NoError(t, store.SaveRecords(ctx, sampleRecords()))
	require.NoError(t, store.SaveCompanies(ctx, "IT", []string{"Old"}))
	require.NoError(t, store.SaveJobs(ctx, "IT", []resume.Job{{Title: "Old Role"}}))
	_, err = store.SaveSimulationRun(ctx, sqlite.SimulationRun{Industry: "IT", Year: 2025})
	require.NoError(t, err)

	fresh := []analysis.Record{
		{Industry: "Finance", Year: 2025, InternsIntake: 1000, ConversionRate: 0.7, AttritionRate: 0.12, GrowthRate: 5},
	}
	require.NoError(t, store.ReplaceDataset(ctx, "custom", fresh, map[string][]string{
		"Finance": {"WealthWise", "SecureBank"},
	}, map[string][]resume.Job{
		"Finance": {{Title: "Financial Analyst", CoreSkills: []string{"Excel"}}},
	}))

	records, err := store.ListRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Finance", records[0].Industry)

	names, err := store.ListCompanies(ctx, "IT")
	require.NoError(t, err)
	assert.Empty(t, names)

	jobs, err := store.ListJobs(ctx, "IT")
	require.NoError(t, err)
	assert.Empty(t, jobs)
	jobs, err = store.ListJobs(ctx, "Finance")
	require.NoError(t, err)
	assert.Equal(t, []resume.Job{{Title: "Financial Analyst", CoreSkills: []string{"Excel"}}}, jobs)
	names, err = store.ListCompanies(ctx, "Finance")
	require.NoError(t, err)
	assert.Equal(t, []string{"WealthWise", "SecureBank"}, names)

	latest, err = store.LatestDatasetLoad(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "custom", latest.Name)
	assert.Equal(t, 1, latest.RecordCount)
	assert.False(t, latest.LoadedAt.IsZero())

	runs, err := store.ListSimulationRuns(ctx, "", 10)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

// =============================================================================
// SIMULATION RUNS
// =============================================================================

func TestSimulationRuns(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	window := simulation.FourToSixMonths
	first := sqlite.SimulationRun{
		Industry: "IT",
		Year:     2026,
		Deltas:   simulation.DeltaSet{InternshipDelta: 10, GrowthDelta: -5},
		Result: simulation.Result{
			Supply:            55,
			Demand:            40.5,
			Risk:              21.2,
			RiskLevel:         simulation.LowRisk,
			HiringSurgeWindow: &window,
		},
	}
	id1, err := store.SaveSimulationRun(ctx, first)
	require.NoError(t, err)
	id2, err := store.SaveSimulationRun(ctx, sqlite.SimulationRun{Industry: "EV", Year: 2025})
	require.NoError(t, err)
	assert.Greater(t, id2, id1)

	runs, err := store.ListSimulationRuns(ctx, "", 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "EV", runs[0].Industry, "newest first")

	runs, err = store.ListSimulationRuns(ctx, "IT", 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, id1, runs[0].ID)
	assert.Equal(t, first.Deltas, runs[0].Deltas)
	assert.Equal(t, first.Result, runs[0].Result)
	assert.False(t, runs[0].CreatedAt.IsZero())

	runs, err = store.ListSimulationRuns(ctx, "", 1)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestSaveJobs_ReplacesInOrder(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveJobs(ctx, "EV", []resume.Job{{Title: "Old"}}))
	require.NoError(t, store.SaveJobs(ctx, "EV", []resume.Job{
		{Title: "Embedded Software Engineer", CoreSkills: []string{"C", "RTOS"}},
		{Title: "Battery Systems Engineer", CoreSkills: []string{"MATLAB"}},
	}))

	jobs, err := store.ListJobs(ctx, "EV")
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "Embedded Software Engineer", jobs[0].Title)
	assert.Equal(t, []string{"C", "RTOS"}, jobs[0].CoreSkills)
	assert.Equal(t, "Battery Systems Engineer", jobs[1].Title)
}

func TestReset(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveRecords(ctx, sampleRecords()))
	_, err := store.SaveSimulationRun(ctx, sqlite.SimulationRun{Industry: "IT", Year: 2025})
	require.NoError(t, err)

	require.NoError(t, store.Reset(ctx))

	records, err := store.ListRecords(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
	runs, err := store.ListSimulationRuns(ctx, "", 10)
	require.NoError(t, err)
	assert.Empty(t, runs)
	require.NoError(t, store.Ping(ctx))
}
