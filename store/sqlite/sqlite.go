/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Persists the observed workforce history, the company catalog of each
  industry, the log of dataset loads and the audit trail of what-if runs.
  The analysis model is rebuilt from here on every refresh.

INTERFACES IMPLEMENTED:
  analysis.Source: ListRecords, ListCompanies

KEY TABLES:
  industry_records: One row per industry and year (upserted)
  companies:        Company catalog per industry, ordered by position
  jobs:             Job catalog per industry with core skills
  dataset_loads:    History of dataset replacements
  simulation_runs:  Append-only log of what-if runs

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. Multi-statement writes run inside a
  single SQL transaction.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) so readers are not
  blocked by the refresh writer.

USAGE:
  store, err := sqlite.New("./data/workforce.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  model, err := analysis.Load(ctx, store, opts)

SEE ALSO:
  - analysis/types.go: Source interface
  - analysis/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/workforce-engine/analysis"
	"github.com/warp/workforce-engine/resume"
	"github.com/warp/workforce-engine/simulation"
)

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Every pooled connection would otherwise get its own empty database.
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Observed (or imported) workforce drivers
	CREATE TABLE IF NOT EXISTS industry_records (
		industry TEXT NOT NULL,
		year INTEGER NOT NULL,
		interns_intake REAL NOT NULL,
		conversion_rate REAL NOT NULL,
		attrition_rate REAL NOT NULL,
		growth_rate REAL NOT NULL,
		top_skills_json TEXT,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (industry, year)
	);

	-- Company catalog
	CREATE TABLE IF NOT EXISTS companies (
		industry TEXT NOT NULL,
		name TEXT NOT NULL,
		position INTEGER NOT NULL,
		PRIMARY KEY (industry, name)
	);

	CREATE INDEX IF NOT EXISTS idx_companies_industry_position
		ON companies(industry, position);

	-- Job catalog
	CREATE TABLE IF NOT EXISTS jobs (
		industry TEXT NOT NULL,
		title TEXT NOT NULL,
		core_skills_json TEXT NOT NULL,
		position INTEGER NOT NULL,
		PRIMARY KEY (industry, title)
	);

	-- Dataset replacements
	CREATE TABLE IF NOT EXISTS dataset_loads (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		record_count INTEGER NOT NULL,
		loaded_at TEXT NOT NULL
	);

	-- What-if runs (append-only)
	CREATE TABLE IF NOT EXISTS simulation_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		industry TEXT NOT NULL,
		year INTEGER NOT NULL,
		deltas_json TEXT NOT NULL,
		result_json TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_simulation_runs_industry
		ON simulation_runs(industry, year);
	`

	_, err := s.db.Exec(schema)
	return err
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// =============================================================================
// INDUSTRY RECORDS
// =============================================================================

// SaveRecords upserts records atomically.
func (s *Store) SaveRecords(ctx context.Context, records []analysis.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := saveRecords(ctx, sqlTx, records); err != nil {
		return err
	}
	return sqlTx.Commit()
}

func saveRecords(ctx context.Context, db execer, records []analysis.Record) error {
	query := `
		INSERT INTO industry_records
		(industry, year, interns_intake, conversion_rate, attrition_rate, growth_rate,
		 top_skills_json, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(industry, year) DO UPDATE SET
			interns_intake = excluded.interns_intake,
			conversion_rate = excluded.conversion_rate,
			attrition_rate = excluded.attrition_rate,
			growth_rate = excluded.growth_rate,
			top_skills_json = excluded.top_skills_json,
			updated_at = excluded.updated_at
	`

	now := time.Now().UTC().Format(time.RFC3339)
	for _, r := range records {
		var skills sql.NullString
		if len(r.TopSkills) > 0 {
			data, err := json.Marshal(r.TopSkills)
			if err != nil {
				return fmt.Errorf("failed to encode skills: %w", err)
			}
			skills = sql.NullString{String: string(data), Valid: true}
		}

		if _, err := db.ExecContext(ctx, query,
			r.Industry, r.Year,
			r.InternsIntake, r.ConversionRate, r.AttritionRate, r.GrowthRate,
			skills, now,
		); err != nil {
			return fmt.Errorf("failed to save record %s/%d: %w", r.Industry, r.Year, err)
		}
	}
	return nil
}

// ListRecords returns all records ordered by industry then year.
func (s *Store) ListRecords(ctx context.Context) ([]analysis.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT industry, year, interns_intake, conversion_rate, attrition_rate, growth_rate,
		       top_skills_json
		FROM industry_records
		ORDER BY industry, year
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []analysis.Record
	for rows.Next() {
		var r analysis.Record
		var skills sql.NullString
		if err := rows.Scan(
			&r.Industry, &r.Year,
			&r.InternsIntake, &r.ConversionRate, &r.AttritionRate, &r.GrowthRate,
			&skills,
		); err != nil {
			return nil, err
		}
		if skills.Valid {
			if err := json.Unmarshal([]byte(skills.String), &r.TopSkills); err != nil {
				return nil, fmt.Errorf("corrupt skills for %s/%d: %w", r.Industry, r.Year, err)
			}
		}
		records = append(records, r)
	}

	return records, rows.Err()
}

// ListIndustries returns the distinct industry names in sorted order.
func (s *Store) ListIndustries(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT industry FROM industry_records ORDER BY industry")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// =============================================================================
// COMPANIES
// =============================================================================

// SaveCompanies replaces the company catalog of an industry.
func (s *Store) SaveCompanies(ctx context.Context, industry string, names []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := saveCompanies(ctx, sqlTx, industry, names); err != nil {
		return err
	}
	return sqlTx.Commit()
}

func saveCompanies(ctx context.Context, db execer, industry string, names []string) error {
	if _, err := db.ExecContext(ctx, "DELETE FROM companies WHERE industry = ?", industry); err != nil {
		return fmt.Errorf("failed to clear companies: %w", err)
	}
	for i, name := range names {
		if _, err := db.ExecContext(ctx,
			"INSERT OR IGNORE INTO companies (industry, name, position) VALUES (?, ?, ?)",
			industry, name, i,
		); err != nil {
			return fmt.Errorf("failed to save company %s: %w", name, err)
		}
	}
	return nil
}

// ListCompanies returns the catalog of an industry in saved order.
func (s *Store) ListCompanies(ctx context.Context, industry string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT name FROM companies WHERE industry = ? ORDER BY position", industry)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// =============================================================================
// JOBS
// =============================================================================

// SaveJobs replaces the job catalog of an industry.
func (s *Store) SaveJobs(ctx context.Context, industry string, jobs []resume.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := saveJobs(ctx, sqlTx, industry, jobs); err != nil {
		return err
	}
	return sqlTx.Commit()
}

func saveJobs(ctx context.Context, db execer, industry string, jobs []resume.Job) error {
	if _, err := db.ExecContext(ctx, "DELETE FROM jobs WHERE industry = ?", industry); err != nil {
		return fmt.Errorf("failed to clear jobs: %w", err)
	}
	for i, job := range jobs {
		skills, err := json.Marshal(job.CoreSkills)
		if err != nil {
			return fmt.Errorf("failed to encode skills of %s: %w", job.Title, err)
		}
		if _, err := db.ExecContext(ctx,
			"INSERT OR IGNORE INTO jobs (industry, title, core_skills_json, position) VALUES (?, ?, ?, ?)",
			industry, job.Title, string(skills), i,
		); err != nil {
			return fmt.Errorf("failed to save job %s: %w", job.Title, err)
		}
	}
	return nil
}

// ListJobs returns the job catalog of an industry in saved order.
func (s *Store) ListJobs(ctx context.Context, industry string) ([]resume.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT title, core_skills_json FROM jobs WHERE industry = ? ORDER BY position", industry)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []resume.Job
	for rows.Next() {
		var job resume.Job
		var skills string
		if err := rows.Scan(&job.Title, &skills); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(skills), &job.CoreSkills); err != nil {
			return nil, fmt.Errorf("failed to decode skills of %s: %w", job.Title, err)
		}
		out = append(out, job)
	}
	return out, rows.Err()
}

// =============================================================================
// DATASETS
// =============================================================================

// DatasetLoad is one dataset replacement.
type DatasetLoad struct {
	ID          int64
	Name        string
	RecordCount int
	LoadedAt    time.Time
}

// ReplaceDataset swaps the whole dataset atomically: every record, company
// and job is removed, the new ones are written and the load is logged.
// Simulation runs are kept.
func (s *Store) ReplaceDataset(ctx context.Context, name string, records []analysis.Record, catalog map[string][]string, jobs map[string][]resume.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	for _, table := range []string{"industry_records", "companies", "jobs"} {
		if _, err := sqlTx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	if err := saveRecords(ctx, sqlTx, records); err != nil {
		return err
	}
	for industry, names := range catalog {
		if err := saveCompanies(ctx, sqlTx, industry, names); err != nil {
			return err
		}
	}
	for industry, list := range jobs {
		if err := saveJobs(ctx, sqlTx, industry, list); err != nil {
			return err
		}
	}
	if _, err := sqlTx.ExecContext(ctx,
		"INSERT INTO dataset_loads (name, record_count, loaded_at) VALUES (?, ?, ?)",
		name, len(records), time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("failed to log dataset load: %w", err)
	}

	return sqlTx.Commit()
}

// LatestDatasetLoad returns the most recent dataset load, or nil if none.
func (s *Store) LatestDatasetLoad(ctx context.Context) (*DatasetLoad, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var l DatasetLoad
	var loadedAt string
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, record_count, loaded_at FROM dataset_loads ORDER BY id DESC LIMIT 1",
	).Scan(&l.ID, &l.Name, &l.RecordCount, &loadedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	l.LoadedAt, _ = time.Parse(time.RFC3339, loadedAt)
	return &l, nil
}

// =============================================================================
// SIMULATION RUNS
// =============================================================================

// SimulationRun is a recorded what-if run.
type SimulationRun struct {
	ID        int64
	Industry  string
	Year      int
	Deltas    simulation.DeltaSet
	Result    simulation.Result
	CreatedAt time.Time
}

// SaveSimulationRun appends a run and returns its ID.
func (s *Store) SaveSimulationRun(ctx context.Context, run SimulationRun) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deltas, err := json.Marshal(run.Deltas)
	if err != nil {
		return 0, fmt.Errorf("failed to encode deltas: %w", err)
	}
	result, err := json.Marshal(run.Result)
	if err != nil {
		return 0, fmt.Errorf("failed to encode result: %w", err)
	}
	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO simulation_runs (industry, year, deltas_json, result_json, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, run.Industry, run.Year, string(deltas), string(result), createdAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("failed to save simulation run: %w", err)
	}
	return res.LastInsertId()
}

// ListSimulationRuns returns the most recent runs first. industry filters
// when non-empty.
func (s *Store) ListSimulationRuns(ctx context.Context, industry string, limit int) ([]SimulationRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var query string
	var args []any

	if industry != "" {
		query = `
			SELECT id, industry, year, deltas_json, result_json, created_at
			FROM simulation_runs
			WHERE industry = ?
			ORDER BY id DESC
			LIMIT ?
		`
		args = []any{industry, limit}
	} else {
		query = `
			SELECT id, industry, year, deltas_json, result_json, created_at
			FROM simulation_runs
			ORDER BY id DESC
			LIMIT ?
		`
		args = []any{limit}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []SimulationRun
	for rows.Next() {
		var r SimulationRun
		var deltas, result, createdAt string
		if err := rows.Scan(&r.ID, &r.Industry, &r.Year, &deltas, &result, &createdAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(deltas), &r.Deltas); err != nil {
			return nil, fmt.Errorf("corrupt deltas in run %d: %w", r.ID, err)
		}
		if err := json.Unmarshal([]byte(result), &r.Result); err != nil {
			return nil, fmt.Errorf("corrupt result in run %d: %w", r.ID, err)
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		runs = append(runs, r)
	}

	return runs, rows.Err()
}

// =============================================================================
// MAINTENANCE
// =============================================================================

// Reset clears all data (for demo purposes).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"simulation_runs", "dataset_loads", "jobs", "companies", "industry_records"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

var _ analysis.Source = (*Store)(nil)
