/*
Package config resolves service configuration.

SOURCES (later wins):
  1. Defaults()
  2. YAML file (strict: unknown keys are errors)
  3. .env file (godotenv, never overrides the real environment)
  4. Process environment, WORKFORCE_* variables
  5. CLI flags, applied by cmd/server after Load

ENVIRONMENT:
  WORKFORCE_PORT               HTTP port
  WORKFORCE_DB                 SQLite path (":memory:" allowed)
  WORKFORCE_FORECAST_YEAR      planning year with a hiring-surge outlook
  WORKFORCE_FUTURE_YEARS       comma-separated projection years
  WORKFORCE_REFRESH_INTERVAL   model rebuild interval, e.g. "5m"
  WORKFORCE_ALLOWED_ORIGINS    comma-separated CORS origins
  WORKFORCE_SEED_DEMO          demo dataset loaded into an empty store
  WORKFORCE_LOG_LEVEL          logrus level (LOG_LEVEL also accepted)
*/
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/warp/workforce-engine/analysis"
)

// Config is the resolved service configuration.
type Config struct {
	Port            int           `yaml:"port"`
	DBPath          string        `yaml:"db_path"`
	ForecastYear    int           `yaml:"forecast_year"`
	FutureYears     []int         `yaml:"future_years"`
	RefreshInterval time.Duration `yaml:"refresh_interval"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
	SeedDemo        string        `yaml:"seed_demo"`
	LogLevel        string        `yaml:"log_level"`
}

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Defaults returns the configuration used when nothing else is set.
func Defaults() *Config {
	return &Config{
		Port:            8080,
		DBPath:          "workforce.db",
		ForecastYear:    2026,
		FutureYears:     []int{2027, 2028, 2029},
		RefreshInterval: 5 * time.Minute,
		AllowedOrigins:  []string{"http://localhost:3000", "http://localhost:5173"},
		SeedDemo:        "baseline-market",
		LogLevel:        "info",
	}
}

// Load resolves configuration from file, envFile and the environment.
// Empty paths are skipped; a missing envFile is not an error.
func Load(file, envFile string) (*Config, error) {
	cfg := Defaults()

	if file != "" {
		if err := cfg.loadFile(file); err != nil {
			return nil, err
		}
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("WORKFORCE_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: WORKFORCE_PORT: %v", ErrInvalidConfig, err)
		}
		c.Port = port
	}
	if v, ok := lookup("WORKFORCE_DB"); ok {
		c.DBPath = v
	}
	if v, ok := lookup("WORKFORCE_FORECAST_YEAR"); ok {
		year, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: WORKFORCE_FORECAST_YEAR: %v", ErrInvalidConfig, err)
		}
		c.ForecastYear = year
	}
	if v, ok := lookup("WORKFORCE_FUTURE_YEARS"); ok {
		years, err := ParseYears(v)
		if err != nil {
			return fmt.Errorf("%w: WORKFORCE_FUTURE_YEARS: %v", ErrInvalidConfig, err)
		}
		c.FutureYears = years
	}
	if v, ok := lookup("WORKFORCE_REFRESH_INTERVAL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: WORKFORCE_REFRESH_INTERVAL: %v", ErrInvalidConfig, err)
		}
		c.RefreshInterval = d
	}
	if v, ok := lookup("WORKFORCE_ALLOWED_ORIGINS"); ok {
		c.AllowedOrigins = splitList(v)
	}
	if v, ok := lookup("WORKFORCE_SEED_DEMO"); ok {
		c.SeedDemo = v
	}
	if v, ok := lookup("LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	if v, ok := lookup("WORKFORCE_LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	return nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidConfig, c.Port)
	}
	if strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("%w: db path is required", ErrInvalidConfig)
	}
	if c.ForecastYear <= 0 {
		return fmt.Errorf("%w: forecast year must be positive", ErrInvalidConfig)
	}
	if c.RefreshInterval <= 0 {
		return fmt.Errorf("%w: refresh interval must be positive", ErrInvalidConfig)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Level returns the logrus level, falling back to info.
func (c *Config) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

// AnalysisOptions returns the model options this configuration selects.
func (c *Config) AnalysisOptions() analysis.Options {
	return analysis.Options{
		ForecastYear: c.ForecastYear,
		FutureYears:  append([]int(nil), c.FutureYears...),
	}
}

// ParseYears parses a comma-separated list of years.
func ParseYears(s string) ([]int, error) {
	var out []int
	for _, part := range splitList(s) {
		y, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid year %q", part)
		}
		out = append(out, y)
	}
	return out, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
