package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/workforce-engine/config"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// unsetForTest clears a variable for the duration of the test.
func unsetForTest(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func TestDefaults_Valid(t *testing.T) {
	cfg := config.Defaults()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 2026, cfg.ForecastYear)
	assert.Equal(t, logrus.InfoLevel, cfg.Level())

	opts := cfg.AnalysisOptions()
	assert.Equal(t, 2026, opts.ForecastYear)
	assert.Equal(t, []int{2027, 2028, 2029}, opts.FutureYears)
}

func TestLoad_FileThenEnvironment(t *testing.T) {
	// GIVEN: A YAML file setting port and interval, and an env override of the port
	// WHEN: Loading
	// THEN: The environment wins, the file fills the rest

	path := writeFile(t, "config.yaml", `
port: 9000
db_path: /tmp/data.db
refresh_interval: 90s
future_years: [2030]
allowed_origins: ["https://example.com"]
`)
	t.Setenv("WORKFORCE_PORT", "9100")
	t.Setenv("WORKFORCE_LOG_LEVEL", "debug")

	cfg, err := config.Load(path, "")
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Port)
	assert.Equal(t, "/tmp/data.db", cfg.DBPath)
	assert.Equal(t, 90*time.Second, cfg.RefreshInterval)
	assert.Equal(t, []int{2030}, cfg.FutureYears)
	assert.Equal(t, []string{"https://example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, logrus.DebugLevel, cfg.Level())
}

func TestLoad_EnvFile(t *testing.T) {
	unsetForTest(t, "WORKFORCE_SEED_DEMO")
	unsetForTest(t, "WORKFORCE_FUTURE_YEARS")
	envFile := writeFile(t, ".env", "WORKFORCE_SEED_DEMO=attrition-crisis\nWORKFORCE_FUTURE_YEARS=2027, 2028\n")

	cfg, err := config.Load("", envFile)
	require.NoError(t, err)
	assert.Equal(t, "attrition-crisis", cfg.SeedDemo)
	assert.Equal(t, []int{2027, 2028}, cfg.FutureYears)
}

func TestLoad_MissingEnvFileIgnored(t *testing.T) {
	_, err := config.Load("", filepath.Join(t.TempDir(), "absent.env"))
	assert.NoError(t, err)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("unknown yaml key", func(t *testing.T) {
		path := writeFile(t, "config.yaml", "prot: 80\n")
		_, err := config.Load(path, "")
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"), "")
		assert.Error(t, err)
	})

	t.Run("bad env port", func(t *testing.T) {
		t.Setenv("WORKFORCE_PORT", "eighty")
		_, err := config.Load("", "")
		assert.ErrorIs(t, err, config.ErrInvalidConfig)
	})

	t.Run("bad interval", func(t *testing.T) {
		t.Setenv("WORKFORCE_REFRESH_INTERVAL", "soon")
		_, err := config.Load("", "")
		assert.ErrorIs(t, err, config.ErrInvalidConfig)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *config.Config)
	}{
		{"port zero", func(c *config.Config) { c.Port = 0 }},
		{"port too large", func(c *config.Config) { c.Port = 70000 }},
		{"empty db path", func(c *config.Config) { c.DBPath = " " }},
		{"zero forecast year", func(c *config.Config) { c.ForecastYear = 0 }},
		{"zero interval", func(c *config.Config) { c.RefreshInterval = 0 }},
		{"bad log level", func(c *config.Config) { c.LogLevel = "chatty" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Defaults()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), config.ErrInvalidConfig)
		})
	}
}

func TestParseYears(t *testing.T) {
	years, err := config.ParseYears(" 2027,2028 ,,2029")
	require.NoError(t, err)
	assert.Equal(t, []int{2027, 2028, 2029}, years)

	_, err = config.ParseYears("2027,next")
	assert.Error(t, err)
}
