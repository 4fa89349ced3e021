package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "DATABASE_URL", "SYMPTOM_CHECKER_DATA_SOURCE", "SYMPTOM_CHECKER_DATA_DIR",
		"SYMPTOM_CHECKER_LOG_LEVEL", "SYMPTOM_CHECKER_MIN_SYMPTOMS",
	} {
		t.Setenv(k, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, SourceDir, cfg.Data.Source)
	assert.Equal(t, "Training_data.csv", cfg.Data.Files.Training)
	assert.Equal(t, 1, cfg.Matching.MinSymptoms)
	assert.True(t, cfg.Matching.FoldCase)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_NoFile(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := `
server:
  addr: ":5000"
  read_timeout: 3s
data:
  dir: reference
  condition_index: codes.csv
matching:
  min_symptoms: 3
logging:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":5000", cfg.Server.Addr)
	assert.Equal(t, 3*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.WriteTimeout, "unset keys keep defaults")
	assert.Equal(t, filepath.Join(dir, "reference"), cfg.Data.Dir)
	assert.Equal(t, filepath.Join(dir, "codes.csv"), cfg.Data.ConditionIndex)
	assert.Equal(t, "medications.csv", cfg.Data.Files.Medications)
	assert.Equal(t, 3, cfg.Matching.MinSymptoms)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_URL", "postgres://localhost/symptoms")
	t.Setenv("SYMPTOM_CHECKER_DATA_SOURCE", SourcePostgres)
	t.Setenv("SYMPTOM_CHECKER_MIN_SYMPTOMS", "2")
	t.Setenv("SYMPTOM_CHECKER_LOG_LEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, SourcePostgres, cfg.Data.Source)
	assert.Equal(t, "postgres://localhost/symptoms", cfg.Data.DatabaseURL)
	assert.Equal(t, 2, cfg.Matching.MinSymptoms)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("server: [unclosed"), 0o644))
	_, err = Load(bad)
	assert.Error(t, err)

	t.Setenv("SYMPTOM_CHECKER_MIN_SYMPTOMS", "many")
	_, err = Load("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown source", func(c *Config) { c.Data.Source = "s3" }},
		{"postgres without url", func(c *Config) { c.Data.Source = SourcePostgres }},
		{"empty dir", func(c *Config) { c.Data.Dir = "" }},
		{"zero min symptoms", func(c *Config) { c.Matching.MinSymptoms = 0 }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
		{"empty addr", func(c *Config) { c.Server.Addr = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSave_RoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Data.Dir = "/srv/reference"
	cfg.Matching.MinSymptoms = 3
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
