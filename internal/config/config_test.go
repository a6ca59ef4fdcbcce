// internal/config/config_test.go

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"globalfreq/internal/domain/frequency"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "frequency.runs", cfg.NATS.RunsSubject)
	assert.Equal(t, 0.05, cfg.Frequency.RidgeFraction)
	assert.Equal(t, 4, cfg.Frequency.Precision)
	assert.Len(t, cfg.Frequency.Regions, 10)

	table := cfg.Frequency.RegionTable()
	w, ok := table.PopulationWeight("south_asia")
	require.True(t, ok)
	assert.Equal(t, 1.45, w)
	assert.Equal(t, "WAS", table.DisplayCode("west_asia"))
	assert.Equal(t, "antarctica", table.DisplayCode("antarctica"))
}

func TestLoadFromEnvironment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SERVER_READ_TIMEOUT", "3s")
	t.Setenv("SERVER_CORS_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("FREQ_PRECISION", "6")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 3*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CorsOrigins)
	assert.Equal(t, 6, cfg.Frequency.Precision)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("FREQ_RIDGE_FRACTION=0.1\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("FREQ_RIDGE_FRACTION") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 0.1, cfg.Frequency.RidgeFraction)
}

func TestLoadRegionsFile(t *testing.T) {
	chdir(t, t.TempDir())
	path := filepath.Join(t.TempDir(), "regions.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
regions:
  - name: europe
    population_weight: 0.74
    display_code: EU
  - name: mars
    population_weight: 0.01
`), 0o600))
	t.Setenv("FREQ_REGIONS_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []frequency.Region{
		{Name: "europe", PopulationWeight: 0.74, DisplayCode: "EU"},
		{Name: "mars", PopulationWeight: 0.01},
	}, cfg.Frequency.Regions)
}

func TestLoadRegionsFileMissing(t *testing.T) {
	_, err := LoadRegionsFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	chdir(t, t.TempDir())
	base, err := Load()
	require.NoError(t, err)
	require.NoError(t, Validate(base))

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero population weight", func(c *Config) { c.Frequency.Regions[0].PopulationWeight = 0 }},
		{"unnamed region", func(c *Config) { c.Frequency.Regions[0].Name = "" }},
		{"duplicate region", func(c *Config) { c.Frequency.Regions[1].Name = c.Frequency.Regions[0].Name }},
		{"empty region table", func(c *Config) { c.Frequency.Regions = nil }},
		{"ridge out of range", func(c *Config) { c.Frequency.RidgeFraction = 1.5 }},
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			cfg.Frequency.Regions = append([]frequency.Region(nil), base.Frequency.Regions...)
			tt.mutate(&cfg)
			assert.Error(t, Validate(cfg))
		})
	}
}
