package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, []int{3, 6, 9, 12, 24, 36}, cfg.Sweep.WindowsMonths)
	assert.Equal(t, 100, cfg.Sweep.MinSamples)
	assert.Equal(t, 0.8, cfg.Sweep.TrainRatio)
	assert.Equal(t, int64(42), cfg.Sweep.Seed)
	assert.False(t, cfg.Sweep.TrainOnlyScaling)
	assert.Equal(t, ";", cfg.Data.Delimiter)
	assert.Equal(t, ",", cfg.Data.Decimal)
	assert.Equal(t, "Adj Close", cfg.Data.PriceColumn)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFileOverride(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	content := `
sweep:
  windows_months: [6, 12]
  min_samples: 50
  seed: 7
data:
  delimiter: ","
  decimal: "."
logging:
  level: debug
  output: console
`
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0o644))

	cfg, err := Load(configFile)
	require.NoError(t, err)

	assert.Equal(t, []int{6, 12}, cfg.Sweep.WindowsMonths)
	assert.Equal(t, 50, cfg.Sweep.MinSamples)
	assert.Equal(t, int64(7), cfg.Sweep.Seed)
	assert.Equal(t, ",", cfg.Data.Delimiter)
	assert.Equal(t, ".", cfg.Data.Decimal)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Untouched values keep their defaults.
	assert.Equal(t, 0.8, cfg.Sweep.TrainRatio)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid defaults",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "empty window list",
			mutate:  func(c *Config) { c.Sweep.WindowsMonths = nil },
			wantErr: true,
		},
		{
			name:    "negative window",
			mutate:  func(c *Config) { c.Sweep.WindowsMonths = []int{3, -6} },
			wantErr: true,
		},
		{
			name:    "train ratio at one",
			mutate:  func(c *Config) { c.Sweep.TrainRatio = 1.0 },
			wantErr: true,
		},
		{
			name:    "delimiter equals decimal",
			mutate:  func(c *Config) { c.Data.Delimiter = ","; c.Data.Decimal = "," },
			wantErr: true,
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			require.NoError(t, err)
			tt.mutate(cfg)

			err = cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEnsureDirs(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load("")
	require.NoError(t, err)
	cfg.Paths.OutputDir = filepath.Join(dir, "out")
	cfg.Paths.LogsDir = filepath.Join(dir, "logs")

	require.NoError(t, cfg.EnsureDirs())
	assert.DirExists(t, cfg.Paths.OutputDir)
	assert.DirExists(t, cfg.Paths.LogsDir)
}

func TestLogFilePath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	cfg.Logging.FilePath = "sweep.log"
	cfg.Paths.LogsDir = "logs"
	assert.Equal(t, filepath.Join("logs", "sweep.log"), cfg.LogFilePath())

	cfg.Logging.FilePath = filepath.Join("elsewhere", "sweep.log")
	assert.Equal(t, filepath.Join("elsewhere", "sweep.log"), cfg.LogFilePath())
}
