package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete optimizer configuration
type Config struct {
	Sweep   SweepConfig   `yaml:"sweep" envconfig:"SWEEP"`
	Data    DataConfig    `yaml:"data" envconfig:"DATA"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Paths   PathsConfig   `yaml:"paths" envconfig:"PATHS"`
}

// SweepConfig contains the window sweep parameters
type SweepConfig struct {
	// WindowsMonths lists the candidate lookback windows in months,
	// tried per dataset in this order.
	WindowsMonths []int `yaml:"windows_months" envconfig:"WINDOWS_MONTHS" default:"3,6,9,12,24,36" validate:"required,min=1,dive,gt=0"`

	// MinSamples is the minimum number of window-restricted rows
	// required before a window is trained at all.
	MinSamples int `yaml:"min_samples" envconfig:"MIN_SAMPLES" default:"100" validate:"gt=1"`

	// TrainRatio is the chronological share of the window used for
	// training; the remainder (most recent rows) is the test slice.
	TrainRatio float64 `yaml:"train_ratio" envconfig:"TRAIN_RATIO" default:"0.8" validate:"gt=0,lt=1"`

	// Seed fixes every stochastic step so repeated runs over the same
	// inputs produce identical metrics.
	Seed int64 `yaml:"seed" envconfig:"SEED" default:"42"`

	// TrainOnlyScaling fits feature standardization on the train slice
	// of each window instead of the whole dataset. The whole-dataset
	// default mirrors the historical behavior and leaks test-slice
	// statistics into scaling; see DESIGN.md.
	TrainOnlyScaling bool `yaml:"train_only_scaling" envconfig:"TRAIN_ONLY_SCALING" default:"false"`
}

// DataConfig describes the delimited-text convention of the dataset files
// and the column names the loader expects. The same delimiter and decimal
// separator are used for the result tables.
type DataConfig struct {
	Delimiter    string `yaml:"delimiter" envconfig:"DELIMITER" default:";" validate:"len=1"`
	Decimal      string `yaml:"decimal" envconfig:"DECIMAL" default:"," validate:"len=1"`
	DateColumn   string `yaml:"date_column" envconfig:"DATE_COLUMN" default:"Date" validate:"required"`
	SymbolColumn string `yaml:"symbol_column" envconfig:"SYMBOL_COLUMN" default:"Ticker" validate:"required"`
	PriceColumn  string `yaml:"price_column" envconfig:"PRICE_COLUMN" default:"Adj Close" validate:"required"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"both" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/window_sweep.log"`
}

// PathsConfig contains file system paths used by the sweep
type PathsConfig struct {
	// DataDir holds the transformed per-instrument dataset files.
	DataDir string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data/transformed" validate:"required"`

	// FeatureStoreFile is the JSON mapping from dataset file name to
	// its selected feature list.
	FeatureStoreFile string `yaml:"feature_store_file" envconfig:"FEATURE_STORE_FILE" default:"data/selected/features.json" validate:"required"`

	// OutputDir receives the best-window and all-metrics tables.
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR" default:"data/window_sweep" validate:"required"`

	// LogsDir receives the run log file.
	LogsDir string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs" validate:"required"`
}

// Load loads configuration from environment variables and an optional
// YAML file. File values take precedence over environment values.
func Load(configFile string) (*Config, error) {
	var cfg Config

	if err := envconfig.Process("WINSWEEP", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if configFile != "" {
		if err := loadFromFile(configFile, &cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configFile, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile overlays YAML file values onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	if c.Data.Delimiter == c.Data.Decimal {
		return fmt.Errorf("delimiter %q and decimal separator %q must differ", c.Data.Delimiter, c.Data.Decimal)
	}
	return nil
}

// EnsureDirs creates the output and log directories if they do not exist
func (c *Config) EnsureDirs() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.LogsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// LogFilePath resolves the log file location, placing a bare file name
// inside the configured logs directory.
func (c *Config) LogFilePath() string {
	if filepath.Dir(c.Logging.FilePath) != "." {
		return c.Logging.FilePath
	}
	return filepath.Join(c.Paths.LogsDir, c.Logging.FilePath)
}
