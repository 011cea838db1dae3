package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Output   OutputConfig   `yaml:"output" envconfig:"OUTPUT"`
	Cleaning CleaningConfig `yaml:"cleaning" envconfig:"CLEANING"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"text" validate:"oneof=text json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"stdout" validate:"oneof=stdout file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/salescli.log"`
}

// OutputConfig contains result export configuration
type OutputConfig struct {
	Dir string `yaml:"dir" envconfig:"DIR" default:"analysis_results" validate:"required"`
}

// CleaningConfig contains the data cleaning policy.
// MinDate and MaxDate bound the plausible range for sale dates; rows
// outside the range are rejected. An empty MaxDate means one year from now.
type CleaningConfig struct {
	MinDate         string  `yaml:"min_date" envconfig:"MIN_DATE" default:"2000-01-01"`
	MaxDate         string  `yaml:"max_date" envconfig:"MAX_DATE"`
	AmountTolerance float64 `yaml:"amount_tolerance" envconfig:"AMOUNT_TOLERANCE" default:"0.01" validate:"gte=0"`
}

// Load loads configuration from environment variables and, when present,
// an optional YAML config file. File values override defaults; environment
// variables are read first so they remain visible to the merge.
func Load(configFile string) (*Config, error) {
	var cfg Config

	// Load from environment variables first
	if err := envconfig.Process("SALES", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	// Load from config file if exists
	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			fileConfig, err := loadFromFile(configFile)
			if err != nil {
				return nil, fmt.Errorf("failed to load config from file: %w", err)
			}
			cfg = mergeConfigs(*fileConfig, cfg)
		}
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges a file config over the env config, preferring file
// values that were explicitly set
func mergeConfigs(file, env Config) Config {
	merged := env

	if file.Logging.Level != "" {
		merged.Logging.Level = file.Logging.Level
	}
	if file.Logging.Format != "" {
		merged.Logging.Format = file.Logging.Format
	}
	if file.Logging.Output != "" {
		merged.Logging.Output = file.Logging.Output
	}
	if file.Logging.FilePath != "" {
		merged.Logging.FilePath = file.Logging.FilePath
	}
	if file.Output.Dir != "" {
		merged.Output.Dir = file.Output.Dir
	}
	if file.Cleaning.MinDate != "" {
		merged.Cleaning.MinDate = file.Cleaning.MinDate
	}
	if file.Cleaning.MaxDate != "" {
		merged.Cleaning.MaxDate = file.Cleaning.MaxDate
	}
	if file.Cleaning.AmountTolerance != 0 {
		merged.Cleaning.AmountTolerance = file.Cleaning.AmountTolerance
	}

	return merged
}

// validate checks the configuration for invalid values
func (c *Config) validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return err
	}
	if _, _, err := c.Cleaning.DateRange(); err != nil {
		return err
	}
	return nil
}

// DateRange returns the parsed plausible date range for sale dates.
func (c CleaningConfig) DateRange() (time.Time, time.Time, error) {
	minDate, err := time.Parse("2006-01-02", c.MinDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid cleaning.min_date %q: %w", c.MinDate, err)
	}

	maxDate := time.Now().AddDate(1, 0, 0)
	if c.MaxDate != "" {
		maxDate, err = time.Parse("2006-01-02", c.MaxDate)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid cleaning.max_date %q: %w", c.MaxDate, err)
		}
	}

	if maxDate.Before(minDate) {
		return time.Time{}, time.Time{}, fmt.Errorf("cleaning.max_date %s is before min_date %s", c.MaxDate, c.MinDate)
	}

	return minDate, maxDate, nil
}
