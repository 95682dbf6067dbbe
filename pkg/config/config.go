// Package config loads firecalc configuration from a YAML file with
// environment overrides for deployment-specific values.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/firecalc/pkg/validation"
)

// EngineConfig holds the calculation-layer compliance ceilings.
type EngineConfig struct {
	NominalVoltage        float64 `yaml:"nominal_voltage"`
	MaxVoltageDropPercent float64 `yaml:"max_voltage_drop_percent"`
	MaxSLCDevices         int     `yaml:"max_slc_devices"`
	MaxSLCLengthFt        float64 `yaml:"max_slc_length_ft"`
}

// BatteryConfig holds the battery sizing profile.
type BatteryConfig struct {
	BackupHours  float64 `yaml:"backup_hours"`
	AlarmHours   float64 `yaml:"alarm_hours"`
	DerateFactor float64 `yaml:"derate_factor"`
}

// StorageConfig selects the persistence backend. An empty DatabaseURL means
// the in-memory store.
type StorageConfig struct {
	DatabaseURL string `yaml:"database_url"`
	JournalPath string `yaml:"journal_path"`
}

// Config is the root configuration document.
type Config struct {
	Engine   EngineConfig  `yaml:"engine"`
	Battery  BatteryConfig `yaml:"battery"`
	Storage  StorageConfig `yaml:"storage"`
	LogLevel string        `yaml:"log_level"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			NominalVoltage:        24.0,
			MaxVoltageDropPercent: 10.0,
			MaxSLCDevices:         252,
			MaxSLCLengthFt:        10000,
		},
		Battery: BatteryConfig{
			BackupHours:  24.0,
			AlarmHours:   5.0 / 60.0,
			DerateFactor: 0.8,
		},
		LogLevel: "info",
	}
}

// Load reads the YAML file at path, fills unset fields from Default, applies
// environment overrides, and validates the result. A missing file is not an
// error; defaults plus environment apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("unmarshal %s: %w", path, err)
			}
		}
	}

	cfg.applyDefaults()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults backfills zero-valued fields so a partial YAML document
// inherits the standard profile.
func (c *Config) applyDefaults() {
	d := Default()
	c.Engine.NominalVoltage = validation.DefaultOrFloat(c.Engine.NominalVoltage, d.Engine.NominalVoltage)
	c.Engine.MaxVoltageDropPercent = validation.DefaultOrFloat(c.Engine.MaxVoltageDropPercent, d.Engine.MaxVoltageDropPercent)
	c.Engine.MaxSLCDevices = validation.DefaultOr(c.Engine.MaxSLCDevices, d.Engine.MaxSLCDevices)
	c.Engine.MaxSLCLengthFt = validation.DefaultOrFloat(c.Engine.MaxSLCLengthFt, d.Engine.MaxSLCLengthFt)
	c.Battery.BackupHours = validation.DefaultOrFloat(c.Battery.BackupHours, d.Battery.BackupHours)
	c.Battery.AlarmHours = validation.DefaultOrFloat(c.Battery.AlarmHours, d.Battery.AlarmHours)
	c.Battery.DerateFactor = validation.DefaultOrFloat(c.Battery.DerateFactor, d.Battery.DerateFactor)
	c.LogLevel = validation.DefaultOr(c.LogLevel, d.LogLevel)
}

// applyEnv lets deployment environments override file values.
func (c *Config) applyEnv() {
	if v := os.Getenv("FIRECALC_DATABASE_URL"); v != "" {
		c.Storage.DatabaseURL = v
	}
	if v := os.Getenv("FIRECALC_JOURNAL_PATH"); v != "" {
		c.Storage.JournalPath = v
	}
	if v := os.Getenv("FIRECALC_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

// Validate checks the configuration for internally consistent values.
func (c *Config) Validate() error {
	return validation.NewConfigValidator("Config").
		PositiveFloat("Engine.NominalVoltage", c.Engine.NominalVoltage).
		RangeFloat("Engine.MaxVoltageDropPercent", c.Engine.MaxVoltageDropPercent, 0, 100).
		Positive("Engine.MaxSLCDevices", c.Engine.MaxSLCDevices).
		PositiveFloat("Engine.MaxSLCLengthFt", c.Engine.MaxSLCLengthFt).
		PositiveFloat("Battery.BackupHours", c.Battery.BackupHours).
		PositiveFloat("Battery.AlarmHours", c.Battery.AlarmHours).
		Custom("Battery.DerateFactor", func() error {
			if c.Battery.DerateFactor <= 0 || c.Battery.DerateFactor > 1 {
				return fmt.Errorf("derate factor %f must be in (0, 1]", c.Battery.DerateFactor)
			}
			return nil
		}).
		OneOf("LogLevel", c.LogLevel, []string{"debug", "info", "warn", "error"}).
		Validate()
}
