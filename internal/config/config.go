// Package config loads qsim settings from YAML with environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"qtermsim/internal/simulator"
	"qtermsim/internal/statevector"
)

// DefaultPath is the config file looked up when none is given.
const DefaultPath = "qsim.yaml"

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all qsim configuration.
type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Logging    LoggingConfig    `yaml:"logging"`
	Viewer     ViewerConfig     `yaml:"viewer"`
	Watch      WatchConfig      `yaml:"watch"`
}

// SimulationConfig configures circuit execution and sampling.
type SimulationConfig struct {
	Shots     int     `yaml:"shots"`
	Seed      *uint64 `yaml:"seed,omitempty"` // unset means a fresh seed per run
	Backend   string  `yaml:"backend"`
	MaxQubits int     `yaml:"max_qubits"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console, json
}

// ViewerConfig configures the terminal viewer.
type ViewerConfig struct {
	SavePath string `yaml:"save_path"`
	Color    bool   `yaml:"color"`
}

// WatchConfig configures file watching.
type WatchConfig struct {
	Debounce string `yaml:"debounce"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Simulation: SimulationConfig{
			Shots:     1024,
			Backend:   simulator.StateVector.String(),
			MaxQubits: 20,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
		Viewer: ViewerConfig{
			SavePath: "circuit.qasm",
			Color:    true,
		},
		Watch: WatchConfig{
			Debounce: "200ms",
		},
	}
}

// Load reads configuration from a YAML file on top of the defaults, then
// applies environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes configuration to a YAML file.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies QSIM_* environment variables.
func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("QSIM_SHOTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("QSIM_SHOTS: %w", err)
		}
		c.Simulation.Shots = n
	}
	if v := os.Getenv("QSIM_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("QSIM_SEED: %w", err)
		}
		c.Simulation.Seed = &seed
	}
	if v := os.Getenv("QSIM_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	return nil
}

var (
	validLevels  = []string{"debug", "info", "warn", "error"}
	validFormats = []string{"console", "json"}
)

// Validate checks the configuration for values the commands cannot use.
func (c *Config) Validate() error {
	if c.Simulation.Shots < 0 {
		return fmt.Errorf("%w: shots must be non-negative, got %d", ErrInvalidConfig, c.Simulation.Shots)
	}
	if _, err := simulator.ParseBackend(c.Simulation.Backend); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Simulation.MaxQubits < 1 || c.Simulation.MaxQubits > statevector.MaxQubits {
		return fmt.Errorf("%w: max_qubits must be in [1, %d], got %d",
			ErrInvalidConfig, statevector.MaxQubits, c.Simulation.MaxQubits)
	}
	if !slices.Contains(validLevels, c.Logging.Level) {
		return fmt.Errorf("%w: log level %q (valid: %v)", ErrInvalidConfig, c.Logging.Level, validLevels)
	}
	if !slices.Contains(validFormats, c.Logging.Format) {
		return fmt.Errorf("%w: log format %q (valid: %v)", ErrInvalidConfig, c.Logging.Format, validFormats)
	}
	if _, err := time.ParseDuration(c.Watch.Debounce); err != nil {
		return fmt.Errorf("%w: watch debounce: %v", ErrInvalidConfig, err)
	}
	return nil
}

// GetDebounce returns the watch debounce as a duration.
func (c *Config) GetDebounce() time.Duration {
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil {
		return 200 * time.Millisecond
	}
	return d
}

// Backend returns the configured simulator backend.
func (c *Config) Backend() simulator.Backend {
	b, err := simulator.ParseBackend(c.Simulation.Backend)
	if err != nil {
		return simulator.StateVector
	}
	return b
}
