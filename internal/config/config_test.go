package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qtermsim/internal/simulator"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 1024, cfg.Simulation.Shots)
	assert.Nil(t, cfg.Simulation.Seed)
	assert.Equal(t, simulator.StateVector, cfg.Backend())
	assert.Equal(t, 200*time.Millisecond, cfg.GetDebounce())
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qsim.yaml")
	require.NoError(t, os.WriteFile(path, []byte("simulation:\n  shots: 50\n  seed: 9\nlogging:\n  level: debug\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Simulation.Shots)
	require.NotNil(t, cfg.Simulation.Seed)
	assert.Equal(t, uint64(9), *cfg.Simulation.Seed)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, "statevector", cfg.Simulation.Backend)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qsim.yaml")
	require.NoError(t, os.WriteFile(path, []byte("simulation: [unclosed"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "qsim.yaml")
	seed := uint64(123)
	cfg := DefaultConfig()
	cfg.Simulation.Seed = &seed
	cfg.Viewer.Color = false

	require.NoError(t, cfg.Save(path))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("QSIM_SHOTS", "77")
	t.Setenv("QSIM_SEED", "5")
	t.Setenv("QSIM_LOG_LEVEL", "error")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 77, cfg.Simulation.Shots)
	require.NotNil(t, cfg.Simulation.Seed)
	assert.Equal(t, uint64(5), *cfg.Simulation.Seed)
	assert.Equal(t, "error", cfg.Logging.Level)
}

func TestEnvOverridesRejectGarbage(t *testing.T) {
	for _, key := range []string{"QSIM_SHOTS", "QSIM_SEED"} {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, "lots")
			_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
			assert.ErrorContains(t, err, key)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"negative shots", func(c *Config) { c.Simulation.Shots = -1 }},
		{"unknown backend", func(c *Config) { c.Simulation.Backend = "gpu" }},
		{"zero max qubits", func(c *Config) { c.Simulation.MaxQubits = 0 }},
		{"huge max qubits", func(c *Config) { c.Simulation.MaxQubits = 64 }},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }},
		{"bad debounce", func(c *Config) { c.Watch.Debounce = "soon" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}
