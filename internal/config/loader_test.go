package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Load with an empty path falls back to searching "." for crasim.yaml;
// finding none there, it proceeds on env vars and the §6 defaults alone.

func TestLoadAppliesDefaultsWithoutAFile(t *testing.T) {
	t.Setenv("CRASIM_MAXIMUM_SIZE", "1000")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), cfg.MaximumSize)
	assert.Equal(t, DefaultPercentMain, cfg.PercentMain)
	assert.Equal(t, DefaultSketch, cfg.Sketch)
}

func TestLoadEnvOverridesDefault(t *testing.T) {
	t.Setenv("CRASIM_MAXIMUM_SIZE", "500")
	t.Setenv("CRASIM_SKETCH", "perfect")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "perfect", cfg.Sketch)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	t.Setenv("CRASIM_MAXIMUM_SIZE", "0")

	_, err := Load("")
	assert.Error(t, err)
}
