package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	// envconfig also consults the unprefixed variable names; clear both
	// spellings so host environment values cannot mask the defaults.
	// t.Setenv registers the restore, Unsetenv does the clearing.
	for _, key := range []string{"FORECAST_PORT", "PORT", "FORECAST_GIN_MODE", "GIN_MODE"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8084", cfg.Port)
	assert.Equal(t, "release", cfg.GinMode)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("FORECAST_PORT", "9090")
	t.Setenv("FORECAST_GIN_MODE", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "debug", cfg.GinMode)
}
