package config

import (
	"testing"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/fishing-planner/internal/scheduler"
)

func TestDefaults(t *testing.T) {
	cfg := &AppConfig{}
	require.NoError(t, envconfig.Process("", cfg))
	require.NoError(t, cfg.finish())

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 12*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 0, cfg.ProviderMaxRetries)
	assert.Equal(t, "Africa/Johannesburg", cfg.Location.String())
	assert.Equal(t, 6*time.Hour, cfg.CollectInterval)
	assert.Equal(t, 28, cfg.StoreMaxHistory)
	assert.Empty(t, cfg.Areas)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("PROVIDER_MAX_RETRIES", "1")
	t.Setenv("PLANNER_TIMEZONE", "UTC")
	t.Setenv("COLLECT_AREAS", "western_cape/false_bay,kwazulu_natal/durban")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := &AppConfig{}
	require.NoError(t, envconfig.Process("", cfg))
	require.NoError(t, cfg.finish())

	assert.Equal(t, 1, cfg.ProviderMaxRetries)
	assert.Equal(t, time.UTC, cfg.Location)
	assert.Equal(t, []scheduler.AreaRef{
		{RegionID: "western_cape", AreaID: "false_bay"},
		{RegionID: "kwazulu_natal", AreaID: "durban"},
	}, cfg.Areas)
}

func TestValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "too many retries", env: map[string]string{"PROVIDER_MAX_RETRIES": "3"}},
		{name: "unknown log level", env: map[string]string{"LOG_LEVEL": "loud"}},
		{name: "unknown timezone", env: map[string]string{"PLANNER_TIMEZONE": "Mars/Olympus"}},
		{name: "local timezone", env: map[string]string{"PLANNER_TIMEZONE": "Local"}},
		{name: "malformed area", env: map[string]string{"COLLECT_AREAS": "false_bay"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg := &AppConfig{}
			require.NoError(t, envconfig.Process("", cfg))
			assert.Error(t, cfg.finish())
		})
	}
}
