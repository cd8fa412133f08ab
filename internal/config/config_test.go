package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventra-io/eventra/internal/identity"
)

func resetViper(t *testing.T) {
	t.Helper()
	t.Setenv("EVENTRA_DATA_DIR", "")
	t.Setenv("EVENTRA_LISTEN_ADDR", "")
	t.Setenv("EVENTRA_RATE_LIMIT_RPS", "")
	t.Setenv("EVENTRA_RETENTION_DAYS", "")
	t.Setenv("EVENTRA_SWEEP_SCHEDULE", "")
	t.Setenv("EVENTRA_OTEL_ENABLED", "")
	viper.Reset()
	viper.SetEnvPrefix("EVENTRA")
	viper.AutomaticEnv()
	viper.SetDefault(KeyListenAddr, DefaultListenAddr)
	viper.SetDefault(KeyRateLimitRPS, DefaultRateLimitRPS)
	viper.SetDefault(KeyRetentionDays, DefaultRetentionDays)
	viper.SetDefault(KeySweepSchedule, DefaultSweepSchedule)
}

func TestLoad_Defaults(t *testing.T) {
	resetViper(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultListenAddr, cfg.ListenAddr)
	assert.Equal(t, DefaultRateLimitRPS, cfg.RateLimitRPS)
	assert.Equal(t, DefaultRetentionDays, cfg.RetentionDays)
	assert.Equal(t, DefaultSweepSchedule, cfg.SweepSchedule)
	assert.False(t, cfg.OTelEnabled)
	assert.Empty(t, cfg.APIKeys)
	assert.NotEmpty(t, cfg.DataDir)
	assert.Contains(t, cfg.DBPath(), "eventra.db")
}

func TestLoad_EnvOverrides(t *testing.T) {
	resetViper(t)
	t.Setenv("EVENTRA_DATA_DIR", "/tmp/eventra-test")
	t.Setenv("EVENTRA_LISTEN_ADDR", ":9999")
	t.Setenv("EVENTRA_RETENTION_DAYS", "7")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/eventra-test", cfg.DataDir)
	assert.Equal(t, ":9999", cfg.ListenAddr)
	assert.Equal(t, 7, cfg.RetentionDays)
}

func TestLoad_APIKeys(t *testing.T) {
	resetViper(t)
	viper.Set(KeyAPIKeys, map[string]string{
		"key-one": "client:cli_1",
		"key-two": "venue:ven_1",
	})

	cfg, err := Load()
	require.NoError(t, err)
	require.Len(t, cfg.APIKeys, 2)
	assert.Equal(t, identity.Identity{ActorID: "cli_1", Role: identity.RoleClient}, cfg.APIKeys["key-one"])
	assert.Equal(t, identity.Identity{ActorID: "ven_1", Role: identity.RoleVenue}, cfg.APIKeys["key-two"])
}

func TestLoad_APIKeysBadRole(t *testing.T) {
	resetViper(t)
	viper.Set(KeyAPIKeys, map[string]string{"key-one": "admin:x"})

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestLoad_APIKeysMissingActor(t *testing.T) {
	resetViper(t)
	viper.Set(KeyAPIKeys, map[string]string{"key-one": "client"})

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "role:actor_id")
}

func TestLoad_InvalidRetention(t *testing.T) {
	resetViper(t)
	t.Setenv("EVENTRA_RETENTION_DAYS", "0")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "retention_days")
}
