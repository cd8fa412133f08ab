// Package config holds operator-level configuration for an Eventra
// installation: data directory, listen address, API key table, rate
// limits, and retention settings. Values come from env vars with the
// EVENTRA_ prefix (e.g. EVENTRA_DATA_DIR) or an optional
// eventra.config.yaml in the working directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/eventra-io/eventra/internal/identity"
)

// Viper keys. Each maps to an env var with the EVENTRA_ prefix
// (e.g. "listen_addr" → EVENTRA_LISTEN_ADDR) and to a YAML field in
// eventra.config.yaml.
const (
	KeyDataDir       = "data_dir"
	KeyListenAddr    = "listen_addr"
	KeyAPIKeys       = "api_keys"
	KeyRateLimitRPS  = "rate_limit_rps"
	KeyRetentionDays = "retention_days"
	KeySweepSchedule = "sweep_schedule"
	KeyOTelEnabled   = "otel_enabled"
)

const (
	DefaultListenAddr    = ":8480"
	DefaultRateLimitRPS  = 10
	DefaultRetentionDays = 90
	DefaultSweepSchedule = "0 3 * * *"
)

// Config holds resolved configuration for an Eventra process.
type Config struct {
	DataDir       string                       // Base directory for all state (~/.eventra)
	ListenAddr    string                       // HTTP listen address
	APIKeys       map[string]identity.Identity // API key -> acting identity
	RateLimitRPS  int                          // Per-actor tool calls per second (0 disables)
	RetentionDays int                          // Days soft-deleted rows survive before the purge
	SweepSchedule string                       // Cron expression for the retention sweep
	OTelEnabled   bool                         // Emit OTel traces to stdout
}

// DBPath returns the full path to the SQLite database.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "eventra.db")
}

// EnsureDataDir creates the data directory if it doesn't exist.
func (c *Config) EnsureDataDir() error {
	return os.MkdirAll(c.DataDir, 0o700)
}

func init() {
	viper.SetEnvPrefix("EVENTRA")
	viper.AutomaticEnv()
	viper.SetDefault(KeyListenAddr, DefaultListenAddr)
	viper.SetDefault(KeyRateLimitRPS, DefaultRateLimitRPS)
	viper.SetDefault(KeyRetentionDays, DefaultRetentionDays)
	viper.SetDefault(KeySweepSchedule, DefaultSweepSchedule)
}

// Load reads configuration from Viper (which merges env vars, config
// file, and defaults) and returns a validated Config.
func Load() (*Config, error) {
	keys, err := parseAPIKeys(viper.GetStringMapString(KeyAPIKeys))
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	cfg := &Config{
		DataDir:       resolveDataDir(),
		ListenAddr:    viper.GetString(KeyListenAddr),
		APIKeys:       keys,
		RateLimitRPS:  viper.GetInt(KeyRateLimitRPS),
		RetentionDays: viper.GetInt(KeyRetentionDays),
		SweepSchedule: viper.GetString(KeySweepSchedule),
		OTelEnabled:   viper.GetBool(KeyOTelEnabled),
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func resolveDataDir() string {
	if dir := viper.GetString(KeyDataDir); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".eventra"
	}
	return filepath.Join(home, ".eventra")
}

// parseAPIKeys turns the raw key table into identities. Values use the
// form "role:actor_id", e.g. "venue:evt_a1b2".
func parseAPIKeys(raw map[string]string) (map[string]identity.Identity, error) {
	keys := make(map[string]identity.Identity, len(raw))
	for apiKey, v := range raw {
		role, actorID, ok := strings.Cut(v, ":")
		if !ok || actorID == "" {
			return nil, fmt.Errorf("api_keys value %q must be role:actor_id", v)
		}
		r, err := identity.ParseRole(role)
		if err != nil {
			return nil, fmt.Errorf("api_keys value %q: %w", v, err)
		}
		keys[apiKey] = identity.Identity{ActorID: actorID, Role: r}
	}
	return keys, nil
}

func (c *Config) validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("listen_addr must be set")
	}
	if c.RateLimitRPS < 0 {
		return fmt.Errorf("rate_limit_rps must not be negative")
	}
	if c.RetentionDays <= 0 {
		return fmt.Errorf("retention_days must be positive")
	}
	return nil
}
