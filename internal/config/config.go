// Package config defines service configuration structures and loading.
//
// Conventions follow the rest of the repo: defaults come from New, Load
// layers an optional YAML file and environment variables on top, and
// external errors are wrapped via this package's sentinels.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Store selects the state backend: "memory" or "postgres".
	Store string `koanf:"store"`

	// DatabaseURL is the Postgres connection string, required when
	// Store is "postgres".
	DatabaseURL string `koanf:"database_url"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// MetricsCron schedules the background gauge refresh job.
	MetricsCron string `koanf:"metrics_cron"`
}

// Store backends.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":8080",
		Store:               StoreMemory,
		MaxLeaderboardLimit: 100,
		MetricsCron:         "@every 1m",
	}
}
