// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds the host process configuration, sourced from the environment
// with an optional .env file for local development.
type Config struct {
	ListenAddr  string        // HTTP/WebSocket listen address.
	RedisAddr   string        // Snapshot cache address; empty disables caching.
	PostgresDSN string        // Result archive DSN; empty disables archival.
	TurnTimer   time.Duration // Per-move timeout; 0 disables auto-moves.
	SnapshotTTL time.Duration // How long live snapshots persist in Redis.
	LogLevel    logrus.Level
}

// Load reads configuration from the environment. A missing .env file is not
// an error; explicit environment variables always win over file contents.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ListenAddr:  envOr("WIZARD_LISTEN_ADDR", ":8080"),
		RedisAddr:   envOr("WIZARD_REDIS_ADDR", ""),
		PostgresDSN: envOr("WIZARD_POSTGRES_DSN", ""),
		TurnTimer:   30 * time.Second,
		SnapshotTTL: 24 * time.Hour,
		LogLevel:    logrus.InfoLevel,
	}

	if v := os.Getenv("WIZARD_TURN_TIMER_SEC"); v != "" {
		sec, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid WIZARD_TURN_TIMER_SEC %q: %w", v, err)
		}
		cfg.TurnTimer = time.Duration(sec) * time.Second
	}
	if v := os.Getenv("WIZARD_SNAPSHOT_TTL_HOURS"); v != "" {
		hours, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid WIZARD_SNAPSHOT_TTL_HOURS %q: %w", v, err)
		}
		cfg.SnapshotTTL = time.Duration(hours) * time.Hour
	}
	if v := os.Getenv("WIZARD_LOG_LEVEL"); v != "" {
		level, err := logrus.ParseLevel(v)
		if err != nil {
			return nil, fmt.Errorf("invalid WIZARD_LOG_LEVEL %q: %w", v, err)
		}
		cfg.LogLevel = level
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
