package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

type Config struct {
	DBPath      string
	LogLevel    string
	LogFormat   string
	StatWorkers int
}

// Load reads configuration from the environment, after loading a .env file
// from the working directory when one exists.
func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		DBPath:    getEnv("SCRIM_DB_PATH", DefaultDBPath()),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
	}

	workers, err := strconv.Atoi(getEnv("STAT_WORKERS", "8"))
	if err != nil || workers <= 0 {
		return nil, fmt.Errorf("STAT_WORKERS must be a positive integer, got %q", os.Getenv("STAT_WORKERS"))
	}
	cfg.StatWorkers = workers

	if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	switch cfg.LogFormat {
	case "console", "json":
	default:
		return nil, fmt.Errorf("LOG_FORMAT must be console or json, got %q", cfg.LogFormat)
	}

	logger.Debug().
		Str("db_path", cfg.DBPath).
		Str("log_level", cfg.LogLevel).
		Str("log_format", cfg.LogFormat).
		Int("stat_workers", cfg.StatWorkers).
		Msg("configuration loaded")

	return cfg, nil
}

// DefaultDBPath is ~/.scrimmetrics/metrics.db, or a path relative to the
// working directory when the home directory is unknown.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".scrimmetrics", "metrics.db")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
