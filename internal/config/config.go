package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config keeps runtime settings for the server.
type Config struct {
	ListenAddr    string
	DatabaseURL   string
	SweepInterval time.Duration
	LogLevel      slog.Level
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	cfg := Config{
		ListenAddr:    strings.TrimSpace(os.Getenv("LISTEN_ADDR")),
		DatabaseURL:   strings.TrimSpace(os.Getenv("DATABASE_URL")),
		SweepInterval: parseMinutes(strings.TrimSpace(os.Getenv("SWEEP_INTERVAL_MINUTES"))),
		LogLevel:      parseLogLevel(strings.TrimSpace(os.Getenv("LOG_LEVEL"))),
	}

	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "planassist.db"
	}
	if cfg.SweepInterval == 0 {
		cfg.SweepInterval = 15 * time.Minute
	}
	if cfg.SweepInterval < time.Minute {
		return cfg, fmt.Errorf("SWEEP_INTERVAL_MINUTES must be at least 1")
	}

	return cfg, nil
}

func parseMinutes(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	minutes, err := strconv.Atoi(raw)
	if err != nil || minutes <= 0 {
		return 0
	}
	return time.Duration(minutes) * time.Minute
}

func parseLogLevel(raw string) slog.Level {
	switch strings.ToLower(raw) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
