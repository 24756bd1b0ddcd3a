package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr                 string
	DBPath               string
	LogLevel             string
	SessionFetchLimit    int
	SweepIntervalMinutes int
	SweepWorkerCount     int
	SweepQueueSize       int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:                 envOr("ADDR", ":8080"),
		DBPath:               envOr("DB_PATH", "file:adaptengine.db"),
		LogLevel:             envOr("LOG_LEVEL", "INFO"),
		SessionFetchLimit:    envIntOr("SESSION_FETCH_LIMIT", 15),
		SweepIntervalMinutes: envIntOr("SWEEP_INTERVAL_MINUTES", 15),
		SweepWorkerCount:     envIntOr("SWEEP_WORKER_COUNT", 2),
		SweepQueueSize:       envIntOr("SWEEP_QUEUE_SIZE", 64),
	}
}

// Validate checks the configuration for values the server cannot start with.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("ADDR cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.SessionFetchLimit < 1 {
		return fmt.Errorf("SESSION_FETCH_LIMIT must be at least 1")
	}
	if c.SweepIntervalMinutes < 1 {
		return fmt.Errorf("SWEEP_INTERVAL_MINUTES must be at least 1")
	}
	if c.SweepWorkerCount < 1 {
		return fmt.Errorf("SWEEP_WORKER_COUNT must be at least 1")
	}
	if c.SweepQueueSize < 1 {
		return fmt.Errorf("SWEEP_QUEUE_SIZE must be at least 1")
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}
