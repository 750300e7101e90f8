// Package config loads server configuration from the environment.
package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Addr         string
	DatabasePath string // SQLite file, ":memory:" for ephemeral
	LogLevel     string // "debug", "info", "warn", "error"
	DevMode      bool   // console log encoding, verbose errors
	SeedDemo     bool   // seed demo metadata on startup if the store is empty

	// Event bus
	EventBufferSize int

	// Editing sessions
	SessionMaxAge      time.Duration
	SessionIdleTimeout time.Duration
}

func Load() Config {
	return Config{
		Addr:               getenv("ADMIN_ADDR", ":8080"),
		DatabasePath:       getenv("ADMIN_DB_PATH", "./data/admin.db"),
		LogLevel:           getenv("ADMIN_LOG_LEVEL", "info"),
		DevMode:            getenvBool("ADMIN_DEV_MODE", false),
		SeedDemo:           getenvBool("ADMIN_SEED_DEMO", false),
		EventBufferSize:    getenvInt("ADMIN_EVENT_BUFFER", 256),
		SessionMaxAge:      time.Duration(getenvInt("ADMIN_SESSION_MAX_AGE_SECONDS", 3600)) * time.Second,
		SessionIdleTimeout: time.Duration(getenvInt("ADMIN_SESSION_IDLE_SECONDS", 900)) * time.Second,
	}
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
