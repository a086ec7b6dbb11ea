// Package config reads server settings from the environment. A .env file
// in the working directory is loaded by the main package before Load runs.
package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port           string
	ContentPath    string
	AdminUsername  string
	AdminPassword  string
	ScrollThrottle time.Duration
	LogLevel       string
	LogFormat      string
}

func Load() Config {
	return Config{
		Port:           getenv("PORT", "8080"),
		ContentPath:    getenv("CONTENT_PATH", ""),
		AdminUsername:  getenv("ADMIN_USERNAME", ""),
		AdminPassword:  getenv("ADMIN_PASSWORD", ""),
		ScrollThrottle: time.Duration(getenvInt("SCROLL_THROTTLE_MS", 50)) * time.Millisecond,
		LogLevel:       getenv("LOG_LEVEL", "info"),
		LogFormat:      getenv("LOG_FORMAT", "console"),
	}
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string { return ":" + c.Port }

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
