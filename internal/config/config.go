package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         int
	NatsURL      string
	NatsToken    string
	DatabaseURL  string
	LogLevel     string
	APIToken     string
	PatternsFile string
	Timezone     string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first without overriding variables already set.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:         envInt("NOTEWISE_PORT", 8760),
		NatsURL:      envStr("NATS_URL", "nats://hermes:4222"),
		NatsToken:    envStr("NATS_TOKEN", ""),
		DatabaseURL:  envStr("DATABASE_URL", ""),
		LogLevel:     envStr("LOG_LEVEL", "info"),
		APIToken:     envStr("NOTEWISE_API_TOKEN", ""),
		PatternsFile: envStr("NOTEWISE_PATTERNS_FILE", ""),
		Timezone:     envStr("NOTEWISE_TIMEZONE", "UTC"),
	}
}

// Location resolves Timezone. Relative dates ("tomorrow", "by Friday") are
// computed in this zone.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
