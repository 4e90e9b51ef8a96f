// Package config reads runtime settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rkissoon/randomart/internal/domain"
)

// Config holds the settings shared by every subcommand.
type Config struct {
	Port         string
	DatabasePath string
	LogLevel     string
	Bounds       domain.Bounds
	Interval     time.Duration
}

// FromEnv reads PORT, DATABASE_PATH, LOG_LEVEL, RANDOMART_WIDTH,
// RANDOMART_HEIGHT and RANDOMART_SPEED (milliseconds per step).
func FromEnv() (Config, error) {
	cfg := Config{
		Port:         envOrDefault("PORT", "8080"),
		DatabasePath: envOrDefault("DATABASE_PATH", "randomart.db"),
		LogLevel:     envOrDefault("LOG_LEVEL", "info"),
	}

	width, err := intFromEnv("RANDOMART_WIDTH", domain.DefaultBounds.Width)
	if err != nil {
		return Config{}, err
	}
	height, err := intFromEnv("RANDOMART_HEIGHT", domain.DefaultBounds.Height)
	if err != nil {
		return Config{}, err
	}
	cfg.Bounds = domain.Bounds{Width: width, Height: height}
	if err := cfg.Bounds.Validate(); err != nil {
		return Config{}, err
	}

	speed, err := intFromEnv("RANDOMART_SPEED", 100)
	if err != nil {
		return Config{}, err
	}
	if speed <= 0 {
		return Config{}, &domain.ValidationError{Field: "RANDOMART_SPEED", Reason: "must be positive"}
	}
	cfg.Interval = time.Duration(speed) * time.Millisecond

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intFromEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	return n, nil
}
