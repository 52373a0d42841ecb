// Package config loads host configuration from environment variables, with
// an optional .env bootstrap for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the host configuration.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string

	// PoolSize bounds concurrent recognition work.
	PoolSize int

	// LangPriority is the ordered list of language combinations tried for
	// the default engine, e.g. "kor+jpn+eng,kor+eng,eng".
	LangPriority [][]string

	// DatabaseURL enables the PostgreSQL translation-memory corpus provider
	// when set. Empty means corpora arrive inline with each request.
	DatabaseURL string

	// TessdataPrefix overrides the Tesseract language-data directory.
	TessdataPrefix string
}

// Load reads configuration from the environment. A .env file in the working
// directory is merged in first when present; real environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:       getEnvOrDefault("PANELSCAN_LOG_LEVEL", "info"),
		PoolSize:       getEnvAsIntOrDefault("PANELSCAN_POOL_SIZE", 4),
		LangPriority:   parsePriority(os.Getenv("PANELSCAN_LANG_PRIORITY")),
		DatabaseURL:    os.Getenv("PANELSCAN_DATABASE_URL"),
		TessdataPrefix: os.Getenv("PANELSCAN_TESSDATA_PREFIX"),
	}

	// Tesseract reads TESSDATA_PREFIX from the process environment.
	if cfg.TessdataPrefix != "" {
		if err := os.Setenv("TESSDATA_PREFIX", cfg.TessdataPrefix); err != nil {
			return nil, fmt.Errorf("failed to set TESSDATA_PREFIX: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration is usable.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("PANELSCAN_LOG_LEVEL must be debug, info, warn or error, got %q", c.LogLevel)
	}
	if c.PoolSize < 1 || c.PoolSize > 64 {
		return fmt.Errorf("PANELSCAN_POOL_SIZE must be between 1 and 64, got %d", c.PoolSize)
	}
	return nil
}

// parsePriority parses "kor+jpn+eng,eng" into language combinations. Empty
// input yields nil, which selects the registry defaults.
func parsePriority(s string) [][]string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	var priority [][]string
	for _, combo := range strings.Split(s, ",") {
		var langs []string
		for _, l := range strings.Split(combo, "+") {
			if l = strings.TrimSpace(l); l != "" {
				langs = append(langs, l)
			}
		}
		if len(langs) > 0 {
			priority = append(priority, langs)
		}
	}
	return priority
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
