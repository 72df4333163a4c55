// Package config reads runtime settings from the environment. A .env file in
// the working directory is loaded first when present.
package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

var ErrMissingAPIKey = errors.New("TMDB_API_KEY is not set")

type Config struct {
	TMDbAPIKey       string
	TMDbBaseURL      string
	TMDbImageBaseURL string
	TMDbLanguage     string
	TMDbRateLimit    float64

	Port           string
	SearchDebounce time.Duration
	RequestTimeout time.Duration
	MaxSessions    int
	StaleGuard     bool

	LogFile      string
	LogMaxSizeMB int
}

// Load reads the .env file at envPath (ignored if missing) and then the
// process environment. Only the API key is mandatory.
func Load(envPath string) (*Config, error) {
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Printf("[CONFIG] Could not read %s: %v", envPath, err)
		}
	}

	cfg := &Config{
		TMDbAPIKey:       getEnv("TMDB_API_KEY", ""),
		TMDbBaseURL:      getEnv("TMDB_BASE_URL", "https://api.themoviedb.org/3"),
		TMDbImageBaseURL: getEnv("TMDB_IMAGE_BASE_URL", "https://image.tmdb.org/t/p"),
		TMDbLanguage:     getEnv("TMDB_LANGUAGE", "en-US"),
		TMDbRateLimit:    4,
		Port:             getEnv("PORT", "8080"),
		SearchDebounce:   500 * time.Millisecond,
		RequestTimeout:   15 * time.Second,
		MaxSessions:      256,
		StaleGuard:       getEnv("STALE_GUARD", "false") == "true",
		LogFile:          getEnv("LOG_FILE", ""),
		LogMaxSizeMB:     50,
	}

	if v := getEnv("TMDB_RATE_LIMIT", ""); v != "" {
		if rps, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.TMDbRateLimit = rps
		} else {
			log.Printf("[CONFIG] Invalid TMDB_RATE_LIMIT %q, using %v", v, cfg.TMDbRateLimit)
		}
	}
	if v := getEnv("SEARCH_DEBOUNCE_MS", ""); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			cfg.SearchDebounce = time.Duration(ms) * time.Millisecond
		} else {
			log.Printf("[CONFIG] Invalid SEARCH_DEBOUNCE_MS %q, using %s", v, cfg.SearchDebounce)
		}
	}
	if v := getEnv("REQUEST_TIMEOUT", ""); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.RequestTimeout = d
		} else {
			log.Printf("[CONFIG] Invalid REQUEST_TIMEOUT %q, using %s", v, cfg.RequestTimeout)
		}
	}
	if v := getEnv("MAX_SESSIONS", ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxSessions = n
		} else {
			log.Printf("[CONFIG] Invalid MAX_SESSIONS %q, using %d", v, cfg.MaxSessions)
		}
	}
	if v := getEnv("LOG_MAX_SIZE_MB", ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.LogMaxSizeMB = n
		} else {
			log.Printf("[CONFIG] Invalid LOG_MAX_SIZE_MB %q, using %d", v, cfg.LogMaxSizeMB)
		}
	}

	if cfg.TMDbAPIKey == "" {
		return cfg, ErrMissingAPIKey
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
