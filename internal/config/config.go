package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultListenAddr     = ":8080"
	defaultBackendBaseURL = "http://localhost:5000"
	defaultRequestTimeout = "15s"
	defaultSessionTTL     = "168h"
	defaultDatabaseURL    = "summittrek.db"
	defaultCookieName     = "summit_session"
	defaultCookieSecure   = "false"
)

// Config is the runtime configuration for the web frontend service.
type Config struct {
	ListenAddr     string
	BackendBaseURL string
	RequestTimeout time.Duration
	DatabaseURL    string
	SessionTTL     time.Duration
	CookieName     string
	CookieSecure   bool
	CORSOrigins    []string
}

func Load() (*Config, error) {
	cfg := &Config{
		ListenAddr:     getEnv("LISTEN_ADDR", defaultListenAddr),
		BackendBaseURL: strings.TrimRight(getEnv("BACKEND_BASE_URL", defaultBackendBaseURL), "/"),
		DatabaseURL:    getEnv("DATABASE_URL", defaultDatabaseURL),
		CookieName:     getEnv("SESSION_COOKIE_NAME", defaultCookieName),
		CookieSecure:   parseBoolEnv("COOKIE_SECURE", defaultCookieSecure),
	}

	var err error
	cfg.RequestTimeout, err = parseDurationEnv("REQUEST_TIMEOUT", defaultRequestTimeout)
	if err != nil {
		return nil, err
	}
	cfg.SessionTTL, err = parseDurationEnv("SESSION_TTL", defaultSessionTTL)
	if err != nil {
		return nil, err
	}

	if extra := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS")); extra != "" {
		for _, o := range strings.Split(extra, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	} else {
		cfg.CORSOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be > 0")
	}
	if cfg.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be > 0")
	}
	if cfg.BackendBaseURL == "" {
		return fmt.Errorf("BACKEND_BASE_URL must not be empty")
	}
	return nil
}

func getEnv(name, def string) string {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	return def
}

func parseDurationEnv(name, def string) (time.Duration, error) {
	raw := getEnv(name, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", name, raw, err)
	}
	return d, nil
}

func parseBoolEnv(name, def string) bool {
	v, err := strconv.ParseBool(getEnv(name, def))
	if err != nil {
		return false
	}
	return v
}
