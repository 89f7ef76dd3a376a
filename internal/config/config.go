package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/menna-app/menna-go/internal/constants"
	"github.com/menna-app/menna-go/internal/domain"
	"github.com/menna-app/menna-go/pkg/errors"
)

type DataSourceMode string

const (
	DataSourceLive     DataSourceMode = "live"
	DataSourceFixture  DataSourceMode = "fixture"
	DataSourceFallback DataSourceMode = "fallback"
)

type Config struct {
	API     APIConfig
	Locale  LocaleConfig
	Data    DataConfig
	Redis   RedisConfig
	Metrics MetricsConfig
	Stub    StubConfig
	Logging LoggingConfig
}

type APIConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

type LocaleConfig struct {
	Default domain.Locale
}

type DataConfig struct {
	Source DataSourceMode
	// FailureThreshold consecutive live failures open the fallback breaker
	// for Cooldown. Only used by the fallback source.
	FailureThreshold int
	Cooldown         time.Duration
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
	TTL      time.Duration
}

type MetricsConfig struct {
	Addr string
}

type StubConfig struct {
	Addr         string
	JWTSecret    string
	DemoEmail    string
	DemoPassword string
}

type LoggingConfig struct {
	Level string
	File  string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		API: APIConfig{
			BaseURL: resolveBaseURL(),
			Token:   getEnv("API_TOKEN", ""),
			Timeout: time.Duration(getEnvInt("HTTP_TIMEOUT_SECONDS", 0)) * time.Second,
		},
		Locale: LocaleConfig{
			Default: domain.Locale(strings.ToLower(getEnv("DEFAULT_LOCALE", string(domain.LocaleArabic)))),
		},
		Data: DataConfig{
			Source:           DataSourceMode(strings.ToLower(getEnv("DATA_SOURCE", string(DataSourceFallback)))),
			FailureThreshold: getEnvInt("FALLBACK_FAILURE_THRESHOLD", 3),
			Cooldown:         time.Duration(getEnvInt("FALLBACK_COOLDOWN_SECONDS", 30)) * time.Second,
		},
		Redis: RedisConfig{
			Enabled:  getEnvBool("CACHE_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			TTL:      time.Duration(getEnvInt("CACHE_TTL_SECONDS", 0)) * time.Second,
		},
		Metrics: MetricsConfig{
			Addr: getEnv("METRICS_ADDR", ""),
		},
		Stub: StubConfig{
			Addr:         getEnv("STUB_ADDR", ":8000"),
			JWTSecret:    getEnv("STUB_JWT_SECRET", "menna-dev-secret"),
			DemoEmail:    getEnv("STUB_DEMO_EMAIL", "demo@menna.app"),
			DemoPassword: getEnv("STUB_DEMO_PASSWORD", "menna-demo"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", "logs/menna.log"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	parsed, err := url.Parse(c.API.BaseURL)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return errors.NewConfigError(fmt.Sprintf("API_BASE_URL must be an absolute http(s) URL, got %q", c.API.BaseURL), "API_BASE_URL")
	}
	if c.API.Timeout < 0 {
		return errors.NewConfigError("HTTP_TIMEOUT_SECONDS must not be negative", "HTTP_TIMEOUT_SECONDS")
	}
	if !c.Locale.Default.IsValid() {
		return errors.NewConfigError(fmt.Sprintf("DEFAULT_LOCALE %q is not one of ar, he, en", c.Locale.Default), "DEFAULT_LOCALE")
	}
	switch c.Data.Source {
	case DataSourceLive, DataSourceFixture, DataSourceFallback:
	default:
		return errors.NewConfigError(fmt.Sprintf("DATA_SOURCE %q is not one of live, fixture, fallback", c.Data.Source), "DATA_SOURCE")
	}
	if c.Data.FailureThreshold < 0 {
		return errors.NewConfigError("FALLBACK_FAILURE_THRESHOLD must not be negative", "FALLBACK_FAILURE_THRESHOLD")
	}
	if c.Redis.Enabled && c.Redis.Host == "" {
		return errors.NewConfigError("REDIS_HOST is required when CACHE_ENABLED is set", "REDIS_HOST")
	}
	return nil
}

// resolveBaseURL follows the platform lookup order: mobile/app env, then the
// web build variable, then the local development backend.
func resolveBaseURL() string {
	if value := getEnv("API_BASE_URL", ""); value != "" {
		return strings.TrimRight(value, "/")
	}
	if value := getEnv("NEXT_PUBLIC_API_BASE_URL", ""); value != "" {
		return strings.TrimRight(value, "/")
	}
	return constants.APIConfig.DefaultBaseURL
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
