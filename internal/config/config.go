package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config contains all runtime settings for the travel planning service.
type Config struct {
	BindAddr         string
	ShutdownTimeout  time.Duration
	MetricsNamespace string

	AllowAnyOrigin bool

	GuardrailsEnabled bool
	GuardrailsTimeout time.Duration
	ModerationURL     string
	ModerationAPIKey  string
	ModerationModel   string

	AgentAdapterMode string
	AgentHTTPURL     string

	DurableStoreEnabled bool
	RedisAddr           string
	RedisPassword       string
	RedisDB             int
	DatabaseURL         string
	BasePrefix          string
	MemoryPrefix        string

	MaxHistoryTurns int
	SessionTTL      time.Duration
	JanitorInterval time.Duration
	PerfWindowSize  int
}

// Load reads environment variables and applies safe defaults.
func Load() (Config, error) {
	cfg := Config{
		BindAddr:          envOrDefault("APP_BIND_ADDR", ":8080"),
		MetricsNamespace:  envOrDefault("APP_METRICS_NAMESPACE", "econav"),
		AllowAnyOrigin:    false,
		GuardrailsTimeout: 5 * time.Second,
		ModerationURL:     stringsTrimSpace("MODERATION_URL"),
		ModerationAPIKey:  stringsTrimSpace("MODERATION_API_KEY"),
		ModerationModel:   envOrDefault("MODERATION_MODEL", "omni-moderation-latest"),
		AgentAdapterMode:  envOrDefault("AGENT_ADAPTER_MODE", "auto"),
		AgentHTTPURL:      stringsTrimSpace("AGENT_HTTP_URL"),
		RedisAddr:         stringsTrimSpace("REDIS_ADDR"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		DatabaseURL:       stringsTrimSpace("DATABASE_URL"),
		BasePrefix:        envOrDefault("BASE_PREFIX", "econav"),
		MemoryPrefix:      envOrDefault("MEMORY_PREFIX", "memory"),
		MaxHistoryTurns:   10,
		SessionTTL:        24 * time.Hour,
		JanitorInterval:   10 * time.Minute,
		PerfWindowSize:    256,
		ShutdownTimeout:   15 * time.Second,
	}
	var err error
	cfg.ShutdownTimeout, err = durationFromEnv("APP_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.AllowAnyOrigin, err = boolFromEnv("APP_ALLOW_ANY_ORIGIN", cfg.AllowAnyOrigin)
	if err != nil {
		return Config{}, err
	}
	cfg.GuardrailsEnabled, err = boolFromEnv("GUARDRAILS_ENABLED", true)
	if err != nil {
		return Config{}, err
	}
	cfg.GuardrailsTimeout, err = durationFromEnv("GUARDRAILS_TIMEOUT", cfg.GuardrailsTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.DurableStoreEnabled, err = boolFromEnv("USE_DURABLE_STORE", false)
	if err != nil {
		return Config{}, err
	}
	cfg.RedisDB, err = intFromEnv("REDIS_DB", 0)
	if err != nil {
		return Config{}, err
	}
	cfg.MaxHistoryTurns, err = intFromEnv("MAX_HISTORY_TURNS", cfg.MaxHistoryTurns)
	if err != nil {
		return Config{}, err
	}
	cfg.SessionTTL, err = durationFromEnv("SESSION_TTL", cfg.SessionTTL)
	if err != nil {
		return Config{}, err
	}
	cfg.JanitorInterval, err = durationFromEnv("SESSION_JANITOR_INTERVAL", cfg.JanitorInterval)
	if err != nil {
		return Config{}, err
	}
	cfg.PerfWindowSize, err = intFromEnv("PERF_WINDOW_SIZE", cfg.PerfWindowSize)
	if err != nil {
		return Config{}, err
	}

	if cfg.MaxHistoryTurns <= 0 {
		return Config{}, fmt.Errorf("MAX_HISTORY_TURNS must be positive")
	}
	if cfg.SessionTTL < time.Minute {
		return Config{}, fmt.Errorf("SESSION_TTL must be at least 1m")
	}
	if cfg.JanitorInterval < time.Second {
		return Config{}, fmt.Errorf("SESSION_JANITOR_INTERVAL must be at least 1s")
	}
	if cfg.PerfWindowSize <= 0 {
		return Config{}, fmt.Errorf("PERF_WINDOW_SIZE must be positive")
	}
	if cfg.GuardrailsTimeout <= 0 {
		return Config{}, fmt.Errorf("GUARDRAILS_TIMEOUT must be positive")
	}
	if cfg.DurableStoreEnabled && cfg.RedisAddr == "" && cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("USE_DURABLE_STORE requires REDIS_ADDR or DATABASE_URL")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func stringsTrimSpace(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return d, nil
}

func intFromEnv(key string, fallback int) (int, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return n, nil
}

func boolFromEnv(key string, fallback bool) (bool, error) {
	v := strings.ToLower(stringsTrimSpace(key))
	if v == "" {
		return fallback, nil
	}
	switch v {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("%s parse error: expected bool", key)
	}
}
