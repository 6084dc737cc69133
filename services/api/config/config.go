package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/02loveslollipop/Shizuku-irrigation/services/api/plant"
)

// Config holds environment-driven settings for the irrigation API.
type Config struct {
	Port           int
	DatabaseURL    string
	Strategy       plant.Strategy
	ModelFile      string
	CORSOrigins    []string
	LogLevel       string
	Env            string
	MetricsEnabled bool
	KafkaBrokers   []string
	KafkaTopic     string
	RequestTimeout time.Duration
}

// Load reads configuration from environment variables (optionally .env).
func Load() (Config, error) {
	_ = godotenv.Load() // ignore missing file

	cfg := Config{
		Port:           5000,
		Strategy:       plant.StrategyThreshold,
		CORSOrigins:    []string{"*"},
		LogLevel:       "info",
		Env:            "production",
		MetricsEnabled: true,
		KafkaTopic:     "irrigation.evaluations",
		RequestTimeout: 10 * time.Second,
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			cfg.Port = port
		} else {
			return cfg, fmt.Errorf("invalid PORT: %s", portStr)
		}
	} else if portStr := os.Getenv("API_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			cfg.Port = port
		} else {
			return cfg, fmt.Errorf("invalid API_PORT: %s", portStr)
		}
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.ModelFile = os.Getenv("FUZZY_MODEL_FILE")

	if v := os.Getenv("PUMP_STRATEGY"); v != "" {
		strategy, err := plant.ParseStrategy(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid PUMP_STRATEGY: %w", err)
		}
		cfg.Strategy = strategy
	}

	if v := os.Getenv("CORS_ALLOW_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitList(v)
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.Env = v
	}

	if v := os.Getenv("METRICS_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid METRICS_ENABLED: %s", v)
		}
		cfg.MetricsEnabled = enabled
	}

	cfg.KafkaBrokers = splitList(os.Getenv("KAFKA_BROKERS"))
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		cfg.KafkaTopic = v
	}

	if v := os.Getenv("REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return cfg, fmt.Errorf("invalid REQUEST_TIMEOUT: %s", v)
		}
		cfg.RequestTimeout = d
	}

	return cfg, nil
}

// ListenAddr returns the host:port string for the HTTP server.
func (c Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
