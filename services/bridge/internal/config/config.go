package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultTopic          = "invernadero/sensores"
	defaultClientID       = "irrigation-bridge"
	defaultAPIURL         = "http://localhost:5000"
	defaultRequestTimeout = 10 * time.Second
	defaultValueEpsilon   = 0.01
)

// Config holds runtime configuration for the MQTT bridge.
type Config struct {
	Broker         string
	Topic          string
	ClientID       string
	QoS            byte
	APIURL         string
	RequestTimeout time.Duration
	MinInterval    time.Duration
	ValueEpsilon   float64
	LogLevel       string
	Env            string
	DryRun         bool
}

// Load reads configuration from environment variables (optionally .env).
func Load() (Config, error) {
	_ = godotenv.Load(".env")

	cfg := Config{
		Topic:          defaultTopic,
		ClientID:       defaultClientID,
		APIURL:         defaultAPIURL,
		RequestTimeout: defaultRequestTimeout,
		ValueEpsilon:   defaultValueEpsilon,
		LogLevel:       "info",
		Env:            "production",
	}

	cfg.Broker = strings.TrimSpace(os.Getenv("MQTT_BROKER"))
	if cfg.Broker == "" {
		return cfg, errors.New("MQTT_BROKER is required")
	}

	if v := strings.TrimSpace(os.Getenv("MQTT_TOPIC")); v != "" {
		cfg.Topic = v
	}
	if v := strings.TrimSpace(os.Getenv("MQTT_CLIENT_ID")); v != "" {
		cfg.ClientID = v
	}

	if v := strings.TrimSpace(os.Getenv("MQTT_QOS")); v != "" {
		q, err := strconv.Atoi(v)
		if err != nil || q < 0 || q > 2 {
			return cfg, fmt.Errorf("invalid MQTT_QOS: %s", v)
		}
		cfg.QoS = byte(q)
	}

	if v := strings.TrimSpace(os.Getenv("API_URL")); v != "" {
		cfg.APIURL = strings.TrimRight(v, "/")
	}

	if v := strings.TrimSpace(os.Getenv("BRIDGE_REQUEST_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid BRIDGE_REQUEST_TIMEOUT: %w", err)
		}
		cfg.RequestTimeout = d
	}

	if v := strings.TrimSpace(os.Getenv("BRIDGE_MIN_INTERVAL")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid BRIDGE_MIN_INTERVAL: %w", err)
		}
		cfg.MinInterval = d
	}

	if v := strings.TrimSpace(os.Getenv("BRIDGE_VALUE_EPSILON")); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cfg, fmt.Errorf("invalid BRIDGE_VALUE_EPSILON: %w", err)
		}
		cfg.ValueEpsilon = f
	}

	if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv("APP_ENV")); v != "" {
		cfg.Env = v
	}

	dryRun := strings.TrimSpace(os.Getenv("DRY_RUN"))
	cfg.DryRun = dryRun == "1" || strings.EqualFold(dryRun, "true")

	return cfg, nil
}
