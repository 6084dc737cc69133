package config

import (
	"testing"
	"time"
)

func setEnv(t *testing.T, kv map[string]string) {
	t.Helper()
	for _, k := range []string{
		"MQTT_BROKER", "MQTT_TOPIC", "MQTT_CLIENT_ID", "MQTT_QOS", "API_URL",
		"BRIDGE_REQUEST_TIMEOUT", "BRIDGE_MIN_INTERVAL", "BRIDGE_VALUE_EPSILON", "DRY_RUN",
	} {
		t.Setenv(k, kv[k])
	}
}

func TestLoadRequiresBroker(t *testing.T) {
	setEnv(t, nil)
	if _, err := Load(); err == nil {
		t.Fatal("expected error without MQTT_BROKER")
	}
}

func TestLoad(t *testing.T) {
	setEnv(t, map[string]string{
		"MQTT_BROKER":         "tcp://broker:1883",
		"MQTT_QOS":            "1",
		"API_URL":             "http://api:5000/",
		"BRIDGE_MIN_INTERVAL": "30s",
		"DRY_RUN":             "true",
	})
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Topic != "invernadero/sensores" || cfg.QoS != 1 || cfg.APIURL != "http://api:5000" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.MinInterval != 30*time.Second || !cfg.DryRun || cfg.RequestTimeout != 10*time.Second {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestLoadInvalidQoS(t *testing.T) {
	setEnv(t, map[string]string{"MQTT_BROKER": "tcp://broker:1883", "MQTT_QOS": "3"})
	if _, err := Load(); err == nil {
		t.Fatal("expected error for QoS 3")
	}
}
