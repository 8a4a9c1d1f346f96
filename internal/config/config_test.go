package config

import (
	"os"
	"testing"
)

func TestConfigLoad_AIDefaults(t *testing.T) {
	// clear env vars
	_ = os.Unsetenv("PLANNER_AI_BASE_URL")
	_ = os.Unsetenv("PLANNER_AI_MODEL")
	_ = os.Unsetenv("PLANNER_AI_API_KEY")

	cfg, err := New()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}
	if cfg.AIBaseURL != "http://localhost:11434/v1" || cfg.AIModel != "llama3.1" {
		t.Fatalf("unexpected default ai config: %+v", cfg)
	}
	if cfg.AIAPIKey != "" {
		t.Fatalf("expected empty api key by default, got %q", cfg.AIAPIKey)
	}
}

func TestConfigLoad_AIEnvOverride(t *testing.T) {
	_ = os.Setenv("PLANNER_AI_MODEL", "test-model")
	defer func() { _ = os.Unsetenv("PLANNER_AI_MODEL") }()

	cfg, err := New()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}
	if cfg.AIModel != "test-model" {
		t.Fatalf("ai model env override failed, got %s", cfg.AIModel)
	}
}

func TestConfigLoad_HealthIntervalDefault(t *testing.T) {
	// clear env vars
	_ = os.Unsetenv("PLANNER_HEALTH_INTERVAL_SECONDS")

	cfg, err := New()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}
	if cfg.HealthIntervalSeconds != 30 {
		t.Fatalf("unexpected default health interval: %d", cfg.HealthIntervalSeconds)
	}
}

func TestConfigLoad_HealthIntervalEnvOverride(t *testing.T) {
	_ = os.Setenv("PLANNER_HEALTH_INTERVAL_SECONDS", "10")
	defer func() { _ = os.Unsetenv("PLANNER_HEALTH_INTERVAL_SECONDS") }()

	cfg, err := New()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}
	if cfg.HealthIntervalSeconds != 10 {
		t.Fatalf("health interval env override failed, got %d", cfg.HealthIntervalSeconds)
	}
}
