package config

import (
	"os"
	"testing"
)

func unsetBuildEnv() {
	_ = os.Unsetenv("PLANNER_BUILD_TARGET")
	_ = os.Unsetenv("PLANNER_DB_DRIVER")
	_ = os.Unsetenv("PLANNER_POSTGRES_DSN")
}

func TestResolveDefaultsLocal(t *testing.T) {
	unsetBuildEnv()
	_ = os.Setenv("PLANNER_BUILD_TARGET", "local")
	defer unsetBuildEnv()

	cfg, err := New()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}
	if cfg.DBDriver != "sqlite" {
		t.Fatalf("unexpected mapping for local: %s", cfg.DBDriver)
	}
}

func TestResolveDefaultsCloud(t *testing.T) {
	unsetBuildEnv()
	_ = os.Setenv("PLANNER_BUILD_TARGET", "cloud")
	_ = os.Setenv("PLANNER_POSTGRES_DSN", "postgres://localhost/planner")
	defer unsetBuildEnv()

	cfg, err := New()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}
	if cfg.DBDriver != "postgres" {
		t.Fatalf("unexpected mapping for cloud: %s", cfg.DBDriver)
	}
}

func TestResolveDefaultsOverride(t *testing.T) {
	unsetBuildEnv()
	_ = os.Setenv("PLANNER_BUILD_TARGET", "cloud")
	_ = os.Setenv("PLANNER_DB_DRIVER", "sqlite")
	defer unsetBuildEnv()

	cfg, err := New()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}
	if cfg.DBDriver != "sqlite" {
		t.Fatalf("override failed, got %s", cfg.DBDriver)
	}
}

func TestResolveDefaultsRejectsUnknownTarget(t *testing.T) {
	unsetBuildEnv()
	_ = os.Setenv("PLANNER_BUILD_TARGET", "edge")
	defer unsetBuildEnv()

	if _, err := New(); err == nil {
		t.Fatal("expected error for unsupported build target")
	}
}

func TestResolveDefaultsPostgresRequiresDSN(t *testing.T) {
	unsetBuildEnv()
	_ = os.Setenv("PLANNER_BUILD_TARGET", "cloud")
	defer unsetBuildEnv()

	if _, err := New(); err == nil {
		t.Fatal("expected error when postgres driver has no DSN")
	}
}
