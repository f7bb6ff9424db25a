package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 5600 {
		t.Fatalf("expected default port 5600, got %d", cfg.Server.Port)
	}
	if cfg.ServiceID != 4 {
		t.Fatalf("expected default service id 4, got %d", cfg.ServiceID)
	}
	if cfg.Timezone != "Asia/Seoul" {
		t.Fatalf("expected Asia/Seoul, got %s", cfg.Timezone)
	}
	if cfg.Upstream.UserServiceURL != "http://user-service:8000" {
		t.Fatalf("unexpected user service url: %s", cfg.Upstream.UserServiceURL)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("APP_PORT", "8080")
	t.Setenv("DEBUG", "true")
	t.Setenv("SERVICE_ID", "7")
	t.Setenv("DATABASE_URL", "postgres://bot:bot@db:5432/sandol?sslmode=disable")
	t.Setenv("NOTICE_SERVICE_URL", "http://notices:9000")
	t.Setenv("CLASSTROOM_TIMETABLE_SERVICE_URL", "http://timetable:9001")
	t.Setenv("CACHE_TTL", "30s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Env != "production" || cfg.Server.Port != 8080 || !cfg.Debug {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
	if cfg.ServiceID != 7 {
		t.Fatalf("expected service id 7, got %d", cfg.ServiceID)
	}
	if cfg.Upstream.ClassroomTimetableServiceURL != "http://timetable:9001" {
		t.Fatalf("timetable url not applied: %s", cfg.Upstream.ClassroomTimetableServiceURL)
	}
	if cfg.Cache.TTL != 30*time.Second {
		t.Fatalf("cache ttl not applied: %s", cfg.Cache.TTL)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("debug should lower log level, got %s", cfg.Logging.Level)
	}
}

func TestLoadSplitsAllowedOrigins(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.Server.AllowedOrigins) != 2 || cfg.Server.AllowedOrigins[1] != "https://b.example" {
		t.Fatalf("origins not split: %v", cfg.Server.AllowedOrigins)
	}
}

func TestLoadYAMLFileUnderEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte("env: staging\nserver:\n  port: 9999\nupstream:\n  meal_service_url: http://meals-from-file:8000\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("APP_PORT", "7000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Env != "staging" {
		t.Fatalf("expected file env staging, got %s", cfg.Env)
	}
	if cfg.Server.Port != 7000 {
		t.Fatalf("env must override file, got port %d", cfg.Server.Port)
	}
	if cfg.Upstream.MealServiceURL != "http://meals-from-file:8000" {
		t.Fatalf("file value not applied: %s", cfg.Upstream.MealServiceURL)
	}
}

func TestLoadRejectsBadTimezone(t *testing.T) {
	t.Setenv("TIMEZONE", "Mars/Olympus")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for bad timezone")
	}
}
