// Package config loads application configuration from the environment,
// optionally merged over a YAML file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host               string   `yaml:"host"`
	Port               int      `yaml:"port"`
	BasePath           string   `yaml:"base_path"`
	AllowedOrigins     []string `yaml:"allowed_origins"`
	RateLimitPerSecond int      `yaml:"rate_limit_per_second"`
	RateLimitBurst     int      `yaml:"rate_limit_burst"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string `yaml:"dsn"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime_seconds"`
}

// UpstreamConfig holds the base URLs of the services this backend
// aggregates.
type UpstreamConfig struct {
	UserServiceURL               string `yaml:"user_service_url"`
	MealServiceURL               string `yaml:"meal_service_url"`
	StaticInfoServiceURL         string `yaml:"static_info_service_url"`
	NoticeServiceURL             string `yaml:"notice_service_url"`
	ClassroomTimetableServiceURL string `yaml:"classroom_timetable_service_url"`
}

// CacheConfig holds Redis cache settings. An empty URL disables Redis and
// falls back to the in-process cache.
type CacheConfig struct {
	RedisURL      string        `yaml:"redis_url"`
	TTL           time.Duration `yaml:"ttl"`
	WarmSchedule  string        `yaml:"warm_schedule"`
	WarmPageSize  int           `yaml:"warm_page_size"`
	WarmOnStartup bool          `yaml:"warm_on_startup"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	Output     string `yaml:"output"`
	FilePrefix string `yaml:"file_prefix"`
}

// Config is the root application configuration.
type Config struct {
	Env       string         `yaml:"env"`
	Debug     bool           `yaml:"debug"`
	ServiceID int64          `yaml:"service_id"`
	Timezone  string         `yaml:"timezone"`
	Server    ServerConfig   `yaml:"server"`
	Database  DatabaseConfig `yaml:"database"`
	Upstream  UpstreamConfig `yaml:"upstream"`
	Cache     CacheConfig    `yaml:"cache"`
	Logging   LoggingConfig  `yaml:"logging"`
}

// Load builds the configuration. When CONFIG_FILE points at a YAML file it
// is read first; environment variables override file values.
func Load() (*Config, error) {
	cfg := defaults()

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnv(cfg)

	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d", cfg.Server.Port)
	}

	return cfg, nil
}

// Location returns the configured time zone. Load validates it, so failure
// here means the config was mutated after loading.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func defaults() *Config {
	return &Config{
		Env:       "development",
		ServiceID: 4,
		Timezone:  "Asia/Seoul",
		Server: ServerConfig{
			Host:               "0.0.0.0",
			Port:               5600,
			AllowedOrigins:     []string{"*"},
			RateLimitPerSecond: 10,
			RateLimitBurst:     20,
		},
		Upstream: UpstreamConfig{
			UserServiceURL:               "http://user-service:8000",
			MealServiceURL:               "http://meal-service:8000",
			StaticInfoServiceURL:         "http://static-info-service:8000",
			NoticeServiceURL:             "http://notice-service:8000",
			ClassroomTimetableServiceURL: "http://classroom-timetable-service:8000",
		},
		Cache: CacheConfig{
			TTL:          5 * time.Minute,
			WarmSchedule: "@every 10m",
			WarmPageSize: 20,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stdout",
		},
	}
}

func applyEnv(cfg *Config) {
	setString(&cfg.Env, "APP_ENV")
	setBool(&cfg.Debug, "DEBUG")
	setInt64(&cfg.ServiceID, "SERVICE_ID")
	setString(&cfg.Timezone, "TIMEZONE")

	setInt(&cfg.Server.Port, "APP_PORT")
	setString(&cfg.Server.Host, "APP_HOST")
	setString(&cfg.Server.BasePath, "APP_BASE_PATH")
	setStringSlice(&cfg.Server.AllowedOrigins, "CORS_ALLOWED_ORIGINS")
	setInt(&cfg.Server.RateLimitPerSecond, "RATE_LIMIT_PER_SECOND")
	setInt(&cfg.Server.RateLimitBurst, "RATE_LIMIT_BURST")

	setString(&cfg.Database.DSN, "DATABASE_URL")
	setInt(&cfg.Database.MaxOpenConns, "DATABASE_MAX_OPEN_CONNS")
	setInt(&cfg.Database.MaxIdleConns, "DATABASE_MAX_IDLE_CONNS")

	setString(&cfg.Upstream.UserServiceURL, "USER_SERVICE_URL")
	setString(&cfg.Upstream.MealServiceURL, "MEAL_SERVICE_URL")
	setString(&cfg.Upstream.StaticInfoServiceURL, "STATIC_INFO_SERVICE_URL")
	setString(&cfg.Upstream.NoticeServiceURL, "NOTICE_SERVICE_URL")
	// Key spelling matches the deployed environment files.
	setString(&cfg.Upstream.ClassroomTimetableServiceURL, "CLASSTROOM_TIMETABLE_SERVICE_URL")

	setString(&cfg.Cache.RedisURL, "REDIS_URL")
	setDuration(&cfg.Cache.TTL, "CACHE_TTL")
	setString(&cfg.Cache.WarmSchedule, "CACHE_WARM_SCHEDULE")

	setString(&cfg.Logging.Level, "LOG_LEVEL")
	setString(&cfg.Logging.Format, "LOG_FORMAT")
	setString(&cfg.Logging.Output, "LOG_OUTPUT")
	setString(&cfg.Logging.FilePrefix, "LOG_FILE_PREFIX")

	if cfg.Debug && os.Getenv("LOG_LEVEL") == "" {
		cfg.Logging.Level = "debug"
	}
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		if len(out) > 0 {
			*dst = out
		}
	}
}

func setBool(dst *bool, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = strings.EqualFold(v, "true") || v == "1"
	}
}

func setInt(dst *int, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			*dst = d
		}
	}
}
