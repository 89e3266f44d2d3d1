package config

import (
	"strings"
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "this-is-a-test-secret-with-32-bytes!")
	t.Setenv("DB_DRIVER", "sqlite")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := fromViper(newViper())
	if err != nil {
		t.Fatalf("fromViper() error = %v", err)
	}

	if cfg.DBDriver != DriverSQLite {
		t.Errorf("DBDriver = %q, want %q", cfg.DBDriver, DriverSQLite)
	}
	if cfg.JWTAccessExpiry != 24*time.Hour {
		t.Errorf("JWTAccessExpiry = %v, want 24h", cfg.JWTAccessExpiry)
	}
	if cfg.PageSize != 10 {
		t.Errorf("PageSize = %d, want 10", cfg.PageSize)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.RedisEnabled() {
		t.Error("RedisEnabled() should be false without REDIS_HOST")
	}
	if cfg.SMTPEnabled() {
		t.Error("SMTPEnabled() should be false without SMTP_HOST")
	}
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_ACCESS_EXPIRY", "15m")
	t.Setenv("RATE_LIMIT_WINDOW", "not-a-duration")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com,")
	t.Setenv("REDIS_HOST", "localhost")
	t.Setenv("PAGE_SIZE", "25")

	cfg, err := fromViper(newViper())
	if err != nil {
		t.Fatalf("fromViper() error = %v", err)
	}

	if cfg.JWTAccessExpiry != 15*time.Minute {
		t.Errorf("JWTAccessExpiry = %v, want 15m", cfg.JWTAccessExpiry)
	}
	if cfg.RateLimitWindow != time.Minute {
		t.Errorf("RateLimitWindow = %v, want fallback 1m", cfg.RateLimitWindow)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example.com" {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
	if !cfg.RedisEnabled() {
		t.Error("RedisEnabled() should be true with REDIS_HOST")
	}
	if cfg.PageSize != 25 {
		t.Errorf("PageSize = %d, want 25", cfg.PageSize)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DB_HOST", "")
	t.Setenv("DB_USER", "")
	t.Setenv("DB_PASSWORD", "")
	t.Setenv("DB_NAME", "")

	_, err := fromViper(newViper())
	if err == nil {
		t.Fatal("fromViper() should fail without required variables")
	}

	for _, key := range []string{"JWT_SECRET", "DB_HOST", "DB_NAME", "DB_PASSWORD", "DB_USER"} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("error %q should mention %s", err, key)
		}
	}
}

func TestLoad_UnsupportedDriver(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DB_DRIVER", "mysql")

	if _, err := fromViper(newViper()); err == nil {
		t.Error("fromViper() should reject unsupported driver")
	}
}

func TestLoad_OperatorPair(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("OPERATOR_USERNAME", "root")
	t.Setenv("OPERATOR_EMAIL", "")

	if _, err := fromViper(newViper()); err == nil {
		t.Error("fromViper() should require operator username and email together")
	}
}
