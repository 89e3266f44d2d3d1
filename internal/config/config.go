// Package config handles configuration loading for the review service.
package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds all configuration for the review service.
type Config struct {
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	RedisHost     string
	RedisPort     string
	RedisPassword string

	JWTSecret       string
	JWTAccessExpiry time.Duration

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	MailFrom     string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	CookieAuth     bool
	CookieDomain   string
	CookieSecure   bool
	AllowedOrigins []string

	OperatorUsername string
	OperatorEmail    string

	PageSize    int
	Port        string
	Environment string
	LogLevel    string
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// RedisEnabled reports whether a Redis host was configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisHost != ""
}

// SMTPEnabled reports whether outbound mail goes through SMTP.
func (c *Config) SMTPEnabled() bool {
	return c.SMTPHost != ""
}

// Load reads configuration from environment variables. A .env file in the
// working directory is loaded first when present; real environment variables
// take precedence over it.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return fromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("DB_DRIVER", DriverPostgres)
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("SQLITE_PATH", "reviews.db")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("JWT_ACCESS_EXPIRY", "24h")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("MAIL_FROM", "noreply@reviews.local")
	v.SetDefault("RATE_LIMIT_REQUESTS", 20)
	v.SetDefault("RATE_LIMIT_WINDOW", "1m")
	v.SetDefault("COOKIE_AUTH", false)
	v.SetDefault("COOKIE_SECURE", true)
	v.SetDefault("PAGE_SIZE", 10)
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	return v
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		DBDriver:          strings.ToLower(v.GetString("DB_DRIVER")),
		DBHost:            v.GetString("DB_HOST"),
		DBPort:            v.GetString("DB_PORT"),
		DBUser:            v.GetString("DB_USER"),
		DBPassword:        v.GetString("DB_PASSWORD"),
		DBName:            v.GetString("DB_NAME"),
		DBSSLMode:         v.GetString("DB_SSLMODE"),
		SQLitePath:        v.GetString("SQLITE_PATH"),
		RedisHost:         v.GetString("REDIS_HOST"),
		RedisPort:         v.GetString("REDIS_PORT"),
		RedisPassword:     v.GetString("REDIS_PASSWORD"),
		JWTSecret:         v.GetString("JWT_SECRET"),
		JWTAccessExpiry:   parseDuration(v.GetString("JWT_ACCESS_EXPIRY"), 24*time.Hour),
		SMTPHost:          v.GetString("SMTP_HOST"),
		SMTPPort:          v.GetInt("SMTP_PORT"),
		SMTPUser:          v.GetString("SMTP_USER"),
		SMTPPassword:      v.GetString("SMTP_PASSWORD"),
		MailFrom:          v.GetString("MAIL_FROM"),
		RateLimitRequests: v.GetInt("RATE_LIMIT_REQUESTS"),
		RateLimitWindow:   parseDuration(v.GetString("RATE_LIMIT_WINDOW"), time.Minute),
		CookieAuth:        v.GetBool("COOKIE_AUTH"),
		CookieDomain:      v.GetString("COOKIE_DOMAIN"),
		CookieSecure:      v.GetBool("COOKIE_SECURE"),
		AllowedOrigins:    splitList(v.GetString("ALLOWED_ORIGINS")),
		OperatorUsername:  v.GetString("OPERATOR_USERNAME"),
		OperatorEmail:     v.GetString("OPERATOR_EMAIL"),
		PageSize:          v.GetInt("PAGE_SIZE"),
		Port:              v.GetString("PORT"),
		Environment:       v.GetString("ENVIRONMENT"),
		LogLevel:          v.GetString("LOG_LEVEL"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var missing []string
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}

	switch c.DBDriver {
	case DriverPostgres:
		for key, value := range map[string]string{
			"DB_HOST":     c.DBHost,
			"DB_USER":     c.DBUser,
			"DB_PASSWORD": c.DBPassword,
			"DB_NAME":     c.DBName,
		} {
			if value == "" {
				missing = append(missing, key)
			}
		}
	case DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	if c.PageSize <= 0 {
		return errors.New("PAGE_SIZE must be positive")
	}
	if (c.OperatorUsername == "") != (c.OperatorEmail == "") {
		return errors.New("OPERATOR_USERNAME and OPERATOR_EMAIL must be set together")
	}
	return nil
}

func parseDuration(value string, defaultValue time.Duration) time.Duration {
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
