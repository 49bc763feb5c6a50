package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the returns service
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	NATS     NATSConfig     `mapstructure:"nats"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Sentry   SentryConfig   `mapstructure:"sentry"`
	Shopify  ShopifyConfig  `mapstructure:"shopify"`
	Returns  ReturnsConfig  `mapstructure:"returns"`
}

// AppConfig holds application configuration
type AppConfig struct {
	Name    string `mapstructure:"name"`
	Env     string `mapstructure:"env"`
	Port    string `mapstructure:"port"`
	BaseURL string `mapstructure:"base_url"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"name"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

// DSN builds the postgres connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// RedisConfig holds Redis cache configuration
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// NATSConfig holds NATS configuration
type NATSConfig struct {
	URL string `mapstructure:"url"`
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

// SentryConfig holds Sentry error tracking configuration
type SentryConfig struct {
	DSN         string `mapstructure:"dsn"`
	Environment string `mapstructure:"environment"`
	Release     string `mapstructure:"release"`
}

// ShopifyConfig holds the fallback Shopify Admin API credentials, used when
// the database carries no shop configuration yet.
type ShopifyConfig struct {
	Domain      string `mapstructure:"domain"`
	AccessToken string `mapstructure:"access_token"`
}

// ReturnsConfig holds the return policy knobs.
type ReturnsConfig struct {
	WindowDays      int    `mapstructure:"window_days"`
	LastWarningDay  int    `mapstructure:"last_warning_day"`
	CutoffDate      string `mapstructure:"cutoff_date"`
	StrictNameMatch bool   `mapstructure:"strict_name_match"`
	ArtifactDir     string `mapstructure:"artifact_dir"`
}

// ParseCutoffDate parses the configured cutoff date (YYYY-MM-DD, UTC). A zero
// time is returned for an empty value so callers can fall back to the
// default.
func (c ReturnsConfig) ParseCutoffDate() (time.Time, error) {
	if c.CutoffDate == "" {
		return time.Time{}, nil
	}
	cutoff, err := time.ParseInLocation("2006-01-02", c.CutoffDate, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid cutoff date %q: %w", c.CutoffDate, err)
	}
	return cutoff, nil
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	v := viper.New()

	// Automatically load environment variables
	v.AutomaticEnv()
	v.SetEnvPrefix("") // No prefix, read exact variable names

	// Bind specific environment variables
	_ = v.BindEnv("app.name", "APP_NAME")
	_ = v.BindEnv("app.env", "APP_ENV")
	_ = v.BindEnv("app.port", "APP_PORT")
	_ = v.BindEnv("app.base_url", "APP_BASE_URL")

	_ = v.BindEnv("database.host", "DB_HOST")
	_ = v.BindEnv("database.port", "DB_PORT")
	_ = v.BindEnv("database.user", "DB_USER")
	_ = v.BindEnv("database.password", "DB_PASSWORD")
	_ = v.BindEnv("database.name", "DB_NAME")
	_ = v.BindEnv("database.ssl_mode", "DB_SSLMODE")

	_ = v.BindEnv("nats.url", "NATS_URL")

	// Redis
	_ = v.BindEnv("redis.host", "REDIS_HOST")
	_ = v.BindEnv("redis.port", "REDIS_PORT")
	_ = v.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = v.BindEnv("redis.db", "REDIS_DB")

	_ = v.BindEnv("jwt.secret", "JWT_SECRET")

	_ = v.BindEnv("sentry.dsn", "SENTRY_DSN")
	_ = v.BindEnv("sentry.environment", "APP_ENV")
	_ = v.BindEnv("sentry.release", "APP_VERSION")

	// Shopify
	_ = v.BindEnv("shopify.domain", "SHOPIFY_DOMAIN")
	_ = v.BindEnv("shopify.access_token", "SHOPIFY_ACCESS_TOKEN")

	// Return policy
	_ = v.BindEnv("returns.window_days", "RETURN_WINDOW_DAYS")
	_ = v.BindEnv("returns.last_warning_day", "RETURN_LAST_WARNING_DAY")
	_ = v.BindEnv("returns.cutoff_date", "RETURN_CUTOFF_DATE")
	_ = v.BindEnv("returns.strict_name_match", "RETURN_STRICT_NAME_MATCH")
	_ = v.BindEnv("returns.artifact_dir", "RETURN_ARTIFACT_DIR")

	// Set defaults
	setDefaults(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	// App
	v.SetDefault("app.name", "service-returns")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8011")
	v.SetDefault("app.base_url", "")

	// Database
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.ssl_mode", "disable")

	// NATS
	v.SetDefault("nats.url", "")

	// Redis
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Sentry
	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "development")
	v.SetDefault("sentry.release", "1.0.0")

	// Return policy
	v.SetDefault("returns.window_days", 16)
	v.SetDefault("returns.last_warning_day", 18)
	v.SetDefault("returns.cutoff_date", "2025-08-01")
	v.SetDefault("returns.strict_name_match", false)
	v.SetDefault("returns.artifact_dir", "data/retururi")
}
