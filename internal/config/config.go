package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Supabase  SupabaseConfig  `mapstructure:"supabase"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string `mapstructure:"port"`
	Env  string `mapstructure:"env"`
	// AllowedOrigins accepts exact origins and single-label wildcards
	// such as https://*.energylog-app.pages.dev. Empty allows all.
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// IsProduction reports whether the server runs in the production environment
func (s ServerConfig) IsProduction() bool {
	return s.Env == "production"
}

// SupabaseConfig holds Supabase-specific configuration
type SupabaseConfig struct {
	URL        string `mapstructure:"url"`
	ServiceKey string `mapstructure:"service_key"`
}

// LoggingConfig selects the logger backend and verbosity
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Format  string `mapstructure:"format"`
	Backend string `mapstructure:"backend"`
}

// AnalyticsConfig controls how calendar dates and trend windows are derived
type AnalyticsConfig struct {
	Timezone    string `mapstructure:"timezone"`
	WeeklyDays  int    `mapstructure:"weekly_days"`
	MonthlyDays int    `mapstructure:"monthly_days"`
}

// Location resolves the configured timezone
func (a AnalyticsConfig) Location() (*time.Location, error) {
	if a.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid analytics timezone %q: %w", a.Timezone, err)
	}
	return loc, nil
}

// RateLimitConfig holds per-client token bucket settings
type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// Load reads configuration from environment variables and config files
func Load() (*Config, error) {
	v := newViper()

	// Read from config file if it exists
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// It's okay if config file doesn't exist
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	config, err := decode(v)
	if err != nil {
		return nil, err
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// LoadAnalytics reads only the logging and analytics sections. The offline
// analyze command uses it, so Supabase settings are not required.
func LoadAnalytics() (*Config, error) {
	config, err := decode(newViper())
	if err != nil {
		return nil, err
	}
	if err := config.validateAnalytics(); err != nil {
		return nil, err
	}
	return config, nil
}

func newViper() *viper.Viper {
	v := viper.New()

	// Set default values
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.env", "development")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.backend", "slog")
	v.SetDefault("analytics.timezone", "UTC")
	v.SetDefault("analytics.weekly_days", 7)
	v.SetDefault("analytics.monthly_days", 30)
	v.SetDefault("rate_limit.requests_per_second", 10.0)
	v.SetDefault("rate_limit.burst", 20)

	// Read from environment variables
	v.SetEnvPrefix("ENERGYLOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Also bind to non-prefixed environment variables for backward compatibility
	v.BindEnv("server.port", "ENERGYLOG_SERVER_PORT", "PORT")
	v.BindEnv("supabase.url", "ENERGYLOG_SUPABASE_URL", "SUPABASE_URL")
	v.BindEnv("supabase.service_key", "ENERGYLOG_SUPABASE_SERVICE_KEY", "SUPABASE_SERVICE_KEY")
	v.BindEnv("logging.level", "ENERGYLOG_LOGGING_LEVEL", "LOG_LEVEL")
	v.BindEnv("logging.format", "ENERGYLOG_LOGGING_FORMAT", "LOG_FORMAT")
	v.BindEnv("server.allowed_origins", "ENERGYLOG_SERVER_ALLOWED_ORIGINS", "CORS_ALLOWED_ORIGINS")

	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	return &config, nil
}

// Validate checks that all required configuration values are present
func (c *Config) Validate() error {
	if c.Supabase.URL == "" {
		return fmt.Errorf("SUPABASE_URL is required")
	}
	if c.Supabase.ServiceKey == "" {
		return fmt.Errorf("SUPABASE_SERVICE_KEY is required")
	}
	if c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0 {
		return fmt.Errorf("rate_limit.requests_per_second and rate_limit.burst must be positive")
	}
	return c.validateAnalytics()
}

func (c *Config) validateAnalytics() error {
	if _, err := c.Analytics.Location(); err != nil {
		return err
	}
	if c.Analytics.WeeklyDays <= 0 || c.Analytics.MonthlyDays <= 0 {
		return fmt.Errorf("analytics.weekly_days and analytics.monthly_days must be positive")
	}
	switch c.Logging.Backend {
	case "slog", "zap":
	default:
		return fmt.Errorf("logging.backend must be slog or zap, got %q", c.Logging.Backend)
	}
	return nil
}
