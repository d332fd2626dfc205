package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Settings backends
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Asset resolution modes
const (
	AssetsStatic    = "static"
	AssetsPresigned = "presigned"
)

// Config holds all application configuration
type Config struct {
	Env      string         `mapstructure:"env"`
	API      APIConfig      `mapstructure:"api"`
	Server   ServerConfig   `mapstructure:"server"`
	Settings SettingsConfig `mapstructure:"settings"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Assets   AssetsConfig   `mapstructure:"assets"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Sentry   SentryConfig   `mapstructure:"sentry"`
}

// IsProduction reports whether the production environment is selected
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

type APIConfig struct {
	BaseURL string        `mapstructure:"base_url" validate:"required,url"`
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

// ServerConfig configures the local development service
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port" validate:"gte=0,lte=65535"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type SettingsConfig struct {
	Backend string `mapstructure:"backend" validate:"oneof=sqlite redis memory"`
	Path    string `mapstructure:"path"`
}

type RedisConfig struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type AssetsConfig struct {
	Mode string `mapstructure:"mode" validate:"oneof=static presigned"`

	// BaseURL serves /uploads/{filename}; empty means the API base URL
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`

	Bucket          string        `mapstructure:"bucket" validate:"required_if=Mode presigned"`
	Prefix          string        `mapstructure:"prefix"`
	Region          string        `mapstructure:"region"`
	AccountID       string        `mapstructure:"account_id"`
	Endpoint        string        `mapstructure:"endpoint" validate:"omitempty,url"`
	AccessKeyID     string        `mapstructure:"access_key_id"`
	SecretAccessKey string        `mapstructure:"secret_access_key"`
	URLTTL          time.Duration `mapstructure:"url_ttl"`
	CacheTTL        time.Duration `mapstructure:"cache_ttl"`
}

// EndpointURL returns the S3 endpoint, derived from the R2 account when unset
func (c AssetsConfig) EndpointURL() string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	if c.AccountID != "" {
		return fmt.Sprintf("https://%s.r2.cloudflarestorage.com", c.AccountID)
	}
	return ""
}

type LoggingConfig struct {
	Level        string        `mapstructure:"level" validate:"oneof=trace debug info warn error fatal panic disabled"`
	Format       string        `mapstructure:"format" validate:"oneof=console json"`
	File         string        `mapstructure:"file"`
	MaxAge       time.Duration `mapstructure:"max_age"`
	RotationTime time.Duration `mapstructure:"rotation_time"`
}

type SentryConfig struct {
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate" validate:"gte=0,lte=1"`
}

// Load reads configuration from the file named by CONFIG_PATH and the
// environment
func Load() (*Config, error) {
	return LoadFrom(os.Getenv("CONFIG_PATH"))
}

// LoadFrom reads configuration from configPath and the environment. A
// missing file falls back to defaults.
func LoadFrom(configPath string) (*Config, error) {
	v := viper.New()

	// Set config file path
	if configPath == "" {
		configPath = "./configs/config.yaml"
	}

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// Set defaults
	setDefaults(v)

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, use defaults and env vars
	}

	// Override with environment variables
	v.AutomaticEnv()
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Assets.BaseURL == "" {
		cfg.Assets.BaseURL = cfg.API.BaseURL
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the configuration is usable
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "development")

	// API
	v.SetDefault("api.base_url", "http://127.0.0.1:5000")
	v.SetDefault("api.timeout", "30s")

	// Server
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "10s")

	// Settings
	v.SetDefault("settings.backend", BackendSQLite)
	v.SetDefault("settings.path", "./data/stylist.sqlite3")

	// Redis
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "stylist:")

	// Assets
	v.SetDefault("assets.mode", AssetsStatic)
	v.SetDefault("assets.region", "auto")
	v.SetDefault("assets.url_ttl", "15m")
	v.SetDefault("assets.cache_ttl", "12m")

	// Logging
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.max_age", "168h") // 7 days
	v.SetDefault("logging.rotation_time", "24h")

	// Sentry
	v.SetDefault("sentry.sample_rate", 1.0)
}

func bindEnvVars(v *viper.Viper) {
	v.BindEnv("env", "ENV")

	// API
	v.BindEnv("api.base_url", "STYLIST_API_URL")

	// Server
	v.BindEnv("server.port", "SERVER_PORT")

	// Settings
	v.BindEnv("settings.backend", "STYLIST_SETTINGS_BACKEND")
	v.BindEnv("settings.path", "STYLIST_SETTINGS_PATH")

	// Redis
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.password", "REDIS_PASSWORD")

	// Assets
	v.BindEnv("assets.bucket", "R2_BUCKET_NAME")
	v.BindEnv("assets.account_id", "R2_ACCOUNT_ID")
	v.BindEnv("assets.access_key_id", "R2_ACCESS_KEY_ID")
	v.BindEnv("assets.secret_access_key", "R2_ACCESS_KEY_SECRET")

	// Logging
	v.BindEnv("logging.level", "LOG_LEVEL")
	v.BindEnv("logging.file", "LOG_FILE")

	// Sentry
	v.BindEnv("sentry.dsn", "SENTRY_DSN")
	v.BindEnv("sentry.environment", "SENTRY_ENVIRONMENT")
}
