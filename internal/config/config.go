package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage drivers accepted in storage.driver.
const (
	DriverDynamo   = "dynamodb"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds all runtime configuration. Values come from, in increasing
// priority: defaults, configuration.yaml, environment variables. Nested keys
// map to env vars by joining with "_" (database.max_connections ->
// DATABASE_MAX_CONNECTIONS).
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Log       LogConfig       `mapstructure:"log"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Database  DatabaseConfig  `mapstructure:"database"`
	AWS       AWSConfig       `mapstructure:"aws"`
	Dynamo    DynamoConfig    `mapstructure:"dynamo"`
	Redis     RedisConfig     `mapstructure:"redis"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

type AppConfig struct {
	Port           string   `mapstructure:"port"`
	Env            string   `mapstructure:"env"`
	AllowedOrigins []string `mapstructure:"allowed_origins"` // CORS allowed origins
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type StorageConfig struct {
	Driver string `mapstructure:"driver"`
}

// DatabaseConfig is used by the postgres driver.
type DatabaseConfig struct {
	URL            string `mapstructure:"url"`
	MaxConnections int32  `mapstructure:"max_connections"`
}

type AWSConfig struct {
	Region          string `mapstructure:"region"`
	EndpointURL     string `mapstructure:"endpoint_url"` // empty in prod, set to LocalStack URL in dev
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
}

type DynamoConfig struct {
	NotificationsTable string `mapstructure:"notifications_table"`
}

// RedisConfig controls the optional read-through cache in front of the store.
type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Address  string        `mapstructure:"address"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig applies per client IP to the mutating endpoints.
type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

var defaults = map[string]interface{}{
	"app.port":                   "3000",
	"app.env":                    "development",
	"app.allowed_origins":        []string{"*"},
	"log.level":                  "info",
	"storage.driver":             DriverDynamo,
	"database.url":               "",
	"database.max_connections":   10,
	"aws.region":                 "us-east-1",
	"aws.endpoint_url":           "",
	"aws.access_key_id":          "",
	"aws.secret_access_key":      "",
	"dynamo.notifications_table": "notifications",
	"redis.enabled":              false,
	"redis.address":              "localhost:6379",
	"redis.password":             "",
	"redis.db":                   0,
	"redis.ttl":                  "5m",
	"rate_limit.rps":             5,
	"rate_limit.burst":           10,
}

// Shorter env names kept for compatibility with existing deployments.
var envAliases = [][2]string{
	{"app.allowed_origins", "ALLOWED_ORIGINS"},
	{"dynamo.notifications_table", "DYNAMO_TABLE_NOTIFICATIONS"},
}

// Load reads configuration from configuration.yaml (if present in the working
// directory or in $CONFIG_PATH) and the environment.
func Load() (*Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	v.SetConfigName("configuration")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		v.AddConfigPath(p)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, b := range envAliases {
		// The canonical name wins when both are set.
		if err := v.BindEnv(b[0], strings.ToUpper(strings.ReplaceAll(b[0], ".", "_")), b[1]); err != nil {
			return nil, fmt.Errorf("bind %s: %w", b[0], err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the settings required by the selected storage driver.
func (c *Config) Validate() error {
	if c.App.Port == "" {
		return errors.New("app.port is required")
	}
	switch c.Storage.Driver {
	case DriverMemory:
	case DriverPostgres:
		if c.Database.URL == "" {
			return errors.New("database.url is required for the postgres driver")
		}
		if c.Database.MaxConnections <= 0 {
			return errors.New("database.max_connections must be positive")
		}
	case DriverDynamo:
		if c.Dynamo.NotificationsTable == "" {
			return errors.New("dynamo.notifications_table is required for the dynamodb driver")
		}
		if c.AWS.Region == "" {
			return errors.New("aws.region is required for the dynamodb driver")
		}
	default:
		return fmt.Errorf("unknown storage.driver %q", c.Storage.Driver)
	}
	if c.Redis.Enabled {
		if c.Redis.Address == "" {
			return errors.New("redis.address is required when redis.enabled is set")
		}
		if c.Redis.TTL <= 0 {
			return errors.New("redis.ttl must be positive")
		}
	}
	if c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0 {
		return errors.New("rate_limit.rps and rate_limit.burst must be positive")
	}
	return nil
}
