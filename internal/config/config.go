package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config holds the application configuration.
type Config struct {
	HTTPAddr string `mapstructure:"HTTP_ADDR" validate:"required"`
	GinMode  string `mapstructure:"GIN_MODE" validate:"oneof=debug release test"`

	DatabaseDriver string `mapstructure:"DATABASE_DRIVER" validate:"oneof=postgres sqlite"`
	DatabaseURL    string `mapstructure:"DATABASE_URL" validate:"required"`
	JWTSecret      string `mapstructure:"JWT_SECRET" validate:"required,min=16"`

	LogLevel string `mapstructure:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	LogDir   string `mapstructure:"LOG_DIR"`

	CatalogDefaultLimit int           `mapstructure:"CATALOG_DEFAULT_LIMIT" validate:"gte=1,ltefield=CatalogMaxLimit"`
	CatalogMaxLimit     int           `mapstructure:"CATALOG_MAX_LIMIT" validate:"gte=1,lte=500"`
	CatalogQueryTimeout time.Duration `mapstructure:"CATALOG_QUERY_TIMEOUT" validate:"gt=0"`

	RedisAddr       string        `mapstructure:"REDIS_ADDR"`
	RedisPassword   string        `mapstructure:"REDIS_PASSWORD"`
	PlayDedupWindow time.Duration `mapstructure:"PLAY_DEDUP_WINDOW" validate:"gte=0"`

	AMQPURL string `mapstructure:"AMQP_URL"`

	WorkerCount     int `mapstructure:"WORKER_COUNT" validate:"gte=1"`
	WorkerQueueSize int `mapstructure:"WORKER_QUEUE_SIZE" validate:"gte=1"`

	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`
}

// Origins returns the configured CORS origins as a slice.
func (c *Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("DATABASE_DRIVER", "postgres")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_DIR", ".")
	v.SetDefault("CATALOG_DEFAULT_LIMIT", 20)
	v.SetDefault("CATALOG_MAX_LIMIT", 50)
	v.SetDefault("CATALOG_QUERY_TIMEOUT", "3s")
	v.SetDefault("PLAY_DEDUP_WINDOW", "30s")
	v.SetDefault("WORKER_COUNT", 2)
	v.SetDefault("WORKER_QUEUE_SIZE", 64)
	v.SetDefault("ALLOWED_ORIGINS", "*")

	// AutomaticEnv only overrides keys viper already knows about.
	for _, key := range []string{"DATABASE_URL", "JWT_SECRET", "REDIS_ADDR", "REDIS_PASSWORD", "AMQP_URL"} {
		v.SetDefault(key, "")
	}
}

// LoadConfig loads the configuration from a .env file and environment variables.
// Paths are searched in order; the working directory is always included.
func LoadConfig(paths ...string) (*Config, error) {
	v := viper.New()
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.AddConfigPath(".")
	v.SetConfigName(".env")
	v.SetConfigType("env")

	setDefaults(v)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		zap.S().Warnw(".env file not found, loading from environment variables", "error", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
