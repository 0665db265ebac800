package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"        validate:"required"`
	Env      string `env:"ENV,       default=development" validate:"oneof=development staging production"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	API       APIConfig
	Session   SessionConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	Images    ImageConfig
	LoginRate LoginRateConfig
}

type APIConfig struct {
	BaseURL string        `env:"API_BASE_URL, default=http://localhost:3000/api" validate:"required,url"`
	Timeout time.Duration `env:"API_TIMEOUT,  default=15s"                        validate:"gt=0"`
}

type SessionConfig struct {
	Backend      string        `env:"SESSION_BACKEND,       default=redis" validate:"oneof=redis mongo memory"`
	TTL          time.Duration `env:"SESSION_TTL,           default=168h"  validate:"gte=1m"`
	CookieSecure bool          `env:"SESSION_COOKIE_SECURE, default=false"`
	// HydrateWait bounds how long the admin gate waits for the backend
	// before answering with the loading page.
	HydrateWait time.Duration `env:"SESSION_HYDRATE_WAIT, default=2s" validate:"gt=0"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=admin_dashboard"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type ImageConfig struct {
	UploadURL string `env:"IMAGE_UPLOAD_URL,    default=https://api.cloudinary.com/v1_1" validate:"required,url"`
	CloudName string `env:"IMAGE_CLOUD_NAME"`
	Preset    string `env:"IMAGE_UPLOAD_PRESET"`
}

type LoginRateConfig struct {
	// Rate is the sustained number of login submissions per second per
	// client address.
	Rate  float64 `env:"LOGIN_RATE,  default=0.2" validate:"gt=0"`
	Burst int     `env:"LOGIN_BURST, default=5"   validate:"gte=1"`
}

// IsDevelopment reports whether the process runs with ENV=development.
func (c *Config) IsDevelopment() bool { return c.Env == "development" }

// Load reads an optional .env file from the working directory and then the
// process environment.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: read .env: %w", err)
	}
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom processes and validates the configuration read from l.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config: invalid configuration: %w", err)
	}
	return &cfg, nil
}
