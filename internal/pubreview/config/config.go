package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	devJWTSecret        = "dev-access-secret-change-me"
	devJWTRefreshSecret = "dev-refresh-secret-change-me"
)

type Config struct {
	AppEnv       string        `envconfig:"APP_ENV" default:"development"`
	Port         string        `envconfig:"PORT" default:"8080"`
	ReadTimeout  time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"10s"`
	WriteTimeout time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"10s"`

	MongoURI string `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
	DBName   string `envconfig:"DB_NAME" default:"pubreview"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`

	JWTSecret        string        `envconfig:"JWT_SECRET" default:"dev-access-secret-change-me"`
	JWTRefreshSecret string        `envconfig:"JWT_REFRESH_SECRET" default:"dev-refresh-secret-change-me"`
	JWTExpiry        time.Duration `envconfig:"JWT_EXPIRY" default:"15m"`
	JWTRefreshExpiry time.Duration `envconfig:"JWT_REFRESH_EXPIRY" default:"168h"`

	// Window in which a rotated refresh token still yields the pair it was
	// rotated into, so parallel requests with the same stale pair all succeed.
	JWTRefreshGrace time.Duration `envconfig:"JWT_REFRESH_GRACE" default:"30s"`

	RedisAddr     string `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	AuthRateLimit  int           `envconfig:"AUTH_RATE_LIMIT" default:"20"`
	AuthRateWindow time.Duration `envconfig:"AUTH_RATE_WINDOW" default:"1m"`

	ActivitySweepCron string        `envconfig:"ACTIVITY_SWEEP_CRON" default:"@every 10m"`
	ActivitySweepAge  time.Duration `envconfig:"ACTIVITY_SWEEP_AGE" default:"1h"`
}

func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.MongoURI == "" {
		return errors.New("MONGO_URI is required")
	}
	if c.JWTSecret == "" || c.JWTRefreshSecret == "" {
		return errors.New("JWT_SECRET and JWT_REFRESH_SECRET are required")
	}
	if c.JWTSecret == c.JWTRefreshSecret {
		return errors.New("JWT_SECRET and JWT_REFRESH_SECRET must differ")
	}
	if c.IsProduction() && (c.JWTSecret == devJWTSecret || c.JWTRefreshSecret == devJWTRefreshSecret) {
		return errors.New("development JWT secrets cannot be used in production")
	}
	if c.JWTExpiry <= 0 || c.JWTRefreshExpiry <= 0 {
		return errors.New("JWT_EXPIRY and JWT_REFRESH_EXPIRY must be positive")
	}
	if c.JWTRefreshGrace < 0 || c.JWTRefreshGrace >= c.JWTRefreshExpiry {
		return errors.New("JWT_REFRESH_GRACE must be between zero and JWT_REFRESH_EXPIRY")
	}
	if c.ActivitySweepAge <= 0 {
		return errors.New("ACTIVITY_SWEEP_AGE must be positive")
	}
	return nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}
