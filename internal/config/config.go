package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is built once at process start and passed by reference into the
// components that need it. Nothing reads the environment after Load.
type Config struct {
	Port   string `env:"PORT" envDefault:"8080"`
	AppEnv string `env:"APP_ENV" envDefault:"development"`

	DatabaseURL       string        `env:"DATABASE_URL,required"`
	DBMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
	DBMaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	DBConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`
	RunMigrations     bool          `env:"RUN_MIGRATIONS_ON_STARTUP" envDefault:"true"`

	// Two independent signing secrets; rotating one invalidates all
	// outstanding tokens of that kind only.
	AccessSecret    string        `env:"JWT_SECRET,required"`
	RefreshSecret   string        `env:"REFRESH_SECRET,required"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"15m"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"168h"`

	LoginRatePerMinute int `env:"LOGIN_RATE_LIMIT_PER_MINUTE" envDefault:"10"`
	LoginRateBurst     int `env:"LOGIN_RATE_LIMIT_BURST" envDefault:"10"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`

	SentryDSN string `env:"SENTRY_DSN"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	return cfg, nil
}
