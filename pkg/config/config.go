package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	DB        DBConfig
	Auth      AuthConfig
	Turnstile TurnstileConfig
}

type AppConfig struct {
	Host               string   `env:"APP_HOST" envDefault:"0.0.0.0"`
	Port               int      `env:"APP_PORT" envDefault:"8000"`
	Debug              bool     `env:"APP_DEBUG" envDefault:"false"`
	Timezone           string   `env:"APP_TIMEZONE" envDefault:"UTC"`
	CORSAllowOrigins   []string `env:"CORS_ALLOW_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`
	RateLimitPerMinute int      `env:"RATE_LIMIT_PER_MINUTE" envDefault:"60"`
	ShutdownTimeout    int      `env:"SHUTDOWN_TIMEOUT_SECONDS" envDefault:"10"`

	location *time.Location
}

type DBConfig struct {
	Host        string `env:"DB_HOST" envDefault:"localhost"`
	Port        int    `env:"DB_PORT" envDefault:"5432"`
	User        string `env:"DB_USER" envDefault:"postgres"`
	Password    string `env:"DB_PASSWORD"`
	Name        string `env:"DB_NAME" envDefault:"goal_tracker"`
	SSLMode     string `env:"DB_SSLMODE" envDefault:"disable"`
	AutoMigrate bool   `env:"DB_AUTO_MIGRATE" envDefault:"false"`
}

type AuthConfig struct {
	JWTSecret          string `env:"JWT_SECRET,required"`
	AccessTokenMinutes int    `env:"ACCESS_TOKEN_MINUTES" envDefault:"0"`
}

type TurnstileConfig struct {
	Enabled       bool   `env:"IS_USE_TURNSTILE" envDefault:"false"`
	SiteKey       string `env:"TURNSTILE_SITE_KEY"`
	SecretKey     string `env:"TURNSTILE_SECRET_KEY"`
	ErrorMessage  string `env:"TURNSTILE_ERROR_MSG" envDefault:"Bot対策認証に失敗しました。再度お試しください。"`
	VerifyURL     string `env:"TURNSTILE_VERIFY_URL" envDefault:"https://challenges.cloudflare.com/turnstile/v0/siteverify"`
	HoneypotField string `env:"HONEYPOT_FIELD_NAME" envDefault:"company_name"`
}

// DSN is the lib/pq connection string for c.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

func (c AppConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Location is the zone used to bucket completions by calendar day. It is set
// by FromEnv; a zero AppConfig falls back to UTC.
func (c AppConfig) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

func (c AuthConfig) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenMinutes) * time.Minute
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv parses and validates configuration from the process environment.
func FromEnv() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	if c.Auth.AccessTokenMinutes < 0 {
		return errors.New("ACCESS_TOKEN_MINUTES must not be negative")
	}
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("APP_PORT out of range: %d", c.App.Port)
	}
	if c.App.RateLimitPerMinute <= 0 {
		return errors.New("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.App.ShutdownTimeout <= 0 {
		return errors.New("SHUTDOWN_TIMEOUT_SECONDS must be positive")
	}
	if strings.TrimSpace(c.Turnstile.HoneypotField) == "" {
		return errors.New("HONEYPOT_FIELD_NAME must not be empty")
	}
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return fmt.Errorf("APP_TIMEZONE: %w", err)
	}
	c.App.location = loc
	return nil
}

// Configured reports whether bot verification should be enforced.
func (c TurnstileConfig) Configured() bool {
	return c.Enabled && c.SiteKey != "" && c.SecretKey != ""
}
