package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig       `envPrefix:"CREWGATE_APP_"`
	Server    ServerConfig    `envPrefix:"CREWGATE_SERVER_"`
	Log       LogConfig       `envPrefix:"CREWGATE_LOG_"`
	Database  DatabaseConfig  `envPrefix:"CREWGATE_DB_"`
	JWT       JWTConfig       `envPrefix:"JWT_"`
	Session   SessionConfig   `envPrefix:"SESSION_"`
	Blacklist BlacklistConfig `envPrefix:"BLACKLIST_"`
	RateLimit RateLimitConfig `envPrefix:"RATELIMIT_"`
}

type AppConfig struct {
	Name string `env:"NAME" envDefault:"crewgate"`
	// Environment controls cookie attributes: "production" emits
	// Secure + SameSite=None, anything else SameSite=Lax without Secure.
	Environment string `env:"ENV" envDefault:"development"`
}

type ServerConfig struct {
	Port string `env:"PORT" envDefault:"8080"`
	Host string `env:"HOST" envDefault:"localhost"`
}

type LogConfig struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"json"`
	Output string `env:"OUTPUT" envDefault:"stdout"`
}

type DatabaseConfig struct {
	Driver      string `env:"DRIVER" envDefault:"sqlite"`
	DSN         string `env:"DSN" envDefault:"crewgate.db"`
	AutoMigrate bool   `env:"AUTO_MIGRATE" envDefault:"true"`
}

type JWTConfig struct {
	SecretKey     string        `env:"SECRET_KEY"`
	Issuer        string        `env:"ISSUER" envDefault:"crewgate"`
	Algorithm     string        `env:"ALGORITHM" envDefault:"HS256"`
	AccessExpiry  time.Duration `env:"ACCESS_EXPIRY" envDefault:"15m"`
	RefreshExpiry time.Duration `env:"REFRESH_EXPIRY" envDefault:"168h"`
	// SilentRefreshThreshold is the remaining access lifetime below
	// which the gateway mints a replacement in-band.
	SilentRefreshThreshold time.Duration `env:"SILENT_REFRESH_THRESHOLD" envDefault:"5m"`
	// RotationThreshold is the remaining refresh lifetime below which
	// a refresh credential is rotated when it is used.
	RotationThreshold time.Duration `env:"ROTATION_THRESHOLD" envDefault:"6h"`
}

type SessionConfig struct {
	// TTL is the sliding inactivity cap on session cache records.
	TTL          time.Duration `env:"TTL" envDefault:"2h"`
	Store        string        `env:"STORE" envDefault:"memory"`
	CookieDomain string        `env:"COOKIE_DOMAIN"`
}

type BlacklistConfig struct {
	// AccessTTLCap bounds how long a revoked access hash is retained,
	// regardless of the credential's own remaining lifetime.
	AccessTTLCap  time.Duration `env:"ACCESS_TTL_CAP" envDefault:"1h"`
	CleanupPeriod time.Duration `env:"CLEANUP_PERIOD" envDefault:"10m"`
}

type RateLimitConfig struct {
	LoginAttempts   int           `env:"LOGIN_ATTEMPTS" envDefault:"5"`
	LoginWindow     time.Duration `env:"LOGIN_WINDOW" envDefault:"15m"`
	RefreshAttempts int           `env:"REFRESH_ATTEMPTS" envDefault:"10"`
	RefreshWindow   time.Duration `env:"REFRESH_WINDOW" envDefault:"10m"`
	Store           string        `env:"STORE" envDefault:"memory"`
}

func (a AppConfig) IsProduction() bool {
	return a.Environment == "production"
}

func LoadConfig(cfg any) error {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found: %v", err)
	}

	if err := env.Parse(cfg); err != nil {
		return err
	}

	if c, ok := cfg.(*Config); ok {
		return c.Validate()
	}

	return nil
}

func (c *Config) Validate() error {
	if err := validateJWTConfig(&c.JWT); err != nil {
		return err
	}

	if c.JWT.AccessExpiry >= c.JWT.RefreshExpiry {
		return fmt.Errorf("JWT access expiry (%s) must be shorter than refresh expiry (%s)",
			c.JWT.AccessExpiry, c.JWT.RefreshExpiry)
	}

	return nil
}

var weakSecretPatterns = []string{
	"secret", "password", "changeme", "default", "example", "12345",
}

func validateJWTConfig(cfg *JWTConfig) error {
	if len(cfg.SecretKey) < 32 {
		return fmt.Errorf("JWT secret key must be at least 32 characters long")
	}

	lower := strings.ToLower(cfg.SecretKey)
	for _, pattern := range weakSecretPatterns {
		if strings.Contains(lower, pattern) {
			return fmt.Errorf("JWT secret key contains weak patterns")
		}
	}

	if cfg.Algorithm != "HS256" {
		return fmt.Errorf("unsupported JWT algorithm: %s (supported: HS256)", cfg.Algorithm)
	}

	return nil
}
