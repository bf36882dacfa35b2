package testutils

import (
	"time"

	"github.com/crewgate/crewgate/config"
)

func GetTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:        "Test App",
			Environment: "development",
		},
		JWT: config.JWTConfig{
			SecretKey:              "k9mP2vL8xQ4wN7rT3bZ6hJ1cF5dG0sYe",
			Issuer:                 "test-issuer",
			Algorithm:              "HS256",
			AccessExpiry:           15 * time.Minute,
			RefreshExpiry:          168 * time.Hour,
			SilentRefreshThreshold: 5 * time.Minute,
			RotationThreshold:      6 * time.Hour,
		},
		Session: config.SessionConfig{
			TTL:   2 * time.Hour,
			Store: "memory",
		},
		Blacklist: config.BlacklistConfig{
			AccessTTLCap:  time.Hour,
			CleanupPeriod: 10 * time.Minute,
		},
		RateLimit: config.RateLimitConfig{
			LoginAttempts:   5,
			LoginWindow:     15 * time.Minute,
			RefreshAttempts: 10,
			RefreshWindow:   10 * time.Minute,
			Store:           "memory",
		},
		Database: config.DatabaseConfig{
			Driver:      "sqlite",
			DSN:         ":memory:",
			AutoMigrate: true,
		},
	}
}

var TestUsers = struct {
	ValidUser struct {
		Username string
		Email    string
		Password string
	}
}{
	ValidUser: struct {
		Username string
		Email    string
		Password string
	}{
		Username: "testuser",
		Email:    "test@example.com",
		Password: "Voyage-Ready-2024",
	},
}
