// Package config provides configuration loading and validation for the verifier.
package config

import (
	"fmt"
	"os"
	"strconv"
)

const defaultJWTExpirationHours = 24

// JWTConfig holds the token signing parameters.
type JWTConfig struct {
	Secret          string
	ExpirationHours int
}

// NewJWTConfig builds the JWT configuration from the environment:
// JWT_SECRET (required) and JWT_EXPIRATION_HOURS (default 24).
func NewJWTConfig() (*JWTConfig, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but not set")
	}

	hours := defaultJWTExpirationHours
	if hoursStr := os.Getenv("JWT_EXPIRATION_HOURS"); hoursStr != "" {
		parsed, err := strconv.Atoi(hoursStr)
		if err != nil {
			return nil, fmt.Errorf("invalid JWT_EXPIRATION_HOURS: %w", err)
		}
		hours = parsed
	}
	if hours < 1 {
		return nil, fmt.Errorf("JWT_EXPIRATION_HOURS must be at least 1, got: %d", hours)
	}

	return &JWTConfig{Secret: secret, ExpirationHours: hours}, nil
}
