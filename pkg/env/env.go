// Package env loads configuration from .env files and the process
// environment.
package env

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Service reads configuration values, with .env files loaded on creation
type Service struct{}

// NewService loads .env from the working directory when present. A missing
// file is not an error; deployed environments set real variables instead.
func NewService() *Service {
	_ = godotenv.Load(".env")
	return &Service{}
}

// Get returns the value of the variable, or "" when unset
func (s *Service) Get(key string) string {
	return os.Getenv(key)
}

// MustGet returns the value of the variable or an error when it is unset
func (s *Service) MustGet(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("environment variable %s is not set", key)
	}
	return val, nil
}

// GetBool parses the variable as a boolean, falling back to the default
// when unset or malformed
func (s *Service) GetBool(key string, defaultValue bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// GetInt parses the variable as an integer, falling back to the default
// when unset or malformed
func (s *Service) GetInt(key string, defaultValue int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return parsed
}
