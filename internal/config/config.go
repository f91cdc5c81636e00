// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Backend names accepted by BACKEND.
const (
	BackendLocal  = "local"
	BackendBraket = "braket"
)

// Config holds application configuration
type Config struct {
	DataDir   string // Base directory for the task database (always absolute)
	Port      int
	LogLevel  string
	DevMode   bool
	Backend   string // "local" (stand-in simulator) or "braket" (hardware)
	Shots     int    // Default shot count when a request omits one
	Retention int    // Task retention in days before cleanup purges them

	// Hardware submission (used when Backend is "braket")
	AWSRegion       string
	BraketDeviceARN string
	S3Bucket        string
	S3Prefix        string
	PollSeconds     int // Quantum task status poll interval
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := getEnv("PULSE_DATA_DIR", "./data")
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:         absDataDir,
		Port:            getEnvAsInt("PORT", 8080),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		DevMode:         getEnvAsBool("DEV_MODE", false),
		Backend:         getEnv("BACKEND", BackendLocal),
		Shots:           getEnvAsInt("DEFAULT_SHOTS", 100),
		Retention:       getEnvAsInt("TASK_RETENTION_DAYS", 30),
		AWSRegion:       getEnv("AWS_REGION", "us-east-1"),
		BraketDeviceARN: getEnv("BRAKET_DEVICE_ARN", "arn:aws:braket:us-east-1::device/qpu/quera/Aquila"),
		S3Bucket:        getEnv("BRAKET_S3_BUCKET", ""),
		S3Prefix:        getEnv("BRAKET_S3_PREFIX", "pulsebridge"),
		PollSeconds:     getEnvAsInt("BRAKET_POLL_SECONDS", 5),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendLocal, BackendBraket:
	default:
		return fmt.Errorf("unknown backend %q (expected %q or %q)", c.Backend, BackendLocal, BackendBraket)
	}

	if c.Backend == BackendBraket && c.S3Bucket == "" {
		return fmt.Errorf("BRAKET_S3_BUCKET is required when BACKEND=%s", BackendBraket)
	}

	if c.Shots <= 0 {
		return fmt.Errorf("DEFAULT_SHOTS must be positive, got %d", c.Shots)
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
