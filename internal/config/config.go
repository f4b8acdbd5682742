package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds application configuration
type Config struct {
	// Server
	Port string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret        string
	JWTExpirationDur time.Duration

	// First employee account, created at startup when no employee exists
	BootstrapEmployeeEmail    string
	BootstrapEmployeePassword string

	// Cart item blocking
	CartBlockDuration   time.Duration
	CartReleaseEnabled  bool
	CartReleaseInterval time.Duration

	// Product auto-deactivation
	AutoDeactivateEnabled   bool
	AutoDeactivateThreshold decimal.Decimal
	AutoDeactivateInterval  time.Duration

	// Simulated card operator
	CardOperatorEnabled          bool
	CardOperatorMaxPerCard       decimal.Decimal
	CardOperatorRejectedSuffixes []string
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		// Server
		Port: getEnv("PORT", "8080"),

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "rpgshop"),
		DBPassword: getEnv("DB_PASSWORD", "rpgshop"),
		DBName:     getEnv("DB_NAME", "rpgshop"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),

		BootstrapEmployeeEmail:    getEnv("BOOTSTRAP_EMPLOYEE_EMAIL", "admin@rpgshop.com.br"),
		BootstrapEmployeePassword: getEnv("BOOTSTRAP_EMPLOYEE_PASSWORD", "change-me-please"),

		CartBlockDuration:   getEnvDuration("CART_BLOCK_DURATION", 30*time.Minute),
		CartReleaseEnabled:  getEnvBool("CART_RELEASE_ENABLED", true),
		CartReleaseInterval: getEnvDuration("CART_RELEASE_INTERVAL", time.Minute),

		AutoDeactivateEnabled:   getEnvBool("PRODUCT_AUTO_DEACTIVATION_ENABLED", true),
		AutoDeactivateThreshold: getEnvDecimal("PRODUCT_AUTO_DEACTIVATION_THRESHOLD", "50.00"),
		AutoDeactivateInterval:  getEnvDuration("PRODUCT_AUTO_DEACTIVATION_INTERVAL", 24*time.Hour),

		CardOperatorEnabled:          getEnvBool("CARD_OPERATOR_ENABLED", true),
		CardOperatorMaxPerCard:       getEnvDecimal("CARD_OPERATOR_MAX_PER_CARD", "5000.00"),
		CardOperatorRejectedSuffixes: getEnvList("CARD_OPERATOR_REJECTED_SUFFIXES", "0000"),
	}

	// Parse JWT expiration duration
	config.JWTExpirationDur = getEnvDuration("JWT_EXPIRES_IN", 24*time.Hour)

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %t\n", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %s\n", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvDecimal(key, defaultValue string) decimal.Decimal {
	fallback := decimal.RequireFromString(defaultValue)
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := decimal.NewFromString(value)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %s\n", key, value, defaultValue)
		return fallback
	}
	return parsed
}

// getEnvList parses a comma-separated environment variable, trimming blanks.
func getEnvList(key, defaultValue string) []string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}
	var items []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
