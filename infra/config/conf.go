package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type CKey string

type Config struct {
	Validator *validator.Validate
	SecretKey string
}

// AppConfig represents the application configuration. It is built once at
// startup, validated, and treated as immutable afterwards.
type AppConfig struct {
	Port             string
	Environment      string
	APIKey           string
	DBPath           string
	PlansFile        string
	FrontendOrigin   string
	ServerKey        string
	ClientKey        string
	Production       bool
	OpenSearchURL    string
	OpenSearchUser   string
	OpenSearchPass   string
	EnableLogging    bool
	LogRetentionDays int
}

var (
	instance          *Config
	appConfigInstance *AppConfig
)

func App() *Config {
	if instance == nil {
		instance = &Config{
			Validator: validator.New(),
			// the secret key will change every time the application is restarted.
			SecretKey: uuid.New().String(),
		}
	}
	return instance
}

// GetAppConfig returns the application configuration
func GetAppConfig() *AppConfig {
	if appConfigInstance == nil {
		appConfigInstance = &AppConfig{
			Port:             GetEnv("APP_PORT", "9999"),
			Environment:      GetEnv("ENVIRONMENT", "development"),
			APIKey:           GetEnv("API_KEY", ""),
			DBPath:           GetEnv("DB_PATH", "./data/paysnap.db"),
			PlansFile:        GetEnv("PLANS_FILE", ""),
			FrontendOrigin:   firstOrigin(GetEnv("FRONTEND_ORIGIN", "http://localhost:3000")),
			ServerKey:        strings.TrimSpace(GetEnv("MIDTRANS_SERVER_KEY", "")),
			ClientKey:        strings.TrimSpace(GetEnv("MIDTRANS_CLIENT_KEY", "")),
			Production:       GetBoolEnv("MIDTRANS_PRODUCTION", false),
			OpenSearchURL:    GetEnv("OPENSEARCH_URL", "http://localhost:9200"),
			OpenSearchUser:   GetEnv("OPENSEARCH_USER", ""),
			OpenSearchPass:   GetEnv("OPENSEARCH_PASSWORD", ""),
			EnableLogging:    GetBoolEnv("ENABLE_OPENSEARCH_LOGGING", false),
			LogRetentionDays: GetIntEnv("LOG_RETENTION_DAYS", 30),
		}
	}
	return appConfigInstance
}

// Validate checks that the gateway credentials required at runtime are
// present. Called once from main before anything is served.
func (c *AppConfig) Validate() error {
	if c.ServerKey == "" || c.ClientKey == "" {
		return errors.New("MIDTRANS_SERVER_KEY / MIDTRANS_CLIENT_KEY must be set")
	}
	return nil
}

// SandboxKeyMismatch reports whether the configured keys look like they belong
// to the other Midtrans environment (sandbox keys carry an SB- prefix).
func (c *AppConfig) SandboxKeyMismatch() bool {
	if c.Production {
		return strings.HasPrefix(c.ServerKey, "SB-") || strings.HasPrefix(c.ClientKey, "SB-")
	}
	return !strings.HasPrefix(c.ServerKey, "SB-") || !strings.HasPrefix(c.ClientKey, "SB-")
}

// FRONTEND_ORIGIN may hold a comma separated list; callbacks use the first entry.
func firstOrigin(origins string) string {
	return strings.TrimSpace(strings.Split(origins, ",")[0])
}

// GetEnv returns the value of an environment variable or a default value
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetBoolEnv returns the boolean value of an environment variable or a default value
func GetBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// GetIntEnv returns the integer value of an environment variable or a default value
func GetIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
