package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort  string
	ServerHost  string
	FrontendURL string

	// Session store configuration
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string
	SessionTTL time.Duration

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// Tracker API configuration
	TrackerBaseURL string
	TrackerRPS     float64
	TrackerBurst   int

	// Food detection
	DetectLimit  int
	DetectWindow time.Duration
	S3Bucket     string
	AWSRegion    string
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	cfg := &Config{}

	switch env {
	case CI:
		loadCIConfig(cfg)
	case Development, Test:
		if err := loadDevConfig(cfg); err != nil {
			return nil, fmt.Errorf("failed to load development configuration: %w", err)
		}
	case Production:
		loadProdConfig(cfg)
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadCIConfig reads everything from environment variables.
func loadCIConfig(cfg *Config) {
	applyValues(cfg, func(secret, envVar, def string) string {
		return valueOr(os.Getenv(envVar), def)
	})
	cfg.DBPassword = valueOr(os.Getenv("TEST_DB_PASSWORD"), cfg.DBPassword)
	cfg.RedisPassword = valueOr(os.Getenv("TEST_REDIS_PASSWORD"), cfg.RedisPassword)
}

// loadDevConfig loads a .env file when present, then prefers Docker secrets
// over environment variables.
func loadDevConfig(cfg *Config) error {
	envFile := valueOr(os.Getenv("ENV_FILE"), ".env")
	if err := godotenv.Load(envFile); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	} else {
		log.Printf("[Config] Loaded environment from %s", envFile)
	}

	applyValues(cfg, func(secret, envVar, def string) string {
		if secret != "" {
			if v := readSecret(secret); v != "" {
				return v
			}
		}
		return valueOr(os.Getenv(envVar), def)
	})
	return nil
}

// loadProdConfig reads sensitive values only from Docker secrets.
func loadProdConfig(cfg *Config) {
	applyValues(cfg, func(secret, envVar, def string) string {
		if secret != "" {
			return readSecret(secret)
		}
		return valueOr(os.Getenv(envVar), def)
	})
}

type lookupFunc func(secret, envVar, def string) string

func applyValues(cfg *Config, get lookupFunc) {
	cfg.ServerPort = get("", "SERVER_PORT", "8080")
	cfg.ServerHost = get("", "SERVER_HOST", "0.0.0.0")
	cfg.FrontendURL = get("", "FRONTEND_URL", "http://localhost:5173")

	cfg.DBDriver = get("", "DB_DRIVER", "postgres")
	cfg.DBHost = get("", "DB_HOST", "localhost")
	cfg.DBPort = get("", "DB_PORT", "5432")
	cfg.DBUser = get("db_user", "DB_USER", "")
	cfg.DBPassword = get("db_password", "DB_PASSWORD", "")
	cfg.DBName = get("", "DB_NAME", "proteinpal")
	cfg.DBSSLMode = get("", "DB_SSL_MODE", "disable")
	cfg.SQLitePath = get("", "SQLITE_PATH", "proteinpal.db")
	cfg.SessionTTL = parseDuration(get("", "SESSION_TTL", ""), 30*24*time.Hour)

	cfg.RedisHost = get("", "REDIS_HOST", "localhost")
	cfg.RedisPort = get("", "REDIS_PORT", "6379")
	cfg.RedisPassword = get("redis_password", "REDIS_PASSWORD", "")
	cfg.RedisURL = get("redis_url", "REDIS_URL", "")
	cfg.RedisDB = 0

	cfg.TrackerBaseURL = get("", "TRACKER_BASE_URL", "")
	cfg.TrackerRPS = parseFloat(get("", "TRACKER_RPS", ""), 10)
	cfg.TrackerBurst = parseInt(get("", "TRACKER_BURST", ""), 20)

	cfg.DetectLimit = parseInt(get("", "DETECT_LIMIT", ""), 30)
	cfg.DetectWindow = parseDuration(get("", "DETECT_WINDOW", ""), time.Hour)
	cfg.S3Bucket = get("", "S3_BUCKET_NAME", "")
	cfg.AWSRegion = get("", "AWS_REGION", "")
}

// DSN returns the session store connection string for the configured driver.
func (c *Config) DSN() string {
	if c.DBDriver == "sqlite" {
		return c.SQLitePath
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func valueOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func parseInt(raw string, def int) int {
	if v, err := strconv.Atoi(raw); err == nil {
		return v
	}
	return def
}

func parseFloat(raw string, def float64) float64 {
	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		return v
	}
	return def
}

func parseDuration(raw string, def time.Duration) time.Duration {
	if v, err := time.ParseDuration(raw); err == nil {
		return v
	}
	return def
}
