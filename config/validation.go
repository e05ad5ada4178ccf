package config

import (
	"errors"
	"fmt"
	"net/url"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks the configuration for the current environment and
// reports every problem at once.
func ValidateConfig(cfg *Config) error {
	env := GetEnvironment()
	var problems []error

	if cfg.TrackerBaseURL == "" {
		problems = append(problems, ValidationError{"TRACKER_BASE_URL", "is required"})
	} else if u, err := url.Parse(cfg.TrackerBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		problems = append(problems, ValidationError{"TRACKER_BASE_URL", "must be an absolute URL"})
	}
	if cfg.ServerPort == "" {
		problems = append(problems, ValidationError{"SERVER_PORT", "is required"})
	}

	switch cfg.DBDriver {
	case "sqlite":
		if cfg.SQLitePath == "" {
			problems = append(problems, ValidationError{"SQLITE_PATH", "is required for the sqlite driver"})
		}
		if env == Production {
			problems = append(problems, ValidationError{"DB_DRIVER", "sqlite is not allowed in production"})
		}
	case "postgres":
		if cfg.DBHost == "" || cfg.DBName == "" {
			problems = append(problems, ValidationError{"DB_HOST", "host and database name are required"})
		}
		if cfg.DBUser == "" {
			problems = append(problems, ValidationError{"db_user", "is required"})
		}
		if cfg.DBPassword == "" {
			if env == CI {
				problems = append(problems, ValidationError{"DB_PASSWORD", "environment variable is required in CI environment"})
			} else {
				problems = append(problems, ValidationError{"db_password", "secret is required"})
			}
		}
	default:
		problems = append(problems, ValidationError{"DB_DRIVER", fmt.Sprintf("unsupported driver %q", cfg.DBDriver)})
	}

	if cfg.DetectLimit <= 0 {
		problems = append(problems, ValidationError{"DETECT_LIMIT", "must be positive"})
	}
	if cfg.DetectWindow <= 0 {
		problems = append(problems, ValidationError{"DETECT_WINDOW", "must be positive"})
	}
	if cfg.SessionTTL <= 0 {
		problems = append(problems, ValidationError{"SESSION_TTL", "must be positive"})
	}
	if env == Production && cfg.S3Bucket != "" && cfg.AWSRegion == "" {
		problems = append(problems, ValidationError{"AWS_REGION", "is required when S3_BUCKET_NAME is set"})
	}

	return errors.Join(problems...)
}
