package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks that the configuration is usable in the current
// environment. Development is forgiving so the app can run against local
// defaults; production requires the secrets to actually be present.
func ValidateConfig(cfg *Config) error {
	var errors []string

	if cfg.ServerPort == "" {
		errors = append(errors, ValidationError{Field: "ServerPort", Message: "server port is required"}.Error())
	}
	if cfg.DBHost == "" || cfg.DBPort == "" || cfg.DBName == "" {
		errors = append(errors, ValidationError{Field: "Database", Message: "host, port and name are required"}.Error())
	}
	if cfg.RedisURL != "" && cfg.RedisHost != "" {
		errors = append(errors, ValidationError{Field: "Redis", Message: "set REDIS_URL or REDIS_HOST, not both"}.Error())
	}

	if IsProduction() {
		if cfg.DBPassword == "" {
			errors = append(errors, ValidationError{Field: "DBPassword", Message: "db_password secret is required in production"}.Error())
		}
		if cfg.LLMAPIKey == "" {
			errors = append(errors, ValidationError{Field: "LLMAPIKey", Message: "llm_api_key secret is required in production"}.Error())
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errors, "\n"))
	}

	return nil
}
