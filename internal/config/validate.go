package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a config validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors represents multiple validation failures.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var b strings.Builder
	b.WriteString("config validation failed:\n")
	for _, err := range e {
		b.WriteString("  - ")
		b.WriteString(err.Error())
		b.WriteString("\n")
	}
	return b.String()
}

// validTransports lists recognized MCP server transports.
var validTransports = map[string]bool{
	"stdio": true,
	"http":  true,
}

// validSchemes lists recognized Weaviate connection schemes.
var validSchemes = map[string]bool{
	"http":  true,
	"https": true,
}

// Validate checks the configuration for errors.
// Returns ValidationErrors if validation fails.
func Validate(cfg *Config) error {
	var errs ValidationErrors

	if !validTransports[cfg.Server.Transport] {
		errs = append(errs, ValidationError{
			Field:   "server.transport",
			Message: fmt.Sprintf("must be one of stdio, http; got %q", cfg.Server.Transport),
		})
	}

	if cfg.Server.HTTPPort < 1 || cfg.Server.HTTPPort > 65535 {
		errs = append(errs, ValidationError{
			Field:   "server.http_port",
			Message: fmt.Sprintf("must be between 1 and 65535, got %d", cfg.Server.HTTPPort),
		})
	}

	if cfg.Server.HTTPBind == "" {
		errs = append(errs, ValidationError{
			Field:   "server.http_bind",
			Message: "must not be empty",
		})
	}

	if cfg.Weaviate.Host == "" {
		errs = append(errs, ValidationError{
			Field:   "weaviate.host",
			Message: "must not be empty",
		})
	}

	if !validSchemes[cfg.Weaviate.Scheme] {
		errs = append(errs, ValidationError{
			Field:   "weaviate.scheme",
			Message: fmt.Sprintf("must be one of http, https; got %q", cfg.Weaviate.Scheme),
		})
	}

	if cfg.Weaviate.RetryAttempts < 0 {
		errs = append(errs, ValidationError{
			Field:   "weaviate.retry_attempts",
			Message: fmt.Sprintf("must be non-negative, got %d", cfg.Weaviate.RetryAttempts),
		})
	}

	if cfg.Schema.CacheTTLSeconds < 1 {
		errs = append(errs, ValidationError{
			Field:   "schema.cache_ttl_seconds",
			Message: fmt.Sprintf("must be at least 1 second, got %d", cfg.Schema.CacheTTLSeconds),
		})
	}

	if cfg.Schema.ResolverTTLSeconds < 1 {
		errs = append(errs, ValidationError{
			Field:   "schema.resolver_ttl_seconds",
			Message: fmt.Sprintf("must be at least 1 second, got %d", cfg.Schema.ResolverTTLSeconds),
		})
	}

	if cfg.Origin.Collection == "" {
		errs = append(errs, ValidationError{
			Field:   "origin.collection",
			Message: "must not be empty",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}
