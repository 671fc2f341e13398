package config

import (
	"fmt"
	"strings"

	"github.com/dbsmedya/lapstat/internal/session"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

// Validate checks the configuration for required fields and valid values.
func (c *Config) Validate() error {
	var errors ValidationErrors

	errors = append(errors, c.validateProvider()...)
	if c.UsesDatabase() {
		errors = append(errors, c.validateDatabase()...)
	}
	errors = append(errors, c.validateCache()...)
	errors = append(errors, c.validateSession()...)
	errors = append(errors, c.validateAnalysis()...)
	errors = append(errors, c.validateLogging()...)

	if len(errors) > 0 {
		return errors
	}
	return nil
}

func (c *Config) validateProvider() ValidationErrors {
	var errors ValidationErrors

	if c.Provider.TimeoutSeconds < 0 {
		errors = append(errors, ValidationError{
			Field:   "provider.timeout_seconds",
			Message: "timeout_seconds cannot be negative",
		})
	}

	if c.Provider.Offline && !c.Cache.Enabled {
		errors = append(errors, ValidationError{
			Field:   "provider.offline",
			Message: "offline mode requires the cache to be enabled",
		})
	}

	return errors
}

func (c *Config) validateDatabase() ValidationErrors {
	var errors ValidationErrors
	db := &c.Database

	switch db.Driver {
	case "mysql":
		if db.Host == "" {
			errors = append(errors, ValidationError{
				Field:   "database.host",
				Message: "host is required",
			})
		}

		if db.Port <= 0 || db.Port > 65535 {
			errors = append(errors, ValidationError{
				Field:   "database.port",
				Message: "port must be between 1 and 65535",
			})
		}

		if db.User == "" {
			errors = append(errors, ValidationError{
				Field:   "database.user",
				Message: "user is required",
			})
		}

		if db.Database == "" {
			errors = append(errors, ValidationError{
				Field:   "database.database",
				Message: "database name is required",
			})
		}

		validTLS := map[string]bool{"disable": true, "preferred": true, "required": true, "": true}
		if !validTLS[db.TLS] {
			errors = append(errors, ValidationError{
				Field:   "database.tls",
				Message: "tls must be 'disable', 'preferred', or 'required'",
			})
		}
	case "sqlite3":
		if db.Path == "" {
			errors = append(errors, ValidationError{
				Field:   "database.path",
				Message: "path is required for sqlite3",
			})
		}
	default:
		errors = append(errors, ValidationError{
			Field:   "database.driver",
			Message: "driver must be 'mysql' or 'sqlite3'",
		})
	}

	if db.MaxConnections < 0 {
		errors = append(errors, ValidationError{
			Field:   "database.max_connections",
			Message: "max_connections cannot be negative",
		})
	}

	if db.MaxIdleConnections < 0 {
		errors = append(errors, ValidationError{
			Field:   "database.max_idle_connections",
			Message: "max_idle_connections cannot be negative",
		})
	}

	if db.LapsTable == "" {
		errors = append(errors, ValidationError{
			Field:   "database.laps_table",
			Message: "laps_table is required",
		})
	}

	if db.SessionsTable == "" {
		errors = append(errors, ValidationError{
			Field:   "database.sessions_table",
			Message: "sessions_table is required",
		})
	}

	return errors
}

func (c *Config) validateCache() ValidationErrors {
	var errors ValidationErrors

	if c.Cache.Enabled && c.Cache.Dir == "" {
		errors = append(errors, ValidationError{
			Field:   "cache.dir",
			Message: "dir is required when the cache is enabled",
		})
	}

	return errors
}

func (c *Config) validateSession() ValidationErrors {
	var errors ValidationErrors

	if c.Session.Year < 0 {
		errors = append(errors, ValidationError{
			Field:   "session.year",
			Message: "year cannot be negative",
		})
	}

	if c.Session.Round < 0 {
		errors = append(errors, ValidationError{
			Field:   "session.round",
			Message: "round cannot be negative",
		})
	}

	if c.Session.Identifier != "" && !session.ValidIdentifier(c.Session.Identifier) {
		errors = append(errors, ValidationError{
			Field:   "session.identifier",
			Message: fmt.Sprintf("identifier must be one of %s", strings.Join(session.Identifiers, ", ")),
		})
	}

	return errors
}

func (c *Config) validateAnalysis() ValidationErrors {
	var errors ValidationErrors

	for i, p := range c.Analysis.Percentiles {
		if p < 0 || p > 100 {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("analysis.percentiles[%d]", i),
				Message: "percentile must be between 0 and 100",
			})
		}
	}

	return errors
}

func (c *Config) validateLogging() ValidationErrors {
	var errors ValidationErrors

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true, "": true}
	if !validLevels[c.Logging.Level] {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Message: "level must be 'debug', 'info', 'warn', or 'error'",
		})
	}

	validFormats := map[string]bool{"json": true, "text": true, "": true}
	if !validFormats[c.Logging.Format] {
		errors = append(errors, ValidationError{
			Field:   "logging.format",
			Message: "format must be 'json' or 'text'",
		})
	}

	return errors
}

// ValidateTarget checks that a session to analyse has been selected.
// It is separate from Validate because the year and round usually come
// from CLI flags rather than the file.
func (c *Config) ValidateTarget() error {
	var errors ValidationErrors

	if c.Session.Year <= 0 {
		errors = append(errors, ValidationError{
			Field:   "session.year",
			Message: "year is required",
		})
	}

	if c.Session.Round <= 0 {
		errors = append(errors, ValidationError{
			Field:   "session.round",
			Message: "round is required",
		})
	}

	if c.Session.Identifier == "" {
		errors = append(errors, ValidationError{
			Field:   "session.identifier",
			Message: "identifier is required",
		})
	}

	if len(errors) > 0 {
		return errors
	}
	return nil
}
