package config

import (
	"errors"
	"strings"
	"testing"
)

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.Database.Host = "localhost"
	cfg.Database.User = "analyst"
	cfg.Database.Database = "f1"
	return cfg
}

func TestValidConfig(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Errorf("expected no validation errors, got: %v", err)
	}
}

func TestValidSQLiteConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Database.Driver = "sqlite3"
	cfg.Database.Path = "/data/timing.db"

	if err := cfg.Validate(); err != nil {
		t.Errorf("expected no validation errors, got: %v", err)
	}
}

func TestOfflineConfigSkipsDatabase(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider.Offline = true

	if err := cfg.Validate(); err != nil {
		t.Errorf("expected offline config without database to be valid, got: %v", err)
	}
}

func TestValidationFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"missing host", func(c *Config) { c.Database.Host = "" }, "database.host"},
		{"bad port", func(c *Config) { c.Database.Port = 70000 }, "database.port"},
		{"missing user", func(c *Config) { c.Database.User = "" }, "database.user"},
		{"missing database", func(c *Config) { c.Database.Database = "" }, "database.database"},
		{"bad tls", func(c *Config) { c.Database.TLS = "sometimes" }, "database.tls"},
		{"unknown driver", func(c *Config) { c.Database.Driver = "postgres" }, "database.driver"},
		{"sqlite without path", func(c *Config) { c.Database.Driver = "sqlite3" }, "database.path"},
		{"negative pool", func(c *Config) { c.Database.MaxConnections = -1 }, "database.max_connections"},
		{"empty laps table", func(c *Config) { c.Database.LapsTable = "" }, "database.laps_table"},
		{"empty sessions table", func(c *Config) { c.Database.SessionsTable = "" }, "database.sessions_table"},
		{"cache without dir", func(c *Config) { c.Cache.Dir = "" }, "cache.dir"},
		{"offline without cache", func(c *Config) { c.Provider.Offline = true; c.Cache.Enabled = false }, "provider.offline"},
		{"negative timeout", func(c *Config) { c.Provider.TimeoutSeconds = -5 }, "provider.timeout_seconds"},
		{"unknown session", func(c *Config) { c.Session.Identifier = "XYZ" }, "session.identifier"},
		{"negative round", func(c *Config) { c.Session.Round = -1 }, "session.round"},
		{"percentile too high", func(c *Config) { c.Analysis.Percentiles = []int{50, 101} }, "analysis.percentiles[1]"},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, "logging.level"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}

			var verrs ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("expected ValidationErrors, got %T", err)
			}

			found := false
			for _, v := range verrs {
				if v.Field == tt.field {
					found = true
				}
			}
			if !found {
				t.Errorf("expected error on field %s, got: %v", tt.field, err)
			}
		})
	}
}

func TestValidationErrorsMessage(t *testing.T) {
	errs := ValidationErrors{
		{Field: "database.host", Message: "host is required"},
		{Field: "cache.dir", Message: "dir is required when the cache is enabled"},
	}

	msg := errs.Error()
	if !strings.HasPrefix(msg, "validation failed:") {
		t.Errorf("unexpected message prefix: %s", msg)
	}
	if !strings.Contains(msg, "database.host: host is required") {
		t.Errorf("expected host error in message: %s", msg)
	}
	if !strings.Contains(msg, "cache.dir") {
		t.Errorf("expected cache error in message: %s", msg)
	}

	if (ValidationErrors{}).Error() != "" {
		t.Error("expected empty message for no errors")
	}
}

func TestValidateTarget(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.ValidateTarget(); err == nil {
		t.Error("expected error when year and round are unset")
	}

	cfg.Session.Year = 2024
	cfg.Session.Round = 1
	if err := cfg.ValidateTarget(); err != nil {
		t.Errorf("expected valid target, got %v", err)
	}

	cfg.Session.Identifier = ""
	if err := cfg.ValidateTarget(); err == nil {
		t.Error("expected error for missing identifier")
	}
}
