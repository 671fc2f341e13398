// Package config provides configuration structures and loading for lapstat.
package config

// Config represents the complete application configuration.
type Config struct {
	Provider ProviderConfig `yaml:"provider" mapstructure:"provider"`
	Database DatabaseConfig `yaml:"database" mapstructure:"database"`
	Cache    CacheConfig    `yaml:"cache" mapstructure:"cache"`
	Session  SessionConfig  `yaml:"session" mapstructure:"session"`
	Analysis AnalysisConfig `yaml:"analysis" mapstructure:"analysis"`
	Logging  LoggingConfig  `yaml:"logging" mapstructure:"logging"`
}

// ProviderConfig controls how session data is fetched.
type ProviderConfig struct {
	Offline        bool `yaml:"offline" mapstructure:"offline"`                 // serve from cache only, never touch the database
	TimeoutSeconds int  `yaml:"timeout_seconds" mapstructure:"timeout_seconds"` // 0 disables the timeout
}

// DatabaseConfig represents the timing database holding lap records.
type DatabaseConfig struct {
	Driver             string `yaml:"driver" mapstructure:"driver"` // mysql or sqlite3
	Host               string `yaml:"host" mapstructure:"host"`
	Port               int    `yaml:"port" mapstructure:"port"`
	User               string `yaml:"user" mapstructure:"user"`
	Password           string `yaml:"password" mapstructure:"password"`
	Database           string `yaml:"database" mapstructure:"database"`
	Path               string `yaml:"path" mapstructure:"path"` // sqlite3 database file
	TLS                string `yaml:"tls" mapstructure:"tls"`   // disable, preferred, required
	MaxConnections     int    `yaml:"max_connections" mapstructure:"max_connections"`
	MaxIdleConnections int    `yaml:"max_idle_connections" mapstructure:"max_idle_connections"`
	LapsTable          string `yaml:"laps_table" mapstructure:"laps_table"`
	SessionsTable      string `yaml:"sessions_table" mapstructure:"sessions_table"`
}

// CacheConfig represents the on-disk session cache.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Dir     string `yaml:"dir" mapstructure:"dir"`
}

// SessionConfig holds the session analysed when no CLI flag overrides it.
type SessionConfig struct {
	Year       int    `yaml:"year" mapstructure:"year"`
	Round      int    `yaml:"round" mapstructure:"round"`
	Identifier string `yaml:"identifier" mapstructure:"identifier"` // FP1, FP2, FP3, SQ, S, Q or R
}

// AnalysisConfig represents analysis settings.
type AnalysisConfig struct {
	Percentiles []int `yaml:"percentiles" mapstructure:"percentiles"`
}

// LoggingConfig represents logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // json or text
	Output string `yaml:"output" mapstructure:"output"` // stdout, stderr, or file path
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderConfig{
			Offline:        false,
			TimeoutSeconds: 30,
		},
		Database: DatabaseConfig{
			Driver:             "mysql",
			Port:               3306,
			TLS:                "preferred",
			MaxConnections:     4,
			MaxIdleConnections: 2,
			LapsTable:          "laps",
			SessionsTable:      "sessions",
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     ".lapstat-cache",
		},
		Session: SessionConfig{
			Identifier: "R",
		},
		Analysis: AnalysisConfig{
			Percentiles: []int{25, 50, 75},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// UsesDatabase reports whether sessions may be fetched from the database.
func (c *Config) UsesDatabase() bool {
	return !c.Provider.Offline
}
