package cmd

import (
	"os"

	"github.com/gookit/color"
	"github.com/spf13/cobra"

	"github.com/dbsmedya/lapstat/internal/config"
)

// Version information (set via ldflags at build time)
var (
	Version = "0.0.1-dev"
	Commit  = "unknown"
)

// CLI flags that override config file values
var (
	cfgFile      string
	logLevel     string
	logFormat    string
	year         int
	round        int
	sessionID    string
	cacheDir     string
	offline      bool
	outputFormat string
	noColor      bool
)

var rootCmd = &cobra.Command{
	Use:   "lapstat",
	Short: "Lap-time statistics for motorsport sessions",
	Long: `A CLI tool computing per-driver and per-team lap-time statistics from
timed session data stored in MySQL or SQLite, with an on-disk session cache.

Features:
  - Median lap time over outlier-filtered laps (1.5 sigma around the median)
  - Fastest lap, lap-time variance and percentiles
  - Lap-to-lap progression
  - Lap-by-lap comparison of two drivers or teams, optionally per stint`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor {
			color.Disable()
		}
	},
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Config file flag
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "lapstat.yaml",
		"Path to configuration file")

	// Logging overrides
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"Override log format (json, text)")

	// Session selection
	rootCmd.PersistentFlags().IntVarP(&year, "year", "y", 0,
		"Season year, e.g. 2024")
	rootCmd.PersistentFlags().IntVarP(&round, "round", "r", 0,
		"Round number within the season (1 = first event)")
	rootCmd.PersistentFlags().StringVarP(&sessionID, "session", "s", "",
		"Session identifier (FP1, FP2, FP3, SQ, S, Q, R)")

	// Provider overrides
	rootCmd.PersistentFlags().StringVar(&cacheDir, "cache-dir", "",
		"Override session cache directory (enables the cache)")
	rootCmd.PersistentFlags().BoolVar(&offline, "offline", false,
		"Serve sessions from the cache only")

	// Output
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text",
		"Output format (text, json)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false,
		"Disable colored output")
}

// GetConfigFile returns the config file path
func GetConfigFile() string {
	return cfgFile
}

// configFileExplicit reports whether --config was given on the command line.
func configFileExplicit() bool {
	return rootCmd.PersistentFlags().Changed("config")
}

// GetCLIOverrides returns the CLI flag override values
func GetCLIOverrides() config.Overrides {
	return config.Overrides{
		LogLevel:  logLevel,
		LogFormat: logFormat,
		Year:      year,
		Round:     round,
		Session:   sessionID,
		CacheDir:  cacheDir,
		Offline:   offline,
	}
}
