package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/lapstat/internal/config"
	"github.com/dbsmedya/lapstat/internal/database"
	"github.com/dbsmedya/lapstat/internal/logger"
	"github.com/dbsmedya/lapstat/internal/store"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration and check the session sources",
	Long: `Validate checks the configuration file and the sources sessions are read
from.

Checks performed:
  - Configuration syntax and required fields
  - Database connectivity (unless offline)
  - Laps and sessions tables are readable
  - Cache directory status

Example:
  lapstat validate --config lapstat.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting validation checks...")

	printHeader("Configuration Validation")
	fmt.Fprintf(outputWriter, "Config file: %s\n", GetConfigFile())
	fmt.Fprintf(outputWriter, "Percentiles: %s\n", joinInts(cfg.Analysis.Percentiles))
	if cfg.Session.Year > 0 && cfg.Session.Round > 0 {
		fmt.Fprintf(outputWriter, "Session:     %d round %d (%s)\n",
			cfg.Session.Year, cfg.Session.Round, cfg.Session.Identifier)
	}
	fmt.Fprintln(outputWriter)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	printSection("Database")
	if cfg.UsesDatabase() {
		if err := checkDatabase(ctx, cfg, log); err != nil {
			fmt.Fprintf(outputWriter, "  ❌ %v\n\n", err)
			return fmt.Errorf("validation failed: %w", err)
		}
		fmt.Fprintf(outputWriter, "  ✅ %s reachable, tables %s and %s readable\n",
			cfg.Database.Driver, cfg.Database.SessionsTable, cfg.Database.LapsTable)
	} else {
		fmt.Fprintln(outputWriter, "  Offline, database not used")
	}
	fmt.Fprintln(outputWriter)

	printSection("Cache")
	fmt.Fprintf(outputWriter, "  %s\n", describeCache(cfg))
	fmt.Fprintln(outputWriter)

	fmt.Fprintln(outputWriter, "=== Validation Complete ===")
	fmt.Fprintln(outputWriter, "✅ Configuration is valid")
	return nil
}

func checkDatabase(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	mgr := database.NewManager(&cfg.Database)
	if err := mgr.Connect(ctx); err != nil {
		return err
	}
	defer func() { _ = mgr.Close() }()

	if err := mgr.Ping(ctx); err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}

	p, err := store.NewSQLProvider(mgr.DB, cfg.Database.LapsTable, cfg.Database.SessionsTable, log)
	if err != nil {
		return err
	}
	return p.Check(ctx)
}

func describeCache(cfg *config.Config) string {
	if !cfg.Cache.Enabled {
		return "Disabled"
	}
	info, err := os.Stat(cfg.Cache.Dir)
	switch {
	case os.IsNotExist(err):
		return fmt.Sprintf("%s (will be created)", cfg.Cache.Dir)
	case err != nil:
		return fmt.Sprintf("%s (not accessible: %v)", cfg.Cache.Dir, err)
	case !info.IsDir():
		return fmt.Sprintf("%s (not a directory)", cfg.Cache.Dir)
	default:
		return cfg.Cache.Dir
	}
}

func joinInts(xs []int) string {
	parts := make([]string, 0, len(xs))
	for _, x := range xs {
		parts = append(parts, fmt.Sprintf("%d", x))
	}
	return strings.Join(parts, ", ")
}
