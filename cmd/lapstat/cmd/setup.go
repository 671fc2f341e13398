package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dbsmedya/lapstat/internal/analyzer"
	"github.com/dbsmedya/lapstat/internal/cache"
	"github.com/dbsmedya/lapstat/internal/config"
	"github.com/dbsmedya/lapstat/internal/database"
	"github.com/dbsmedya/lapstat/internal/logger"
	"github.com/dbsmedya/lapstat/internal/session"
	"github.com/dbsmedya/lapstat/internal/store"
)

// environment is everything a session command needs.
type environment struct {
	cfg     *config.Config
	log     *logger.Logger
	session *session.Session
	ctx     context.Context

	closers []func()
}

// Close releases the context and any open database connection.
func (e *environment) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
	_ = e.log.Sync()
}

// loadConfig reads the config file, applies CLI overrides and validates the result.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadOrDefault(GetConfigFile(), configFileExplicit())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	cfg.ApplyOverrides(GetCLIOverrides())

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// setup prepares config, logger and the session handle for the selected
// year, round and session.
func setup(parent context.Context) (*environment, error) {
	if parent == nil {
		parent = context.Background()
	}
	if err := checkOutputFormat(); err != nil {
		return nil, err
	}

	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.ValidateTarget(); err != nil {
		return nil, fmt.Errorf("no session selected: %w", err)
	}

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	env := &environment{cfg: cfg, log: log}

	ctx, stop := database.WithInterrupt(parent, func(sig os.Signal) {
		log.Warnf("Received %s, aborting", sig)
	})
	env.closers = append(env.closers, stop)

	if cfg.Provider.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(cfg.Provider.TimeoutSeconds)*time.Second)
		env.closers = append(env.closers, cancel)
	}
	env.ctx = ctx

	provider, closeProvider, err := buildProvider(cfg, log)
	if err != nil {
		env.Close()
		return nil, err
	}
	env.closers = append(env.closers, closeProvider)

	env.session = session.Get(provider, cfg.Session.Year, cfg.Session.Round, cfg.Session.Identifier)
	log.Debugf("Session %s via %s", env.session.Key(), describeProvider(cfg))
	return env, nil
}

// buildProvider chains the database and the cache according to config.
func buildProvider(cfg *config.Config, log *logger.Logger) (session.Provider, func(), error) {
	var upstream session.Provider
	closer := func() {}

	if cfg.UsesDatabase() {
		db := &dbProvider{cfg: &cfg.Database, log: log}
		upstream = db
		closer = db.Close
	}

	if !cfg.Cache.Enabled {
		return upstream, closer, nil
	}

	c, err := cache.New(cfg.Cache.Dir, upstream, log)
	if err != nil {
		return nil, closer, fmt.Errorf("failed to open session cache: %w", err)
	}
	return c, closer, nil
}

func describeProvider(cfg *config.Config) string {
	switch {
	case cfg.UsesDatabase() && cfg.Cache.Enabled:
		return fmt.Sprintf("%s database with cache %s", cfg.Database.Driver, cfg.Cache.Dir)
	case cfg.UsesDatabase():
		return fmt.Sprintf("%s database", cfg.Database.Driver)
	default:
		return fmt.Sprintf("cache %s (offline)", cfg.Cache.Dir)
	}
}

// dbProvider connects on first use so that cache hits never open a
// database connection.
type dbProvider struct {
	cfg   *config.DatabaseConfig
	log   *logger.Logger
	mgr   *database.Manager
	store *store.SQLProvider
}

func (p *dbProvider) Fetch(ctx context.Context, key session.Key) (*session.Data, error) {
	if p.store == nil {
		mgr := database.NewManager(p.cfg)
		if err := mgr.Connect(ctx); err != nil {
			return nil, err
		}
		s, err := store.NewSQLProvider(mgr.DB, p.cfg.LapsTable, p.cfg.SessionsTable, p.log)
		if err != nil {
			_ = mgr.Close()
			return nil, err
		}
		p.mgr, p.store = mgr, s
	}
	return p.store.Fetch(ctx, key)
}

func (p *dbProvider) Close() {
	if p.mgr != nil {
		if err := p.mgr.Close(); err != nil {
			p.log.Warnf("Failed to close database: %v", err)
		}
	}
}

// newAnalyzers builds one analyzer per identifier, all sharing the session.
func (e *environment) newAnalyzers(team bool, identifiers []string) []*analyzer.Analyzer {
	analyzers := make([]*analyzer.Analyzer, 0, len(identifiers))
	for _, id := range identifiers {
		if team {
			analyzers = append(analyzers, analyzer.NewTeamAnalyzer(id, e.session, e.log))
		} else {
			analyzers = append(analyzers, analyzer.NewDriverAnalyzer(id, e.session, e.log))
		}
	}
	return analyzers
}
