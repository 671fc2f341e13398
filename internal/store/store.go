// Package store implements a session provider backed by a timing database.
//
// The provider expects two tables (names are configurable):
//
//	sessions(year, round, session, event_name, location)
//	laps(year, round, session, driver, team, lap_number, stint, lap_time_ms)
//
// stint and lap_time_ms are nullable.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dbsmedya/lapstat/internal/logger"
	"github.com/dbsmedya/lapstat/internal/session"
	"github.com/dbsmedya/lapstat/internal/sqlutil"
	"github.com/dbsmedya/lapstat/internal/types"
)

// SQLProvider reads session data from a MySQL or SQLite database.
type SQLProvider struct {
	db         *sql.DB
	tables     []string
	eventQuery string
	lapsQuery  string
	logger     *logger.Logger
}

// NewSQLProvider creates a provider reading from the given tables.
func NewSQLProvider(db *sql.DB, lapsTable, sessionsTable string, log *logger.Logger) (*SQLProvider, error) {
	if db == nil {
		return nil, fmt.Errorf("database is nil")
	}

	laps, err := sqlutil.QuoteTable(lapsTable)
	if err != nil {
		return nil, err
	}
	sessions, err := sqlutil.QuoteTable(sessionsTable)
	if err != nil {
		return nil, err
	}

	if log == nil {
		log = logger.NewDefault()
	}

	return &SQLProvider{
		db:     db,
		tables: []string{sessions, laps},
		eventQuery: fmt.Sprintf(
			"SELECT event_name, location FROM %s WHERE year = ? AND round = ? AND session = ?",
			sessions),
		lapsQuery: fmt.Sprintf(
			"SELECT driver, team, lap_number, stint, lap_time_ms FROM %s WHERE year = ? AND round = ? AND session = ? ORDER BY lap_number, driver",
			laps),
		logger: log,
	}, nil
}

// Check verifies that both tables can be read.
func (p *SQLProvider) Check(ctx context.Context) error {
	for _, table := range p.tables {
		var one int
		err := p.db.QueryRowContext(ctx, fmt.Sprintf("SELECT 1 FROM %s LIMIT 1", table)).Scan(&one)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("table %s is not readable: %w", table, err)
		}
	}
	return nil
}

// Fetch loads the event and every lap of the session.
func (p *SQLProvider) Fetch(ctx context.Context, key session.Key) (*session.Data, error) {
	event, err := p.fetchEvent(ctx, key)
	if err != nil {
		return nil, err
	}

	laps, err := p.fetchLaps(ctx, key)
	if err != nil {
		return nil, err
	}

	p.logger.Debugf("Fetched %d laps for %s from database", len(laps), key)
	return &session.Data{Event: event, Laps: laps}, nil
}

func (p *SQLProvider) fetchEvent(ctx context.Context, key session.Key) (session.Event, error) {
	var name, location sql.NullString

	err := p.db.QueryRowContext(ctx, p.eventQuery, key.Year, key.Round, key.Identifier).
		Scan(&name, &location)
	if errors.Is(err, sql.ErrNoRows) {
		return session.Event{}, fmt.Errorf("%s: %w", key, session.ErrSessionNotFound)
	}
	if err != nil {
		return session.Event{}, fmt.Errorf("failed to query session %s: %w", key, err)
	}

	return session.Event{Name: name.String, Location: location.String}, nil
}

func (p *SQLProvider) fetchLaps(ctx context.Context, key session.Key) (types.Laps, error) {
	rows, err := p.db.QueryContext(ctx, p.lapsQuery, key.Year, key.Round, key.Identifier)
	if err != nil {
		return nil, fmt.Errorf("failed to query laps for %s: %w", key, err)
	}
	defer rows.Close()

	laps := types.Laps{}
	for rows.Next() {
		var (
			lap       types.LapRecord
			stint     sql.NullInt64
			lapTimeMs sql.NullInt64
		)
		if err := rows.Scan(&lap.Driver, &lap.Team, &lap.LapNumber, &stint, &lapTimeMs); err != nil {
			return nil, fmt.Errorf("failed to scan lap row for %s: %w", key, err)
		}
		lap.Stint = types.IntFromNull(stint)
		lap.LapTime = types.DurationFromMillis(lapTimeMs)
		laps = append(laps, lap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read laps for %s: %w", key, err)
	}

	return laps, nil
}
