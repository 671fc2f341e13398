// Package cache stores fetched sessions as YAML snapshots on disk and
// serves them back without touching the upstream provider.
//
// Layout: <dir>/<year>/<round>_<session>.yaml, e.g. cache/2024/01_R.yaml.
package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dbsmedya/lapstat/internal/logger"
	"github.com/dbsmedya/lapstat/internal/session"
	"github.com/dbsmedya/lapstat/internal/types"
)

// Provider is a write-through session cache in front of an upstream
// provider. With a nil upstream it serves cached sessions only.
type Provider struct {
	dir      string
	upstream session.Provider
	logger   *logger.Logger
}

type snapshot struct {
	Year      int           `yaml:"year"`
	Round     int           `yaml:"round"`
	Session   string        `yaml:"session"`
	EventName string        `yaml:"event_name,omitempty"`
	Location  string        `yaml:"location,omitempty"`
	FetchedAt time.Time     `yaml:"fetched_at"`
	Laps      []snapshotLap `yaml:"laps"`
}

type snapshotLap struct {
	Driver    string `yaml:"driver"`
	Team      string `yaml:"team"`
	LapNumber int    `yaml:"lap_number"`
	Stint     *int   `yaml:"stint"`
	LapTimeMs *int64 `yaml:"lap_time_ms"`
}

// New creates a cache rooted at dir.
func New(dir string, upstream session.Provider, log *logger.Logger) (*Provider, error) {
	if dir == "" {
		return nil, fmt.Errorf("cache directory is required")
	}
	if log == nil {
		log = logger.NewDefault()
	}
	return &Provider{dir: dir, upstream: upstream, logger: log}, nil
}

// Path returns the snapshot file for key.
func (p *Provider) Path(key session.Key) string {
	return filepath.Join(p.dir, fmt.Sprintf("%d", key.Year),
		fmt.Sprintf("%02d_%s.yaml", key.Round, key.Identifier))
}

// Fetch returns the cached snapshot for key, or fetches it upstream and
// stores it. Failing to write the snapshot does not fail the fetch.
func (p *Provider) Fetch(ctx context.Context, key session.Key) (*session.Data, error) {
	path := p.Path(key)

	data, err := p.read(path)
	switch {
	case err == nil:
		p.logger.Debugf("Cache hit for %s: %s", key, path)
		return data, nil
	case !os.IsNotExist(err):
		p.logger.Warnf("Ignoring unreadable cache file %s: %v", path, err)
	}

	if p.upstream == nil {
		return nil, fmt.Errorf("%s not in cache %s: %w", key, p.dir, session.ErrSessionNotFound)
	}

	data, err = p.upstream.Fetch(ctx, key)
	if err != nil {
		return nil, err
	}

	if err := p.Store(key, data); err != nil {
		p.logger.Warnf("Failed to cache %s: %v", key, err)
	}
	return data, nil
}

// Store writes a snapshot for key, replacing any existing one.
func (p *Provider) Store(key session.Key, data *session.Data) error {
	if data == nil {
		return fmt.Errorf("no data to cache for %s", key)
	}

	path := p.Path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	body, err := yaml.Marshal(toSnapshot(key, data))
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".snapshot-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(body); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move snapshot into place: %w", err)
	}

	p.logger.Debugf("Cached %d laps for %s at %s", len(data.Laps), key, path)
	return nil
}

func (p *Provider) read(path string) (*session.Data, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var snap snapshot
	if err := yaml.Unmarshal(body, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return snap.data(), nil
}

func toSnapshot(key session.Key, data *session.Data) snapshot {
	snap := snapshot{
		Year:      key.Year,
		Round:     key.Round,
		Session:   key.Identifier,
		EventName: data.Event.Name,
		Location:  data.Event.Location,
		FetchedAt: time.Now().UTC(),
		Laps:      make([]snapshotLap, 0, len(data.Laps)),
	}
	for _, lap := range data.Laps {
		snap.Laps = append(snap.Laps, snapshotLap{
			Driver:    lap.Driver,
			Team:      lap.Team,
			LapNumber: lap.LapNumber,
			Stint:     lap.Stint,
			LapTimeMs: types.MillisFromDuration(lap.LapTime),
		})
	}
	return snap
}

func (s snapshot) data() *session.Data {
	laps := make(types.Laps, 0, len(s.Laps))
	for _, l := range s.Laps {
		lap := types.LapRecord{
			Driver:    l.Driver,
			Team:      l.Team,
			LapNumber: l.LapNumber,
			Stint:     l.Stint,
		}
		if l.LapTimeMs != nil {
			d := time.Duration(*l.LapTimeMs) * time.Millisecond
			lap.LapTime = &d
		}
		laps = append(laps, lap)
	}
	return &session.Data{
		Event: session.Event{Name: s.EventName, Location: s.Location},
		Laps:  laps,
	}
}
