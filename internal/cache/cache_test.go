package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/lapstat/internal/logger"
	"github.com/dbsmedya/lapstat/internal/session"
	"github.com/dbsmedya/lapstat/internal/types"
)

var monaco = session.Key{Year: 2024, Round: 8, Identifier: "Q"}

func sampleData() *session.Data {
	return &session.Data{
		Event: session.Event{Name: "Monaco Grand Prix", Location: "Monte Carlo"},
		Laps: types.Laps{
			{Driver: "LEC", Team: "FER", LapNumber: 1, Stint: types.IntPtr(1), LapTime: types.DurationPtr(70.27)},
			{Driver: "PIA", Team: "MCL", LapNumber: 1, Stint: types.IntPtr(1), LapTime: types.DurationPtr(70.424)},
			{Driver: "PIA", Team: "MCL", LapNumber: 2},
		},
	}
}

type countingProvider struct {
	calls int
	data  *session.Data
	err   error
}

func (c *countingProvider) Fetch(_ context.Context, _ session.Key) (*session.Data, error) {
	c.calls++
	return c.data, c.err
}

func TestNew_RequiresDir(t *testing.T) {
	_, err := New("", nil, nil)
	assert.Error(t, err)
}

func TestPath(t *testing.T) {
	p, err := New("/var/cache/lapstat", nil, logger.NewNop())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("/var/cache/lapstat", "2024", "08_Q.yaml"), p.Path(monaco))
	assert.Equal(t, filepath.Join("/var/cache/lapstat", "2023", "22_R.yaml"),
		p.Path(session.Key{Year: 2023, Round: 22, Identifier: "R"}))
}

func TestFetch_WriteThrough(t *testing.T) {
	dir := t.TempDir()
	upstream := &countingProvider{data: sampleData()}

	p, err := New(dir, upstream, logger.NewNop())
	require.NoError(t, err)

	first, err := p.Fetch(context.Background(), monaco)
	require.NoError(t, err)
	assert.Equal(t, 1, upstream.calls)
	assert.FileExists(t, p.Path(monaco))

	second, err := p.Fetch(context.Background(), monaco)
	require.NoError(t, err)
	assert.Equal(t, 1, upstream.calls, "second fetch should be served from disk")

	assert.Equal(t, first.Event, second.Event)
	require.Len(t, second.Laps, 3)
	for i := range first.Laps {
		assert.Equal(t, first.Laps[i].Driver, second.Laps[i].Driver)
		assert.Equal(t, first.Laps[i].LapNumber, second.Laps[i].LapNumber)
	}
	require.NotNil(t, second.Laps[0].LapTime)
	assert.Equal(t, 70270*time.Millisecond, *second.Laps[0].LapTime)
	assert.Nil(t, second.Laps[2].LapTime)
	assert.Nil(t, second.Laps[2].Stint)
}

func TestFetch_OfflineMiss(t *testing.T) {
	p, err := New(t.TempDir(), nil, logger.NewNop())
	require.NoError(t, err)

	_, err = p.Fetch(context.Background(), monaco)
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestFetch_OfflineHit(t *testing.T) {
	dir := t.TempDir()
	p, err := New(dir, nil, logger.NewNop())
	require.NoError(t, err)

	snapshot := `year: 2024
round: 8
session: Q
event_name: Monaco Grand Prix
laps:
  - driver: LEC
    team: FER
    lap_number: 3
    stint: 2
    lap_time_ms: 70270
  - driver: LEC
    team: FER
    lap_number: 4
    stint: null
    lap_time_ms: null
`
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "2024"), 0o755))
	require.NoError(t, os.WriteFile(p.Path(monaco), []byte(snapshot), 0o644))

	data, err := p.Fetch(context.Background(), monaco)
	require.NoError(t, err)
	assert.Equal(t, "Monaco Grand Prix", data.Event.Name)
	require.Len(t, data.Laps, 2)
	require.NotNil(t, data.Laps[0].Stint)
	assert.Equal(t, 2, *data.Laps[0].Stint)
	assert.Nil(t, data.Laps[1].LapTime)
}

func TestFetch_UpstreamError(t *testing.T) {
	dir := t.TempDir()
	cause := errors.New("database unavailable")
	p, err := New(dir, &countingProvider{err: cause}, logger.NewNop())
	require.NoError(t, err)

	_, err = p.Fetch(context.Background(), monaco)
	assert.ErrorIs(t, err, cause)
	assert.NoFileExists(t, p.Path(monaco))
}

func TestFetch_CorruptSnapshotFallsBackUpstream(t *testing.T) {
	dir := t.TempDir()
	upstream := &countingProvider{data: sampleData()}
	p, err := New(dir, upstream, logger.NewNop())
	require.NoError(t, err)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "2024"), 0o755))
	require.NoError(t, os.WriteFile(p.Path(monaco), []byte("laps: [unterminated"), 0o644))

	data, err := p.Fetch(context.Background(), monaco)
	require.NoError(t, err)
	assert.Equal(t, 1, upstream.calls)
	assert.Len(t, data.Laps, 3)

	// The corrupt file is replaced by a fresh snapshot.
	_, err = p.Fetch(context.Background(), monaco)
	require.NoError(t, err)
	assert.Equal(t, 1, upstream.calls)
}

func TestStore_NilData(t *testing.T) {
	p, err := New(t.TempDir(), nil, logger.NewNop())
	require.NoError(t, err)
	assert.Error(t, p.Store(monaco, nil))
}

func TestStore_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	p, err := New(dir, nil, logger.NewNop())
	require.NoError(t, err)

	require.NoError(t, p.Store(monaco, sampleData()))

	entries, err := os.ReadDir(filepath.Join(dir, "2024"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "08_Q.yaml", entries[0].Name())
}

func TestProviderInterface(t *testing.T) {
	var _ session.Provider = (*Provider)(nil)
}
