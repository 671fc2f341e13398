// Package session models a timed event (practice, qualifying, sprint or race)
// and the provider interface used to fetch its lap table.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dbsmedya/lapstat/internal/types"
)

// ErrSessionNotFound is returned by providers when no data exists for a key.
var ErrSessionNotFound = errors.New("session not found")

// Identifiers lists the accepted session identifiers.
var Identifiers = []string{"FP1", "FP2", "FP3", "SQ", "S", "Q", "R"}

// ValidIdentifier reports whether id names a known session type.
func ValidIdentifier(id string) bool {
	for _, known := range Identifiers {
		if strings.EqualFold(id, known) {
			return true
		}
	}
	return false
}

// Key identifies one session.
type Key struct {
	Year       int
	Round      int
	Identifier string
}

func (k Key) String() string {
	return fmt.Sprintf("%d round %d (%s)", k.Year, k.Round, k.Identifier)
}

// Event describes the race weekend a session belongs to.
type Event struct {
	Name     string
	Location string
}

// Data is what a provider returns for a session.
type Data struct {
	Event Event
	Laps  types.Laps
}

// Provider fetches session data. Implementations may hit a database,
// a disk cache or both.
type Provider interface {
	Fetch(ctx context.Context, key Key) (*Data, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, key Key) (*Data, error)

// Fetch calls f.
func (f ProviderFunc) Fetch(ctx context.Context, key Key) (*Data, error) {
	return f(ctx, key)
}

// Session is a handle on one session. The lap table is fetched on the
// first successful Load and reused afterwards.
type Session struct {
	key      Key
	provider Provider

	mu   sync.Mutex
	data *Data
}

// Get returns an unloaded handle for the given session.
func Get(p Provider, year, round int, identifier string) *Session {
	return &Session{
		key:      Key{Year: year, Round: round, Identifier: strings.ToUpper(identifier)},
		provider: p,
	}
}

// Key returns the session key.
func (s *Session) Key() Key {
	return s.key
}

// Load fetches the lap table. It is a no-op once a load has succeeded;
// failures are returned as-is and not retried.
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data != nil {
		return nil
	}
	if s.provider == nil {
		return fmt.Errorf("no session provider configured")
	}

	data, err := s.provider.Fetch(ctx, s.key)
	if err != nil {
		return err
	}
	if data == nil {
		return fmt.Errorf("%s: %w", s.key, ErrSessionNotFound)
	}
	s.data = data
	return nil
}

// Loaded reports whether Load has succeeded.
func (s *Session) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data != nil
}

// Laps returns the full lap table, or nil before Load.
func (s *Session) Laps() types.Laps {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return nil
	}
	return s.data.Laps
}

// Event returns the event the session belongs to.
func (s *Session) Event() Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return Event{}
	}
	return s.data.Event
}
