// Package analyzer derives lap-time statistics for one driver or team in
// a session and compares lap sets against each other.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dbsmedya/lapstat/internal/logger"
	"github.com/dbsmedya/lapstat/internal/session"
	"github.com/dbsmedya/lapstat/internal/types"
)

// ErrInvalidIdentifier is returned for identifiers that are not exactly
// three ASCII letters.
var ErrInvalidIdentifier = errors.New("identifier must be exactly 3 letters")

// SessionLoadError reports that the provider could not supply the session.
type SessionLoadError struct {
	Key session.Key
	Err error
}

func (e *SessionLoadError) Error() string {
	return fmt.Sprintf("failed to load session %s: %v", e.Key, e.Err)
}

func (e *SessionLoadError) Unwrap() error {
	return e.Err
}

// Kind names what an identifier refers to.
type Kind string

const (
	KindDriver Kind = "driver"
	KindTeam   Kind = "team"
)

// Selector picks the laps belonging to an identifier from a session's lap table.
type Selector func(laps types.Laps, identifier string) types.Laps

// LapAnalyzer is the capability set shared by driver and team analyzers.
type LapAnalyzer interface {
	Load(ctx context.Context) error
	Analyze(ctx context.Context) (Result, error)
	Compare(ctx context.Context, other string, stint *int) ([]ComparisonRow, error)
	Metrics(ctx context.Context) (*Metrics, error)
}

type state int

const (
	stateUnloaded state = iota
	stateLoaded
)

// Analyzer computes statistics for one identifier within one session.
// It is not safe for concurrent use; analyzers sharing a *session.Session
// share only its lap table.
type Analyzer struct {
	kind       Kind
	identifier string
	session    *session.Session
	pick       Selector
	root       *logger.Logger
	logger     *logger.Logger

	state state
	laps  types.Laps
}

// NewDriverAnalyzer creates an analyzer for a three letter driver code.
func NewDriverAnalyzer(code string, s *session.Session, log *logger.Logger) *Analyzer {
	return newAnalyzer(KindDriver, code, s, types.Laps.PickDrivers, log)
}

// NewTeamAnalyzer creates an analyzer for a three letter team code.
func NewTeamAnalyzer(code string, s *session.Session, log *logger.Logger) *Analyzer {
	return newAnalyzer(KindTeam, code, s, types.Laps.PickTeams, log)
}

// New creates an analyzer of the given kind.
func New(kind Kind, identifier string, s *session.Session, log *logger.Logger) (*Analyzer, error) {
	switch kind {
	case KindDriver:
		return NewDriverAnalyzer(identifier, s, log), nil
	case KindTeam:
		return NewTeamAnalyzer(identifier, s, log), nil
	default:
		return nil, fmt.Errorf("unknown analyzer kind %q", kind)
	}
}

func newAnalyzer(kind Kind, identifier string, s *session.Session, pick Selector, log *logger.Logger) *Analyzer {
	if log == nil {
		log = logger.NewDefault()
	}
	identifier = strings.ToUpper(identifier)
	scoped := log
	if s != nil {
		key := s.Key()
		scoped = scoped.WithSession(key.Year, key.Round, key.Identifier)
	}
	return &Analyzer{
		kind:       kind,
		identifier: identifier,
		session:    s,
		pick:       pick,
		root:       log,
		logger:     scoped.WithEntity(string(kind), identifier),
	}
}

// ValidIdentifier reports whether id is exactly three ASCII letters.
func ValidIdentifier(id string) bool {
	if len(id) != 3 {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		if (c < 'A' || c > 'Z') && (c < 'a' || c > 'z') {
			return false
		}
	}
	return true
}

func checkIdentifier(id string) error {
	if !ValidIdentifier(id) {
		return fmt.Errorf("%w: %q", ErrInvalidIdentifier, id)
	}
	return nil
}

// Identifier returns the normalised identifier.
func (a *Analyzer) Identifier() string {
	return a.identifier
}

// Kind returns whether the analyzer selects by driver or by team.
func (a *Analyzer) Kind() Kind {
	return a.kind
}

// Loaded reports whether the lap set has been selected.
func (a *Analyzer) Loaded() bool {
	return a.state == stateLoaded
}

// Laps returns the selected lap set, or nil before Load.
func (a *Analyzer) Laps() types.Laps {
	return a.laps
}

// Load validates the identifier, loads the session if needed and selects
// this analyzer's laps. Calling it again after success is a no-op.
func (a *Analyzer) Load(ctx context.Context) error {
	if a.state == stateLoaded {
		return nil
	}
	if err := checkIdentifier(a.identifier); err != nil {
		return err
	}
	if a.session == nil {
		return fmt.Errorf("no session given for %s %s", a.kind, a.identifier)
	}

	if !a.session.Loaded() {
		a.logger.Info("Loading session")
	}
	if err := a.session.Load(ctx); err != nil {
		return &SessionLoadError{Key: a.session.Key(), Err: err}
	}

	a.laps = a.pick(a.session.Laps(), a.identifier)
	a.state = stateLoaded
	a.logger.Infof("Data loaded for %s. Found %d laps.", a.identifier, len(a.laps))
	return nil
}

// Metrics loads the analyzer if needed and returns the statistics of its lap set.
func (a *Analyzer) Metrics(ctx context.Context) (*Metrics, error) {
	if err := a.Load(ctx); err != nil {
		return nil, err
	}
	return NewMetrics(a.laps), nil
}

// Analyze loads the analyzer if needed and summarises its lap set.
func (a *Analyzer) Analyze(ctx context.Context) (Result, error) {
	m, err := a.Metrics(ctx)
	if err != nil {
		return Result{}, err
	}

	key := a.session.Key()
	event := a.session.Event()

	filtered := m.FilteredLapTimes()
	if len(filtered) == 0 {
		a.logger.Infof("No valid lap times after filtering for %s in %s", a.identifier, eventLabel(event, key))
	} else {
		a.logger.Debugf("Valid lap times for %s in %s: %v", a.identifier, eventLabel(event, key), filtered)
	}

	return Result{
		Identifier:      a.identifier,
		Kind:            a.kind,
		Year:            key.Year,
		Round:           key.Round,
		Session:         key.Identifier,
		EventName:       event.Name,
		LapCount:        m.LapCount(),
		AverageLapTime:  m.AverageLapTime(),
		FastestLap:      m.FastestLap(),
		LapTimeVariance: m.Variance(),
	}, nil
}

// Compare aligns this analyzer's laps with those of other, an identifier of
// the same kind in the same session. An empty other compares the lap set
// with itself, which is useful to list one stint.
func (a *Analyzer) Compare(ctx context.Context, other string, stint *int) ([]ComparisonRow, error) {
	if err := a.Load(ctx); err != nil {
		return nil, err
	}

	otherLaps := a.laps
	if other != "" {
		peer := newAnalyzer(a.kind, other, a.session, a.pick, a.root)
		if err := peer.Load(ctx); err != nil {
			return nil, err
		}
		otherLaps = peer.laps
	}

	rows := Compare(a.laps, otherLaps, stint)
	a.logger.Debugf("Compared %s with %s: %d aligned laps", a.identifier, orSelf(other), len(rows))
	return rows, nil
}

func eventLabel(event session.Event, key session.Key) string {
	if event.Name != "" {
		return event.Name
	}
	return key.String()
}

func orSelf(other string) string {
	if other == "" {
		return "itself"
	}
	return strings.ToUpper(other)
}
