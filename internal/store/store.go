// Package store holds a workspace's domain collections and session state.
//
// Every mutation goes through a named operation on Store. Operations run under a
// single mutex, so multi-collection changes (hiring, project creation) are never
// observed half-applied. Readers always receive copies.
package store

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/samhotchkiss/biztask/internal/fanout"
	"github.com/samhotchkiss/biztask/internal/metrics"
	"github.com/samhotchkiss/biztask/internal/models"
)

var (
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("entity not found")
	// ErrNoSession is returned when an operation needs a logged-in user.
	ErrNoSession = errors.New("no current user")
	// ErrValidation is returned when an input fails required-field checks.
	ErrValidation = errors.New("validation failed")
)

// DefaultHireDepartmentID is the department newly hired candidates join.
const DefaultHireDepartmentID = "d1"

// Options configures a Store.
type Options struct {
	Logger  *zap.Logger
	Metrics *metrics.Metrics
	Theme   models.Theme
	// Now and NewID default to time.Now and uuid.NewString.
	Now   func() time.Time
	NewID func() string
}

// Store is a workspace's single source of truth.
type Store struct {
	mu sync.RWMutex

	users         []models.User
	departments   []models.Department
	candidates    []models.Candidate
	projects      []models.Project
	tasks         []models.Task
	channels      []models.Channel
	groupMessages []models.GroupMessage
	partners      []models.Partner

	// usedIDs holds every id ever assigned, including removed entities.
	usedIDs map[string]struct{}

	currentUserID string
	theme         models.Theme
	hasOnboarded  bool

	// events is filled under mu, so delivery follows mutation order.
	events fanout.Queue[Event]

	logger  *zap.Logger
	metrics *metrics.Metrics
	now     func() time.Time
	newID   func() string
}

// New creates a Store populated from seed. The seed slices are copied.
func New(seed Seed, opts Options) *Store {
	s := &Store{
		users:         cloneSlice(seed.Users),
		departments:   cloneSlice(seed.Departments),
		candidates:    cloneSlice(seed.Candidates),
		projects:      cloneSlice(seed.Projects),
		tasks:         cloneSlice(seed.Tasks),
		channels:      cloneSlice(seed.Channels),
		groupMessages: cloneSlice(seed.GroupMessages),
		partners:      cloneSlice(seed.Partners),
		theme:         opts.Theme,
		logger:        opts.Logger,
		metrics:       opts.Metrics,
		now:           opts.Now,
		newID:         opts.NewID,
	}
	s.usedIDs = make(map[string]struct{})
	for _, ids := range [][]string{
		idsOf(s.users, func(v models.User) string { return v.ID }),
		idsOf(s.departments, func(v models.Department) string { return v.ID }),
		idsOf(s.candidates, func(v models.Candidate) string { return v.ID }),
		idsOf(s.projects, func(v models.Project) string { return v.ID }),
		idsOf(s.tasks, func(v models.Task) string { return v.ID }),
		idsOf(s.channels, func(v models.Channel) string { return v.ID }),
		idsOf(s.groupMessages, func(v models.GroupMessage) string { return v.ID }),
		idsOf(s.partners, func(v models.Partner) string { return v.ID }),
	} {
		for _, id := range ids {
			s.usedIDs[id] = struct{}{}
		}
	}
	if s.theme != models.ThemeDark {
		s.theme = models.ThemeLight
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	return s
}

// Subscribe registers fn to receive every event published after a successful
// mutation. Events are delivered in mutation order, after the store lock is
// released. Without contention the mutating call delivers its own events
// before returning; otherwise the goroutine already delivering does so.
// The returned func removes the subscription.
func (s *Store) Subscribe(fn func(Event)) func() {
	return s.events.Subscribe(fn)
}

// record logs and counts the outcome of a mutation and returns err unchanged.
func (s *Store) record(operation string, err error) error {
	outcome := metrics.OutcomeOK
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		outcome = metrics.OutcomeNotFound
	case errors.Is(err, ErrNoSession):
		outcome = metrics.OutcomeNoSession
	case errors.Is(err, ErrValidation):
		outcome = metrics.OutcomeValidation
	}
	s.metrics.RecordStoreOp(operation, outcome)
	if err != nil {
		s.logger.Debug("store operation rejected", zap.String("operation", operation), zap.Error(err))
	} else {
		s.logger.Debug("store operation applied", zap.String("operation", operation))
	}
	return err
}

// generateID returns an id that has never been assigned in this store. When
// reject is non-nil, candidates it refuses are skipped as well.
// Callers must hold s.mu.
func (s *Store) generateID(reject func(string) bool) string {
	for {
		id := s.newID()
		if id == "" {
			continue
		}
		if _, used := s.usedIDs[id]; used {
			continue
		}
		if reject != nil && reject(id) {
			continue
		}
		s.usedIDs[id] = struct{}{}
		return id
	}
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
}

func idsOf[T any](in []T, id func(T) string) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = id(v)
	}
	return out
}

func cloneSlice[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}

func stringPtr(v string) *string {
	return &v
}

func copyStringPtr(v *string) *string {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
