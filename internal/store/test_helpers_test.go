package store

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2023, time.December, 20, 9, 0, 0, 0, time.UTC)

// sequentialIDs returns an id generator producing id-1, id-2, ...
func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	seed, err := DefaultSeed(testNow)
	require.NoError(t, err)
	return New(seed, Options{
		Now:   func() time.Time { return testNow },
		NewID: sequentialIDs(),
	})
}

// collectEvents subscribes to s and returns a func that reports the events
// received so far.
func collectEvents(t *testing.T, s *Store) func() []Event {
	t.Helper()
	var (
		mu     sync.Mutex
		events []Event
	)
	unsubscribe := s.Subscribe(func(ev Event) {
		mu.Lock()
		events = append(events, ev)
		mu.Unlock()
	})
	t.Cleanup(unsubscribe)
	return func() []Event {
		mu.Lock()
		defer mu.Unlock()
		return append([]Event(nil), events...)
	}
}
