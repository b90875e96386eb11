// Package workspace keeps one isolated BizTask state per workspace id.
//
// A workspace bundles a store, an assistant widget and an internal messaging
// controller. Workspaces are created from the seed on first use and evicted
// after they have been idle for the configured TTL while nothing pins them.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/samhotchkiss/biztask/internal/messaging"
	"github.com/samhotchkiss/biztask/internal/metrics"
	"github.com/samhotchkiss/biztask/internal/middleware"
	"github.com/samhotchkiss/biztask/internal/models"
	"github.com/samhotchkiss/biztask/internal/store"
	"github.com/samhotchkiss/biztask/internal/widget"
)

// ErrInvalidWorkspace is returned for a malformed workspace id.
var ErrInvalidWorkspace = errors.New("invalid workspace id")

// Workspace is one isolated dashboard state.
type Workspace struct {
	ID        string
	Store     *store.Store
	Widget    *widget.Controller
	Messaging *messaging.Controller

	release  func()
	lastUsed time.Time
	// pins counts holders, such as open websockets, that keep it alive.
	pins int
}

// Options configures a Registry.
type Options struct {
	// Seed builds the initial content. Defaults to store.DefaultSeed.
	Seed           func(now time.Time) (store.Seed, error)
	Theme          models.Theme
	Assistant      widget.Replier
	IncludeHistory bool
	// IdleTTL evicts workspaces unused for this long. Zero disables eviction.
	IdleTTL time.Duration
	// OnCreate runs once for every new workspace. The returned func, if any,
	// runs when the workspace is evicted.
	OnCreate func(*Workspace) func()
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
	Now      func() time.Time
}

// Registry owns every live workspace.
type Registry struct {
	opts Options

	mu         sync.Mutex
	workspaces map[string]*Workspace
}

// NewRegistry creates an empty registry.
func NewRegistry(opts Options) *Registry {
	if opts.Seed == nil {
		opts.Seed = store.DefaultSeed
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Registry{opts: opts, workspaces: make(map[string]*Workspace)}
}

// Get returns the workspace with id, creating it from the seed on first use.
func (r *Registry) Get(id string) (*Workspace, error) {
	return r.get(id, false)
}

// Acquire is Get plus a pin: the workspace is not evicted until the returned
// release func is called. Calling release more than once is safe.
func (r *Registry) Acquire(id string) (*Workspace, func(), error) {
	ws, err := r.get(id, true)
	if err != nil {
		return nil, nil, err
	}
	var once sync.Once
	release := func() {
		once.Do(func() {
			r.mu.Lock()
			ws.pins--
			ws.lastUsed = r.opts.Now()
			r.mu.Unlock()
		})
	}
	return ws, release, nil
}

func (r *Registry) get(id string, pin bool) (*Workspace, error) {
	if !middleware.ValidWorkspaceID(id) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidWorkspace, id)
	}

	r.mu.Lock()
	now := r.opts.Now()
	if ws, ok := r.workspaces[id]; ok {
		ws.lastUsed = now
		if pin {
			ws.pins++
		}
		r.mu.Unlock()
		return ws, nil
	}

	ws, err := r.create(id, now)
	if err != nil {
		r.mu.Unlock()
		return nil, err
	}
	if pin {
		ws.pins++
	}
	r.workspaces[id] = ws
	count := len(r.workspaces)
	r.mu.Unlock()

	r.opts.Metrics.SetWorkspaces(count)
	r.opts.Logger.Info("workspace created", zap.String("workspace_id", id), zap.Int("workspaces", count))
	return ws, nil
}

// create builds a workspace. Callers must hold r.mu.
func (r *Registry) create(id string, now time.Time) (*Workspace, error) {
	seed, err := r.opts.Seed(now)
	if err != nil {
		return nil, fmt.Errorf("seed workspace %s: %w", id, err)
	}

	logger := r.opts.Logger.With(zap.String("workspace_id", id))
	st := store.New(seed, store.Options{
		Logger:  logger,
		Metrics: r.opts.Metrics,
		Theme:   r.opts.Theme,
	})
	chat := widget.New(r.opts.Assistant, widget.Options{
		IncludeHistory: r.opts.IncludeHistory,
		Logger:         logger,
	})
	ws := &Workspace{
		ID:        id,
		Store:     st,
		Widget:    chat,
		Messaging: messaging.New(st),
		lastUsed:  now,
	}
	if r.opts.OnCreate != nil {
		ws.release = r.opts.OnCreate(ws)
	}
	return ws, nil
}

// Len returns the number of live workspaces.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.workspaces)
}

// IDs returns the live workspace ids in sorted order.
func (r *Registry) IDs() []string {
	r.mu.Lock()
	ids := make([]string, 0, len(r.workspaces))
	for id := range r.workspaces {
		ids = append(ids, id)
	}
	r.mu.Unlock()
	sort.Strings(ids)
	return ids
}

// Sweep evicts unpinned workspaces idle for longer than the TTL and returns
// how many were removed.
func (r *Registry) Sweep() int {
	if r.opts.IdleTTL <= 0 {
		return 0
	}

	r.mu.Lock()
	cutoff := r.opts.Now().Add(-r.opts.IdleTTL)
	var evicted []*Workspace
	for id, ws := range r.workspaces {
		if ws.pins == 0 && ws.lastUsed.Before(cutoff) {
			evicted = append(evicted, ws)
			delete(r.workspaces, id)
		}
	}
	count := len(r.workspaces)
	r.mu.Unlock()

	for _, ws := range evicted {
		if ws.release != nil {
			ws.release()
		}
		r.opts.Logger.Info("workspace evicted", zap.String("workspace_id", ws.ID))
	}
	if len(evicted) > 0 {
		r.opts.Metrics.SetWorkspaces(count)
	}
	return len(evicted)
}

// Run sweeps idle workspaces until ctx is done. It returns immediately when
// eviction is disabled.
func (r *Registry) Run(ctx context.Context) {
	if r.opts.IdleTTL <= 0 {
		return
	}
	interval := r.opts.IdleTTL / 4
	if interval > time.Minute {
		interval = time.Minute
	}
	if interval < time.Second {
		interval = time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}
