package grid

import (
	"context"
	"log/slog"
	"sync"
)

// Listener observes committed transitions. prev and next are the snapshots
// before and after one Dispatch or Commit call.
//
// Listeners run synchronously while the store is locked, in dispatch order.
// They must not call back into the Store and should hand slow work, such as
// I/O, to another goroutine.
type Listener func(ctx context.Context, prev, next GridState)

// Store owns the current GridState of one grid session.
//
// All transitions go through Dispatch or Commit, which hold a lock for the
// whole batch, so each call is atomic with respect to every other: readers see
// the snapshot before the batch or after it, never in between.
type Store struct {
	mu        sync.Mutex
	state     GridState
	listeners []Listener
	loadGen   uint64
	logger    *slog.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger makes the store log each dispatched action at debug level.
func WithLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) { s.logger = logger }
}

// NewStore creates a store holding initial.
func NewStore(initial GridState, opts ...StoreOption) *Store {
	s := &Store{state: initial}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current snapshot.
func (s *Store) State() GridState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers a listener for every later transition.
func (s *Store) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Dispatch applies actions in order as one transition and returns the
// resulting snapshot.
func (s *Store) Dispatch(ctx context.Context, actions ...Action) GridState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyLocked(ctx, actions)
}

// BeginLoad starts a new load generation, superseding any load in flight, and
// applies actions in the same transition. It returns the generation to pass
// to Commit.
func (s *Store) BeginLoad(ctx context.Context, actions ...Action) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadGen++
	s.applyLocked(ctx, actions)
	return s.loadGen
}

// Commit applies actions only if gen is still the newest load generation.
// It reports whether the actions were applied.
func (s *Store) Commit(ctx context.Context, gen uint64, actions ...Action) (GridState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.loadGen {
		return s.state, false
	}
	return s.applyLocked(ctx, actions), true
}

func (s *Store) applyLocked(ctx context.Context, actions []Action) GridState {
	if len(actions) == 0 {
		return s.state
	}
	prev := s.state
	next := prev
	for _, a := range actions {
		if a == nil {
			continue
		}
		next = Reduce(next, a)
		if s.logger != nil {
			s.logger.DebugContext(ctx, "grid action", "type", a.Type())
		}
	}
	s.state = next
	for _, l := range s.listeners {
		l(ctx, prev, next)
	}
	return next
}
