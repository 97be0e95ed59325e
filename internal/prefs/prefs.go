// Package prefs persists per-user grid preferences.
//
// A Backend is a small key-value store holding one grid.Preferences value per
// key. Saver hooks a backend to a grid.Store so that layout changes are
// written shortly after they happen.
package prefs

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/JonMunkholm/datagrid/internal/grid"
	"github.com/JonMunkholm/datagrid/internal/logging"
)

// Backend stores preferences by key.
type Backend interface {
	// Load returns the preferences saved under key. ok is false when nothing
	// has been saved yet.
	Load(ctx context.Context, key string) (p grid.Preferences, ok bool, err error)
	Save(ctx context.Context, key string, p grid.Preferences) error
}

// DefaultSaveTimeout bounds a single background save.
const DefaultSaveTimeout = 5 * time.Second

// Saver writes a session's preferences in the background whenever
// visibility, pinning, density or page size changed.
//
// Its listener only records the newest preferences, so dispatches never wait
// on the backend. One goroutine at a time drains the queue, and when several
// changes pile up behind a slow save only the latest is written. Save errors
// are logged and never reach the dispatcher.
type Saver struct {
	backend Backend
	key     string
	timeout time.Duration

	mu      sync.Mutex
	pending *grid.Preferences
	ctx     context.Context
	idle    chan struct{} // closed while no flush is running
}

// NewSaver returns a Saver writing to b under key.
func NewSaver(b Backend, key string) *Saver {
	idle := make(chan struct{})
	close(idle)
	return &Saver{backend: b, key: key, timeout: DefaultSaveTimeout, idle: idle}
}

// Listener returns the grid.Listener to subscribe on the session's store.
func (s *Saver) Listener() grid.Listener {
	return func(ctx context.Context, prev, next grid.GridState) {
		p := grid.PreferencesOf(next)
		if p.Equal(grid.PreferencesOf(prev)) {
			return
		}
		s.enqueue(ctx, p)
	}
}

func (s *Saver) enqueue(ctx context.Context, p grid.Preferences) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending = &p
	// the request that triggered the save may finish first
	s.ctx = context.WithoutCancel(ctx)

	select {
	case <-s.idle:
		s.idle = make(chan struct{})
		go s.flush(s.idle)
	default:
	}
}

func (s *Saver) flush(done chan struct{}) {
	for {
		s.mu.Lock()
		p, ctx := s.pending, s.ctx
		s.pending = nil
		if p == nil {
			close(done)
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		s.save(ctx, *p)
	}
}

func (s *Saver) save(ctx context.Context, p grid.Preferences) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.backend.Save(ctx, s.key, p); err != nil {
		logging.WithSession(ctx).Error("save preferences failed", "key", s.key, "error", err)
	}
}

// Wait blocks until every queued save has been written or ctx is done.
func (s *Saver) Wait(ctx context.Context) error {
	s.mu.Lock()
	idle := s.idle
	s.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func encode(p grid.Preferences) ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode preferences: %w", err)
	}
	return data, nil
}

func decode(data []byte) (grid.Preferences, error) {
	var p grid.Preferences
	if err := json.Unmarshal(data, &p); err != nil {
		return grid.Preferences{}, fmt.Errorf("decode preferences: %w", err)
	}
	return p, nil
}
