package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/datagrid/internal/grid"
	"github.com/JonMunkholm/datagrid/internal/logging"
	"github.com/JonMunkholm/datagrid/internal/prefs"
)

// ErrSessionNotFound is returned for an unknown or reaped session id.
var ErrSessionNotFound = errors.New("grid session not found")

// ErrStaleLoad is returned by Reload when a newer load replaced it.
var ErrStaleLoad = grid.ErrStaleLoad

// Options configures a Service. Zero values fall back to the engine defaults.
type Options struct {
	PageSize       int
	LoadLimit      int
	PreferencesKey string
	// RestoreLayout restores visibility and pinning along with density and
	// page size.
	RestoreLayout bool
	LoadTimeout   time.Duration
	Columns       []grid.Column

	MaxConcurrentLoads int
	LoadWaitTime       time.Duration
}

// CreateOptions are per-session settings.
type CreateOptions struct {
	// PreferencesKey overrides Options.PreferencesKey for this session.
	PreferencesKey string
}

// Session is one live grid: a store plus the key its preferences live under.
type Session struct {
	ID             string
	PreferencesKey string
	Created        time.Time

	store    *grid.Store
	saver    *prefs.Saver
	lastSeen atomic.Int64
}

// State returns the session's current snapshot.
func (s *Session) State() grid.GridState { return s.store.State() }

// Store returns the session's store.
func (s *Session) Store() *grid.Store { return s.store }

// FlushPreferences waits for the session's queued preference saves.
func (s *Session) FlushPreferences(ctx context.Context) error {
	if s.saver == nil {
		return nil
	}
	return s.saver.Wait(ctx)
}

// LastSeen returns when the session was last used.
func (s *Session) LastSeen() time.Time { return time.Unix(0, s.lastSeen.Load()) }

func (s *Session) touch(t time.Time) { s.lastSeen.Store(t.UnixNano()) }

// Service owns the live grid sessions. It is safe for concurrent use.
type Service struct {
	fetcher grid.Fetcher
	prefs   prefs.Backend
	opts    Options
	limiter *LoadLimiter
	now     func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewService creates a Service loading rows from fetcher. A nil backend keeps
// preferences in memory.
func NewService(fetcher grid.Fetcher, backend prefs.Backend, opts Options) *Service {
	if backend == nil {
		backend = prefs.NewMemory()
	}
	if opts.LoadLimit <= 0 {
		opts.LoadLimit = grid.DefaultLoadLimit
	}
	return &Service{
		fetcher:  fetcher,
		prefs:    backend,
		opts:     opts,
		limiter:  NewLoadLimiter(opts.MaxConcurrentLoads, opts.LoadWaitTime),
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// CreateSession opens a grid, runs its first load and restores the saved
// preferences. A failed fetch is recorded in the session's state rather than
// returned; only a busy limiter or a cancelled ctx fail the call.
func (s *Service) CreateSession(ctx context.Context, opts CreateOptions) (*Session, error) {
	key := opts.PreferencesKey
	if key == "" {
		key = s.opts.PreferencesKey
	}

	id := uuid.NewString()
	ctx = logging.ContextWithSession(ctx, id)
	logger := logging.WithSession(ctx)

	now := s.now()
	sess := &Session{
		ID:             id,
		PreferencesKey: key,
		Created:        now,
		store:          grid.NewStore(grid.NewState(s.opts.PageSize), grid.WithLogger(logger)),
	}
	sess.touch(now)

	start := time.Now()
	if err := s.load(ctx, sess, s.opts.Columns); err != nil {
		if errors.Is(err, ErrTooManyLoads) || ctx.Err() != nil {
			return nil, err
		}
		logger.Error("initial load failed", "error", err)
	}

	if key != "" {
		p, ok, err := s.prefs.Load(ctx, key)
		switch {
		case err != nil:
			logger.Warn("load preferences failed", "key", key, "error", err)
		case ok:
			sess.store.Dispatch(ctx, grid.ApplyPreferences{Preferences: p, Layout: s.opts.RestoreLayout})
		}
		// subscribed after restore so the defaults never overwrite saved values
		sess.saver = prefs.NewSaver(s.prefs, key)
		sess.store.Subscribe(sess.saver.Listener())
	}

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	st := sess.State()
	logger.Info("grid session created",
		"rows", len(st.Data),
		"preferences_key", key,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return sess, nil
}

// Session returns a live session and marks it as used.
func (s *Service) Session(id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, ErrSessionNotFound)
	}
	sess.touch(s.now())
	return sess, nil
}

// Dispatch applies actions to a session as one transition.
func (s *Service) Dispatch(ctx context.Context, id string, actions ...grid.Action) (grid.GridState, error) {
	sess, err := s.Session(id)
	if err != nil {
		return grid.GridState{}, err
	}
	ctx = logging.ContextWithSession(ctx, id)
	return sess.store.Dispatch(ctx, actions...), nil
}

// Reload re-runs the session's load, keeping its columns and layout. The
// returned state reflects the outcome even when err is a fetch failure.
func (s *Service) Reload(ctx context.Context, id string) (grid.GridState, error) {
	sess, err := s.Session(id)
	if err != nil {
		return grid.GridState{}, err
	}
	ctx = logging.ContextWithSession(ctx, id)

	if err := s.load(ctx, sess, nil); err != nil {
		if !errors.Is(err, ErrStaleLoad) {
			logging.WithSession(ctx).Error("reload failed", "error", err)
		}
		return sess.State(), err
	}
	return sess.State(), nil
}

// load runs one Loader pass under the load limiter.
func (s *Service) load(ctx context.Context, sess *Session, cols []grid.Column) error {
	if err := s.limiter.Acquire(ctx); err != nil {
		return err
	}
	defer s.limiter.Release()

	if s.opts.LoadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.LoadTimeout)
		defer cancel()
	}

	loader := grid.Loader{
		Store:   sess.store,
		Fetcher: s.fetcher,
		Columns: cols,
		Limit:   s.opts.LoadLimit,
	}
	return loader.Load(ctx)
}

// CloseSession drops a session.
func (s *Service) CloseSession(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return fmt.Errorf("session %s: %w", id, ErrSessionNotFound)
	}
	delete(s.sessions, id)
	return nil
}

// SessionCount returns the number of live sessions.
func (s *Service) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// LimiterStatus reports load slot usage.
func (s *Service) LimiterStatus() LoadLimiterStatus {
	return s.limiter.Status()
}

// WaitForLoads blocks until no load is in flight and every live session has
// written its queued preferences, or ctx is done.
func (s *Service) WaitForLoads(ctx context.Context) error {
	if err := s.limiter.WaitForDrain(ctx); err != nil {
		return err
	}

	s.mu.RLock()
	sessions := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.RUnlock()

	for _, sess := range sessions {
		if err := sess.FlushPreferences(ctx); err != nil {
			return err
		}
	}
	return nil
}
