package wizard

import (
	"sync"
	"time"

	"github.com/dalemusser/strataassign/internal/app/assign/cascade"
	"github.com/dalemusser/strataassign/internal/app/assign/expand"
	"github.com/dalemusser/strataassign/internal/app/assign/hierarchy"
	"github.com/dalemusser/strataassign/internal/app/assign/selection"
	"github.com/dalemusser/strataassign/internal/app/assign/submit"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Options configures a Manager.
type Options struct {
	// FetchConcurrency bounds per-course and per-class fan-out in each
	// session's cache. Zero uses hierarchy.DefaultConcurrency.
	FetchConcurrency int
	// Now replaces time.Now (idle tracking, due-date checks).
	Now func() time.Time
}

// Manager owns the open sessions of one process.
type Manager struct {
	provider hierarchy.Provider
	coord    *submit.Coordinator
	opts     Options
	log      *zap.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager returns a manager whose sessions read from p and write
// through w.
func NewManager(p hierarchy.Provider, w submit.Writer, opts Options, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Manager{
		provider: p,
		coord:    submit.New(w, logger),
		opts:     opts,
		log:      logger,
		sessions: make(map[string]*Session),
	}
}

// Open starts a session with empty selections.
func (m *Manager) Open(cfg Config) (*Session, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	ex, err := expand.New(cfg.Mode, expand.WithClock(m.opts.Now))
	if err != nil {
		return nil, err
	}

	cache := hierarchy.New(m.provider, m.opts.FetchConcurrency, m.log)
	s := &Session{
		ID:       uuid.NewString(),
		cfg:      cfg,
		cache:    cache,
		rec:      cascade.NewReconciler(cache, m.log),
		expander: ex,
		coord:    m.coord,
		log:      m.log,
		now:      m.opts.Now,
		store:    selection.NewStore(),
		lastUsed: m.opts.Now(),
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.log.Debug("wizard session opened",
		zap.String("session", s.ID),
		zap.String("mode", string(cfg.Mode)))
	return s, nil
}

// Get returns an open session. Sessions closed by a successful submit are
// forgotten here.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if s.Closed() {
		delete(m.sessions, id)
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Close closes and forgets session id.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	s.Close()
	return nil
}

// CloseIdle closes sessions unused for longer than threshold and forgets
// closed ones. It returns how many sessions it closed.
func (m *Manager) CloseIdle(threshold time.Duration) int {
	cutoff := m.opts.Now().Add(-threshold)

	m.mu.Lock()
	var idle []*Session
	for id, s := range m.sessions {
		if s.Closed() {
			delete(m.sessions, id)
			continue
		}
		if s.idleSince().Before(cutoff) {
			idle = append(idle, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range idle {
		s.Close()
	}
	return len(idle)
}

// Len returns the number of tracked sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// CloseAll closes every session. Used at shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	all := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()
	for _, s := range all {
		s.Close()
	}
}
