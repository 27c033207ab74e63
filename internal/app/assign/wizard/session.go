// Package wizard holds the session-scoped state of one assignment wizard:
// its selections, draft, option cache and reconciler. Every mutation goes
// through Toggle, SelectAll, ClearAll or SetDraft, each followed by cascade
// reconciliation.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dalemusser/strataassign/internal/app/assign/cascade"
	"github.com/dalemusser/strataassign/internal/app/assign/expand"
	"github.com/dalemusser/strataassign/internal/app/assign/hierarchy"
	"github.com/dalemusser/strataassign/internal/app/assign/selection"
	"github.com/dalemusser/strataassign/internal/app/assign/submit"
	"github.com/dalemusser/strataassign/internal/domain/models"
	"go.uber.org/zap"
)

var (
	ErrSessionNotFound = errors.New("wizard session not found")
	ErrSessionClosed   = errors.New("wizard session closed")
)

// Config is fixed by the entry point that opens a session.
type Config struct {
	Mode   expand.Mode       `json:"mode"`
	Target models.TargetKind `json:"target,omitempty"`
	Anchor *expand.Anchor    `json:"anchor,omitempty"`
}

func (c Config) validate() error {
	switch c.Mode {
	case expand.PerStudent:
		if c.Anchor != nil {
			return errors.New("anchor is only valid in group mode")
		}
	case expand.Group:
		switch c.Target {
		case models.TargetClasses, models.TargetTeam, models.TargetStudent:
		default:
			return fmt.Errorf("unknown target %q", c.Target)
		}
	default:
		return fmt.Errorf("unknown mode %q", c.Mode)
	}
	return nil
}

// Session is one open wizard. It is safe for concurrent use; results of
// fetches or submissions that complete after Close are discarded.
type Session struct {
	ID  string
	cfg Config

	cache    *hierarchy.Cache
	rec      *cascade.Reconciler
	expander expand.Expander
	coord    *submit.Coordinator
	log      *zap.Logger
	now      func() time.Time

	mu       sync.Mutex
	store    *selection.Store
	draft    models.Draft
	closed   bool
	lastUsed time.Time
}

// Config returns the session's targeting configuration.
func (s *Session) Config() Config { return s.cfg }

// Selections implements cascade.Target.
func (s *Session) Selections() map[selection.Level][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Snapshot()
}

// Remove implements cascade.Target. A closed session refuses.
func (s *Session) Remove(l selection.Level, ids []string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	for _, id := range ids {
		if s.store.Has(l, id) {
			s.store.Toggle(l, id)
		}
	}
	return true
}

// mutate runs fn on the store if the session is open.
func (s *Session) mutate(fn func(st *selection.Store)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	s.lastUsed = s.now()
	fn(s.store)
	return nil
}

func (s *Session) open() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	return nil
}

// reconcile verifies every edge whose inputs changed since l was mutated.
func (s *Session) reconcile(ctx context.Context, l selection.Level) (int, error) {
	n, err := s.rec.Changed(ctx, s, l)
	return n, s.reconcileErr(err)
}

func (s *Session) reconcileErr(err error) error {
	if s.Closed() {
		return ErrSessionClosed
	}
	switch {
	case err == nil, errors.Is(err, hierarchy.ErrSuperseded):
		// The edge stays unverified and is checked again on the next call.
		return nil
	case errors.Is(err, cascade.ErrStale):
		return ErrSessionClosed
	}
	return err
}

// Options returns level l's option list under the current selections.
// Edges left unverified by an earlier failed or superseded load are
// reconciled first, so the list and the selections agree. A collaborator
// failure is reported in the state, not as an error.
func (s *Session) Options(ctx context.Context, l selection.Level) (hierarchy.LevelState, error) {
	if _, err := s.reconcile(ctx, l); err != nil {
		return hierarchy.LevelState{}, err
	}
	for attempt := 0; ; attempt++ {
		_, err := s.cache.Load(ctx, l, s.Selections())
		if errors.Is(err, hierarchy.ErrSuperseded) && attempt < 3 {
			continue
		}
		if err := s.open(); err != nil {
			return hierarchy.LevelState{}, err
		}
		var fe *hierarchy.FetchError
		if err != nil && !errors.As(err, &fe) && !errors.Is(err, hierarchy.ErrSuperseded) {
			return hierarchy.LevelState{}, err
		}
		return s.cache.State(l), nil
	}
}

// Toggle flips id at l and reconciles. It returns whether id is selected
// afterwards: an ID its parent selection does not reach is pruned again.
func (s *Session) Toggle(ctx context.Context, l selection.Level, id string) (bool, error) {
	if err := s.mutate(func(st *selection.Store) { st.Toggle(l, id) }); err != nil {
		return false, err
	}
	if _, err := s.reconcile(ctx, l); err != nil {
		return false, err
	}
	return s.has(l, id), nil
}

func (s *Session) has(l selection.Level, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Has(l, id)
}

// SelectAll selects every current option of l.
func (s *Session) SelectAll(ctx context.Context, l selection.Level) error {
	st, err := s.Options(ctx, l)
	if err != nil {
		return err
	}
	if err := s.mutate(func(store *selection.Store) {
		store.SelectAll(l, hierarchy.IDs(st.Options))
	}); err != nil {
		return err
	}
	_, err = s.reconcile(ctx, l)
	return err
}

// ClearAll empties l.
func (s *Session) ClearAll(ctx context.Context, l selection.Level) error {
	if err := s.mutate(func(st *selection.Store) { st.ClearAll(l) }); err != nil {
		return err
	}
	_, err := s.reconcile(ctx, l)
	return err
}

// SetDraft replaces the draft fields. Validation happens at expansion.
func (s *Session) SetDraft(d models.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	s.lastUsed = s.now()
	s.draft = d
	return nil
}

// Preview settles reconciliation and expands the selection without
// submitting it.
func (s *Session) Preview(ctx context.Context) ([]models.AssignmentRecord, error) {
	_, err := s.rec.Settle(ctx, s)
	if err := s.reconcileErr(err); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrSessionClosed
	}
	s.lastUsed = s.now()
	in := expand.Input{
		Selections: s.store.Snapshot(),
		Draft:      s.draft,
		Target:     s.cfg.Target,
		Anchor:     s.cfg.Anchor,
		Lookup:     s.cache,
	}
	s.mu.Unlock()

	return s.expander.Expand(in)
}

// Submit expands and submits. Success closes the session; failure leaves
// selections and draft in place for a retry.
func (s *Session) Submit(ctx context.Context) (submit.Outcome, error) {
	records, err := s.Preview(ctx)
	if err != nil {
		return submit.Outcome{}, err
	}

	out, err := s.coord.Submit(ctx, s.cfg.Mode, records)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return submit.Outcome{}, ErrSessionClosed
	}
	if err != nil {
		return submit.Outcome{}, err
	}
	s.log.Info("assignments submitted",
		zap.String("session", s.ID),
		zap.String("mode", string(s.cfg.Mode)),
		zap.Int("created", out.Created))
	s.closeLocked()
	return out, nil
}

// Close discards the session. Idempotent.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeLocked()
}

func (s *Session) closeLocked() {
	if s.closed {
		return
	}
	s.closed = true
	s.store.Reset()
	s.draft = models.Draft{}
	s.cache.Invalidate()
}

// Closed reports whether the session has been closed.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}
