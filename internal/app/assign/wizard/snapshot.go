package wizard

import (
	"github.com/dalemusser/strataassign/internal/app/assign/hierarchy"
	"github.com/dalemusser/strataassign/internal/app/assign/selection"
	"github.com/dalemusser/strataassign/internal/domain/models"
)

// LevelSummary is the per-level part of a snapshot.
type LevelSummary struct {
	Selected []string         `json:"selected"`
	Status   hierarchy.Status `json:"status"`
	Error    string           `json:"error,omitempty"`
}

// Snapshot is a read-only view of a session.
type Snapshot struct {
	ID     string                  `json:"id"`
	Config Config                  `json:"config"`
	Draft  models.Draft            `json:"draft"`
	Levels map[string]LevelSummary `json:"levels"`
}

// Snapshot returns the current selections, draft and load status.
func (s *Session) Snapshot() (Snapshot, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return Snapshot{}, ErrSessionClosed
	}
	sel := s.store.Snapshot()
	draft := s.draft
	s.mu.Unlock()

	snap := Snapshot{
		ID:     s.ID,
		Config: s.cfg,
		Draft:  draft,
		Levels: make(map[string]LevelSummary, len(selection.Levels)),
	}
	for _, l := range selection.Levels {
		st := s.cache.State(l)
		snap.Levels[l.String()] = LevelSummary{
			Selected: sel[l],
			Status:   st.Status,
			Error:    st.Error,
		}
	}
	return snap, nil
}
