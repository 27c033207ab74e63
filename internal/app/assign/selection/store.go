// Package selection holds the per-level selected IDs of an assignment wizard.
//
// The store is level-agnostic: Toggle, SelectAll and ClearAll work the same
// way on every level and never look at other levels. Keeping dependent
// levels consistent is the cascade package's job.
package selection

// Store is the set of selected IDs per level.
type Store struct {
	sets map[Level]*Set
}

// NewStore returns an empty store.
func NewStore() *Store {
	s := &Store{}
	s.Reset()
	return s
}

// Reset empties every level.
func (s *Store) Reset() {
	s.sets = make(map[Level]*Set, len(Levels))
	for _, l := range Levels {
		s.sets[l] = NewSet()
	}
}

func (s *Store) set(l Level) *Set {
	if st, ok := s.sets[l]; ok {
		return st
	}
	st := NewSet()
	s.sets[l] = st
	return st
}

// Toggle flips membership of id at level l. It returns true when id is
// selected after the call.
func (s *Store) Toggle(l Level, id string) bool {
	st := s.set(l)
	if st.remove(id) {
		return false
	}
	return st.add(id)
}

// SelectAll replaces the selection at l with available, in that order.
func (s *Store) SelectAll(l Level, available []string) {
	s.sets[l] = NewSet(available...)
}

// ClearAll empties level l.
func (s *Store) ClearAll(l Level) {
	s.sets[l] = NewSet()
}

// Replace sets level l to ids. Used by reconciliation; callers are
// expected to pass a subset of the current selection in its order.
func (s *Store) Replace(l Level, ids []string) {
	s.sets[l] = NewSet(ids...)
}

// Selected returns the IDs selected at l in selection order.
func (s *Store) Selected(l Level) []string {
	return s.set(l).IDs()
}

// Has reports whether id is selected at l.
func (s *Store) Has(l Level, id string) bool {
	return s.set(l).Has(id)
}

// Len returns how many IDs are selected at l.
func (s *Store) Len(l Level) int {
	return s.set(l).Len()
}

// Key returns the stable serialization of level l's selection.
func (s *Store) Key(l Level) string {
	return s.set(l).Key()
}

// Snapshot copies every level's selection.
func (s *Store) Snapshot() map[Level][]string {
	out := make(map[Level][]string, len(s.sets))
	for _, l := range Levels {
		out[l] = s.Selected(l)
	}
	return out
}
