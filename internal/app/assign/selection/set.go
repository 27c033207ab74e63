package selection

import (
	"sort"
	"strconv"
	"strings"
)

// Set is an insertion-ordered set of IDs. Order matters: expansion emits
// records in selection order, not sorted order.
type Set struct {
	ids   []string
	index map[string]int
}

// NewSet returns a set holding ids in order, duplicates dropped.
func NewSet(ids ...string) *Set {
	s := &Set{index: make(map[string]int, len(ids))}
	for _, id := range ids {
		s.add(id)
	}
	return s
}

func (s *Set) add(id string) bool {
	if id == "" {
		return false
	}
	if _, ok := s.index[id]; ok {
		return false
	}
	s.index[id] = len(s.ids)
	s.ids = append(s.ids, id)
	return true
}

func (s *Set) remove(id string) bool {
	i, ok := s.index[id]
	if !ok {
		return false
	}
	s.ids = append(s.ids[:i], s.ids[i+1:]...)
	delete(s.index, id)
	for j := i; j < len(s.ids); j++ {
		s.index[s.ids[j]] = j
	}
	return true
}

// Has reports membership.
func (s *Set) Has(id string) bool {
	_, ok := s.index[id]
	return ok
}

// Len returns the number of IDs.
func (s *Set) Len() int { return len(s.ids) }

// IDs returns a copy of the IDs in selection order.
func (s *Set) IDs() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

// Key is a stable serialization of the set's membership: the sorted IDs,
// each length-prefixed ("3:abc"), so no ID content can collide with a
// different membership. Two sets with the same members have the same key
// regardless of order.
func (s *Set) Key() string {
	sorted := s.IDs()
	sort.Strings(sorted)
	var b strings.Builder
	for _, id := range sorted {
		b.WriteString(strconv.Itoa(len(id)))
		b.WriteByte(':')
		b.WriteString(id)
	}
	return b.String()
}
