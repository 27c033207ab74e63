package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggle_TwiceRestoresSelection(t *testing.T) {
	s := NewStore()
	s.SelectAll(Course, []string{"c1", "c2"})
	before := s.Selected(Course)

	for _, id := range []string{"c1", "c3"} {
		s.Toggle(Course, id)
		s.Toggle(Course, id)
		assert.ElementsMatch(t, before, s.Selected(Course), "toggle %s twice", id)
	}
}

func TestToggle_ReportsMembership(t *testing.T) {
	s := NewStore()
	assert.True(t, s.Toggle(Student, "u1"))
	assert.True(t, s.Has(Student, "u1"))
	assert.False(t, s.Toggle(Student, "u1"))
	assert.False(t, s.Has(Student, "u1"))
}

func TestToggle_KeepsInsertionOrder(t *testing.T) {
	s := NewStore()
	for _, id := range []string{"u3", "u1", "u2"} {
		s.Toggle(Student, id)
	}
	s.Toggle(Student, "u1")
	s.Toggle(Student, "u1")
	assert.Equal(t, []string{"u3", "u2", "u1"}, s.Selected(Student))
}

func TestSelectAll_ReplacesAndDedupes(t *testing.T) {
	s := NewStore()
	s.Toggle(Class, "k9")
	s.SelectAll(Class, []string{"k1", "k2", "k1", ""})
	assert.Equal(t, []string{"k1", "k2"}, s.Selected(Class))

	s.SelectAll(Class, []string{"k1", "k2"})
	assert.Equal(t, []string{"k1", "k2"}, s.Selected(Class), "select all is idempotent")
}

func TestClearAll(t *testing.T) {
	s := NewStore()
	s.SelectAll(Section, []string{"s1", "s2"})
	s.ClearAll(Section)
	s.ClearAll(Section)
	assert.Zero(t, s.Len(Section))
	assert.Empty(t, s.Key(Section))
}

func TestLevelsAreIndependent(t *testing.T) {
	s := NewStore()
	s.SelectAll(Course, []string{"c1"})
	s.SelectAll(Section, []string{"s1"})
	s.ClearAll(Course)
	assert.Equal(t, []string{"s1"}, s.Selected(Section))
}

func TestKey_IgnoresOrder(t *testing.T) {
	a := NewSet("b", "a", "c")
	b := NewSet("c", "b", "a")
	assert.Equal(t, a.Key(), b.Key())
	assert.Equal(t, "1:a1:b1:c", a.Key())
}

func TestKey_SeparatorInsideID(t *testing.T) {
	assert.NotEqual(t, NewSet("a,b").Key(), NewSet("a", "b").Key())
	assert.NotEqual(t, NewSet("1:a").Key(), NewSet("a").Key())
	assert.NotEqual(t, NewSet("a|b").Key(), NewSet("a", "b").Key())
}

func TestSelected_ReturnsCopy(t *testing.T) {
	s := NewStore()
	s.SelectAll(Course, []string{"c1"})
	got := s.Selected(Course)
	got[0] = "mutated"
	assert.Equal(t, []string{"c1"}, s.Selected(Course))
}

func TestParseLevel(t *testing.T) {
	for _, l := range Levels {
		got, err := ParseLevel(l.String())
		require.NoError(t, err)
		assert.Equal(t, l, got)
	}
	_, err := ParseLevel("teams")
	assert.Error(t, err)
}
