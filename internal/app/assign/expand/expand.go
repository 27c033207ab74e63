// Package expand turns a finished wizard selection into the assignment
// records handed to the persistence collaborator.
//
// Two strategies share validation, title and instruction handling:
//
//   - PerStudent: one record per (content unit × student). Sections are the
//     content units; with no section selected, courses are.
//   - Group: exactly one record carrying a list of targets (classes, an
//     ad-hoc team of students, or a single student).
//
// Records come out in content-selection order, then target-selection order.
package expand

import (
	"fmt"
	"time"

	"github.com/dalemusser/strataassign/internal/app/assign/hierarchy"
	"github.com/dalemusser/strataassign/internal/app/assign/selection"
	"github.com/dalemusser/strataassign/internal/domain/models"
)

// Mode selects the expansion strategy.
type Mode string

const (
	PerStudent Mode = "per_student"
	Group      Mode = "group"
)

// ParseMode accepts "per_student" and "group".
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case PerStudent, Group:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

// Anchor is a content unit fixed by the entry point that opened the wizard.
type Anchor struct {
	Kind  models.ContentKind `json:"kind"`
	ID    string             `json:"id"`
	Title string             `json:"title"`
}

// Lookup resolves a selected ID to its option (title and parent).
// *hierarchy.Cache implements it.
type Lookup interface {
	Lookup(l selection.Level, id string) (hierarchy.Option, bool)
}

// Input is everything an expansion reads.
type Input struct {
	Selections map[selection.Level][]string
	Draft      models.Draft

	// Target and Anchor apply to Group mode only.
	Target models.TargetKind
	Anchor *Anchor

	Lookup Lookup
}

// Expander produces the records for one submission.
type Expander interface {
	Mode() Mode
	Expand(in Input) ([]models.AssignmentRecord, error)
}

// Option configures an expander.
type Option func(*base)

// WithClock replaces time.Now for the due-date check.
func WithClock(now func() time.Time) Option {
	return func(b *base) { b.now = now }
}

// New returns the expander for mode.
func New(mode Mode, opts ...Option) (Expander, error) {
	b := base{now: time.Now}
	for _, o := range opts {
		o(&b)
	}
	b.validate = newValidator(b.now)

	switch mode {
	case PerStudent:
		return &perStudent{base: b}, nil
	case Group:
		return &group{base: b}, nil
	}
	return nil, fmt.Errorf("expand: unknown mode %q", mode)
}

// StaticLookup resolves IDs from fixed option lists. Used by tools that
// expand a saved selection without a live catalog.
type StaticLookup map[selection.Level][]hierarchy.Option

func (s StaticLookup) Lookup(l selection.Level, id string) (hierarchy.Option, bool) {
	for _, o := range s[l] {
		if o.ID == id {
			return o, true
		}
	}
	return hierarchy.Option{}, false
}

type noLookup struct{}

func (noLookup) Lookup(selection.Level, string) (hierarchy.Option, bool) {
	return hierarchy.Option{}, false
}
