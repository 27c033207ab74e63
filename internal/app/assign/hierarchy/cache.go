// Package hierarchy memoizes the option lists of the content and audience
// levels for one wizard session.
//
// Raw collaborator responses are memoized per call (courses once, chapters
// per course, students per class). Derived option lists are memoized per
// level, keyed by the serialized ancestor selections that produced them.
// A load for a level under a different selection supersedes any load still
// in flight for it, and the superseded result is dropped on arrival. Loads
// under the same selection share one computation.
package hierarchy

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dalemusser/strataassign/internal/app/assign/selection"
	"github.com/dalemusser/strataassign/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ErrSuperseded is returned by Load when a newer load for the same level
// started before this one finished.
var ErrSuperseded = errors.New("hierarchy: load superseded")

// FetchError reports a collaborator failure while loading a level.
type FetchError struct {
	Level selection.Level
	Err   error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to load %s: %v", e.Level, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// DefaultConcurrency bounds per-course and per-class fan-out.
const DefaultConcurrency = 4

type levelEntry struct {
	gen     uint64
	key     string
	status  Status
	err     error
	options []Option
}

// Cache is safe for concurrent use.
type Cache struct {
	provider    Provider
	log         *zap.Logger
	concurrency int
	flight      singleflight.Group
	loads       singleflight.Group

	mu       sync.Mutex
	levels   map[selection.Level]*levelEntry
	subjects []models.Subject
	courses  []models.Course
	classes  []models.ClassGroup
	chapters map[string][]models.Chapter
	students map[string][]models.Student
	loaded   map[string]bool
}

// New returns an empty cache reading from p. concurrency <= 0 uses
// DefaultConcurrency.
func New(p Provider, concurrency int, logger *zap.Logger) *Cache {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		provider:    p,
		log:         logger,
		concurrency: concurrency,
		levels:      make(map[selection.Level]*levelEntry),
		chapters:    make(map[string][]models.Chapter),
		students:    make(map[string][]models.Student),
		loaded:      make(map[string]bool),
	}
}

// Key returns the memo key of level l for the given selections: the
// serialized selections of every ancestor that shapes l's options.
func Key(l selection.Level, sel map[selection.Level][]string) string {
	var parts []string
	for _, anc := range ancestors(l) {
		parts = append(parts, selection.NewSet(sel[anc]...).Key())
	}
	return strings.Join(parts, "|")
}

func ancestors(l selection.Level) []selection.Level {
	switch l {
	case selection.Course:
		return []selection.Level{selection.Subject}
	case selection.Chapter:
		return []selection.Level{selection.Subject, selection.Course}
	case selection.Section:
		return []selection.Level{selection.Subject, selection.Course, selection.Chapter}
	case selection.Student:
		return []selection.Level{selection.Class}
	}
	return nil
}

func (c *Cache) entry(l selection.Level) *levelEntry {
	e, ok := c.levels[l]
	if !ok {
		e = &levelEntry{status: StatusIdle}
		c.levels[l] = e
	}
	return e
}

// Load returns the option list of level l under the selections in sel,
// fetching whatever is not memoized yet.
//
// On collaborator failure the level degrades to an empty, failed list and
// a *FetchError is returned. If a Load for l under different selections
// started meanwhile the result is discarded and ErrSuperseded is returned;
// a Load under the same selections shares the one in flight.
func (c *Cache) Load(ctx context.Context, l selection.Level, sel map[selection.Level][]string) ([]Option, error) {
	key := Key(l, sel)

	c.mu.Lock()
	e := c.entry(l)
	if e.status == StatusReady && e.key == key {
		opts := e.options
		c.mu.Unlock()
		return opts, nil
	}
	if e.status != StatusLoading || e.key != key {
		e.gen++
		e.key = key
		e.status = StatusLoading
		e.err = nil
	}
	gen := e.gen
	c.mu.Unlock()

	v, err, _ := c.loads.Do(fmt.Sprintf("%d:%d", l, gen), func() (any, error) {
		return c.compute(ctx, l, sel)
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	if e.gen != gen {
		return nil, ErrSuperseded
	}
	if err != nil {
		fe := &FetchError{Level: l, Err: err}
		if e.status == StatusLoading {
			e.status = StatusFailed
			e.err = fe
			e.options = nil
			c.log.Warn("option list load failed",
				zap.String("level", l.String()),
				zap.String("key", key),
				zap.Error(err))
		}
		return nil, fe
	}
	opts, _ := v.([]Option)
	e.status = StatusReady
	e.options = opts
	return opts, nil
}

// State returns the last known state of level l.
func (c *Cache) State(l selection.Level) LevelState {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entry(l)
	st := LevelState{Status: e.status, Options: append([]Option(nil), e.options...)}
	if e.err != nil {
		st.Error = e.err.Error()
	}
	return st
}

// Invalidate forgets every memoized response and option list. Loads in
// flight are superseded.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.levels {
		e.gen++
		e.status = StatusIdle
		e.options = nil
		e.err = nil
		e.key = ""
	}
	c.subjects, c.courses, c.classes = nil, nil, nil
	c.chapters = make(map[string][]models.Chapter)
	c.students = make(map[string][]models.Student)
	c.loaded = make(map[string]bool)
}

// Lookup finds id among the options last loaded for l.
func (c *Cache) Lookup(l selection.Level, id string) (Option, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.levels[l]; ok {
		for _, o := range e.options {
			if o.ID == id {
				return o, true
			}
		}
	}
	return c.lookupRaw(l, id)
}

// lookupRaw searches memoized collaborator responses. Callers hold c.mu.
func (c *Cache) lookupRaw(l selection.Level, id string) (Option, bool) {
	switch l {
	case selection.Subject:
		for _, s := range c.subjects {
			if s.ID == id {
				return subjectOption(s), true
			}
		}
	case selection.Course:
		for _, co := range c.courses {
			if co.ID == id {
				return courseOption(co), true
			}
		}
	case selection.Chapter, selection.Section:
		for courseID, chs := range c.chapters {
			for _, ch := range chs {
				if l == selection.Chapter && ch.ID == id {
					return chapterOption(courseID, ch), true
				}
				if l == selection.Section {
					for _, sec := range ch.Sections {
						if sec.ID == id {
							return sectionOption(courseID, ch.ID, sec), true
						}
					}
				}
			}
		}
	case selection.Class:
		for _, k := range c.classes {
			if k.ID == id {
				return classOption(k), true
			}
		}
	case selection.Student:
		for classID, ss := range c.students {
			for _, s := range ss {
				if s.ID == id {
					return studentOption(classID, s), true
				}
			}
		}
	}
	return Option{}, false
}
