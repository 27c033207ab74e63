package expand

import (
	"strings"
	"time"

	"github.com/dalemusser/strataassign/internal/app/assign/selection"
	"github.com/dalemusser/strataassign/internal/app/system/htmlsanitize"
	"github.com/dalemusser/strataassign/internal/domain/models"
)

// base holds what both strategies share.
type base struct {
	now      func() time.Time
	validate *draftValidator
}

// common is the part of every record that comes from the draft.
type common struct {
	title        string
	instructions string
	dueDate      time.Time
	priority     models.Priority
}

// prepare validates the draft and normalizes its fields.
func (b *base) prepare(d models.Draft, errs ValidationErrors) (common, ValidationErrors) {
	errs = b.validate.check(d, errs)

	c := common{
		title:        strings.TrimSpace(d.Title),
		instructions: htmlsanitize.Instructions(d.Instructions),
		priority:     d.Priority,
	}
	if c.priority == "" {
		c.priority = models.DefaultPriority
	}
	if d.DueDate != nil {
		c.dueDate = *d.DueDate
	}
	return c, errs
}

// fill copies the draft fields onto r. A draft title overrides title.
func (c common) fill(r *models.AssignmentRecord, title string) {
	if c.title != "" {
		title = c.title
	}
	r.Title = title
	r.Instructions = c.instructions
	r.DueDate = c.dueDate
	r.Priority = c.priority
}

// label returns the display title of id at l, or "" when unknown.
func label(lk Lookup, l selection.Level, id string) string {
	if o, ok := lk.Lookup(l, id); ok {
		return o.Label
	}
	return ""
}

// joinTitle builds "{course} - {unit}", dropping whichever part is unknown.
func joinTitle(course, unit string) string {
	switch {
	case course == "":
		return unit
	case unit == "":
		return course
	}
	return course + " - " + unit
}

// unitTitle returns the generated title for a content unit.
func unitTitle(lk Lookup, kind models.ContentKind, id string) string {
	switch kind {
	case models.ContentSection:
		o, ok := lk.Lookup(selection.Section, id)
		if !ok {
			return ""
		}
		return joinTitle(label(lk, selection.Course, o.CourseID), o.Label)
	case models.ContentChapter:
		o, ok := lk.Lookup(selection.Chapter, id)
		if !ok {
			return ""
		}
		return joinTitle(label(lk, selection.Course, o.CourseID), o.Label)
	case models.ContentCourse:
		return label(lk, selection.Course, id)
	}
	return ""
}

// setContent points r at the content unit.
func setContent(r *models.AssignmentRecord, kind models.ContentKind, id string) {
	switch kind {
	case models.ContentSection:
		r.SectionID = id
	case models.ContentChapter:
		r.ChapterID = id
	case models.ContentCourse:
		r.CourseID = id
	}
}

// studentClass resolves the class a per-student record is filed under:
// the student's own class, else the first selected class, else none.
func studentClass(lk Lookup, studentID string, classes []string) string {
	if o, ok := lk.Lookup(selection.Student, studentID); ok && o.ParentID != "" {
		return o.ParentID
	}
	if len(classes) > 0 {
		return classes[0]
	}
	return ""
}

func lookupOrNone(lk Lookup) Lookup {
	if lk == nil {
		return noLookup{}
	}
	return lk
}
