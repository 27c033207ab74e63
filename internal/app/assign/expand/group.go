package expand

import (
	"fmt"

	"github.com/dalemusser/strataassign/internal/app/assign/selection"
	"github.com/dalemusser/strataassign/internal/domain/models"
)

type group struct {
	base
}

func (*group) Mode() Mode { return Group }

func (g *group) Expand(in Input) ([]models.AssignmentRecord, error) {
	lk := lookupOrNone(in.Lookup)
	sel := in.Selections

	var errs ValidationErrors
	kind, id, title, ferr := content(in.Anchor, sel, lk)
	if ferr != nil {
		errs = append(errs, *ferr)
	}

	r := models.AssignmentRecord{}
	switch in.Target {
	case models.TargetClasses:
		if len(sel[selection.Class]) == 0 {
			errs = append(errs, FieldError{Field: "classes", Message: "select at least one class"})
		}
		r.ClassIDs = append([]string(nil), sel[selection.Class]...)
	case models.TargetTeam:
		if len(sel[selection.Student]) == 0 {
			errs = append(errs, FieldError{Field: "students", Message: "select at least one student"})
		}
		r.StudentIDs = append([]string(nil), sel[selection.Student]...)
	case models.TargetStudent:
		switch n := len(sel[selection.Student]); {
		case n == 0:
			errs = append(errs, FieldError{Field: "students", Message: "select a student"})
		case n > 1:
			errs = append(errs, FieldError{Field: "students", Message: "select only one student"})
		default:
			r.StudentID = sel[selection.Student][0]
			r.ClassID = studentClass(lk, r.StudentID, sel[selection.Class])
		}
	default:
		errs = append(errs, FieldError{Field: "target", Message: fmt.Sprintf("unknown target %q", in.Target)})
	}

	c, errs := g.prepare(in.Draft, errs)
	if len(errs) > 0 {
		return nil, errs
	}

	c.fill(&r, title)
	setContent(&r, kind, id)
	if r.Target() == "" {
		return nil, ErrNothingToCreate
	}
	return []models.AssignmentRecord{r}, nil
}

var contentLevels = []struct {
	level selection.Level
	kind  models.ContentKind
}{
	{selection.Section, models.ContentSection},
	{selection.Chapter, models.ContentChapter},
	{selection.Course, models.ContentCourse},
}

// content picks the single content unit of a group record: the anchor,
// else the one selected unit at the most specific level that has any.
func content(a *Anchor, sel map[selection.Level][]string, lk Lookup) (models.ContentKind, string, string, *FieldError) {
	if a != nil && a.ID != "" {
		switch a.Kind {
		case models.ContentCourse, models.ContentChapter, models.ContentSection:
		default:
			return "", "", "", &FieldError{Field: "anchor", Message: fmt.Sprintf("unknown content kind %q", a.Kind)}
		}
		title := a.Title
		if title == "" {
			title = unitTitle(lk, a.Kind, a.ID)
		}
		return a.Kind, a.ID, title, nil
	}
	for _, cl := range contentLevels {
		ids := sel[cl.level]
		switch {
		case len(ids) == 0:
			continue
		case len(ids) > 1:
			return "", "", "", &FieldError{Field: "content",
				Message: fmt.Sprintf("select exactly one %s to assign", cl.kind)}
		}
		return cl.kind, ids[0], unitTitle(lk, cl.kind, ids[0]), nil
	}
	return "", "", "", &FieldError{Field: "content", Message: "select a course, chapter or section"}
}
