package expand

import (
	"github.com/dalemusser/strataassign/internal/app/assign/selection"
	"github.com/dalemusser/strataassign/internal/domain/models"
)

type perStudent struct {
	base
}

func (*perStudent) Mode() Mode { return PerStudent }

func (p *perStudent) Expand(in Input) ([]models.AssignmentRecord, error) {
	lk := lookupOrNone(in.Lookup)
	sel := in.Selections

	kind, units := models.ContentSection, sel[selection.Section]
	if len(units) == 0 {
		kind, units = models.ContentCourse, sel[selection.Course]
	}
	students := sel[selection.Student]

	var errs ValidationErrors
	if len(units) == 0 {
		errs = append(errs, FieldError{Field: "content", Message: "select at least one section or course"})
	}
	if len(students) == 0 {
		errs = append(errs, FieldError{Field: "students", Message: "select at least one student"})
	}
	c, errs := p.prepare(in.Draft, errs)
	if len(errs) > 0 {
		return nil, errs
	}

	classes := sel[selection.Class]
	out := make([]models.AssignmentRecord, 0, len(units)*len(students))
	for _, unit := range units {
		title := unitTitle(lk, kind, unit)
		for _, st := range students {
			var r models.AssignmentRecord
			c.fill(&r, title)
			setContent(&r, kind, unit)
			r.StudentID = st
			r.ClassID = studentClass(lk, st, classes)
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return nil, ErrNothingToCreate
	}
	return out, nil
}
