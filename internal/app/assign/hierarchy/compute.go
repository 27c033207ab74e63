package hierarchy

import (
	"context"

	"github.com/dalemusser/strataassign/internal/app/assign/selection"
	"github.com/dalemusser/strataassign/internal/domain/models"
	"golang.org/x/sync/errgroup"
)

func (c *Cache) compute(ctx context.Context, l selection.Level, sel map[selection.Level][]string) ([]Option, error) {
	switch l {
	case selection.Subject:
		subjects, err := c.fetchSubjects(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]Option, 0, len(subjects))
		for _, s := range subjects {
			out = append(out, subjectOption(s))
		}
		return out, nil

	case selection.Course:
		courses, err := c.coursesFor(ctx, sel)
		if err != nil {
			return nil, err
		}
		out := make([]Option, 0, len(courses))
		for _, co := range courses {
			out = append(out, courseOption(co))
		}
		return out, nil

	case selection.Chapter:
		chs, err := c.chaptersFor(ctx, sel)
		if err != nil {
			return nil, err
		}
		out := make([]Option, 0, len(chs))
		for _, cc := range chs {
			out = append(out, chapterOption(cc.courseID, cc.chapter))
		}
		return out, nil

	case selection.Section:
		chs, err := c.chaptersFor(ctx, sel)
		if err != nil {
			return nil, err
		}
		// Empty chapter selection means no chapter filter.
		picked := selection.NewSet(sel[selection.Chapter]...)
		var out []Option
		for _, cc := range chs {
			if picked.Len() > 0 && !picked.Has(cc.chapter.ID) {
				continue
			}
			for _, sec := range cc.chapter.Sections {
				out = append(out, sectionOption(cc.courseID, cc.chapter.ID, sec))
			}
		}
		return out, nil

	case selection.Class:
		classes, err := c.fetchClasses(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]Option, 0, len(classes))
		for _, k := range classes {
			out = append(out, classOption(k))
		}
		return out, nil

	case selection.Student:
		return c.studentsFor(ctx, sel[selection.Class])
	}
	return nil, nil
}

// coursesFor applies the subject filter. An empty subject selection
// filters nothing; under an active filter, courses without a subject are
// not reachable.
func (c *Cache) coursesFor(ctx context.Context, sel map[selection.Level][]string) ([]models.Course, error) {
	all, err := c.fetchCourses(ctx)
	if err != nil {
		return nil, err
	}
	subjects := selection.NewSet(sel[selection.Subject]...)
	if subjects.Len() == 0 {
		return all, nil
	}
	var out []models.Course
	for _, co := range all {
		if subjects.Has(co.SubjectID) {
			out = append(out, co)
		}
	}
	return out, nil
}

type courseChapter struct {
	courseID string
	chapter  models.Chapter
}

// chaptersFor returns the chapters of the selected courses, or of every
// reachable course when no course is selected.
func (c *Cache) chaptersFor(ctx context.Context, sel map[selection.Level][]string) ([]courseChapter, error) {
	courses, err := c.coursesFor(ctx, sel)
	if err != nil {
		return nil, err
	}
	reachable := make(map[string]bool, len(courses))
	for _, co := range courses {
		reachable[co.ID] = true
	}

	var courseIDs []string
	if picked := sel[selection.Course]; len(picked) > 0 {
		for _, id := range picked {
			if reachable[id] {
				courseIDs = append(courseIDs, id)
			}
		}
	} else {
		for _, co := range courses {
			courseIDs = append(courseIDs, co.ID)
		}
	}

	results := make([][]models.Chapter, len(courseIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, id := range courseIDs {
		g.Go(func() error {
			chs, err := c.fetchChapters(gctx, id)
			if err != nil {
				return err
			}
			results[i] = chs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []courseChapter
	for i, chs := range results {
		for _, ch := range chs {
			out = append(out, courseChapter{courseID: courseIDs[i], chapter: ch})
		}
	}
	return out, nil
}

// studentsFor lists the rosters of the selected classes. No class selected
// means no students: the audience must be anchored to a class.
func (c *Cache) studentsFor(ctx context.Context, classIDs []string) ([]Option, error) {
	if len(classIDs) == 0 {
		return []Option{}, nil
	}

	results := make([][]models.Student, len(classIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, id := range classIDs {
		g.Go(func() error {
			ss, err := c.fetchStudents(gctx, id)
			if err != nil {
				return err
			}
			results[i] = ss
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	out := []Option{}
	for i, ss := range results {
		for _, s := range ss {
			if seen[s.ID] {
				continue
			}
			seen[s.ID] = true
			out = append(out, studentOption(classIDs[i], s))
		}
	}
	return out, nil
}

func subjectOption(s models.Subject) Option {
	return Option{ID: s.ID, Label: s.Name}
}

func courseOption(co models.Course) Option {
	return Option{ID: co.ID, Label: co.Title, ParentID: co.SubjectID}
}

func chapterOption(courseID string, ch models.Chapter) Option {
	return Option{ID: ch.ID, Label: ch.Title, ParentID: courseID, CourseID: courseID}
}

func sectionOption(courseID, chapterID string, sec models.Section) Option {
	return Option{ID: sec.ID, Label: sec.Title, ParentID: chapterID, CourseID: courseID, Type: sec.Type}
}

func classOption(k models.ClassGroup) Option {
	return Option{ID: k.ID, Label: k.Name, Color: k.Color}
}

func studentOption(classID string, s models.Student) Option {
	if s.ClassID != "" {
		classID = s.ClassID
	}
	return Option{ID: s.ID, Label: s.FullName(), ParentID: classID}
}
