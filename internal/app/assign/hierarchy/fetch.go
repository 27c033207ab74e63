package hierarchy

import (
	"context"

	"github.com/dalemusser/strataassign/internal/domain/models"
)

// memoFetch returns the memoized value for key or fetches it once,
// collapsing concurrent fetches of the same key. Failures are not memoized.
func memoFetch[T any](ctx context.Context, c *Cache, key string, get func() T, put func(T), fetch func(context.Context) (T, error)) (T, error) {
	c.mu.Lock()
	if c.loaded[key] {
		v := get()
		c.mu.Unlock()
		return v, nil
	}
	c.mu.Unlock()

	v, err, _ := c.flight.Do(key, func() (any, error) {
		return fetch(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	out := v.(T)

	c.mu.Lock()
	put(out)
	c.loaded[key] = true
	c.mu.Unlock()
	return out, nil
}

func (c *Cache) fetchSubjects(ctx context.Context) ([]models.Subject, error) {
	return memoFetch(ctx, c, "subjects",
		func() []models.Subject { return c.subjects },
		func(v []models.Subject) { c.subjects = v },
		c.provider.ListSubjects)
}

func (c *Cache) fetchCourses(ctx context.Context) ([]models.Course, error) {
	return memoFetch(ctx, c, "courses",
		func() []models.Course { return c.courses },
		func(v []models.Course) { c.courses = v },
		c.provider.ListCourses)
}

func (c *Cache) fetchClasses(ctx context.Context) ([]models.ClassGroup, error) {
	return memoFetch(ctx, c, "classes",
		func() []models.ClassGroup { return c.classes },
		func(v []models.ClassGroup) { c.classes = v },
		c.provider.ListClasses)
}

func (c *Cache) fetchChapters(ctx context.Context, courseID string) ([]models.Chapter, error) {
	return memoFetch(ctx, c, "chapters:"+courseID,
		func() []models.Chapter { return c.chapters[courseID] },
		func(v []models.Chapter) { c.chapters[courseID] = v },
		func(ctx context.Context) ([]models.Chapter, error) {
			return c.provider.ListChapters(ctx, courseID)
		})
}

func (c *Cache) fetchStudents(ctx context.Context, classID string) ([]models.Student, error) {
	return memoFetch(ctx, c, "students:"+classID,
		func() []models.Student { return c.students[classID] },
		func(v []models.Student) { c.students[classID] = v },
		func(ctx context.Context) ([]models.Student, error) {
			return c.provider.ListStudents(ctx, classID)
		})
}
