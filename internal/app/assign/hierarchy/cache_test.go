package hierarchy_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dalemusser/strataassign/internal/app/assign/hierarchy"
	"github.com/dalemusser/strataassign/internal/app/assign/selection"
	"github.com/dalemusser/strataassign/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sel = map[selection.Level][]string

func TestLoad_CoursesFilteredBySubject(t *testing.T) {
	cache := hierarchy.New(testutil.NewSchoolCatalog(), 0, nil)
	ctx := context.Background()

	all, err := cache.Load(ctx, selection.Course, sel{})
	require.NoError(t, err)
	assert.Equal(t, []string{"c1", "c2", "c3"}, hierarchy.IDs(all))

	math, err := cache.Load(ctx, selection.Course, sel{selection.Subject: {"math"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"c1", "c3"}, hierarchy.IDs(math))
}

func TestLoad_CourseWithoutSubjectUnreachableUnderFilter(t *testing.T) {
	fake := testutil.NewSchoolCatalog()
	fake.Courses = append(fake.Courses, testCourse("c9", "Electives", ""))
	cache := hierarchy.New(fake, 0, nil)

	opts, err := cache.Load(context.Background(), selection.Course, sel{selection.Subject: {"math"}})
	require.NoError(t, err)
	assert.NotContains(t, hierarchy.IDs(opts), "c9")
}

func TestLoad_ChaptersPermissiveWithoutCourse(t *testing.T) {
	cache := hierarchy.New(testutil.NewSchoolCatalog(), 2, nil)

	opts, err := cache.Load(context.Background(), selection.Chapter, sel{selection.Subject: {"math"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"ch1", "ch3"}, hierarchy.IDs(opts))
	assert.Equal(t, "c1", opts[0].ParentID)
}

func TestLoad_ChaptersFollowCourseSelectionOrder(t *testing.T) {
	cache := hierarchy.New(testutil.NewSchoolCatalog(), 0, nil)

	opts, err := cache.Load(context.Background(), selection.Chapter, sel{selection.Course: {"c3", "c1"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"ch3", "ch1"}, hierarchy.IDs(opts))
}

func TestLoad_SectionsUnderChapterSelection(t *testing.T) {
	cache := hierarchy.New(testutil.NewSchoolCatalog(), 0, nil)
	ctx := context.Background()

	opts, err := cache.Load(ctx, selection.Section, sel{selection.Course: {"c1", "c2"}, selection.Chapter: {"ch1"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"s1", "s2"}, hierarchy.IDs(opts))
	assert.Equal(t, "c1", opts[0].CourseID)
	assert.Equal(t, "ch1", opts[0].ParentID)

	opts, err = cache.Load(ctx, selection.Section, sel{selection.Course: {"c1", "c2"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"s1", "s2", "s3"}, hierarchy.IDs(opts))
}

func TestLoad_StudentsRestrictiveWithoutClass(t *testing.T) {
	fake := testutil.NewSchoolCatalog()
	cache := hierarchy.New(fake, 0, nil)

	opts, err := cache.Load(context.Background(), selection.Student, sel{})
	require.NoError(t, err)
	assert.Empty(t, opts)
	assert.Zero(t, fake.Calls("students:k1"))
	assert.Zero(t, fake.Calls("students:k2"))
}

func TestLoad_StudentsCarryTheirClass(t *testing.T) {
	cache := hierarchy.New(testutil.NewSchoolCatalog(), 0, nil)

	opts, err := cache.Load(context.Background(), selection.Student, sel{selection.Class: {"k2", "k1"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"u3", "u1", "u2"}, hierarchy.IDs(opts))
	assert.Equal(t, "k2", opts[0].ParentID)
	assert.Equal(t, "Ada Lovelace", opts[1].Label)
}

func TestLoad_MemoizesByParentKey(t *testing.T) {
	fake := testutil.NewSchoolCatalog()
	cache := hierarchy.New(fake, 0, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := cache.Load(ctx, selection.Chapter, sel{selection.Course: {"c1", "c2"}})
		require.NoError(t, err)
	}
	// Same members, different order: same key.
	_, err := cache.Load(ctx, selection.Chapter, sel{selection.Course: {"c2", "c1"}})
	require.NoError(t, err)

	assert.Equal(t, 1, fake.Calls("courses"))
	assert.Equal(t, 1, fake.Calls("chapters:c1"))
	assert.Equal(t, 1, fake.Calls("chapters:c2"))
}

func TestLoad_FailureDegradesToEmptyAndIsNotMemoized(t *testing.T) {
	fake := testutil.NewSchoolCatalog()
	fake.SetFail("classes", testutil.ErrFakeUnavailable)
	cache := hierarchy.New(fake, 0, nil)
	ctx := context.Background()

	opts, err := cache.Load(ctx, selection.Class, sel{})
	require.Error(t, err)
	var fe *hierarchy.FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, selection.Class, fe.Level)
	assert.ErrorIs(t, err, testutil.ErrFakeUnavailable)
	assert.Empty(t, opts)

	st := cache.State(selection.Class)
	assert.Equal(t, hierarchy.StatusFailed, st.Status)
	assert.NotEmpty(t, st.Error)
	assert.Empty(t, st.Options)

	fake.SetFail("classes", nil)
	opts, err = cache.Load(ctx, selection.Class, sel{})
	require.NoError(t, err)
	assert.Equal(t, []string{"k1", "k2"}, hierarchy.IDs(opts))
	assert.Equal(t, hierarchy.StatusReady, cache.State(selection.Class).Status)
}

func TestLoad_FailureDoesNotAffectOtherLevels(t *testing.T) {
	fake := testutil.NewSchoolCatalog()
	fake.SetFail("subjects", testutil.ErrFakeUnavailable)
	cache := hierarchy.New(fake, 0, nil)
	ctx := context.Background()

	_, err := cache.Load(ctx, selection.Subject, sel{})
	require.Error(t, err)
	opts, err := cache.Load(ctx, selection.Course, sel{})
	require.NoError(t, err)
	assert.Len(t, opts, 3)
}

func TestLoad_NewerLoadSupersedesInFlight(t *testing.T) {
	fake := testutil.NewSchoolCatalog()
	release := fake.Block("students:k1")
	defer release()
	cache := hierarchy.New(fake, 0, nil)
	ctx := context.Background()

	type result struct {
		opts []hierarchy.Option
		err  error
	}
	first := make(chan result, 1)
	go func() {
		opts, err := cache.Load(ctx, selection.Student, sel{selection.Class: {"k1"}})
		first <- result{opts, err}
	}()
	require.Eventually(t, func() bool { return fake.Calls("students:k1") == 1 }, time.Second, 5*time.Millisecond)

	second, err := cache.Load(ctx, selection.Student, sel{selection.Class: {"k2"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"u3"}, hierarchy.IDs(second))

	release()
	got := <-first
	assert.ErrorIs(t, got.err, hierarchy.ErrSuperseded)
	assert.Nil(t, got.opts)
	assert.Equal(t, []string{"u3"}, hierarchy.IDs(cache.State(selection.Student).Options))
}

func TestLoad_SameSelectionJoinsInFlight(t *testing.T) {
	fake := testutil.NewSchoolCatalog()
	release := fake.Block("students:k1")
	defer release()
	cache := hierarchy.New(fake, 0, nil)
	ctx := context.Background()
	k1 := sel{selection.Class: {"k1"}}

	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := cache.Load(ctx, selection.Student, k1)
			errs <- err
		}()
	}
	require.Eventually(t, func() bool { return fake.Calls("students:k1") == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	release()
	for i := 0; i < 2; i++ {
		assert.NoError(t, <-errs)
	}
	assert.Equal(t, 1, fake.Calls("students:k1"))
	assert.Equal(t, []string{"u1", "u2"}, hierarchy.IDs(cache.State(selection.Student).Options))
}

func TestLookup(t *testing.T) {
	cache := hierarchy.New(testutil.NewSchoolCatalog(), 0, nil)
	ctx := context.Background()
	_, err := cache.Load(ctx, selection.Section, sel{})
	require.NoError(t, err)

	sec, ok := cache.Lookup(selection.Section, "s3")
	require.True(t, ok)
	assert.Equal(t, "Velocity", sec.Label)
	assert.Equal(t, "c2", sec.CourseID)

	// Course options were never loaded as a level, but the raw response is memoized.
	course, ok := cache.Lookup(selection.Course, "c2")
	require.True(t, ok)
	assert.Equal(t, "Physics", course.Label)

	_, ok = cache.Lookup(selection.Student, "u1")
	assert.False(t, ok)
}

func TestInvalidate(t *testing.T) {
	fake := testutil.NewSchoolCatalog()
	cache := hierarchy.New(fake, 0, nil)
	ctx := context.Background()

	_, err := cache.Load(ctx, selection.Class, sel{})
	require.NoError(t, err)
	cache.Invalidate()
	assert.Equal(t, hierarchy.StatusIdle, cache.State(selection.Class).Status)

	_, err = cache.Load(ctx, selection.Class, sel{})
	require.NoError(t, err)
	assert.Equal(t, 2, fake.Calls("classes"))
}
