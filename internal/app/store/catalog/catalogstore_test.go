package catalogstore_test

import (
	"testing"

	catalogstore "github.com/dalemusser/strataassign/internal/app/store/catalog"
	"github.com/dalemusser/strataassign/internal/domain/models"
	"github.com/dalemusser/strataassign/internal/testutil"
)

func seeded(t *testing.T) *catalogstore.Store {
	t.Helper()
	db := testutil.SetupTestDB(t)
	store := catalogstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := store.Seed(ctx, catalogstore.Catalog{
		Subjects: []models.Subject{{ID: "math", Name: "Mathematics"}},
		Courses: []models.Course{
			{ID: "c3", Title: "geometry", SubjectID: "math"},
			{ID: "c1", Title: "Algebra", SubjectID: "math"},
		},
		Chapters: []models.Chapter{
			{ID: "ch2", CourseID: "c1", Title: "Quadratics"},
			{ID: "ch1", CourseID: "c1", Title: "Linear", Sections: []models.Section{{ID: "s1", Title: "Intro", Type: models.SectionLesson}}},
		},
		Classes: []models.ClassGroup{{ID: "k1", Name: "7A"}},
		Students: []models.Student{
			{ID: "u2", ClassID: "k1", FirstName: "Alan", LastName: "Turing"},
			{ID: "u1", ClassID: "k1", FirstName: " Ada ", LastName: "Lovelace"},
		},
	})
	if err != nil {
		t.Fatalf("Seed failed: %v", err)
	}
	return store
}

func TestListCourses_CaseInsensitiveOrder(t *testing.T) {
	store := seeded(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	courses, err := store.ListCourses(ctx)
	if err != nil {
		t.Fatalf("ListCourses failed: %v", err)
	}
	if len(courses) != 2 || courses[0].ID != "c1" || courses[1].ID != "c3" {
		t.Errorf("ListCourses: got %+v", courses)
	}
	if courses[0].SubjectID != "math" {
		t.Errorf("SubjectID: got %q, want %q", courses[0].SubjectID, "math")
	}
}

func TestListChapters_SeedOrder(t *testing.T) {
	store := seeded(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	chs, err := store.ListChapters(ctx, "c1")
	if err != nil {
		t.Fatalf("ListChapters failed: %v", err)
	}
	if len(chs) != 2 || chs[0].ID != "ch2" || chs[1].ID != "ch1" {
		t.Fatalf("ListChapters: got %+v", chs)
	}
	if len(chs[1].Sections) != 1 || chs[1].Sections[0].Type != models.SectionLesson {
		t.Errorf("sections: got %+v", chs[1].Sections)
	}

	none, err := store.ListChapters(ctx, "c3")
	if err != nil {
		t.Fatalf("ListChapters(c3) failed: %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Errorf("expected empty non-nil list, got %#v", none)
	}
}

func TestListStudents(t *testing.T) {
	store := seeded(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ss, err := store.ListStudents(ctx, "k1")
	if err != nil {
		t.Fatalf("ListStudents failed: %v", err)
	}
	if len(ss) != 2 || ss[0].ID != "u1" {
		t.Fatalf("ListStudents: got %+v", ss)
	}
	if ss[0].FirstName != "Ada" {
		t.Errorf("FirstName: got %q, want trimmed %q", ss[0].FirstName, "Ada")
	}
}

func TestSeed_Idempotent(t *testing.T) {
	store := seeded(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.UpsertClass(ctx, models.ClassGroup{ID: "k1", Name: "7A (renamed)"}); err != nil {
		t.Fatalf("UpsertClass failed: %v", err)
	}
	classes, err := store.ListClasses(ctx)
	if err != nil {
		t.Fatalf("ListClasses failed: %v", err)
	}
	if len(classes) != 1 || classes[0].Name != "7A (renamed)" {
		t.Errorf("ListClasses: got %+v", classes)
	}
}
