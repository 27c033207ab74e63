package indexes_test

import (
	"testing"

	"github.com/dalemusser/strataassign/internal/app/system/indexes"
	"github.com/dalemusser/strataassign/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func indexNames(t *testing.T, db *mongo.Database, coll string) map[string]bool {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cur, err := db.Collection(coll).Indexes().List(ctx)
	if err != nil {
		t.Fatalf("list %s indexes: %v", coll, err)
	}
	defer cur.Close(ctx)

	names := map[string]bool{}
	for cur.Next(ctx) {
		var idx bson.M
		if err := cur.Decode(&idx); err != nil {
			continue
		}
		if name, ok := idx["name"].(string); ok {
			names[name] = true
		}
	}
	return names
}

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db, nil); err != nil {
		t.Fatalf("first EnsureAll: %v", err)
	}
	if err := indexes.EnsureAll(ctx, db, nil); err != nil {
		t.Fatalf("second EnsureAll: %v", err)
	}
}

func TestEnsureAll_CreatesIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db, nil); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}

	want := map[string][]string{
		"courses":     {"idx_courses_titleci_id", "idx_courses_subject"},
		"chapters":    {"idx_chapters_course_position", "uniq_chapters_section_id"},
		"students":    {"idx_students_class_name"},
		"assignments": {"uniq_assignments_content_student_due", "idx_assignments_batch"},
	}
	for coll, names := range want {
		got := indexNames(t, db, coll)
		for _, n := range names {
			if !got[n] {
				t.Errorf("%s: missing index %s", coll, n)
			}
		}
	}
}

func TestEnsureAll_UniqueStudentAssignment(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db, nil); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}
	doc := bson.M{"target_kind": "student", "content_id": "s1", "student_id": "u1", "due_date": "2026-04-01"}
	if _, err := db.Collection("assignments").InsertOne(ctx, doc); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if _, err := db.Collection("assignments").InsertOne(ctx, bson.M{
		"target_kind": "student", "content_id": "s1", "student_id": "u1", "due_date": "2026-04-01",
	}); !mongo.IsDuplicateKeyError(err) {
		t.Errorf("expected duplicate key error, got %v", err)
	}
	// Group targets are not constrained.
	for i := 0; i < 2; i++ {
		if _, err := db.Collection("assignments").InsertOne(ctx, bson.M{
			"target_kind": "classes", "content_id": "s1", "class_ids": []string{"k1"}, "due_date": "2026-04-01",
		}); err != nil {
			t.Fatalf("group insert %d: %v", i, err)
		}
	}
}
