// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
Errors are aggregated so every problem is visible and startup fails fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	var problems []string

	for _, set := range []struct {
		coll   string
		models []mongo.IndexModel
	}{
		{"subjects", subjectIndexes()},
		{"courses", courseIndexes()},
		{"chapters", chapterIndexes()},
		{"classes", classIndexes()},
		{"students", studentIndexes()},
		{"assignments", assignmentIndexes()},
	} {
		if err := ensureIndexSet(ctx, db.Collection(set.coll), set.models, logger); err != nil {
			problems = append(problems, set.coll+": "+err.Error())
		}
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func isUnique(b *bool) bool { return b != nil && *b }

// Best-effort duplicate-detector (works cross-vendors)
func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

func listIndexes(ctx context.Context, coll *mongo.Collection, log *zap.Logger) map[string]existingIndex {
	existing := map[string]existingIndex{}
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return existing
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			log.Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		existing[keySig(idx.Key)] = idx
	}
	return existing
}

// ensureIndexSet creates each model unless an index with the same keys,
// name and uniqueness exists. A same-key index that differs in name or
// uniqueness is dropped and recreated.
func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel, log *zap.Logger) error {
	var errs []string
	existing := listIndexes(ctx, coll, log)

	for _, m := range models {
		var name string
		var unique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				name = *m.Options.Name
			}
			unique = m.Options.Unique
		}
		sig := keySig(m.Keys.(bson.D))
		start := time.Now()

		if ex, ok := existing[sig]; ok {
			if isUnique(unique) == isUnique(ex.Unique) && (name == "" || ex.Name == name) {
				log.Debug("reusing existing index",
					zap.String("collection", coll.Name()),
					zap.String("name", ex.Name),
					zap.String("keys", sig))
				continue
			}
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), name, err))
				continue
			}
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if isDuplicateKeyErr(err) && isUnique(unique) {
				errs = append(errs, fmt.Sprintf("%s(%s): cannot create unique index (duplicates present)", coll.Name(), name))
			} else {
				errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), name, err))
			}
			log.Warn("index ensure failed",
				zap.String("collection", coll.Name()),
				zap.String("name", name),
				zap.String("keys", sig),
				zap.Error(err))
			continue
		}
		log.Info("index ensured",
			zap.String("collection", coll.Name()),
			zap.String("name", name),
			zap.String("keys", sig),
			zap.Bool("unique", isUnique(unique)),
			zap.String("took", time.Since(start).String()))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                              */
/* -------------------------------------------------------------------------- */

func subjectIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetName("idx_subjects_name"),
		},
	}
}

func courseIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		// catalog listing, case-insensitive title order
		{
			Keys:    bson.D{{Key: "title_ci", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("idx_courses_titleci_id"),
		},
		{
			Keys:    bson.D{{Key: "subject_id", Value: 1}},
			Options: options.Index().SetName("idx_courses_subject"),
		},
	}
}

func chapterIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "course_id", Value: 1}, {Key: "position", Value: 1}},
			Options: options.Index().SetName("idx_chapters_course_position"),
		},
		// section ids are unique across the catalog
		{
			Keys: bson.D{{Key: "sections.id", Value: 1}},
			Options: options.Index().
				SetName("uniq_chapters_section_id").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"sections.id": bson.M{"$exists": true}}),
		},
	}
}

func classIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("idx_classes_nameci_id"),
		},
	}
}

func studentIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "class_id", Value: 1},
				{Key: "last_name", Value: 1},
				{Key: "first_name", Value: 1},
			},
			Options: options.Index().SetName("idx_students_class_name"),
		},
	}
}

func assignmentIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		// one per-student assignment of a content unit per due date
		{
			Keys: bson.D{
				{Key: "content_id", Value: 1},
				{Key: "student_id", Value: 1},
				{Key: "due_date", Value: 1},
			},
			Options: options.Index().
				SetName("uniq_assignments_content_student_due").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"target_kind": "student"}),
		},
		{
			Keys:    bson.D{{Key: "batch_id", Value: 1}},
			Options: options.Index().SetName("idx_assignments_batch"),
		},
		{
			Keys:    bson.D{{Key: "class_ids", Value: 1}, {Key: "due_date", Value: 1}},
			Options: options.Index().SetName("idx_assignments_classes_due"),
		},
		{
			Keys:    bson.D{{Key: "student_id", Value: 1}, {Key: "due_date", Value: 1}},
			Options: options.Index().SetName("idx_assignments_student_due"),
		},
	}
}
