// internal/app/store/catalog/catalogstore.go
package catalogstore

import (
	"context"
	"strings"

	"github.com/dalemusser/strataassign/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store serves the catalog and roster from the service's own database.
// It implements hierarchy.Provider.
type Store struct {
	subjects *mongo.Collection
	courses  *mongo.Collection
	chapters *mongo.Collection
	classes  *mongo.Collection
	students *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		subjects: db.Collection("subjects"),
		courses:  db.Collection("courses"),
		chapters: db.Collection("chapters"),
		classes:  db.Collection("classes"),
		students: db.Collection("students"),
	}
}

func findAll[T any](ctx context.Context, c *mongo.Collection, filter bson.M, sort bson.D) ([]T, error) {
	cur, err := c.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) ListSubjects(ctx context.Context) ([]models.Subject, error) {
	return findAll[models.Subject](ctx, s.subjects, bson.M{}, bson.D{{Key: "name", Value: 1}})
}

// ListCourses returns every course in case-insensitive title order.
func (s *Store) ListCourses(ctx context.Context) ([]models.Course, error) {
	return findAll[models.Course](ctx, s.courses, bson.M{}, bson.D{{Key: "title_ci", Value: 1}, {Key: "_id", Value: 1}})
}

// ListChapters returns a course's chapters with their sections, in
// position order.
func (s *Store) ListChapters(ctx context.Context, courseID string) ([]models.Chapter, error) {
	return findAll[models.Chapter](ctx, s.chapters, bson.M{"course_id": courseID}, bson.D{{Key: "position", Value: 1}, {Key: "_id", Value: 1}})
}

func (s *Store) ListClasses(ctx context.Context) ([]models.ClassGroup, error) {
	return findAll[models.ClassGroup](ctx, s.classes, bson.M{}, bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}})
}

func (s *Store) ListStudents(ctx context.Context, classID string) ([]models.Student, error) {
	return findAll[models.Student](ctx, s.students, bson.M{"class_id": classID},
		bson.D{{Key: "last_name", Value: 1}, {Key: "first_name", Value: 1}, {Key: "_id", Value: 1}})
}

/* -------------------------------------------------------------------------- */
/* Writes (seeding and admin tooling)                                          */
/* -------------------------------------------------------------------------- */

func upsert(ctx context.Context, c *mongo.Collection, id string, doc any) error {
	_, err := c.ReplaceOne(ctx, bson.M{"_id": id}, doc, options.Replace().SetUpsert(true))
	return err
}

func (s *Store) UpsertSubject(ctx context.Context, sub models.Subject) error {
	return upsert(ctx, s.subjects, sub.ID, sub)
}

func (s *Store) UpsertCourse(ctx context.Context, co models.Course) error {
	co.TitleCI = text.Fold(co.Title)
	return upsert(ctx, s.courses, co.ID, co)
}

func (s *Store) UpsertChapter(ctx context.Context, ch models.Chapter) error {
	return upsert(ctx, s.chapters, ch.ID, ch)
}

func (s *Store) UpsertClass(ctx context.Context, k models.ClassGroup) error {
	k.NameCI = text.Fold(k.Name)
	return upsert(ctx, s.classes, k.ID, k)
}

func (s *Store) UpsertStudent(ctx context.Context, st models.Student) error {
	st.FirstName = strings.TrimSpace(st.FirstName)
	st.LastName = strings.TrimSpace(st.LastName)
	return upsert(ctx, s.students, st.ID, st)
}

// Catalog is a whole catalog and roster, as loaded by Seed.
type Catalog struct {
	Subjects []models.Subject    `json:"subjects"`
	Courses  []models.Course     `json:"courses"`
	Chapters []models.Chapter    `json:"chapters"`
	Classes  []models.ClassGroup `json:"classes"`
	Students []models.Student    `json:"students"`
}

// Seed upserts every node of cat. Chapter positions follow their order
// within each course.
func (s *Store) Seed(ctx context.Context, cat Catalog) error {
	for _, sub := range cat.Subjects {
		if err := s.UpsertSubject(ctx, sub); err != nil {
			return err
		}
	}
	for _, co := range cat.Courses {
		if err := s.UpsertCourse(ctx, co); err != nil {
			return err
		}
	}
	pos := map[string]int{}
	for _, ch := range cat.Chapters {
		ch.Position = pos[ch.CourseID]
		pos[ch.CourseID]++
		if err := s.UpsertChapter(ctx, ch); err != nil {
			return err
		}
	}
	for _, k := range cat.Classes {
		if err := s.UpsertClass(ctx, k); err != nil {
			return err
		}
	}
	for _, st := range cat.Students {
		if err := s.UpsertStudent(ctx, st); err != nil {
			return err
		}
	}
	return nil
}
