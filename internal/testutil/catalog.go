package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/dalemusser/strataassign/internal/domain/models"
)

// FakeCatalog is an in-memory catalog and roster collaborator.
//
// Fail makes the named call fail ("subjects", "courses", "classes",
// "chapters:<courseID>", "students:<classID>"). Gate blocks the named call
// until the channel is closed or the context ends.
type FakeCatalog struct {
	Subjects []models.Subject
	Courses  []models.Course
	Chapters map[string][]models.Chapter
	Classes  []models.ClassGroup
	Students map[string][]models.Student

	mu    sync.Mutex
	Fail  map[string]error
	Gate  map[string]chan struct{}
	calls map[string]int
}

// ErrFakeUnavailable is the default injected failure.
var ErrFakeUnavailable = errors.New("catalog unavailable")

// NewSchoolCatalog returns a small catalog:
//
//	math:    c1 Algebra  → ch1 Linear (s1 Intro, s2 Practice)
//	         c3 Geometry → ch3 Triangles (s4 Angles)
//	science: c2 Physics  → ch2 Motion (s3 Velocity)
//	k1 7A: u1 Ada Lovelace, u2 Alan Turing
//	k2 7B: u3 Grace Hopper
func NewSchoolCatalog() *FakeCatalog {
	return &FakeCatalog{
		Subjects: []models.Subject{{ID: "math", Name: "Mathematics"}, {ID: "science", Name: "Science"}},
		Courses: []models.Course{
			{ID: "c1", Title: "Algebra", SubjectID: "math"},
			{ID: "c2", Title: "Physics", SubjectID: "science"},
			{ID: "c3", Title: "Geometry", SubjectID: "math"},
		},
		Chapters: map[string][]models.Chapter{
			"c1": {{ID: "ch1", CourseID: "c1", Title: "Linear", Sections: []models.Section{
				{ID: "s1", Title: "Intro", Type: models.SectionLesson},
				{ID: "s2", Title: "Practice", Type: models.SectionExercise},
			}}},
			"c2": {{ID: "ch2", CourseID: "c2", Title: "Motion", Sections: []models.Section{
				{ID: "s3", Title: "Velocity", Type: models.SectionVideo},
			}}},
			"c3": {{ID: "ch3", CourseID: "c3", Title: "Triangles", Sections: []models.Section{
				{ID: "s4", Title: "Angles", Type: models.SectionQuiz},
			}}},
		},
		Classes: []models.ClassGroup{{ID: "k1", Name: "7A", Color: "#2563eb"}, {ID: "k2", Name: "7B"}},
		Students: map[string][]models.Student{
			"k1": {{ID: "u1", FirstName: "Ada", LastName: "Lovelace"}, {ID: "u2", FirstName: "Alan", LastName: "Turing"}},
			"k2": {{ID: "u3", FirstName: "Grace", LastName: "Hopper"}},
		},
	}
}

// Calls returns how many times the named call reached the fake.
func (f *FakeCatalog) Calls(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

// SetFail injects (or with nil clears) a failure for the named call.
func (f *FakeCatalog) SetFail(name string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Fail == nil {
		f.Fail = map[string]error{}
	}
	if err == nil {
		delete(f.Fail, name)
		return
	}
	f.Fail[name] = err
}

// Block makes the named call wait until the returned func is called.
func (f *FakeCatalog) Block(name string) (release func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Gate == nil {
		f.Gate = map[string]chan struct{}{}
	}
	ch := make(chan struct{})
	f.Gate[name] = ch
	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.Gate, name)
			f.mu.Unlock()
			close(ch)
		})
	}
}

func (f *FakeCatalog) enter(ctx context.Context, name string) error {
	f.mu.Lock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[name]++
	gate := f.Gate[name]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Fail[name]
}

func (f *FakeCatalog) ListSubjects(ctx context.Context) ([]models.Subject, error) {
	if err := f.enter(ctx, "subjects"); err != nil {
		return nil, err
	}
	return append([]models.Subject(nil), f.Subjects...), nil
}

func (f *FakeCatalog) ListCourses(ctx context.Context) ([]models.Course, error) {
	if err := f.enter(ctx, "courses"); err != nil {
		return nil, err
	}
	return append([]models.Course(nil), f.Courses...), nil
}

func (f *FakeCatalog) ListChapters(ctx context.Context, courseID string) ([]models.Chapter, error) {
	if err := f.enter(ctx, "chapters:"+courseID); err != nil {
		return nil, err
	}
	return append([]models.Chapter(nil), f.Chapters[courseID]...), nil
}

func (f *FakeCatalog) ListClasses(ctx context.Context) ([]models.ClassGroup, error) {
	if err := f.enter(ctx, "classes"); err != nil {
		return nil, err
	}
	return append([]models.ClassGroup(nil), f.Classes...), nil
}

func (f *FakeCatalog) ListStudents(ctx context.Context, classID string) ([]models.Student, error) {
	if err := f.enter(ctx, "students:"+classID); err != nil {
		return nil, err
	}
	return append([]models.Student(nil), f.Students[classID]...), nil
}

// FakeWriter records what the submission coordinator sends.
type FakeWriter struct {
	mu      sync.Mutex
	Batches [][]models.AssignmentRecord
	Singles []models.AssignmentRecord

	// Reply is returned from every call; Err fails the call at transport level.
	Reply models.CreateReply
	Err   error
}

// NewFakeWriter returns a writer that accepts everything.
func NewFakeWriter() *FakeWriter {
	return &FakeWriter{Reply: models.CreateReply{Success: true}}
}

func (w *FakeWriter) CreateBatch(ctx context.Context, records []models.AssignmentRecord) (models.CreateReply, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.Batches = append(w.Batches, append([]models.AssignmentRecord(nil), records...))
	if w.Err != nil {
		return models.CreateReply{}, w.Err
	}
	return w.Reply, nil
}

func (w *FakeWriter) CreateOne(ctx context.Context, record models.AssignmentRecord) (models.CreateReply, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.Singles = append(w.Singles, record)
	if w.Err != nil {
		return models.CreateReply{}, w.Err
	}
	return w.Reply, nil
}

// Calls returns the total number of write calls received.
func (w *FakeWriter) Calls() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.Batches) + len(w.Singles)
}
