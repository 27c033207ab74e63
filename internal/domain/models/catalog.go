// internal/domain/models/catalog.go
package models

// Subject is the top of the content hierarchy.
type Subject struct {
	ID   string `bson:"_id" json:"id"`
	Name string `bson:"name" json:"name"`
}

// Course belongs to at most one Subject. SubjectID is empty when the
// course has not been filed under a subject.
type Course struct {
	ID        string `bson:"_id" json:"id"`
	Title     string `bson:"title" json:"title"`
	TitleCI   string `bson:"title_ci,omitempty" json:"-"`
	SubjectID string `bson:"subject_id,omitempty" json:"subjectId,omitempty"`
}

// Chapter belongs to exactly one Course. Sections are embedded the way the
// catalog endpoint returns them (chapters-with-sections for a course).
type Chapter struct {
	ID       string    `bson:"_id" json:"id"`
	CourseID string    `bson:"course_id" json:"courseId,omitempty"`
	Title    string    `bson:"title" json:"title"`
	Position int       `bson:"position" json:"-"`
	Sections []Section `bson:"sections" json:"sections"`
}

// SectionType classifies a Section.
type SectionType string

const (
	SectionLesson   SectionType = "LESSON"
	SectionExercise SectionType = "EXERCISE"
	SectionQuiz     SectionType = "QUIZ"
	SectionVideo    SectionType = "VIDEO"
)

// Valid reports whether t is one of the known section types.
func (t SectionType) Valid() bool {
	switch t {
	case SectionLesson, SectionExercise, SectionQuiz, SectionVideo:
		return true
	}
	return false
}

// Section belongs to exactly one Chapter and, through it, one Course.
type Section struct {
	ID    string      `bson:"id" json:"id"`
	Title string      `bson:"title" json:"title"`
	Type  SectionType `bson:"type" json:"type"`
}
