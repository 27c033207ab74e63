// internal/domain/models/assignment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Priority of an assignment.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// DefaultPriority is used when a draft does not set one.
const DefaultPriority = PriorityMedium

// ContentKind names which level of the content hierarchy a record points at.
type ContentKind string

const (
	ContentCourse  ContentKind = "course"
	ContentChapter ContentKind = "chapter"
	ContentSection ContentKind = "section"
)

// TargetKind names how a record addresses its audience.
type TargetKind string

const (
	TargetClasses TargetKind = "classes" // ClassIDs
	TargetTeam    TargetKind = "team"    // StudentIDs
	TargetStudent TargetKind = "student" // StudentID
)

// Draft holds the scalar fields a teacher fills in alongside the selection.
type Draft struct {
	DueDate      *time.Time `json:"dueDate" validate:"required,notpast"`
	Priority     Priority   `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	Instructions string     `json:"instructions" validate:"max=10000"`

	// Title replaces the generated title on every record when set.
	Title string `json:"title,omitempty" validate:"max=200"`
}

// AssignmentRecord is one assignment-creation payload handed to the
// persistence collaborator.
//
// Exactly one of CourseID, ChapterID, SectionID is set (the content
// reference). Exactly one target form is set:
//   - StudentID (ClassID carries the student's resolved class, may be empty)
//   - ClassIDs → every student in those classes
//   - StudentIDs → an ad-hoc team
type AssignmentRecord struct {
	CourseID  string `json:"courseId,omitempty"`
	ChapterID string `json:"chapterId,omitempty"`
	SectionID string `json:"sectionId,omitempty"`

	StudentID  string   `json:"studentId,omitempty"`
	ClassID    string   `json:"classId,omitempty"`
	ClassIDs   []string `json:"classIds,omitempty"`
	StudentIDs []string `json:"studentIds,omitempty"`

	Title        string    `json:"title"`
	Instructions string    `json:"instructions,omitempty"`
	DueDate      time.Time `json:"dueDate"`
	Priority     Priority  `json:"priority"`
}

// Content returns the kind and id of the record's content reference.
func (r AssignmentRecord) Content() (ContentKind, string) {
	switch {
	case r.SectionID != "":
		return ContentSection, r.SectionID
	case r.ChapterID != "":
		return ContentChapter, r.ChapterID
	case r.CourseID != "":
		return ContentCourse, r.CourseID
	}
	return "", ""
}

// Target returns how the record addresses its audience.
func (r AssignmentRecord) Target() TargetKind {
	switch {
	case len(r.ClassIDs) > 0:
		return TargetClasses
	case len(r.StudentIDs) > 0:
		return TargetTeam
	case r.StudentID != "":
		return TargetStudent
	}
	return ""
}

// Assignment is an AssignmentRecord as persisted by the Mongo-backed
// collaborator in the `assignments` collection.
type Assignment struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`

	ContentKind ContentKind `bson:"content_kind" json:"content_kind"`
	ContentID   string      `bson:"content_id" json:"content_id"`

	TargetKind TargetKind `bson:"target_kind" json:"target_kind"`
	StudentID  string     `bson:"student_id,omitempty" json:"student_id,omitempty"`
	ClassID    string     `bson:"class_id,omitempty" json:"class_id,omitempty"`
	ClassIDs   []string   `bson:"class_ids,omitempty" json:"class_ids,omitempty"`
	StudentIDs []string   `bson:"student_ids,omitempty" json:"student_ids,omitempty"`

	Title        string    `bson:"title" json:"title"`
	Instructions string    `bson:"instructions" json:"instructions"`
	DueDate      time.Time `bson:"due_date" json:"due_date"`
	Priority     Priority  `bson:"priority" json:"priority"`

	BatchID   string    `bson:"batch_id,omitempty" json:"batch_id,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// NewAssignment converts a record into its persisted form.
func NewAssignment(r AssignmentRecord) Assignment {
	kind, id := r.Content()
	return Assignment{
		ContentKind:  kind,
		ContentID:    id,
		TargetKind:   r.Target(),
		StudentID:    r.StudentID,
		ClassID:      r.ClassID,
		ClassIDs:     r.ClassIDs,
		StudentIDs:   r.StudentIDs,
		Title:        r.Title,
		Instructions: r.Instructions,
		DueDate:      r.DueDate,
		Priority:     r.Priority,
	}
}

// CreateReply is the collaborator's answer to a create call.
type CreateReply struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}
