package hierarchy

import (
	"context"

	"github.com/dalemusser/strataassign/internal/domain/models"
)

// Provider is the read side of the catalog and roster collaborator.
// Implementations: restclient (HTTP), catalogstore (Mongo), catalogcache
// (Redis decorator around either).
type Provider interface {
	ListSubjects(ctx context.Context) ([]models.Subject, error)
	ListCourses(ctx context.Context) ([]models.Course, error)
	// ListChapters returns the chapters of a course with their sections.
	ListChapters(ctx context.Context, courseID string) ([]models.Chapter, error)
	ListClasses(ctx context.Context) ([]models.ClassGroup, error)
	// ListStudents returns the roster of a class.
	ListStudents(ctx context.Context, classID string) ([]models.Student, error)
}
