package restclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dalemusser/strataassign/internal/domain/models"
)

func (c *Client) ListSubjects(ctx context.Context) ([]models.Subject, error) {
	var out []models.Subject
	err := c.do(ctx, http.MethodGet, "/subjects", nil, &out)
	return out, err
}

func (c *Client) ListCourses(ctx context.Context) ([]models.Course, error) {
	var out []models.Course
	err := c.do(ctx, http.MethodGet, "/courses", nil, &out)
	return out, err
}

// ListChapters returns a course's chapters with their sections.
func (c *Client) ListChapters(ctx context.Context, courseID string) ([]models.Chapter, error) {
	var out []models.Chapter
	err := c.do(ctx, http.MethodGet, "/courses/"+url.PathEscape(courseID)+"/chapters", nil, &out)
	for i := range out {
		if out[i].CourseID == "" {
			out[i].CourseID = courseID
		}
	}
	return out, err
}

func (c *Client) ListClasses(ctx context.Context) ([]models.ClassGroup, error) {
	var out []models.ClassGroup
	err := c.do(ctx, http.MethodGet, "/classes", nil, &out)
	return out, err
}

func (c *Client) ListStudents(ctx context.Context, classID string) ([]models.Student, error) {
	var out []models.Student
	err := c.do(ctx, http.MethodGet, "/classes/"+url.PathEscape(classID)+"/students", nil, &out)
	for i := range out {
		if out[i].ClassID == "" {
			out[i].ClassID = classID
		}
	}
	return out, err
}
