package hierarchy_test

import "github.com/dalemusser/strataassign/internal/domain/models"

func testCourse(id, title, subjectID string) models.Course {
	return models.Course{ID: id, Title: title, SubjectID: subjectID}
}
