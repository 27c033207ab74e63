package hierarchy

import "github.com/dalemusser/strataassign/internal/domain/models"

// Option is one selectable entry of a level's option list.
type Option struct {
	ID    string `json:"id"`
	Label string `json:"label"`

	// ParentID is the owning node one level up: subject for a course, course
	// for a chapter, chapter for a section, class for a student.
	ParentID string `json:"parentId,omitempty"`

	// CourseID is set on sections.
	CourseID string             `json:"courseId,omitempty"`
	Type     models.SectionType `json:"type,omitempty"`
	Color    string             `json:"color,omitempty"`
}

// Status is the load state of a level's option list.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusFailed  Status = "failed"
)

// LevelState is what the UI needs to render one multi-select.
type LevelState struct {
	Status  Status   `json:"status"`
	Error   string   `json:"error,omitempty"`
	Options []Option `json:"options"`
}

// IDs returns the option IDs in list order.
func IDs(opts []Option) []string {
	out := make([]string, len(opts))
	for i, o := range opts {
		out[i] = o.ID
	}
	return out
}
