package selection

import "fmt"

// Level identifies one multi-select in the wizard.
type Level int

const (
	Subject Level = iota
	Course
	Chapter
	Section
	Class
	Student
)

// Levels lists every level, content chain first.
var Levels = []Level{Subject, Course, Chapter, Section, Class, Student}

var levelNames = map[Level]string{
	Subject: "subjects",
	Course:  "courses",
	Chapter: "chapters",
	Section: "sections",
	Class:   "classes",
	Student: "students",
}

func (l Level) String() string {
	if n, ok := levelNames[l]; ok {
		return n
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// ParseLevel accepts the plural names used in URLs ("courses", "students").
func ParseLevel(s string) (Level, error) {
	for l, n := range levelNames {
		if n == s {
			return l, nil
		}
	}
	return 0, fmt.Errorf("unknown level %q", s)
}

// IsAudience reports whether l belongs to the ClassGroup → Student chain.
func (l Level) IsAudience() bool {
	return l == Class || l == Student
}
