// internal/domain/models/audience.go
package models

import "strings"

// ClassGroup is a class (or any other named group of students).
type ClassGroup struct {
	ID     string `bson:"_id" json:"id"`
	Name   string `bson:"name" json:"name"`
	NameCI string `bson:"name_ci,omitempty" json:"-"`
	Color  string `bson:"color,omitempty" json:"color,omitempty"`
}

// Student belongs to exactly one ClassGroup.
//
// The roster endpoint lists students per class and does not echo the class
// back, so ClassID is filled in by whoever fetched the student.
type Student struct {
	ID        string `bson:"_id" json:"id"`
	ClassID   string `bson:"class_id" json:"classId,omitempty"`
	FirstName string `bson:"first_name" json:"firstName"`
	LastName  string `bson:"last_name" json:"lastName"`
}

// FullName returns "First Last", trimmed.
func (s Student) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}
