// Package student contains the student domain model.
// This is core business logic - no external dependencies here.
package student

import "strings"

// Student represents a student enrolled in a group.
// ID is assigned by the store on creation and is immutable afterwards.
type Student struct {
	ID        int    `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	GroupName string `json:"groupName"`
}

// New creates a Student with the identifying fields set and no ID yet.
func New(firstName, lastName, groupName string) *Student {
	return &Student{
		FirstName: firstName,
		LastName:  lastName,
		GroupName: groupName,
	}
}

// FullName returns the student's display name.
func (s *Student) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// HasBlankFields reports whether any required field is empty after trimming.
func (s *Student) HasBlankFields() bool {
	return strings.TrimSpace(s.FirstName) == "" ||
		strings.TrimSpace(s.LastName) == "" ||
		strings.TrimSpace(s.GroupName) == ""
}
