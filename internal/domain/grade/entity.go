// Package grade contains the grade domain model.
// A grade belongs to exactly one student and records a score for a subject
// on a calendar day.
package grade

import (
	"strings"

	"github.com/grade-hub/student-grade-hub/pkg/dateutil"
)

// Score bounds, inclusive.
const (
	MinScore = 0
	MaxScore = 100
)

// Grade represents a single graded result for a student.
// ID is assigned by the store on creation.
type Grade struct {
	ID        int           `json:"id"`
	StudentID int           `json:"studentId"`
	Subject   string        `json:"subject"`
	Score     int           `json:"score"`
	GradeDate dateutil.Date `json:"gradeDate"`
}

// New creates a Grade with no ID yet.
func New(studentID int, subject string, score int, gradeDate dateutil.Date) *Grade {
	return &Grade{
		StudentID: studentID,
		Subject:   subject,
		Score:     score,
		GradeDate: gradeDate,
	}
}

// HasBlankSubject reports whether the subject is empty after trimming.
func (g *Grade) HasBlankSubject() bool {
	return strings.TrimSpace(g.Subject) == ""
}

// ScoreInRange reports whether the score lies within [MinScore, MaxScore].
func (g *Grade) ScoreInRange() bool {
	return g.Score >= MinScore && g.Score <= MaxScore
}
