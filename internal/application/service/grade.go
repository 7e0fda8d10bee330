package service

import (
	"context"
	"strings"

	"github.com/grade-hub/student-grade-hub/internal/domain/grade"
	"github.com/grade-hub/student-grade-hub/internal/domain/shared"
	"github.com/grade-hub/student-grade-hub/internal/domain/student"
	"github.com/grade-hub/student-grade-hub/pkg/dateutil"
	"github.com/grade-hub/student-grade-hub/pkg/logger"
)

// GradeInput carries the fields of a create or update request.
// Pointer fields distinguish "absent" from a zero value, which matters for
// score 0 and student ID presence checks.
type GradeInput struct {
	ID        *int           `json:"id"`
	StudentID *int           `json:"studentId"`
	Subject   string         `json:"subject"`
	Score     *int           `json:"score"`
	GradeDate *dateutil.Date `json:"gradeDate"`
}

// GradeService implements the grade use cases. It checks referential
// integrity against the student repository before any write.
type GradeService struct {
	grades   grade.Repository
	students student.Repository
	log      *logger.Logger
}

// NewGradeService creates a new GradeService.
func NewGradeService(grades grade.Repository, students student.Repository, log *logger.Logger) *GradeService {
	return &GradeService{
		grades:   grades,
		students: students,
		log:      log.With(logger.Component("grade_service")),
	}
}

// validateFields runs the shared field checks in order: student reference,
// subject, score, date. The first failing check wins.
func (s *GradeService) validateFields(in GradeInput) error {
	if in.StudentID == nil {
		return shared.ErrGradeStudentAbsent
	}
	if strings.TrimSpace(in.Subject) == "" {
		return shared.ErrGradeSubjectBlank
	}
	if in.Score == nil || *in.Score < grade.MinScore || *in.Score > grade.MaxScore {
		return shared.ErrGradeScoreRange
	}
	if in.GradeDate == nil {
		return shared.ErrGradeDateAbsent
	}
	if in.GradeDate.After(dateutil.Today()) {
		return shared.ErrGradeDateFuture
	}
	return nil
}

// checkStudentExists verifies the referenced student exists.
// A missing student is a validation failure, not a lookup failure.
func (s *GradeService) checkStudentExists(ctx context.Context, studentID int) error {
	if _, err := s.students.FindByID(ctx, studentID); err != nil {
		if shared.IsNotFound(err) {
			return shared.ErrGradeOwnerMissing
		}
		return err
	}
	return nil
}

// AddGrade validates the input and persists a new grade.
func (s *GradeService) AddGrade(ctx context.Context, in GradeInput) (*grade.Grade, error) {
	if err := s.validateFields(in); err != nil {
		return nil, err
	}
	if err := s.checkStudentExists(ctx, *in.StudentID); err != nil {
		return nil, err
	}

	created, err := s.grades.Save(ctx, grade.New(*in.StudentID, in.Subject, *in.Score, *in.GradeDate))
	if err != nil {
		return nil, err
	}

	s.log.Info("grade created",
		logger.GradeID(created.ID),
		logger.StudentID(created.StudentID),
		logger.Subject(created.Subject),
		logger.Score(created.Score),
	)
	return created, nil
}

// GetAllGrades returns every grade.
func (s *GradeService) GetAllGrades(ctx context.Context) ([]*grade.Grade, error) {
	return s.grades.FindAll(ctx)
}

// GetGradeByID returns one grade or shared.ErrGradeNotFound.
func (s *GradeService) GetGradeByID(ctx context.Context, id int) (*grade.Grade, error) {
	return s.grades.FindByID(ctx, id)
}

// GetGradesByStudentID returns the grades of one student, which may be empty.
// The student must exist; otherwise shared.ErrStudentNotFound is returned.
func (s *GradeService) GetGradesByStudentID(ctx context.Context, studentID int) ([]*grade.Grade, error) {
	if _, err := s.students.FindByID(ctx, studentID); err != nil {
		return nil, err
	}
	return s.grades.FindByStudentID(ctx, studentID)
}

// UpdateGrade validates the input and rewrites an existing grade.
// It returns false without error when the grade ID does not exist; a missing
// referenced student is a validation error.
func (s *GradeService) UpdateGrade(ctx context.Context, in GradeInput) (bool, error) {
	if in.ID == nil {
		return false, shared.ErrGradeIDAbsent
	}
	if err := s.validateFields(in); err != nil {
		return false, err
	}

	if _, err := s.grades.FindByID(ctx, *in.ID); err != nil {
		if shared.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	if err := s.checkStudentExists(ctx, *in.StudentID); err != nil {
		return false, err
	}

	affected, err := s.grades.Update(ctx, &grade.Grade{
		ID:        *in.ID,
		StudentID: *in.StudentID,
		Subject:   in.Subject,
		Score:     *in.Score,
		GradeDate: *in.GradeDate,
	})
	if err != nil {
		return false, err
	}

	if affected > 0 {
		s.log.Info("grade updated", logger.GradeID(*in.ID))
	}
	return affected > 0, nil
}

// DeleteGrade removes a grade.
// It returns false without error when the ID does not exist.
func (s *GradeService) DeleteGrade(ctx context.Context, id int) (bool, error) {
	affected, err := s.grades.DeleteByID(ctx, id)
	if err != nil {
		return false, err
	}

	if affected > 0 {
		s.log.Info("grade deleted", logger.GradeID(id))
	}
	return affected > 0, nil
}
