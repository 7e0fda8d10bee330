// Package service contains the application services for Student Grade Hub.
// Services validate input and orchestrate repository calls; they hold all
// business rules that span entities.
package service

import (
	"context"
	"strings"

	"github.com/grade-hub/student-grade-hub/internal/domain/shared"
	"github.com/grade-hub/student-grade-hub/internal/domain/student"
	"github.com/grade-hub/student-grade-hub/pkg/logger"
)

// StudentInput carries the fields of a create or update request.
// ID is a pointer so that an absent ID is distinguishable from zero.
type StudentInput struct {
	ID        *int   `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	GroupName string `json:"groupName"`
}

// StudentService implements the student use cases.
type StudentService struct {
	students student.Repository
	log      *logger.Logger
}

// NewStudentService creates a new StudentService.
func NewStudentService(students student.Repository, log *logger.Logger) *StudentService {
	return &StudentService{
		students: students,
		log:      log.With(logger.Component("student_service")),
	}
}

// validateFields checks that every required field is non-blank after trimming.
func (s *StudentService) validateFields(op string, in StudentInput) error {
	if strings.TrimSpace(in.FirstName) == "" {
		return shared.NewDomainError("student", op, shared.ErrEmptyValue, "first name cannot be blank")
	}
	if strings.TrimSpace(in.LastName) == "" {
		return shared.NewDomainError("student", op, shared.ErrEmptyValue, "last name cannot be blank")
	}
	if strings.TrimSpace(in.GroupName) == "" {
		return shared.NewDomainError("student", op, shared.ErrEmptyValue, "group name cannot be blank")
	}
	return nil
}

// AddStudent validates the input and persists a new student.
func (s *StudentService) AddStudent(ctx context.Context, in StudentInput) (*student.Student, error) {
	if err := s.validateFields("AddStudent", in); err != nil {
		return nil, err
	}

	created, err := s.students.Save(ctx, student.New(in.FirstName, in.LastName, in.GroupName))
	if err != nil {
		return nil, err
	}

	s.log.Info("student created", logger.StudentID(created.ID))
	return created, nil
}

// GetAllStudents returns students matching the filter.
func (s *StudentService) GetAllStudents(ctx context.Context, filter student.Filter) ([]*student.Student, error) {
	return s.students.FindAll(ctx, filter)
}

// GetStudentByID returns one student or shared.ErrStudentNotFound.
func (s *StudentService) GetStudentByID(ctx context.Context, id int) (*student.Student, error) {
	return s.students.FindByID(ctx, id)
}

// UpdateStudent validates the input and rewrites an existing student.
// It returns false without error when the ID does not exist.
func (s *StudentService) UpdateStudent(ctx context.Context, in StudentInput) (bool, error) {
	if in.ID == nil {
		return false, shared.ErrStudentIDAbsent
	}
	if err := s.validateFields("UpdateStudent", in); err != nil {
		return false, err
	}

	if _, err := s.students.FindByID(ctx, *in.ID); err != nil {
		if shared.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}

	affected, err := s.students.Update(ctx, &student.Student{
		ID:        *in.ID,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		GroupName: in.GroupName,
	})
	if err != nil {
		return false, err
	}

	if affected > 0 {
		s.log.Info("student updated", logger.StudentID(*in.ID))
	}
	return affected > 0, nil
}

// DeleteStudent removes a student; its grades go with it via the FK cascade.
// It returns false without error when the ID does not exist.
func (s *StudentService) DeleteStudent(ctx context.Context, id int) (bool, error) {
	affected, err := s.students.DeleteByID(ctx, id)
	if err != nil {
		return false, err
	}

	if affected > 0 {
		s.log.Info("student deleted", logger.StudentID(id))
	}
	return affected > 0, nil
}
