package service

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grade-hub/student-grade-hub/internal/domain/shared"
	"github.com/grade-hub/student-grade-hub/internal/domain/student"
	"github.com/grade-hub/student-grade-hub/pkg/logger"
)

// fakeStudentRepo is an in-memory student.Repository for service tests.
// When grades is set, DeleteByID mirrors the schema's ON DELETE CASCADE.
type fakeStudentRepo struct {
	students map[int]*student.Student
	nextID   int
	grades   *fakeGradeRepo
}

func newFakeStudentRepo() *fakeStudentRepo {
	return &fakeStudentRepo{students: make(map[int]*student.Student), nextID: 1}
}

func (r *fakeStudentRepo) Save(_ context.Context, s *student.Student) (*student.Student, error) {
	s.ID = r.nextID
	r.nextID++
	clone := *s
	r.students[s.ID] = &clone
	return s, nil
}

func (r *fakeStudentRepo) FindAll(_ context.Context, _ student.Filter) ([]*student.Student, error) {
	out := make([]*student.Student, 0, len(r.students))
	for _, s := range r.students {
		clone := *s
		out = append(out, &clone)
	}
	return out, nil
}

func (r *fakeStudentRepo) FindByID(_ context.Context, id int) (*student.Student, error) {
	s, ok := r.students[id]
	if !ok {
		return nil, shared.ErrStudentNotFound
	}
	clone := *s
	return &clone, nil
}

func (r *fakeStudentRepo) Update(_ context.Context, s *student.Student) (int64, error) {
	if _, ok := r.students[s.ID]; !ok {
		return 0, nil
	}
	clone := *s
	r.students[s.ID] = &clone
	return 1, nil
}

func (r *fakeStudentRepo) DeleteByID(_ context.Context, id int) (int64, error) {
	if _, ok := r.students[id]; !ok {
		return 0, nil
	}
	delete(r.students, id)
	if r.grades != nil {
		for gradeID, g := range r.grades.grades {
			if g.StudentID == id {
				delete(r.grades.grades, gradeID)
			}
		}
	}
	return 1, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{Output: io.Discard})
}

func intPtr(v int) *int { return &v }

func TestAddStudent(t *testing.T) {
	t.Run("rejects blank fields", func(t *testing.T) {
		svc := NewStudentService(newFakeStudentRepo(), testLogger())

		inputs := []StudentInput{
			{FirstName: "", LastName: "Doe", GroupName: "G1"},
			{FirstName: "   ", LastName: "Doe", GroupName: "G1"},
			{FirstName: "Jane", LastName: "", GroupName: "G1"},
			{FirstName: "Jane", LastName: "Doe", GroupName: "\t"},
		}
		for _, in := range inputs {
			_, err := svc.AddStudent(context.Background(), in)
			assert.True(t, shared.IsValidation(err), "input %+v should fail validation", in)
		}
	})

	t.Run("persists and assigns an ID", func(t *testing.T) {
		repo := newFakeStudentRepo()
		svc := NewStudentService(repo, testLogger())

		created, err := svc.AddStudent(context.Background(), StudentInput{
			FirstName: "Jane", LastName: "Doe", GroupName: "G1",
		})
		require.NoError(t, err)
		assert.Equal(t, 1, created.ID)

		stored, err := repo.FindByID(context.Background(), created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Jane", stored.FirstName)
	})
}

func TestUpdateStudent(t *testing.T) {
	ctx := context.Background()

	t.Run("requires an ID", func(t *testing.T) {
		svc := NewStudentService(newFakeStudentRepo(), testLogger())

		ok, err := svc.UpdateStudent(ctx, StudentInput{
			FirstName: "Jane", LastName: "Doe", GroupName: "G1",
		})
		assert.False(t, ok)
		assert.True(t, shared.IsValidation(err))
	})

	t.Run("returns false for a missing ID", func(t *testing.T) {
		svc := NewStudentService(newFakeStudentRepo(), testLogger())

		ok, err := svc.UpdateStudent(ctx, StudentInput{
			ID: intPtr(42), FirstName: "Jane", LastName: "Doe", GroupName: "G1",
		})
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("rewrites an existing student", func(t *testing.T) {
		repo := newFakeStudentRepo()
		svc := NewStudentService(repo, testLogger())

		created, err := svc.AddStudent(ctx, StudentInput{
			FirstName: "Jane", LastName: "Doe", GroupName: "G1",
		})
		require.NoError(t, err)

		ok, err := svc.UpdateStudent(ctx, StudentInput{
			ID: &created.ID, FirstName: "Janet", LastName: "Doe", GroupName: "G2",
		})
		require.NoError(t, err)
		assert.True(t, ok)

		stored, err := repo.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Janet", stored.FirstName)
		assert.Equal(t, "G2", stored.GroupName)
	})
}

func TestDeleteStudent(t *testing.T) {
	ctx := context.Background()
	repo := newFakeStudentRepo()
	svc := NewStudentService(repo, testLogger())

	created, err := svc.AddStudent(ctx, StudentInput{
		FirstName: "Jane", LastName: "Doe", GroupName: "G1",
	})
	require.NoError(t, err)

	ok, err := svc.DeleteStudent(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.DeleteStudent(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGetStudentByID(t *testing.T) {
	svc := NewStudentService(newFakeStudentRepo(), testLogger())

	_, err := svc.GetStudentByID(context.Background(), 7)
	assert.True(t, shared.IsNotFound(err))
}
