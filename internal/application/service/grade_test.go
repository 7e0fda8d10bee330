package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grade-hub/student-grade-hub/internal/domain/grade"
	"github.com/grade-hub/student-grade-hub/internal/domain/shared"
	"github.com/grade-hub/student-grade-hub/internal/domain/student"
	"github.com/grade-hub/student-grade-hub/pkg/dateutil"
)

// fakeGradeRepo is an in-memory grade.Repository for service tests.
type fakeGradeRepo struct {
	grades map[int]*grade.Grade
	nextID int
}

func newFakeGradeRepo() *fakeGradeRepo {
	return &fakeGradeRepo{grades: make(map[int]*grade.Grade), nextID: 1}
}

func (r *fakeGradeRepo) Save(_ context.Context, g *grade.Grade) (*grade.Grade, error) {
	g.ID = r.nextID
	r.nextID++
	clone := *g
	r.grades[g.ID] = &clone
	return g, nil
}

func (r *fakeGradeRepo) FindAll(_ context.Context) ([]*grade.Grade, error) {
	out := make([]*grade.Grade, 0, len(r.grades))
	for _, g := range r.grades {
		clone := *g
		out = append(out, &clone)
	}
	return out, nil
}

func (r *fakeGradeRepo) FindByStudentID(_ context.Context, studentID int) ([]*grade.Grade, error) {
	out := make([]*grade.Grade, 0)
	for _, g := range r.grades {
		if g.StudentID == studentID {
			clone := *g
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeGradeRepo) FindByID(_ context.Context, id int) (*grade.Grade, error) {
	g, ok := r.grades[id]
	if !ok {
		return nil, shared.ErrGradeNotFound
	}
	clone := *g
	return &clone, nil
}

func (r *fakeGradeRepo) Update(_ context.Context, g *grade.Grade) (int64, error) {
	if _, ok := r.grades[g.ID]; !ok {
		return 0, nil
	}
	clone := *g
	r.grades[g.ID] = &clone
	return 1, nil
}

func (r *fakeGradeRepo) DeleteByID(_ context.Context, id int) (int64, error) {
	if _, ok := r.grades[id]; !ok {
		return 0, nil
	}
	delete(r.grades, id)
	return 1, nil
}

// gradeFixture returns a service wired to fresh fakes, with one stored
// student and a valid input referencing that student.
func gradeFixture(t *testing.T) (*GradeService, *fakeGradeRepo, GradeInput) {
	t.Helper()

	students := newFakeStudentRepo()
	stored, err := students.Save(context.Background(), student.New("Jane", "Doe", "G1"))
	require.NoError(t, err)

	grades := newFakeGradeRepo()
	svc := NewGradeService(grades, students, testLogger())

	today := dateutil.Today()
	in := GradeInput{
		StudentID: intPtr(stored.ID),
		Subject:   "Math",
		Score:     intPtr(87),
		GradeDate: &today,
	}
	return svc, grades, in
}

func TestAddGradeValidation(t *testing.T) {
	ctx := context.Background()

	t.Run("missing student reference wins over other failures", func(t *testing.T) {
		svc, _, in := gradeFixture(t)
		in.StudentID = nil
		in.Subject = "   "

		_, err := svc.AddGrade(ctx, in)
		assert.True(t, errors.Is(err, shared.ErrGradeStudentAbsent))
	})

	t.Run("blank subject", func(t *testing.T) {
		svc, _, in := gradeFixture(t)
		in.Subject = "   "

		_, err := svc.AddGrade(ctx, in)
		assert.True(t, errors.Is(err, shared.ErrGradeSubjectBlank))
	})

	t.Run("score bounds", func(t *testing.T) {
		svc, _, in := gradeFixture(t)

		for _, bad := range []*int{nil, intPtr(-1), intPtr(101)} {
			in.Score = bad
			_, err := svc.AddGrade(ctx, in)
			assert.True(t, errors.Is(err, shared.ErrGradeScoreRange))
		}

		for _, good := range []int{0, 100} {
			in.Score = intPtr(good)
			created, err := svc.AddGrade(ctx, in)
			require.NoError(t, err)
			assert.Equal(t, good, created.Score)
		}
	})

	t.Run("date required and not in the future", func(t *testing.T) {
		svc, _, in := gradeFixture(t)

		in.GradeDate = nil
		_, err := svc.AddGrade(ctx, in)
		assert.True(t, errors.Is(err, shared.ErrGradeDateAbsent))

		tomorrow := dateutil.Today().AddDays(1)
		in.GradeDate = &tomorrow
		_, err = svc.AddGrade(ctx, in)
		assert.True(t, errors.Is(err, shared.ErrGradeDateFuture))

		today := dateutil.Today()
		in.GradeDate = &today
		_, err = svc.AddGrade(ctx, in)
		assert.NoError(t, err)
	})

	t.Run("referenced student must exist", func(t *testing.T) {
		svc, _, in := gradeFixture(t)
		in.StudentID = intPtr(999)

		_, err := svc.AddGrade(ctx, in)
		assert.True(t, errors.Is(err, shared.ErrGradeOwnerMissing))
		assert.True(t, shared.IsValidation(err))
	})
}

func TestAddGrade(t *testing.T) {
	svc, grades, in := gradeFixture(t)

	created, err := svc.AddGrade(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, 1, created.ID)

	stored, err := grades.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Math", stored.Subject)
	assert.Equal(t, 87, stored.Score)
}

func TestUpdateGrade(t *testing.T) {
	ctx := context.Background()

	t.Run("requires an ID", func(t *testing.T) {
		svc, _, in := gradeFixture(t)

		ok, err := svc.UpdateGrade(ctx, in)
		assert.False(t, ok)
		assert.True(t, errors.Is(err, shared.ErrGradeIDAbsent))
	})

	t.Run("returns false for a missing grade", func(t *testing.T) {
		svc, _, in := gradeFixture(t)
		in.ID = intPtr(42)

		ok, err := svc.UpdateGrade(ctx, in)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("missing referenced student is an error, not false", func(t *testing.T) {
		svc, _, in := gradeFixture(t)
		created, err := svc.AddGrade(ctx, in)
		require.NoError(t, err)

		in.ID = &created.ID
		in.StudentID = intPtr(999)

		ok, err := svc.UpdateGrade(ctx, in)
		assert.False(t, ok)
		assert.True(t, errors.Is(err, shared.ErrGradeOwnerMissing))
	})

	t.Run("rewrites an existing grade", func(t *testing.T) {
		svc, grades, in := gradeFixture(t)
		created, err := svc.AddGrade(ctx, in)
		require.NoError(t, err)

		in.ID = &created.ID
		in.Subject = "Physics"
		in.Score = intPtr(91)

		ok, err := svc.UpdateGrade(ctx, in)
		require.NoError(t, err)
		assert.True(t, ok)

		stored, err := grades.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Physics", stored.Subject)
		assert.Equal(t, 91, stored.Score)
	})
}

func TestGetGradesByStudentID(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown student", func(t *testing.T) {
		svc, _, _ := gradeFixture(t)

		_, err := svc.GetGradesByStudentID(ctx, 999)
		assert.True(t, shared.IsNotFound(err))
	})

	t.Run("existing student with no grades gets an empty list", func(t *testing.T) {
		svc, _, in := gradeFixture(t)

		grades, err := svc.GetGradesByStudentID(ctx, *in.StudentID)
		require.NoError(t, err)
		assert.Empty(t, grades)
	})

	t.Run("returns only that student's grades", func(t *testing.T) {
		svc, _, in := gradeFixture(t)
		_, err := svc.AddGrade(ctx, in)
		require.NoError(t, err)

		grades, err := svc.GetGradesByStudentID(ctx, *in.StudentID)
		require.NoError(t, err)
		assert.Len(t, grades, 1)
	})
}

func TestDeleteStudentRemovesGrades(t *testing.T) {
	ctx := context.Background()

	students := newFakeStudentRepo()
	grades := newFakeGradeRepo()
	students.grades = grades

	studentSvc := NewStudentService(students, testLogger())
	gradeSvc := NewGradeService(grades, students, testLogger())

	stored, err := studentSvc.AddStudent(ctx, StudentInput{
		FirstName: "Jane", LastName: "Doe", GroupName: "G1",
	})
	require.NoError(t, err)

	today := dateutil.Today()
	created, err := gradeSvc.AddGrade(ctx, GradeInput{
		StudentID: &stored.ID,
		Subject:   "Math",
		Score:     intPtr(87),
		GradeDate: &today,
	})
	require.NoError(t, err)

	ok, err := studentSvc.DeleteStudent(ctx, stored.ID)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = gradeSvc.GetGradeByID(ctx, created.ID)
	assert.True(t, shared.IsNotFound(err))

	all, err := gradeSvc.GetAllGrades(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestDeleteGrade(t *testing.T) {
	ctx := context.Background()
	svc, _, in := gradeFixture(t)

	created, err := svc.AddGrade(ctx, in)
	require.NoError(t, err)

	ok, err := svc.DeleteGrade(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.DeleteGrade(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
