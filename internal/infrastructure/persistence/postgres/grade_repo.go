package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/grade-hub/student-grade-hub/internal/domain/grade"
	"github.com/grade-hub/student-grade-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GRADE REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// GradeRepository implements grade.Repository for PostgreSQL.
type GradeRepository struct {
	conn *Connection
}

// NewGradeRepository creates a new GradeRepository.
func NewGradeRepository(conn *Connection) *GradeRepository {
	return &GradeRepository{conn: conn}
}

// Save inserts a new grade and fills in the generated ID.
// A student deleted between the service's existence check and this insert
// surfaces as an FK violation; report it as the same missing-student error.
func (r *GradeRepository) Save(ctx context.Context, g *grade.Grade) (*grade.Grade, error) {
	query := `
		INSERT INTO grades (student_id, subject, score, grade_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.conn.QueryRow(ctx, query, g.StudentID, g.Subject, g.Score, g.GradeDate.Time()).Scan(&g.ID)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return nil, shared.ErrGradeOwnerMissing
		}
		return nil, fmt.Errorf("failed to save grade: %w", err)
	}

	return g, nil
}

// FindAll returns every grade in store order.
func (r *GradeRepository) FindAll(ctx context.Context) ([]*grade.Grade, error) {
	query := `
		SELECT id, student_id, subject, score, grade_date
		FROM grades
	`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query grades: %w", err)
	}
	defer rows.Close()

	return scanGrades(rows)
}

// FindByStudentID returns the grades of one student, possibly empty.
func (r *GradeRepository) FindByStudentID(ctx context.Context, studentID int) ([]*grade.Grade, error) {
	query := `
		SELECT id, student_id, subject, score, grade_date
		FROM grades
		WHERE student_id = $1
	`

	rows, err := r.conn.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query grades for student %d: %w", studentID, err)
	}
	defer rows.Close()

	return scanGrades(rows)
}

// FindByID returns the grade with the given ID.
func (r *GradeRepository) FindByID(ctx context.Context, id int) (*grade.Grade, error) {
	query := `
		SELECT id, student_id, subject, score, grade_date
		FROM grades
		WHERE id = $1
	`

	g := &grade.Grade{}
	err := r.conn.QueryRow(ctx, query, id).Scan(&g.ID, &g.StudentID, &g.Subject, &g.Score, &g.GradeDate)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrGradeNotFound
		}
		return nil, fmt.Errorf("failed to find grade %d: %w", id, err)
	}

	return g, nil
}

// Update rewrites the grade's fields by ID and reports the affected rows.
func (r *GradeRepository) Update(ctx context.Context, g *grade.Grade) (int64, error) {
	query := `
		UPDATE grades SET
			student_id = $1,
			subject = $2,
			score = $3,
			grade_date = $4
		WHERE id = $5
	`

	result, err := r.conn.Exec(ctx, query, g.StudentID, g.Subject, g.Score, g.GradeDate.Time(), g.ID)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return 0, shared.ErrGradeOwnerMissing
		}
		return 0, fmt.Errorf("failed to update grade %d: %w", g.ID, err)
	}

	return result.RowsAffected(), nil
}

// DeleteByID removes a grade and reports the affected rows.
func (r *GradeRepository) DeleteByID(ctx context.Context, id int) (int64, error) {
	query := `DELETE FROM grades WHERE id = $1`

	result, err := r.conn.Exec(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete grade %d: %w", id, err)
	}

	return result.RowsAffected(), nil
}

// scanGrades scans all rows into grade entities.
func scanGrades(rows pgx.Rows) ([]*grade.Grade, error) {
	grades := make([]*grade.Grade, 0)

	for rows.Next() {
		g := &grade.Grade{}
		if err := rows.Scan(&g.ID, &g.StudentID, &g.Subject, &g.Score, &g.GradeDate); err != nil {
			return nil, fmt.Errorf("failed to scan grade row: %w", err)
		}
		grades = append(grades, g)
	}

	return grades, rows.Err()
}
