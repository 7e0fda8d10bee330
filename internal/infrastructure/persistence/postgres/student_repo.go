package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/grade-hub/student-grade-hub/internal/domain/shared"
	"github.com/grade-hub/student-grade-hub/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// StudentRepository implements student.Repository for PostgreSQL.
type StudentRepository struct {
	conn *Connection
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(conn *Connection) *StudentRepository {
	return &StudentRepository{conn: conn}
}

// Save inserts a new student and fills in the generated ID.
func (r *StudentRepository) Save(ctx context.Context, s *student.Student) (*student.Student, error) {
	query := `
		INSERT INTO students (first_name, last_name, group_name)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := r.conn.QueryRow(ctx, query, s.FirstName, s.LastName, s.GroupName).Scan(&s.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to save student: %w", err)
	}

	return s, nil
}

// FindAll returns students matching the filter.
// Filters are independent substring matches combined with AND; ORDER BY is
// added only when a sort field is requested.
func (r *StudentRepository) FindAll(ctx context.Context, filter student.Filter) ([]*student.Student, error) {
	query := `
		SELECT id, first_name, last_name, group_name
		FROM students
		WHERE 1=1
	`
	args := make([]any, 0, 2)

	if filter.FirstName != "" {
		args = append(args, "%"+filter.FirstName+"%")
		query += fmt.Sprintf(" AND first_name LIKE $%d", len(args))
	}
	if filter.LastName != "" {
		args = append(args, "%"+filter.LastName+"%")
		query += fmt.Sprintf(" AND last_name LIKE $%d", len(args))
	}

	query += buildOrderBy(filter)

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query students: %w", err)
	}
	defer rows.Close()

	return scanStudents(rows)
}

// buildOrderBy builds the ORDER BY clause from the filter.
// The sort column comes from a fixed allow-list, matched case-insensitively;
// unknown fields fall back to id, and any direction other than desc is ASC.
func buildOrderBy(filter student.Filter) string {
	if filter.SortBy == "" {
		return ""
	}

	validFields := map[string]string{
		student.SortByFirstName: "first_name",
		student.SortByLastName:  "last_name",
	}

	orderField := "id"
	for field, column := range validFields {
		if strings.EqualFold(filter.SortBy, field) {
			orderField = column
			break
		}
	}

	direction := "ASC"
	if strings.EqualFold(filter.SortOrder, "desc") {
		direction = "DESC"
	}

	return fmt.Sprintf(" ORDER BY %s %s", orderField, direction)
}

// FindByID returns the student with the given ID.
func (r *StudentRepository) FindByID(ctx context.Context, id int) (*student.Student, error) {
	query := `
		SELECT id, first_name, last_name, group_name
		FROM students
		WHERE id = $1
	`

	s := &student.Student{}
	err := r.conn.QueryRow(ctx, query, id).Scan(&s.ID, &s.FirstName, &s.LastName, &s.GroupName)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to find student %d: %w", id, err)
	}

	return s, nil
}

// Update rewrites the student's fields by ID and reports the affected rows.
func (r *StudentRepository) Update(ctx context.Context, s *student.Student) (int64, error) {
	query := `
		UPDATE students SET
			first_name = $1,
			last_name = $2,
			group_name = $3
		WHERE id = $4
	`

	result, err := r.conn.Exec(ctx, query, s.FirstName, s.LastName, s.GroupName, s.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to update student %d: %w", s.ID, err)
	}

	return result.RowsAffected(), nil
}

// DeleteByID removes a student; the FK cascade removes its grades.
func (r *StudentRepository) DeleteByID(ctx context.Context, id int) (int64, error) {
	query := `DELETE FROM students WHERE id = $1`

	result, err := r.conn.Exec(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete student %d: %w", id, err)
	}

	return result.RowsAffected(), nil
}

// scanStudents scans all rows into student entities.
func scanStudents(rows pgx.Rows) ([]*student.Student, error) {
	students := make([]*student.Student, 0)

	for rows.Next() {
		s := &student.Student{}
		if err := rows.Scan(&s.ID, &s.FirstName, &s.LastName, &s.GroupName); err != nil {
			return nil, fmt.Errorf("failed to scan student row: %w", err)
		}
		students = append(students, s)
	}

	return students, rows.Err()
}
