package grade

import "context"

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACE
// The contract for grade storage. Implementations live in
// infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// Repository defines the storage operations for grades.
type Repository interface {
	// Save persists a new grade and returns it with the store-assigned ID.
	Save(ctx context.Context, g *Grade) (*Grade, error)

	// FindAll returns every grade in store order.
	FindAll(ctx context.Context) ([]*Grade, error)

	// FindByStudentID returns the grades of one student, possibly empty.
	// It does not check that the student exists.
	FindByStudentID(ctx context.Context, studentID int) ([]*Grade, error)

	// FindByID returns the grade with the given ID.
	// Returns shared.ErrGradeNotFound if no such grade exists.
	FindByID(ctx context.Context, id int) (*Grade, error)

	// Update rewrites all mutable fields of the grade identified by its ID.
	// Returns the number of affected rows; zero means the ID does not exist.
	Update(ctx context.Context, g *Grade) (int64, error)

	// DeleteByID removes the grade. Returns the number of affected rows.
	DeleteByID(ctx context.Context, id int) (int64, error)
}
