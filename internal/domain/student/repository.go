package student

import "context"

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACE
// The contract for student storage. Implementations live in
// infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// Repository defines the storage operations for students.
type Repository interface {
	// Save persists a new student and returns it with the store-assigned ID.
	Save(ctx context.Context, s *Student) (*Student, error)

	// FindAll returns students matching the filter, in filter order.
	FindAll(ctx context.Context, filter Filter) ([]*Student, error)

	// FindByID returns the student with the given ID.
	// Returns shared.ErrStudentNotFound if no such student exists.
	FindByID(ctx context.Context, id int) (*Student, error)

	// Update rewrites all mutable fields of the student identified by its ID.
	// Returns the number of affected rows; zero means the ID does not exist.
	Update(ctx context.Context, s *Student) (int64, error)

	// DeleteByID removes the student and, via cascade, its grades.
	// Returns the number of affected rows.
	DeleteByID(ctx context.Context, id int) (int64, error)
}

// Sort field names accepted by Filter.SortBy. Anything else sorts by ID.
const (
	SortByFirstName = "firstName"
	SortByLastName  = "lastName"
)

// Filter narrows and orders a student listing.
// Empty filter fields are ignored; an empty SortBy leaves store order.
type Filter struct {
	// FirstName is a case-sensitive substring match on the first name.
	FirstName string

	// LastName is a case-sensitive substring match on the last name.
	LastName string

	// SortBy selects the sort column from a fixed allow-list;
	// unknown values fall back to ID.
	SortBy string

	// SortOrder is "asc" or "desc" (case-insensitive); anything else is ASC.
	SortOrder string
}

// IsEmpty reports whether the filter neither narrows nor orders the listing.
func (f Filter) IsEmpty() bool {
	return f.FirstName == "" && f.LastName == "" && f.SortBy == ""
}
