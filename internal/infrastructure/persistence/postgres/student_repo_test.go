package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/grade-hub/student-grade-hub/internal/domain/student"
)

func TestBuildOrderBy(t *testing.T) {
	tests := []struct {
		name   string
		filter student.Filter
		want   string
	}{
		{
			name:   "no sort requested",
			filter: student.Filter{},
			want:   "",
		},
		{
			name:   "first name ascending",
			filter: student.Filter{SortBy: "firstName", SortOrder: "asc"},
			want:   " ORDER BY first_name ASC",
		},
		{
			name:   "last name descending",
			filter: student.Filter{SortBy: "lastName", SortOrder: "desc"},
			want:   " ORDER BY last_name DESC",
		},
		{
			name:   "direction is case-insensitive",
			filter: student.Filter{SortBy: "lastName", SortOrder: "DESC"},
			want:   " ORDER BY last_name DESC",
		},
		{
			name:   "field name is case-insensitive",
			filter: student.Filter{SortBy: "FIRSTNAME", SortOrder: "asc"},
			want:   " ORDER BY first_name ASC",
		},
		{
			name:   "mixed-case field name",
			filter: student.Filter{SortBy: "LastName", SortOrder: "desc"},
			want:   " ORDER BY last_name DESC",
		},
		{
			name:   "unknown field falls back to id",
			filter: student.Filter{SortBy: "groupName", SortOrder: "asc"},
			want:   " ORDER BY id ASC",
		},
		{
			name:   "injection attempt falls back to id",
			filter: student.Filter{SortBy: "id; DROP TABLE students", SortOrder: "asc"},
			want:   " ORDER BY id ASC",
		},
		{
			name:   "unknown direction defaults to ascending",
			filter: student.Filter{SortBy: "firstName", SortOrder: "sideways"},
			want:   " ORDER BY first_name ASC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildOrderBy(tt.filter))
		})
	}
}
