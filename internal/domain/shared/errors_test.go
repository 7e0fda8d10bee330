package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainErrorMatching(t *testing.T) {
	err := NewDomainError("grade", "Validate", ErrValueOutOfRange, "score must be between 0 and 100")

	assert.True(t, errors.Is(err, ErrValueOutOfRange))
	assert.True(t, IsValidation(err))
	assert.False(t, IsNotFound(err))
	assert.Equal(t, "grade.Validate: score must be between 0 and 100", err.Error())
}

func TestWrappedErrorsSurvive(t *testing.T) {
	cause := errors.New("connection refused")
	err := WrapError("student", "Find", ErrStorage, "query failed", cause)

	assert.True(t, errors.Is(err, ErrStorage))
	assert.True(t, errors.Is(err, cause))
	assert.True(t, IsStorage(err))

	wrapped := fmt.Errorf("outer: %w", err)
	assert.True(t, errors.Is(wrapped, ErrStorage))
}

func TestSentinelKinds(t *testing.T) {
	assert.True(t, IsNotFound(ErrStudentNotFound))
	assert.True(t, IsNotFound(ErrGradeNotFound))
	assert.True(t, IsValidation(ErrGradeDateFuture))
	assert.True(t, IsValidation(ErrGradeOwnerMissing))
	assert.False(t, IsValidation(ErrStudentNotFound))
}
