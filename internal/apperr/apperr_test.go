package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapNilIsNil(t *testing.T) {
	assert.Nil(t, Wrap(Upstream, "query", nil))
}

func TestKindOf(t *testing.T) {
	err := New(NotFound, "rotation not found")
	assert.Equal(t, NotFound, KindOf(err))

	wrapped := fmt.Errorf("handler: %w", err)
	assert.Equal(t, NotFound, KindOf(wrapped))
	assert.True(t, Is(wrapped, NotFound))
	assert.False(t, Is(wrapped, Conflict))

	// Errors outside the taxonomy count as upstream failures.
	assert.Equal(t, Upstream, KindOf(errors.New("plain")))
}

func TestUnwrapKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(Upstream, "roster query", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "roster query")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestInvalidCarriesFieldErrors(t *testing.T) {
	err := Invalid([]FieldError{
		{Path: "name", Message: "Project name is required."},
		{Path: "assignees[0]", Message: "Assignee entry is too long."},
	})

	var e *Error
	assert.True(t, errors.As(err, &e))
	assert.Equal(t, Validation, e.Kind)
	assert.Len(t, e.Fields, 2)
	assert.Equal(t, "assignees[0]", e.Fields[1].Path)
}
