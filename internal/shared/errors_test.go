package shared

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapStorage(t *testing.T) {
	assert.NoError(t, WrapStorage("read", nil))

	err := WrapStorage("open", os.ErrPermission)
	var se *StorageError
	assert.True(t, errors.As(err, &se))
	assert.Equal(t, "open", se.Op)
	assert.ErrorIs(t, err, os.ErrPermission)

	// Domain errors are not re-wrapped
	assert.Equal(t, ErrNotFound, WrapStorage("get", ErrNotFound))
	again := WrapStorage("outer", err)
	assert.Same(t, err, again)
}

func TestSchemaDriftError(t *testing.T) {
	err := fmt.Errorf("load: %w", &SchemaDriftError{Line: 3, Width: 9, Want: 16})
	assert.ErrorIs(t, err, ErrSchemaDrift)
	assert.Contains(t, err.Error(), "line 3 has 9 fields, want 16")
}
