package errors

import (
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	assert.Equal(t, "NOT_FOUND: unknown form", NewNotFoundError("unknown form").Error())
	assert.Equal(t, "EXTERNAL: webhook failed: EOF", NewExternalError("webhook failed", io.EOF).Error())
}

func TestTypeOf(t *testing.T) {
	wrapped := fmt.Errorf("submit: %w", NewConflictError("submission in progress"))

	assert.Equal(t, ErrorTypeConflict, TypeOf(wrapped))
	assert.Equal(t, ErrorTypeInternal, TypeOf(io.EOF))
	assert.ErrorIs(t, NewExternalError("webhook failed", io.EOF), io.EOF)
}
