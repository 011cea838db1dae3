package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "without cause",
			err:  NewValidationError("quantity must be positive"),
			want: "[VALIDATION] quantity must be positive",
		},
		{
			name: "with cause",
			err:  NewParsingError("failed to parse CSV", errors.New("unexpected EOF")),
			want: "[PARSING] failed to parse CSV: unexpected EOF",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := NewStorageError("failed to write report", cause)

	assert.True(t, errors.Is(err, cause))
}

func TestAppError_WithContext(t *testing.T) {
	err := NewValidationError("bad row").
		WithContext("row", 7).
		WithContext("reason", "invalid_quantity")

	assert.Equal(t, 7, err.Context["row"])
	assert.Equal(t, "invalid_quantity", err.Context["reason"])
}

func TestNewEmptyDatasetError(t *testing.T) {
	err := NewEmptyDatasetError(12)

	assert.True(t, errors.Is(err, ErrEmptyDataset))
	assert.Equal(t, ErrTypeEmptyDataset, err.Type)
	assert.Equal(t, 12, err.Context["input_rows"])
}

func TestNewSchemaMismatchError(t *testing.T) {
	err := NewSchemaMismatchError([]string{"Sale_Date", "Region"})

	require.True(t, errors.Is(err, ErrSchemaMismatch))
	assert.Equal(t, ErrTypeSchema, err.Type)
	assert.Contains(t, err.Error(), "Sale_Date")
	assert.Contains(t, err.Error(), "Region")
}

func TestAppError_WrappedThroughFmt(t *testing.T) {
	err := fmt.Errorf("run failed: %w", NewEmptyDatasetError(0))

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.True(t, errors.Is(err, ErrEmptyDataset))
}
