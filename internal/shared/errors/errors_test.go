package errors

import (
	"errors"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "validation error without cause",
			err:  NewValidationError("quiet hours bounds must be set together", nil),
			want: "VALIDATION_ERROR: quiet hours bounds must be set together",
		},
		{
			name: "internal error with cause",
			err:  NewInternalError("failed to persist preferences", errors.New("write timeout")),
			want: "INTERNAL_ERROR: failed to persist preferences - write timeout",
		},
		{
			name: "not found error",
			err:  NewNotFoundError("schedule not found", nil),
			want: "NOT_FOUND: schedule not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewInternalError("mongodb unavailable", cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is() should match the wrapped cause")
	}
}

func TestErrorCodes(t *testing.T) {
	if NewValidationError("x", nil).Code != "VALIDATION_ERROR" {
		t.Error("validation error code mismatch")
	}
	if NewInternalError("x", nil).Code != "INTERNAL_ERROR" {
		t.Error("internal error code mismatch")
	}
	if NewNotFoundError("x", nil).Code != "NOT_FOUND" {
		t.Error("not found error code mismatch")
	}
}
