package client

import (
	"errors"
	"testing"
)

func TestAPIError_Error(t *testing.T) {
	tests := []struct {
		name     string
		apiError *APIError
		expected string
	}{
		{
			name: "error with wrapped error",
			apiError: &APIError{
				StatusCode: 0,
				ErrorClass: ErrorClassNetwork,
				Body:       "",
				Err:        errors.New("connection refused"),
			},
			expected: "mouser network error (status 0): : connection refused",
		},
		{
			name: "error without wrapped error",
			apiError: &APIError{
				StatusCode: 404,
				ErrorClass: ErrorClassPermanent,
				Body:       "not found",
				Err:        nil,
			},
			expected: "mouser permanent error (status 404): not found",
		},
		{
			name: "transient error",
			apiError: &APIError{
				StatusCode: 503,
				ErrorClass: ErrorClassTransient,
				Body:       "service unavailable",
				Err:        nil,
			},
			expected: "mouser transient error (status 503): service unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.apiError.Error()
			if result != tt.expected {
				t.Errorf("Error() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestAPIError_Unwrap(t *testing.T) {
	wrappedErr := errors.New("wrapped error")
	apiError := &APIError{
		StatusCode: 503,
		ErrorClass: ErrorClassTransient,
		Body:       "service unavailable",
		Err:        wrappedErr,
	}

	unwrapped := apiError.Unwrap()
	if unwrapped != wrappedErr {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, wrappedErr)
	}

	// Test errors.Is
	if !errors.Is(apiError, wrappedErr) {
		t.Error("errors.Is should work with wrapped error")
	}
}

func TestAPIError_UnwrapNil(t *testing.T) {
	apiError := &APIError{
		StatusCode: 404,
		ErrorClass: ErrorClassPermanent,
		Body:       "not found",
		Err:        nil,
	}

	unwrapped := apiError.Unwrap()
	if unwrapped != nil {
		t.Errorf("Unwrap() = %v, want nil", unwrapped)
	}
}

func TestValidationError_Error(t *testing.T) {
	ve := &ValidationError{Field: "api_key", Reason: "must be at least 20 characters (got 3)"}

	want := "invalid api_key: must be at least 20 characters (got 3)"
	if ve.Error() != want {
		t.Errorf("Error() = %q, want %q", ve.Error(), want)
	}
}
