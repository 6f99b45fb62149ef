package platformerrors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorTypeToHTTPStatus(t *testing.T) {
	tests := []struct {
		name      string
		errorType ErrorType
		want      int
	}{
		{name: "validation", errorType: ErrorTypeValidation, want: http.StatusBadRequest},
		{name: "not found", errorType: ErrorTypeNotFound, want: http.StatusNotFound},
		{name: "partial failure", errorType: ErrorTypePartialFailure, want: http.StatusMultiStatus},
		{name: "storage", errorType: ErrorTypeStorage, want: http.StatusInternalServerError},
		{name: "internal", errorType: ErrorTypeInternal, want: http.StatusInternalServerError},
		{name: "unknown", errorType: ErrorType("WHATEVER"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorTypeToHTTPStatus(tt.errorType); got != tt.want {
				t.Errorf("ErrorTypeToHTTPStatus(%v) = %d, want %d", tt.errorType, got, tt.want)
			}
		})
	}
}

func TestIsErrorType(t *testing.T) {
	validation := NewError(context.Background(), LayerDomain, ErrorTypeValidation, "missing field", nil)

	tests := []struct {
		name      string
		err       error
		errorType ErrorType
		want      bool
	}{
		{name: "matching type", err: validation, errorType: ErrorTypeValidation, want: true},
		{name: "different type", err: validation, errorType: ErrorTypeStorage, want: false},
		{name: "wrapped platform error", err: fmt.Errorf("outer: %w", validation), errorType: ErrorTypeValidation, want: true},
		{name: "plain error", err: errors.New("boom"), errorType: ErrorTypeValidation, want: false},
		{name: "nil error", err: nil, errorType: ErrorTypeValidation, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsErrorType(tt.err, tt.errorType); got != tt.want {
				t.Errorf("IsErrorType() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewError(t *testing.T) {
	cause := errors.New("disk full")
	err := NewErrorWithContext(context.Background(), LayerStore, ErrorTypeStorage, "write failed", cause,
		map[string]any{"key": "rec-1"})

	if err.UUID == "" {
		t.Error("UUID is empty")
	}
	if !errors.Is(err, cause) {
		t.Error("wrapped cause not reachable via errors.Is")
	}
	if err.Context["key"] != "rec-1" {
		t.Errorf("Context = %v, want key field", err.Context)
	}
	if msg := err.Error(); msg != "[store][STORAGE] write failed: disk full" {
		t.Errorf("Error() = %q", msg)
	}
}

func TestAsError(t *testing.T) {
	t.Run("nil passes through", func(t *testing.T) {
		if got := AsError(context.Background(), LayerHandler, nil, "ignored"); got != nil {
			t.Errorf("AsError(nil) = %v, want nil", got)
		}
	})

	t.Run("typed error keeps its type", func(t *testing.T) {
		inner := NewError(context.Background(), LayerDomain, ErrorTypeValidation, "bad input", nil)
		got := AsError(context.Background(), LayerHandler, inner, "request rejected")
		if got.Type != ErrorTypeValidation {
			t.Errorf("Type = %v, want validation preserved", got.Type)
		}
	})

	t.Run("plain error becomes internal", func(t *testing.T) {
		got := AsError(context.Background(), LayerHandler, errors.New("boom"), "unexpected")
		if got.Type != ErrorTypeInternal {
			t.Errorf("Type = %v, want internal", got.Type)
		}
	})
}
