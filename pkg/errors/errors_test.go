package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidInput, "unknown engine: %s", "dot")

	if err.Code != ErrCodeInvalidInput {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidInput)
	}
	if err.Message != "unknown engine: dot" {
		t.Errorf("Message = %v, want %v", err.Message, "unknown engine: dot")
	}

	expected := "INVALID_INPUT: unknown engine: dot"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	err := Wrap(ErrCodeFileNotFound, fs.ErrNotExist, "stat %s", "/site/requests")

	if err.Code != ErrCodeFileNotFound {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeFileNotFound)
	}
	if errors.Unwrap(err) != fs.ErrNotExist {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), fs.ErrNotExist)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("errors.Is(err, fs.ErrNotExist) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodePackageNotFound, "test"),
			code:     ErrCodePackageNotFound,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodePackageNotFound, "test"),
			code:     ErrCodeFileNotFound,
			expected: false,
		},
		{
			name:     "outer code wins",
			err:      Wrap(ErrCodeMetadata, New(ErrCodeFileNotFound, "inner"), "outer"),
			code:     ErrCodeMetadata,
			expected: true,
		},
		{
			name:     "inner code matches",
			err:      Wrap(ErrCodeMetadata, New(ErrCodeFileNotFound, "inner"), "outer"),
			code:     ErrCodeFileNotFound,
			expected: true,
		},
		{
			name:     "inner code behind plain wrap",
			err:      Wrap(ErrCodeMetadata, fmt.Errorf("parse: %w", New(ErrCodeFileNotFound, "inner")), "outer"),
			code:     ErrCodeFileNotFound,
			expected: true,
		},
		{
			name:     "fmt wrapped",
			err:      fmt.Errorf("collect: %w", New(ErrCodeInterpreter, "python3 failed")),
			code:     ErrCodeInterpreter,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{"Error type", New(ErrCodeInternal, "test"), ErrCodeInternal},
		{"outermost code", fmt.Errorf("open: %w", Wrap(ErrCodeMetadata, New(ErrCodeFileNotFound, "METADATA"), "read six")), ErrCodeMetadata},
		{"plain error", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"Error type", New(ErrCodeInvalidInput, "friendly message"), "friendly message"},
		{"plain error", errors.New("plain error"), "plain error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}
