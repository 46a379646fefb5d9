package domain

import "fmt"

// XraySyncError is the base error type with context.
type XraySyncError struct {
	Phase      string // "config", "scan", "read", "auth", "write", "upload", "report"
	File       string
	Row        int
	Message    string
	Suggestion string
	Cause      error
}

func (e *XraySyncError) Error() string {
	s := fmt.Sprintf("[%s]", e.Phase)
	if e.File != "" {
		s += fmt.Sprintf(" %s", e.File)
	}
	if e.Row > 0 {
		s += fmt.Sprintf(":%d", e.Row)
	}
	s += fmt.Sprintf(": %s", e.Message)
	if e.Cause != nil {
		s += fmt.Sprintf(": %v", e.Cause)
	}
	if e.Suggestion != "" {
		s += fmt.Sprintf(" (hint: %s)", e.Suggestion)
	}
	return s
}

func (e *XraySyncError) Unwrap() error {
	return e.Cause
}

// NewError creates a new XraySyncError.
func NewError(phase, file string, row int, message string, cause error) *XraySyncError {
	return &XraySyncError{
		Phase:   phase,
		File:    file,
		Row:     row,
		Message: message,
		Cause:   cause,
	}
}

// NewErrorWithSuggestion creates a new XraySyncError carrying a hint for the user.
func NewErrorWithSuggestion(phase, file string, row int, message, suggestion string, cause error) *XraySyncError {
	e := NewError(phase, file, row, message, cause)
	e.Suggestion = suggestion
	return e
}
