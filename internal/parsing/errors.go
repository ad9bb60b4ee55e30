package parsing

import (
	"errors"
	"fmt"

	"github.com/jonathan/resume-builder/internal/llm"
)

// APICallError wraps a failed model call.
type APICallError struct {
	Message string
	Cause   error
}

func (e *APICallError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("API call failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("API call failed: %s", e.Message)
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}

// Blocked reports whether the model refused the resume text.
func (e *APICallError) Blocked() bool {
	return errors.Is(e.Cause, llm.ErrBlocked)
}

// ParseError is returned when the model answers without a usable resume object.
// Response holds the start of the model output for logs; it is never sent to clients.
type ParseError struct {
	Message  string
	Response string
	Cause    error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
