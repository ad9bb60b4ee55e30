// Package rendering turns a layout template and a resume into a standalone HTML document.
package rendering

import (
	"fmt"

	"github.com/jonathan/resume-builder/internal/layout"
)

// TemplateError represents a template that cannot be flattened
type TemplateError struct {
	Message string
	Cause   error
}

func (e *TemplateError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("template error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("template error: %s", e.Message)
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}

// RenderError represents a general rendering failure
type RenderError struct {
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("render error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("render error: %s", e.Message)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// MissingPlacementError is returned when a section's placement does not resolve
// to the container it is stored in.
type MissingPlacementError struct {
	SectionID string
	Location  layout.Location
	Cause     error
}

func (e *MissingPlacementError) Error() string {
	return fmt.Sprintf("missing placement: section %s at %s", e.SectionID, e.Location)
}

func (e *MissingPlacementError) Unwrap() error {
	return e.Cause
}
