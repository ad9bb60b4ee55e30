// Package server provides the HTTP REST API for building, rendering and
// exporting resumes.
package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/ingestion"
	"github.com/jonathan/resume-builder/internal/layout"
	"github.com/jonathan/resume-builder/internal/parsing"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/jonathan/resume-builder/internal/types"
)

// FieldError is one rejected input field in a 400 response.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Fields []FieldError
}

func (e *ErrValidation) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" - "+f.Message)
	}
	return "validation error: " + strings.Join(parts, "; ")
}

func invalid(field, message string) *ErrValidation {
	return &ErrValidation{Fields: []FieldError{{Field: field, Message: message}}}
}

// ErrNotFound indicates a missing resume or template
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrForbidden indicates the resource exists but belongs to someone else
type ErrForbidden struct {
	Resource string
	ID       string
}

func (e *ErrForbidden) Error() string {
	return fmt.Sprintf("access to %s %s denied", e.Resource, e.ID)
}

// ErrUnavailable indicates an optional backend (parser, exporter) is not configured
type ErrUnavailable struct {
	Service string
}

func (e *ErrUnavailable) Error() string {
	return e.Service + " is not configured"
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validation   *ErrValidation
		schemaErr    *schemas.ValidationError
		fieldErr     *types.FieldError
		validatorErr validator.ValidationErrors
		notFound     *ErrNotFound
		forbidden    *ErrForbidden
		unavailable  *ErrUnavailable
		templateErr  *rendering.TemplateError
		placementErr *rendering.MissingPlacementError
		layoutErr    *layout.PlacementError
		apiErr       *parsing.APICallError
		parseErr     *parsing.ParseError
		exportErr    *export.ExportError
	)
	switch {
	case errors.As(err, &validation), errors.As(err, &schemaErr),
		errors.As(err, &fieldErr), errors.As(err, &validatorErr),
		errors.Is(err, ingestion.ErrEmptyDocument):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &forbidden):
		return http.StatusForbidden
	case errors.Is(err, ingestion.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ingestion.ErrUnsupportedType):
		return http.StatusUnsupportedMediaType
	case errors.As(err, &templateErr), errors.As(err, &placementErr), errors.As(err, &layoutErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &apiErr), errors.As(err, &parseErr), errors.As(err, &exportErr):
		return http.StatusBadGateway
	case errors.As(err, &unavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// validationFields flattens the validation error types of the lower packages
// into response fields. It returns nil for any other error.
func validationFields(err error) []FieldError {
	var (
		validation   *ErrValidation
		schemaErr    *schemas.ValidationError
		fieldErr     *types.FieldError
		validatorErr validator.ValidationErrors
	)
	switch {
	case errors.As(err, &validation):
		return validation.Fields
	case errors.As(err, &schemaErr):
		out := make([]FieldError, 0, len(schemaErr.Errors))
		for _, fe := range schemaErr.Errors {
			out = append(out, FieldError{Field: fe.Field, Message: fe.Message})
		}
		return out
	case errors.As(err, &fieldErr):
		return []FieldError{{Field: fieldErr.Field, Message: fieldErr.Message}}
	case errors.As(err, &validatorErr):
		out := make([]FieldError, 0, len(validatorErr))
		for _, fe := range validatorErr {
			out = append(out, FieldError{
				Field:   jsonFieldName(fe.Field()),
				Message: fmt.Sprintf("failed on the '%s' rule", fe.Tag()),
			})
		}
		return out
	}
	return nil
}

// jsonFieldName maps a Go field name to its JSON key (EntryID -> entry_id).
func jsonFieldName(name string) string {
	switch name {
	case "EntryID":
		return "entry_id"
	case "IsPublic":
		return "is_public"
	case "PhotoURL":
		return "photoUrl"
	}
	return strings.ToLower(name)
}

// publicMessage is the message clients see. Upstream and internal failures
// are logged in full but reported generically.
func publicMessage(status int, err error) string {
	switch {
	case status == http.StatusBadGateway:
		return "upstream service failed"
	case status == http.StatusServiceUnavailable:
		return err.Error()
	case status >= http.StatusInternalServerError:
		return "internal server error"
	case status == http.StatusBadRequest && validationFields(err) != nil:
		return "validation failed"
	}
	return err.Error()
}
