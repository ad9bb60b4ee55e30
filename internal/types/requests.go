//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
)

// CreateResumeRequest is the body for creating or saving a resume.
type CreateResumeRequest struct {
	Title  string  `json:"title" validate:"required,min=1,max=200"`
	Resume *Resume `json:"resume" validate:"required"`
}

// resumeContentRules are struct-level checks applied to the resume payload itself.
type resumeContentRules struct {
	Email    string `validate:"omitempty,email"`
	Website  string `validate:"omitempty,url"`
	PhotoURL string `validate:"omitempty,url"`
}

// UpdateFieldRequest is a single draft field update. Collection and EntryID are
// set together to address a repeatable entry.
type UpdateFieldRequest struct {
	Collection string `json:"collection,omitempty" validate:"omitempty,oneof=experience education skills certifications projects languages references"`
	EntryID    string `json:"entry_id,omitempty" validate:"required_with=Collection"`
	Field      string `json:"field" validate:"required"`
	Value      string `json:"value"`
}

// TemplateRequest is the body for creating or updating a template.
type TemplateRequest struct {
	Name     string          `json:"name" validate:"required,min=1,max=120"`
	IsPublic bool            `json:"is_public"`
	Layout   json.RawMessage `json:"layout" validate:"required"`
}

// RenderRequest renders an unsaved layout against an inline resume.
type RenderRequest struct {
	Layout json.RawMessage `json:"layout" validate:"required"`
	Resume *Resume         `json:"resume" validate:"required"`
}

// Validate validates the CreateResumeRequest using the validator.
func (r *CreateResumeRequest) Validate() error {
	validate := validator.New()
	if err := validate.Struct(r); err != nil {
		return err
	}
	return validate.Struct(resumeContentRules{
		Email:    r.Resume.Email,
		Website:  r.Resume.Website,
		PhotoURL: r.Resume.PhotoURL,
	})
}

// Validate validates the UpdateFieldRequest using the validator.
func (r *UpdateFieldRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the TemplateRequest using the validator.
func (r *TemplateRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the RenderRequest using the validator.
func (r *RenderRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
