package db

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/layout"
	"github.com/jonathan/resume-builder/internal/types"
)

// ResumeRecord is a stored resume.
type ResumeRecord struct {
	ID        uuid.UUID     `json:"id"`
	UserID    uuid.UUID     `json:"user_id"`
	Title     string        `json:"title"`
	Resume    *types.Resume `json:"resume"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// TemplateRecord is a stored template: the flattened markup and stylesheet
// used for rendering, plus the layout tree so the template stays editable.
type TemplateRecord struct {
	ID        uuid.UUID       `json:"id"`
	UserID    *uuid.UUID      `json:"user_id,omitempty"` // nil for built-in templates
	Name      string          `json:"name"`
	Markup    string          `json:"markup"`
	CSS       string          `json:"css"`
	Layout    json.RawMessage `json:"layout"`
	IsPublic  bool            `json:"is_public"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// OwnedBy reports whether userID owns the template.
func (t *TemplateRecord) OwnedBy(userID uuid.UUID) bool {
	return t.UserID != nil && *t.UserID == userID
}

// VisibleTo reports whether userID may read the template.
func (t *TemplateRecord) VisibleTo(userID uuid.UUID) bool {
	return t.IsPublic || t.OwnedBy(userID)
}

// Template decodes the stored layout tree.
func (t *TemplateRecord) Template() (*layout.Template, error) {
	tmpl, err := layout.Decode(t.Layout)
	if err != nil {
		return nil, fmt.Errorf("failed to decode layout for template %s: %w", t.ID, err)
	}
	if tmpl.ID == "" {
		tmpl.ID = t.ID.String()
	}
	return tmpl, nil
}

// decodeResumeData turns a JSONB column into a normalized Resume.
func decodeResumeData(data []byte) (*types.Resume, error) {
	resume := types.NewResume()
	if len(data) == 0 {
		return resume, nil
	}
	if err := json.Unmarshal(data, resume); err != nil {
		return nil, fmt.Errorf("failed to unmarshal resume data: %w", err)
	}
	resume.Normalize()
	return resume, nil
}

func encodeResumeData(resume *types.Resume) ([]byte, error) {
	if resume == nil {
		resume = types.NewResume()
	}
	resume.Normalize()
	data, err := json.Marshal(resume)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resume data: %w", err)
	}
	return data, nil
}
