package server

import (
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/layout"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/jonathan/resume-builder/internal/types"
)

// TemplateListResponse is the body of GET /templates.
type TemplateListResponse struct {
	Templates []db.TemplateRecord `json:"templates"`
	Count     int                 `json:"count"`
}

// handleCreateTemplate validates, flattens and stores a layout tree
func (s *Server) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	userID, err := requestUser(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	rec, err := decodeTemplateRequest(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rec.UserID = &userID

	created, err := s.templates.CreateTemplate(r.Context(), rec)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	log.Printf("[template] created %s (%q) for user %s", created.ID, created.Name, userID)
	s.jsonResponse(w, http.StatusCreated, created)
}

// handleListTemplates lists the caller's templates and public ones
func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	userID, err := requestUser(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	list, err := s.templates.ListTemplates(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, TemplateListResponse{Templates: list, Count: len(list)})
}

// handleGetTemplate returns a template the caller can see
func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rec, err := s.visibleTemplate(r, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, rec)
}

// handleUpdateTemplate replaces a template owned by the caller
func (s *Server) handleUpdateTemplate(w http.ResponseWriter, r *http.Request) {
	existing, err := s.ownedTemplate(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rec, err := decodeTemplateRequest(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rec.ID = existing.ID
	rec.UserID = existing.UserID

	updated, err := s.templates.UpdateTemplate(r.Context(), rec)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if updated == nil {
		s.writeError(w, r, &ErrNotFound{Resource: "template", ID: existing.ID.String()})
		return
	}
	s.jsonResponse(w, http.StatusOK, updated)
}

// handleDeleteTemplate deletes a template owned by the caller
func (s *Server) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	existing, err := s.ownedTemplate(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	deleted, err := s.templates.DeleteTemplate(r.Context(), existing.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !deleted {
		s.writeError(w, r, &ErrNotFound{Resource: "template", ID: existing.ID.String()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// visibleTemplate loads a template the caller owns or that is public.
func (s *Server) visibleTemplate(r *http.Request, id uuid.UUID) (*db.TemplateRecord, error) {
	userID, err := requestUser(r)
	if err != nil {
		return nil, err
	}
	rec, err := s.templates.GetTemplate(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, &ErrNotFound{Resource: "template", ID: id.String()}
	}
	if !rec.VisibleTo(userID) {
		return nil, &ErrForbidden{Resource: "template", ID: id.String()}
	}
	return rec, nil
}

// ownedTemplate loads the {id} template for modification. Public templates
// owned by someone else are readable but not writable.
func (s *Server) ownedTemplate(r *http.Request) (*db.TemplateRecord, error) {
	userID, err := requestUser(r)
	if err != nil {
		return nil, err
	}
	id, err := pathID(r, "id")
	if err != nil {
		return nil, err
	}
	rec, err := s.templates.GetTemplate(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, &ErrNotFound{Resource: "template", ID: id.String()}
	}
	if !rec.OwnedBy(userID) {
		return nil, &ErrForbidden{Resource: "template", ID: id.String()}
	}
	return rec, nil
}

// decodeTemplateRequest turns a template body into a record ready to store:
// the layout is schema-checked, decoded, flattened and re-encoded.
func decodeTemplateRequest(w http.ResponseWriter, r *http.Request) (*db.TemplateRecord, error) {
	var req types.TemplateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	tmpl, err := decodeLayout(req.Layout)
	if err != nil {
		return nil, err
	}
	tmpl.Name = req.Name

	flat, err := rendering.Flatten(tmpl)
	if err != nil {
		return nil, err
	}
	canonical, err := layout.Encode(tmpl)
	if err != nil {
		return nil, err
	}
	return &db.TemplateRecord{
		Name:     req.Name,
		Markup:   flat.Markup,
		CSS:      flat.CSS,
		Layout:   canonical,
		IsPublic: req.IsPublic,
	}, nil
}

// decodeLayout schema-checks and decodes a layout tree.
func decodeLayout(raw []byte) (*layout.Template, error) {
	if err := schemas.ValidateTemplate(raw); err != nil {
		return nil, err
	}
	tmpl, err := layout.Decode(raw)
	if err != nil {
		return nil, invalid("layout", err.Error())
	}
	return tmpl, nil
}
