package server

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/types"
)

// handleRenderPreview renders an unsaved layout against an inline resume.
func (s *Server) handleRenderPreview(w http.ResponseWriter, r *http.Request) {
	var req types.RenderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}
	tmpl, err := decodeLayout(req.Layout)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	req.Resume.Normalize()

	start := time.Now()
	doc, err := rendering.Render(tmpl, req.Resume)
	s.metrics.ObserveRender(start, err)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.htmlResponse(w, doc)
}

// handleRenderResume renders a stored resume with a stored template
func (s *Server) handleRenderResume(w http.ResponseWriter, r *http.Request) {
	doc, _, err := s.renderStored(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.htmlResponse(w, doc)
}

// handleExportResume renders a stored resume and prints it to PDF
func (s *Server) handleExportResume(w http.ResponseWriter, r *http.Request) {
	if s.exporter == nil {
		s.writeError(w, r, &ErrUnavailable{Service: "PDF exporter"})
		return
	}
	doc, title, err := s.renderStored(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	start := time.Now()
	pdf, err := s.exporter.Export(r.Context(), doc.HTML())
	s.metrics.ObserveExport(start, err)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	log.Printf("[export] %q exported (%d bytes) in %v", title, len(pdf), time.Since(start))

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.pdf"`, fileSlug(title)))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		log.Printf("[export] failed to write response: %v", err)
	}
}

// renderStored loads the {id} resume and the ?template_id= template and
// renders them. It also returns the resume title.
func (s *Server) renderStored(r *http.Request) (*rendering.Document, string, error) {
	resume, err := s.ownedResume(r)
	if err != nil {
		return nil, "", err
	}
	templateID, err := uuid.Parse(r.URL.Query().Get("template_id"))
	if err != nil {
		return nil, "", invalid("template_id", "must be a UUID")
	}
	tmpl, err := s.visibleTemplate(r, templateID)
	if err != nil {
		return nil, "", err
	}

	start := time.Now()
	doc, err := renderRecord(tmpl, resume.Resume)
	s.metrics.ObserveRender(start, err)
	if err != nil {
		return nil, "", err
	}
	doc.PageSize = s.pageSize
	return doc, resume.Title, nil
}

// renderRecord renders a stored template. Records saved without flattened
// markup, such as seeded layouts, are flattened from their layout tree.
func renderRecord(rec *db.TemplateRecord, resume *types.Resume) (*rendering.Document, error) {
	if rec.Markup != "" {
		return rendering.RenderMarkup(rec.Markup, rec.CSS, resume)
	}
	if len(rec.Layout) == 0 {
		return nil, &rendering.RenderError{Message: fmt.Sprintf("template %s has no markup or layout", rec.ID)}
	}
	tmpl, err := rec.Template()
	if err != nil {
		return nil, &rendering.RenderError{Message: "stored layout is unreadable", Cause: err}
	}
	return rendering.Render(tmpl, resume)
}

func (s *Server) htmlResponse(w http.ResponseWriter, doc *rendering.Document) {
	if doc.PageSize == "" {
		doc.PageSize = s.pageSize
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(doc.HTML())); err != nil {
		log.Printf("[render] failed to write response: %v", err)
	}
}

// fileSlug turns a resume title into a safe attachment file name.
func fileSlug(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		return "resume"
	}
	return slug
}
