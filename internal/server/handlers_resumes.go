package server

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/ingestion"
	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/jonathan/resume-builder/internal/types"
)

// maxJSONBody bounds request bodies other than uploads.
const maxJSONBody = 1 << 20

// ResumeListResponse is the body of GET /resumes.
type ResumeListResponse struct {
	Resumes []db.ResumeRecord `json:"resumes"`
	Count   int               `json:"count"`
}

// ParseResponse is the body of POST /resumes/parse. The resume is not saved.
type ParseResponse struct {
	Resume *types.Resume       `json:"resume"`
	Upload *ingestion.Metadata `json:"upload"`
}

// handleCreateResume stores a new resume for the caller.
func (s *Server) handleCreateResume(w http.ResponseWriter, r *http.Request) {
	userID, err := requestUser(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	req, err := decodeResumeRequest(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	rec, err := s.resumes.CreateResume(r.Context(), userID, req.Title, req.Resume)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	log.Printf("[resume] created %s for user %s", rec.ID, userID)
	s.jsonResponse(w, http.StatusCreated, rec)
}

// handleListResumes lists the caller's resumes
func (s *Server) handleListResumes(w http.ResponseWriter, r *http.Request) {
	userID, err := requestUser(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	list, err := s.resumes.ListResumes(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, ResumeListResponse{Resumes: list, Count: len(list)})
}

// handleGetResume returns one resume owned by the caller
func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	rec, err := s.ownedResume(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, rec)
}

// handleSaveResume replaces the stored title and data. The last save wins.
func (s *Server) handleSaveResume(w http.ResponseWriter, r *http.Request) {
	rec, err := s.ownedResume(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	req, err := decodeResumeRequest(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.saveResume(w, r, rec.ID, req.Title, req.Resume)
}

// handleUpdateResumeField applies a single field update and saves the result.
func (s *Server) handleUpdateResumeField(w http.ResponseWriter, r *http.Request) {
	rec, err := s.ownedResume(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req types.UpdateFieldRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	resume := rec.Resume
	if req.Collection == "" {
		err = resume.SetField(req.Field, req.Value)
	} else {
		err = resume.UpdateEntry(types.Collection(req.Collection), req.EntryID, req.Field, req.Value)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.saveResume(w, r, rec.ID, rec.Title, resume)
}

// handleDeleteResume deletes a resume owned by the caller
func (s *Server) handleDeleteResume(w http.ResponseWriter, r *http.Request) {
	rec, err := s.ownedResume(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	deleted, err := s.resumes.DeleteResume(r.Context(), rec.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !deleted {
		s.writeError(w, r, &ErrNotFound{Resource: "resume", ID: rec.ID.String()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleParseResume extracts a resume from an uploaded document. The upload
// travels in the "file" field of a multipart form.
func (s *Server) handleParseResume(w http.ResponseWriter, r *http.Request) {
	if s.parser == nil {
		s.writeError(w, r, &ErrUnavailable{Service: "resume parser"})
		return
	}

	// Leave room for the multipart framing around the file itself.
	r.Body = http.MaxBytesReader(w, r.Body, ingestion.MaxUploadBytes+64<<10)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, r, ingestion.ErrTooLarge)
			return
		}
		s.writeError(w, r, invalid("file", "a multipart file upload is required"))
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, ingestion.MaxUploadBytes+1))
	if err != nil {
		s.writeError(w, r, invalid("file", "failed to read upload"))
		return
	}

	upload, err := ingestion.Ingest(header.Filename, header.Header.Get("Content-Type"), data)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resume, err := s.parser.ParseResumeText(r.Context(), upload.Text)
	s.metrics.ObserveParse(err)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	log.Printf("[parse] parsed %s upload %s (%d chars)", upload.Metadata.Kind, upload.Metadata.Hash[:12], upload.Metadata.Chars)
	s.jsonResponse(w, http.StatusOK, ParseResponse{Resume: resume, Upload: upload.Metadata})
}

func (s *Server) saveResume(w http.ResponseWriter, r *http.Request, id uuid.UUID, title string, resume *types.Resume) {
	saved, err := s.resumes.SaveResume(r.Context(), id, title, resume)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if saved == nil {
		s.writeError(w, r, &ErrNotFound{Resource: "resume", ID: id.String()})
		return
	}
	s.jsonResponse(w, http.StatusOK, saved)
}

// ownedResume loads the {id} resume and checks that the caller owns it.
func (s *Server) ownedResume(r *http.Request) (*db.ResumeRecord, error) {
	userID, err := requestUser(r)
	if err != nil {
		return nil, err
	}
	id, err := pathID(r, "id")
	if err != nil {
		return nil, err
	}
	rec, err := s.resumes.GetResume(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, &ErrNotFound{Resource: "resume", ID: id.String()}
	}
	if rec.UserID != userID {
		return nil, &ErrForbidden{Resource: "resume", ID: id.String()}
	}
	return rec, nil
}

// decodeResumeRequest decodes a create/save body. The resume payload is
// checked against the resume schema before it is bound to the struct.
func decodeResumeRequest(w http.ResponseWriter, r *http.Request) (*types.CreateResumeRequest, error) {
	var body struct {
		Title  string          `json:"title"`
		Resume json.RawMessage `json:"resume"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		return nil, err
	}

	req := &types.CreateResumeRequest{Title: body.Title}
	if len(body.Resume) > 0 && string(body.Resume) != "null" {
		if err := schemas.ValidateResume(body.Resume); err != nil {
			return nil, err
		}
		req.Resume = types.NewResume()
		if err := json.Unmarshal(body.Resume, req.Resume); err != nil {
			return nil, invalid("resume", "must be a resume object")
		}
		req.Resume.Normalize()
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return req, nil
}

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return invalid("body", "invalid JSON: "+err.Error())
	}
	return nil
}
