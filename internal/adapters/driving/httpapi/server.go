// Package httpapi exposes the import core as a JSON HTTP API.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/clauseworks/importkit/internal/core/domain"
	"github.com/clauseworks/importkit/internal/core/ports/driving"
	"github.com/clauseworks/importkit/internal/logger"
)

// Server routes integration API requests to the import service.
type Server struct {
	importer driving.ImportService
	mux      *http.ServeMux
	log      zerolog.Logger
}

// NewServer creates the API server.
func NewServer(importer driving.ImportService) *Server {
	s := &Server{
		importer: importer,
		mux:      http.NewServeMux(),
		log:      logger.For("httpapi"),
	}

	s.mux.HandleFunc("GET /api/integrations/{provider}/files", s.handleListFiles)
	s.mux.HandleFunc("POST /api/integrations/{provider}/import", s.handleImport)

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// listFilesResponse is the browse listing payload.
type listFilesResponse struct {
	Files []domain.BrowseEntry `json:"files"`
	Path  string               `json:"path"`
}

func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	provider := domain.Provider(r.PathValue("provider"))
	orgID := r.URL.Query().Get("organization_id")
	path := r.URL.Query().Get("path")

	if orgID == "" {
		s.writeError(w, r, domain.ErrInvalidInput, "organization_id is required")
		return
	}

	entries, err := s.importer.ListRemoteEntries(r.Context(), orgID, provider, path)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}

	if entries == nil {
		entries = []domain.BrowseEntry{}
	}
	s.writeJSON(w, http.StatusOK, listFilesResponse{Files: entries, Path: path})
}

// importRequest is the import operation payload.
type importRequest struct {
	OrganizationID string `json:"organization_id"`
	FileID         string `json:"file_id"`
	CreateDocument bool   `json:"create_document"`
	DocumentType   string `json:"document_type"`
	UserID         string `json:"user_id"`
}

// importResponse carries either the normalised content or the created
// document reference, never both.
type importResponse struct {
	Name     string              `json:"name,omitempty"`
	Content  string              `json:"content,omitempty"`
	Document *domain.DocumentRef `json:"document,omitempty"`
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	provider := domain.Provider(r.PathValue("provider"))

	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, domain.ErrInvalidInput, "invalid request body")
		return
	}
	if req.OrganizationID == "" {
		s.writeError(w, r, domain.ErrInvalidInput, "organization_id is required")
		return
	}
	if req.FileID == "" {
		s.writeError(w, r, domain.ErrInvalidInput, "file_id is required")
		return
	}

	result, err := s.importer.ImportRemoteFile(r.Context(), req.OrganizationID, provider, req.FileID,
		driving.ImportOptions{
			CreateDocument: req.CreateDocument,
			DocumentType:   req.DocumentType,
			UserID:         req.UserID,
		})
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}

	resp := importResponse{Document: result.Document}
	if result.Document == nil && result.Content != nil {
		resp.Name = result.Content.Name
		resp.Content = result.Content.Content
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// errorResponse is the uniform error payload.
type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps the core error taxonomy to HTTP statuses. Provider errors
// are returned as a generic message with the detail kept server-side.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error, message string) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, domain.ErrNotConnected),
		errors.Is(err, domain.ErrUnsupportedType),
		errors.Is(err, domain.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrAuthExpired):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	}

	if message == "" {
		if status == http.StatusInternalServerError {
			// Provider failure text stays out of responses.
			message = "provider request failed"
		} else {
			message = err.Error()
		}
	}

	event := s.log.Warn()
	if status == http.StatusInternalServerError {
		event = s.log.Error()
	}
	event.Err(err).
		Int("status", status).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Msg("request failed")

	s.writeJSON(w, status, errorResponse{Error: message})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Error().Err(err).Msg("encode response")
	}
}
