package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"brkicks/importworker/internal/importer"
	"brkicks/importworker/logger"
	apperr "brkicks/importworker/pkg/errors"
	"brkicks/importworker/services/publisher"
)

// ImportService runs the import pipeline
type ImportService interface {
	ImportFromAlbum(ctx context.Context, albumURL string, defaultPrice float64) (*importer.ImportCandidate, error)
	ImportFromHTML(ctx context.Context, albumURL, html string, defaultPrice float64) (*importer.ImportCandidate, error)
}

// Server exposes the admin import API
type Server struct {
	importer     ImportService
	publisher    publisher.Publisher
	allowedHosts []string
	log          *logger.Logger
}

// New creates the admin server. The publisher may be nil; publishing is
// best effort either way.
func New(importSvc ImportService, pub publisher.Publisher, allowedHosts []string) *Server {
	return &Server{
		importer:     importSvc,
		publisher:    pub,
		allowedHosts: allowedHosts,
		log:          logger.ForServer(),
	}
}

// Router builds the chi router for the server
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/imports", func(r chi.Router) {
		r.Post("/", s.handleImport)
		r.Post("/preview", s.handlePreview)
	})

	return r
}

type importRequest struct {
	URL          string  `json:"url"`
	HTML         string  `json:"html,omitempty"`
	DefaultPrice float64 `json:"defaultPrice,omitempty"`
}

type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeImportRequest(w, r)
	if !ok {
		return
	}

	candidate, err := s.importer.ImportFromAlbum(r.Context(), req.URL, req.DefaultPrice)
	if err != nil {
		s.writeImportError(w, req.URL, err)
		return
	}

	s.publish(r.Context(), candidate)
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: candidate})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeImportRequest(w, r)
	if !ok {
		return
	}
	if strings.TrimSpace(req.HTML) == "" {
		writeError(w, http.StatusBadRequest, "html is required for preview")
		return
	}

	candidate, err := s.importer.ImportFromHTML(r.Context(), req.URL, req.HTML, req.DefaultPrice)
	if err != nil {
		s.writeImportError(w, req.URL, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{Success: true, Data: candidate})
}

func (s *Server) decodeImportRequest(w http.ResponseWriter, r *http.Request) (*importRequest, bool) {
	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return nil, false
	}

	if err := s.validateAlbumURL(req.URL); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return &req, true
}

func (s *Server) validateAlbumURL(albumURL string) error {
	parsed, err := url.Parse(strings.TrimSpace(albumURL))
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return apperr.NewValidation(albumURL, "url must be a valid http(s) URL")
	}

	host := strings.ToLower(parsed.Hostname())
	for _, allowed := range s.allowedHosts {
		allowed = strings.ToLower(allowed)
		if host == allowed || strings.HasSuffix(host, "."+allowed) {
			return nil
		}
	}
	return apperr.NewValidation(albumURL, "host is not in the allowed list")
}

func (s *Server) writeImportError(w http.ResponseWriter, albumURL string, err error) {
	s.log.Error().Str("url", albumURL).Err(err).Msg("Import failed")

	switch {
	case apperr.IsValidation(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case apperr.IsRateLimit(err):
		writeError(w, http.StatusTooManyRequests, "source host is rate limited, try again later")
	case apperr.IsFetch(err):
		writeError(w, http.StatusServiceUnavailable, "could not fetch the album page")
	default:
		writeError(w, http.StatusInternalServerError, "import failed")
	}
}

// publish sends the candidate to the stream; failures are logged only
func (s *Server) publish(ctx context.Context, candidate *importer.ImportCandidate) {
	if s.publisher == nil {
		return
	}

	encoded, err := candidate.Encode()
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to encode candidate")
		return
	}
	if err := s.publisher.Publish(ctx, encoded); err != nil {
		s.log.Error().Err(err).Str("id", candidate.ID).Msg("Failed to publish candidate")
		return
	}
	s.log.Debug().Str("id", candidate.ID).Msg("Candidate published")
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: false, Error: message})
}
