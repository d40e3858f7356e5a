// Package server is the HTTP serving layer. It is the only place where
// errors become user-visible payloads: business errors are rendered as a
// {detail, error_code} envelope with their mapped status, anything else is a
// generic 500 with no internal detail.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/spigell/job-extractor/internal/apperr"
	"github.com/spigell/job-extractor/internal/connector"
	"github.com/spigell/job-extractor/internal/extract"
	"github.com/spigell/job-extractor/internal/fetch"

	"go.uber.org/zap"
)

// maxBodyBytes comfortably fits the 50k character input cap.
const maxBodyBytes = 1 << 20

// Server handles HTTP requests for the extraction service.
type Server struct {
	service *extract.Service
	fetcher *fetch.Fetcher
	logger  *zap.Logger
	version string
}

func New(service *extract.Service, fetcher *fetch.Fetcher, logger *zap.Logger, version string) *Server {
	return &Server{
		service: service,
		fetcher: fetcher,
		logger:  logger,
		version: version,
	}
}

// Router returns the HTTP handler tree.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/extract/job", s.handleExtractJob)
	mux.HandleFunc("POST /api/v1/extract/url", s.handleExtractURL)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /health/llm", s.handleHealthLLM)

	return s.loggingMiddleware(mux)
}

type extractJobRequest struct {
	Text string `json:"text"`
}

type extractURLRequest struct {
	URL string `json:"url"`
}

type errorEnvelope struct {
	Detail    string `json:"detail"`
	ErrorCode string `json:"error_code,omitempty"`
}

func (s *Server) handleExtractJob(w http.ResponseWriter, r *http.Request) {
	var req extractJobRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		s.respondError(w, err)
		return
	}

	if req.Text == "" {
		s.respondError(w, apperr.InputValidation("text is required"))
		return
	}

	resp, err := s.service.ExtractJob(r.Context(), req.Text)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleExtractURL(w http.ResponseWriter, r *http.Request) {
	var req extractURLRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		s.respondError(w, err)
		return
	}

	if req.URL == "" {
		s.respondError(w, apperr.InputValidation("url is required"))
		return
	}

	text, err := s.fetcher.JobText(r.Context(), req.URL)
	if err != nil {
		s.respondError(w, err)
		return
	}

	resp, err := s.service.ExtractJob(r.Context(), text)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"status":  connector.StatusHealthy,
		"version": s.version,
	})
}

func (s *Server) handleHealthLLM(w http.ResponseWriter, r *http.Request) {
	status := s.service.HealthCheck(r.Context())

	code := http.StatusOK
	if status.Status != connector.StatusHealthy {
		code = http.StatusServiceUnavailable
	}

	s.respondJSON(w, code, status)
}

func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, target any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		return apperr.InputValidation("request body must be valid JSON").WithCause(err)
	}
	return nil
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("encoding response", zap.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, err error) {
	var bizErr *apperr.BusinessError
	if errors.As(err, &bizErr) {
		s.respondJSON(w, bizErr.Status, errorEnvelope{
			Detail:    bizErr.Message,
			ErrorCode: bizErr.Code,
		})
		return
	}

	s.logger.Error("unhandled error", zap.Error(err))
	s.respondJSON(w, http.StatusInternalServerError, errorEnvelope{Detail: "Internal server error"})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote", r.RemoteAddr),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
