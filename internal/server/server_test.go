package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spigell/job-extractor/internal/apperr"
	"github.com/spigell/job-extractor/internal/connector"
	"github.com/spigell/job-extractor/internal/connector/mock"
	"github.com/spigell/job-extractor/internal/extract"
	"github.com/spigell/job-extractor/internal/fetch"
	"github.com/spigell/job-extractor/internal/job"

	"go.uber.org/zap"
)

type stubConnector struct {
	result *job.RawExtractionResult
	err    error
	health *connector.HealthStatus
}

func (s *stubConnector) Initialize(_ context.Context) error { return nil }

func (s *stubConnector) Cleanup() error { return nil }

func (s *stubConnector) HealthCheck(_ context.Context) *connector.HealthStatus {
	return s.health
}

func (s *stubConnector) SendMessage(_ context.Context, _ string, _ int) (*connector.Message, error) {
	return nil, errors.New("not used")
}

func (s *stubConnector) ExtractJobPosting(_ context.Context, _ string) (*job.RawExtractionResult, error) {
	return s.result, s.err
}

func newTestServer(conn connector.Connector) *Server {
	logger := zap.NewNop()
	return New(extract.New(conn, logger), fetch.New(0, logger), logger, "test")
}

func postJSON(t *testing.T, handler http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()

	var envelope errorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decoding error envelope: %v (body %q)", err, rec.Body.String())
	}
	return envelope
}

func TestExtractJobEndpoint(t *testing.T) {
	handler := newTestServer(mock.New()).Router()

	rec := postJSON(t, handler, "/api/v1/extract/job", `{"text":"Senior Python Developer at TechCorp"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}

	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type: %q", ct)
	}

	var resp job.ExtractionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}

	if resp.Job == nil || resp.Job.JobTitle != "Senior Python Developer" {
		t.Fatalf("unexpected job: %+v", resp.Job)
	}

	if resp.Confidence != job.ConfidenceHigh {
		t.Fatalf("unexpected confidence: %s", resp.Confidence)
	}

	if resp.Usage.InputTokens != 100 || resp.Usage.OutputTokens != 200 {
		t.Fatalf("unexpected usage: %+v", resp.Usage)
	}
}

func TestExtractJobMissingText(t *testing.T) {
	handler := newTestServer(mock.New()).Router()

	rec := postJSON(t, handler, "/api/v1/extract/job", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	envelope := decodeEnvelope(t, rec)
	if envelope.ErrorCode != apperr.CodeInputValidation || envelope.Detail != "text is required" {
		t.Fatalf("unexpected envelope: %+v", envelope)
	}
}

func TestExtractJobMalformedBody(t *testing.T) {
	handler := newTestServer(mock.New()).Router()

	rec := postJSON(t, handler, "/api/v1/extract/job", `{"text": `)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	envelope := decodeEnvelope(t, rec)
	if envelope.ErrorCode != apperr.CodeInputValidation {
		t.Fatalf("unexpected envelope: %+v", envelope)
	}
}

func TestExtractJobBusinessErrorEnvelope(t *testing.T) {
	conn := &stubConnector{err: apperr.Extraction("model did not return structured output")}
	handler := newTestServer(conn).Router()

	rec := postJSON(t, handler, "/api/v1/extract/job", `{"text":"some posting"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}

	envelope := decodeEnvelope(t, rec)
	if envelope.ErrorCode != apperr.CodeExtraction {
		t.Fatalf("unexpected error code: %q", envelope.ErrorCode)
	}
	if envelope.Detail != "model did not return structured output" {
		t.Fatalf("unexpected detail: %q", envelope.Detail)
	}
}

func TestUnexpectedErrorsAreOpaque(t *testing.T) {
	conn := &stubConnector{err: errors.New("pq: connection reset by peer")}
	handler := newTestServer(conn).Router()

	rec := postJSON(t, handler, "/api/v1/extract/job", `{"text":"some posting"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}

	envelope := decodeEnvelope(t, rec)
	if envelope.Detail != "Internal server error" {
		t.Fatalf("internal detail leaked: %q", envelope.Detail)
	}
	if envelope.ErrorCode != "" {
		t.Fatalf("unexpected error code: %q", envelope.ErrorCode)
	}
}

func TestExtractURLEndpoint(t *testing.T) {
	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`<html><body><h1>Senior Python Developer</h1><p>TechCorp, Berlin.</p></body></html>`))
	}))
	defer page.Close()

	handler := newTestServer(mock.New()).Router()

	rec := postJSON(t, handler, "/api/v1/extract/url", `{"url":"`+page.URL+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}

	var resp job.ExtractionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Job == nil || resp.Job.Company != "TechCorp" {
		t.Fatalf("unexpected job: %+v", resp.Job)
	}
}

func TestExtractURLValidation(t *testing.T) {
	handler := newTestServer(mock.New()).Router()

	rec := postJSON(t, handler, "/api/v1/extract/url", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing url, got %d", rec.Code)
	}

	rec = postJSON(t, handler, "/api/v1/extract/url", `{"url":"not a url"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid url, got %d", rec.Code)
	}
	envelope := decodeEnvelope(t, rec)
	if envelope.ErrorCode != apperr.CodeInputValidation {
		t.Fatalf("unexpected envelope: %+v", envelope)
	}
}

func TestHealthEndpoint(t *testing.T) {
	handler := newTestServer(mock.New()).Router()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body["status"] != connector.StatusHealthy || body["version"] != "test" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestHealthLLMEndpoint(t *testing.T) {
	handler := newTestServer(mock.New()).Router()

	req := httptest.NewRequest(http.MethodGet, "/health/llm", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	unhealthy := &stubConnector{health: &connector.HealthStatus{
		Status: connector.StatusUnhealthy,
		Error:  "api key rejected",
	}}
	handler = newTestServer(unhealthy).Router()

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/llm", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}

	var status connector.HealthStatus
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if status.Error != "api key rejected" {
		t.Fatalf("unexpected status: %+v", status)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	handler := newTestServer(mock.New()).Router()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/extract/job", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}
