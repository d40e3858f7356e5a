package cmd

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spigell/job-extractor/internal/apperr"
	"github.com/spigell/job-extractor/internal/connector"
	"github.com/spigell/job-extractor/internal/connector/mock"
	"github.com/spigell/job-extractor/internal/job"

	"go.uber.org/zap"
)

type failingConnector struct {
	cleanups int
}

func (f *failingConnector) Initialize(_ context.Context) error { return nil }

func (f *failingConnector) Cleanup() error {
	f.cleanups++
	return nil
}

func (f *failingConnector) HealthCheck(_ context.Context) *connector.HealthStatus {
	return &connector.HealthStatus{Status: connector.StatusUnhealthy}
}

func (f *failingConnector) SendMessage(_ context.Context, _ string, _ int) (*connector.Message, error) {
	return nil, errors.New("not used")
}

func (f *failingConnector) ExtractJobPosting(_ context.Context, _ string) (*job.RawExtractionResult, error) {
	return nil, apperr.Extraction("model did not return structured output")
}

func TestExtractOnceCleansUpOnFailure(t *testing.T) {
	conn := &failingConnector{}
	var out bytes.Buffer

	err := extractOnce(context.Background(), conn, zap.NewNop(), &out, "some posting")
	if err == nil {
		t.Fatal("expected the extraction error to propagate")
	}

	if conn.cleanups != 1 {
		t.Fatalf("expected cleanup to run once on failure, got %d", conn.cleanups)
	}

	if out.Len() != 0 {
		t.Fatalf("no output expected on failure, got %q", out.String())
	}
}

func TestExtractOncePrintsResult(t *testing.T) {
	var out bytes.Buffer

	if err := extractOnce(context.Background(), mock.New(), zap.NewNop(), &out, "some posting"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{`"job_title": "Senior Python Developer"`, `"confidence": "high"`} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("expected %s in output, got %q", want, out.String())
		}
	}
}
