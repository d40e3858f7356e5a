// Package connector defines the capability set every LLM backend connector
// must implement, plus the failure classification and retry machinery shared
// by all of them.
package connector

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/spigell/job-extractor/internal/apperr"
	"github.com/spigell/job-extractor/internal/job"
)

// MaxInputChars bounds the cost and latency of a single model call. The
// limit is in characters, not bytes, and is enforced before any network I/O.
const MaxInputChars = 50_000

// Health status values reported by HealthCheck.
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// HealthStatus describes the outcome of a connector health probe.
type HealthStatus struct {
	Status string `json:"status"`
	Model  string `json:"model,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Message is the result of a generic single-turn model call.
type Message struct {
	Response string
	Model    string
	Usage    job.UsageInfo
}

// Connector is the backend capability consumed by the extraction service.
// Two implementers exist: the Gemini connector and a deterministic mock,
// selected by configuration at startup.
//
// A connector moves through uninitialized -> initialized -> serving calls ->
// cleaned up. SendMessage and ExtractJobPosting are only valid while
// initialized; Cleanup must be called exactly once at shutdown. A single
// connector instance is shared by all concurrent calls.
type Connector interface {
	// Initialize prepares backend resources. A no-op when the client is
	// created eagerly at construction.
	Initialize(ctx context.Context) error

	// Cleanup releases backend resources. Safe to call even if no requests
	// were made; no calls may use the connector afterwards.
	Cleanup() error

	// HealthCheck sends a minimal probe. It never fails: problems are
	// captured in the returned status.
	HealthCheck(ctx context.Context) *HealthStatus

	// SendMessage performs a generic single-turn call. A maxTokens of zero
	// means the configured default.
	SendMessage(ctx context.Context, text string, maxTokens int) (*Message, error)

	// ExtractJobPosting performs the schema-constrained extraction call and
	// returns the validated result.
	ExtractJobPosting(ctx context.Context, text string) (*job.RawExtractionResult, error)
}

// ValidateInput rejects unusable input before it reaches the network. Both
// send paths apply it identically.
func ValidateInput(text string) error {
	if strings.TrimSpace(text) == "" {
		return apperr.Extraction("message cannot be empty")
	}
	if chars := utf8.RuneCountInString(text); chars > MaxInputChars {
		return apperr.Extractionf(
			"message too long (%d chars), maximum supported length is %d characters",
			chars, MaxInputChars,
		)
	}
	return nil
}
