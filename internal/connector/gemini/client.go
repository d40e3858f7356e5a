// Package gemini implements the LLM backend connector on top of the Gemini
// API. A single client is created at construction and shared by all
// concurrent calls for the process lifetime; only Cleanup disposes of it.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/spigell/job-extractor/internal/apperr"
	"github.com/spigell/job-extractor/internal/connector"
	"github.com/spigell/job-extractor/internal/job"
	"github.com/spigell/job-extractor/internal/logger"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	defaultModel     = "gemini-2.5-pro"
	defaultMaxTokens = 1024
	defaultTimeout   = 60 * time.Second
	connectTimeout   = 10 * time.Second

	healthProbe       = "Say 'ok' and nothing else."
	healthProbeTokens = 10

	extractionPrompt = "Extract the job posting information from the following text. " +
		"Be thorough in extracting all mentioned skills, requirements, and benefits.\n\n"

	maxLogPreview = 200
)

// Config carries the backend settings consumed at construction. The
// connector does not own them.
type Config struct {
	APIKey    string
	Model     string
	MaxTokens int
	// Timeout bounds a whole request; the connect timeout is fixed.
	Timeout time.Duration
}

// modelCaller is the slice of the genai client the connector depends on,
// kept narrow so tests can substitute it.
type modelCaller interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Connector talks to the Gemini API. It satisfies connector.Connector.
type Connector struct {
	models     modelCaller
	httpClient *http.Client
	model      string
	maxTokens  int32
	tool       *genai.FunctionDeclaration
	retry      connector.RetryPolicy
	logger     *zap.Logger

	closed atomic.Bool
}

// New creates a Connector configured for the Gemini API backend. The tool
// schema is validated against the domain model here, so drift between the
// wire contract and job.JobPosting is a startup error.
func New(ctx context.Context, cfg *Config, log *zap.Logger) (*Connector, error) {
	if cfg == nil {
		return nil, errors.New("gemini config is required")
	}

	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	tool := jobExtractionTool()
	if err := validateToolSchema(tool); err != nil {
		return nil, fmt.Errorf("job extraction tool: %w", err)
	}

	httpClient := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{Timeout: connectTimeout}).DialContext,
		},
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &Connector{
		models:     client.Models,
		httpClient: httpClient,
		model:      model,
		maxTokens:  int32(maxTokens),
		tool:       tool,
		retry:      connector.DefaultRetryPolicy(),
		logger:     log,
	}, nil
}

// Initialize is a no-op: the client is created eagerly in New.
func (c *Connector) Initialize(_ context.Context) error {
	return c.guard()
}

// Cleanup releases the transport resources. Calling it more than once is
// harmless; calling anything else afterwards fails fast.
func (c *Connector) Cleanup() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	c.httpClient.CloseIdleConnections()
	return nil
}

// HealthCheck probes the backend with a minimal message. Failures are
// reported in the returned status, never as an error.
func (c *Connector) HealthCheck(ctx context.Context) *connector.HealthStatus {
	msg, err := c.SendMessage(ctx, healthProbe, healthProbeTokens)
	if err != nil {
		return &connector.HealthStatus{Status: connector.StatusUnhealthy, Error: err.Error()}
	}
	return &connector.HealthStatus{Status: connector.StatusHealthy, Model: msg.Model}
}

// SendMessage performs a generic single-turn call.
func (c *Connector) SendMessage(ctx context.Context, text string, maxTokens int) (*connector.Message, error) {
	if err := c.guard(); err != nil {
		return nil, err
	}
	if err := connector.ValidateInput(text); err != nil {
		return nil, err
	}

	tokens := c.maxTokens
	if maxTokens > 0 {
		tokens = int32(maxTokens)
	}
	config := &genai.GenerateContentConfig{MaxOutputTokens: tokens}

	return connector.Retry(ctx, c.retry, connector.IsRetryable, func(ctx context.Context) (*connector.Message, error) {
		resp, err := c.models.GenerateContent(ctx, c.model, genai.Text(text), config)
		if err != nil {
			return nil, c.translateError(err)
		}

		output := collectText(resp)
		if output == "" {
			return nil, apperr.Extraction("model returned empty response")
		}

		return &connector.Message{
			Response: output,
			Model:    modelVersion(resp, c.model),
			Usage:    usageFrom(resp),
		}, nil
	})
}

// ExtractJobPosting issues the schema-constrained extraction call. The tool
// choice is forced, so the model must answer through the structured-output
// path rather than free text.
func (c *Connector) ExtractJobPosting(ctx context.Context, text string) (*job.RawExtractionResult, error) {
	if err := c.guard(); err != nil {
		return nil, err
	}
	if err := connector.ValidateInput(text); err != nil {
		return nil, err
	}

	config := &genai.GenerateContentConfig{
		MaxOutputTokens: c.maxTokens,
		Tools:           []*genai.Tool{{FunctionDeclarations: []*genai.FunctionDeclaration{c.tool}}},
		ToolConfig: &genai.ToolConfig{
			FunctionCallingConfig: &genai.FunctionCallingConfig{
				Mode:                 genai.FunctionCallingConfigModeAny,
				AllowedFunctionNames: []string{extractionToolName},
			},
		},
	}

	prompt := extractionPrompt + text

	c.logger.Debug("job extraction request",
		zap.Int("text_length", len(text)),
		zap.String("text_preview", logger.TruncateForLog(text, maxLogPreview)),
	)

	return connector.Retry(ctx, c.retry, connector.IsRetryable, func(ctx context.Context) (*job.RawExtractionResult, error) {
		resp, err := c.models.GenerateContent(ctx, c.model, genai.Text(prompt), config)
		if err != nil {
			return nil, c.translateError(err)
		}

		call := findFunctionCall(resp, extractionToolName)
		if call == nil {
			return nil, apperr.Extraction("model did not return structured output")
		}

		raw, err := json.Marshal(call.Args)
		if err != nil {
			return nil, apperr.Extractionf("encoding structured output: %v", err).WithCause(err)
		}

		posting, err := job.DecodeJobPosting(call.Args)
		if err != nil {
			return nil, apperr.Extractionf("invalid job data structure: %v", err).WithCause(err)
		}

		c.logger.Debug("job extraction response",
			zap.String("model", modelVersion(resp, c.model)),
			zap.String("payload_preview", logger.TruncateForLog(string(raw), maxLogPreview)),
		)

		return &job.RawExtractionResult{
			Job:         posting,
			RawResponse: string(raw),
			Model:       modelVersion(resp, c.model),
			Usage:       usageFrom(resp),
		}, nil
	})
}

func (c *Connector) guard() error {
	if c.closed.Load() {
		return errors.New("gemini connector is closed")
	}
	return nil
}

// translateError re-raises retryable backend errors verbatim so the retry
// wrapper can see them across attempts (and callers receive the original
// error on exhaustion); terminal backend errors are wrapped with the cause
// preserved.
func (c *Connector) translateError(err error) error {
	if connector.IsRetryable(err) {
		return err
	}
	return apperr.Extractionf("model API error: %v", err).WithCause(err)
}

func findFunctionCall(resp *genai.GenerateContentResponse, name string) *genai.FunctionCall {
	if resp == nil {
		return nil
	}
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil || part.FunctionCall == nil {
				continue
			}
			if part.FunctionCall.Name == name {
				return part.FunctionCall
			}
		}
	}
	return nil
}

func collectText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	return strings.TrimSpace(builder.String())
}

func usageFrom(resp *genai.GenerateContentResponse) job.UsageInfo {
	if resp == nil || resp.UsageMetadata == nil {
		return job.UsageInfo{}
	}
	return job.UsageInfo{
		InputTokens:  clampTokens(resp.UsageMetadata.PromptTokenCount),
		OutputTokens: clampTokens(resp.UsageMetadata.CandidatesTokenCount),
	}
}

func clampTokens(n int32) int {
	if n < 0 {
		return 0
	}
	return int(n)
}

func modelVersion(resp *genai.GenerateContentResponse, fallback string) string {
	if resp != nil && strings.TrimSpace(resp.ModelVersion) != "" {
		return resp.ModelVersion
	}
	return fallback
}
