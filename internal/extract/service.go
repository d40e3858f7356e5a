// Package extract orchestrates job posting extraction: it composes a
// backend connector with the confidence heuristic into one callable
// operation.
package extract

import (
	"context"

	"github.com/spigell/job-extractor/internal/connector"
	"github.com/spigell/job-extractor/internal/job"

	"go.uber.org/zap"
)

// Service wraps a connector and applies business logic to raw extraction
// results. Its lifetime tracks the connector's: Cleanup tears both down.
type Service struct {
	connector connector.Connector
	logger    *zap.Logger
}

func New(conn connector.Connector, logger *zap.Logger) *Service {
	return &Service{connector: conn, logger: logger}
}

// ExtractJob extracts structured job posting data from unstructured text and
// scores its completeness. Connector errors propagate unchanged; the service
// adds no error kinds of its own.
func (s *Service) ExtractJob(ctx context.Context, text string) (*job.ExtractionResponse, error) {
	result, err := s.connector.ExtractJobPosting(ctx, text)
	if err != nil {
		return nil, err
	}

	confidence := job.EstimateConfidence(result.Job)

	s.logger.Debug("job extraction completed",
		zap.String("model", result.Model),
		zap.String("confidence", string(confidence)),
		zap.Int("input_tokens", result.Usage.InputTokens),
		zap.Int("output_tokens", result.Usage.OutputTokens),
	)

	return &job.ExtractionResponse{
		Job:         result.Job,
		Confidence:  confidence,
		RawResponse: result.RawResponse,
		Model:       result.Model,
		Usage:       result.Usage,
	}, nil
}

// HealthCheck reports the connector's health.
func (s *Service) HealthCheck(ctx context.Context) *connector.HealthStatus {
	return s.connector.HealthCheck(ctx)
}

// Cleanup releases the underlying connector resources.
func (s *Service) Cleanup() error {
	return s.connector.Cleanup()
}
