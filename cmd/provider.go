package cmd

import (
	"context"
	"strings"
	"time"

	"github.com/spigell/job-extractor/internal/apperr"
	"github.com/spigell/job-extractor/internal/connector"
	"github.com/spigell/job-extractor/internal/connector/gemini"
	"github.com/spigell/job-extractor/internal/connector/mock"
	"github.com/spigell/job-extractor/internal/secrets"

	"go.uber.org/zap"
)

// buildConnector selects and constructs the backend connector from the
// configuration. The connector is created once here and handed to the
// extraction service; callers own its lifecycle.
func buildConnector(ctx context.Context, config *Config, logger *zap.Logger) (connector.Connector, error) {
	var extractorCfg *ExtractorConfig
	if config != nil {
		extractorCfg = config.Extractor
	}

	provider := providerGemini
	if extractorCfg != nil && strings.TrimSpace(extractorCfg.Provider) != "" {
		provider = strings.ToLower(strings.TrimSpace(extractorCfg.Provider))
	}

	switch provider {
	case providerMock:
		logger.Info("using the mock extractor connector")
		return mock.New(), nil

	case providerGemini:
		geminiCfg := &GeminiConfig{}
		if extractorCfg != nil && extractorCfg.Gemini != nil {
			geminiCfg = extractorCfg.Gemini
		}

		apiKey, err := secrets.Load("gemini api key", geminiCfg.APIKeyFile, geminiCfg.APIKey, "GEMINI_API_KEY")
		if err != nil {
			return nil, apperr.Configurationf(
				"%v (set extractor.gemini.api-key-file or GEMINI_API_KEY_FILE)", err,
			).WithCause(err)
		}

		conn, err := gemini.New(ctx, &gemini.Config{
			APIKey:    apiKey,
			Model:     geminiCfg.Model,
			MaxTokens: geminiCfg.MaxTokens,
			Timeout:   time.Duration(geminiCfg.TimeoutSeconds) * time.Second,
		}, logger.With(zap.String("provider", providerGemini)))
		if err != nil {
			return nil, apperr.Configurationf("building gemini connector: %v", err).WithCause(err)
		}

		return conn, nil

	default:
		return nil, apperr.Configurationf("unsupported extractor provider: %s", provider)
	}
}
