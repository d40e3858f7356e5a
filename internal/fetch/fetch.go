// Package fetch turns a job posting URL into plain text suitable for
// extraction.
package fetch

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"context"

	"github.com/spigell/job-extractor/internal/apperr"
	"github.com/spigell/job-extractor/internal/connector"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "job-extractor/1.0"

	// Elements that never carry posting content.
	strippedSelectors = "script, style, noscript, nav, header, footer, iframe, svg"
)

// Fetcher downloads a page and reduces it to its visible text.
type Fetcher struct {
	client *http.Client
	logger *zap.Logger
}

func New(timeout time.Duration, logger *zap.Logger) *Fetcher {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// JobText fetches rawURL and returns the page's visible text, truncated to
// the connector input cap so the result is always sendable.
func (f *Fetcher) JobText(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || !u.IsAbs() || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", apperr.InputValidationf("invalid job posting url: %q", rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", apperr.Extractionf("fetching job posting: %v", err).WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", apperr.Extractionf("fetching job posting: unexpected status %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", apperr.Extractionf("parsing job posting page: %v", err).WithCause(err)
	}

	doc.Find(strippedSelectors).Remove()

	text := doc.Find("body").Text()
	if strings.TrimSpace(text) == "" {
		text = doc.Text()
	}
	text = strings.Join(strings.Fields(text), " ")

	if text == "" {
		return "", apperr.Extractionf("page %s contains no extractable text", u.String())
	}

	if runes := []rune(text); len(runes) > connector.MaxInputChars {
		f.logger.Debug("truncating fetched page",
			zap.String("url", u.String()),
			zap.Int("original_length", len(runes)),
		)
		text = string(runes[:connector.MaxInputChars])
	}

	f.logger.Debug("fetched job posting page",
		zap.String("url", u.String()),
		zap.Int("text_length", len(text)),
	)

	return text, nil
}
