// Package ingestion turns a job posting URL into clean description text.
// Plain HTTP plus HTML extraction handles most job boards; pages that render
// through JavaScript fall back to a headless browser.
package ingestion

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

const (
	// fetchTimeout bounds the plain HTTP fetch
	fetchTimeout = 30 * time.Second
	// userAgent identifies the fetcher to job boards
	userAgent = "Mozilla/5.0 (compatible; Cherrypick/1.0)"
	// minDescriptionLength is the shortest extracted text accepted from the
	// plain fetch; anything shorter triggers the browser fallback.
	minDescriptionLength = 500
)

// jobContentSelectors are tried in order against the fetched page; the first
// one that matches is taken as the posting body.
var jobContentSelectors = []string{
	".job-description",
	".job-content",
	"#job-description",
	".posting-content",
	".job-details",
	"[data-testid='job-description']",
	"main",
	"article",
	".content",
	"#content",
}

// Fetcher retrieves and extracts job descriptions from URLs
type Fetcher struct {
	client  *http.Client
	logger  *zap.Logger
	browser bool
}

// NewFetcher creates a fetcher. When browser is true, pages whose extracted
// text is too short are re-fetched through headless Chrome.
func NewFetcher(logger *zap.Logger, browser bool) *Fetcher {
	return &Fetcher{
		client:  &http.Client{Timeout: fetchTimeout},
		logger:  logger,
		browser: browser,
	}
}

// FetchJobDescription retrieves the page at urlStr and extracts the job
// description text
func (f *Fetcher) FetchJobDescription(ctx context.Context, urlStr string) (string, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("invalid job URL %q", urlStr)
	}

	html, err := f.fetch(ctx, urlStr)
	if err != nil {
		return "", err
	}

	text, err := ExtractJobText(html)
	if err != nil {
		return "", err
	}

	if f.browser && len(strings.TrimSpace(text)) < minDescriptionLength {
		f.logger.Info("extracted text too short, rendering in browser",
			zap.String("url", urlStr), zap.Int("length", len(text)))
		rendered, err := renderWithBrowser(ctx, urlStr)
		if err != nil {
			f.logger.Warn("browser rendering failed, keeping plain fetch result",
				zap.String("url", urlStr), zap.Error(err))
		} else if renderedText, err := ExtractJobText(rendered); err == nil && len(renderedText) > len(text) {
			text = renderedText
		}
	}

	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no job description text found at %s", urlStr)
	}
	return text, nil
}

func (f *Fetcher) fetch(ctx context.Context, urlStr string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", urlStr, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch of %s returned HTTP %d", urlStr, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	return string(body), nil
}

// ExtractJobText parses HTML and returns the posting's main text with noise
// elements removed and whitespace normalized
func ExtractJobText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("nav, footer, header, script, style, noscript, .ad, .ads, .sidebar, .cookie-banner, .popup").Remove()

	var content *goquery.Selection
	for _, selector := range jobContentSelectors {
		if sel := doc.Find(selector); sel.Length() > 0 {
			content = sel.First()
			break
		}
	}
	if content == nil {
		content = doc.Find("body")
	}

	return normalizeWhitespace(content.Text()), nil
}

// normalizeWhitespace trims every line and drops blank ones
func normalizeWhitespace(text string) string {
	var cleaned []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
