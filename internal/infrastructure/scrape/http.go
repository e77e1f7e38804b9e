package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"research-crew/internal/application/port/output"
)

var _ output.ScraperPort = (*HTTPScraper)(nil)

// HTTPScraper fetches static pages without running their scripts.
type HTTPScraper struct {
	client    *http.Client
	userAgent string
	maxBytes  int64
	text      TextConfig
	logger    output.LoggerPort
}

type HTTPConfig struct {
	Timeout   time.Duration
	UserAgent string
	MaxBytes  int64
	Text      TextConfig
	Logger    output.LoggerPort
}

func DefaultHTTPConfig() HTTPConfig {
	return HTTPConfig{
		Timeout:   30 * time.Second,
		UserAgent: "Mozilla/5.0 (compatible; research-crew/1.0)",
		MaxBytes:  5 << 20,
		Text:      DefaultTextConfig,
	}
}

func NewHTTPScraper(cfg HTTPConfig) *HTTPScraper {
	return &HTTPScraper{
		client:    &http.Client{Timeout: cfg.Timeout},
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBytes,
		text:      cfg.Text,
		logger:    cfg.Logger,
	}
}

func (s *HTTPScraper) Scrape(ctx context.Context, rawURL string) (string, error) {
	u, err := validateURL(rawURL)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.5")

	start := time.Now()
	res, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", u, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return "", fmt.Errorf("fetch %s: unexpected status %s", u, res.Status)
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, s.maxBytes))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", u, err)
	}

	if s.logger != nil {
		s.logger.Debug("Page fetched", "url", u, "bytes", len(body), "duration", time.Since(start))
	}

	if strings.HasPrefix(res.Header.Get("Content-Type"), "text/plain") {
		return truncate(normalize(string(body)), s.text.MaxOutputSize), nil
	}

	page, err := ExtractText(string(body), &s.text)
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", u, err)
	}
	page.URL = u
	if strings.TrimSpace(page.Text) == "" {
		return "", fmt.Errorf("no readable text at %s", u)
	}

	return page.String(), nil
}

// validateURL accepts http(s) URLs and adds https:// to bare hosts.
func validateURL(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", fmt.Errorf("url is required")
	}
	if !strings.Contains(rawURL, "://") {
		rawURL = "https://" + rawURL
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid url %q: %w", rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported url scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid url %q: missing host", rawURL)
	}
	return u.String(), nil
}
