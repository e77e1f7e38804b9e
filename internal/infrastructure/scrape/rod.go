package scrape

import (
	"context"
	"fmt"
	"sync"
	"time"

	"research-crew/internal/application/port/output"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

var _ output.ScraperPort = (*RodScraper)(nil)

// RodScraper renders pages in a headless Chrome before extracting text,
// for sites that build their content with JavaScript. The browser is
// launched on first use.
type RodScraper struct {
	cfg    RodConfig
	logger output.LoggerPort

	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
}

type RodConfig struct {
	Headless  bool
	NoSandbox bool
	Timeout   time.Duration
	IdleWait  time.Duration
	Text      TextConfig
	Logger    output.LoggerPort
}

func DefaultRodConfig() RodConfig {
	return RodConfig{
		Headless:  true,
		NoSandbox: true,
		Timeout:   45 * time.Second,
		IdleWait:  3 * time.Second,
		Text:      DefaultTextConfig,
	}
}

func NewRodScraper(cfg RodConfig) *RodScraper {
	return &RodScraper{cfg: cfg, logger: cfg.Logger}
}

func (s *RodScraper) connect() (*rod.Browser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.browser != nil {
		return s.browser, nil
	}

	l := launcher.New().
		Headless(s.cfg.Headless).
		NoSandbox(s.cfg.NoSandbox).
		Delete("use-mock-keychain").
		Set("disable-setuid-sandbox")

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect browser: %w", err)
	}

	s.browser = browser
	s.launcher = l
	return browser, nil
}

func (s *RodScraper) Scrape(ctx context.Context, rawURL string) (string, error) {
	u, err := validateURL(rawURL)
	if err != nil {
		return "", err
	}

	browser, err := s.connect()
	if err != nil {
		return "", err
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return "", fmt.Errorf("open page: %w", err)
	}
	defer page.Close()

	page = page.Context(ctx).Timeout(s.cfg.Timeout)

	if err := page.Navigate(u); err != nil {
		return "", fmt.Errorf("navigation failed: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", fmt.Errorf("wait load: %w", err)
	}
	_ = page.WaitIdle(s.cfg.IdleWait)

	raw, err := page.HTML()
	if err != nil {
		return "", fmt.Errorf("read page html: %w", err)
	}

	extracted, err := ExtractText(raw, &s.cfg.Text)
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", u, err)
	}
	extracted.URL = u

	if s.logger != nil {
		s.logger.Debug("Page rendered", "url", u, "textLen", len(extracted.Text))
	}

	return extracted.String(), nil
}

func (s *RodScraper) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.browser != nil {
		_ = s.browser.Close()
		s.browser = nil
	}
	if s.launcher != nil {
		s.launcher.Kill()
		s.launcher.Cleanup()
		s.launcher = nil
	}
}
