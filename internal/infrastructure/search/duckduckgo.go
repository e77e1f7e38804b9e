package search

import (
	"context"
	"fmt"
	"strings"

	"research-crew/internal/application/port/output"

	"github.com/tmc/langchaingo/tools/duckduckgo"
)

const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

var _ output.SearchPort = (*DuckDuckGo)(nil)

type caller interface {
	Call(ctx context.Context, input string) (string, error)
}

// DuckDuckGo runs web searches through the langchaingo DuckDuckGo tool.
type DuckDuckGo struct {
	tool   caller
	logger output.LoggerPort
}

type Config struct {
	MaxResults int
	UserAgent  string
	Logger     output.LoggerPort
}

func DefaultConfig() Config {
	return Config{
		MaxResults: 5,
		UserAgent:  DefaultUserAgent,
	}
}

func NewDuckDuckGo(cfg Config) (*DuckDuckGo, error) {
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 5
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	tool, err := duckduckgo.New(cfg.MaxResults, cfg.UserAgent)
	if err != nil {
		return nil, fmt.Errorf("create duckduckgo tool: %w", err)
	}

	return &DuckDuckGo{tool: tool, logger: cfg.Logger}, nil
}

func (d *DuckDuckGo) Search(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", fmt.Errorf("search query is empty")
	}

	if d.logger != nil {
		d.logger.Debug("DuckDuckGo search", "query", query)
	}

	result, err := d.tool.Call(ctx, query)
	if err != nil {
		return "", fmt.Errorf("duckduckgo search failed: %w", err)
	}
	if strings.TrimSpace(result) == "" {
		return "", fmt.Errorf("duckduckgo returned no results for %q", query)
	}

	return result, nil
}
