package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"research-crew/internal/application/port/output"
	"research-crew/internal/domain/entity"
)

var (
	_ output.ToolPort = (*SearchTool)(nil)
	_ output.ToolPort = (*ScrapeTool)(nil)
)

type SearchTool struct {
	search output.SearchPort
	logger output.LoggerPort
}

func NewSearchTool(search output.SearchPort, logger output.LoggerPort) *SearchTool {
	return &SearchTool{search: search, logger: logger}
}

func (t *SearchTool) Name() entity.ToolName { return entity.ToolWebSearch }

func (t *SearchTool) Description() string {
	return "Search the internet for up-to-date information. Returns titles, links and snippets of the top results. Use short, specific queries; follow up with web_scrape on the most relevant link to read the full page."
}

func (t *SearchTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"query": map[string]interface{}{
				"type":        "string",
				"description": "Search query",
			},
		},
		"required": []string{"query"},
	}
}

func (t *SearchTool) Execute(ctx context.Context, args string) (string, error) {
	var input struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal([]byte(args), &input); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}
	if strings.TrimSpace(input.Query) == "" {
		return "", fmt.Errorf("query parameter is required")
	}

	t.logger.Info("Searching the web", "query", input.Query)
	return t.search.Search(ctx, input.Query)
}

type ScrapeTool struct {
	scraper output.ScraperPort
	logger  output.LoggerPort
}

func NewScrapeTool(scraper output.ScraperPort, logger output.LoggerPort) *ScrapeTool {
	return &ScrapeTool{scraper: scraper, logger: logger}
}

func (t *ScrapeTool) Name() entity.ToolName { return entity.ToolWebScrape }

func (t *ScrapeTool) Description() string {
	return "Read the text content of a web page. Accepts a full URL (https://example.com/page). Returns the page title and readable text with scripts, styles and navigation removed."
}

func (t *ScrapeTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"url": map[string]interface{}{
				"type":        "string",
				"description": "Full URL of the page to read. Must include protocol (https:// or http://).",
			},
		},
		"required": []string{"url"},
	}
}

func (t *ScrapeTool) Execute(ctx context.Context, args string) (string, error) {
	var input struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal([]byte(args), &input); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}
	if input.URL == "" {
		return "", fmt.Errorf("url parameter is required")
	}

	t.logger.Info("Scraping page", "url", input.URL)
	return t.scraper.Scrape(ctx, input.URL)
}
