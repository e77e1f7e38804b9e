package output

import (
	"context"

	"research-crew/internal/domain/entity"
)

type ToolPort interface {
	Name() entity.ToolName
	Description() string
	Parameters() map[string]interface{}
	Execute(ctx context.Context, arguments string) (string, error)
}

type ToolRegistry interface {
	Register(tool ToolPort)
	Get(name entity.ToolName) (ToolPort, bool)
	All() []ToolPort
	Definitions() []entity.ToolDefinition
}

// SearchPort returns free-text results for a query.
type SearchPort interface {
	Search(ctx context.Context, query string) (string, error)
}

// ScraperPort returns readable page text for a URL.
type ScraperPort interface {
	Scrape(ctx context.Context, url string) (string, error)
}

// ToolCache stores tool observations keyed by tool name and raw arguments.
type ToolCache interface {
	Do(ctx context.Context, tool entity.ToolName, arguments string, fn func() (string, error)) (string, error)
}
