package tool

import (
	"context"

	"research-crew/internal/application/port/output"
	"research-crew/internal/domain/entity"
)

var _ output.ToolPort = (*CachedTool)(nil)

// CachedTool serves repeated identical calls from the run's tool cache.
type CachedTool struct {
	output.ToolPort
	cache output.ToolCache
}

func NewCachedTool(tool output.ToolPort, cache output.ToolCache) *CachedTool {
	return &CachedTool{ToolPort: tool, cache: cache}
}

func (t *CachedTool) Execute(ctx context.Context, args string) (string, error) {
	return t.cache.Do(ctx, t.Name(), args, func() (string, error) {
		return t.ToolPort.Execute(ctx, args)
	})
}

// WithCache wraps every tool of the registry except delegation tools,
// whose answers depend on the asking agent.
func WithCache(registry output.ToolRegistry, cache output.ToolCache) {
	for _, t := range registry.All() {
		if t.Name() == entity.ToolDelegateWork || t.Name() == entity.ToolAskCoworker {
			continue
		}
		if _, already := t.(*CachedTool); already {
			continue
		}
		registry.Register(NewCachedTool(t, cache))
	}
}
