package cache

import (
	"context"
	"sync"

	"research-crew/internal/application/port/output"
	"research-crew/internal/domain/entity"

	"golang.org/x/sync/singleflight"
)

var _ output.ToolCache = (*ToolCache)(nil)

// ToolCache remembers successful tool observations for the lifetime of a
// run. Failures are never cached.
type ToolCache struct {
	mu      sync.RWMutex
	entries map[string]string
	group   singleflight.Group

	hits   int
	misses int
}

func NewToolCache() *ToolCache {
	return &ToolCache{entries: make(map[string]string)}
}

func key(tool entity.ToolName, arguments string) string {
	return string(tool) + "\x00" + arguments
}

func (c *ToolCache) Do(ctx context.Context, tool entity.ToolName, arguments string, fn func() (string, error)) (string, error) {
	k := key(tool, arguments)

	c.mu.Lock()
	if v, ok := c.entries[k]; ok {
		c.hits++
		c.mu.Unlock()
		return v, nil
	}
	c.misses++
	c.mu.Unlock()

	v, err, _ := c.group.Do(k, func() (interface{}, error) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		res, err := fn()
		if err != nil {
			return "", err
		}

		c.mu.Lock()
		c.entries[k] = res
		c.mu.Unlock()
		return res, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Stats reports hits and misses since creation.
func (c *ToolCache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}

func (c *ToolCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
