package memory

import (
	"context"
	"sync"
	"time"

	"research-crew/internal/application/port/output"
	"research-crew/internal/domain/entity"
)

var _ output.MemoryStore = (*ShortTerm)(nil)

// ShortTerm keeps task outputs in process. Nothing survives a restart.
type ShortTerm struct {
	mu    sync.RWMutex
	items []entity.MemoryItem
}

func NewShortTerm() *ShortTerm {
	return &ShortTerm{}
}

func (m *ShortTerm) Save(_ context.Context, item entity.MemoryItem) error {
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}

	m.mu.Lock()
	m.items = append(m.items, item)
	m.mu.Unlock()
	return nil
}

func (m *ShortTerm) Search(_ context.Context, embedding []float32, limit int) ([]entity.MemoryMatch, error) {
	m.mu.RLock()
	items := make([]entity.MemoryItem, len(m.items))
	copy(items, m.items)
	m.mu.RUnlock()

	return rank(items, embedding, limit), nil
}

func (m *ShortTerm) Close() error { return nil }
