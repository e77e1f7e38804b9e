package output

import (
	"context"

	"research-crew/internal/domain/entity"
)

type EmbedderPort interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
}

type MemoryStore interface {
	Save(ctx context.Context, item entity.MemoryItem) error
	Search(ctx context.Context, embedding []float32, limit int) ([]entity.MemoryMatch, error)
	Close() error
}
