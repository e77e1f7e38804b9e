package embedding

import (
	"fmt"
	"strings"

	"research-crew/internal/application/port/output"
	"research-crew/internal/domain/entity"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"
)

const ProviderOllama = "ollama"

// New builds the embedder named by cfg.Provider.
func New(cfg entity.EmbedderConfig) (output.EmbedderPort, error) {
	switch strings.ToLower(cfg.Provider) {
	case ProviderOllama:
		return newOllama(cfg)
	case "":
		return nil, fmt.Errorf("embedder provider is not set")
	default:
		return nil, fmt.Errorf("unsupported embedder provider %q", cfg.Provider)
	}
}

func newOllama(cfg entity.EmbedderConfig) (output.EmbedderPort, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("ollama embedder: model is required")
	}

	opts := []ollama.Option{ollama.WithModel(cfg.Model)}
	if cfg.BaseURL != "" {
		opts = append(opts, ollama.WithServerURL(cfg.BaseURL))
	}

	client, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("ollama embedder: %w", err)
	}

	emb, err := embeddings.NewEmbedder(client)
	if err != nil {
		return nil, fmt.Errorf("ollama embedder: %w", err)
	}
	return emb, nil
}
