package embedding

import (
	"testing"

	"research-crew/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Providers(t *testing.T) {
	_, err := New(entity.EmbedderConfig{})
	assert.ErrorContains(t, err, "not set")

	_, err = New(entity.EmbedderConfig{Provider: "openai", Model: "text-embedding-3-small"})
	assert.ErrorContains(t, err, "unsupported")

	_, err = New(entity.EmbedderConfig{Provider: "ollama"})
	assert.ErrorContains(t, err, "model is required")

	emb, err := New(entity.EmbedderConfig{Provider: "Ollama", Model: "mxbai-embed-large", BaseURL: "http://localhost:11434"})
	require.NoError(t, err)
	assert.NotNil(t, emb)
}
