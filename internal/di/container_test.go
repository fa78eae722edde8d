package di

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-agent/internal/infra/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestNewApplicationComponents_WithoutDatabase(t *testing.T) {
	cfg := config.Load()
	cfg.Sources.MarkdownDir = t.TempDir()
	cfg.Sources.SyncInterval = 5
	cfg.WebSearch.APIKey = "brave-key"
	cfg.Meili.Host = ""

	components, err := NewApplicationComponents(cfg, nil, nil, nil, testLogger())
	require.NoError(t, err)

	assert.NotNil(t, components.GenerateUsecase)
	assert.NotNil(t, components.Aggregator)
	assert.Len(t, components.FileSources, 1)
	assert.Nil(t, components.PostRepo)
	assert.Nil(t, components.IngestUsecase)
	assert.Nil(t, components.Worker)
}

func TestNewGenerationClient(t *testing.T) {
	cfg := config.Load()
	cfg.LLM.Provider = config.ProviderOpenAI
	cfg.LLM.APIKey = ""
	_, err := NewGenerationClient(cfg, testLogger())
	assert.Error(t, err)

	cfg.LLM.APIKey = "sk-test"
	client, err := NewGenerationClient(cfg, testLogger())
	require.NoError(t, err)
	assert.NotNil(t, client)

	cfg.LLM.Provider = config.ProviderOllama
	cfg.LLM.BaseURL = "http://localhost:11434"
	cfg.LLM.Model = "gemma3"
	client, err = NewGenerationClient(cfg, testLogger())
	require.NoError(t, err)
	assert.Equal(t, "ollama:gemma3", client.Version())
}
