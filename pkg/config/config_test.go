package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("RAG_TOP_K", "")
	t.Setenv("RAG_RELEVANCE_THRESHOLD", "")
	t.Setenv("KNOWLEDGE_STORE", "")
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("EMBEDDING_PROVIDER", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.RAG.TopK)
	assert.InDelta(t, 0.35, cfg.RAG.RelevanceThreshold, 1e-9)
	assert.Equal(t, StorePostgres, cfg.RAG.KnowledgeStore)
	assert.Equal(t, ProviderGemini, cfg.LLM.GenerationProvider)
	assert.Equal(t, "text-embedding-004", cfg.Gemini.EmbeddingModel)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("RAG_TOP_K", "5")
	t.Setenv("KNOWLEDGE_STORE", "qdrant")
	t.Setenv("LLM_PROVIDER", "gigachat")
	t.Setenv("RAG_WARMUP_ON_START", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.RAG.TopK)
	assert.Equal(t, StoreQdrant, cfg.RAG.KnowledgeStore)
	assert.Equal(t, ProviderGigaChat, cfg.LLM.GenerationProvider)
	assert.False(t, cfg.RAG.WarmupOnStart)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			LLM: LLMConfig{GenerationProvider: ProviderGemini, EmbeddingProvider: ProviderGigaChat},
			RAG: RAGConfig{TopK: 3, KnowledgeStore: StorePostgres},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "unknown provider", mutate: func(c *Config) { c.LLM.EmbeddingProvider = "openai" }, wantErr: "unknown AI provider"},
		{name: "unknown store", mutate: func(c *Config) { c.RAG.KnowledgeStore = "redis" }, wantErr: "unknown knowledge store"},
		{name: "zero top k", mutate: func(c *Config) { c.RAG.TopK = 0 }, wantErr: "RAG_TOP_K"},
		{
			name: "qdrant without vector size",
			mutate: func(c *Config) {
				c.RAG.KnowledgeStore = StoreQdrant
				c.Qdrant.VectorSize = 0
			},
			wantErr: "QDRANT_VECTOR_SIZE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
