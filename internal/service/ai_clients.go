package service

import (
	"context"
	"fmt"

	"enjez/pkg/config"

	"go.uber.org/zap"
)

// AIClients owns the vendor clients behind the Embedder and Generator.
// A vendor used for both roles is constructed once.
type AIClients struct {
	Embedder  Embedder
	Generator Generator

	gemini   *GeminiClient
	gigachat *GigaChatClient
}

func NewAIClients(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*AIClients, error) {
	clients := &AIClients{}

	for _, provider := range []string{cfg.LLM.EmbeddingProvider, cfg.LLM.GenerationProvider} {
		switch provider {
		case config.ProviderGemini:
			if clients.gemini != nil {
				continue
			}
			c, err := NewGeminiClient(ctx, &cfg.Gemini, logger.Named("gemini"))
			if err != nil {
				clients.Close()
				return nil, err
			}
			clients.gemini = c
		case config.ProviderGigaChat:
			if clients.gigachat != nil {
				continue
			}
			c, err := NewGigaChatClient(ctx, &cfg.GigaChat, logger.Named("gigachat"))
			if err != nil {
				clients.Close()
				return nil, err
			}
			clients.gigachat = c
		default:
			clients.Close()
			return nil, fmt.Errorf("unknown AI provider %q", provider)
		}
	}

	if cfg.LLM.EmbeddingProvider == config.ProviderGemini {
		clients.Embedder = clients.gemini
	} else {
		clients.Embedder = clients.gigachat
	}

	if cfg.LLM.GenerationProvider == config.ProviderGemini {
		clients.Generator = clients.gemini
	} else {
		clients.Generator = clients.gigachat
	}

	return clients, nil
}

func (c *AIClients) Close() error {
	if c.gemini != nil {
		c.gemini.Close()
	}
	if c.gigachat != nil {
		c.gigachat.Close()
	}
	return nil
}
