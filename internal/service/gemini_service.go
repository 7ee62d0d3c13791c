package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"enjez/pkg/config"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const assistantInstruction = `You are the customer assistant of Enjez, a home services marketplace in Egypt. Only recommend services that appear in the provided service information. Quote prices in EGP exactly as given and never invent a price.`

var ErrEmptyText = errors.New("text to embed is empty")

// GeminiClient embeds and generates text with the Gemini API.
type GeminiClient struct {
	client *genai.Client
	config *config.GeminiConfig
	logger *zap.Logger
}

func NewGeminiClient(ctx context.Context, cfg *config.GeminiConfig, logger *zap.Logger) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required for the gemini provider")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	logger.Info("Gemini client initialized",
		zap.String("chat_model", cfg.ChatModel),
		zap.String("embedding_model", cfg.EmbeddingModel),
	)

	return &GeminiClient{
		client: client,
		config: cfg,
		logger: logger,
	}, nil
}

func (g *GeminiClient) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	var embedConfig *genai.EmbedContentConfig
	if g.config.EmbeddingDimension > 0 {
		dim := int32(g.config.EmbeddingDimension)
		embedConfig = &genai.EmbedContentConfig{OutputDimensionality: &dim}
	}

	result, err := g.client.Models.EmbedContent(ctx, g.config.EmbeddingModel,
		[]*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}, embedConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to embed text: %w", err)
	}

	if result == nil || len(result.Embeddings) == 0 || len(result.Embeddings[0].Values) == 0 {
		return nil, fmt.Errorf("no embedding returned from Gemini")
	}

	return result.Embeddings[0].Values, nil
}

func (g *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	genConfig := &genai.GenerateContentConfig{
		Temperature:       genai.Ptr(g.config.Temperature),
		SystemInstruction: genai.NewContentFromText(assistantInstruction, genai.RoleUser),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.config.ChatModel,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}, genConfig)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	var out strings.Builder
	if resp != nil {
		for _, candidate := range resp.Candidates {
			if candidate.Content == nil {
				continue
			}
			for _, part := range candidate.Content.Parts {
				out.WriteString(part.Text)
			}
			if out.Len() > 0 {
				break
			}
		}
	}

	if out.Len() == 0 {
		return "", fmt.Errorf("no response from Gemini")
	}

	return out.String(), nil
}

// Close is a no-op; genai.Client holds no resources that need releasing.
func (g *GeminiClient) Close() error {
	return nil
}
