package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"enjez/internal/dto"
	"enjez/internal/models"
	"enjez/pkg/config"

	"go.uber.org/zap"
)

const (
	MessageInitializing = "System is initializing the database. Please ask again in a few seconds."
	MessageNoMatch      = "Sorry, I couldn't find any service matching your request."
	MessageFailure      = "An error occurred while processing your request."
	MessageNoAnswer     = "I couldn't find an accurate answer."
)

var errEmptyAnswer = errors.New("generator returned an empty answer")

// RAGService answers customer questions from the indexed services catalog.
type RAGService struct {
	initializer Initializer
	store       KnowledgeStore
	embedder    Embedder
	generator   Generator
	config      *config.RAGConfig
	logger      *zap.Logger
}

func NewRAGService(
	initializer Initializer,
	store KnowledgeStore,
	embedder Embedder,
	generator Generator,
	cfg *config.RAGConfig,
	logger *zap.Logger,
) *RAGService {
	return &RAGService{
		initializer: initializer,
		store:       store,
		embedder:    embedder,
		generator:   generator,
		config:      cfg,
		logger:      logger,
	}
}

// Answer never returns an error: every failure is folded into the response
// status so callers have a single path to render.
func (s *RAGService) Answer(ctx context.Context, question string, topK int) *dto.ChatResponse {
	if topK <= 0 {
		topK = s.config.TopK
	}
	question = sanitizeUTF8(strings.TrimSpace(question))

	state := s.initializer.EnsureInitialized(ctx)
	s.logger.Debug("Knowledge base state",
		zap.String("status", string(state.Status)),
		zap.Int("processed", state.Processed),
		zap.String("error", state.Error),
	)

	queryEmbedding, err := s.embedder.Embed(ctx, question)
	if err != nil {
		s.logger.Error("Failed to embed question", zap.Error(err))
		return degraded(MessageFailure, nil, dto.ErrorKindEmbeddingFailed)
	}

	records, err := s.store.ListAll(ctx)
	if err != nil {
		s.logger.Error("Failed to load knowledge base", zap.Error(err))
		return degraded(MessageFailure, nil, dto.ErrorKindStoreFailed)
	}

	if len(records) == 0 {
		return &dto.ChatResponse{
			Answer:  MessageInitializing,
			Sources: []*models.ScoredRecord{},
			Status:  dto.AnswerStatusInitializing,
		}
	}

	results := s.rank(queryEmbedding, records, topK)
	if len(results) == 0 {
		return &dto.ChatResponse{
			Answer:  MessageNoMatch,
			Sources: []*models.ScoredRecord{},
			Status:  dto.AnswerStatusNoMatch,
		}
	}

	answer, err := s.generator.Generate(ctx, BuildPrompt(question, results))
	if err == nil && strings.TrimSpace(answer) == "" {
		err = errEmptyAnswer
	}
	if err != nil {
		s.logger.Error("Failed to generate answer", zap.Error(err))
		return degraded(MessageNoAnswer, results, dto.ErrorKindGenerationFailed)
	}
	answer = strings.TrimSpace(answer)

	s.logger.Info("Question answered",
		zap.Int("candidates", len(records)),
		zap.Int("sources", len(results)),
		zap.Float64("top_score", results[0].Score),
	)

	return &dto.ChatResponse{
		Answer:  answer,
		Sources: results,
		Status:  dto.AnswerStatusAnswered,
	}
}

// rank keeps records scoring strictly above the relevance threshold,
// best first, at most topK of them.
func (s *RAGService) rank(query []float32, records []*models.KnowledgeRecord, topK int) []*models.ScoredRecord {
	scored := make([]*models.ScoredRecord, 0, len(records))
	for _, rec := range records {
		if len(rec.Embedding) == 0 {
			continue
		}

		score, err := CosineSimilarity(query, rec.Embedding)
		if err != nil {
			s.logger.Debug("Skipping knowledge record", zap.String("id", rec.ID), zap.Error(err))
			continue
		}

		if score > s.config.RelevanceThreshold {
			scored = append(scored, &models.ScoredRecord{KnowledgeRecord: rec, Score: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > topK {
		scored = scored[:topK]
	}
	return scored
}

// BuildPrompt assembles the generation prompt from ranked results.
func BuildPrompt(question string, results []*models.ScoredRecord) string {
	blocks := make([]string, 0, len(results))
	for i, r := range results {
		blocks = append(blocks, fmt.Sprintf("Service %d: %s", i+1, r.Text))
	}

	var b strings.Builder
	b.WriteString("You are a smart assistant for the \"Enjez\" platform. Use the following service information to answer the customer's question.\n\n")
	b.WriteString("Available Services:\n")
	b.WriteString(strings.Join(blocks, "\n\n"))
	b.WriteString("\n\nCustomer Question: ")
	b.WriteString(question)
	b.WriteString("\n\nAnswer politely and concisely in English, and mention the service name and price if available.")
	return b.String()
}

func degraded(answer string, sources []*models.ScoredRecord, kind dto.ErrorKind) *dto.ChatResponse {
	if sources == nil {
		sources = []*models.ScoredRecord{}
	}
	return &dto.ChatResponse{
		Answer:    answer,
		Sources:   sources,
		Status:    dto.AnswerStatusDegraded,
		ErrorKind: kind,
	}
}
