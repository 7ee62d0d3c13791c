package dto

import "enjez/internal/models"

type AnswerStatus string

const (
	AnswerStatusAnswered     AnswerStatus = "answered"
	AnswerStatusInitializing AnswerStatus = "initializing"
	AnswerStatusNoMatch      AnswerStatus = "no_match"
	AnswerStatusDegraded     AnswerStatus = "degraded"
)

// ErrorKind names the failed step when Status is degraded.
type ErrorKind string

const (
	ErrorKindNone             ErrorKind = ""
	ErrorKindEmbeddingFailed  ErrorKind = "embedding_failed"
	ErrorKindStoreFailed      ErrorKind = "store_failed"
	ErrorKindGenerationFailed ErrorKind = "generation_failed"
)

type ChatRequest struct {
	Question string `json:"question" validate:"required,max=2000"`
	TopK     int    `json:"top_k" validate:"omitempty,min=1,max=20"`
}

type ChatResponse struct {
	Answer    string                 `json:"answer"`
	Sources   []*models.ScoredRecord `json:"sources"`
	Status    AnswerStatus           `json:"status"`
	ErrorKind ErrorKind              `json:"error_kind,omitempty"`
}

type RebuildResponse struct {
	Processed int      `json:"processed"`
	Failed    []string `json:"failed,omitempty"`
	NoItems   bool     `json:"no_items,omitempty"`
	Pruned    int      `json:"pruned,omitempty"`
}
