package models

import "time"

// KnowledgeMetadata is kept next to the text for display and citation.
type KnowledgeMetadata struct {
	Name  string   `json:"name,omitempty"`
	Price *float64 `json:"price,omitempty"`
}

// KnowledgeRecord is the retrieval document of one catalog service.
// ID equals the service id; a rebuild overwrites the record in place.
type KnowledgeRecord struct {
	ID        string            `db:"id" json:"id"`
	Text      string            `db:"text" json:"text"`
	Embedding []float32         `db:"embedding" json:"-"`
	Metadata  KnowledgeMetadata `db:"metadata" json:"metadata"`
	CreatedAt time.Time         `db:"created_at" json:"created_at"`
}

// ScoredRecord only lives for the duration of one query.
type ScoredRecord struct {
	*KnowledgeRecord
	Score float64 `json:"score"`
}
