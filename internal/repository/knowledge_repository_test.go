package repository

import (
	"testing"
	"time"

	"enjez/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertKnowledgeQuery(t *testing.T) {
	price := 150.0
	rec := &models.KnowledgeRecord{
		ID:        "svc-1",
		Text:      "Service Name: Cleaning",
		Embedding: []float32{0.1, 0.2},
		Metadata:  models.KnowledgeMetadata{Name: "Cleaning", Price: &price},
		CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	sql, args, err := upsertKnowledgeQuery(rec).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "INSERT INTO knowledge_base")
	assert.Contains(t, sql, "$5")
	assert.Contains(t, sql, "ON CONFLICT (id) DO UPDATE SET text = EXCLUDED.text")
	require.Len(t, args, 5)
	assert.Equal(t, "svc-1", args[0])
	assert.Equal(t, rec.Metadata, args[3])
}

func TestPointIDIsStablePerRecord(t *testing.T) {
	a := pointID("svc-1").GetUuid()
	b := pointID("svc-1").GetUuid()
	c := pointID("svc-2").GetUuid()

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	_, err := uuid.Parse(a)
	assert.NoError(t, err)
}

func TestRecordPayloadOmitsMissingPrice(t *testing.T) {
	rec := &models.KnowledgeRecord{ID: "svc-1", Text: "t", Metadata: models.KnowledgeMetadata{Name: "n"}}

	payload := recordPayload(rec)

	assert.Equal(t, "svc-1", payload[payloadID])
	assert.Equal(t, "n", payload[payloadName])
	_, hasPrice := payload[payloadPrice]
	assert.False(t, hasPrice)
}
