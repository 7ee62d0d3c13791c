package repository

import (
	"testing"
	"time"

	"enjez/internal/models"

	"github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordFromPoint(t *testing.T) {
	price := 450.5
	rec := &models.KnowledgeRecord{
		ID:        "svc-sofa-cleaning",
		Text:      "Service Name: Sofa and Carpet Shampoo",
		Metadata:  models.KnowledgeMetadata{Name: "Sofa and Carpet Shampoo", Price: &price},
		CreatedAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name   string
		vector *qdrant.VectorOutput
	}{
		{
			name:   "legacy data field",
			vector: &qdrant.VectorOutput{Data: []float32{1, 0}},
		},
		{
			name: "dense vector",
			vector: &qdrant.VectorOutput{
				Vector: &qdrant.VectorOutput_Dense{Dense: &qdrant.DenseVector{Data: []float32{1, 0}}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			point := &qdrant.RetrievedPoint{
				Id:      pointID(rec.ID),
				Payload: qdrant.NewValueMap(recordPayload(rec)),
				Vectors: &qdrant.VectorsOutput{
					VectorsOptions: &qdrant.VectorsOutput_Vector{Vector: tt.vector},
				},
			}

			got := recordFromPoint(point)
			assert.Equal(t, []float32{1, 0}, got.Embedding)
			assert.Equal(t, rec.ID, got.ID)
			assert.Equal(t, rec.Text, got.Text)
			assert.Equal(t, rec.Metadata.Name, got.Metadata.Name)
			require.NotNil(t, got.Metadata.Price)
			assert.Equal(t, price, *got.Metadata.Price)
			assert.True(t, rec.CreatedAt.Equal(got.CreatedAt))
		})
	}
}

func TestRecordFromPointWithoutVector(t *testing.T) {
	point := &qdrant.RetrievedPoint{
		Payload: qdrant.NewValueMap(map[string]any{payloadID: "svc-ac-install", payloadName: "AC Installation"}),
	}

	got := recordFromPoint(point)
	assert.Empty(t, got.Embedding)
	assert.Nil(t, got.Metadata.Price)
	assert.Equal(t, "svc-ac-install", got.ID)
}
