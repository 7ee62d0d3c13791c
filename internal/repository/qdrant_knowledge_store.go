package repository

import (
	"context"
	"fmt"
	"time"

	"enjez/internal/models"
	"enjez/pkg/config"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"
)

// point ids must be UUIDs or integers; record ids are mapped with UUIDv5
var knowledgeNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("enjez/knowledge"))

const (
	payloadID        = "record_id"
	payloadText      = "text"
	payloadName      = "name"
	payloadPrice     = "price"
	payloadCreatedAt = "created_at"
)

// QdrantKnowledgeStore keeps knowledge records as points of a Qdrant collection.
type QdrantKnowledgeStore struct {
	client     *qdrant.Client
	collection string
	logger     *zap.Logger
}

func NewQdrantKnowledgeStore(ctx context.Context, cfg *config.QdrantConfig, logger *zap.Logger) (*QdrantKnowledgeStore, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.APIKey,
		UseTLS: cfg.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	s := &QdrantKnowledgeStore{
		client:     client,
		collection: cfg.Collection,
		logger:     logger,
	}

	if err := s.ensureCollection(ctx, cfg.VectorSize); err != nil {
		client.Close()
		return nil, err
	}

	return s, nil
}

func (s *QdrantKnowledgeStore) ensureCollection(ctx context.Context, vectorSize int) error {
	exists, err := s.client.CollectionExists(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("failed to check qdrant collection: %w", err)
	}
	if exists {
		return nil
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: &qdrant.VectorsConfig{
			Config: &qdrant.VectorsConfig_Params{
				Params: &qdrant.VectorParams{
					Size:     uint64(vectorSize),
					Distance: qdrant.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create qdrant collection %s: %w", s.collection, err)
	}

	s.logger.Info("Qdrant collection created",
		zap.String("collection", s.collection),
		zap.Int("vector_size", vectorSize),
	)
	return nil
}

func pointID(recordID string) *qdrant.PointId {
	return qdrant.NewIDUUID(uuid.NewSHA1(knowledgeNamespace, []byte(recordID)).String())
}

func recordPayload(rec *models.KnowledgeRecord) map[string]any {
	payload := map[string]any{
		payloadID:        rec.ID,
		payloadText:      rec.Text,
		payloadName:      rec.Metadata.Name,
		payloadCreatedAt: rec.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	if rec.Metadata.Price != nil {
		payload[payloadPrice] = *rec.Metadata.Price
	}
	return payload
}

func recordFromPoint(p *qdrant.RetrievedPoint) *models.KnowledgeRecord {
	payload := p.GetPayload()
	rec := &models.KnowledgeRecord{
		ID:   payload[payloadID].GetStringValue(),
		Text: payload[payloadText].GetStringValue(),
		Metadata: models.KnowledgeMetadata{
			Name: payload[payloadName].GetStringValue(),
		},
	}
	if v, ok := payload[payloadPrice]; ok {
		price := v.GetDoubleValue()
		rec.Metadata.Price = &price
	}
	if t, err := time.Parse(time.RFC3339Nano, payload[payloadCreatedAt].GetStringValue()); err == nil {
		rec.CreatedAt = t
	}
	// accepts both the legacy data field and the dense oneof
	if v := p.GetVectors().GetVector().GetDenseVector(); v != nil {
		rec.Embedding = v.GetData()
	}
	return rec
}

func (s *QdrantKnowledgeStore) Upsert(ctx context.Context, rec *models.KnowledgeRecord) error {
	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Wait:           qdrant.PtrOf(true),
		Points: []*qdrant.PointStruct{
			{
				Id:      pointID(rec.ID),
				Vectors: qdrant.NewVectors(rec.Embedding...),
				Payload: qdrant.NewValueMap(recordPayload(rec)),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert knowledge point %s: %w", rec.ID, err)
	}
	return nil
}

func (s *QdrantKnowledgeStore) count(ctx context.Context) (uint64, error) {
	n, err := s.client.Count(ctx, &qdrant.CountPoints{
		CollectionName: s.collection,
		Exact:          qdrant.PtrOf(true),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count knowledge points: %w", err)
	}
	return n, nil
}

func (s *QdrantKnowledgeStore) Exists(ctx context.Context) (bool, error) {
	n, err := s.count(ctx)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *QdrantKnowledgeStore) scroll(ctx context.Context, withVectors bool) ([]*qdrant.RetrievedPoint, error) {
	n, err := s.count(ctx)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}

	limit := uint32(n)
	points, err := s.client.Scroll(ctx, &qdrant.ScrollPoints{
		CollectionName: s.collection,
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
		WithVectors:    qdrant.NewWithVectors(withVectors),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scroll knowledge points: %w", err)
	}
	return points, nil
}

func (s *QdrantKnowledgeStore) ListAll(ctx context.Context) ([]*models.KnowledgeRecord, error) {
	points, err := s.scroll(ctx, true)
	if err != nil {
		return nil, err
	}

	records := make([]*models.KnowledgeRecord, 0, len(points))
	for _, p := range points {
		records = append(records, recordFromPoint(p))
	}
	return records, nil
}

func (s *QdrantKnowledgeStore) ListIDs(ctx context.Context) ([]string, error) {
	points, err := s.scroll(ctx, false)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(points))
	for _, p := range points {
		ids = append(ids, p.GetPayload()[payloadID].GetStringValue())
	}
	return ids, nil
}

func (s *QdrantKnowledgeStore) Delete(ctx context.Context, id string) error {
	_, err := s.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: s.collection,
		Wait:           qdrant.PtrOf(true),
		Points:         qdrant.NewPointsSelector(pointID(id)),
	})
	if err != nil {
		return fmt.Errorf("failed to delete knowledge point %s: %w", id, err)
	}
	return nil
}

func (s *QdrantKnowledgeStore) Close() error {
	return s.client.Close()
}
