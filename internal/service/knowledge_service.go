package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"enjez/internal/dto"
	"enjez/internal/models"
	"enjez/internal/repository"
	"enjez/pkg/config"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type InitStatus string

const (
	InitStatusReady     InitStatus = "ready"
	InitStatusProcessed InitStatus = "processed"
	InitStatusError     InitStatus = "error"
)

type InitResult struct {
	Status    InitStatus `json:"status"`
	Processed int        `json:"processed,omitempty"`
	Error     string     `json:"error,omitempty"`
}

type RebuildResult struct {
	Processed int
	Failed    []string
	NoItems   bool
	Pruned    int
}

func (r *RebuildResult) Response() *dto.RebuildResponse {
	return &dto.RebuildResponse{
		Processed: r.Processed,
		Failed:    r.Failed,
		NoItems:   r.NoItems,
		Pruned:    r.Pruned,
	}
}

// KnowledgeService builds the retrieval corpus from the services catalog.
type KnowledgeService struct {
	catalog  CatalogSource
	store    KnowledgeStore
	embedder Embedder
	config   *config.RAGConfig
	logger   *zap.Logger
	group    singleflight.Group
	now      func() time.Time
}

func NewKnowledgeService(
	catalog CatalogSource,
	store KnowledgeStore,
	embedder Embedder,
	cfg *config.RAGConfig,
	logger *zap.Logger,
) *KnowledgeService {
	return &KnowledgeService{
		catalog:  catalog,
		store:    store,
		embedder: embedder,
		config:   cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// RenderServiceText is the document text embedded for a catalog service.
// Missing fields render empty; a zero price counts as missing.
func RenderServiceText(svc *models.Service) string {
	return fmt.Sprintf("Service Name: %s\nDescription: %s\nPrice: %s EGP",
		svc.Name, svc.Description, formatPrice(svc.Price))
}

func formatPrice(price *float64) string {
	if price == nil || *price == 0 {
		return ""
	}
	return strconv.FormatFloat(*price, 'f', -1, 64)
}

func (s *KnowledgeService) buildRecord(ctx context.Context, svc *models.Service) (*models.KnowledgeRecord, error) {
	text := sanitizeUTF8(RenderServiceText(svc))

	embedding, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to embed service %s: %w", svc.ID, err)
	}

	meta := models.KnowledgeMetadata{Name: svc.Name}
	if svc.Price != nil && *svc.Price != 0 {
		p := *svc.Price
		meta.Price = &p
	}

	return &models.KnowledgeRecord{
		ID:        svc.ID,
		Text:      text,
		Embedding: embedding,
		Metadata:  meta,
		CreatedAt: s.now().UTC(),
	}, nil
}

// RebuildAll re-indexes every catalog service. A failing item is logged and
// skipped; only a catalog read failure aborts the run.
func (s *KnowledgeService) RebuildAll(ctx context.Context) (*RebuildResult, error) {
	s.logger.Info("Starting knowledge base rebuild")

	services, err := s.catalog.ListServices(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read services catalog: %w", err)
	}

	result := &RebuildResult{}
	if len(services) == 0 {
		s.logger.Info("No services found in the catalog, nothing to index")
		result.NoItems = true
		return result, nil
	}

	for _, svc := range services {
		rec, err := s.buildRecord(ctx, svc)
		if err == nil {
			err = s.store.Upsert(ctx, rec)
		}
		if err != nil {
			s.logger.Error("Failed to index service", zap.String("service_id", svc.ID), zap.Error(err))
			result.Failed = append(result.Failed, svc.ID)
			continue
		}
		result.Processed++
	}

	if s.config.PruneOrphans {
		pruned, err := s.pruneAgainst(ctx, services)
		if err != nil {
			s.logger.Warn("Failed to prune orphaned knowledge records", zap.Error(err))
		}
		result.Pruned = pruned
	}

	s.logger.Info("Knowledge base rebuild completed",
		zap.Int("services", len(services)),
		zap.Int("processed", result.Processed),
		zap.Int("failed", len(result.Failed)),
		zap.Int("pruned", result.Pruned),
	)

	return result, nil
}

// RebuildOne re-indexes a single catalog service.
func (s *KnowledgeService) RebuildOne(ctx context.Context, serviceID string) error {
	svc, err := s.catalog.GetByID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrServiceNotFound
		}
		return fmt.Errorf("failed to load service %s: %w", serviceID, err)
	}

	rec, err := s.buildRecord(ctx, svc)
	if err != nil {
		return err
	}
	return s.store.Upsert(ctx, rec)
}

// PruneOrphans deletes records whose catalog service no longer exists.
func (s *KnowledgeService) PruneOrphans(ctx context.Context) (int, error) {
	services, err := s.catalog.ListServices(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read services catalog: %w", err)
	}
	return s.pruneAgainst(ctx, services)
}

func (s *KnowledgeService) pruneAgainst(ctx context.Context, services []*models.Service) (int, error) {
	live := make(map[string]struct{}, len(services))
	for _, svc := range services {
		live[svc.ID] = struct{}{}
	}

	ids, err := s.store.ListIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list knowledge ids: %w", err)
	}

	pruned := 0
	for _, id := range ids {
		if _, ok := live[id]; ok {
			continue
		}
		if err := s.store.Delete(ctx, id); err != nil {
			return pruned, err
		}
		pruned++
	}

	return pruned, nil
}

// EnsureInitialized rebuilds the knowledge base when it is empty.
// Concurrent callers share a single in-flight check and rebuild. Failures
// are reported in the result, never returned.
func (s *KnowledgeService) EnsureInitialized(ctx context.Context) *InitResult {
	// the rebuild outlives a caller that gives up; others may be waiting on it
	detached := context.WithoutCancel(ctx)

	v, _, shared := s.group.Do("init", func() (interface{}, error) {
		return s.initialize(detached), nil
	})
	if shared {
		s.logger.Debug("Joined in-flight knowledge base initialization")
	}

	res := *v.(*InitResult)
	return &res
}

func (s *KnowledgeService) initialize(ctx context.Context) *InitResult {
	exists, err := s.store.Exists(ctx)
	if err != nil {
		s.logger.Error("Knowledge base probe failed", zap.Error(err))
		return &InitResult{Status: InitStatusError, Error: err.Error()}
	}
	if exists {
		return &InitResult{Status: InitStatusReady}
	}

	s.logger.Warn("Knowledge base is empty, starting automatic indexing")
	result, err := s.RebuildAll(ctx)
	if err != nil {
		s.logger.Error("Automatic indexing failed", zap.Error(err))
		return &InitResult{Status: InitStatusError, Error: err.Error()}
	}

	return &InitResult{Status: InitStatusProcessed, Processed: result.Processed}
}
