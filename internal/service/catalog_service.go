package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"enjez/internal/dto"
	"enjez/internal/models"
	"enjez/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrServiceNotFound  = errors.New("service not found")
	ErrCategoryNotFound = errors.New("category not found")
)

type CatalogService struct {
	services   ServiceStore
	categories CategoryStore
	reindexer  Reindexer
	logger     *zap.Logger
}

func NewCatalogService(services ServiceStore, categories CategoryStore, reindexer Reindexer, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		services:   services,
		categories: categories,
		reindexer:  reindexer,
		logger:     logger,
	}
}

func ToServiceResponse(s *models.Service) dto.ServiceResponse {
	return dto.ServiceResponse{
		ID:            s.ID,
		CategoryID:    s.CategoryID,
		Name:          s.Name,
		Description:   s.Description,
		Price:         s.Price,
		DurationValue: s.DurationValue,
		DurationUnit:  s.DurationUnit,
		ImageURL:      s.ImageURL,
		CreatedAt:     s.CreatedAt.Format(time.RFC3339),
	}
}

func toServiceResponses(services []*models.Service) []dto.ServiceResponse {
	out := make([]dto.ServiceResponse, 0, len(services))
	for _, s := range services {
		out = append(out, ToServiceResponse(s))
	}
	return out
}

func (s *CatalogService) ListServices(ctx context.Context) ([]dto.ServiceResponse, error) {
	services, err := s.services.ListServices(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	return toServiceResponses(services), nil
}

func (s *CatalogService) GetService(ctx context.Context, id string) (*dto.ServiceResponse, error) {
	svc, err := s.services.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	resp := ToServiceResponse(svc)
	return &resp, nil
}

func (s *CatalogService) ListByCategory(ctx context.Context, categoryID string) ([]dto.ServiceResponse, error) {
	if _, err := s.categories.GetByID(ctx, categoryID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	services, err := s.services.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list services by category: %w", err)
	}
	return toServiceResponses(services), nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]dto.CategoryResponse, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	out := make([]dto.CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, dto.CategoryResponse{ID: c.ID, Name: c.Name})
	}
	return out, nil
}

func (s *CatalogService) CreateService(ctx context.Context, req *dto.UpsertServiceRequest) (*dto.ServiceResponse, error) {
	now := time.Now().UTC()
	svc := &models.Service{
		ID:        uuid.New().String(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyServiceRequest(svc, req)

	if err := s.services.Create(ctx, svc); err != nil {
		return nil, fmt.Errorf("failed to create service: %w", err)
	}

	s.reindex(ctx, svc.ID)

	resp := ToServiceResponse(svc)
	return &resp, nil
}

func (s *CatalogService) UpdateService(ctx context.Context, id string, req *dto.UpsertServiceRequest) (*dto.ServiceResponse, error) {
	svc, err := s.services.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("failed to get service: %w", err)
	}

	applyServiceRequest(svc, req)
	svc.UpdatedAt = time.Now().UTC()

	if err := s.services.Update(ctx, svc); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("failed to update service: %w", err)
	}

	s.reindex(ctx, svc.ID)

	resp := ToServiceResponse(svc)
	return &resp, nil
}

func applyServiceRequest(svc *models.Service, req *dto.UpsertServiceRequest) {
	svc.CategoryID = req.CategoryID
	svc.Name = req.Name
	svc.Description = req.Description
	svc.Price = req.Price
	svc.DurationValue = req.DurationValue
	svc.DurationUnit = req.DurationUnit
	svc.ImageURL = req.ImageURL
}

// reindex failures leave the previous record in place; the next full
// rebuild picks the change up.
func (s *CatalogService) reindex(ctx context.Context, serviceID string) {
	if s.reindexer == nil {
		return
	}
	if err := s.reindexer.RebuildOne(ctx, serviceID); err != nil {
		s.logger.Warn("Failed to re-index service", zap.String("service_id", serviceID), zap.Error(err))
	}
}
