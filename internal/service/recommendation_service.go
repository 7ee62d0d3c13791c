package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"enjez/internal/dto"
	"enjez/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	maxRecommendations = 4
	uncategorizedLabel = "Uncategorized"
)

// RecommendationService suggests services a user books most often.
type RecommendationService struct {
	bookings   BookingStore
	catalog    CatalogSource
	categories CategoryStore
	logger     *zap.Logger
}

func NewRecommendationService(
	bookings BookingStore,
	catalog CatalogSource,
	categories CategoryStore,
	logger *zap.Logger,
) *RecommendationService {
	return &RecommendationService{
		bookings:   bookings,
		catalog:    catalog,
		categories: categories,
		logger:     logger,
	}
}

type serviceCount struct {
	serviceID string
	count     int
}

func (s *RecommendationService) ForUser(ctx context.Context, userID uuid.UUID) ([]dto.RecommendationResponse, error) {
	bookings, err := s.bookings.ListByUserID(ctx, userID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	// first-occurrence order breaks ties
	var counts []*serviceCount
	index := make(map[string]*serviceCount)
	for _, b := range bookings {
		if c, ok := index[b.ServiceID]; ok {
			c.count++
			continue
		}
		c := &serviceCount{serviceID: b.ServiceID, count: 1}
		index[b.ServiceID] = c
		counts = append(counts, c)
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].count > counts[j].count
	})

	categoryNames := make(map[string]string)
	out := make([]dto.RecommendationResponse, 0, maxRecommendations)
	for _, c := range counts {
		if len(out) == maxRecommendations {
			break
		}

		svc, err := s.catalog.GetByID(ctx, c.serviceID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				s.logger.Debug("Booked service no longer in catalog", zap.String("service_id", c.serviceID))
				continue
			}
			return nil, fmt.Errorf("failed to get service %s: %w", c.serviceID, err)
		}

		name, ok := categoryNames[svc.CategoryID]
		if !ok {
			name = s.categoryName(ctx, svc.CategoryID)
			categoryNames[svc.CategoryID] = name
		}

		out = append(out, dto.RecommendationResponse{
			Service:      ToServiceResponse(svc),
			CategoryName: name,
			TimesBooked:  c.count,
		})
	}

	return out, nil
}

func (s *RecommendationService) categoryName(ctx context.Context, categoryID string) string {
	if categoryID == "" {
		return uncategorizedLabel
	}
	category, err := s.categories.GetByID(ctx, categoryID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("Failed to load category", zap.String("category_id", categoryID), zap.Error(err))
		}
		return uncategorizedLabel
	}
	return category.Name
}
