package service

import (
	"context"
	"testing"

	"enjez/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRecommendationsForUser(t *testing.T) {
	user := uuid.New()
	catalog := &stubCatalog{services: []*models.Service{
		{ID: "s1", CategoryID: "home", Name: "Plumbing"},
		{ID: "s2", CategoryID: "home", Name: "Cleaning"},
		{ID: "s3", CategoryID: "beauty", Name: "Haircut"},
		{ID: "s4", Name: "Moving"},
		{ID: "s5", CategoryID: "home", Name: "Painting"},
	}}
	categories := &stubCategories{categories: []*models.Category{{ID: "home", Name: "Home Services"}}}

	var bookings []*models.Booking
	for _, id := range []string{"s2", "s1", "s1", "s3", "s4", "s2", "s1", "s5", "gone", "gone", "gone", "gone"} {
		bookings = append(bookings, &models.Booking{ID: uuid.New(), UserID: user, ServiceID: id})
	}
	bookings = append(bookings, &models.Booking{ID: uuid.New(), UserID: uuid.New(), ServiceID: "s5"})

	svc := NewRecommendationService(&stubBookings{bookings: bookings}, catalog, categories, zap.NewNop())

	recs, err := svc.ForUser(context.Background(), user)
	require.NoError(t, err)
	require.Len(t, recs, 4)

	// s1(3), s2(2), then s3, s4 by first occurrence; deleted services are skipped
	assert.Equal(t, "s1", recs[0].Service.ID)
	assert.Equal(t, 3, recs[0].TimesBooked)
	assert.Equal(t, "Home Services", recs[0].CategoryName)
	assert.Equal(t, "s2", recs[1].Service.ID)
	assert.Equal(t, "s3", recs[2].Service.ID)
	assert.Equal(t, "Uncategorized", recs[2].CategoryName)
	assert.Equal(t, "s4", recs[3].Service.ID)
	assert.Equal(t, "Uncategorized", recs[3].CategoryName)
}

func TestRecommendationsWithoutBookings(t *testing.T) {
	svc := NewRecommendationService(&stubBookings{}, sampleCatalog(), &stubCategories{}, zap.NewNop())

	recs, err := svc.ForUser(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, recs)
}
