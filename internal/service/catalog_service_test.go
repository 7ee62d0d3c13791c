package service

import (
	"context"
	"testing"

	"enjez/internal/dto"
	"enjez/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCatalogCreateAndUpdateReindex(t *testing.T) {
	ctx := context.Background()
	catalog := sampleCatalog()
	reindexer := &stubReindexer{}
	svc := NewCatalogService(catalog, &stubCategories{}, reindexer, zap.NewNop())

	created, err := svc.CreateService(ctx, &dto.UpsertServiceRequest{Name: "AC Repair", Price: price(300)})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	require.Len(t, catalog.created, 1)

	updated, err := svc.UpdateService(ctx, "plumbing", &dto.UpsertServiceRequest{Name: "Plumbing Pro", Description: "Fast"})
	require.NoError(t, err)
	assert.Equal(t, "Plumbing Pro", updated.Name)
	assert.Nil(t, updated.Price)

	assert.Equal(t, []string{created.ID, "plumbing"}, reindexer.ids)

	_, err = svc.UpdateService(ctx, "missing", &dto.UpsertServiceRequest{Name: "x"})
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestCatalogReindexFailureIsNotReturned(t *testing.T) {
	svc := NewCatalogService(sampleCatalog(), &stubCategories{}, &stubReindexer{err: errStub}, zap.NewNop())

	_, err := svc.CreateService(context.Background(), &dto.UpsertServiceRequest{Name: "AC Repair"})
	assert.NoError(t, err)
}

func TestCatalogLookups(t *testing.T) {
	ctx := context.Background()
	catalog := &stubCatalog{services: []*models.Service{
		{ID: "s1", CategoryID: "home", Name: "Plumbing"},
		{ID: "s2", CategoryID: "beauty", Name: "Haircut"},
	}}
	categories := &stubCategories{categories: []*models.Category{{ID: "home", Name: "Home"}, {ID: "beauty", Name: "Beauty"}}}
	svc := NewCatalogService(catalog, categories, nil, zap.NewNop())

	got, err := svc.GetService(ctx, "s2")
	require.NoError(t, err)
	assert.Equal(t, "Haircut", got.Name)

	_, err = svc.GetService(ctx, "nope")
	assert.ErrorIs(t, err, ErrServiceNotFound)

	home, err := svc.ListByCategory(ctx, "home")
	require.NoError(t, err)
	require.Len(t, home, 1)
	assert.Equal(t, "s1", home[0].ID)

	_, err = svc.ListByCategory(ctx, "cars")
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	cats, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, 2)
}
