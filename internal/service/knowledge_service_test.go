package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"enjez/internal/models"
	"enjez/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestKnowledgeService(catalog CatalogSource, store KnowledgeStore, embedder Embedder, prune bool) *KnowledgeService {
	svc := NewKnowledgeService(catalog, store, embedder, &config.RAGConfig{
		TopK:               3,
		RelevanceThreshold: 0.35,
		PruneOrphans:       prune,
	}, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC) }
	return svc
}

func sampleCatalog() *stubCatalog {
	return &stubCatalog{services: []*models.Service{
		{ID: "plumbing", Name: "Plumbing", Description: "Fix leaks and pipes", Price: price(250)},
		{ID: "cleaning", Name: "Home Cleaning", Description: "Deep cleaning for apartments", Price: price(400.5)},
		{ID: "painting", Name: "Painting", Description: "Interior wall painting"},
	}}
}

func TestRenderServiceText(t *testing.T) {
	tests := []struct {
		name string
		svc  *models.Service
		want string
	}{
		{
			name: "all fields",
			svc:  &models.Service{Name: "Plumbing", Description: "Fix leaks", Price: price(250)},
			want: "Service Name: Plumbing\nDescription: Fix leaks\nPrice: 250 EGP",
		},
		{
			name: "fractional price",
			svc:  &models.Service{Name: "Cleaning", Description: "Deep", Price: price(400.5)},
			want: "Service Name: Cleaning\nDescription: Deep\nPrice: 400.5 EGP",
		},
		{
			name: "missing fields render empty",
			svc:  &models.Service{},
			want: "Service Name: \nDescription: \nPrice:  EGP",
		},
		{
			name: "zero price renders empty",
			svc:  &models.Service{Name: "Consultation", Price: price(0)},
			want: "Service Name: Consultation\nDescription: \nPrice:  EGP",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RenderServiceText(tt.svc))
		})
	}
}

func TestRebuildAllSkipsFailedItems(t *testing.T) {
	catalog := sampleCatalog()
	failing := RenderServiceText(catalog.services[1])
	embedder := &stubEmbedder{failOn: map[string]bool{failing: true}}
	store := newStubKnowledgeStore()

	result, err := newTestKnowledgeService(catalog, store, embedder, false).RebuildAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, []string{"cleaning"}, result.Failed)
	assert.False(t, result.NoItems)

	_, ok := store.Get("cleaning")
	assert.False(t, ok)

	rec, ok := store.Get("plumbing")
	require.True(t, ok)
	assert.Equal(t, "Service Name: Plumbing\nDescription: Fix leaks and pipes\nPrice: 250 EGP", rec.Text)
	assert.Equal(t, "Plumbing", rec.Metadata.Name)
	require.NotNil(t, rec.Metadata.Price)
	assert.Equal(t, 250.0, *rec.Metadata.Price)
	assert.NotEmpty(t, rec.Embedding)

	rec, ok = store.Get("painting")
	require.True(t, ok)
	assert.Nil(t, rec.Metadata.Price)
}

func TestRebuildAllIsIdempotent(t *testing.T) {
	catalog := sampleCatalog()
	store := newStubKnowledgeStore()
	svc := newTestKnowledgeService(catalog, store, &stubEmbedder{}, false)
	ctx := context.Background()

	_, err := svc.RebuildAll(ctx)
	require.NoError(t, err)
	firstIDs, _ := store.ListIDs(ctx)
	first, _ := store.ListAll(ctx)
	texts := make(map[string]string)
	for _, r := range first {
		texts[r.ID] = r.Text
	}

	_, err = svc.RebuildAll(ctx)
	require.NoError(t, err)
	secondIDs, _ := store.ListIDs(ctx)
	second, _ := store.ListAll(ctx)

	assert.Equal(t, firstIDs, secondIDs)
	assert.Len(t, second, len(catalog.services))
	for _, r := range second {
		assert.Equal(t, texts[r.ID], r.Text)
	}
}

func TestRebuildAllEmptyCatalog(t *testing.T) {
	embedder := &stubEmbedder{}
	result, err := newTestKnowledgeService(&stubCatalog{}, newStubKnowledgeStore(), embedder, false).
		RebuildAll(context.Background())
	require.NoError(t, err)

	assert.True(t, result.NoItems)
	assert.Equal(t, 0, result.Processed)
	assert.Equal(t, 0, embedder.Calls())
}

func TestRebuildAllCatalogFailure(t *testing.T) {
	_, err := newTestKnowledgeService(&stubCatalog{listErr: errStub}, newStubKnowledgeStore(), &stubEmbedder{}, false).
		RebuildAll(context.Background())
	assert.ErrorIs(t, err, errStub)
}

func TestRebuildAllPrunesOrphans(t *testing.T) {
	store := newStubKnowledgeStore(&models.KnowledgeRecord{ID: "removed", Text: "old", Embedding: []float32{1, 0}})

	result, err := newTestKnowledgeService(sampleCatalog(), store, &stubEmbedder{}, true).RebuildAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Pruned)
	_, ok := store.Get("removed")
	assert.False(t, ok)
}

func TestRebuildOne(t *testing.T) {
	store := newStubKnowledgeStore()
	svc := newTestKnowledgeService(sampleCatalog(), store, &stubEmbedder{}, false)

	require.NoError(t, svc.RebuildOne(context.Background(), "painting"))
	_, ok := store.Get("painting")
	assert.True(t, ok)

	assert.ErrorIs(t, svc.RebuildOne(context.Background(), "missing"), ErrServiceNotFound)
}

func TestEnsureInitializedReadyDoesNotEmbed(t *testing.T) {
	store := newStubKnowledgeStore(&models.KnowledgeRecord{ID: "plumbing", Text: "x", Embedding: []float32{1, 0}})
	embedder := &stubEmbedder{}

	res := newTestKnowledgeService(sampleCatalog(), store, embedder, false).EnsureInitialized(context.Background())

	assert.Equal(t, InitStatusReady, res.Status)
	assert.Equal(t, 0, embedder.Calls())
	assert.Equal(t, 0, store.Upserts())
}

func TestEnsureInitializedBuildsEmptyStore(t *testing.T) {
	store := newStubKnowledgeStore()

	res := newTestKnowledgeService(sampleCatalog(), store, &stubEmbedder{}, false).EnsureInitialized(context.Background())

	assert.Equal(t, InitStatusProcessed, res.Status)
	assert.Equal(t, 3, res.Processed)
	exists, _ := store.Exists(context.Background())
	assert.True(t, exists)
}

func TestEnsureInitializedReportsErrors(t *testing.T) {
	store := newStubKnowledgeStore()
	store.existsErr = errStub

	res := newTestKnowledgeService(sampleCatalog(), store, &stubEmbedder{}, false).EnsureInitialized(context.Background())

	assert.Equal(t, InitStatusError, res.Status)
	assert.Contains(t, res.Error, errStub.Error())
}

type gatedEmbedder struct {
	*stubEmbedder
	gate chan struct{}
}

func (g *gatedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	<-g.gate
	return g.stubEmbedder.Embed(ctx, text)
}

func TestEnsureInitializedConcurrentCallersShareOneRebuild(t *testing.T) {
	catalog := sampleCatalog()
	store := newStubKnowledgeStore()
	embedder := &gatedEmbedder{stubEmbedder: &stubEmbedder{}, gate: make(chan struct{})}
	svc := newTestKnowledgeService(catalog, store, embedder, false)

	const callers = 8
	results := make([]*InitResult, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = svc.EnsureInitialized(context.Background())
		}(i)
	}

	time.Sleep(20 * time.Millisecond)
	close(embedder.gate)
	wg.Wait()

	// late arrivals see a populated store; nobody rebuilds twice
	assert.Equal(t, len(catalog.services), embedder.Calls())
	assert.Equal(t, len(catalog.services), store.Upserts())
	for _, r := range results {
		assert.Contains(t, []InitStatus{InitStatusProcessed, InitStatusReady}, r.Status)
	}
}
