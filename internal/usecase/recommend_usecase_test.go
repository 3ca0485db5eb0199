package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/DRSN-tech/recsys-backend/internal/domain"
	"github.com/DRSN-tech/recsys-backend/internal/engine"
	"github.com/DRSN-tech/recsys-backend/pkg/e"
	"github.com/DRSN-tech/recsys-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEmbedder struct {
	vector []float32
	calls  int
}

func (s *stubEmbedder) EmbedText(_ context.Context, _ string) ([]float32, error) {
	s.calls++
	return s.vector, nil
}

type memoryCache struct {
	mu            sync.Mutex
	recs          map[string]*RecommendRes
	filterOptions *FilterOptionsRes
}

func newMemoryCache() *memoryCache {
	return &memoryCache{recs: make(map[string]*RecommendRes)}
}

func (m *memoryCache) GetRecommendations(_ context.Context, key string) (*RecommendRes, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.recs[key], nil
}

func (m *memoryCache) SetRecommendations(_ context.Context, key string, res *RecommendRes, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs[key] = res
	return nil
}

func (m *memoryCache) GetFilterOptions(_ context.Context) (*FilterOptionsRes, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filterOptions, nil
}

func (m *memoryCache) SetFilterOptions(_ context.Context, res *FilterOptionsRes, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.filterOptions = res
	return nil
}

func (m *memoryCache) InvalidateResponses(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs = make(map[string]*RecommendRes)
	m.filterOptions = nil
	return nil
}

type stubExplainer struct {
	explanation string
	err         error
}

func (s *stubExplainer) Explain(_ context.Context, _ *domain.Preference, p domain.Product) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.explanation + " " + p.Code, nil
}

func testOptions() RecommendOptions {
	return RecommendOptions{
		DefaultTopN:    9,
		MaxTopN:        50,
		ImageBaseURL:   "/images",
		CacheTTL:       time.Minute,
		ExplainTimeout: time.Second,
		ExplainWorkers: 2,
	}
}

func newTestRecommendUC(t *testing.T, emb *stubEmbedder, cache CacheRepository, explainer Explainer) *RecommendUseCase {
	t.Helper()

	products := []domain.Product{
		{ID: 1, Code: "P001", Name: "Linen Shirt", Price: 2000_00, SkinTone: "warm", Occasion: "casual", ProductType: "shirt"},
		{ID: 2, Code: "P002", Name: "Evening Dress", Price: 3000_00, SkinTone: "cool", Occasion: "formal", ProductType: "dress"},
		{ID: 3, Code: "P003", Name: "Velvet Gown", Price: 12000_00, SkinTone: "deep", Occasion: "party", ProductType: "gown"},
	}
	vectors := [][]float32{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

	store, err := engine.NewStore(products, vectors)
	require.NoError(t, err)

	eng := engine.New(store, emb, logger.New())

	return NewRecommendUC(eng, cache, explainer, logger.New(), testOptions())
}

func TestRecommend_HappyPath(t *testing.T) {
	emb := &stubEmbedder{vector: []float32{1, 0, 0}}
	uc := newTestRecommendUC(t, emb, newMemoryCache(), &stubExplainer{explanation: "Fits you:"})

	res, err := uc.Recommend(context.Background(), &RecommendReq{Budget: "budget"})
	require.NoError(t, err)
	require.Len(t, res.Recommendations, 2)
	assert.Empty(t, res.Message)

	top := res.Recommendations[0]
	assert.Equal(t, "P001", top.Code)
	assert.Equal(t, "/images/P001/1.jpg", top.ImageURL)
	assert.InDelta(t, 1.0, top.Similarity, 1e-9)
	assert.Equal(t, "Fits you: P001", top.Explanation)
}

func TestRecommend_InvalidBudget(t *testing.T) {
	uc := newTestRecommendUC(t, &stubEmbedder{vector: []float32{1, 0, 0}}, newMemoryCache(), nil)

	_, err := uc.Recommend(context.Background(), &RecommendReq{Budget: "cheap"})
	assert.ErrorIs(t, err, e.ErrInvalidPriceTier)
}

func TestRecommend_RawBudgetCoercion(t *testing.T) {
	emb := &stubEmbedder{vector: []float32{1, 0, 0}}
	uc := newTestRecommendUC(t, emb, newMemoryCache(), nil)

	// "3000" приводится к budget: в выдаче только товары этого диапазона.
	res, err := uc.Recommend(context.Background(), &RecommendReq{Budget: "3000"})
	require.NoError(t, err)
	require.Len(t, res.Recommendations, 2)
	for _, rec := range res.Recommendations {
		assert.True(t, domain.TierBudget.Contains(rec.Price))
	}
}

func TestRecommend_EmptyResultMessage(t *testing.T) {
	emb := &stubEmbedder{vector: []float32{1, 0, 0}}
	uc := newTestRecommendUC(t, emb, newMemoryCache(), nil)

	res, err := uc.Recommend(context.Background(), &RecommendReq{Budget: "premium", ProductType: "shirt"})
	require.NoError(t, err)
	assert.Empty(t, res.Recommendations)
	assert.Equal(t, "No products found matching your preferences.", res.Message)
}

func TestRecommend_CacheHitSkipsEngine(t *testing.T) {
	emb := &stubEmbedder{vector: []float32{1, 0, 0}}
	cache := newMemoryCache()
	uc := newTestRecommendUC(t, emb, cache, nil)

	req := &RecommendReq{Budget: "budget", Occasion: "casual"}

	first, err := uc.Recommend(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, 1, emb.calls)

	// Кэш пишется фоном
	require.Eventually(t, func() bool {
		cache.mu.Lock()
		defer cache.mu.Unlock()
		return len(cache.recs) == 1
	}, time.Second, 10*time.Millisecond)

	second, err := uc.Recommend(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, emb.calls)
}

func TestRecommend_ExplainerFailureUsesFallback(t *testing.T) {
	emb := &stubEmbedder{vector: []float32{1, 0, 0}}
	uc := newTestRecommendUC(t, emb, newMemoryCache(), &stubExplainer{err: e.ErrExternalServiceFailure})

	res, err := uc.Recommend(context.Background(), &RecommendReq{Budget: "budget"})
	require.NoError(t, err)
	require.NotEmpty(t, res.Recommendations)

	for _, rec := range res.Recommendations {
		assert.Equal(t, "This product matches your selected filters.", rec.Explanation)
	}
}

func TestResolveTopN(t *testing.T) {
	uc := newTestRecommendUC(t, &stubEmbedder{vector: []float32{1, 0, 0}}, newMemoryCache(), nil)

	got, err := uc.resolveTopN(0)
	require.NoError(t, err)
	assert.Equal(t, 9, got)

	got, err = uc.resolveTopN(5)
	require.NoError(t, err)
	assert.Equal(t, 5, got)

	got, err = uc.resolveTopN(1000)
	require.NoError(t, err)
	assert.Equal(t, 50, got)

	_, err = uc.resolveTopN(-1)
	assert.ErrorIs(t, err, e.ErrInvalidTopN)
}

func TestFilterOptions_Cached(t *testing.T) {
	cache := newMemoryCache()
	uc := newTestRecommendUC(t, &stubEmbedder{vector: []float32{1, 0, 0}}, cache, nil)

	res, err := uc.FilterOptions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"budget", "mid_range", "premium"}, res.Options["price_range"])
	assert.Equal(t, []string{"dress", "gown", "shirt"}, res.Options["product_type"])

	require.Eventually(t, func() bool {
		cache.mu.Lock()
		defer cache.mu.Unlock()
		return cache.filterOptions != nil
	}, time.Second, 10*time.Millisecond)
}

func TestRecommendCacheKey_Deterministic(t *testing.T) {
	req := &RecommendReq{Budget: "budget", SkinTone: "Warm", Description: "summer look"}

	k1 := recommendCacheKey(domain.TierBudget, req, 9)
	k2 := recommendCacheKey(domain.TierBudget, &RecommendReq{Budget: "under 4000", SkinTone: "warm ", Description: "summer look"}, 9)
	assert.Equal(t, k1, k2)

	k3 := recommendCacheKey(domain.TierPremium, req, 9)
	assert.NotEqual(t, k1, k3)
}
