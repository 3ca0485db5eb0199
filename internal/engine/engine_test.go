package engine

import (
	"context"
	"testing"

	"github.com/DRSN-tech/recsys-backend/internal/domain"
	"github.com/DRSN-tech/recsys-backend/pkg/e"
	"github.com/DRSN-tech/recsys-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubEmbedder возвращает заранее заданный вектор на любой текст.
type stubEmbedder struct {
	vector []float32
	err    error
	calls  int
	lastIn string
}

func (s *stubEmbedder) EmbedText(_ context.Context, text string) ([]float32, error) {
	s.calls++
	s.lastIn = text
	if s.err != nil {
		return nil, s.err
	}
	return s.vector, nil
}

func testProducts() []domain.Product {
	return []domain.Product{
		{ID: 1, Code: "P001", Name: "Linen Shirt", Price: 2000_00, SkinTone: "warm", Occasion: "casual", ProductType: "shirt"},
		{ID: 2, Code: "P002", Name: "Evening Dress", Price: 3000_00, SkinTone: "cool", Occasion: "formal", ProductType: "dress"},
		{ID: 3, Code: "P003", Name: "Silk Shirt", Price: 5000_00, SkinTone: "warm", Occasion: "casual", ProductType: "shirt"},
		{ID: 4, Code: "P004", Name: "Velvet Gown", Price: 12000_00, SkinTone: "deep", Occasion: "party", ProductType: "gown"},
		{ID: 5, Code: "P005", Name: "Denim Jeans", Price: 9999_99, SkinTone: "cool", Occasion: "casual", ProductType: "jeans"},
	}
}

func testVectors() [][]float32 {
	return [][]float32{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{1, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

func newTestEngine(t *testing.T, emb *stubEmbedder) *Engine {
	t.Helper()

	store, err := NewStore(testProducts(), testVectors())
	require.NoError(t, err)

	return New(store, emb, logger.New())
}

func TestNewStore_Validation(t *testing.T) {
	products := testProducts()
	vectors := testVectors()

	t.Run("empty catalog", func(t *testing.T) {
		_, err := NewStore(nil, nil)
		assert.ErrorIs(t, err, e.ErrStoreNotFound)
	})

	t.Run("length mismatch", func(t *testing.T) {
		_, err := NewStore(products, vectors[:3])
		assert.ErrorIs(t, err, e.ErrProductVectorMismatch)
	})

	t.Run("ragged dimensions", func(t *testing.T) {
		bad := [][]float32{{1, 0, 0, 0}, {0, 1, 0}, {1, 1, 0, 0}, {0, 0, 1, 0}, {0, 0, 0, 1}}
		_, err := NewStore(products, bad)
		assert.ErrorIs(t, err, e.ErrDimensionMismatch)
	})
}

func TestApplyFilters(t *testing.T) {
	store, err := NewStore(testProducts(), testVectors())
	require.NoError(t, err)

	tests := []struct {
		name   string
		tier   domain.PriceTier
		facets map[domain.Facet]string
		want   []int
	}{
		{
			name: "tier only",
			tier: domain.TierBudget,
			want: []int{0, 1},
		},
		{
			name:   "tier and one facet",
			tier:   domain.TierBudget,
			facets: map[domain.Facet]string{domain.FacetOccasion: "casual"},
			want:   []int{0},
		},
		{
			name:   "tier and all facets",
			tier:   domain.TierMidRange,
			facets: map[domain.Facet]string{domain.FacetSkinTone: "warm", domain.FacetOccasion: "casual", domain.FacetProductType: "shirt"},
			want:   []int{2},
		},
		{
			name:   "no candidates",
			tier:   domain.TierPremium,
			facets: map[domain.Facet]string{domain.FacetProductType: "shirt"},
			want:   []int{},
		},
		{
			name:   "empty facet value is ignored",
			tier:   domain.TierMidRange,
			facets: map[domain.Facet]string{domain.FacetSkinTone: ""},
			want:   []int{2, 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.ApplyFilters(tt.tier, tt.facets)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("invalid tier", func(t *testing.T) {
		_, err := store.ApplyFilters("luxury", nil)
		assert.ErrorIs(t, err, e.ErrInvalidPriceTier)
	})
}

// Добавление фасета никогда не расширяет множество кандидатов.
func TestApplyFilters_Monotonicity(t *testing.T) {
	store, err := NewStore(testProducts(), testVectors())
	require.NoError(t, err)

	base, err := store.ApplyFilters(domain.TierBudget, nil)
	require.NoError(t, err)

	narrowed, err := store.ApplyFilters(domain.TierBudget, map[domain.Facet]string{domain.FacetSkinTone: "warm"})
	require.NoError(t, err)

	assert.LessOrEqual(t, len(narrowed), len(base))
	assert.Subset(t, base, narrowed)
}

func TestBuildCandidateIndex_Empty(t *testing.T) {
	store, err := NewStore(testProducts(), testVectors())
	require.NoError(t, err)

	_, err = store.BuildCandidateIndex(nil)
	assert.ErrorIs(t, err, e.ErrEmptyCandidateSet)
}

func TestRecommend_TierOnly(t *testing.T) {
	emb := &stubEmbedder{vector: []float32{1, 0, 0, 0}}
	eng := newTestEngine(t, emb)

	matches, err := eng.Recommend(context.Background(), &domain.Preference{Tier: domain.TierBudget}, 9)
	require.NoError(t, err)
	require.Len(t, matches, 2)

	// Запрос совпадает с вектором P001: нулевое расстояние, схожесть ровно 1.
	assert.Equal(t, 0, matches[0].LocalIndex)
	assert.InDelta(t, 1.0, matches[0].Similarity, 1e-9)
	assert.Equal(t, 1, matches[1].LocalIndex)

	// Все результаты в заданном диапазоне и отсортированы по убыванию схожести.
	for _, m := range matches {
		assert.True(t, domain.TierBudget.Contains(eng.Store().Product(m.LocalIndex).Price))
		assert.Greater(t, m.Similarity, 0.0)
		assert.LessOrEqual(t, m.Similarity, 1.0)
	}
	assert.GreaterOrEqual(t, matches[0].Similarity, matches[1].Similarity)
}

func TestRecommend_FacetsNarrowCandidates(t *testing.T) {
	emb := &stubEmbedder{vector: []float32{0, 1, 0, 0}}
	eng := newTestEngine(t, emb)

	pref := &domain.Preference{
		Tier:        domain.TierBudget,
		Occasion:    "formal",
		ProductType: "dress",
	}

	matches, err := eng.Recommend(context.Background(), pref, 9)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "P002", eng.Store().Product(matches[0].LocalIndex).Code)
}

func TestRecommend_NoCandidates(t *testing.T) {
	emb := &stubEmbedder{vector: []float32{1, 0, 0, 0}}
	eng := newTestEngine(t, emb)

	pref := &domain.Preference{
		Tier:        domain.TierPremium,
		ProductType: "shirt",
	}

	matches, err := eng.Recommend(context.Background(), pref, 9)
	require.NoError(t, err)
	assert.Empty(t, matches)
	// Модель не вызывается, если ранжировать нечего.
	assert.Zero(t, emb.calls)
}

func TestRecommend_KClamped(t *testing.T) {
	emb := &stubEmbedder{vector: []float32{0.5, 0.5, 0, 0}}
	eng := newTestEngine(t, emb)

	matches, err := eng.Recommend(context.Background(), &domain.Preference{Tier: domain.TierBudget}, 100)
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}

func TestRecommend_Deterministic(t *testing.T) {
	emb := &stubEmbedder{vector: []float32{0.3, 0.7, 0.1, 0}}
	eng := newTestEngine(t, emb)

	pref := &domain.Preference{Tier: domain.TierBudget, Description: "light summer outfit"}

	first, err := eng.Recommend(context.Background(), pref, 9)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := eng.Recommend(context.Background(), pref, 9)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestRecommend_TieBrokenByCatalogOrder(t *testing.T) {
	products := []domain.Product{
		{ID: 1, Code: "A", Price: 1000_00},
		{ID: 2, Code: "B", Price: 1000_00},
		{ID: 3, Code: "C", Price: 1000_00},
	}
	// Два одинаковых вектора: расстояние до запроса совпадает.
	vectors := [][]float32{{0, 1}, {1, 0}, {0, 1}}

	store, err := NewStore(products, vectors)
	require.NoError(t, err)

	eng := New(store, &stubEmbedder{vector: []float32{0, 1}}, logger.New())

	matches, err := eng.Recommend(context.Background(), &domain.Preference{Tier: domain.TierBudget}, 3)
	require.NoError(t, err)
	require.Len(t, matches, 3)

	assert.Equal(t, "A", store.Product(matches[0].LocalIndex).Code)
	assert.Equal(t, "C", store.Product(matches[1].LocalIndex).Code)
	assert.Equal(t, "B", store.Product(matches[2].LocalIndex).Code)
}

func TestRecommend_DimensionMismatch(t *testing.T) {
	emb := &stubEmbedder{vector: []float32{1, 0}} // каталог четырёхмерный
	eng := newTestEngine(t, emb)

	_, err := eng.Recommend(context.Background(), &domain.Preference{Tier: domain.TierBudget}, 9)
	assert.ErrorIs(t, err, e.ErrDimensionMismatch)
}

func TestRecommend_EmbedderError(t *testing.T) {
	emb := &stubEmbedder{err: e.ErrExternalServiceFailure}
	eng := newTestEngine(t, emb)

	_, err := eng.Recommend(context.Background(), &domain.Preference{Tier: domain.TierBudget}, 9)
	assert.ErrorIs(t, err, e.ErrExternalServiceFailure)
}

func TestFilterOptions(t *testing.T) {
	emb := &stubEmbedder{vector: []float32{1, 0, 0, 0}}
	eng := newTestEngine(t, emb)

	options := eng.FilterOptions()

	assert.Equal(t, []string{"cool", "deep", "warm"}, options["skin_tone"])
	assert.Equal(t, []string{"casual", "formal", "party"}, options["occasion"])
	assert.Equal(t, []string{"dress", "gown", "jeans", "shirt"}, options["product_type"])
	assert.Equal(t, []string{"budget", "mid_range", "premium"}, options["price_range"])
}

// Фасет, которого нет ни у одного товара, выпадает из схемы и не фильтрует.
func TestStore_MissingFacetIgnored(t *testing.T) {
	products := []domain.Product{
		{ID: 1, Code: "A", Price: 1000_00, ProductType: "shirt"},
		{ID: 2, Code: "B", Price: 2000_00, ProductType: "dress"},
	}
	vectors := [][]float32{{1, 0}, {0, 1}}

	store, err := NewStore(products, vectors)
	require.NoError(t, err)

	assert.False(t, store.HasFacet(domain.FacetSkinTone))

	got, err := store.ApplyFilters(domain.TierBudget, map[domain.Facet]string{domain.FacetSkinTone: "warm"})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, got)

	_, ok := store.FilterOptions()["skin_tone"]
	assert.False(t, ok)
}
