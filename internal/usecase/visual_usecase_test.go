package usecase

import (
	"context"
	"testing"

	"github.com/DRSN-tech/recsys-backend/internal/domain"
	"github.com/DRSN-tech/recsys-backend/pkg/e"
	"github.com/DRSN-tech/recsys-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVectorizer struct {
	vector []float32
	err    error
}

func (s *stubVectorizer) VectorizeImage(_ context.Context, _ []byte, _ string) ([]float32, error) {
	return s.vector, s.err
}

type stubEmbeddingRepo struct {
	hits           []ImageHit
	upsertedImages []domain.Embedding
}

func (s *stubEmbeddingRepo) UpsertText(_ context.Context, _ []domain.Embedding) error { return nil }
func (s *stubEmbeddingRepo) UpsertImage(_ context.Context, embeddings []domain.Embedding) error {
	s.upsertedImages = append(s.upsertedImages, embeddings...)
	return nil
}
func (s *stubEmbeddingRepo) TextVectors(_ context.Context) (map[string][]float32, error) {
	return nil, nil
}

func (s *stubEmbeddingRepo) SearchImage(_ context.Context, _ []float32, limit uint64) ([]ImageHit, error) {
	if int(limit) < len(s.hits) {
		return s.hits[:limit], nil
	}
	return s.hits, nil
}

type stubProductRepo struct {
	products []domain.Product
}

func (s *stubProductRepo) GetCatalog(_ context.Context) ([]domain.Product, error) {
	return s.products, nil
}

func (s *stubProductRepo) GetByCodes(_ context.Context, codes []string) ([]domain.Product, error) {
	want := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		want[c] = struct{}{}
	}

	var out []domain.Product
	for _, p := range s.products {
		if _, ok := want[p.Code]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubProductRepo) UpsertBatch(_ context.Context, _ []domain.Product) error { return nil }
func (s *stubProductRepo) ArchiveMissing(_ context.Context, _ []string) (int64, error) {
	return 0, nil
}

func newTestVisualUC(vectorizer *stubVectorizer, hits []ImageHit, products []domain.Product) *VisualSearchUseCase {
	return NewVisualSearchUC(
		vectorizer,
		&stubEmbeddingRepo{hits: hits},
		&stubProductRepo{products: products},
		logger.New(),
		VisualSearchOptions{
			DefaultTopN:  9,
			MaxTopN:      50,
			MaxImageSize: 1 << 20,
			ImageBaseURL: "/images",
		},
	)
}

func jpeg(size int) SearchImage {
	return SearchImage{Data: make([]byte, size), MimeType: "image/jpeg", Size: int64(size), Name: "photo.jpg"}
}

func TestSearchByImage_HappyPath(t *testing.T) {
	hits := []ImageHit{
		{ProductCode: "P002", Score: 0.93},
		{ProductCode: "P001", Score: 0.81},
	}
	products := []domain.Product{
		{ID: 1, Code: "P001", Name: "Linen Shirt", Price: 2000_00},
		{ID: 2, Code: "P002", Name: "Evening Dress", Price: 3000_00},
	}

	uc := newTestVisualUC(&stubVectorizer{vector: []float32{0.1, 0.2}}, hits, products)

	res, err := uc.SearchByImage(context.Background(), &VisualSearchReq{Image: jpeg(128)})
	require.NoError(t, err)
	require.Len(t, res.Products, 2)

	// Порядок выдачи следует порядку результатов векторного поиска.
	assert.Equal(t, "P002", res.Products[0].Code)
	assert.InDelta(t, 0.93, res.Products[0].Similarity, 1e-9)
	assert.Equal(t, "/images/P002/1.jpg", res.Products[0].ImageURL)
	assert.Equal(t, "P001", res.Products[1].Code)
}

func TestSearchByImage_OrphanVectorSkipped(t *testing.T) {
	hits := []ImageHit{
		{ProductCode: "GONE", Score: 0.99},
		{ProductCode: "P001", Score: 0.70},
	}
	products := []domain.Product{{ID: 1, Code: "P001", Name: "Linen Shirt", Price: 2000_00}}

	uc := newTestVisualUC(&stubVectorizer{vector: []float32{0.1}}, hits, products)

	res, err := uc.SearchByImage(context.Background(), &VisualSearchReq{Image: jpeg(128)})
	require.NoError(t, err)
	require.Len(t, res.Products, 1)
	assert.Equal(t, "P001", res.Products[0].Code)
}

func TestSearchByImage_Validation(t *testing.T) {
	uc := newTestVisualUC(&stubVectorizer{vector: []float32{0.1}}, nil, nil)

	tests := []struct {
		name    string
		image   SearchImage
		wantErr error
	}{
		{"no image", SearchImage{}, e.ErrNoImage},
		{"too large", jpeg(2 << 20), e.ErrFileTooLarge},
		{
			"unsupported type",
			SearchImage{Data: []byte{1}, MimeType: "application/pdf"},
			e.ErrUnsupportedMediaType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.SearchByImage(context.Background(), &VisualSearchReq{Image: tt.image})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSearchByImage_VectorizerFailure(t *testing.T) {
	uc := newTestVisualUC(&stubVectorizer{err: e.ErrExternalServiceFailure}, nil, nil)

	_, err := uc.SearchByImage(context.Background(), &VisualSearchReq{Image: jpeg(64)})
	assert.ErrorIs(t, err, e.ErrExternalServiceFailure)
}

func TestSearchByImage_ScoreClampedToUnitRange(t *testing.T) {
	hits := []ImageHit{
		{ProductCode: "P001", Score: 1.0000002}, // дрейф float за верхнюю границу
		{ProductCode: "P002", Score: -0.03},
	}
	products := []domain.Product{
		{ID: 1, Code: "P001", Name: "Linen Shirt"},
		{ID: 2, Code: "P002", Name: "Evening Dress"},
	}

	uc := newTestVisualUC(&stubVectorizer{vector: []float32{0.1}}, hits, products)

	res, err := uc.SearchByImage(context.Background(), &VisualSearchReq{Image: jpeg(64)})
	require.NoError(t, err)
	require.Len(t, res.Products, 2)

	assert.Equal(t, 1.0, res.Products[0].Similarity)
	assert.Equal(t, 0.0, res.Products[1].Similarity)
}

func TestSearchByImage_NoHits(t *testing.T) {
	uc := newTestVisualUC(&stubVectorizer{vector: []float32{0.5}}, nil, nil)

	res, err := uc.SearchByImage(context.Background(), &VisualSearchReq{Image: jpeg(64)})
	require.NoError(t, err)
	assert.Empty(t, res.Products)
}
