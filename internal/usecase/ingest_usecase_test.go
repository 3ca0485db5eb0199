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

func newBareIngestUC() *IngestUseCase {
	return &IngestUseCase{logger: logger.New()}
}

func TestIngest_Normalize(t *testing.T) {
	uc := newBareIngestUC()

	rows := []IngestRow{
		{Code: "P001", Name: "Linen Shirt", Price: "1999.90", ProductType: " shirt "},
		{Code: "", Name: "No Code", Price: "100"},
		{Code: "P003", Name: "   ", Price: "100"},
		{Code: "P004", Name: "Bad Price", Price: "n/a"},
	}

	products, skipped := uc.normalize(rows)

	assert.Equal(t, 2, skipped)
	assert.Len(t, products, 2)

	assert.Equal(t, "P001", products[0].Code)
	assert.Equal(t, int64(1999_90), products[0].Price)
	assert.Equal(t, "shirt", products[0].ProductType)

	// Нераспознанная цена не выбрасывает товар из каталога.
	assert.Equal(t, "P004", products[1].Code)
	assert.Zero(t, products[1].Price)
	assert.False(t, products[1].HasPrice())
}

func TestIngest_ParsePrice(t *testing.T) {
	uc := newBareIngestUC()

	tests := []struct {
		raw  string
		want int64
	}{
		{"2500", 2500_00},
		{"2500.50", 2500_50},
		{" 99.999 ", 100_00}, // округление до минорных единиц
		{"", 0},
		{"free", 0},
		{"-10", 0},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, uc.parsePrice("P000", tt.raw))
		})
	}
}

type stubImageUploader struct {
	uploaded map[string][]byte
	failKeys map[string]bool
}

func (s *stubImageUploader) Upload(_ context.Context, key string, data []byte, _ string) error {
	if s.failKeys[key] {
		return e.ErrExternalServiceFailure
	}
	if s.uploaded == nil {
		s.uploaded = map[string][]byte{}
	}
	s.uploaded[key] = data
	return nil
}

func (s *stubImageUploader) Get(_ context.Context, key string) ([]byte, string, error) {
	return s.uploaded[key], "image/jpeg", nil
}

func (s *stubImageUploader) Delete(_ context.Context, key string) error {
	delete(s.uploaded, key)
	return nil
}

func TestIngest_SyncImages(t *testing.T) {
	images := &stubImageUploader{failKeys: map[string]bool{"P002/1.jpg": true}}
	embRepo := &stubEmbeddingRepo{}

	uc := &IngestUseCase{
		embeddingRepo: embRepo,
		imageRepo:     images,
		vectorizer:    &stubVectorizer{vector: []float32{0.1, 0.2}},
		logger:        logger.New(),
		opts:          IngestOptions{ModelVersion: "test-model"},
	}

	uploads := []ImageUpload{
		{Code: "P001", FileName: "1.jpg", MimeType: "image/jpeg", Data: []byte{1}},
		{Code: "P002", FileName: "1.jpg", MimeType: "image/jpeg", Data: []byte{2}},
		{Code: "P003", FileName: "2.jpg", MimeType: "image/jpeg", Data: []byte{3}},
	}

	res, err := uc.SyncImages(context.Background(), uploads)
	require.NoError(t, err)

	// Сбой загрузки одного изображения не прерывает синхронизацию.
	assert.Equal(t, 2, res.Uploaded)
	assert.Equal(t, 1, res.Failed)

	require.Len(t, embRepo.upsertedImages, 2)
	assert.Equal(t, "P001", embRepo.upsertedImages[0].Payload["product_code"])
	assert.Equal(t, "P001/1.jpg", embRepo.upsertedImages[0].Payload["image_path"])
	assert.Equal(t, "test-model", embRepo.upsertedImages[0].Payload["model_version"])
	assert.Equal(t, "P003/2.jpg", embRepo.upsertedImages[1].Payload["image_path"])
}

func TestIngest_SyncImagesEmpty(t *testing.T) {
	uc := &IngestUseCase{logger: logger.New()}

	res, err := uc.SyncImages(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, res.Uploaded)
	assert.Zero(t, res.Failed)
}

func TestProductText(t *testing.T) {
	p := domain.Product{
		Name:        "Linen Shirt",
		Description: "light cotton for summer",
		ProductType: "shirt",
		Occasion:    "casual",
		SkinTone:    "warm",
		Color:       "white",
	}

	want := "Linen Shirt, Product Type: shirt, Occasion: casual, Skin Tone Category: warm, Color: white, Description: light cotton for summer"
	assert.Equal(t, want, productText(p))

	bare := domain.Product{Name: "Plain Tee"}
	assert.Equal(t, "Plain Tee", productText(bare))
}
