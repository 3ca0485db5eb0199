package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/DRSN-tech/recsys-backend/internal/domain"
	"github.com/DRSN-tech/recsys-backend/pkg/e"
	"github.com/DRSN-tech/recsys-backend/pkg/logger"
)

// VisualSearchOptions — настройки визуального поиска.
type VisualSearchOptions struct {
	DefaultTopN  int
	MaxTopN      int
	MaxImageSize int64
	ImageBaseURL string
}

// allowedImageMimeTypes — типы изображений, которые принимает ML-сервис.
var allowedImageMimeTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
}

// VisualSearchUseCase реализует поиск похожих товаров по изображению:
// векторизация через ML-сервис и косинусный поиск по коллекции изображений.
type VisualSearchUseCase struct {
	vectorizer    ImageVectorizerInfra
	embeddingRepo EmbeddingRepository
	productRepo   ProductRepository
	logger        logger.Logger
	opts          VisualSearchOptions
}

func NewVisualSearchUC(
	vectorizer ImageVectorizerInfra,
	embeddingRepo EmbeddingRepository,
	productRepo ProductRepository,
	logger logger.Logger,
	opts VisualSearchOptions,
) *VisualSearchUseCase {
	return &VisualSearchUseCase{
		vectorizer:    vectorizer,
		embeddingRepo: embeddingRepo,
		productRepo:   productRepo,
		logger:        logger,
		opts:          opts,
	}
}

// SearchByImage возвращает товары, визуально похожие на загруженное изображение.
// Товары, чьи векторы остались без метаданных в БД, из выдачи выпадают.
func (v *VisualSearchUseCase) SearchByImage(ctx context.Context, req *VisualSearchReq) (*VisualSearchRes, error) {
	const op = "VisualSearchUseCase.SearchByImage"

	if err := v.validateImage(&req.Image); err != nil {
		return nil, e.Wrap(op, err)
	}

	topN := req.TopN
	if topN <= 0 {
		topN = v.opts.DefaultTopN
	}
	if topN > v.opts.MaxTopN {
		topN = v.opts.MaxTopN
	}

	vector, err := v.vectorizer.VectorizeImage(ctx, req.Image.Data, req.Image.MimeType)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	hits, err := v.embeddingRepo.SearchImage(ctx, vector, uint64(topN))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if len(hits) == 0 {
		return NewVisualSearchRes([]SimilarProductInfo{}), nil
	}

	codes := make([]string, 0, len(hits))
	for _, h := range hits {
		codes = append(codes, h.ProductCode)
	}

	products, err := v.productRepo.GetByCodes(ctx, codes)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	byCode := make(map[string]domain.Product, len(products))
	for _, p := range products {
		byCode[p.Code] = p
	}

	result := make([]SimilarProductInfo, 0, len(hits))
	for _, h := range hits {
		p, ok := byCode[h.ProductCode]
		if !ok {
			v.logger.Warnf("Image vector without product metadata, code: %s", h.ProductCode)
			continue
		}

		result = append(result, SimilarProductInfo{
			Code:       p.Code,
			Name:       p.Name,
			Price:      p.Price,
			ImageURL:   v.imageURL(p.Code),
			Similarity: clampScore(h.Score),
		})
	}

	return NewVisualSearchRes(result), nil
}

// validateImage проверяет наличие, размер и тип загруженного изображения.
func (v *VisualSearchUseCase) validateImage(img *SearchImage) error {
	if len(img.Data) == 0 {
		return e.ErrNoImage
	}

	if v.opts.MaxImageSize > 0 && int64(len(img.Data)) > v.opts.MaxImageSize {
		return e.ErrFileTooLarge
	}

	if _, ok := allowedImageMimeTypes[strings.ToLower(img.MimeType)]; !ok {
		return e.ErrUnsupportedMediaType
	}

	return nil
}

func (v *VisualSearchUseCase) imageURL(code string) string {
	return fmt.Sprintf("%s/%s/1.jpg", strings.TrimRight(v.opts.ImageBaseURL, "/"), code)
}

// clampScore прижимает косинусную схожесть к [0, 1]: из-за ошибок
// округления float score может чуть выходить за границы.
func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
