package usecase

import "github.com/DRSN-tech/recsys-backend/internal/domain"

// RECOMMEND USECASE

// RecommendReq — запрос подбора рекомендаций. Budget обязателен и может быть
// именем диапазона или сырым числом; остальные поля опциональны.
type RecommendReq struct {
	Budget      string
	SkinTone    string
	Occasion    string
	ProductType string
	Description string
	TopN        int
}

// RecommendationInfo — DTO одной позиции выдачи для внешнего использования.
type RecommendationInfo struct {
	Code        string
	Name        string
	Description string
	Price       int64
	Color       string
	ProductType string
	Occasion    string
	SkinTone    string
	ImageURL    string
	Similarity  float64
	Explanation string
}

// RecommendRes — ответ с рекомендациями. Message заполняется только
// при пустой выдаче.
type RecommendRes struct {
	Recommendations []RecommendationInfo
	Message         string
}

// FILTER OPTIONS

// FilterOptionsRes — доступные значения фильтров каталога.
type FilterOptionsRes struct {
	Options map[string][]string
}

// VISUAL SEARCH USECASE

// SearchImage представляет изображение, загруженное через multipart/form-data.
type SearchImage struct {
	Data     []byte // байты изображения
	MimeType string // Content-Type из multipart (image/jpeg)
	Size     int64  // фактический размер в байтах
	Name     string // оригинальное имя файла (для логов)
}

// VisualSearchReq — запрос поиска похожих товаров по изображению.
type VisualSearchReq struct {
	Image SearchImage
	TopN  int
}

// SimilarProductInfo — DTO товара из визуальной выдачи.
type SimilarProductInfo struct {
	Code       string
	Name       string
	Price      int64
	ImageURL   string
	Similarity float64
}

// VisualSearchRes — ответ визуального поиска.
type VisualSearchRes struct {
	Products []SimilarProductInfo
}

// INGEST USECASE

// IngestRow — одна строка каталога из CSV до нормализации цены.
type IngestRow struct {
	Code        string
	Name        string
	Description string
	Price       string
	Color       string
	ProductType string
	Occasion    string
	SkinTone    string
}

// IngestRes — итог перестроения каталога.
type IngestRes struct {
	Loaded  int
	Skipped int
}

// ImageUpload — изображение товара для загрузки в хранилище и индексации.
type ImageUpload struct {
	Code     string
	FileName string
	MimeType string
	Data     []byte
}

// ImageSyncRes — итог синхронизации изображений каталога.
type ImageSyncRes struct {
	Uploaded int
	Failed   int
}

// INFRASTRUCTURE

// ImageHit — результат векторного поиска по коллекции изображений.
type ImageHit struct {
	ProductCode string
	ImagePath   string
	Score       float64
}

// CatalogRebuiltEvent — событие о перестроении каталога для шины.
type CatalogRebuiltEvent struct {
	Products     int    `json:"products"`
	ModelVersion string `json:"model_version"`
	RebuiltAt    int64  `json:"rebuilt_at"`
}

// MAPPERS

func NewRecommendRes(recommendations []RecommendationInfo, message string) *RecommendRes {
	return &RecommendRes{
		Recommendations: recommendations,
		Message:         message,
	}
}

func NewFilterOptionsRes(options map[string][]string) *FilterOptionsRes {
	return &FilterOptionsRes{Options: options}
}

func NewSearchImage(data []byte, mimeType string, size int64, name string) SearchImage {
	return SearchImage{
		Data:     data,
		MimeType: mimeType,
		Size:     size,
		Name:     name,
	}
}

func NewVisualSearchRes(products []SimilarProductInfo) *VisualSearchRes {
	return &VisualSearchRes{Products: products}
}

func NewRecommendationInfo(p domain.Product, imageURL string, similarity float64, explanation string) RecommendationInfo {
	return RecommendationInfo{
		Code:        p.Code,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Color:       p.Color,
		ProductType: p.ProductType,
		Occasion:    p.Occasion,
		SkinTone:    p.SkinTone,
		ImageURL:    imageURL,
		Similarity:  similarity,
		Explanation: explanation,
	}
}
