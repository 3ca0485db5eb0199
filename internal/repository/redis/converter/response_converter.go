package converter

import "github.com/DRSN-tech/recsys-backend/internal/usecase"

// RecommendationRedisModel — JSON-модель одной позиции выдачи для кэша.
type RecommendationRedisModel struct {
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       int64   `json:"price"`
	Color       string  `json:"color,omitempty"`
	ProductType string  `json:"product_type,omitempty"`
	Occasion    string  `json:"occasion,omitempty"`
	SkinTone    string  `json:"skin_tone,omitempty"`
	ImageURL    string  `json:"image_url"`
	Similarity  float64 `json:"similarity"`
	Explanation string  `json:"explanation,omitempty"`
}

// RecommendResRedisModel — JSON-модель ответа рекомендаций для кэша.
type RecommendResRedisModel struct {
	Recommendations []RecommendationRedisModel `json:"recommendations"`
	Message         string                     `json:"message,omitempty"`
}

// FilterOptionsRedisModel — JSON-модель ответа опций фильтров для кэша.
type FilterOptionsRedisModel struct {
	Options map[string][]string `json:"options"`
}

type ResponseConverter struct{}

func (ResponseConverter) ToRedisModel(res *usecase.RecommendRes) *RecommendResRedisModel {
	recs := make([]RecommendationRedisModel, 0, len(res.Recommendations))
	for _, r := range res.Recommendations {
		recs = append(recs, RecommendationRedisModel(r))
	}

	return &RecommendResRedisModel{
		Recommendations: recs,
		Message:         res.Message,
	}
}

func (ResponseConverter) ToUseCase(m *RecommendResRedisModel) *usecase.RecommendRes {
	recs := make([]usecase.RecommendationInfo, 0, len(m.Recommendations))
	for _, r := range m.Recommendations {
		recs = append(recs, usecase.RecommendationInfo(r))
	}

	return usecase.NewRecommendRes(recs, m.Message)
}

func (ResponseConverter) OptionsToRedisModel(res *usecase.FilterOptionsRes) *FilterOptionsRedisModel {
	return &FilterOptionsRedisModel{Options: res.Options}
}

func (ResponseConverter) OptionsToUseCase(m *FilterOptionsRedisModel) *usecase.FilterOptionsRes {
	return usecase.NewFilterOptionsRes(m.Options)
}
