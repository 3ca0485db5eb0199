package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/DRSN-tech/recsys-backend/internal/usecase"
	"github.com/DRSN-tech/recsys-backend/pkg/e"
	"github.com/DRSN-tech/recsys-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

type RecommendHandler struct {
	recUC  usecase.RecommendUC
	logger logger.Logger
}

func NewRecommendHandler(recUC usecase.RecommendUC, logger logger.Logger) *RecommendHandler {
	return &RecommendHandler{recUC: recUC, logger: logger}
}

// recommendRequest — тело POST /api/v1/recommend.
// price_range обязателен; budget — исторический алиас того же поля.
type recommendRequest struct {
	PriceRange  string `json:"price_range"`
	Budget      string `json:"budget"`
	SkinTone    string `json:"skin_tone"`
	Occasion    string `json:"occasion"`
	ProductType string `json:"product_type"`
	Description string `json:"description"`
	TopN        int    `json:"top_n"`
}

type recommendationResponse struct {
	Code            string  `json:"code"`
	Name            string  `json:"name"`
	Description     string  `json:"description,omitempty"`
	Price           string  `json:"price"`
	Color           string  `json:"color,omitempty"`
	ProductType     string  `json:"product_type,omitempty"`
	Occasion        string  `json:"occasion,omitempty"`
	SkinTone        string  `json:"skin_tone,omitempty"`
	ImageURL        string  `json:"image_url"`
	SimilarityScore float64 `json:"similarity_score"`
	Explanation     string  `json:"explanation,omitempty"`
}

type recommendResponse struct {
	Recommendations []recommendationResponse `json:"recommendations"`
	Message         string                   `json:"message,omitempty"`
}

// recommend
//
//	@Summary		Подбор рекомендаций
//	@Description	Возвращает топ-N товаров под предпочтения пользователя
//	@Tags			recommendations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		recommendRequest	true	"Предпочтения пользователя"
//	@Success		200		{object}	recommendResponse	"Выдача рекомендаций"
//	@Failure		400		{object}	ErrorResponse		"Ошибка валидации"
//	@Router			/recommend [post]
func (h *RecommendHandler) recommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, e.ErrStatusBadRequest)
		return
	}

	budget := strings.TrimSpace(req.PriceRange)
	if budget == "" {
		budget = strings.TrimSpace(req.Budget)
	}

	res, err := h.recUC.Recommend(r.Context(), &usecase.RecommendReq{
		Budget:      budget,
		SkinTone:    req.SkinTone,
		Occasion:    req.Occasion,
		ProductType: req.ProductType,
		Description: req.Description,
		TopN:        req.TopN,
	})
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toRecommendResponse(res))
}

// filterOptions
//
//	@Summary		Доступные фильтры каталога
//	@Description	Возвращает значения фасетов и ценовых диапазонов
//	@Tags			recommendations
//	@Produce		json
//	@Success		200	{object}	map[string][]string	"Опции фильтров"
//	@Router			/filter_options [get]
func (h *RecommendHandler) filterOptions(w http.ResponseWriter, r *http.Request) {
	res, err := h.recUC.FilterOptions(r.Context())
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, res.Options)
}

func toRecommendResponse(res *usecase.RecommendRes) recommendResponse {
	recs := make([]recommendationResponse, 0, len(res.Recommendations))
	for _, rec := range res.Recommendations {
		recs = append(recs, recommendationResponse{
			Code:            rec.Code,
			Name:            rec.Name,
			Description:     rec.Description,
			Price:           formatPrice(rec.Price),
			Color:           rec.Color,
			ProductType:     rec.ProductType,
			Occasion:        rec.Occasion,
			SkinTone:        rec.SkinTone,
			ImageURL:        rec.ImageURL,
			SimilarityScore: rec.Similarity,
			Explanation:     rec.Explanation,
		})
	}

	return recommendResponse{
		Recommendations: recs,
		Message:         res.Message,
	}
}

// formatPrice переводит цену из минорных единиц в строку вида "1999.90".
func formatPrice(price int64) string {
	return decimal.New(price, -2).StringFixed(2)
}
