package http

import (
	"net/http"
	"strconv"

	"github.com/DRSN-tech/recsys-backend/internal/usecase"
	"github.com/DRSN-tech/recsys-backend/pkg/e"
	"github.com/DRSN-tech/recsys-backend/pkg/logger"
)

type SearchHandler struct {
	searchUC usecase.VisualSearchUC
	logger   logger.Logger
}

func NewSearchHandler(searchUC usecase.VisualSearchUC, logger logger.Logger) *SearchHandler {
	return &SearchHandler{searchUC: searchUC, logger: logger}
}

type similarProductResponse struct {
	Code       string  `json:"code"`
	Name       string  `json:"name"`
	Price      string  `json:"price"`
	ImageURL   string  `json:"image_url"`
	Similarity float64 `json:"similarity"`
}

type visualSearchResponse struct {
	Products []similarProductResponse `json:"products"`
}

// searchByImage
//
//	@Summary		Поиск похожих товаров по изображению
//	@Description	Принимает изображение и возвращает визуально похожие товары
//	@Tags			search
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			image	formData	file					true	"Изображение для поиска"
//	@Param			top_n	formData	integer					false	"Размер выдачи"
//	@Success		200		{object}	visualSearchResponse	"Похожие товары"
//	@Failure		400		{object}	ErrorResponse			"Ошибка валидации"
//	@Router			/search/image [post]
func (h *SearchHandler) searchByImage(w http.ResponseWriter, r *http.Request) {
	const (
		maxTotalRequestSize = 20 << 20
		maxMemory           = 16 << 20
		maxFileSize         = 15 << 20
	)

	r.Body = http.MaxBytesReader(w, r.Body, maxTotalRequestSize)

	if err := ensureMultipartForm(r, maxMemory); err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), r.Header.Get("Content-Type"))
		WriteError(w, err)
		return
	}

	files := r.MultipartForm.File["image"]
	if len(files) == 0 {
		h.logger.Warnf("%d %s", http.StatusBadRequest, e.ErrNoImage.Error())
		WriteError(w, e.ErrNoImage)
		return
	}

	image, err := parseImage(files[0], maxFileSize)
	if err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	topN := 0
	if raw := r.FormValue("top_n"); raw != "" {
		topN, err = strconv.Atoi(raw)
		if err != nil || topN < 0 {
			h.logger.Warnf("%d %s: top_n=%q", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), raw)
			WriteError(w, e.ErrStatusBadRequest)
			return
		}
	}

	res, err := h.searchUC.SearchByImage(r.Context(), &usecase.VisualSearchReq{
		Image: image,
		TopN:  topN,
	})
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toVisualSearchResponse(res))
}

func toVisualSearchResponse(res *usecase.VisualSearchRes) visualSearchResponse {
	products := make([]similarProductResponse, 0, len(res.Products))
	for _, p := range res.Products {
		products = append(products, similarProductResponse{
			Code:       p.Code,
			Name:       p.Name,
			Price:      formatPrice(p.Price),
			ImageURL:   p.ImageURL,
			Similarity: p.Similarity,
		})
	}

	return visualSearchResponse{Products: products}
}
