package http

import (
	"net/http"

	"github.com/DRSN-tech/recsys-backend/internal/usecase"
	"github.com/DRSN-tech/recsys-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

// ImagesHandler отдаёт изображения товаров из объектного хранилища.
type ImagesHandler struct {
	imageRepo usecase.ImageRepository
	logger    logger.Logger
}

func NewImagesHandler(imageRepo usecase.ImageRepository, logger logger.Logger) *ImagesHandler {
	return &ImagesHandler{
		imageRepo: imageRepo,
		logger:    logger,
	}
}

func (h *ImagesHandler) serveImage(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	if key == "" {
		http.NotFound(w, r)
		return
	}

	data, contentType, err := h.imageRepo.Get(r.Context(), key)
	if err != nil {
		h.logger.Debugf("image %s not found: %v", key, err)
		http.NotFound(w, r)
		return
	}

	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(data); err != nil {
		h.logger.Warnf("write image %s: %v", key, err)
	}
}
