package http

import (
	"net/http"

	_ "github.com/DRSN-tech/recsys-backend/docs" // Импорт сгенерированных файлов
	"github.com/DRSN-tech/recsys-backend/internal/usecase"
	"github.com/DRSN-tech/recsys-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

func (r *Router) Init(recUC usecase.RecommendUC, searchUC usecase.VisualSearchUC, imageRepo usecase.ImageRepository) {
	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8080/swagger/doc.json"), // ссылка на JSON
	))

	r.router.Get("/health", healthCheck)

	imagesHandler := NewImagesHandler(imageRepo, r.logger)
	r.router.Get("/images/*", imagesHandler.serveImage)

	r.router.Route("/api/v1", func(v1 chi.Router) {
		recHandler := NewRecommendHandler(recUC, r.logger)
		registerRecommendRoutes(v1, recHandler)

		searchHandler := NewSearchHandler(searchUC, r.logger)
		registerSearchRoutes(v1, searchHandler)
	})
}

func registerRecommendRoutes(router chi.Router, h *RecommendHandler) {
	router.Post("/recommend", h.recommend)
	router.Get("/filter_options", h.filterOptions)
}

func registerSearchRoutes(router chi.Router, h *SearchHandler) {
	router.Route("/search", func(s chi.Router) {
		s.Post("/image", h.searchByImage)
	})
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	WriteSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
}
