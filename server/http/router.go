package serverhttp

import (
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"plagiarism-service/internal/config"
	"plagiarism-service/internal/middleware"
	plagHnd "plagiarism-service/internal/plagiarism/handler"
	"plagiarism-service/internal/plagiarism/service"
	"plagiarism-service/internal/plagiarism/store"
	"plagiarism-service/server/http/handlers"
)

func NewRouter(cfg config.Config, logger zerolog.Logger, svc *service.Service, st *store.Store) *chi.Mux {
	r := chi.NewRouter()

	// порядок важен: recover -> requestID -> logging -> cors -> limit
	r.Use(middleware.Recover(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(cfg.AllowOrigins))
	r.Use(middleware.LimitBytes(int64(cfg.MaxUploadMB) * 1024 * 1024))

	// health-check
	r.Get("/health", handlers.Health)

	// данные для дашборда
	r.Route("/api", func(r chi.Router) {
		r.Post("/check", plagHnd.Check(cfg, logger, svc, st))
		r.Post("/clear", plagHnd.Clear(logger, st))
		r.Get("/progress", plagHnd.Progress(st))
		r.Get("/results", plagHnd.Results(logger, st))
		r.Get("/results/csv", plagHnd.ResultsCSV(st))
		r.Get("/results/xlsx", plagHnd.ResultsXLSX(logger, st))
		r.Get("/summary", plagHnd.Summary(logger, st))
		r.Get("/matches/top", plagHnd.TopMatches(logger, st))
		r.Get("/matches/best", plagHnd.BestMatches(logger, st))
		r.Get("/pairs/highlight", plagHnd.Highlight(logger, svc))
	})

	return r
}
