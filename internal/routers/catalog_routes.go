package routers

import (
	"interviewprep/internal/handlers"

	"github.com/go-chi/chi/v5"
)

// CatalogRoutes registers the read-only reference data. No login is needed.
func CatalogRoutes(r *chi.Mux, catalogHandler *handlers.CatalogHandler) {
	r.Get("/api/v1/positions", catalogHandler.PositionsHandler)
	r.Get("/api/v1/positions/{type}", catalogHandler.PositionHandler)
	r.Get("/api/v1/questions", catalogHandler.QuestionsHandler) // ?mode&type&difficulty&category&search&page&limit
	r.Get("/api/v1/questions/{id}", catalogHandler.QuestionHandler)
	r.Get("/api/v1/interviewers", catalogHandler.InterviewersHandler)
	r.Get("/api/v1/interviewers/{id}", catalogHandler.InterviewerHandler)
}
