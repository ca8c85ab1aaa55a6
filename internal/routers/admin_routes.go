package routers

import (
	"interviewprep/internal/handlers"
	appmw "interviewprep/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func AdminRoutes(r *chi.Mux, adminHandler *handlers.AdminHandler, adminToken string) {
	r.Route("/api/v1/admin", func(r chi.Router) {
		r.Use(appmw.AdminToken(adminToken))
		r.Post("/statistics/rebuild", adminHandler.RebuildStatisticsHandler) // Recompute every user's statistics
	})
}
