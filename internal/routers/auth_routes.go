package routers

import (
	"net/http"

	"interviewprep/internal/handlers"

	"github.com/go-chi/chi/v5"
)

func AuthRoutes(r *chi.Mux, authHandler *handlers.AuthHandler, auth func(http.Handler) http.Handler) {
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", authHandler.RegisterHandler) // User registration
		r.Post("/login", authHandler.LoginHandler)       // Username or email login
		r.Post("/refresh", authHandler.RefreshHandler)   // Rotate refresh token
		r.With(auth).Get("/me", authHandler.MeHandler)   // Current user
	})
}
