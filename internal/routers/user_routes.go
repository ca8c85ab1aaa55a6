package routers

import (
	"net/http"

	"interviewprep/internal/handlers"

	"github.com/go-chi/chi/v5"
)

func UserRoutes(r *chi.Mux, userHandler *handlers.UserHandler, auth func(http.Handler) http.Handler) {
	r.Route("/api/v1/users", func(r chi.Router) {
		r.Post("/check-username", userHandler.CheckUsernameHandler)
		r.Post("/check-email", userHandler.CheckEmailHandler)

		r.Group(func(r chi.Router) {
			r.Use(auth)
			r.Get("/me", userHandler.GetMeHandler)
			r.Put("/me", userHandler.UpdateMeHandler)
			r.Get("/me/profile", userHandler.GetProfileHandler)
			r.Put("/me/profile", userHandler.UpdateProfileHandler)
		})
	})
}

func ResumeRoutes(r *chi.Mux, resumeHandler *handlers.ResumeHandler, auth func(http.Handler) http.Handler) {
	r.Route("/api/v1/resumes", func(r chi.Router) {
		r.Use(auth)
		r.Get("/", resumeHandler.ListHandler)
		r.Post("/", resumeHandler.UploadHandler)               // multipart "file"
		r.Put("/{id}/activate", resumeHandler.ActivateHandler) // Make the only active resume
		r.Delete("/{id}", resumeHandler.DeleteHandler)
	})
}
