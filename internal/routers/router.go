package routers

import (
	"interviewprep/internal/handlers"
	"interviewprep/internal/metrics"
	appmw "interviewprep/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Handlers groups everything the HTTP surface serves.
type Handlers struct {
	Auth       *handlers.AuthHandler
	Users      *handlers.UserHandler
	Resumes    *handlers.ResumeHandler
	Catalog    *handlers.CatalogHandler
	Interviews *handlers.InterviewHandler
	Analytics  *handlers.AnalyticsHandler
	Admin      *handlers.AdminHandler
	Health     *handlers.HealthHandler
}

type Options struct {
	JWTSecret   string
	AdminToken  string
	CORSOrigins []string
}

// NewRouter builds the server mux with the shared middleware stack.
func NewRouter(h Handlers, opts Options) *chi.Mux {
	router := chi.NewRouter()

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization", "X-Admin-Token"},
		AllowCredentials: true,
	}))
	router.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer, metrics.Middleware)

	auth := appmw.Auth(opts.JWTSecret)
	HealthRoutes(router, h.Health)
	AuthRoutes(router, h.Auth, auth)
	UserRoutes(router, h.Users, auth)
	ResumeRoutes(router, h.Resumes, auth)
	CatalogRoutes(router, h.Catalog)
	InterviewRoutes(router, h.Interviews, h.Analytics, auth)
	AdminRoutes(router, h.Admin, opts.AdminToken)
	return router
}
