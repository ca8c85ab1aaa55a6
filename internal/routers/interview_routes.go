package routers

import (
	"net/http"
	"time"

	"interviewprep/internal/handlers"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// InterviewRoutes registers the session lifecycle and the analytics views.
// The websocket route is kept out of the request timeout.
func InterviewRoutes(r *chi.Mux, interviewHandler *handlers.InterviewHandler, analyticsHandler *handlers.AnalyticsHandler, auth func(http.Handler) http.Handler) {
	r.Route("/api/v1/interviews", func(r chi.Router) {
		r.Use(auth)
		r.Get("/{id}/live", interviewHandler.LiveHandler)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))

			// analytics
			r.Get("/history", analyticsHandler.HistoryHandler)
			r.Get("/statistics", analyticsHandler.StatisticsHandler)
			r.Get("/performance", analyticsHandler.PerformanceHandler)
			r.Get("/trend", analyticsHandler.TrendHandler)
			r.Get("/advice", analyticsHandler.AdviceHandler)
			r.Post("/practice-plan", analyticsHandler.PracticePlanHandler)

			// lifecycle
			r.Post("/", interviewHandler.StartHandler)
			r.Get("/{id}/status", interviewHandler.StatusHandler)
			r.Get("/{id}/phases", interviewHandler.PhasesHandler)
			r.Get("/{id}/detail", interviewHandler.DetailHandler)
			r.Get("/{id}/copy-settings", interviewHandler.CopySettingsHandler)
			r.Post("/{id}/pause", interviewHandler.PauseHandler)
			r.Post("/{id}/resume", interviewHandler.ResumeHandler)
			r.Post("/{id}/skip", interviewHandler.SkipHandler)
			r.Post("/{id}/answer", interviewHandler.AnswerHandler)
			r.Post("/{id}/start-answer", interviewHandler.StartAnswerHandler)
			r.Post("/{id}/next-question", interviewHandler.NextQuestionHandler)
			r.Post("/{id}/advance-phase", interviewHandler.AdvancePhaseHandler)
			r.Post("/{id}/phase", interviewHandler.SetPhaseHandler)
			r.Post("/{id}/interviewer-status", interviewHandler.InterviewerStatusHandler)
			r.Post("/{id}/analysis", interviewHandler.AnalysisHandler)
			r.Post("/{id}/complete", interviewHandler.CompleteHandler)
			r.Post("/{id}/emergency-exit", interviewHandler.EmergencyExitHandler)
			r.Post("/{id}/upload-audio", interviewHandler.UploadAudioHandler)
			r.Post("/{id}/upload-video", interviewHandler.UploadVideoHandler)
			r.Get("/{id}/slots/{slotId}/hint", interviewHandler.HintHandler)
			r.Post("/{id}/slots/{slotId}/hint", interviewHandler.UseHintHandler)
			r.Delete("/{id}", interviewHandler.DeleteHandler)
		})
	})
}
