package handlers

import (
	"context"
	"net/http"

	"interviewprep/internal/lifecycle"
	"interviewprep/internal/models"
	"interviewprep/internal/repositories"
	"interviewprep/internal/scoring"
	"interviewprep/internal/utils"

	"go.uber.org/zap"
)

// AnalyticsHandler serves history, statistics and the derived insights.
type AnalyticsHandler struct {
	Controller *lifecycle.Controller
	Statistics *scoring.StatisticsService
	Insights   *scoring.Insights
	Logger     *zap.Logger
}

type historyResponse struct {
	Items []models.Session `json:"items"`
	models.PaginationMeta
}

func (h *AnalyticsHandler) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	page, limit, err := utils.ParsePagination(r, 10)
	if err != nil {
		badRequest(w, "invalid_pagination", err.Error())
		return
	}
	q := r.URL.Query()
	filter := repositories.SessionFilter{
		Mode:     models.Mode(q.Get("mode")),
		Status:   models.Status(q.Get("status")),
		Position: q.Get("position"),
	}
	if filter.Mode != "" && !filter.Mode.Valid() {
		badRequest(w, "invalid_mode", "mode must be practice or simulation")
		return
	}

	sessions, meta, err := h.Controller.History(r.Context(), userID, filter, page, limit)
	if err != nil {
		internalError(w, h.Logger, "Failed to load history", err)
		return
	}
	utils.JSON(w, http.StatusOK, historyResponse{Items: sessions, PaginationMeta: meta})
}

func (h *AnalyticsHandler) StatisticsHandler(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, func(ctx context.Context, userID uint) (any, error) {
		return h.Statistics.Get(ctx, userID)
	})
}

func (h *AnalyticsHandler) PerformanceHandler(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, func(ctx context.Context, userID uint) (any, error) {
		return h.Insights.Performance(ctx, userID)
	})
}

// TrendHandler reads ?dimension= and ?period=; both have defaults.
func (h *AnalyticsHandler) TrendHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	h.respond(w, r, func(ctx context.Context, userID uint) (any, error) {
		return h.Insights.Trend(ctx, userID, models.Dimension(q.Get("dimension")), q.Get("period"))
	})
}

func (h *AnalyticsHandler) AdviceHandler(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, func(ctx context.Context, userID uint) (any, error) {
		return h.Insights.Advice(ctx, userID)
	})
}

func (h *AnalyticsHandler) PracticePlanHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentUser(w, r); !ok {
		return
	}
	var req models.PracticePlanRequest
	if !decodeOptionalJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeValidation(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, h.Insights.Plan(req))
}

func (h *AnalyticsHandler) respond(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, userID uint) (any, error)) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	result, err := fn(r.Context(), userID)
	if err != nil {
		writeActionError(w, h.Logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, result)
}
