package handlers

import (
	"context"
	"net/http"

	"interviewprep/internal/utils"

	"go.uber.org/zap"
)

// StatsRebuilder recomputes every user's statistics.
type StatsRebuilder interface {
	Run(ctx context.Context) (int, error)
}

type AdminHandler struct {
	Rebuilder StatsRebuilder
	Logger    *zap.Logger
}

type rebuildResponse struct {
	Rebuilt int    `json:"rebuilt"`
	Error   string `json:"error,omitempty"`
}

// RebuildStatisticsHandler runs the statistics rebuild synchronously. Partial
// failures are reported next to the number of users rebuilt.
func (h *AdminHandler) RebuildStatisticsHandler(w http.ResponseWriter, r *http.Request) {
	n, err := h.Rebuilder.Run(r.Context())
	if err != nil {
		h.Logger.Error("statistics rebuild failed", zap.Int("rebuilt", n), zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, rebuildResponse{Rebuilt: n, Error: err.Error()})
		return
	}
	utils.JSON(w, http.StatusOK, rebuildResponse{Rebuilt: n})
}
