package handlers

import (
	"net/http"
	"strconv"

	"interviewprep/internal/catalog"
	"interviewprep/internal/models"
	"interviewprep/internal/utils"

	"github.com/go-chi/chi/v5"
)

// CatalogHandler serves the read-only positions, questions and interviewers.
type CatalogHandler struct {
	Catalog *catalog.Catalog
}

type questionsResponse struct {
	Items []catalog.Question `json:"items"`
	models.PaginationMeta
}

func (h *CatalogHandler) PositionsHandler(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, h.Catalog.Positions())
}

func (h *CatalogHandler) PositionHandler(w http.ResponseWriter, r *http.Request) {
	pos, ok := h.Catalog.Position(chi.URLParam(r, "type"))
	if !ok {
		utils.JSON(w, http.StatusNotFound, models.ErrorResponse{Code: "position_not_found", Message: "Position not found"})
		return
	}
	utils.JSON(w, http.StatusOK, pos)
}

// QuestionsHandler lists questions filtered by mode, type, difficulty,
// category and a text search.
func (h *CatalogHandler) QuestionsHandler(w http.ResponseWriter, r *http.Request) {
	page, limit, err := utils.ParsePagination(r, 10)
	if err != nil {
		badRequest(w, "invalid_pagination", err.Error())
		return
	}
	q := r.URL.Query()
	filter := catalog.QuestionFilter{
		Mode:       models.Mode(q.Get("mode")),
		Type:       q.Get("type"),
		Difficulty: q.Get("difficulty"),
		Category:   q.Get("category"),
		Search:     q.Get("search"),
	}
	if filter.Mode != "" && !filter.Mode.Valid() {
		badRequest(w, "invalid_mode", "mode must be practice or simulation")
		return
	}

	all := h.Catalog.Questions(filter)
	start := min((page-1)*limit, len(all))
	end := min(start+limit, len(all))
	utils.JSON(w, http.StatusOK, questionsResponse{
		Items:          all[start:end],
		PaginationMeta: models.CalculatePaginationMeta(page, limit, len(all)),
	})
}

func (h *CatalogHandler) QuestionHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid_id", "id must be an integer")
		return
	}
	question, ok := h.Catalog.Question(id)
	if !ok {
		utils.JSON(w, http.StatusNotFound, models.ErrorResponse{Code: "question_not_found", Message: "Question not found"})
		return
	}
	utils.JSON(w, http.StatusOK, question)
}

func (h *CatalogHandler) InterviewersHandler(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, h.Catalog.Interviewers())
}

func (h *CatalogHandler) InterviewerHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	interviewer, found := h.Catalog.Interviewer(id)
	if !found {
		utils.JSON(w, http.StatusNotFound, models.ErrorResponse{Code: "interviewer_not_found", Message: "Interviewer not found"})
		return
	}
	utils.JSON(w, http.StatusOK, interviewer)
}
