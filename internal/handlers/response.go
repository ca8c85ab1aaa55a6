package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"interviewprep/internal/lifecycle"
	"interviewprep/internal/middleware"
	"interviewprep/internal/models"
	"interviewprep/internal/scoring"
	"interviewprep/internal/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func badRequest(w http.ResponseWriter, code, message string) {
	utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{Code: code, Message: message})
}

func internalError(w http.ResponseWriter, logger *zap.Logger, message string, err error) {
	logger.Error(message, zap.Error(err))
	utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{Code: "internal_error", Message: message})
}

// writeValidation writes a request validation failure. err is usually a
// *models.ErrorResponse returned by a Validate method.
func writeValidation(w http.ResponseWriter, err error) {
	var resp *models.ErrorResponse
	if errors.As(err, &resp) {
		utils.JSON(w, http.StatusBadRequest, resp)
		return
	}
	badRequest(w, "validation_error", err.Error())
}

// writeActionError maps lifecycle and scoring errors onto HTTP statuses.
func writeActionError(w http.ResponseWriter, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, lifecycle.ErrValidation):
		writeValidation(w, err)
	case errors.Is(err, lifecycle.ErrNotFound):
		utils.JSON(w, http.StatusNotFound, models.ErrorResponse{Code: "not_found", Message: err.Error()})
	case errors.Is(err, lifecycle.ErrForbidden):
		utils.JSON(w, http.StatusForbidden, models.ErrorResponse{Code: "forbidden", Message: "Session belongs to another user"})
	case errors.Is(err, lifecycle.ErrInvalidTransition):
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{Code: "invalid_transition", Message: err.Error()})
	case errors.Is(err, scoring.ErrUnknownDimension), errors.Is(err, scoring.ErrUnknownPeriod):
		badRequest(w, "invalid_query", err.Error())
	default:
		internalError(w, logger, "Request failed", err)
	}
}

// decodeJSON decodes the request body into dst and runs its Validate method.
// It writes the error response itself and reports whether to continue.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{ Validate() error }) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		badRequest(w, "invalid_request", "Invalid request payload")
		return false
	}
	if err := dst.Validate(); err != nil {
		writeValidation(w, err)
		return false
	}
	return true
}

// decodeOptionalJSON is decodeJSON for endpoints whose body may be empty.
func decodeOptionalJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Body == nil || r.ContentLength == 0 {
		return true
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		badRequest(w, "invalid_request", "Invalid request payload")
		return false
	}
	return true
}

func currentUser(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, ok := middleware.UserID(r.Context())
	if !ok {
		utils.JSON(w, http.StatusUnauthorized, models.ErrorResponse{Code: "unauthorized", Message: "authentication required"})
	}
	return id, ok
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (uint, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, name), 10, 64)
	if err != nil || id == 0 {
		badRequest(w, "invalid_"+name, name+" must be a positive integer")
		return 0, false
	}
	return uint(id), true
}
