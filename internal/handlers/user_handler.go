package handlers

import (
	"errors"
	"net/http"

	"interviewprep/internal/models"
	"interviewprep/internal/repositories"
	"interviewprep/internal/utils"

	"go.uber.org/zap"
)

// UserHandler serves the caller's account and profile.
type UserHandler struct {
	Users    UserRepository
	Profiles ProfileRepository
	Logger   *zap.Logger
}

type availabilityResponse struct {
	Available bool `json:"available"`
}

type profileResponse struct {
	Profile    *models.Profile `json:"profile"`
	IsComplete bool            `json:"isComplete"`
}

func (h *UserHandler) GetMeHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	user, err := h.Users.GetUserByID(userID)
	if errors.Is(err, repositories.ErrUserNotFound) {
		utils.JSON(w, http.StatusNotFound, models.ErrorResponse{Code: "user_not_found", Message: "User not found"})
		return
	}
	if err != nil {
		internalError(w, h.Logger, "Failed to load user", err)
		return
	}
	utils.JSON(w, http.StatusOK, user)
}

func (h *UserHandler) UpdateMeHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req models.UpdateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Username != nil {
		if other, err := h.Users.GetUserByUsername(*req.Username); err == nil && other.ID != userID {
			utils.JSON(w, http.StatusConflict, models.ErrorResponse{Code: "username_taken", Message: "Username is already taken"})
			return
		}
	}
	if req.Email != nil {
		if other, err := h.Users.GetUserByEmail(*req.Email); err == nil && other.ID != userID {
			utils.JSON(w, http.StatusConflict, models.ErrorResponse{Code: "email_taken", Message: "Email is already registered"})
			return
		}
	}

	user, err := h.Users.UpdateUser(userID, &req)
	if errors.Is(err, repositories.ErrUserNotFound) {
		utils.JSON(w, http.StatusNotFound, models.ErrorResponse{Code: "user_not_found", Message: "User not found"})
		return
	}
	if err != nil {
		internalError(w, h.Logger, "Failed to update user", err)
		return
	}
	utils.JSON(w, http.StatusOK, user)
}

func (h *UserHandler) CheckUsernameHandler(w http.ResponseWriter, r *http.Request) {
	var req models.CheckUsernameRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	_, err := h.Users.GetUserByUsername(req.Username)
	if err != nil && !errors.Is(err, repositories.ErrUserNotFound) {
		internalError(w, h.Logger, "Failed to check username", err)
		return
	}
	utils.JSON(w, http.StatusOK, availabilityResponse{Available: err != nil})
}

func (h *UserHandler) CheckEmailHandler(w http.ResponseWriter, r *http.Request) {
	var req models.CheckEmailRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	_, err := h.Users.GetUserByEmail(req.Email)
	if err != nil && !errors.Is(err, repositories.ErrUserNotFound) {
		internalError(w, h.Logger, "Failed to check email", err)
		return
	}
	utils.JSON(w, http.StatusOK, availabilityResponse{Available: err != nil})
}

// GetProfileHandler returns the caller's profile; a user without one gets
// an empty profile.
func (h *UserHandler) GetProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	profile, err := h.Profiles.GetByUserID(userID)
	if errors.Is(err, repositories.ErrProfileNotFound) {
		profile = &models.Profile{UserID: userID, TargetPositions: []string{}}
	} else if err != nil {
		internalError(w, h.Logger, "Failed to load profile", err)
		return
	}
	utils.JSON(w, http.StatusOK, profileResponse{Profile: profile, IsComplete: profile.IsComplete()})
}

func (h *UserHandler) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req models.ProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	profile, err := h.Profiles.Upsert(userID, &req)
	if err != nil {
		internalError(w, h.Logger, "Failed to save profile", err)
		return
	}
	utils.JSON(w, http.StatusOK, profileResponse{Profile: profile, IsComplete: profile.IsComplete()})
}
