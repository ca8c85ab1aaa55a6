package handlers

import (
	"errors"
	"net/http"
	"time"

	"interviewprep/internal/config"
	"interviewprep/internal/models"
	"interviewprep/internal/repositories"
	"interviewprep/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthHandler manages registration, login and token refresh.
type AuthHandler struct {
	Users  UserRepository
	Tokens TokenRepository
	Auth   config.AuthConfig
	Logger *zap.Logger
	now    func() time.Time
}

func NewAuthHandler(users UserRepository, tokens TokenRepository, cfg config.AuthConfig, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{Users: users, Tokens: tokens, Auth: cfg, Logger: logger, now: time.Now}
}

type authResponse struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	ExpiresAt    time.Time    `json:"expiresAt"`
}

func (h *AuthHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !utils.IsPasswordValid(req.Password) {
		badRequest(w, "weak_password", "Password must be at least 8 characters and contain a special character")
		return
	}

	if _, err := h.Users.GetUserByUsername(req.Username); err == nil {
		utils.JSON(w, http.StatusConflict, models.ErrorResponse{Code: "username_taken", Message: "Username is already taken"})
		return
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		internalError(w, h.Logger, "Failed to check username", err)
		return
	}
	if _, err := h.Users.GetUserByEmail(req.Email); err == nil {
		utils.JSON(w, http.StatusConflict, models.ErrorResponse{Code: "email_taken", Message: "Email is already registered"})
		return
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		internalError(w, h.Logger, "Failed to check email", err)
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		internalError(w, h.Logger, "Failed to hash password", err)
		return
	}
	user := &models.User{Username: req.Username, Email: req.Email, PasswordHash: hash, IsActive: true}
	if err := h.Users.CreateUser(user); err != nil {
		internalError(w, h.Logger, "Failed to create user", err)
		return
	}
	h.Logger.Info("user registered", zap.Uint("user_id", user.ID))
	h.respondWithTokens(w, http.StatusCreated, user)
}

func (h *AuthHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	user, err := h.Users.GetUserByLogin(req.Username)
	if errors.Is(err, repositories.ErrUserNotFound) {
		utils.JSON(w, http.StatusUnauthorized, models.ErrorResponse{Code: "invalid_credentials", Message: "Invalid username or password"})
		return
	}
	if err != nil {
		internalError(w, h.Logger, "Failed to load user", err)
		return
	}
	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		utils.JSON(w, http.StatusUnauthorized, models.ErrorResponse{Code: "invalid_credentials", Message: "Invalid username or password"})
		return
	}
	if !user.IsActive {
		utils.JSON(w, http.StatusForbidden, models.ErrorResponse{Code: "account_disabled", Message: "Account is disabled"})
		return
	}

	now := h.now()
	if err := h.Users.TouchLogin(user.ID, now); err != nil {
		h.Logger.Warn("failed to record login time", zap.Uint("user_id", user.ID), zap.Error(err))
	}
	user.LastLoginAt = &now
	h.respondWithTokens(w, http.StatusOK, user)
}

// RefreshHandler exchanges a refresh token for a new token pair. The old
// refresh token is consumed.
func (h *AuthHandler) RefreshHandler(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	stored, err := h.Tokens.GetByToken(req.RefreshToken)
	if errors.Is(err, repositories.ErrTokenNotFound) {
		utils.JSON(w, http.StatusUnauthorized, models.ErrorResponse{Code: "invalid_refresh_token", Message: "Refresh token is invalid"})
		return
	}
	if err != nil {
		internalError(w, h.Logger, "Failed to load refresh token", err)
		return
	}
	if stored.Purpose != models.TokenPurposeRefresh || !stored.ExpiresAt.After(h.now()) {
		utils.JSON(w, http.StatusUnauthorized, models.ErrorResponse{Code: "invalid_refresh_token", Message: "Refresh token is expired"})
		return
	}
	if err := h.Tokens.DeleteByToken(stored.Token); err != nil {
		internalError(w, h.Logger, "Failed to rotate refresh token", err)
		return
	}

	user, err := h.Users.GetUserByID(stored.UserID)
	if errors.Is(err, repositories.ErrUserNotFound) {
		utils.JSON(w, http.StatusUnauthorized, models.ErrorResponse{Code: "invalid_refresh_token", Message: "User no longer exists"})
		return
	}
	if err != nil {
		internalError(w, h.Logger, "Failed to load user", err)
		return
	}
	h.respondWithTokens(w, http.StatusOK, user)
}

func (h *AuthHandler) MeHandler(w http.ResponseWriter, r *http.Request) {
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

func (h *AuthHandler) respondWithTokens(w http.ResponseWriter, status int, user *models.User) {
	access, expiresAt, err := utils.IssueToken(h.Auth.JWTSecret, user.ID, user.Username, h.Auth.AccessExpiry)
	if err != nil {
		internalError(w, h.Logger, "Failed to sign token", err)
		return
	}
	refresh := &models.Token{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		Purpose:   models.TokenPurposeRefresh,
		ExpiresAt: h.now().Add(h.Auth.RefreshExpiry),
	}
	if err := h.Tokens.Create(refresh); err != nil {
		internalError(w, h.Logger, "Failed to store refresh token", err)
		return
	}
	utils.JSON(w, status, authResponse{User: user, AccessToken: access, RefreshToken: refresh.Token, ExpiresAt: expiresAt})
}
