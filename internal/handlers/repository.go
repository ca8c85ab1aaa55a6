package handlers

import (
	"time"

	"interviewprep/internal/models"
)

// UserRepository captures the account persistence used by handlers.
type UserRepository interface {
	CreateUser(user *models.User) error
	GetUserByID(userID uint) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByLogin(login string) (*models.User, error)
	UpdateUser(userID uint, updates *models.UpdateUserRequest) (*models.User, error)
	TouchLogin(userID uint, at time.Time) error
}

// TokenRepository captures the refresh token persistence used by handlers.
type TokenRepository interface {
	Create(token *models.Token) error
	GetByToken(tokenStr string) (*models.Token, error)
	DeleteByToken(tokenStr string) error
}

type ProfileRepository interface {
	GetByUserID(userID uint) (*models.Profile, error)
	Upsert(userID uint, req *models.ProfileRequest) (*models.Profile, error)
}

type ResumeRepository interface {
	Create(resume *models.Resume) error
	ListByUser(userID uint) ([]models.Resume, error)
	SetActive(userID, resumeID uint) (*models.Resume, error)
	Delete(userID, resumeID uint) (*models.Resume, error)
}
