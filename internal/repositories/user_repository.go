package repositories

import (
	"errors"
	"time"

	"interviewprep/internal/models"

	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository struct {
	DB *gorm.DB
}

func (r *UserRepository) CreateUser(user *models.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) GetUserByID(userID uint) (*models.User, error) {
	var user models.User
	err := r.DB.First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetUserByUsername(username string) (*models.User, error) {
	return r.findOne("LOWER(username) = LOWER(?)", username)
}

func (r *UserRepository) GetUserByEmail(email string) (*models.User, error) {
	return r.findOne("LOWER(email) = LOWER(?)", email)
}

// GetUserByLogin matches either the username or the email.
func (r *UserRepository) GetUserByLogin(login string) (*models.User, error) {
	return r.findOne("LOWER(username) = LOWER(?) OR LOWER(email) = LOWER(?)", login, login)
}

func (r *UserRepository) findOne(query string, args ...any) (*models.User, error) {
	var user models.User
	err := r.DB.Where(query, args...).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser applies non-nil fields of updates.
func (r *UserRepository) UpdateUser(userID uint, updates *models.UpdateUserRequest) (*models.User, error) {
	user, err := r.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	changes := map[string]any{}
	if updates.Username != nil {
		changes["username"] = *updates.Username
	}
	if updates.Email != nil {
		changes["email"] = *updates.Email
	}
	if len(changes) == 0 {
		return user, nil
	}
	if err := r.DB.Model(user).Updates(changes).Error; err != nil {
		return nil, err
	}
	return r.GetUserByID(userID)
}

func (r *UserRepository) TouchLogin(userID uint, at time.Time) error {
	return r.DB.Model(&models.User{}).Where("id = ?", userID).Update("last_login_at", at).Error
}

func (r *UserRepository) DeleteUser(userID uint) error {
	result := r.DB.Delete(&models.User{}, userID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
