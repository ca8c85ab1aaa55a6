package repositories

import (
	"errors"

	"interviewprep/internal/models"

	"gorm.io/gorm"
)

var ErrProfileNotFound = errors.New("profile not found")

type ProfileRepository struct {
	DB *gorm.DB
}

func (r *ProfileRepository) GetByUserID(userID uint) (*models.Profile, error) {
	var p models.Profile
	err := r.DB.Where("user_id = ?", userID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Upsert merges the non-nil fields of req into the user's profile, creating it if needed.
func (r *ProfileRepository) Upsert(userID uint, req *models.ProfileRequest) (*models.Profile, error) {
	p, err := r.GetByUserID(userID)
	if errors.Is(err, ErrProfileNotFound) {
		p = &models.Profile{UserID: userID}
	} else if err != nil {
		return nil, err
	}

	if req.Age != nil {
		p.Age = req.Age
	}
	if req.GraduationYear != nil {
		p.GraduationYear = req.GraduationYear
	}
	if req.Education != nil {
		p.Education = *req.Education
	}
	if req.School != nil {
		p.School = *req.School
	}
	if req.Major != nil {
		p.Major = *req.Major
	}
	if req.MajorCategory != nil {
		p.MajorCategory = *req.MajorCategory
	}
	if req.TargetPositions != nil {
		p.TargetPositions = req.TargetPositions
	}

	if err := r.DB.Save(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}
