package repositories

import (
	"errors"

	"interviewprep/internal/models"

	"gorm.io/gorm"
)

var ErrResumeNotFound = errors.New("resume not found")

type ResumeRepository struct {
	DB *gorm.DB
}

// Create stores a new resume and makes it the user's only active one.
func (r *ResumeRepository) Create(resume *models.Resume) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Resume{}).Where("user_id = ?", resume.UserID).Update("is_active", false).Error; err != nil {
			return err
		}
		resume.IsActive = true
		return tx.Create(resume).Error
	})
}

func (r *ResumeRepository) ListByUser(userID uint) ([]models.Resume, error) {
	resumes := []models.Resume{}
	err := r.DB.Where("user_id = ?", userID).Order("created_at DESC, id DESC").Find(&resumes).Error
	return resumes, err
}

func (r *ResumeRepository) Get(userID, resumeID uint) (*models.Resume, error) {
	var resume models.Resume
	err := r.DB.Where("id = ? AND user_id = ?", resumeID, userID).First(&resume).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrResumeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &resume, nil
}

func (r *ResumeRepository) SetActive(userID, resumeID uint) (*models.Resume, error) {
	resume, err := r.Get(userID, resumeID)
	if err != nil {
		return nil, err
	}
	err = r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Resume{}).Where("user_id = ?", userID).Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Model(resume).Update("is_active", true).Error
	})
	if err != nil {
		return nil, err
	}
	resume.IsActive = true
	return resume, nil
}

func (r *ResumeRepository) Delete(userID, resumeID uint) (*models.Resume, error) {
	resume, err := r.Get(userID, resumeID)
	if err != nil {
		return nil, err
	}
	if err := r.DB.Delete(resume).Error; err != nil {
		return nil, err
	}
	return resume, nil
}
