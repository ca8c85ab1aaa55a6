package repositories

import (
	"context"
	"errors"
	"time"

	"interviewprep/internal/models"

	"gorm.io/gorm"
)

var ErrStatisticsNotFound = errors.New("statistics not found")

type StatisticsRepository struct {
	DB *gorm.DB
}

func (r *StatisticsRepository) Get(ctx context.Context, userID uint) (*models.Statistics, error) {
	var stats models.Statistics
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&stats).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrStatisticsNotFound
	}
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// Upsert replaces the user's statistics row, keeping its identity.
func (r *StatisticsRepository) Upsert(ctx context.Context, stats *models.Statistics) error {
	db := r.DB.WithContext(ctx)
	var existing models.Statistics
	err := db.Select("id", "created_at").Where("user_id = ?", stats.UserID).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		stats.ID = 0
		return db.Create(stats).Error
	case err != nil:
		return err
	}
	stats.ID = existing.ID
	stats.CreatedAt = existing.CreatedAt
	return db.Save(stats).Error
}

// FinishedSessions returns the user's completed and interrupted sessions,
// oldest completion first.
func (r *StatisticsRepository) FinishedSessions(ctx context.Context, userID uint) ([]models.Session, error) {
	sessions := []models.Session{}
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND status IN ?", userID, []models.Status{models.StatusCompleted, models.StatusInterrupted}).
		Order("completed_at ASC, id ASC").
		Find(&sessions).Error
	return sessions, err
}

// RecentCompleted returns up to limit completed sessions, newest first.
func (r *StatisticsRepository) RecentCompleted(ctx context.Context, userID uint, limit int) ([]models.Session, error) {
	sessions := []models.Session{}
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, models.StatusCompleted).
		Order("completed_at DESC, id DESC").
		Limit(limit).
		Find(&sessions).Error
	return sessions, err
}

func (r *StatisticsRepository) SkippedSlots(ctx context.Context, userID uint) (int, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.QuestionSlot{}).
		Joins("JOIN interview_sessions ON interview_sessions.id = question_slots.session_id").
		Where("interview_sessions.user_id = ? AND question_slots.status = ?", userID, models.SlotSkipped).
		Count(&n).Error
	return int(n), err
}

func (r *StatisticsRepository) UploadTotals(ctx context.Context, userID uint) (models.UploadTotals, error) {
	var row struct {
		AudioUploads int
		VideoUploads int
		Bytes        int64
	}
	err := r.DB.WithContext(ctx).Model(&models.Answer{}).
		Select(`COALESCE(SUM(CASE WHEN answers.audio_path <> '' THEN 1 ELSE 0 END), 0) AS audio_uploads,
			COALESCE(SUM(CASE WHEN answers.video_path <> '' THEN 1 ELSE 0 END), 0) AS video_uploads,
			COALESCE(SUM(answers.audio_size + answers.video_size), 0) AS bytes`).
		Joins("JOIN interview_sessions ON interview_sessions.id = answers.session_id").
		Where("interview_sessions.user_id = ?", userID).
		Scan(&row).Error
	if err != nil {
		return models.UploadTotals{}, err
	}
	return models.UploadTotals{AudioUploads: row.AudioUploads, VideoUploads: row.VideoUploads, Bytes: row.Bytes}, nil
}

func (r *StatisticsRepository) AnalysisSummary(ctx context.Context, userID uint) (models.AnalysisSummary, error) {
	db := r.DB.WithContext(ctx)
	var avg struct {
		AudioLevel  float64
		SpeechSpeed float64
	}
	err := db.Model(&models.AnalysisSample{}).
		Select("COALESCE(AVG(audio_level), 0) AS audio_level, COALESCE(AVG(speech_speed), 0) AS speech_speed").
		Where("user_id = ?", userID).
		Scan(&avg).Error
	if err != nil {
		return models.AnalysisSummary{}, err
	}

	var emotions []struct {
		EmotionType string
		N           int
	}
	err = db.Model(&models.AnalysisSample{}).
		Select("emotion_type, COUNT(*) AS n").
		Where("user_id = ? AND emotion_type <> ''", userID).
		Group("emotion_type").
		Order("n DESC, emotion_type ASC").
		Limit(1).
		Scan(&emotions).Error
	if err != nil {
		return models.AnalysisSummary{}, err
	}

	summary := models.AnalysisSummary{AvgAudioLevel: avg.AudioLevel, AvgSpeechSpeed: avg.SpeechSpeed}
	if len(emotions) > 0 {
		summary.DominantEmotion = emotions[0].EmotionType
	}
	return summary, nil
}

// OtherUsersBestScores returns each other user's best completed overall score.
func (r *StatisticsRepository) OtherUsersBestScores(ctx context.Context, userID uint) ([]float64, error) {
	var best []float64
	err := r.DB.WithContext(ctx).Model(&models.Session{}).
		Select("MAX(overall_score)").
		Where("user_id <> ? AND status = ? AND overall_score IS NOT NULL", userID, models.StatusCompleted).
		Group("user_id").
		Pluck("MAX(overall_score)", &best).Error
	return best, err
}

// TrendPoints returns the user's points on or after since, oldest first.
func (r *StatisticsRepository) TrendPoints(ctx context.Context, userID uint, since time.Time) ([]models.TrendPoint, error) {
	points := []models.TrendPoint{}
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND date >= ?", userID, since).
		Order("date ASC, id ASC").
		Find(&points).Error
	return points, err
}

// UserIDsWithSessions lists every user that owns at least one session.
func (r *StatisticsRepository) UserIDsWithSessions(ctx context.Context) ([]uint, error) {
	var ids []uint
	err := r.DB.WithContext(ctx).Model(&models.Session{}).Distinct().Order("user_id ASC").Pluck("user_id", &ids).Error
	return ids, err
}
