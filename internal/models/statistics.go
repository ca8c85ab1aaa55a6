package models

import "time"

// Statistics is the per-user aggregate derived from all of the user's sessions.
// It is a cache: sessions and answers stay authoritative.
type Statistics struct {
	ID     uint `gorm:"primaryKey" json:"-"`
	UserID uint `gorm:"uniqueIndex;not null" json:"userId"`

	TotalInterviews      int `json:"totalInterviews"`
	PracticeInterviews   int `json:"practiceInterviews"`
	SimulationInterviews int `json:"simulationInterviews"`
	CompletedInterviews  int `json:"completedInterviews"`
	IncompleteInterviews int `json:"incompleteInterviews"`
	EmergencyExits       int `json:"emergencyExits"`

	TotalDurationSec int     `json:"totalDurationSeconds"`
	AvgDurationSec   float64 `json:"avgDurationSeconds"`

	AvgOverall              float64 `json:"avgOverall"`
	BestOverall             float64 `json:"bestOverall"`
	AvgProfessional         float64 `json:"avgProfessional"`
	AvgSkillMatch           float64 `json:"avgSkillMatch"`
	AvgLanguageExpression   float64 `json:"avgLanguageExpression"`
	AvgLogicalThinking      float64 `json:"avgLogicalThinking"`
	AvgComprehensiveQuality float64 `json:"avgComprehensiveQuality"`

	RankPercentile  *float64 `json:"rankPercentile"`
	ImprovementRate float64  `json:"improvementRate"`
	CurrentMonthAvg float64  `json:"currentMonthAvg"`
	LastMonthAvg    float64  `json:"lastMonthAvg"`

	QuestionsPracticed int `json:"questionsPracticed"`
	TotalPauses        int `json:"totalPauses"`
	TotalHintsUsed     int `json:"totalHintsUsed"`
	TotalSkipped       int `json:"totalSkipped"`
	DailyStreak        int `json:"dailyStreak"`

	AudioUploads    int     `json:"audioUploads"`
	VideoUploads    int     `json:"videoUploads"`
	UploadBytes     int64   `json:"uploadBytes"`
	AvgAudioLevel   float64 `json:"avgAudioLevel"`
	AvgSpeechSpeed  float64 `json:"avgSpeechSpeed"`
	DominantEmotion string  `gorm:"size:20" json:"dominantEmotion,omitempty"`

	LastInterviewAt *time.Time `json:"lastInterviewAt"`
	CreatedAt       time.Time  `json:"-"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

func (Statistics) TableName() string { return "interview_statistics" }

// TrendPoint is an append-only snapshot of one completed session's scores.
type TrendPoint struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	UserID            uint      `gorm:"not null;index" json:"userId"`
	SessionID         uint      `gorm:"not null;uniqueIndex" json:"sessionId"`
	Date              time.Time `gorm:"not null;index" json:"date"`
	YearMonth         string    `gorm:"size:7;not null;index" json:"yearMonth"`
	YearWeek          string    `gorm:"size:8;not null;index" json:"yearWeek"`
	Scores            ScoreCard `gorm:"embedded" json:"scores"`
	Mode              Mode      `gorm:"type:varchar(20);not null" json:"mode"`
	Position          string    `gorm:"size:100" json:"position"`
	DurationSec       int       `json:"durationSeconds"`
	QuestionsAnswered int       `json:"questionsAnswered"`
	HintsUsed         int       `json:"hintsUsed"`
	QuestionsSkipped  int       `json:"questionsSkipped"`
	Pauses            int       `json:"pauses"`
	CompletionRate    float64   `json:"completionRate"`
	CreatedAt         time.Time `json:"createdAt"`
}

// UploadTotals summarises the media a user has attached to answers.
type UploadTotals struct {
	AudioUploads int
	VideoUploads int
	Bytes        int64
}

// AnalysisSummary summarises a user's realtime delivery samples.
type AnalysisSummary struct {
	AvgAudioLevel   float64
	AvgSpeechSpeed  float64
	DominantEmotion string
}
