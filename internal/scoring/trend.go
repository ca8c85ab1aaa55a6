package scoring

import (
	"fmt"
	"time"

	"interviewprep/internal/models"
)

// BuildTrendPoint snapshots a completed session for charting.
func BuildTrendPoint(s *models.Session, skipped int) models.TrendPoint {
	at := time.Now()
	if s.CompletedAt != nil {
		at = *s.CompletedAt
	}
	duration := 0
	if s.ActualDurationSec != nil {
		duration = *s.ActualDurationSec
	}
	rate := 0.0
	if s.TotalQuestions > 0 {
		rate = round1(float64(s.AnsweredQuestions) / float64(s.TotalQuestions) * 100)
	}
	return models.TrendPoint{
		UserID:            s.UserID,
		SessionID:         s.ID,
		Date:              at,
		YearMonth:         at.Format("2006-01"),
		YearWeek:          YearWeek(at),
		Scores:            copyCard(s.Scores),
		Mode:              s.Mode,
		Position:          s.Position,
		DurationSec:       duration,
		QuestionsAnswered: s.AnsweredQuestions,
		HintsUsed:         s.HintsUsed,
		QuestionsSkipped:  skipped,
		Pauses:            s.PauseCount,
		CompletionRate:    rate,
	}
}

// YearWeek formats t as "YYYY-WW" where weeks start on Monday and days
// before the first Monday of the year are week 00.
func YearWeek(t time.Time) string {
	mondayFirst := (int(t.Weekday()) + 6) % 7
	week := (t.YearDay() - 1 + 7 - mondayFirst) / 7
	return fmt.Sprintf("%d-%02d", t.Year(), week)
}

func copyCard(c models.ScoreCard) models.ScoreCard {
	var out models.ScoreCard
	for _, d := range allDimensions() {
		if v := c.Get(d); v != nil {
			cp := *v
			out.Set(d, &cp)
		}
	}
	return out
}
