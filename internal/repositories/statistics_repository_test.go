package repositories

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"interviewprep/internal/models"
	"interviewprep/internal/testhelpers"
)

func float(v float64) *float64 { return &v }

func finishSession(t *testing.T, repo *SessionRepository, userID uint, status models.Status, overall *float64, completedAt time.Time) *models.Session {
	t.Helper()
	s := &models.Session{
		UserID:      userID,
		Mode:        models.ModePractice,
		Status:      status,
		Phase:       models.PhaseQuestions,
		CompletedAt: &completedAt,
		Scores:      models.ScoreCard{Overall: overall},
	}
	if err := repo.CreateWithSlots(context.Background(), s, []models.QuestionSlot{
		{Sequence: 1, Status: models.SlotAnswered, Text: "q1"},
		{Sequence: 2, Status: models.SlotSkipped, Text: "q2"},
	}); err != nil {
		t.Fatalf("seed session: %v", err)
	}
	return s
}

func TestStatisticsRepository_Upsert(t *testing.T) {
	repo := &StatisticsRepository{DB: testhelpers.SetupTestDB(t)}
	ctx := context.Background()

	if _, err := repo.Get(ctx, 1); !errors.Is(err, ErrStatisticsNotFound) {
		t.Fatalf("expected ErrStatisticsNotFound, got %v", err)
	}
	if err := repo.Upsert(ctx, &models.Statistics{UserID: 1, TotalInterviews: 1}); err != nil {
		t.Fatalf("first Upsert returned error: %v", err)
	}
	first, _ := repo.Get(ctx, 1)

	if err := repo.Upsert(ctx, &models.Statistics{UserID: 1, TotalInterviews: 5}); err != nil {
		t.Fatalf("second Upsert returned error: %v", err)
	}
	second, err := repo.Get(ctx, 1)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if second.ID != first.ID || second.TotalInterviews != 5 {
		t.Fatalf("expected row %d updated to 5, got %+v", first.ID, second)
	}
}

func TestStatisticsRepository_SessionQueries(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	sessions := &SessionRepository{DB: db}
	repo := &StatisticsRepository{DB: db}
	ctx := context.Background()
	base := time.Date(2026, 10, 1, 10, 0, 0, 0, time.UTC)

	a := finishSession(t, sessions, 1, models.StatusCompleted, float(70), base)
	finishSession(t, sessions, 1, models.StatusInterrupted, nil, base.Add(time.Hour))
	c := finishSession(t, sessions, 1, models.StatusCompleted, float(90), base.Add(2*time.Hour))
	finishSession(t, sessions, 2, models.StatusCompleted, float(65), base)
	finishSession(t, sessions, 2, models.StatusCompleted, float(75), base)
	finishSession(t, sessions, 3, models.StatusCompleted, float(88), base)
	live := &models.Session{UserID: 1, Mode: models.ModePractice, Status: models.StatusInProgress, Phase: models.PhaseIntro}
	_ = sessions.CreateWithSlots(ctx, live, nil)

	finished, err := repo.FinishedSessions(ctx, 1)
	if err != nil || len(finished) != 3 || finished[0].ID != a.ID {
		t.Fatalf("unexpected finished sessions: %+v (err %v)", finished, err)
	}

	recent, err := repo.RecentCompleted(ctx, 1, 1)
	if err != nil || len(recent) != 1 || recent[0].ID != c.ID {
		t.Fatalf("expected newest completed session, got %+v (err %v)", recent, err)
	}

	skipped, err := repo.SkippedSlots(ctx, 1)
	if err != nil || skipped != 3 {
		t.Fatalf("expected 3 skipped slots, got %d (err %v)", skipped, err)
	}

	best, err := repo.OtherUsersBestScores(ctx, 1)
	if err != nil {
		t.Fatalf("OtherUsersBestScores returned error: %v", err)
	}
	sort.Float64s(best)
	if len(best) != 2 || best[0] != 75 || best[1] != 88 {
		t.Fatalf("expected [75 88], got %v", best)
	}

	ids, err := repo.UserIDsWithSessions(ctx)
	if err != nil || len(ids) != 3 {
		t.Fatalf("expected three users, got %v (err %v)", ids, err)
	}
}

func TestStatisticsRepository_UploadAndAnalysisSummaries(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	sessions := &SessionRepository{DB: db}
	repo := &StatisticsRepository{DB: db}
	ctx := context.Background()

	s := finishSession(t, sessions, 1, models.StatusCompleted, float(80), time.Now())
	_ = sessions.SaveAnswer(ctx, &models.Answer{SessionID: s.ID, SlotID: s.Slots[0].ID, AudioPath: "a.webm", AudioSize: 100, VideoPath: "v.webm", VideoSize: 400})
	_ = sessions.SaveAnswer(ctx, &models.Answer{SessionID: s.ID, SlotID: s.Slots[1].ID, AudioPath: "b.webm", AudioSize: 50})

	totals, err := repo.UploadTotals(ctx, 1)
	if err != nil {
		t.Fatalf("UploadTotals returned error: %v", err)
	}
	if totals.AudioUploads != 2 || totals.VideoUploads != 1 || totals.Bytes != 550 {
		t.Fatalf("unexpected totals: %+v", totals)
	}

	for _, sample := range []models.AnalysisSample{
		{SessionID: s.ID, UserID: 1, AudioLevel: float(40), SpeechSpeed: float(120), EmotionType: "calm"},
		{SessionID: s.ID, UserID: 1, AudioLevel: float(60), EmotionType: "calm"},
		{SessionID: s.ID, UserID: 1, SpeechSpeed: float(140), EmotionType: "nervous"},
	} {
		sample.RecordedAt = time.Now()
		if err := sessions.CreateAnalysis(ctx, &sample); err != nil {
			t.Fatalf("CreateAnalysis returned error: %v", err)
		}
	}
	summary, err := repo.AnalysisSummary(ctx, 1)
	if err != nil {
		t.Fatalf("AnalysisSummary returned error: %v", err)
	}
	if summary.AvgAudioLevel != 50 || summary.AvgSpeechSpeed != 130 || summary.DominantEmotion != "calm" {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	empty, err := repo.AnalysisSummary(ctx, 99)
	if err != nil || empty.DominantEmotion != "" || empty.AvgAudioLevel != 0 {
		t.Fatalf("expected empty summary, got %+v (err %v)", empty, err)
	}
}

func TestStatisticsRepository_TrendPoints(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	sessions := &SessionRepository{DB: db}
	repo := &StatisticsRepository{DB: db}
	ctx := context.Background()
	now := time.Now()

	for i, age := range []time.Duration{40 * 24 * time.Hour, 2 * 24 * time.Hour, time.Hour} {
		p := &models.TrendPoint{UserID: 1, SessionID: uint(i + 1), Date: now.Add(-age), YearMonth: "2026-10", YearWeek: "2026-42", Mode: models.ModePractice}
		if err := sessions.AppendTrendPoint(ctx, p); err != nil {
			t.Fatalf("AppendTrendPoint returned error: %v", err)
		}
	}
	points, err := repo.TrendPoints(ctx, 1, now.Add(-30*24*time.Hour))
	if err != nil || len(points) != 2 || points[0].SessionID != 2 {
		t.Fatalf("expected last two points oldest first, got %+v (err %v)", points, err)
	}
}
