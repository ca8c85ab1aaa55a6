package lifecycle

import (
	"context"
	"errors"
	"sync"
	"testing"

	"interviewprep/internal/catalog"
	"interviewprep/internal/config"
	"interviewprep/internal/evaluator"
	"interviewprep/internal/events"
	"interviewprep/internal/models"
	"interviewprep/internal/repositories"
	"interviewprep/internal/scoring"
	"interviewprep/internal/storage"
	"interviewprep/internal/testhelpers"

	"gorm.io/gorm"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, ev events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

type fixture struct {
	ctrl   *Controller
	db     *gorm.DB
	repo   *repositories.SessionRepository
	events *recordingPublisher
	files  storage.FileStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testhelpers.SetupTestDB(t)
	cat, err := catalog.New()
	if err != nil {
		t.Fatalf("catalog.New returned error: %v", err)
	}
	rules, err := evaluator.NewRules(cat)
	if err != nil {
		t.Fatalf("NewRules returned error: %v", err)
	}
	files, err := storage.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore returned error: %v", err)
	}
	repo := &repositories.SessionRepository{DB: db}
	pub := &recordingPublisher{}
	ctrl := NewController(Deps{
		Sessions:   repo,
		Statistics: scoring.NewStatisticsService(&repositories.StatisticsRepository{DB: db}, nil),
		Catalog:    cat,
		Evaluator:  rules,
		Aggregator: scoring.NewAggregator(config.ScoringConfig{Baseline: 60, SimulationPenalty: 8}),
		Files:      files,
		Publisher:  pub,
	})
	return &fixture{ctrl: ctrl, db: db, repo: repo, events: pub, files: files}
}

func float(v float64) *float64 { return &v }

// fullScores returns a client score card with every dimension set to v.
func fullScores(v float64) *models.ScoreCard {
	card := &models.ScoreCard{Overall: float(v)}
	for _, d := range models.Dimensions {
		card.Set(d, float(v))
	}
	return card
}

func (f *fixture) start(t *testing.T, userID uint, req models.StartInterviewRequest) *Snapshot {
	t.Helper()
	snap, err := f.ctrl.Start(context.Background(), userID, req)
	if err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	return snap
}

func (f *fixture) slots(t *testing.T, sessionID uint) []models.QuestionSlot {
	t.Helper()
	slots, err := f.repo.Slots(context.Background(), sessionID)
	if err != nil {
		t.Fatalf("Slots returned error: %v", err)
	}
	return slots
}

func practice(duration int, settings ...string) models.StartInterviewRequest {
	return models.StartInterviewRequest{Mode: models.ModePractice, Position: "it", Duration: duration, SpecialSettings: settings}
}

func simulation(duration int, company string) models.StartInterviewRequest {
	return models.StartInterviewRequest{Mode: models.ModeSimulation, Position: "it", Duration: duration, Company: company}
}

// checkInvariants asserts answered <= total and at most one current slot.
func (f *fixture) checkInvariants(t *testing.T, sessionID uint) {
	t.Helper()
	s, err := f.repo.Get(context.Background(), sessionID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if s.AnsweredQuestions > s.TotalQuestions {
		t.Fatalf("answered %d exceeds total %d", s.AnsweredQuestions, s.TotalQuestions)
	}
	current := 0
	for _, slot := range f.slots(t, sessionID) {
		if slot.Status == models.SlotCurrent {
			current++
		}
	}
	if current > 1 {
		t.Fatalf("found %d current slots", current)
	}
}

func TestStart_Practice(t *testing.T) {
	f := newFixture(t)
	snap := f.start(t, 1, practice(15))

	s := snap.Session
	if s.Status != models.StatusInProgress || s.Phase != models.PhaseIntro || s.StartedAt == nil {
		t.Fatalf("unexpected session state: %+v", s)
	}
	if s.TotalQuestions != 3 || snap.Progress.Total != 3 {
		t.Fatalf("expected 3 questions, got %d", s.TotalQuestions)
	}
	if snap.CurrentSlot == nil || snap.CurrentSlot.Sequence != 1 || snap.CurrentSlot.AskedAt == nil {
		t.Fatalf("expected slot 1 to be current, got %+v", snap.CurrentSlot)
	}
	if !s.Settings.AllowPause || s.Settings.AllowHints {
		t.Fatalf("unexpected settings: %+v", s.Settings)
	}
	if got := f.events.types(); len(got) != 1 || got[0] != "start" {
		t.Fatalf("expected start event, got %v", got)
	}
	f.checkInvariants(t, s.ID)
}

func TestStart_Validation(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		name string
		req  models.StartInterviewRequest
	}{
		{"missing position", models.StartInterviewRequest{Mode: models.ModePractice}},
		{"bad mode", models.StartInterviewRequest{Mode: "exam", Position: "it"}},
		{"unknown interviewer", models.StartInterviewRequest{Mode: models.ModeSimulation, Position: "it", InterviewerID: 99}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.ctrl.Start(context.Background(), 1, tt.req); !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestScenario_PracticeAnswerSkipAnswerComplete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	snap := f.start(t, 1, practice(15))
	id := snap.Session.ID
	slots := f.slots(t, id)

	snap, err := f.ctrl.Answer(ctx, 1, id, models.AnswerRequest{SlotID: slots[0].ID, Text: "I am a backend engineer", Scores: fullScores(90)})
	if err != nil {
		t.Fatalf("Answer returned error: %v", err)
	}
	if snap.CurrentSlot == nil || snap.CurrentSlot.ID != slots[1].ID {
		t.Fatalf("expected slot 2 to become current, got %+v", snap.CurrentSlot)
	}
	f.checkInvariants(t, id)

	snap, err = f.ctrl.Skip(ctx, 1, id, models.SkipRequest{SlotID: slots[1].ID, Reason: "not sure"})
	if err != nil {
		t.Fatalf("Skip returned error: %v", err)
	}
	if snap.CurrentSlot == nil || snap.CurrentSlot.ID != slots[2].ID {
		t.Fatalf("expected slot 3 to become current, got %+v", snap.CurrentSlot)
	}

	snap, err = f.ctrl.Answer(ctx, 1, id, models.AnswerRequest{SlotID: slots[2].ID, Text: "I traced the leak", Scores: fullScores(70)})
	if err != nil {
		t.Fatalf("Answer returned error: %v", err)
	}
	if !snap.NoNextQuestion || snap.CurrentSlot != nil {
		t.Fatalf("expected no next question, got %+v", snap)
	}

	snap, err = f.ctrl.Complete(ctx, 1, id)
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	s := snap.Session
	if s.Status != models.StatusCompleted || s.AnsweredQuestions != 2 || s.CompletedAt == nil || s.ActualDurationSec == nil {
		t.Fatalf("unexpected completed session: %+v", s)
	}
	if *s.Scores.Overall != 80 || *s.Scores.LogicalThinking != 80 {
		t.Fatalf("expected overall 80, got %+v", s.Scores)
	}
	if !snap.ReportAvailable || s.Feedback == "" || s.KeyFeedback == "" || s.ImprovementSuggestions == "" {
		t.Fatalf("expected a report, got %+v", s)
	}
	if snap.Progress.Skipped != 1 || snap.Progress.Percent != 100 {
		t.Fatalf("unexpected progress: %+v", snap.Progress)
	}

	var point models.TrendPoint
	if err := f.db.Where("session_id = ?", id).First(&point).Error; err != nil {
		t.Fatalf("expected trend point: %v", err)
	}
	if point.QuestionsSkipped != 1 || *point.Scores.Overall != 80 {
		t.Fatalf("unexpected trend point: %+v", point)
	}
	var stats models.Statistics
	if err := f.db.Where("user_id = ?", 1).First(&stats).Error; err != nil {
		t.Fatalf("expected statistics row: %v", err)
	}
	if stats.CompletedInterviews != 1 || stats.AvgOverall != 80 || stats.TotalSkipped != 1 {
		t.Fatalf("unexpected statistics: %+v", stats)
	}

	if _, err := f.ctrl.Complete(ctx, 1, id); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition on second complete, got %v", err)
	}
}

func TestComplete_ZeroAnswersUsesBaseline(t *testing.T) {
	f := newFixture(t)
	snap := f.start(t, 1, practice(15))

	snap, err := f.ctrl.Complete(context.Background(), 1, snap.Session.ID)
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if *snap.Session.Scores.Overall != 60 || *snap.Session.Scores.SkillMatch != 60 {
		t.Fatalf("expected baseline 60, got %+v", snap.Session.Scores)
	}
}

func TestComplete_SimulationPenalty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	snap := f.start(t, 1, simulation(30, ""))
	id := snap.Session.ID

	if _, err := f.ctrl.Answer(ctx, 1, id, models.AnswerRequest{SlotID: snap.CurrentSlot.ID, Scores: fullScores(90)}); err != nil {
		t.Fatalf("Answer returned error: %v", err)
	}
	snap, err := f.ctrl.Complete(ctx, 1, id)
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if *snap.Session.Scores.Overall != 82 {
		t.Fatalf("expected 90 minus penalty 8, got %v", *snap.Session.Scores.Overall)
	}
}

func TestComplete_MissingScoreFallsBackToBaseline(t *testing.T) {
	f := newFixture(t)
	snap := f.start(t, 1, practice(15))
	broken := models.Answer{SessionID: snap.Session.ID, SlotID: snap.CurrentSlot.ID, IsComplete: true}
	if err := f.db.Create(&broken).Error; err != nil {
		t.Fatalf("seed answer: %v", err)
	}

	snap, err := f.ctrl.Complete(context.Background(), 1, snap.Session.ID)
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if *snap.Session.Scores.Overall != 60 {
		t.Fatalf("expected baseline after aggregation failure, got %v", *snap.Session.Scores.Overall)
	}
}

func TestScenario_EmergencyExitBeforeAnswers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	snap := f.start(t, 1, practice(15))
	id := snap.Session.ID

	snap, err := f.ctrl.EmergencyExit(ctx, 1, id, models.EmergencyExitRequest{Reason: "network"})
	if err != nil {
		t.Fatalf("EmergencyExit returned error: %v", err)
	}
	s := snap.Session
	if s.Status != models.StatusInterrupted || !s.IsEmergencyExit || s.ExitReason != "network" {
		t.Fatalf("unexpected session: %+v", s)
	}
	if s.Scores.Overall != nil || snap.ReportAvailable {
		t.Fatalf("expected no scores and no report, got %+v", s.Scores)
	}

	again, err := f.ctrl.EmergencyExit(ctx, 1, id, models.EmergencyExitRequest{Reason: "again"})
	if err != nil {
		t.Fatalf("repeated EmergencyExit returned error: %v", err)
	}
	if again.Session.ExitReason != "network" {
		t.Fatalf("repeated exit must not change the session, got reason %q", again.Session.ExitReason)
	}
	var points int64
	f.db.Model(&models.TrendPoint{}).Count(&points)
	if points != 0 {
		t.Fatalf("interrupted sessions must not add trend points, found %d", points)
	}

	if _, err := f.ctrl.Complete(ctx, 1, id); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if _, err := f.ctrl.Pause(ctx, 1, id); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestEmergencyExit_AfterAnswersIsScored(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	snap := f.start(t, 1, practice(15))
	id := snap.Session.ID
	if _, err := f.ctrl.Answer(ctx, 1, id, models.AnswerRequest{SlotID: snap.CurrentSlot.ID, Scores: fullScores(75)}); err != nil {
		t.Fatalf("Answer returned error: %v", err)
	}

	snap, err := f.ctrl.EmergencyExit(ctx, 1, id, models.EmergencyExitRequest{})
	if err != nil {
		t.Fatalf("EmergencyExit returned error: %v", err)
	}
	if snap.Session.Scores.Overall == nil || *snap.Session.Scores.Overall != 75 {
		t.Fatalf("expected overall 75, got %+v", snap.Session.Scores)
	}
	if snap.Session.ExitReason != "user_exit" || !snap.ReportAvailable {
		t.Fatalf("unexpected session: %+v", snap.Session)
	}
}

func TestEmergencyExit_CompletedSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	snap := f.start(t, 1, practice(15))
	if _, err := f.ctrl.Complete(ctx, 1, snap.Session.ID); err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if _, err := f.ctrl.EmergencyExit(ctx, 1, snap.Session.ID, models.EmergencyExitRequest{}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestScenario_AdvancePhase(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.start(t, 1, practice(15)).Session.ID

	var snap *Snapshot
	var err error
	for i := 0; i < 2; i++ {
		if snap, err = f.ctrl.AdvancePhase(ctx, 1, id); err != nil {
			t.Fatalf("AdvancePhase returned error: %v", err)
		}
	}
	if snap.Session.Phase != models.PhaseTechnical || snap.Session.PhaseInfo.Index != 2 {
		t.Fatalf("expected technical phase, got %s", snap.Session.Phase)
	}

	if _, err := f.ctrl.SetPhase(ctx, 1, id, models.PhaseRequest{Phase: models.PhaseQuestions}); err != nil {
		t.Fatalf("SetPhase returned error: %v", err)
	}
	if _, err := f.ctrl.AdvancePhase(ctx, 1, id); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition past questions, got %v", err)
	}
	if _, err := f.ctrl.SetPhase(ctx, 1, id, models.PhaseRequest{Phase: "lunch"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for unknown phase, got %v", err)
	}
}

func TestPauseResume(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	snap := f.start(t, 1, practice(15))
	id := snap.Session.ID

	if _, err := f.ctrl.Resume(ctx, 1, id); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition resuming a running session, got %v", err)
	}
	paused, err := f.ctrl.Pause(ctx, 1, id)
	if err != nil {
		t.Fatalf("Pause returned error: %v", err)
	}
	if !paused.Session.IsPaused || paused.Session.PauseCount != 1 {
		t.Fatalf("unexpected paused session: %+v", paused.Session)
	}
	if _, err := f.ctrl.Pause(ctx, 1, id); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition pausing twice, got %v", err)
	}
	if _, err := f.ctrl.Answer(ctx, 1, id, models.AnswerRequest{SlotID: snap.CurrentSlot.ID, Text: "x"}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition answering while paused, got %v", err)
	}
	if _, err := f.ctrl.Skip(ctx, 1, id, models.SkipRequest{SlotID: snap.CurrentSlot.ID}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition skipping while paused, got %v", err)
	}

	resumed, err := f.ctrl.Resume(ctx, 1, id)
	if err != nil {
		t.Fatalf("Resume returned error: %v", err)
	}
	if resumed.Session.IsPaused {
		t.Fatal("expected session to be running")
	}

	if _, err := f.ctrl.Pause(ctx, 1, id); err != nil {
		t.Fatalf("Pause returned error: %v", err)
	}
	done, err := f.ctrl.Complete(ctx, 1, id)
	if err != nil {
		t.Fatalf("Complete on a paused session returned error: %v", err)
	}
	if done.Session.IsPaused {
		t.Fatal("completion must clear the pause")
	}
}

func TestPause_SimulationIsInvalid(t *testing.T) {
	f := newFixture(t)
	snap := f.start(t, 1, simulation(45, ""))
	if _, err := f.ctrl.Pause(context.Background(), 1, snap.Session.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if _, err := f.ctrl.Skip(context.Background(), 1, snap.Session.ID, models.SkipRequest{SlotID: snap.CurrentSlot.ID}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition for simulation skip, got %v", err)
	}
}

func TestSkipThenNextQuestionNeverReturnsSkipped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	snap := f.start(t, 1, practice(15))
	id := snap.Session.ID
	skipped := snap.CurrentSlot.ID

	if _, err := f.ctrl.Skip(ctx, 1, id, models.SkipRequest{SlotID: skipped}); err != nil {
		t.Fatalf("Skip returned error: %v", err)
	}
	for i := 0; i < 3; i++ {
		next, err := f.ctrl.NextQuestion(ctx, 1, id)
		if err != nil {
			t.Fatalf("NextQuestion returned error: %v", err)
		}
		if next.CurrentSlot != nil && next.CurrentSlot.ID == skipped {
			t.Fatal("NextQuestion returned the skipped slot")
		}
	}
	if _, err := f.ctrl.Skip(ctx, 1, id, models.SkipRequest{SlotID: skipped}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition skipping twice, got %v", err)
	}

	ans, err := f.repo.GetAnswer(ctx, skipped)
	if err != nil || ans == nil {
		t.Fatalf("expected placeholder answer, got %v, %v", ans, err)
	}
	if ans.IsComplete || ans.SkipReason != "user_skip" {
		t.Fatalf("unexpected placeholder answer: %+v", ans)
	}
	f.checkInvariants(t, id)
}

func TestNextQuestion_PromotesPendingAndReportsEnd(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	snap := f.start(t, 1, practice(15))
	id := snap.Session.ID

	// leave no slot current
	if err := f.db.Model(&models.QuestionSlot{}).Where("id = ?", snap.CurrentSlot.ID).Update("status", models.SlotPending).Error; err != nil {
		t.Fatalf("reset slot: %v", err)
	}
	next, err := f.ctrl.NextQuestion(ctx, 1, id)
	if err != nil {
		t.Fatalf("NextQuestion returned error: %v", err)
	}
	if next.CurrentSlot == nil || next.CurrentSlot.Sequence != 1 {
		t.Fatalf("expected lowest pending slot to be promoted, got %+v", next.CurrentSlot)
	}

	for _, slot := range f.slots(t, id) {
		if _, err := f.ctrl.Answer(ctx, 1, id, models.AnswerRequest{SlotID: slot.ID, Text: "answer"}); err != nil {
			t.Fatalf("Answer returned error: %v", err)
		}
	}
	end, err := f.ctrl.NextQuestion(ctx, 1, id)
	if err != nil {
		t.Fatalf("NextQuestion returned error: %v", err)
	}
	if !end.NoNextQuestion || end.Session.AnsweredQuestions != 3 {
		t.Fatalf("expected no next question, got %+v", end)
	}
	f.checkInvariants(t, id)
}

func TestAnswer_EvaluatorAndClientOverride(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	snap := f.start(t, 1, practice(15))
	id := snap.Session.ID
	slot := snap.CurrentSlot

	if _, err := f.ctrl.Answer(ctx, 1, id, models.AnswerRequest{SlotID: slot.ID, Text: "My background", Scores: &models.ScoreCard{Overall: float(50)}}); err != nil {
		t.Fatalf("Answer returned error: %v", err)
	}
	ans, err := f.repo.GetAnswer(ctx, slot.ID)
	if err != nil || ans == nil {
		t.Fatalf("expected answer, got %v, %v", ans, err)
	}
	if !ans.IsComplete || ans.Evaluator != evaluator.RulesName || ans.SubmittedAt == nil {
		t.Fatalf("unexpected answer: %+v", ans)
	}
	if *ans.Scores.Overall != 50 {
		t.Fatalf("client overall must win, got %v", *ans.Scores.Overall)
	}
	if ans.Scores.Professional == nil {
		t.Fatal("evaluator should fill the missing dimensions")
	}

	if _, err := f.ctrl.Answer(ctx, 1, id, models.AnswerRequest{SlotID: slot.ID, Text: "again"}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition answering twice, got %v", err)
	}
	if _, err := f.ctrl.Answer(ctx, 1, id, models.AnswerRequest{SlotID: 9999, Text: "x"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown slot, got %v", err)
	}
	if _, err := f.ctrl.Answer(ctx, 1, id, models.AnswerRequest{}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation without slot, got %v", err)
	}
}

func TestOwnershipAndMissingSessions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.start(t, 1, practice(15)).Session.ID

	if _, err := f.ctrl.Pause(ctx, 2, id); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := f.ctrl.Status(ctx, 2, id); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden from Status, got %v", err)
	}
	if err := f.ctrl.Delete(ctx, 2, id); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden from Delete, got %v", err)
	}
	if _, err := f.ctrl.Pause(ctx, 1, 4242); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := f.ctrl.Detail(ctx, 1, 4242); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound from Detail, got %v", err)
	}
}

func TestConcurrentAnswersToOneSlot(t *testing.T) {
	f := newFixture(t)
	snap := f.start(t, 1, practice(15))
	id, slotID := snap.Session.ID, snap.CurrentSlot.ID

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.ctrl.Answer(context.Background(), 1, id, models.AnswerRequest{SlotID: slotID, Text: "race"})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
			} else if !errors.Is(err, ErrInvalidTransition) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if succeeded != 1 {
		t.Fatalf("expected exactly one answer to succeed, got %d", succeeded)
	}
	s, _ := f.repo.Get(context.Background(), id)
	if s.AnsweredQuestions != 1 {
		t.Fatalf("expected answered=1, got %d", s.AnsweredQuestions)
	}
	f.checkInvariants(t, id)
}

func TestEventsPublishedPerAction(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.start(t, 1, practice(15)).Session.ID
	if _, err := f.ctrl.Pause(ctx, 1, id); err != nil {
		t.Fatalf("Pause returned error: %v", err)
	}
	if _, err := f.ctrl.Resume(ctx, 1, id); err != nil {
		t.Fatalf("Resume returned error: %v", err)
	}
	// failed actions publish nothing
	_, _ = f.ctrl.Resume(ctx, 1, id)
	if _, err := f.ctrl.Complete(ctx, 1, id); err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}

	got := f.events.types()
	want := []string{"start", "pause", "resume", "complete"}
	if len(got) != len(want) {
		t.Fatalf("expected events %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected events %v, got %v", want, got)
		}
	}
}
