package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"interviewprep/internal/catalog"
	"interviewprep/internal/config"
	"interviewprep/internal/evaluator"
	"interviewprep/internal/events"
	"interviewprep/internal/lifecycle"
	"interviewprep/internal/middleware"
	"interviewprep/internal/realtime"
	"interviewprep/internal/repositories"
	"interviewprep/internal/scoring"
	"interviewprep/internal/storage"
	"interviewprep/internal/testhelpers"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var authConfig = config.AuthConfig{JWTSecret: "test-secret", AccessExpiry: time.Hour, RefreshExpiry: 24 * time.Hour}

// env wires every handler against one in-memory database.
type env struct {
	db         *gorm.DB
	catalog    *catalog.Catalog
	files      storage.FileStore
	auth       *AuthHandler
	users      *UserHandler
	resumes    *ResumeHandler
	catalogH   *CatalogHandler
	interviews *InterviewHandler
	analytics  *AnalyticsHandler
}

func newEnv(t *testing.T) *env {
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
	logger := zap.NewNop()
	statsRepo := &repositories.StatisticsRepository{DB: db}
	stats := scoring.NewStatisticsService(statsRepo, logger)
	hub := realtime.NewHub()
	aggregator := scoring.NewAggregator(config.ScoringConfig{Baseline: 60, SimulationPenalty: 8})
	ctrl := lifecycle.NewController(lifecycle.Deps{
		Sessions:   &repositories.SessionRepository{DB: db},
		Statistics: stats,
		Catalog:    cat,
		Evaluator:  rules,
		Aggregator: aggregator,
		Files:      files,
		Publisher:  events.NewLocalPublisher(hub),
		Logger:     logger,
	})
	userRepo := &repositories.UserRepository{DB: db}

	return &env{
		db:      db,
		catalog: cat,
		files:   files,
		auth:    NewAuthHandler(userRepo, &repositories.TokenRepository{DB: db}, authConfig, logger),
		users: &UserHandler{
			Users:    userRepo,
			Profiles: &repositories.ProfileRepository{DB: db},
			Logger:   logger,
		},
		resumes: &ResumeHandler{
			Resumes:  &repositories.ResumeRepository{DB: db},
			Files:    files,
			MaxBytes: 1 << 20,
			Logger:   logger,
		},
		catalogH:   &CatalogHandler{Catalog: cat},
		interviews: NewInterviewHandler(ctrl, hub, 1<<20, logger),
		analytics: &AnalyticsHandler{
			Controller: ctrl,
			Statistics: stats,
			Insights:   scoring.NewInsights(statsRepo, cat, aggregator),
			Logger:     logger,
		},
	}
}

// serve routes one request through a router holding only pattern. A
// non-zero userID is injected as the authenticated caller.
func serve(h http.HandlerFunc, method, pattern, target string, body io.Reader, userID uint, header ...string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Method(method, pattern, h)
	req := httptest.NewRequest(method, target, body)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	if userID != 0 {
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	return bytes.NewReader(b)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

func itoa(id uint) string { return strconv.FormatUint(uint64(id), 10) }
