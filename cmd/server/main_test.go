package main

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"interviewprep/internal/catalog"
	"interviewprep/internal/config"
	"interviewprep/internal/evaluator"

	"github.com/alicebob/miniredis/v2"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// prepareServerGlobals restores every injectable global after the test.
func prepareServerGlobals(t *testing.T) {
	t.Helper()
	origLogger, origLoad, origOpen, origDialector := newLogger, loadConfig, gormOpen, newDialector
	origMigrate, origTimeout, origListen, origSignal := runAutoMigrate, dbConnectTimeout, httpListenServe, shutdownSignal
	origExit, origFatal := exitFunc, logFatalFn
	t.Cleanup(func() {
		newLogger, loadConfig, gormOpen, newDialector = origLogger, origLoad, origOpen, origDialector
		runAutoMigrate, dbConnectTimeout, httpListenServe, shutdownSignal = origMigrate, origTimeout, origListen, origSignal
		exitFunc, logFatalFn = origExit, origFatal
	})
	newLogger = func(...zap.Option) (*zap.Logger, error) { return zap.NewNop(), nil }
	dbConnectTimeout = 100 * time.Millisecond
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Server:    config.ServerConfig{Port: "8080", CORSOrigins: []string{"http://localhost:5173"}},
		Database:  config.DatabaseConfig{Driver: "sqlite", SQLitePath: filepath.Join(dir, "test.db")},
		Auth:      config.AuthConfig{JWTSecret: "secret", AccessExpiry: time.Hour, RefreshExpiry: time.Hour},
		Storage:   config.StorageConfig{Driver: "local", UploadDir: filepath.Join(dir, "uploads"), MaxUploadBytes: 1 << 20},
		Scoring:   config.ScoringConfig{Baseline: 60, SimulationPenalty: 8},
		Evaluator: config.EvaluatorConfig{Name: "rules"},
		Jobs:      config.JobsConfig{Enabled: false},
	}
}

func useConfig(cfg *config.Config) {
	loadConfig = func() (*config.Config, error) { return cfg, nil }
}

// probe answers one request against the server handler instead of listening.
func probe(target string, status *int, body *string) func(*http.Server) error {
	return func(srv *http.Server) error {
		rec := httptest.NewRecorder()
		srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		*status, *body = rec.Code, rec.Body.String()
		return nil
	}
}

func TestConnectWithRetrySuccess(t *testing.T) {
	prepareServerGlobals(t)
	calls := 0
	gormOpen = func(config.DatabaseConfig) (*gorm.DB, error) {
		calls++
		return gorm.Open(sqlite.Open("file:retry-success?mode=memory&cache=shared"), &gorm.Config{})
	}

	db, err := connectWithRetry(config.DatabaseConfig{}, time.Second, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected single connection attempt, got %d", calls)
	}
	sqlDB, _ := db.DB()
	sqlDB.Close()
}

func TestConnectWithRetryFailure(t *testing.T) {
	prepareServerGlobals(t)
	calls := 0
	gormOpen = func(config.DatabaseConfig) (*gorm.DB, error) {
		calls++
		return nil, errors.New("connect failed")
	}

	if _, err := connectWithRetry(config.DatabaseConfig{}, 300*time.Millisecond, zap.NewNop()); err == nil {
		t.Fatal("expected error but got nil")
	}
	if calls < 2 {
		t.Fatalf("expected retries, got %d attempts", calls)
	}
}

func TestConnectWithRetryPingFailure(t *testing.T) {
	prepareServerGlobals(t)
	gormOpen = func(config.DatabaseConfig) (*gorm.DB, error) {
		db, err := gorm.Open(sqlite.Open("file:ping-fail?mode=memory&cache=shared"), &gorm.Config{})
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.Close()
		return db, nil
	}

	if _, err := connectWithRetry(config.DatabaseConfig{}, 200*time.Millisecond, zap.NewNop()); err == nil {
		t.Fatal("expected error due to ping failure")
	}
}

func TestDefaultGormOpen(t *testing.T) {
	prepareServerGlobals(t)
	newDialector = func(config.DatabaseConfig) gorm.Dialector {
		return sqlite.Open("file:default-gorm?mode=memory&cache=shared")
	}

	db, err := defaultGormOpen(config.DatabaseConfig{Driver: "sqlite"})
	if err != nil {
		t.Fatalf("defaultGormOpen returned error: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql DB: %v", err)
	}
	defer sqlDB.Close()
	if got := sqlDB.Stats().MaxOpenConnections; got != 1 {
		t.Fatalf("expected sqlite to use one connection, got %d", got)
	}
}

func TestDefaultDialector(t *testing.T) {
	if got := defaultDialector(config.DatabaseConfig{Driver: "sqlite", SQLitePath: "x.db"}).Name(); got != "sqlite" {
		t.Fatalf("expected sqlite dialector, got %s", got)
	}
	if got := defaultDialector(config.DatabaseConfig{Driver: "postgres", URL: "postgres://localhost/db"}).Name(); got != "postgres" {
		t.Fatalf("expected postgres dialector, got %s", got)
	}
}

func TestBuildEvaluator(t *testing.T) {
	cat, err := catalog.New()
	if err != nil {
		t.Fatalf("catalog.New returned error: %v", err)
	}

	tests := []struct {
		name string
		cfg  config.EvaluatorConfig
		want string
	}{
		{"default", config.EvaluatorConfig{}, evaluator.RulesName},
		{"rules", config.EvaluatorConfig{Name: "rules"}, evaluator.RulesName},
		{"unknown falls back", config.EvaluatorConfig{Name: "oracle"}, evaluator.RulesName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eval, err := buildEvaluator(cat, tt.cfg, zap.NewNop())
			if err != nil {
				t.Fatalf("buildEvaluator returned error: %v", err)
			}
			if eval.Name() != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, eval.Name())
			}
		})
	}
}

func TestRunServesHealth(t *testing.T) {
	prepareServerGlobals(t)
	useConfig(testConfig(t))

	var status int
	var body string
	httpListenServe = probe("/healthz", &status, &body)

	if err := run(); err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if status != http.StatusOK || body != "ok" {
		t.Fatalf("expected health endpoint to respond, got %d %q", status, body)
	}
}

func TestRunWithRedis(t *testing.T) {
	prepareServerGlobals(t)
	mr := miniredis.RunT(t)
	cfg := testConfig(t)
	cfg.Redis = config.RedisConfig{Addr: mr.Addr(), LockTTL: time.Second}
	useConfig(cfg)

	var status int
	var body string
	httpListenServe = probe("/readyz", &status, &body)

	if err := run(); err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if status != http.StatusOK || body != "ready" {
		t.Fatalf("expected readiness with redis, got %d %q", status, body)
	}
}

func TestRunRedisUnavailable(t *testing.T) {
	prepareServerGlobals(t)
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()
	cfg := testConfig(t)
	cfg.Redis = config.RedisConfig{Addr: addr}
	useConfig(cfg)

	if err := run(); err == nil {
		t.Fatal("expected redis connection error from run")
	}
}

func TestRunStopsOnSignal(t *testing.T) {
	prepareServerGlobals(t)
	cfg := testConfig(t)
	cfg.Server.Port = "0"
	cfg.Jobs = config.JobsConfig{Enabled: true, StatsRebuildSchedule: "@daily", TokenCleanupSchedule: "@hourly"}
	useConfig(cfg)

	signals := make(chan os.Signal, 1)
	signals <- syscall.SIGTERM
	shutdownSignal = func() <-chan os.Signal { return signals }

	if err := run(); err != nil {
		t.Fatalf("run returned error: %v", err)
	}
}

func TestRunFailures(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T)
	}{
		{"logger", func(t *testing.T) {
			newLogger = func(...zap.Option) (*zap.Logger, error) { return nil, errors.New("logger boom") }
		}},
		{"config", func(t *testing.T) {
			loadConfig = func() (*config.Config, error) { return nil, errors.New("bad config") }
		}},
		{"connect", func(t *testing.T) {
			useConfig(testConfig(t))
			gormOpen = func(config.DatabaseConfig) (*gorm.DB, error) { return nil, errors.New("connect failed") }
		}},
		{"migrate", func(t *testing.T) {
			useConfig(testConfig(t))
			runAutoMigrate = func(*gorm.DB, ...interface{}) error { return errors.New("migrate failed") }
		}},
		{"storage", func(t *testing.T) {
			cfg := testConfig(t)
			cfg.Storage.Driver = "floppy"
			useConfig(cfg)
		}},
		{"jobs", func(t *testing.T) {
			cfg := testConfig(t)
			cfg.Jobs = config.JobsConfig{Enabled: true, StatsRebuildSchedule: "not a schedule", TokenCleanupSchedule: "@hourly"}
			useConfig(cfg)
		}},
		{"listen", func(t *testing.T) {
			useConfig(testConfig(t))
			httpListenServe = func(*http.Server) error { return errors.New("listen failed") }
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prepareServerGlobals(t)
			tt.setup(t)
			if err := run(); err == nil {
				t.Fatalf("expected %s error from run", tt.name)
			}
		})
	}
}

func TestMainHandlesError(t *testing.T) {
	prepareServerGlobals(t)
	loadConfig = func() (*config.Config, error) { return nil, errors.New("bad config") }

	var captured error
	logFatalFn = func(err error) { captured = err }

	main()

	if captured == nil {
		t.Fatal("expected logFatalFn to capture error")
	}
}

func TestDefaultLogFatal(t *testing.T) {
	prepareServerGlobals(t)
	var code int
	exitFunc = func(c int) { code = c }

	defaultLogFatal(errors.New("boom"))

	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
}
