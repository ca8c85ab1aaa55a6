package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"interviewprep/internal/catalog"
	"interviewprep/internal/config"
	"interviewprep/internal/evaluator"
	_ "interviewprep/internal/evaluator/gemini"
	"interviewprep/internal/events"
	"interviewprep/internal/handlers"
	"interviewprep/internal/jobs"
	"interviewprep/internal/lifecycle"
	"interviewprep/internal/locks"
	"interviewprep/internal/models"
	"interviewprep/internal/realtime"
	"interviewprep/internal/repositories"
	"interviewprep/internal/routers"
	"interviewprep/internal/scoring"
	"interviewprep/internal/storage"
	"interviewprep/internal/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var (
	newLogger        = zap.NewProduction
	loadConfig       = config.Load
	gormOpen         = defaultGormOpen
	newDialector     = defaultDialector
	runAutoMigrate   = func(db *gorm.DB, dst ...interface{}) error { return db.AutoMigrate(dst...) }
	dbConnectTimeout = 30 * time.Second
	httpListenServe  = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownSignal   = defaultShutdownSignal
	exitFunc         = os.Exit
	logFatalFn       = defaultLogFatal
)

func defaultDialector(cfg config.DatabaseConfig) gorm.Dialector {
	if cfg.Driver == "sqlite" {
		return sqlite.Open(cfg.SQLitePath)
	}
	return postgres.Open(cfg.DSN())
}

func defaultGormOpen(cfg config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(newDialector(cfg), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if cfg.Driver == "sqlite" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		// sqlite allows one writer at a time
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

func defaultShutdownSignal() <-chan os.Signal {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	return ch
}

func defaultLogFatal(err error) {
	log.Printf("server exited: %v", err)
	exitFunc(1)
}

// connectWithRetry keeps opening and pinging the database until it answers
// or timeout passes.
func connectWithRetry(cfg config.DatabaseConfig, timeout time.Duration, logger *zap.Logger) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	var lastErr error
	for attempt := 1; ; attempt++ {
		db, err := gormOpen(cfg)
		if err == nil {
			var sqlDB *sql.DB
			if sqlDB, err = db.DB(); err == nil {
				if err = sqlDB.Ping(); err == nil {
					return db, nil
				}
			}
		}
		lastErr = err
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("database not reachable after %d attempts: %w", attempt, lastErr)
		}
		logger.Warn("database not ready, retrying", zap.Int("attempt", attempt), zap.Error(err))
		time.Sleep(200 * time.Millisecond)
	}
}

// openRedis returns nil when no redis address is configured.
func openRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if !cfg.Enabled() {
		return nil, nil
	}
	rdb := redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}
	return rdb, nil
}

func buildEvaluator(cat *catalog.Catalog, cfg config.EvaluatorConfig, logger *zap.Logger) (evaluator.Evaluator, error) {
	rules, err := evaluator.NewRules(cat)
	if err != nil {
		return nil, err
	}
	if cfg.Name == "" || cfg.Name == evaluator.RulesName {
		return rules, nil
	}
	primary, err := evaluator.New(cfg.Name, evaluator.Deps{Catalog: cat, Config: cfg})
	if err != nil {
		logger.Warn("evaluator unavailable, using rules", zap.String("evaluator", cfg.Name), zap.Error(err))
		return rules, nil
	}
	return evaluator.WithFallback(primary, rules, logger), nil
}

func run() error {
	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()
	utils.Logger = logger

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := connectWithRetry(cfg.Database, dbConnectTimeout, logger)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()
	if err := runAutoMigrate(db, models.All()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	logger.Info("database ready", zap.String("driver", cfg.Database.Driver))

	cat, err := catalog.New()
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	eval, err := buildEvaluator(cat, cfg.Evaluator, logger)
	if err != nil {
		return fmt.Errorf("failed to build evaluator: %w", err)
	}
	files, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialise storage: %w", err)
	}

	hub := realtime.NewHub()
	checks := map[string]handlers.Pinger{"database": sqlDB}
	var (
		locker    locks.Locker     = locks.NewKeyedMutex()
		publisher events.Publisher = events.NewLocalPublisher(hub)
	)
	rdb, err := openRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
		locker = locks.NewRedisLocker(rdb, cfg.Redis.LockTTL, logger)
		bus := events.NewRedisBus(rdb, hub, logger)
		publisher = bus
		go func() {
			if err := bus.Subscribe(ctx, nil); err != nil {
				logger.Error("event subscription stopped", zap.Error(err))
			}
		}()
		checks["redis"] = handlers.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
		logger.Info("redis enabled", zap.String("addr", cfg.Redis.Addr))
	}

	userRepo := &repositories.UserRepository{DB: db}
	tokenRepo := &repositories.TokenRepository{DB: db}
	statsRepo := &repositories.StatisticsRepository{DB: db}
	stats := scoring.NewStatisticsService(statsRepo, logger)
	aggregator := scoring.NewAggregator(cfg.Scoring)

	controller := lifecycle.NewController(lifecycle.Deps{
		Sessions:   &repositories.SessionRepository{DB: db},
		Statistics: stats,
		Catalog:    cat,
		Evaluator:  eval,
		Aggregator: aggregator,
		Files:      files,
		Locker:     locker,
		Publisher:  publisher,
		Logger:     logger,
	})

	rebuilder := jobs.NewStatsRebuilder(statsRepo, stats, logger)
	scheduler := jobs.NewScheduler(cfg.Jobs, rebuilder, jobs.NewTokenCleaner(tokenRepo, logger), logger)
	if err := scheduler.Start(); err != nil {
		return err
	}
	defer func() {
		stopCtx, stop := context.WithTimeout(context.Background(), 30*time.Second)
		defer stop()
		scheduler.Stop(stopCtx)
	}()

	router := routers.NewRouter(routers.Handlers{
		Auth: handlers.NewAuthHandler(userRepo, tokenRepo, cfg.Auth, logger),
		Users: &handlers.UserHandler{
			Users:    userRepo,
			Profiles: &repositories.ProfileRepository{DB: db},
			Logger:   logger,
		},
		Resumes: &handlers.ResumeHandler{
			Resumes:  &repositories.ResumeRepository{DB: db},
			Files:    files,
			MaxBytes: cfg.Storage.MaxUploadBytes,
			Logger:   logger,
		},
		Catalog:    &handlers.CatalogHandler{Catalog: cat},
		Interviews: handlers.NewInterviewHandler(controller, hub, cfg.Storage.MaxUploadBytes, logger),
		Analytics: &handlers.AnalyticsHandler{
			Controller: controller,
			Statistics: stats,
			Insights:   scoring.NewInsights(statsRepo, cat, aggregator),
			Logger:     logger,
		},
		Admin:  &handlers.AdminHandler{Rebuilder: rebuilder, Logger: logger},
		Health: handlers.NewHealthHandler(checks),
	}, routers.Options{
		JWTSecret:   cfg.Auth.JWTSecret,
		AdminToken:  cfg.Auth.AdminToken,
		CORSOrigins: cfg.Server.CORSOrigins,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("interview service starting", zap.String("addr", server.Addr), zap.String("evaluator", eval.Name()))
		errCh <- httpListenServe(server)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-shutdownSignal():
	}

	logger.Info("interview service shutting down")
	shutdownCtx, stop := context.WithTimeout(context.Background(), 30*time.Second)
	defer stop()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("interview service exited")
	return nil
}

func main() {
	if err := run(); err != nil {
		logFatalFn(err)
	}
}
