package evaluator

import (
	"context"
	"fmt"
	"math"

	"interviewprep/internal/catalog"
	"interviewprep/internal/config"
	"interviewprep/internal/models"

	"go.uber.org/zap"
)

// Request is everything an evaluator may look at when scoring one answer.
type Request struct {
	Mode         models.Mode
	QuestionText string
	QuestionType string
	Difficulty   string
	Category     string
	AnswerText   string
	HasMedia     bool
	TimeSpentSec *int
	UsedHint     bool
}

// Result is the score card and feedback for one answer.
type Result struct {
	Scores    models.ScoreCard
	Feedback  string
	Tips      []string
	Evaluator string
}

// Evaluator scores a single answer.
type Evaluator interface {
	Evaluate(ctx context.Context, req Request) (*Result, error)
	Name() string
}

// Deps are handed to every factory.
type Deps struct {
	Catalog *catalog.Catalog
	Config  config.EvaluatorConfig
}

// Error is returned by evaluators backed by an external service.
type Error struct {
	Evaluator string
	Code      string
	Message   string
	Err       error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Evaluator + " error: " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Evaluator + " error: " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

const (
	ErrCodeAPIKey          = "invalid_api_key"
	ErrCodeRateLimit       = "rate_limit_exceeded"
	ErrCodeServiceDown     = "service_unavailable"
	ErrCodeInvalidResponse = "invalid_response"
)

// Factory builds an evaluator instance.
type Factory func(deps Deps) (Evaluator, error)

var factories = make(map[string]Factory)

// Register makes an evaluator available under name.
func Register(name string, factory Factory) {
	factories[name] = factory
}

// New builds the evaluator registered under name.
func New(name string, deps Deps) (Evaluator, error) {
	factory, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("unsupported evaluator: %s", name)
	}
	return factory(deps)
}

// WithFallback returns an evaluator that uses fallback whenever primary fails.
func WithFallback(primary, fallback Evaluator, logger *zap.Logger) Evaluator {
	if primary == nil || primary.Name() == fallback.Name() {
		return fallback
	}
	return &fallbackEvaluator{primary: primary, fallback: fallback, logger: logger}
}

type fallbackEvaluator struct {
	primary  Evaluator
	fallback Evaluator
	logger   *zap.Logger
}

func (f *fallbackEvaluator) Name() string { return f.primary.Name() }

func (f *fallbackEvaluator) Evaluate(ctx context.Context, req Request) (*Result, error) {
	res, err := f.primary.Evaluate(ctx, req)
	if err == nil {
		return res, nil
	}
	f.logger.Warn("evaluator failed, using fallback",
		zap.String("evaluator", f.primary.Name()),
		zap.String("fallback", f.fallback.Name()),
		zap.Error(err))
	return f.fallback.Evaluate(ctx, req)
}

// Clamp bounds v to [0,100] and rounds it to one decimal.
func Clamp(v float64) float64 {
	v = math.Max(0, math.Min(100, v))
	return math.Round(v*10) / 10
}
