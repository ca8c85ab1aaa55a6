package gemini

import (
	"errors"

	"interviewprep/internal/config"
)

// Config holds Gemini-specific configuration.
type Config struct {
	APIKey string
	Model  string
}

func NewConfig(cfg config.EvaluatorConfig) (*Config, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, errors.New("GEMINI_API_KEY is required for the gemini evaluator")
	}
	model := cfg.GeminiModel
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &Config{APIKey: cfg.GeminiAPIKey, Model: model}, nil
}
