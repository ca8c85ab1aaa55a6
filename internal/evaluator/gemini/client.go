package gemini

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"interviewprep/internal/evaluator"
	"interviewprep/internal/models"

	"google.golang.org/genai"
	"gopkg.in/yaml.v3"
)

const Name = "gemini"

//go:embed prompt.yaml
var promptYAML []byte

type promptTemplate struct {
	BasePrompt     string `yaml:"base_prompt"`
	ResponseFormat string `yaml:"response_format"`
}

// Client evaluates answers with a Gemini model.
type Client struct {
	client *genai.Client
	config *Config
	prompt promptTemplate
}

func NewClient(config *Config) (*Client, error) {
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, &evaluator.Error{
			Evaluator: Name,
			Code:      evaluator.ErrCodeAPIKey,
			Message:   "Failed to create Gemini client",
			Err:       err,
		}
	}
	return newClient(client, config)
}

func newClient(client *genai.Client, config *Config) (*Client, error) {
	var tmpl promptTemplate
	if err := yaml.Unmarshal(promptYAML, &tmpl); err != nil {
		return nil, fmt.Errorf("failed to parse gemini prompt: %w", err)
	}
	return &Client{client: client, config: config, prompt: tmpl}, nil
}

func (c *Client) Name() string { return Name }

// Evaluate asks the model for a JSON score card.
func (c *Client) Evaluate(ctx context.Context, req evaluator.Request) (*evaluator.Result, error) {
	result, err := c.client.Models.GenerateContent(ctx, c.config.Model, genai.Text(c.buildPrompt(req)), nil)
	if err != nil {
		code := evaluator.ErrCodeServiceDown
		if isRateLimitError(err) {
			code = evaluator.ErrCodeRateLimit
		}
		return nil, &evaluator.Error{Evaluator: Name, Code: code, Message: "Failed to evaluate answer", Err: err}
	}
	if result == nil {
		return nil, &evaluator.Error{Evaluator: Name, Code: evaluator.ErrCodeInvalidResponse, Message: "No response generated"}
	}

	text, err := result.Text()
	if err != nil {
		return nil, &evaluator.Error{Evaluator: Name, Code: evaluator.ErrCodeInvalidResponse, Message: "Failed to extract response text", Err: err}
	}
	if strings.TrimSpace(text) == "" {
		return nil, &evaluator.Error{Evaluator: Name, Code: evaluator.ErrCodeInvalidResponse, Message: "Empty response generated"}
	}

	return parseScoreCard(text)
}

func (c *Client) buildPrompt(req evaluator.Request) string {
	answer := strings.TrimSpace(req.AnswerText)
	if answer == "" {
		answer = "(no transcript, the answer was recorded as media only)"
	}
	var extra []string
	if req.UsedHint {
		extra = append(extra, "the candidate viewed a hint")
	}
	if req.TimeSpentSec != nil {
		extra = append(extra, "time spent "+strconv.Itoa(*req.TimeSpentSec)+"s")
	}
	if len(extra) == 0 {
		extra = append(extra, "none")
	}

	replacer := strings.NewReplacer(
		"{{.Mode}}", string(req.Mode),
		"{{.Type}}", req.QuestionType,
		"{{.Difficulty}}", req.Difficulty,
		"{{.Category}}", req.Category,
		"{{.Question}}", req.QuestionText,
		"{{.Answer}}", answer,
		"{{.Context}}", strings.Join(extra, ", "),
	)
	return replacer.Replace(c.prompt.BasePrompt) + "\n" + c.prompt.ResponseFormat
}

type scorePayload struct {
	Overall              *float64 `json:"overall"`
	Professional         *float64 `json:"professional"`
	SkillMatch           *float64 `json:"skill_match"`
	LanguageExpression   *float64 `json:"language_expression"`
	LogicalThinking      *float64 `json:"logical_thinking"`
	ComprehensiveQuality *float64 `json:"comprehensive_quality"`
	Feedback             string   `json:"feedback"`
	Tips                 []string `json:"tips"`
}

// parseScoreCard accepts the model's reply, tolerating a markdown code fence.
func parseScoreCard(text string) (*evaluator.Result, error) {
	body := strings.TrimSpace(text)
	if start, end := strings.Index(body, "{"), strings.LastIndex(body, "}"); start >= 0 && end > start {
		body = body[start : end+1]
	}

	var p scorePayload
	if err := json.Unmarshal([]byte(body), &p); err != nil {
		return nil, &evaluator.Error{Evaluator: Name, Code: evaluator.ErrCodeInvalidResponse, Message: "Response is not valid JSON", Err: err}
	}
	if p.Overall == nil {
		return nil, &evaluator.Error{Evaluator: Name, Code: evaluator.ErrCodeInvalidResponse, Message: "Response has no overall score"}
	}

	card := models.ScoreCard{
		Overall:              p.Overall,
		Professional:         p.Professional,
		SkillMatch:           p.SkillMatch,
		LanguageExpression:   p.LanguageExpression,
		LogicalThinking:      p.LogicalThinking,
		ComprehensiveQuality: p.ComprehensiveQuality,
	}
	for _, d := range append([]models.Dimension{models.DimensionOverall}, models.Dimensions...) {
		if v := card.Get(d); v != nil {
			clamped := evaluator.Clamp(*v)
			card.Set(d, &clamped)
		}
	}

	return &evaluator.Result{Scores: card, Feedback: p.Feedback, Tips: p.Tips, Evaluator: Name}, nil
}

func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") || strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "resource_exhausted") || strings.Contains(msg, "quota")
}
