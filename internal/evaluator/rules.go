package evaluator

import (
	"context"
	"errors"
	"strings"

	"interviewprep/internal/catalog"
	"interviewprep/internal/models"
)

const RulesName = "rules"

func init() {
	Register(RulesName, func(deps Deps) (Evaluator, error) {
		return NewRules(deps.Catalog)
	})
}

// Rules scores answers from the catalogue's per-type table. It is fully
// deterministic and never fails for a valid request.
type Rules struct {
	catalog *catalog.Catalog
}

func NewRules(c *catalog.Catalog) (*Rules, error) {
	if c == nil {
		return nil, errors.New("rules evaluator requires a catalog")
	}
	return &Rules{catalog: c}, nil
}

func (r *Rules) Name() string { return RulesName }

func (r *Rules) Evaluate(_ context.Context, req Request) (*Result, error) {
	table := r.catalog.Rules(req.Mode)

	base, ok := table.Scores[req.QuestionType]
	if !ok {
		base = table.DefaultScore
	}
	if strings.TrimSpace(req.AnswerText) == "" && !req.HasMedia {
		base -= r.catalog.EmptyAnswerPenalty()
	}

	var card models.ScoreCard
	overall := Clamp(base)
	card.Overall = &overall
	for _, d := range models.Dimensions {
		v := Clamp(base + r.catalog.DimensionOffset(d))
		card.Set(d, &v)
	}

	feedback, ok := table.Feedback[req.QuestionType]
	if !ok {
		feedback = table.DefaultFeedback
	}
	tips, ok := table.Tips[req.QuestionType]
	if !ok {
		tips = table.DefaultTips
	}

	return &Result{
		Scores:    card,
		Feedback:  feedback,
		Tips:      append([]string(nil), tips...),
		Evaluator: RulesName,
	}, nil
}
