package gemini

import "interviewprep/internal/evaluator"

// Register the Gemini evaluator on package import
func init() {
	evaluator.Register(Name, func(deps evaluator.Deps) (evaluator.Evaluator, error) {
		cfg, err := NewConfig(deps.Config)
		if err != nil {
			return nil, err
		}
		return NewClient(cfg)
	})
}
