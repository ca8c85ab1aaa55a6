package models

// All lists every persisted model, in migration order.
func All() []any {
	return []any{
		&User{},
		&Token{},
		&Profile{},
		&Resume{},
		&Session{},
		&QuestionSlot{},
		&Answer{},
		&AnalysisSample{},
		&Statistics{},
		&TrendPoint{},
	}
}
