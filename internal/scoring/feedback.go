package scoring

import (
	"strings"

	"interviewprep/internal/catalog"
	"interviewprep/internal/models"
)

// Report is the written part of a session report.
type Report struct {
	Feedback               string
	KeyFeedback            string
	ImprovementSuggestions string
}

// BuildReport derives the report texts from a session score card.
func BuildReport(c *catalog.Catalog, mode models.Mode, company string, card models.ScoreCard) Report {
	texts := c.Feedback(mode)
	overall := value(card.Overall)

	var feedback string
	for _, band := range texts.Bands {
		if overall >= band.Min {
			feedback = band.Text
			break
		}
	}
	feedback = catalog.Fill(feedback, map[string]string{"company": c.CompanyName(company)})

	best, worst := extremes(card)
	key := catalog.Fill(texts.KeyFeedback, map[string]string{
		"best":  texts.DimensionNames[best],
		"worst": texts.DimensionNames[worst],
	})

	var suggestions []string
	for _, d := range models.Dimensions {
		if value(card.Get(d)) < texts.SuggestionThreshold {
			suggestions = append(suggestions, texts.Suggestions[d])
		}
	}
	improvement := texts.NoSuggestions
	if len(suggestions) > 0 {
		improvement = strings.Join(suggestions, "; ")
	}

	return Report{Feedback: feedback, KeyFeedback: key, ImprovementSuggestions: improvement}
}

// extremes returns the first highest and the last lowest dimension.
func extremes(card models.ScoreCard) (best, worst models.Dimension) {
	best, worst = models.Dimensions[0], models.Dimensions[0]
	for _, d := range models.Dimensions {
		v := value(card.Get(d))
		if v > value(card.Get(best)) {
			best = d
		}
		if v <= value(card.Get(worst)) {
			worst = d
		}
	}
	return best, worst
}
