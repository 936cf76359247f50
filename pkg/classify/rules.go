package classify

import (
	"context"
	"strings"
)

// categoryKeywords routes text containing any of the listed keywords to a
// category without an LLM call. Checked in Categories order; first hit wins.
var categoryKeywords = map[Category][]string{
	CategoryDental:       {"tooth", "teeth", "dental", "dentist", "cavity", "gum", "filling"},
	CategoryUrgentCare:   {"urgent", "emergency", "broken", "sprain", "stitches", "fever now", "cut"},
	CategoryOptometrist:  {"eye", "vision", "glasses", "contacts", "blurry"},
	CategoryMentalHealth: {"anxiety", "depress", "therapy", "therapist", "counsel", "stress", "panic"},
}

type ruleClassifier struct{}

// NewRuleClassifier returns a keyword-based classifier requiring no
// credentials. It backs the offline mode and the LLM classifier's pre-pass.
func NewRuleClassifier() Classifier {
	return ruleClassifier{}
}

func (ruleClassifier) Classify(_ context.Context, text string) (Category, error) {
	if c, ok := matchKeywords(text); ok {
		return c, nil
	}
	return FallbackCategory, nil
}

// matchKeywords checks the keyword table in fixed category order.
func matchKeywords(text string) (Category, bool) {
	lower := strings.ToLower(text)
	for _, category := range Categories {
		for _, kw := range categoryKeywords[category] {
			if strings.Contains(lower, kw) {
				return category, true
			}
		}
	}
	return "", false
}
