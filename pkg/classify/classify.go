// Package classify is the short-text classification provider used to route
// free-text symptom descriptions to a directory category.
package classify

import "context"

// Category is one label from the closed provider-type set.
type Category string

const (
	CategoryDental       Category = "dental"
	CategoryPrimaryCare  Category = "primary_care"
	CategoryUrgentCare   Category = "urgent_care"
	CategoryOptometrist  Category = "optometrist"
	CategoryMentalHealth Category = "mental_health"
)

// FallbackCategory is returned whenever a provider response is absent or not
// in the closed set. Primary care is the safe default routing.
const FallbackCategory = CategoryPrimaryCare

// Categories lists the closed set in a fixed order.
var Categories = []Category{
	CategoryDental,
	CategoryPrimaryCare,
	CategoryUrgentCare,
	CategoryOptometrist,
	CategoryMentalHealth,
}

// ValidCategory reports whether a raw label belongs to the closed set.
func ValidCategory(s string) (Category, bool) {
	for _, c := range Categories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// Classifier assigns one category from the closed set to free text. Implementations
// must return FallbackCategory rather than an invalid label.
type Classifier interface {
	Classify(ctx context.Context, text string) (Category, error)
}
