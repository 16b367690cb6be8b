package tagging

import (
	"strings"

	"github.com/tgienger/nextup/internal/models"
)

func days(n int) *int { return &n }

// DefaultUrgencyTags builds the four time-urgency tags. Their date ranges
// are contiguous and disjoint (0, 1-3, 4-7, 8+) so the date path selects
// at most one of them for any due date.
func DefaultUrgencyTags() []models.Tag {
	urgency := func(name, color string, keywords []string, start, end *int) models.Tag {
		return models.Tag{
			ID:         "tag-" + name,
			Name:       name,
			Keywords:   keywords,
			CategoryID: models.CategoryGeneral,
			Color:      color,
			DateRange:  &models.DateRange{Enabled: true, StartDays: start, EndDays: end},
		}
	}

	return []models.Tag{
		urgency("asap", "#f7768e", []string{"asap", "immediately", "now"}, days(0), days(0)),
		urgency("urgent", "#ff9e64", []string{"urgent", "important", "priority"}, days(1), days(3)),
		urgency("soon", "#e0af68", []string{"soon", "upcoming", "approaching"}, days(4), days(7)),
		urgency("later", "#7aa2f7", []string{"later", "future", "eventually"}, days(8), nil),
	}
}

// EnsureUrgencyTags appends any default urgency tag whose name is missing
// from existing. Existing tags are never modified, and calling it again on
// its own output adds nothing.
func EnsureUrgencyTags(existing []models.Tag) []models.Tag {
	out := append([]models.Tag(nil), existing...)
	for _, def := range DefaultUrgencyTags() {
		if !hasTagNamed(out, def.Name) {
			out = append(out, def)
		}
	}
	return out
}

func hasTagNamed(tags []models.Tag, name string) bool {
	for _, t := range tags {
		if strings.EqualFold(t.Name, name) {
			return true
		}
	}
	return false
}

// DefaultCategories returns the built-in tag categories
func DefaultCategories() []models.TagCategory {
	return []models.TagCategory{
		{ID: models.CategoryGeneral, Name: "General", Description: "Tags without a specific axis", Color: "#565f89"},
		{ID: models.CategoryUrgencyImportance, Name: "Urgency & Importance", Description: "Eisenhower matrix tags", Color: "#f7768e"},
		{ID: models.CategoryTimeBased, Name: "Time-Based", Description: "When the task should happen", Color: "#e0af68"},
		{ID: models.CategoryEffort, Name: "Effort", Description: "How much energy the task takes", Color: "#9ece6a"},
	}
}

// DefaultTimeCategories returns the starting columns of the time-sort board
func DefaultTimeCategories() []models.TimeCategory {
	return []models.TimeCategory{
		{ID: "asap", Name: "ASAP", Description: "Tasks that need immediate attention", Color: "#f7768e", Order: 0},
		{ID: "this-week", Name: "This Week", Description: "Tasks to complete within the current week", Color: "#e0af68", Order: 1},
		{ID: "next-month", Name: "Next Month", Description: "Tasks planned for the upcoming month", Color: "#7aa2f7", Order: 2},
		{ID: "someday", Name: "Someday", Description: "Tasks without a specific timeline", Color: "#565f89", Order: 3},
	}
}
