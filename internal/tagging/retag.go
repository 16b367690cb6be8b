package tagging

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tgienger/nextup/internal/models"
)

var (
	ErrInvalidQuadrant = errors.New("invalid quadrant")
	ErrInvalidEffort   = errors.New("invalid effort level")
)

// Quadrant is a cell of the Eisenhower matrix
type Quadrant string

const (
	UrgentImportant       Quadrant = "urgent-important"
	NotUrgentImportant    Quadrant = "not-urgent-important"
	UrgentNotImportant    Quadrant = "urgent-not-important"
	NotUrgentNotImportant Quadrant = "not-urgent-not-important"
)

// Quadrants lists the matrix cells in display order
var Quadrants = []Quadrant{UrgentImportant, NotUrgentImportant, UrgentNotImportant, NotUrgentNotImportant}

// ParseQuadrant validates a quadrant identifier
func ParseQuadrant(s string) (Quadrant, error) {
	q := Quadrant(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Quadrants {
		if q == known {
			return q, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidQuadrant, s)
}

// Label is the action the quadrant stands for
func (q Quadrant) Label() string {
	switch q {
	case UrgentImportant:
		return "Do First"
	case NotUrgentImportant:
		return "Schedule"
	case UrgentNotImportant:
		return "Delegate"
	case NotUrgentNotImportant:
		return "Eliminate"
	}
	return string(q)
}

// EffortLevel is a bucket on the energy board
type EffortLevel string

const (
	EffortQuick  EffortLevel = "quick"
	EffortMedium EffortLevel = "medium"
	EffortHigh   EffortLevel = "high"
)

// EffortLevels lists the effort buckets from least to most demanding
var EffortLevels = []EffortLevel{EffortQuick, EffortMedium, EffortHigh}

// ParseEffort validates an effort level identifier
func ParseEffort(s string) (EffortLevel, error) {
	l := EffortLevel(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range EffortLevels {
		if l == known {
			return l, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidEffort, s)
}

// EisenhowerTags splits the urgency-importance family by the words in each
// tag's name
type EisenhowerTags struct {
	Urgent    []models.Tag // "urgent" but not "important"
	Important []models.Tag // "important" but not "urgent"
	Both      []models.Tag
	Neither   []models.Tag
}

// ClassifyEisenhower sorts the urgency-importance tags of the catalog
func ClassifyEisenhower(catalog []models.Tag) EisenhowerTags {
	var out EisenhowerTags
	for _, tag := range FamilyEisenhower.Members(catalog) {
		urgent := nameHas(tag, "urgent")
		important := nameHas(tag, "important")
		switch {
		case urgent && important:
			out.Both = append(out.Both, tag)
		case urgent:
			out.Urgent = append(out.Urgent, tag)
		case important:
			out.Important = append(out.Important, tag)
		default:
			out.Neither = append(out.Neither, tag)
		}
	}
	return out
}

// RetagForQuadrant replaces the task's urgency-importance tags with the
// ones implied by q. Tags outside that family are kept.
func RetagForQuadrant(tags []string, q Quadrant, catalog []models.Tag) []string {
	classes := ClassifyEisenhower(catalog)

	var add []models.Tag
	switch q {
	case UrgentImportant:
		if len(classes.Both) > 0 {
			add = classes.Both
		} else {
			add = append(append(add, classes.Urgent...), classes.Important...)
		}
	case NotUrgentImportant:
		add = classes.Important
	case UrgentNotImportant:
		add = classes.Urgent
	case NotUrgentNotImportant:
		add = classes.Neither
	}

	return Union(FamilyEisenhower.Strip(tags, catalog), tagIDs(add))
}

// RetagForTimeCategory replaces the task's time-based tag with the one
// that corresponds to the time category. A tag corresponds when its name
// equals the category name, or when one of its keywords occurs in the
// category name. If none corresponds the task is left without a
// time-based tag. An unknown category ID leaves tags unchanged.
func RetagForTimeCategory(tags []string, categoryID string, catalog []models.Tag, categories []models.TimeCategory) []string {
	var category *models.TimeCategory
	for i := range categories {
		if categories[i].ID == categoryID {
			category = &categories[i]
			break
		}
	}
	if category == nil {
		return Union(tags, nil)
	}

	kept := FamilyTimeBased.Strip(tags, catalog)
	if tag, ok := timeTagFor(*category, catalog); ok {
		return Union(kept, []string{tag.ID})
	}
	return kept
}

func timeTagFor(category models.TimeCategory, catalog []models.Tag) (models.Tag, bool) {
	name := strings.ToLower(category.Name)
	for _, tag := range FamilyTimeBased.Members(catalog) {
		if strings.ToLower(tag.Name) == name {
			return tag, true
		}
		for _, kw := range tag.Keywords {
			if kw != "" && strings.Contains(name, strings.ToLower(kw)) {
				return tag, true
			}
		}
	}
	return models.Tag{}, false
}

// EffortTags returns the effort family tags that belong to level
func EffortTags(level EffortLevel, catalog []models.Tag) []models.Tag {
	var words []string
	switch level {
	case EffortQuick:
		words = []string{"quick", "easy"}
	case EffortMedium:
		words = []string{"medium", "moderate"}
	case EffortHigh:
		words = []string{"high", "difficult", "complex"}
	default:
		return nil
	}

	var out []models.Tag
	for _, tag := range FamilyEffort.Members(catalog) {
		if nameHas(tag, words...) {
			out = append(out, tag)
		}
	}
	return out
}

// RetagForEffort replaces the task's effort tags with those of level
func RetagForEffort(tags []string, level EffortLevel, catalog []models.Tag) []string {
	return Union(FamilyEffort.Strip(tags, catalog), tagIDs(EffortTags(level, catalog)))
}

// RetagForDueDate re-derives the urgency family from the due date using
// each tag's date range. Without a due date the tags are left unchanged.
func RetagForDueDate(today time.Time, tags []string, due *time.Time, catalog []models.Tag) []string {
	if due == nil {
		return Union(tags, nil)
	}
	members := FamilyUrgency.Members(catalog)
	return Union(FamilyUrgency.Strip(tags, catalog), DateMatches(today, due, members))
}
