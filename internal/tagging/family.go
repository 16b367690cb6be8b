package tagging

import (
	"strings"

	"github.com/tgienger/nextup/internal/models"
)

// Family is a set of tags that are mutually exclusive along one axis.
// Re-tagging for a family strips all of its members before adding the
// tags implied by the new assignment.
type Family int

const (
	FamilyEisenhower Family = iota // category urgency-importance
	FamilyTimeBased                // category time-based
	FamilyEffort                   // category effort
	FamilyUrgency                  // the asap/urgent/soon/later tags, by name
)

// UrgencyNames lists the urgency family in order of increasing slack
var UrgencyNames = []string{"asap", "urgent", "soon", "later"}

func (f Family) String() string {
	switch f {
	case FamilyEisenhower:
		return "eisenhower"
	case FamilyTimeBased:
		return "time-based"
	case FamilyEffort:
		return "effort"
	case FamilyUrgency:
		return "urgency"
	}
	return "unknown"
}

// Contains reports whether tag is a member of the family
func (f Family) Contains(tag models.Tag) bool {
	switch f {
	case FamilyEisenhower:
		return tag.CategoryID == models.CategoryUrgencyImportance
	case FamilyTimeBased:
		return tag.CategoryID == models.CategoryTimeBased
	case FamilyEffort:
		return tag.CategoryID == models.CategoryEffort
	case FamilyUrgency:
		return UrgencyRank(tag.Name) >= 0
	}
	return false
}

// Members returns the catalog tags in the family, in catalog order
func (f Family) Members(catalog []models.Tag) []models.Tag {
	var out []models.Tag
	for _, tag := range catalog {
		if f.Contains(tag) {
			out = append(out, tag)
		}
	}
	return out
}

// Strip removes every family member from ids.
// IDs that do not resolve to a catalog tag are left alone.
func (f Family) Strip(ids []string, catalog []models.Tag) []string {
	return Without(ids, tagIDs(f.Members(catalog)))
}

// UrgencyRank returns the position of name in UrgencyNames, or -1
func UrgencyRank(name string) int {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range UrgencyNames {
		if n == name {
			return i
		}
	}
	return -1
}

func tagIDs(tags []models.Tag) []string {
	ids := make([]string, 0, len(tags))
	for _, t := range tags {
		ids = append(ids, t.ID)
	}
	return ids
}

func nameHas(tag models.Tag, words ...string) bool {
	name := strings.ToLower(tag.Name)
	for _, w := range words {
		if strings.Contains(name, w) {
			return true
		}
	}
	return false
}
