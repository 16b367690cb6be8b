package tagging

import (
	"time"

	"github.com/tgienger/nextup/internal/models"
)

// Input is the part of a task the rules look at
type Input struct {
	Title       string
	Description string
	DueDate     *time.Time
}

// InputOf extracts the rule input from a task
func InputOf(t models.Task) Input {
	return Input{Title: t.Title, Description: t.Description, DueDate: t.DueDate}
}

// Match explains why a tag was selected
type Match struct {
	Tag     models.Tag
	Keyword bool // matched one of the tag's keywords
	Date    bool // due date fell inside the tag's date range
}

// Explain evaluates both rule paths for every tag in the catalog and
// returns the tags that matched at least one, in catalog order.
func Explain(today time.Time, in Input, catalog []models.Tag) []Match {
	content := Content(in.Title, in.Description)

	var matches []Match
	for _, tag := range catalog {
		m := Match{
			Tag:     tag,
			Keyword: MatchesKeywords(content, tag.Keywords),
			Date:    InRange(today, in.DueDate, tag.DateRange),
		}
		if m.Keyword || m.Date {
			matches = append(matches, m)
		}
	}
	return matches
}

// AutoTag returns the IDs of every tag whose keyword or date-range rule
// applies to the input. The result has no duplicates and follows catalog
// order, so equal inputs always give equal output.
func AutoTag(today time.Time, in Input, catalog []models.Tag) []string {
	var ids []string
	for _, m := range Explain(today, in, catalog) {
		ids = appendUnique(ids, m.Tag.ID)
	}
	return ids
}

// Reconcile merges a fresh auto-tag result into a task's current tags.
// Tags previously added by rules are replaced by next; every other tag
// on the task was added by hand and is kept.
func Reconcile(current, previousAuto, next []string) []string {
	manual := Without(current, previousAuto)
	return Union(next, manual)
}
