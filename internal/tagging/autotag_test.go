package tagging

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgienger/nextup/internal/models"
)

// afternoon so that time-of-day stripping is exercised
var today = time.Date(2026, time.March, 27, 15, 30, 0, 0, time.Local)

func dueIn(n int) *time.Time {
	y, m, d := today.Date()
	t := time.Date(y, m, d+n, 0, 0, 0, 0, time.Local)
	return &t
}

func rangeTag(id string, start, end *int) models.Tag {
	return models.Tag{
		ID:         id,
		Name:       id,
		CategoryID: models.CategoryGeneral,
		DateRange:  &models.DateRange{Enabled: true, StartDays: start, EndDays: end},
	}
}

func TestMatchesKeywords(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		keywords []string
		want     bool
	}{
		{"empty keywords", "buy milk", nil, false},
		{"case folded", Content("Buy MILK", ""), []string{"milk"}, true},
		{"keyword upper", Content("buy milk", ""), []string{"MILK"}, true},
		{"substring not word", Content("Start the car", ""), []string{"art"}, true},
		{"any keyword", "call mom", []string{"email", "call"}, true},
		{"no match", "call mom", []string{"email"}, false},
		{"empty keyword ignored", "call mom", []string{""}, false},
		{"description searched", Content("Groceries", "need eggs"), []string{"eggs"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchesKeywords(tt.content, tt.keywords))
		})
	}
}

func TestAutoTagKeywordCaseInsensitive(t *testing.T) {
	catalog := []models.Tag{{ID: "dairy", Name: "dairy", Keywords: []string{"milk"}}}
	got := AutoTag(today, Input{Title: "Buy MILK"}, catalog)
	assert.Equal(t, []string{"dairy"}, got)
}

func TestAutoTagUnionOfPaths(t *testing.T) {
	catalog := []models.Tag{
		{ID: "kw", Name: "kw", Keywords: []string{"report"}},
		rangeTag("date", days(0), days(5)),
		{ID: "none", Name: "none", Keywords: []string{"nothing"}},
	}
	in := Input{Title: "Write report", DueDate: dueIn(2)}

	keywordOnly := AutoTag(today, Input{Title: in.Title}, catalog)
	dateOnly := AutoTag(today, Input{Title: "x", DueDate: in.DueDate}, catalog)
	got := AutoTag(today, in, catalog)

	assert.Equal(t, []string{"kw"}, keywordOnly)
	assert.Equal(t, []string{"date"}, dateOnly)
	assert.ElementsMatch(t, Union(keywordOnly, dateOnly), got)
}

func TestAutoTagBothPathsNoDuplicate(t *testing.T) {
	tag := rangeTag("urgent", days(1), days(3))
	tag.Keywords = []string{"urgent"}

	got := AutoTag(today, Input{Title: "urgent fix", DueDate: dueIn(1)}, []models.Tag{tag})
	assert.Equal(t, []string{"urgent"}, got)
}

func TestAutoTagIdempotent(t *testing.T) {
	catalog := append(DefaultUrgencyTags(), models.Tag{ID: "t1", Name: "Work", Keywords: []string{"meeting"}})
	in := Input{Title: "Team meeting", Description: "prepare slides now", DueDate: dueIn(5)}

	first := AutoTag(today, in, catalog)
	second := AutoTag(today, in, catalog)
	assert.Equal(t, first, second)
}

func TestAutoTagDoesNotMutateCatalog(t *testing.T) {
	catalog := DefaultUrgencyTags()
	before := DefaultUrgencyTags()

	AutoTag(today, Input{Title: "ASAP", DueDate: dueIn(0)}, catalog)
	assert.Equal(t, before, catalog)
}

func TestAutoTagScenario(t *testing.T) {
	catalog := append(DefaultUrgencyTags(), models.Tag{
		ID:         "t1",
		Name:       "Work",
		Keywords:   []string{"meeting"},
		CategoryID: models.CategoryGeneral,
	})

	got := AutoTag(today, Input{Title: "Team meeting", DueDate: dueIn(2)}, catalog)
	assert.ElementsMatch(t, []string{"t1", "tag-urgent"}, got)
}

func TestAutoTagEmptyCatalog(t *testing.T) {
	assert.Empty(t, AutoTag(today, Input{Title: "anything", DueDate: dueIn(1)}, nil))
}

func TestExplain(t *testing.T) {
	tag := rangeTag("soon", days(4), days(7))
	tag.Keywords = []string{"soon"}
	catalog := []models.Tag{tag, {ID: "other", Name: "other", Keywords: []string{"zzz"}}}

	matches := Explain(today, Input{Title: "coming soon", DueDate: dueIn(10)}, catalog)
	require.Len(t, matches, 1)
	assert.Equal(t, "soon", matches[0].Tag.ID)
	assert.True(t, matches[0].Keyword)
	assert.False(t, matches[0].Date)
}

func TestReconcile(t *testing.T) {
	tests := []struct {
		name         string
		current      []string
		previousAuto []string
		next         []string
		want         []string
	}{
		{
			name:         "manual kept, stale auto dropped",
			current:      []string{"manual", "old"},
			previousAuto: []string{"old"},
			next:         []string{"new"},
			want:         []string{"new", "manual"},
		},
		{
			name:    "manual tag that now also matches counts once",
			current: []string{"manual"},
			next:    []string{"manual"},
			want:    []string{"manual"},
		},
		{
			name: "fresh task",
			next: []string{"a", "b"},
			want: []string{"a", "b"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Reconcile(tt.current, tt.previousAuto, tt.next))
		})
	}
}
