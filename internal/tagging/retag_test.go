package tagging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgienger/nextup/internal/models"
)

func eisenhowerCatalog() []models.Tag {
	return []models.Tag{
		{ID: "ui", Name: "Urgent & Important", CategoryID: models.CategoryUrgencyImportance},
		{ID: "u", Name: "Urgent", CategoryID: models.CategoryUrgencyImportance},
		{ID: "i", Name: "Important", CategoryID: models.CategoryUrgencyImportance},
		{ID: "n", Name: "Backlog", CategoryID: models.CategoryUrgencyImportance},
		{ID: "work", Name: "Work", CategoryID: models.CategoryGeneral},
	}
}

func TestClassifyEisenhower(t *testing.T) {
	c := ClassifyEisenhower(eisenhowerCatalog())
	assert.Equal(t, []string{"ui"}, tagIDs(c.Both))
	assert.Equal(t, []string{"u"}, tagIDs(c.Urgent))
	assert.Equal(t, []string{"i"}, tagIDs(c.Important))
	assert.Equal(t, []string{"n"}, tagIDs(c.Neither))
}

func TestRetagForQuadrant(t *testing.T) {
	catalog := eisenhowerCatalog()
	start := []string{"work", "u", "i", "ui", "deleted-tag"}

	tests := []struct {
		quadrant Quadrant
		want     []string
	}{
		{UrgentImportant, []string{"work", "deleted-tag", "ui"}},
		{NotUrgentImportant, []string{"work", "deleted-tag", "i"}},
		{UrgentNotImportant, []string{"work", "deleted-tag", "u"}},
		{NotUrgentNotImportant, []string{"work", "deleted-tag", "n"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.quadrant), func(t *testing.T) {
			assert.Equal(t, tt.want, RetagForQuadrant(start, tt.quadrant, catalog))
		})
	}
	assert.Equal(t, []string{"work", "u", "i", "ui", "deleted-tag"}, start, "input mutated")
}

func TestRetagForQuadrantFallsBackToUrgentPlusImportant(t *testing.T) {
	catalog := eisenhowerCatalog()[1:] // no "both" tag
	got := RetagForQuadrant([]string{"n"}, UrgentImportant, catalog)
	assert.Equal(t, []string{"u", "i"}, got)
}

func TestRetagForQuadrantNeitherExcludesOthers(t *testing.T) {
	catalog := eisenhowerCatalog()
	got := RetagForQuadrant([]string{"ui", "u", "i", "n"}, NotUrgentNotImportant, catalog)

	classes := ClassifyEisenhower(catalog)
	for _, id := range got {
		for _, tag := range FamilyEisenhower.Members(catalog) {
			if tag.ID == id {
				assert.Contains(t, tagIDs(classes.Neither), id)
			}
		}
	}
}

func TestRetagForQuadrantIdempotent(t *testing.T) {
	catalog := eisenhowerCatalog()
	once := RetagForQuadrant([]string{"work"}, UrgentNotImportant, catalog)
	twice := RetagForQuadrant(once, UrgentNotImportant, catalog)
	assert.Equal(t, once, twice)
}

func timeCatalog() []models.Tag {
	return []models.Tag{
		{ID: "t-asap", Name: "asap", CategoryID: models.CategoryTimeBased},
		{ID: "t-week", Name: "weekly", Keywords: []string{"week"}, CategoryID: models.CategoryTimeBased},
		{ID: "home", Name: "home", CategoryID: models.CategoryGeneral},
	}
}

func TestRetagForTimeCategory(t *testing.T) {
	catalog := timeCatalog()
	categories := DefaultTimeCategories()

	// exact name, case-insensitive
	assert.Equal(t, []string{"home", "t-asap"}, RetagForTimeCategory([]string{"home", "t-week"}, "asap", catalog, categories))

	// keyword contained in the category name
	assert.Equal(t, []string{"home", "t-week"}, RetagForTimeCategory([]string{"home", "t-asap"}, "this-week", catalog, categories))
}

func TestRetagForTimeCategoryNoMatchLeavesSlotEmpty(t *testing.T) {
	got := RetagForTimeCategory([]string{"home", "t-asap"}, "someday", timeCatalog(), DefaultTimeCategories())
	assert.Equal(t, []string{"home"}, got)
}

func TestRetagForTimeCategoryUnknownCategory(t *testing.T) {
	got := RetagForTimeCategory([]string{"home", "t-asap"}, "missing", timeCatalog(), DefaultTimeCategories())
	assert.Equal(t, []string{"home", "t-asap"}, got)
}

func TestRetagForEffort(t *testing.T) {
	catalog := []models.Tag{
		{ID: "q", Name: "Quick win", CategoryID: models.CategoryEffort},
		{ID: "e", Name: "easy", CategoryID: models.CategoryEffort},
		{ID: "m", Name: "Moderate", CategoryID: models.CategoryEffort},
		{ID: "h", Name: "Complex", CategoryID: models.CategoryEffort},
		{ID: "g", Name: "quick errands", CategoryID: models.CategoryGeneral},
	}

	assert.Equal(t, []string{"g", "q", "e"}, RetagForEffort([]string{"g", "h"}, EffortQuick, catalog))
	assert.Equal(t, []string{"g", "m"}, RetagForEffort([]string{"g", "q", "e"}, EffortMedium, catalog))
	assert.Equal(t, []string{"g", "h"}, RetagForEffort([]string{"g", "m"}, EffortHigh, catalog))
}

func TestRetagFamiliesIndependent(t *testing.T) {
	catalog := append(append(eisenhowerCatalog(), timeCatalog()...),
		models.Tag{ID: "q", Name: "quick", CategoryID: models.CategoryEffort})

	tags := RetagForQuadrant(nil, UrgentNotImportant, catalog)
	tags = RetagForTimeCategory(tags, "asap", catalog, DefaultTimeCategories())
	tags = RetagForEffort(tags, EffortQuick, catalog)

	assert.ElementsMatch(t, []string{"u", "t-asap", "q"}, tags)
}

func TestRetagForDueDate(t *testing.T) {
	catalog := append(DefaultUrgencyTags(), models.Tag{ID: "work", Name: "work"})

	got := RetagForDueDate(today, []string{"work", "tag-later"}, dueIn(0), catalog)
	assert.Equal(t, []string{"work", "tag-asap"}, got)

	got = RetagForDueDate(today, got, dueIn(5), catalog)
	assert.Equal(t, []string{"work", "tag-soon"}, got)

	// overdue: nothing in range, stale urgency removed
	got = RetagForDueDate(today, got, dueIn(-2), catalog)
	assert.Equal(t, []string{"work"}, got)

	// no due date: unchanged
	assert.Equal(t, []string{"work", "tag-soon"}, RetagForDueDate(today, []string{"work", "tag-soon"}, nil, catalog))
}

func TestParseQuadrantAndEffort(t *testing.T) {
	q, err := ParseQuadrant(" Urgent-Important ")
	require.NoError(t, err)
	assert.Equal(t, UrgentImportant, q)

	_, err = ParseQuadrant("urgent")
	assert.ErrorIs(t, err, ErrInvalidQuadrant)

	l, err := ParseEffort("HIGH")
	require.NoError(t, err)
	assert.Equal(t, EffortHigh, l)

	_, err = ParseEffort("extreme")
	assert.ErrorIs(t, err, ErrInvalidEffort)
}

func TestEnsureUrgencyTags(t *testing.T) {
	custom := models.Tag{ID: "mine", Name: "URGENT", Keywords: []string{"fire"}}
	existing := []models.Tag{custom, {ID: "work", Name: "work"}}

	once := EnsureUrgencyTags(existing)
	twice := EnsureUrgencyTags(once)

	assert.Equal(t, once, twice)
	assert.Len(t, once, 5)
	assert.Equal(t, custom, once[0], "existing tag overwritten")

	counts := map[string]int{}
	for _, tag := range twice {
		if r := UrgencyRank(tag.Name); r >= 0 {
			counts[UrgencyNames[r]]++
		}
	}
	for _, name := range UrgencyNames {
		assert.Equal(t, 1, counts[name], name)
	}
	assert.Len(t, existing, 2, "input mutated")
}

func TestEnsureUrgencyTagsEmpty(t *testing.T) {
	assert.Equal(t, DefaultUrgencyTags(), EnsureUrgencyTags(nil))
}

func TestFamilyContains(t *testing.T) {
	assert.True(t, FamilyUrgency.Contains(models.Tag{Name: " Soon "}))
	assert.False(t, FamilyUrgency.Contains(models.Tag{Name: "sooner"}))
	assert.True(t, FamilyEffort.Contains(models.Tag{CategoryID: models.CategoryEffort}))
	assert.False(t, FamilyTimeBased.Contains(models.Tag{CategoryID: models.CategoryEffort}))
	assert.Equal(t, "eisenhower", FamilyEisenhower.String())
}
