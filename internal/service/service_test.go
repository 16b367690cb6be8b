package service

import (
	"bytes"
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgienger/nextup/internal/db"
	"github.com/tgienger/nextup/internal/models"
	"github.com/tgienger/nextup/internal/modes"
	"github.com/tgienger/nextup/internal/tagging"
)

var start = time.Date(2026, 3, 27, 10, 0, 0, 0, time.Local)

type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time { return c.now }

func newTestService(t *testing.T) (*TaskService, *testClock) {
	t.Helper()
	database, err := db.New(db.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	clock := &testClock{now: start}
	svc := New(zerolog.Nop(), database,
		WithClock(clock.Now),
		WithWheel(modes.NewWheel(rand.New(rand.NewPCG(7, 7)))),
	)
	require.NoError(t, svc.Bootstrap(context.Background()))
	return svc, clock
}

func dueIn(n int) *time.Time {
	d := start.AddDate(0, 0, n)
	return &d
}

func mustTag(t *testing.T, svc *TaskService, tag models.Tag) models.Tag {
	t.Helper()
	saved, err := svc.SaveTag(context.Background(), tag)
	require.NoError(t, err)
	return *saved
}

func TestBootstrap(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	categories, err := svc.Categories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 4)

	timeCategories, err := svc.TimeCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, timeCategories, 4)

	catalog, err := svc.LoadCatalog(ctx)
	require.NoError(t, err)
	var names []string
	for _, tag := range catalog {
		names = append(names, tag.Name)
	}
	assert.Equal(t, []string{"asap", "urgent", "soon", "later"}, names)

	require.NoError(t, svc.Bootstrap(ctx))
	again, err := svc.LoadCatalog(ctx)
	require.NoError(t, err)
	assert.Len(t, again, 4, "bootstrap is idempotent")
}

func TestCreateTaskAppliesRules(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	work := mustTag(t, svc, models.Tag{Name: "work", Keywords: []string{"meeting", " "}})
	assert.Equal(t, []string{"meeting"}, work.Keywords, "blank keywords dropped")

	task, err := svc.CreateTask(ctx, TaskParams{Title: "  Team Meeting prep ", DueDate: dueIn(2)})
	require.NoError(t, err)
	assert.Equal(t, "Team Meeting prep", task.Title)
	assert.ElementsMatch(t, []string{work.ID, "tag-urgent"}, task.Tags)
	assert.ElementsMatch(t, task.Tags, task.AutoTags)

	_, err = svc.CreateTask(ctx, TaskParams{Title: "   "})
	assert.ErrorIs(t, err, ErrEmptyTitle)
}

func TestUpdateTaskKeepsManualTags(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	work := mustTag(t, svc, models.Tag{Name: "work", Keywords: []string{"meeting"}})
	home := mustTag(t, svc, models.Tag{Name: "home"})

	task, err := svc.CreateTask(ctx, TaskParams{Title: "buy milk"})
	require.NoError(t, err)
	assert.Empty(t, task.Tags)

	task, err = svc.AddTag(ctx, task.ID, home.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{home.ID}, task.Tags)
	assert.Empty(t, task.AutoTags)

	task, err = svc.UpdateTask(ctx, task.ID, TaskParams{Title: "meeting with landlord"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{home.ID, work.ID}, task.Tags)
	assert.Equal(t, []string{work.ID}, task.AutoTags)

	task, err = svc.UpdateTask(ctx, task.ID, TaskParams{Title: "buy milk"})
	require.NoError(t, err)
	assert.Equal(t, []string{home.ID}, task.Tags, "stale rule tag removed, manual tag kept")

	_, err = svc.UpdateTask(ctx, "missing", TaskParams{Title: "x"})
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestUpdateTaskDueDateMovesUrgency(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	task, err := svc.CreateTask(ctx, TaskParams{Title: "file taxes", DueDate: dueIn(2)})
	require.NoError(t, err)
	assert.Equal(t, []string{"tag-urgent"}, task.Tags)

	task, err = svc.UpdateTask(ctx, task.ID, TaskParams{Title: "file taxes", DueDate: dueIn(10)})
	require.NoError(t, err)
	assert.Equal(t, []string{"tag-later"}, task.Tags)

	task, err = svc.UpdateTask(ctx, task.ID, TaskParams{Title: "file taxes", DueDate: dueIn(-1)})
	require.NoError(t, err)
	assert.Empty(t, task.Tags, "overdue matches no default range")

	task, err = svc.UpdateTask(ctx, task.ID, TaskParams{Title: "file taxes"})
	require.NoError(t, err)
	assert.Empty(t, task.Tags)
	assert.Nil(t, task.DueDate)
}

func TestManualUrgencySurvivesRestart(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	task, err := svc.CreateTask(ctx, TaskParams{Title: "pay rent", DueDate: dueIn(10)})
	require.NoError(t, err)
	assert.Equal(t, []string{"tag-later"}, task.Tags)

	task, err = svc.AddTag(ctx, task.ID, "tag-asap")
	require.NoError(t, err)
	assert.Equal(t, []string{"tag-asap"}, task.Tags)
	assert.Empty(t, task.AutoTags)

	require.NoError(t, svc.Bootstrap(ctx))
	task, err = svc.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"tag-asap"}, task.Tags)
	assert.Empty(t, task.AutoTags)

	task, err = svc.UpdateTask(ctx, task.ID, TaskParams{Title: "pay rent now", DueDate: dueIn(10)})
	require.NoError(t, err)
	assert.Equal(t, []string{"tag-asap"}, task.Tags)
	assert.Empty(t, task.AutoTags, "keyword match on a hand-picked tag stays manual")

	// removing the manual tag hands urgency back to the due date
	_, err = svc.RemoveTag(ctx, task.ID, "tag-asap")
	require.NoError(t, err)
	_, err = svc.RefreshUrgency(ctx)
	require.NoError(t, err)
	task, err = svc.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"tag-later"}, task.Tags)
	assert.Equal(t, []string{"tag-later"}, task.AutoTags)
}

func TestDueDateOverridesKeywordUrgency(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	task, err := svc.CreateTask(ctx, TaskParams{Title: "urgent: call bank", DueDate: dueIn(10)})
	require.NoError(t, err)
	assert.Equal(t, []string{"tag-later"}, task.Tags)
	assert.Equal(t, []string{"tag-later"}, task.AutoTags)

	matches, err := svc.Explain(ctx, task.ID)
	require.NoError(t, err)
	var keywordOnly []string
	for _, m := range matches {
		if m.Keyword && !m.Date {
			keywordOnly = append(keywordOnly, m.Tag.ID)
		}
	}
	assert.Equal(t, []string{"tag-urgent"}, keywordOnly, "the rule still matches, the date decides")

	// without a due date the keyword urgency tag is kept
	task, err = svc.UpdateTask(ctx, task.ID, TaskParams{Title: "urgent: call bank"})
	require.NoError(t, err)
	assert.Equal(t, []string{"tag-urgent"}, task.Tags)
}

func TestRefreshUrgencyFollowsCalendar(t *testing.T) {
	ctx := context.Background()
	svc, clock := newTestService(t)

	task, err := svc.CreateTask(ctx, TaskParams{Title: "renew passport", DueDate: dueIn(5)})
	require.NoError(t, err)
	assert.Equal(t, []string{"tag-soon"}, task.Tags)

	n, err := svc.RefreshUrgency(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	clock.now = start.AddDate(0, 0, 3)
	n, err = svc.RefreshUrgency(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	task, err = svc.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"tag-urgent"}, task.Tags)

	clock.now = start.AddDate(0, 0, 5)
	_, err = svc.RefreshUrgency(ctx)
	require.NoError(t, err)
	task, err = svc.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"tag-asap"}, task.Tags)
}

func TestAddTagReplacesFamilyMember(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	quick := mustTag(t, svc, models.Tag{Name: "quick win", CategoryID: models.CategoryEffort})
	hard := mustTag(t, svc, models.Tag{Name: "complex", CategoryID: models.CategoryEffort})
	home := mustTag(t, svc, models.Tag{Name: "home"})

	task, err := svc.CreateTask(ctx, TaskParams{Title: "fix sink"})
	require.NoError(t, err)

	for _, id := range []string{home.ID, quick.ID, hard.ID} {
		task, err = svc.AddTag(ctx, task.ID, id)
		require.NoError(t, err)
	}
	assert.ElementsMatch(t, []string{home.ID, hard.ID}, task.Tags)

	task, err = svc.RemoveTag(ctx, task.ID, home.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{hard.ID}, task.Tags)

	_, err = svc.AddTag(ctx, task.ID, "missing")
	assert.ErrorIs(t, err, ErrTagNotFound)
}

func TestMoveToQuadrant(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	eisenhower := func(name string) models.Tag {
		return mustTag(t, svc, models.Tag{Name: name, CategoryID: models.CategoryUrgencyImportance})
	}
	both := eisenhower("do first: urgent and important")
	important := eisenhower("schedule: important")
	neither := eisenhower("eliminate")
	home := mustTag(t, svc, models.Tag{Name: "home"})

	task, err := svc.CreateTask(ctx, TaskParams{Title: "clean garage"})
	require.NoError(t, err)
	task, err = svc.AddTag(ctx, task.ID, home.ID)
	require.NoError(t, err)

	task, err = svc.MoveToQuadrant(ctx, task.ID, tagging.UrgentImportant)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{home.ID, both.ID}, task.Tags)

	task, err = svc.MoveToQuadrant(ctx, task.ID, tagging.NotUrgentImportant)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{home.ID, important.ID}, task.Tags)

	task, err = svc.MoveToQuadrant(ctx, task.ID, tagging.NotUrgentNotImportant)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{home.ID, neither.ID}, task.Tags)

	placed, err := svc.Placements(ctx, models.BoardEisenhower)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{task.ID: string(tagging.NotUrgentNotImportant)}, placed)

	_, err = svc.MoveToQuadrant(ctx, task.ID, "sideways")
	assert.ErrorIs(t, err, tagging.ErrInvalidQuadrant)

	require.NoError(t, svc.Unplace(ctx, task.ID, models.BoardEisenhower))
	placed, err = svc.Placements(ctx, models.BoardEisenhower)
	require.NoError(t, err)
	assert.Empty(t, placed)
}

func TestMoveToTimeCategory(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	thisWeek := mustTag(t, svc, models.Tag{Name: "this week", CategoryID: models.CategoryTimeBased})
	someday := mustTag(t, svc, models.Tag{Name: "backlog", Keywords: []string{"someday"}, CategoryID: models.CategoryTimeBased})

	task, err := svc.CreateTask(ctx, TaskParams{Title: "book dentist", DueDate: dueIn(5)})
	require.NoError(t, err)

	task, err = svc.MoveToTimeCategory(ctx, task.ID, "this-week")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{thisWeek.ID, "tag-soon"}, task.Tags)

	task, err = svc.MoveToTimeCategory(ctx, task.ID, "someday")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{someday.ID, "tag-soon"}, task.Tags)

	task, err = svc.MoveToTimeCategory(ctx, task.ID, "next-month")
	require.NoError(t, err)
	assert.Equal(t, []string{"tag-soon"}, task.Tags, "no matching time tag leaves the slot empty")

	placed, err := svc.Placements(ctx, models.BoardTime)
	require.NoError(t, err)
	assert.Equal(t, "next-month", placed[task.ID])

	_, err = svc.MoveToTimeCategory(ctx, task.ID, "never")
	assert.ErrorIs(t, err, ErrUnknownTimeCategory)
}

func TestSetEffort(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	easy := mustTag(t, svc, models.Tag{Name: "easy", CategoryID: models.CategoryEffort})
	hard := mustTag(t, svc, models.Tag{Name: "difficult", CategoryID: models.CategoryEffort})

	task, err := svc.CreateTask(ctx, TaskParams{Title: "write report"})
	require.NoError(t, err)

	task, err = svc.SetEffort(ctx, task.ID, tagging.EffortQuick)
	require.NoError(t, err)
	assert.Equal(t, []string{easy.ID}, task.Tags)

	task, err = svc.SetEffort(ctx, task.ID, tagging.EffortHigh)
	require.NoError(t, err)
	assert.Equal(t, []string{hard.ID}, task.Tags)

	_, err = svc.SetEffort(ctx, task.ID, "extreme")
	assert.ErrorIs(t, err, tagging.ErrInvalidEffort)
}

func TestSaveTagValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.SaveTag(ctx, models.Tag{Name: " "})
	assert.ErrorIs(t, err, ErrEmptyName)

	_, err = svc.SaveTag(ctx, models.Tag{Name: "ASAP"})
	assert.ErrorIs(t, err, ErrDuplicateTagName)

	from, to := 5, 2
	_, err = svc.SaveTag(ctx, models.Tag{Name: "window", DateRange: &models.DateRange{Enabled: true, StartDays: &from, EndDays: &to}})
	assert.ErrorIs(t, err, ErrInvalidRange)

	tag := mustTag(t, svc, models.Tag{Name: "errands"})
	assert.NotEmpty(t, tag.ID)
	assert.Equal(t, models.CategoryGeneral, tag.CategoryID)

	tag.Name = "Errands"
	_, err = svc.SaveTag(ctx, tag)
	assert.NoError(t, err, "renaming a tag to its own name in another case")
}

func TestSaveTagRetagsExistingTasks(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	task, err := svc.CreateTask(ctx, TaskParams{Title: "call plumber"})
	require.NoError(t, err)
	assert.Empty(t, task.Tags)

	phone := mustTag(t, svc, models.Tag{Name: "phone", Keywords: []string{"call"}})
	task, err = svc.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{phone.ID}, task.Tags)

	require.NoError(t, svc.DeleteTag(ctx, phone.ID))
	task, err = svc.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Empty(t, task.Tags)
}

func TestDeleteCategory(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	tag := mustTag(t, svc, models.Tag{Name: "quick", CategoryID: models.CategoryEffort})

	assert.ErrorIs(t, svc.DeleteCategory(ctx, models.CategoryGeneral), ErrProtectedCategory)
	require.NoError(t, svc.DeleteCategory(ctx, models.CategoryEffort))

	catalog, err := svc.LoadCatalog(ctx)
	require.NoError(t, err)
	for _, c := range catalog {
		if c.ID == tag.ID {
			assert.Equal(t, models.CategoryGeneral, c.CategoryID)
		}
	}

	// a restart does not bring the deleted category back
	require.NoError(t, svc.Bootstrap(ctx))
	categories, err := svc.Categories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 3)
	for _, c := range categories {
		assert.NotEqual(t, models.CategoryEffort, c.ID)
	}
}

func TestExplain(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	work := mustTag(t, svc, models.Tag{Name: "work", Keywords: []string{"report"}})

	task, err := svc.CreateTask(ctx, TaskParams{Title: "quarterly report", DueDate: dueIn(0)})
	require.NoError(t, err)

	matches, err := svc.Explain(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "tag-asap", matches[0].Tag.ID)
	assert.True(t, matches[0].Date)
	assert.False(t, matches[0].Keyword)
	assert.Equal(t, work.ID, matches[1].Tag.ID)
	assert.True(t, matches[1].Keyword)
}

func TestToggleAndDelete(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	task, err := svc.CreateTask(ctx, TaskParams{Title: "water plants"})
	require.NoError(t, err)

	task, err = svc.ToggleComplete(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, task.Completed)

	_, err = svc.Spin(ctx, nil)
	assert.ErrorIs(t, err, modes.ErrNoCandidates)

	task, err = svc.ToggleComplete(ctx, task.ID)
	require.NoError(t, err)
	assert.False(t, task.Completed)

	picked, err := svc.Spin(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, task.ID, picked.ID)

	require.NoError(t, svc.DeleteTask(ctx, task.ID))
	_, err = svc.GetTask(ctx, task.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestRecordSession(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	task, err := svc.CreateTask(ctx, TaskParams{Title: "study"})
	require.NoError(t, err)

	_, err = svc.RecordSession(ctx, task.ID, 25)
	require.NoError(t, err)
	_, err = svc.RecordSession(ctx, task.ID, 15)
	require.NoError(t, err)

	total, err := svc.FocusMinutes(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, 40, total)

	_, err = svc.RecordSession(ctx, "missing", 25)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestFilters(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	home := mustTag(t, svc, models.Tag{Name: "home"})

	f, err := svc.SaveFilter(ctx, models.SavedFilter{Name: "at home", TagIDs: []string{home.ID}})
	require.NoError(t, err)

	filters, err := svc.Filters(ctx)
	require.NoError(t, err)
	require.Len(t, filters, 1)
	assert.Equal(t, []string{home.ID}, filters[0].TagIDs)

	require.NoError(t, svc.DeleteFilter(ctx, f.ID))
	filters, err = svc.Filters(ctx)
	require.NoError(t, err)
	assert.Empty(t, filters)
}

func TestExportImportCatalog(t *testing.T) {
	ctx := context.Background()
	src, _ := newTestService(t)
	mustTag(t, src, models.Tag{Name: "work", Keywords: []string{"meeting", "report"}})
	_, err := src.SaveTimeCategory(ctx, models.TimeCategory{ID: "tonight", Name: "Tonight", Order: 9})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, src.ExportCatalog(ctx, &buf))
	assert.Contains(t, buf.String(), "version: 1")

	dst, _ := newTestService(t)
	file, err := dst.ImportCatalog(ctx, &buf)
	require.NoError(t, err)
	assert.Len(t, file.Tags, 5)

	task, err := dst.CreateTask(ctx, TaskParams{Title: "weekly report"})
	require.NoError(t, err)
	require.Len(t, task.Tags, 1)

	timeCategories, err := dst.TimeCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, timeCategories, 5)

	_, err = dst.ImportCatalog(ctx, bytes.NewBufferString("version: 99\n"))
	assert.Error(t, err)
}
