package tagging

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgienger/nextup/internal/models"
)

func TestDaysBetween(t *testing.T) {
	morning := time.Date(2026, time.March, 27, 0, 5, 0, 0, time.Local)
	night := time.Date(2026, time.March, 27, 23, 55, 0, 0, time.Local)

	assert.Equal(t, 0, DaysBetween(night, morning))
	assert.Equal(t, 0, DaysBetween(morning, night))
	assert.Equal(t, 1, DaysBetween(night, morning.AddDate(0, 0, 1)))
	assert.Equal(t, -1, DaysBetween(morning, night.AddDate(0, 0, -1)))
	// spans the March DST change in most zones
	assert.Equal(t, 7, DaysBetween(time.Date(2026, time.March, 25, 12, 0, 0, 0, time.Local), time.Date(2026, time.April, 1, 0, 0, 0, 0, time.Local)))
}

func TestInRangeBoundaries(t *testing.T) {
	r := &models.DateRange{Enabled: true, StartDays: days(1), EndDays: days(3)}

	tests := []struct {
		offset int
		want   bool
	}{
		{-1, false},
		{0, false},
		{1, true},
		{2, true},
		{3, true},
		{4, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, InRange(today, dueIn(tt.offset), r), "offset %d", tt.offset)
	}
}

func TestInRangeOpenBounds(t *testing.T) {
	open := &models.DateRange{Enabled: true}
	for _, offset := range []int{-400, -1, 0, 1, 30, 3650} {
		assert.True(t, InRange(today, dueIn(offset), open), "offset %d", offset)
	}

	from := &models.DateRange{Enabled: true, StartDays: days(8)}
	assert.False(t, InRange(today, dueIn(7), from))
	assert.True(t, InRange(today, dueIn(8), from))
	assert.True(t, InRange(today, dueIn(800), from))

	until := &models.DateRange{Enabled: true, EndDays: days(0)}
	assert.True(t, InRange(today, dueIn(-3), until))
	assert.False(t, InRange(today, dueIn(1), until))
}

func TestInRangeNeverMatches(t *testing.T) {
	disabled := &models.DateRange{Enabled: false}
	disabledBounded := &models.DateRange{Enabled: false, StartDays: days(0), EndDays: days(10)}
	empty := &models.DateRange{Enabled: true, StartDays: days(10), EndDays: days(5)}

	for offset := -2; offset <= 12; offset++ {
		due := dueIn(offset)
		assert.False(t, InRange(today, due, disabled))
		assert.False(t, InRange(today, due, disabledBounded))
		assert.False(t, InRange(today, due, empty))
		assert.False(t, InRange(today, due, nil))
	}
	assert.False(t, InRange(today, nil, &models.DateRange{Enabled: true}))
}

func TestDefaultUrgencyRangesDisjoint(t *testing.T) {
	catalog := DefaultUrgencyTags()
	for offset := -5; offset <= 60; offset++ {
		matched := DateMatches(today, dueIn(offset), catalog)
		assert.LessOrEqual(t, len(matched), 1, "offset %d matched %v", offset, matched)
		if offset >= 0 {
			assert.Len(t, matched, 1, "offset %d", offset)
		}
	}
}

func TestParseDueDate(t *testing.T) {
	due, err := ParseDueDate("2026-04-01")
	require.NoError(t, err)
	require.NotNil(t, due)
	assert.Equal(t, "2026-04-01", due.Format(models.DateLayout))

	due, err = ParseDueDate("  ")
	require.NoError(t, err)
	assert.Nil(t, due)

	_, err = ParseDueDate("tomorrow")
	assert.Error(t, err)
}
