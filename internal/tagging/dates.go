package tagging

import (
	"fmt"
	"strings"
	"time"

	"github.com/tgienger/nextup/internal/models"
)

// civil drops the time of day, keeping the calendar date the clock shows
func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the signed number of calendar days from today to due.
// The same civil date is always 0 whatever the time of day.
func DaysBetween(today, due time.Time) int {
	return int(civil(due).Sub(civil(today)).Hours() / 24)
}

// InRange reports whether due falls inside r, counted in days from today.
// A missing due date, a missing range or a disabled range never matches.
func InRange(today time.Time, due *time.Time, r *models.DateRange) bool {
	if due == nil || r == nil || !r.Enabled {
		return false
	}

	days := DaysBetween(today, *due)
	afterStart := r.StartDays == nil || days >= *r.StartDays
	beforeEnd := r.EndDays == nil || days <= *r.EndDays
	return afterStart && beforeEnd
}

// DateMatches returns the IDs of every tag whose date range contains due
func DateMatches(today time.Time, due *time.Time, catalog []models.Tag) []string {
	if due == nil {
		return nil
	}
	var ids []string
	for _, tag := range catalog {
		if InRange(today, due, tag.DateRange) {
			ids = append(ids, tag.ID)
		}
	}
	return ids
}

// ParseDueDate parses a YYYY-MM-DD string in the local zone.
// An empty string means no due date.
func ParseDueDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(models.DateLayout, s, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid due date %q (want YYYY-MM-DD): %w", s, err)
	}
	return &t, nil
}
