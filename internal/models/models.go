package models

import "time"

// DateLayout is the storage format for due dates (calendar date, no time)
const DateLayout = time.DateOnly

// Built-in tag category IDs
const (
	CategoryGeneral           = "general"
	CategoryUrgencyImportance = "urgency-importance"
	CategoryTimeBased         = "time-based"
	CategoryEffort            = "effort"
)

// TagCategory groups tags along one organizational axis
type TagCategory struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Color       string `yaml:"color,omitempty"`
}

// DateRange is a due-date window in days relative to today.
// A nil bound is open on that side.
type DateRange struct {
	Enabled   bool `yaml:"enabled"`
	StartDays *int `yaml:"start_days"`
	EndDays   *int `yaml:"end_days"`
}

// Tag represents a tag that can be applied to tasks
type Tag struct {
	ID         string     `yaml:"id"`
	Name       string     `yaml:"name"`
	Keywords   []string   `yaml:"keywords,omitempty"`
	CategoryID string     `yaml:"category"`
	DateRange  *DateRange `yaml:"date_range,omitempty"`
	Color      string     `yaml:"color,omitempty"`
	CreatedAt  time.Time  `yaml:"-"`
}

// TimeCategory is a column on the time-sort board
type TimeCategory struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Color       string `yaml:"color,omitempty"`
	Order       int    `yaml:"order"`
}

// Task represents a single task
type Task struct {
	ID          string
	Title       string
	Description string
	Completed   bool
	Tags        []string // tag IDs, set semantics
	AutoTags    []string // subset of Tags derived by rules
	DueDate     *time.Time
	Order       int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasTag reports whether the task carries tagID
func (t Task) HasTag(tagID string) bool {
	for _, id := range t.Tags {
		if id == tagID {
			return true
		}
	}
	return false
}

// DueString returns the due date in storage format, or "" when unset
func (t Task) DueString() string {
	if t.DueDate == nil {
		return ""
	}
	return t.DueDate.Format(DateLayout)
}

// Board identifies one of the sorting boards a task can be placed on
type Board string

const (
	BoardEisenhower Board = "eisenhower"
	BoardTime       Board = "time"
	BoardEffort     Board = "effort"
)

// Placement records which bucket of a board a task sits in
type Placement struct {
	TaskID string
	Board  Board
	Bucket string
}

// SavedFilter is a named set of tags used to narrow task lists
type SavedFilter struct {
	ID     string
	Name   string
	TagIDs []string
}

// Session is a completed Pomodoro work interval
type Session struct {
	ID        int64
	TaskID    string
	Minutes   int
	CreatedAt time.Time
}
