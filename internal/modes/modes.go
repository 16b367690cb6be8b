// Package modes holds the task-selection strategies: random wheel,
// two-minute triage, energy matching and urgency ordering.
package modes

import (
	"errors"
	"math/rand/v2"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/tgienger/nextup/internal/models"
	"github.com/tgienger/nextup/internal/tagging"
)

// ErrNoCandidates is returned when a mode has nothing to choose from
var ErrNoCandidates = errors.New("no matching tasks")

// Open returns the tasks that are not completed
func Open(tasks []models.Task) []models.Task {
	var out []models.Task
	for _, t := range tasks {
		if !t.Completed {
			out = append(out, t)
		}
	}
	return out
}

// WithAnyTag returns the tasks carrying at least one of tagIDs.
// An empty tagIDs keeps every task.
func WithAnyTag(tasks []models.Task, tagIDs []string) []models.Task {
	if len(tagIDs) == 0 {
		return tasks
	}
	var out []models.Task
	for _, t := range tasks {
		for _, id := range tagIDs {
			if t.HasTag(id) {
				out = append(out, t)
				break
			}
		}
	}
	return out
}

// Wheel picks a random task
type Wheel struct {
	rng *rand.Rand
}

// NewWheel creates a wheel; a nil rng uses the global source
func NewWheel(rng *rand.Rand) *Wheel {
	return &Wheel{rng: rng}
}

// Spin picks uniformly among the open tasks carrying any of filterTagIDs
func (w *Wheel) Spin(tasks []models.Task, filterTagIDs []string) (models.Task, error) {
	candidates := WithAnyTag(Open(tasks), filterTagIDs)
	if len(candidates) == 0 {
		return models.Task{}, ErrNoCandidates
	}

	var i int
	if w.rng != nil {
		i = w.rng.IntN(len(candidates))
	} else {
		i = rand.IntN(len(candidates))
	}
	return candidates[i], nil
}

// QuickTasks returns the open tasks short enough to do right away under
// the two-minute rule
func QuickTasks(tasks []models.Task) []models.Task {
	var out []models.Task
	for _, t := range Open(tasks) {
		if utf8.RuneCountInString(t.Title) < 30 && utf8.RuneCountInString(t.Description) < 50 {
			out = append(out, t)
		}
	}
	return out
}

// EnergyLevel is how much energy a task is estimated to need
type EnergyLevel string

const (
	EnergyLow    EnergyLevel = "low"
	EnergyMedium EnergyLevel = "medium"
	EnergyHigh   EnergyLevel = "high"
)

// ClassifyEnergy estimates the energy a task needs from its size
func ClassifyEnergy(t models.Task) EnergyLevel {
	switch {
	case utf8.RuneCountInString(t.Description) > 100 || utf8.RuneCountInString(t.Title) > 40:
		return EnergyHigh
	case len(t.Tags) > 2 || strings.TrimSpace(t.Description) != "":
		return EnergyMedium
	}
	return EnergyLow
}

// MatchEnergy returns the open tasks that fit the given energy level
func MatchEnergy(tasks []models.Task, level EnergyLevel) []models.Task {
	var out []models.Task
	for _, t := range Open(tasks) {
		if ClassifyEnergy(t) == level {
			out = append(out, t)
		}
	}
	return out
}

// UrgencyOf returns the rank of the most urgent urgency tag on the task,
// or len(tagging.UrgencyNames) when it has none
func UrgencyOf(t models.Task, catalog []models.Tag) int {
	best := len(tagging.UrgencyNames)
	for _, tag := range catalog {
		if !t.HasTag(tag.ID) {
			continue
		}
		if r := tagging.UrgencyRank(tag.Name); r >= 0 && r < best {
			best = r
		}
	}
	return best
}

// SortByUrgency orders tasks asap, urgent, soon, later, then untagged.
// Ties keep their input order.
func SortByUrgency(tasks []models.Task, catalog []models.Tag) []models.Task {
	out := slices.Clone(tasks)
	slices.SortStableFunc(out, func(a, b models.Task) int {
		return UrgencyOf(a, catalog) - UrgencyOf(b, catalog)
	})
	return out
}
