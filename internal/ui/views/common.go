package views

import (
	"fmt"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/nextup/internal/models"
	"github.com/tgienger/nextup/internal/tagging"
	"github.com/tgienger/nextup/internal/ui/styles"
)

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// BackToMenu signals to go back to the mode menu
type BackToMenu struct{}

func backToMenu() tea.Msg { return BackToMenu{} }

// StartFocus opens the focus timer on a task
type StartFocus struct {
	Task models.Task
}

// errMsg carries a failed service call back into Update
type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

type tasksLoadedMsg struct {
	tasks []models.Task
}

type tagsLoadedMsg struct {
	tags []models.Tag
}

type filtersLoadedMsg struct {
	filters []models.SavedFilter
}

// filterOption is one entry of a tag filter picker, either a single tag
// or a saved filter
type filterOption struct {
	name   string
	color  string
	saved  bool
	tagIDs []string
}

// label names the option the way filter pickers show it
func (o filterOption) label() string {
	if o.saved {
		return "★ " + o.name
	}
	return "#" + o.name
}

// filterOptions lists the catalog tags followed by the saved filters
func filterOptions(tags []models.Tag, filters []models.SavedFilter) []filterOption {
	options := make([]filterOption, 0, len(tags)+len(filters))
	for _, t := range tags {
		options = append(options, filterOption{name: t.Name, color: t.Color, tagIDs: []string{t.ID}})
	}
	for _, f := range filters {
		options = append(options, filterOption{name: f.Name, saved: true, tagIDs: f.TagIDs})
	}
	return options
}

// tagChips renders the task's tags in their colors. Tags chosen by the
// rules are shown in italics.
func tagChips(task models.Task, catalog []models.Tag) string {
	var chips []string
	for _, id := range task.Tags {
		for _, tag := range catalog {
			if tag.ID != id {
				continue
			}
			style := styles.TagColor(tag.Color)
			if slices.Contains(task.AutoTags, id) {
				style = style.Italic(true)
			}
			chips = append(chips, style.Render("#"+tag.Name))
		}
	}
	return strings.Join(chips, " ")
}

// dueLabel describes the due date relative to today
func dueLabel(s *styles.Styles, today time.Time, task models.Task) string {
	if task.DueDate == nil {
		return ""
	}
	days := tagging.DaysBetween(today, *task.DueDate)
	switch {
	case days < 0:
		return s.Overdue.Render(fmt.Sprintf("overdue %dd", -days))
	case days == 0:
		return s.Overdue.Render("due today")
	case days == 1:
		return s.TaskDue.Render("due tomorrow")
	}
	return s.TaskDue.Render(fmt.Sprintf("due in %dd", days))
}

// renderConfirm draws a yes/no dialog in the middle of the screen
func renderConfirm(s *styles.Styles, title string, width, height int) string {
	contentWidth := styles.ContentWidth(width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render(title),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)

	centered := lipgloss.Place(contentWidth, height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, width, height)
}

// renderHelpPopup draws a boxed list of key descriptions
func renderHelpPopup(s *styles.Styles, items []string, width, height int) string {
	contentWidth := styles.ContentWidth(width)

	items = append(items, "", s.TitleMuted.Render("Press any key to close"))
	content := lipgloss.JoinVertical(lipgloss.Left,
		append([]string{s.Title.Render("Keyboard Shortcuts"), ""}, items...)...,
	)

	centered := lipgloss.Place(contentWidth, height,
		lipgloss.Center, lipgloss.Center,
		s.FilterBar.Render(content),
	)
	return styles.CenterView(centered, width, height)
}

// helpLine joins key/description pairs into a one-line hint
func helpLine(s *styles.Styles, pairs ...string) string {
	var parts []string
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, s.HelpKey.Render(pairs[i])+" "+s.HelpDesc.Render(pairs[i+1]))
	}
	return s.Help.Render(strings.Join(parts, " • "))
}

// statusLine shows the last error, if any
func statusLine(s *styles.Styles, err error) string {
	if err == nil {
		return ""
	}
	return s.StatusError.Render("error: " + err.Error())
}
