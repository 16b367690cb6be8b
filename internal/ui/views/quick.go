package views

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/nextup/internal/db"
	"github.com/tgienger/nextup/internal/models"
	"github.com/tgienger/nextup/internal/modes"
	"github.com/tgienger/nextup/internal/service"
	"github.com/tgienger/nextup/internal/ui/keys"
	"github.com/tgienger/nextup/internal/ui/styles"
)

// energyFilters is the cycle for the f key; "" shows two-minute tasks
var energyFilters = []modes.EnergyLevel{"", modes.EnergyLow, modes.EnergyMedium, modes.EnergyHigh}

// QuickView lists tasks small enough to finish now, or tasks matching an
// energy level
type QuickView struct {
	ctx    context.Context
	svc    *service.TaskService
	styles *styles.Styles
	keys   keys.KeyMap
	err    error

	width  int
	height int

	all    []models.Task
	tags   []models.Tag
	energy int
	cursor int
}

func NewQuickView(ctx context.Context, svc *service.TaskService) *QuickView {
	return &QuickView{
		ctx:    ctx,
		svc:    svc,
		styles: styles.NewStyles(),
		keys:   keys.DefaultKeyMap(),
	}
}

func (v *QuickView) Init() tea.Cmd {
	return tea.Batch(v.loadTasks, func() tea.Msg {
		tags, err := v.svc.LoadCatalog(v.ctx)
		if err != nil {
			return errMsg{err}
		}
		return tagsLoadedMsg{tags: tags}
	})
}

func (v *QuickView) loadTasks() tea.Msg {
	tasks, err := v.svc.ListTasks(v.ctx, db.TaskFilter{})
	if err != nil {
		return errMsg{err}
	}
	return tasksLoadedMsg{tasks: tasks}
}

func (v *QuickView) visible() []models.Task {
	level := energyFilters[v.energy]
	if level == "" {
		return modes.QuickTasks(v.all)
	}
	return modes.MatchEnergy(v.all, level)
}

func (v *QuickView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case errMsg:
		v.err = msg.err
		return v, nil

	case tasksLoadedMsg:
		v.all = msg.tasks
		v.cursor = clamp(v.cursor, 0, max(len(v.visible())-1, 0))
		return v, nil

	case tagsLoadedMsg:
		v.tags = msg.tags
		return v, nil

	case tea.KeyMsg:
		v.err = nil
		tasks := v.visible()

		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit
		case key.Matches(msg, v.keys.Back):
			return v, backToMenu
		case key.Matches(msg, v.keys.Up):
			if v.cursor > 0 {
				v.cursor--
			}
		case key.Matches(msg, v.keys.Down):
			if v.cursor < len(tasks)-1 {
				v.cursor++
			}
		case key.Matches(msg, v.keys.Filter):
			v.energy = (v.energy + 1) % len(energyFilters)
			v.cursor = 0
		case key.Matches(msg, v.keys.Complete):
			if v.cursor < len(tasks) {
				id := tasks[v.cursor].ID
				return v, func() tea.Msg {
					if _, err := v.svc.ToggleComplete(v.ctx, id); err != nil {
						return errMsg{err}
					}
					return v.loadTasks()
				}
			}
		case key.Matches(msg, v.keys.Enter):
			if v.cursor < len(tasks) {
				task := tasks[v.cursor]
				return v, func() tea.Msg { return StartFocus{Task: task} }
			}
		}
	}
	return v, nil
}

func (v *QuickView) View() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	width := max(contentWidth-4, 20)

	title := "Two-Minute Rule"
	subtitle := "Short tasks you can finish right now"
	if level := energyFilters[v.energy]; level != "" {
		title = "Energy: " + string(level)
		subtitle = "Open tasks that need " + string(level) + " energy"
	}

	tasks := v.visible()
	var items []string
	for i, t := range tasks {
		style := s.ListItem
		if i == v.cursor {
			style = s.ListSelected
		}
		line := t.Title
		if chips := tagChips(t, v.tags); chips != "" {
			line += "  " + chips
		}
		items = append(items, style.Width(width).Render(line))
	}
	list := s.TitleMuted.Render("Nothing here.")
	if len(items) > 0 {
		list = lipgloss.JoinVertical(lipgloss.Left, items...)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render(title),
		s.TitleMuted.Render(subtitle),
		"",
		list,
		"",
		statusLine(s, v.err),
		helpLine(s, "x", "done", "f", "energy", "↵", "focus", "esc", "menu"),
	)
	return styles.CenterView(content, v.width, v.height)
}
