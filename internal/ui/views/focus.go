package views

import (
	"context"
	"fmt"
	"time"

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

// focusTickMsg carries the run it belongs to so a paused timer drops
// ticks from before the pause
type focusTickMsg struct {
	run int
}

type sessionRecordedMsg struct {
	minutes int
}

// FocusView runs a Pomodoro timer, optionally attached to a task.
// Finished work phases are recorded against the task.
type FocusView struct {
	ctx    context.Context
	svc    *service.TaskService
	styles *styles.Styles
	keys   keys.KeyMap
	err    error

	width  int
	height int

	durations modes.Durations
	timer     *modes.Pomodoro
	run       int
	task      *models.Task
	total     int // minutes recorded on the task

	// Task picker
	picking    bool
	candidates []models.Task
	tags       []models.Tag
	pickCursor int
}

// NewFocusView creates a timer for task, which may be nil
func NewFocusView(ctx context.Context, svc *service.TaskService, d modes.Durations, task *models.Task) *FocusView {
	return &FocusView{
		ctx:       ctx,
		svc:       svc,
		styles:    styles.NewStyles(),
		keys:      keys.DefaultKeyMap(),
		durations: d,
		timer:     modes.NewPomodoro(d),
		task:      task,
	}
}

func (v *FocusView) Init() tea.Cmd {
	return tea.Batch(v.loadCandidates, v.loadTotal)
}

func (v *FocusView) loadCandidates() tea.Msg {
	tasks, err := v.svc.ListTasks(v.ctx, db.TaskFilter{})
	if err != nil {
		return errMsg{err}
	}
	catalog, err := v.svc.LoadCatalog(v.ctx)
	if err != nil {
		return errMsg{err}
	}
	return boardLoadedMsg{tasks: modes.SortByUrgency(tasks, catalog), catalog: catalog}
}

func (v *FocusView) loadTotal() tea.Msg {
	if v.task == nil {
		return nil
	}
	minutes, err := v.svc.FocusMinutes(v.ctx, v.task.ID)
	if err != nil {
		return errMsg{err}
	}
	return sessionRecordedMsg{minutes: minutes}
}

func (v *FocusView) tick() tea.Cmd {
	run := v.run
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return focusTickMsg{run: run} })
}

func (v *FocusView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case errMsg:
		v.err = msg.err
		return v, nil

	case boardLoadedMsg:
		v.candidates = msg.tasks
		v.tags = msg.catalog
		return v, nil

	case sessionRecordedMsg:
		v.total = msg.minutes
		return v, nil

	case focusTickMsg:
		if msg.run != v.run || !v.timer.Running() {
			return v, nil
		}
		if v.timer.Done(v.svc.Now()) {
			return v, v.finishPhase()
		}
		return v, v.tick()

	case tea.KeyMsg:
		v.err = nil
		if v.picking {
			return v.updatePicking(msg)
		}
		return v.updateNormal(msg)
	}
	return v, nil
}

// finishPhase advances the timer and records a finished work phase
func (v *FocusView) finishPhase() tea.Cmd {
	ended := v.timer.Advance()
	if ended != modes.PhaseWork || v.task == nil {
		return nil
	}
	id := v.task.ID
	minutes := int(v.durations.Work.Minutes())
	return func() tea.Msg {
		if _, err := v.svc.RecordSession(v.ctx, id, minutes); err != nil {
			return errMsg{err}
		}
		return v.loadTotal()
	}
}

func (v *FocusView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	now := v.svc.Now()
	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit
	case key.Matches(msg, v.keys.Back):
		return v, backToMenu
	case msg.String() == " ":
		v.run++
		if v.timer.Running() {
			v.timer.Pause(now)
			return v, nil
		}
		v.timer.Start(now)
		return v, v.tick()
	case msg.String() == "r":
		v.run++
		v.timer.Reset()
		return v, nil
	case key.Matches(msg, v.keys.New):
		// skipping a phase never records a session
		v.run++
		v.timer.Advance()
		return v, nil
	case msg.String() == "t":
		v.picking = true
		v.pickCursor = 0
		return v, v.loadCandidates
	}
	return v, nil
}

func (v *FocusView) updatePicking(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.picking = false
	case key.Matches(msg, v.keys.Up):
		if v.pickCursor > 0 {
			v.pickCursor--
		}
	case key.Matches(msg, v.keys.Down):
		if v.pickCursor < len(v.candidates)-1 {
			v.pickCursor++
		}
	case key.Matches(msg, v.keys.Enter):
		if v.pickCursor < len(v.candidates) {
			task := v.candidates[v.pickCursor]
			v.task = &task
			v.picking = false
			return v, v.loadTotal
		}
	}
	return v, nil
}

func (v *FocusView) View() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	if v.picking {
		return v.renderPicker()
	}

	remaining := v.timer.Remaining(v.svc.Now()).Round(time.Second)
	clock := fmt.Sprintf("%02d:%02d", int(remaining.Minutes()), int(remaining.Seconds())%60)

	taskLine := s.TitleMuted.Render("No task. Press t to pick one.")
	if v.task != nil {
		taskLine = s.Title.Render(v.task.Title) + "\n" +
			s.TitleMuted.Render(fmt.Sprintf("%d min focused so far", v.total))
	}

	state := "paused"
	if v.timer.Running() {
		state = "running"
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Render(v.timer.Phase().String()),
		"",
		s.Timer.Render(clock),
		s.TitleMuted.Render(fmt.Sprintf("%s • %d pomodoros done", state, v.timer.WorkDone())),
		"",
		taskLine,
		"",
		statusLine(s, v.err),
		helpLine(s, "space", "start/pause", "r", "reset", "n", "skip", "t", "task", "esc", "menu"),
	)

	centered := lipgloss.Place(contentWidth, v.height, lipgloss.Center, lipgloss.Center, content)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *FocusView) renderPicker() string {
	s := v.styles
	width := max(styles.ContentWidth(v.width)-4, 20)

	var items []string
	for i, t := range v.candidates {
		style := s.ListItem
		if i == v.pickCursor {
			style = s.ListSelected
		}
		line := t.Title
		if chips := tagChips(t, v.tags); chips != "" {
			line += "  " + chips
		}
		items = append(items, style.Width(width).Render(line))
	}
	list := s.TitleMuted.Render("No open tasks.")
	if len(items) > 0 {
		list = lipgloss.JoinVertical(lipgloss.Left, items...)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Pick a task"),
		s.TitleMuted.Render("Most urgent first"),
		"",
		list,
		"",
		helpLine(s, "↵", "select", "esc", "cancel"),
	)
	return styles.CenterView(content, v.width, v.height)
}
