package views

import (
	"context"
	"errors"
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

const (
	spinFrames   = 14
	spinInterval = 70 * time.Millisecond
)

type spinTickMsg struct{}

type spunMsg struct {
	task models.Task
}

// WheelView picks a random open task, optionally limited to one tag or
// a saved filter
type WheelView struct {
	ctx    context.Context
	svc    *service.TaskService
	styles *styles.Styles
	keys   keys.KeyMap
	err    error

	width  int
	height int

	tasks     []models.Task
	tags      []models.Tag
	filters   []models.SavedFilter
	tagCursor int // 0 = any tag, then tags, then saved filters

	spinning bool
	frame    int
	picked   *models.Task
	result   *models.Task // held back until the animation ends
}

func NewWheelView(ctx context.Context, svc *service.TaskService) *WheelView {
	return &WheelView{
		ctx:    ctx,
		svc:    svc,
		styles: styles.NewStyles(),
		keys:   keys.DefaultKeyMap(),
	}
}

func (v *WheelView) Init() tea.Cmd {
	return tea.Batch(
		func() tea.Msg {
			tasks, err := v.svc.ListTasks(v.ctx, db.TaskFilter{})
			if err != nil {
				return errMsg{err}
			}
			return tasksLoadedMsg{tasks: tasks}
		},
		func() tea.Msg {
			tags, err := v.svc.LoadCatalog(v.ctx)
			if err != nil {
				return errMsg{err}
			}
			return tagsLoadedMsg{tags: tags}
		},
		func() tea.Msg {
			filters, err := v.svc.Filters(v.ctx)
			if err != nil {
				return errMsg{err}
			}
			return filtersLoadedMsg{filters: filters}
		},
	)
}

func (v *WheelView) option() (filterOption, bool) {
	options := filterOptions(v.tags, v.filters)
	if v.tagCursor == 0 || v.tagCursor > len(options) {
		return filterOption{}, false
	}
	return options[v.tagCursor-1], true
}

func (v *WheelView) filter() []string {
	opt, ok := v.option()
	if !ok {
		return nil
	}
	return opt.tagIDs
}

func (v *WheelView) spin() tea.Cmd {
	filter := v.filter()
	v.spinning = true
	v.frame = 0
	v.result = nil
	return tea.Batch(
		func() tea.Msg {
			task, err := v.svc.Spin(v.ctx, filter)
			if err != nil {
				return errMsg{err}
			}
			return spunMsg{task: task}
		},
		tick(),
	)
}

func tick() tea.Cmd {
	return tea.Tick(spinInterval, func(time.Time) tea.Msg { return spinTickMsg{} })
}

func (v *WheelView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case errMsg:
		v.err = msg.err
		v.spinning = false
		return v, nil

	case tasksLoadedMsg:
		v.tasks = msg.tasks
		return v, nil

	case tagsLoadedMsg:
		v.tags = msg.tags
		return v, nil

	case filtersLoadedMsg:
		v.filters = msg.filters
		return v, nil

	case spunMsg:
		v.result = &msg.task
		return v, nil

	case spinTickMsg:
		if !v.spinning {
			return v, nil
		}
		v.frame++
		if v.frame >= spinFrames && v.result != nil {
			v.spinning = false
			v.picked = v.result
			return v, nil
		}
		return v, tick()

	case tea.KeyMsg:
		if v.spinning {
			return v, nil
		}
		v.err = nil

		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit
		case key.Matches(msg, v.keys.Back):
			return v, backToMenu
		case key.Matches(msg, v.keys.Spin):
			return v, v.spin()
		case key.Matches(msg, v.keys.Filter):
			v.tagCursor = (v.tagCursor + 1) % (len(v.tags) + len(v.filters) + 1)
			v.picked = nil
			return v, nil
		case key.Matches(msg, v.keys.Enter):
			if v.picked != nil {
				task := *v.picked
				return v, func() tea.Msg { return StartFocus{Task: task} }
			}
		}
	}
	return v, nil
}

func (v *WheelView) View() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	filterLabel := "any tag"
	if opt, ok := v.option(); ok {
		filterLabel = opt.label()
	}

	var face string
	switch {
	case v.spinning:
		candidates := modes.WithAnyTag(v.tasks, v.filter())
		if len(candidates) > 0 {
			face = s.TitleMuted.Render(candidates[v.frame%len(candidates)].Title)
		} else {
			face = s.TitleMuted.Render("...")
		}
	case v.picked != nil:
		face = s.Title.Render(v.picked.Title)
		if chips := tagChips(*v.picked, v.tags); chips != "" {
			face += "\n" + chips
		}
	default:
		face = s.TitleMuted.Render("Press space to spin")
	}

	errLine := statusLine(s, v.err)
	if errors.Is(v.err, modes.ErrNoCandidates) {
		errLine = s.TitleMuted.Render("No open tasks match " + filterLabel)
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Render("Spin the Wheel"),
		s.TitleMuted.Render("Filter: "+filterLabel),
		"",
		s.FilterBar.Width(clamp(contentWidth-8, 20, 60)).Align(lipgloss.Center).Render(face),
		"",
		errLine,
		helpLine(s, "space", "spin", "f", "filter", "↵", "focus", "esc", "menu"),
	)

	centered := lipgloss.Place(contentWidth, v.height, lipgloss.Center, lipgloss.Center, content)
	return styles.CenterView(centered, v.width, v.height)
}
