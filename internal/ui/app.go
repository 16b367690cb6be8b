package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tgienger/nextup/internal/models"
	"github.com/tgienger/nextup/internal/modes"
	"github.com/tgienger/nextup/internal/service"
	"github.com/tgienger/nextup/internal/ui/views"
)

// SettingLastView remembers the screen to reopen on start
const SettingLastView = "last_view"

type App struct {
	ctx       context.Context
	svc       *service.TaskService
	durations modes.Durations

	mode    views.Mode
	menu    *views.MenuView
	current tea.Model // nil while the menu is shown
	width   int
	height  int
}

// Creates a new application
func NewApp(ctx context.Context, svc *service.TaskService, d modes.Durations) *App {
	return &App{
		ctx:       ctx,
		svc:       svc,
		durations: d,
		mode:      views.ModeMenu,
		menu:      views.NewMenuView(),
	}
}

func (a *App) Init() tea.Cmd {
	// Reopen the last screen; the focus timer always starts from the menu
	switch last := views.Mode(a.svc.Setting(a.ctx, SettingLastView)); last {
	case views.ModeMenu, views.ModeFocus, "":
	default:
		if v := a.viewFor(last); v != nil {
			a.mode = last
			a.current = v
			return a.current.Init()
		}
	}
	return a.menu.Init()
}

func (a *App) viewFor(m views.Mode) tea.Model {
	switch m {
	case views.ModeTasks:
		return views.NewTaskListView(a.ctx, a.svc)
	case views.ModeEisenhower:
		return views.NewBoardView(a.ctx, a.svc, models.BoardEisenhower)
	case views.ModeTime:
		return views.NewBoardView(a.ctx, a.svc, models.BoardTime)
	case views.ModeEffort:
		return views.NewBoardView(a.ctx, a.svc, models.BoardEffort)
	case views.ModeWheel:
		return views.NewWheelView(a.ctx, a.svc)
	case views.ModeQuick:
		return views.NewQuickView(a.ctx, a.svc)
	case views.ModeFocus:
		return views.NewFocusView(a.ctx, a.svc, a.durations, nil)
	}
	return nil
}

func (a *App) open(m views.Mode, v tea.Model) tea.Cmd {
	a.mode = m
	a.current = v
	_ = a.svc.SetSetting(a.ctx, SettingLastView, string(m))

	// Initialize the view with the window size
	return tea.Batch(
		a.current.Init(),
		func() tea.Msg {
			return tea.WindowSizeMsg{Width: a.width, Height: a.height}
		},
	)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Always update menu size since it persists
		a.menu.Update(msg)

	case views.SelectedMode:
		if v := a.viewFor(msg.Mode); v != nil {
			return a, a.open(msg.Mode, v)
		}
		return a, nil

	case views.StartFocus:
		task := msg.Task
		return a, a.open(views.ModeFocus, views.NewFocusView(a.ctx, a.svc, a.durations, &task))

	case views.BackToMenu:
		a.mode = views.ModeMenu
		a.current = nil
		_ = a.svc.SetSetting(a.ctx, SettingLastView, string(views.ModeMenu))
		return a, tea.Batch(
			a.menu.Init(),
			func() tea.Msg {
				return tea.WindowSizeMsg{Width: a.width, Height: a.height}
			},
		)
	}

	var cmd tea.Cmd
	if a.current != nil {
		_, cmd = a.current.Update(msg)
	} else {
		_, cmd = a.menu.Update(msg)
	}
	return a, cmd
}

func (a *App) View() string {
	if a.current != nil {
		return a.current.View()
	}
	return a.menu.View()
}
