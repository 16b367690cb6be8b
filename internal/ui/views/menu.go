package views

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/nextup/internal/ui/keys"
	"github.com/tgienger/nextup/internal/ui/styles"
)

// Mode identifies a screen reachable from the menu
type Mode string

const (
	ModeMenu       Mode = "menu"
	ModeTasks      Mode = "tasks"
	ModeEisenhower Mode = "eisenhower"
	ModeTime       Mode = "time"
	ModeEffort     Mode = "effort"
	ModeWheel      Mode = "wheel"
	ModeQuick      Mode = "quick"
	ModeFocus      Mode = "focus"
)

type modeItem struct {
	mode        Mode
	title       string
	description string
}

func (i modeItem) Title() string       { return i.title }
func (i modeItem) Description() string { return i.description }
func (i modeItem) FilterValue() string { return i.title }

var menuItems = []modeItem{
	{ModeTasks, "Tasks", "All tasks with their tags"},
	{ModeEisenhower, "Eisenhower Matrix", "Sort by urgency and importance"},
	{ModeTime, "Time Sort", "Sort by when the task should happen"},
	{ModeEffort, "Energy Match", "Sort by how much effort a task takes"},
	{ModeWheel, "Spin the Wheel", "Let chance pick the next task"},
	{ModeQuick, "Two-Minute Rule", "Short tasks to finish right away"},
	{ModeFocus, "Focus Timer", "Pomodoro sessions on one task"},
}

type menuDelegate struct {
	styles *styles.Styles
	width  int
}

func (d menuDelegate) Height() int                               { return 2 }
func (d menuDelegate) Spacing() int                              { return 1 }
func (d menuDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d menuDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(modeItem)
	if !ok {
		return
	}

	selected := index == m.Index()
	width := max(d.width-4, 20)

	var titleStyle, descStyle lipgloss.Style
	if selected {
		titleStyle = d.styles.ListSelected.Width(width)
		descStyle = d.styles.ListSelected.Foreground(styles.Current.ForegroundDim).Width(width)
	} else {
		titleStyle = d.styles.ListItem.Width(width)
		descStyle = d.styles.ListItem.Foreground(styles.Current.ForegroundDim).Width(width)
	}

	fmt.Fprintf(w, "%s\n%s", titleStyle.Render(i.Title()), descStyle.Render(i.Description()))
}

// SelectedMode is sent when a menu entry is chosen
type SelectedMode struct {
	Mode Mode
}

// MenuView lists the available modes
type MenuView struct {
	list     list.Model
	delegate *menuDelegate
	styles   *styles.Styles
	keys     keys.KeyMap
	width    int
	height   int

	// Help popup (shown with ? at narrow widths)
	showHelpPopup bool
}

func NewMenuView() *MenuView {
	s := styles.NewStyles()
	delegate := &menuDelegate{styles: s, width: 80}

	items := make([]list.Item, len(menuItems))
	for i, item := range menuItems {
		items[i] = item
	}

	l := list.New(items, delegate, 0, 0)
	l.Title = "nextup"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = s.Title
	l.SetShowHelp(false)

	return &MenuView{
		list:     l,
		delegate: delegate,
		styles:   s,
		keys:     keys.DefaultKeyMap(),
	}
}

func (v *MenuView) Init() tea.Cmd {
	return nil
}

func (v *MenuView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(msg.Width)
		v.delegate.width = contentWidth
		v.list.SetSize(contentWidth-4, msg.Height-6)
		return v, nil

	case tea.KeyMsg:
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}

		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit
		case key.Matches(msg, v.keys.Back):
			return v, nil
		case key.Matches(msg, v.keys.Help):
			v.showHelpPopup = true
			return v, nil
		case key.Matches(msg, v.keys.Enter):
			if item, ok := v.list.SelectedItem().(modeItem); ok {
				return v, func() tea.Msg {
					return SelectedMode{Mode: item.mode}
				}
			}
		}
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

// View renders the view
func (v *MenuView) View() string {
	if v.showHelpPopup {
		return renderHelpPopup(v.styles, []string{
			v.styles.HelpKey.Render("↵") + "      open",
			v.styles.HelpKey.Render("↑↓") + "     move",
			v.styles.HelpKey.Render("q") + "      quit",
		}, v.width, v.height)
	}

	content := v.list.View() + "\n" + v.renderHelp()
	return styles.CenterView(content, v.width, v.height)
}

func (v *MenuView) renderHelp() string {
	contentWidth := styles.ContentWidth(v.width)
	if contentWidth > 0 && contentWidth < 50 {
		return v.styles.Help.Render(v.styles.HelpKey.Render("?") + " help")
	}
	return helpLine(v.styles, "↵", "open", "↑↓", "move", "q", "quit")
}
