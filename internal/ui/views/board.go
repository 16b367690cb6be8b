package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/nextup/internal/db"
	"github.com/tgienger/nextup/internal/models"
	"github.com/tgienger/nextup/internal/service"
	"github.com/tgienger/nextup/internal/tagging"
	"github.com/tgienger/nextup/internal/ui/keys"
	"github.com/tgienger/nextup/internal/ui/styles"
)

const unsortedBucket = ""

type column struct {
	bucket string // unsortedBucket for tasks not on the board yet
	title  string
	tasks  []models.Task
}

type boardLoadedMsg struct {
	tasks      []models.Task
	catalog    []models.Tag
	placements map[string]string
	timeCats   []models.TimeCategory
}

// BoardView sorts tasks into the columns of one board. Moving a task
// re-tags it for the column it lands in.
type BoardView struct {
	ctx    context.Context
	svc    *service.TaskService
	board  models.Board
	styles *styles.Styles
	keys   keys.KeyMap
	err    error

	width  int
	height int

	columns []column
	catalog []models.Tag
	col     int
	row     int

	showHelpPopup bool
}

// NewBoardView creates a view for the given board
func NewBoardView(ctx context.Context, svc *service.TaskService, board models.Board) *BoardView {
	return &BoardView{
		ctx:    ctx,
		svc:    svc,
		board:  board,
		styles: styles.NewStyles(),
		keys:   keys.DefaultKeyMap(),
	}
}

func (v *BoardView) Init() tea.Cmd {
	return v.load
}

func (v *BoardView) load() tea.Msg {
	tasks, err := v.svc.ListTasks(v.ctx, db.TaskFilter{})
	if err != nil {
		return errMsg{err}
	}
	catalog, err := v.svc.LoadCatalog(v.ctx)
	if err != nil {
		return errMsg{err}
	}
	placements, err := v.svc.Placements(v.ctx, v.board)
	if err != nil {
		return errMsg{err}
	}
	msg := boardLoadedMsg{tasks: tasks, catalog: catalog, placements: placements}
	if v.board == models.BoardTime {
		if msg.timeCats, err = v.svc.TimeCategories(v.ctx); err != nil {
			return errMsg{err}
		}
	}
	return msg
}

func (v *BoardView) title() string {
	switch v.board {
	case models.BoardEisenhower:
		return "Eisenhower Matrix"
	case models.BoardTime:
		return "Time Sort"
	case models.BoardEffort:
		return "Energy Match"
	}
	return string(v.board)
}

func (v *BoardView) buildColumns(msg boardLoadedMsg) []column {
	cols := []column{{bucket: unsortedBucket, title: "Unsorted"}}
	switch v.board {
	case models.BoardEisenhower:
		for _, q := range tagging.Quadrants {
			cols = append(cols, column{bucket: string(q), title: q.Label()})
		}
	case models.BoardTime:
		for _, c := range msg.timeCats {
			cols = append(cols, column{bucket: c.ID, title: c.Name})
		}
	case models.BoardEffort:
		for _, l := range tagging.EffortLevels {
			cols = append(cols, column{bucket: string(l), title: strings.ToUpper(string(l[:1])) + string(l[1:])})
		}
	}

	index := make(map[string]int, len(cols))
	for i, c := range cols {
		index[c.bucket] = i
	}
	for _, t := range msg.tasks {
		// a bucket that no longer exists falls back to unsorted
		i := index[msg.placements[t.ID]]
		cols[i].tasks = append(cols[i].tasks, t)
	}
	return cols
}

func (v *BoardView) current() (models.Task, bool) {
	if v.col >= len(v.columns) {
		return models.Task{}, false
	}
	tasks := v.columns[v.col].tasks
	if v.row < 0 || v.row >= len(tasks) {
		return models.Task{}, false
	}
	return tasks[v.row], true
}

func (v *BoardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case errMsg:
		v.err = msg.err
		return v, nil

	case boardLoadedMsg:
		v.catalog = msg.catalog
		v.columns = v.buildColumns(msg)
		v.col = clamp(v.col, 0, len(v.columns)-1)
		v.row = clamp(v.row, 0, max(len(v.columns[v.col].tasks)-1, 0))
		return v, nil

	case tea.KeyMsg:
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}
		v.err = nil
		return v.updateNormal(msg)
	}
	return v, nil
}

func (v *BoardView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Back):
		return v, backToMenu

	case key.Matches(msg, v.keys.Help):
		v.showHelpPopup = true
		return v, nil

	case key.Matches(msg, v.keys.Left):
		if v.col > 0 {
			v.col--
			v.row = clamp(v.row, 0, max(len(v.columns[v.col].tasks)-1, 0))
		}
		return v, nil

	case key.Matches(msg, v.keys.Right):
		if v.col < len(v.columns)-1 {
			v.col++
			v.row = clamp(v.row, 0, max(len(v.columns[v.col].tasks)-1, 0))
		}
		return v, nil

	case key.Matches(msg, v.keys.Up):
		if v.row > 0 {
			v.row--
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.col < len(v.columns) && v.row < len(v.columns[v.col].tasks)-1 {
			v.row++
		}
		return v, nil

	case key.Matches(msg, v.keys.MoveLeft):
		return v, v.move(-1)

	case key.Matches(msg, v.keys.MoveRight):
		return v, v.move(1)

	case key.Matches(msg, v.keys.Complete):
		if task, ok := v.current(); ok {
			return v, func() tea.Msg {
				if _, err := v.svc.ToggleComplete(v.ctx, task.ID); err != nil {
					return errMsg{err}
				}
				return v.load()
			}
		}
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if task, ok := v.current(); ok {
			return v, func() tea.Msg { return StartFocus{Task: task} }
		}
		return v, nil
	}
	return v, nil
}

// move shifts the selected task dir columns and follows it with the cursor
func (v *BoardView) move(dir int) tea.Cmd {
	task, ok := v.current()
	target := v.col + dir
	if !ok || target < 0 || target >= len(v.columns) {
		return nil
	}
	bucket := v.columns[target].bucket
	v.col = target
	v.row = len(v.columns[target].tasks)

	return func() tea.Msg {
		var err error
		switch {
		case bucket == unsortedBucket:
			err = v.svc.Unplace(v.ctx, task.ID, v.board)
		case v.board == models.BoardEisenhower:
			_, err = v.svc.MoveToQuadrant(v.ctx, task.ID, tagging.Quadrant(bucket))
		case v.board == models.BoardTime:
			_, err = v.svc.MoveToTimeCategory(v.ctx, task.ID, bucket)
		case v.board == models.BoardEffort:
			_, err = v.svc.SetEffort(v.ctx, task.ID, tagging.EffortLevel(bucket))
		}
		if err != nil {
			return errMsg{err}
		}
		return v.load()
	}
}

func (v *BoardView) View() string {
	s := v.styles
	if v.showHelpPopup {
		return renderHelpPopup(s, []string{
			s.HelpKey.Render("←→") + "     column",
			s.HelpKey.Render("↑↓") + "     task",
			s.HelpKey.Render("< >") + "    move task",
			s.HelpKey.Render("x") + "      toggle done",
			s.HelpKey.Render("↵") + "      focus timer",
			s.HelpKey.Render("esc") + "    menu",
		}, v.width, v.height)
	}

	boardWidth := styles.BoardWidth(v.width)
	var b strings.Builder
	b.WriteString(s.Title.Render(v.title()))
	b.WriteString("\n\n")

	if len(v.columns) > 0 {
		colWidth := max(boardWidth/len(v.columns)-2, 12)
		rendered := make([]string, len(v.columns))
		for i, c := range v.columns {
			rendered[i] = v.renderColumn(c, i == v.col, colWidth)
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
		b.WriteString("\n")
	}

	if v.err != nil {
		b.WriteString(statusLine(s, v.err))
		b.WriteString("\n")
	}
	if boardWidth > 0 && boardWidth < 50 {
		b.WriteString(s.Help.Render(s.HelpKey.Render("?") + " help"))
	} else {
		b.WriteString(helpLine(s, "←→", "column", "↑↓", "task", "< >", "move", "x", "done", "↵", "focus", "esc", "menu"))
	}

	if v.width <= styles.BoardMaxWidth {
		return b.String()
	}
	return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Top, b.String())
}

func (v *BoardView) renderColumn(c column, focused bool, width int) string {
	s := v.styles
	style := s.Column
	if focused {
		style = s.ColumnFocused
	}

	lines := []string{s.ColumnTitle.Render(fmt.Sprintf("%s (%d)", c.title, len(c.tasks))), ""}
	maxRows := max(v.height-10, 3)
	for i, t := range c.tasks {
		if i >= maxRows {
			lines = append(lines, s.TitleMuted.Render(fmt.Sprintf("+%d more", len(c.tasks)-i)))
			break
		}
		title := truncate(t.Title, width-2)
		if due := dueLabel(s, v.svc.Now(), t); due != "" {
			title += " " + due
		}
		itemStyle := s.ListItem.Padding(0, 0)
		if focused && i == v.row {
			itemStyle = s.ListSelected.Padding(0, 0)
		}
		lines = append(lines, itemStyle.Width(width).Render(title))
	}
	if len(c.tasks) == 0 {
		lines = append(lines, s.TitleMuted.Render("empty"))
	}

	return style.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// truncate shortens s to n runes with an ellipsis
func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 1 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
