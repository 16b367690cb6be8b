package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/nextup/internal/db"
	"github.com/tgienger/nextup/internal/models"
	"github.com/tgienger/nextup/internal/service"
	"github.com/tgienger/nextup/internal/tagging"
	"github.com/tgienger/nextup/internal/ui/keys"
	"github.com/tgienger/nextup/internal/ui/styles"
)

// FocusArea represents which part of the UI has focus
type FocusArea int

const (
	FocusBackButton FocusArea = iota
	FocusSearchInput
	FocusTagDropdown
	FocusTaskList
)

// Edit form fields in tab order
const (
	editFieldTitle = iota
	editFieldDesc
	editFieldDue
	editFieldSave
	editFieldCount
)

// TaskListView shows all tasks with search and tag filter
type TaskListView struct {
	ctx     context.Context
	svc     *service.TaskService
	tasks   []models.Task
	tags    []models.Tag
	filters []models.SavedFilter
	styles  *styles.Styles
	keys    keys.KeyMap
	err     error

	width  int
	height int

	// UI state
	focus       FocusArea
	cursor      int
	scrollY     int
	searchInput textinput.Model

	// Active tag filter, a tag or a saved filter
	selected      []string // empty = no filter
	selectedLabel string

	// Tag dropdown state
	tagDropdownOpen bool
	tagCursor       int

	// Task creation/editing
	editing      bool
	editingNew   bool
	editTitle    textinput.Model
	editDesc     textarea.Model
	editDue      textinput.Model
	editFocusIdx int

	// Tag assignment mode
	assigningTags   bool
	assignTagCursor int
	assigningTaskID string

	// Task view mode (read-only detail view)
	viewingTask  bool
	viewMatches  []tagging.Match
	viewFocusMin int

	// Delete confirmation
	confirmingDelete bool
	deleteTargetID   string

	showingCompleted bool

	// Help popup (shown with ? at narrow widths)
	showHelpPopup bool
}

// NewTaskListView creates a new task list view
func NewTaskListView(ctx context.Context, svc *service.TaskService) *TaskListView {
	s := styles.NewStyles()

	search := textinput.New()
	search.Placeholder = "Search tasks..."
	search.CharLimit = 100

	editTitle := textinput.New()
	editTitle.Placeholder = "Task title"
	editTitle.CharLimit = 200

	editDesc := textarea.New()
	editDesc.Placeholder = "Description"
	editDesc.CharLimit = 1000
	editDesc.SetWidth(50)
	editDesc.SetHeight(3)
	editDesc.ShowLineNumbers = false

	editDue := textinput.New()
	editDue.Placeholder = "YYYY-MM-DD"
	editDue.CharLimit = 10

	return &TaskListView{
		ctx:         ctx,
		svc:         svc,
		styles:      s,
		keys:        keys.DefaultKeyMap(),
		focus:       FocusTaskList,
		searchInput: search,
		editTitle:   editTitle,
		editDesc:    editDesc,
		editDue:     editDue,
	}
}

// Init initializes the view
func (v *TaskListView) Init() tea.Cmd {
	return tea.Batch(v.loadTasks, v.loadTags, v.loadFilters)
}

type explainLoadedMsg struct {
	matches []tagging.Match
	minutes int
}

func (v *TaskListView) loadTasks() tea.Msg {
	f := db.TaskFilter{
		Search:        strings.TrimSpace(v.searchInput.Value()),
		ShowCompleted: v.showingCompleted,
	}
	if len(v.selected) > 0 {
		f.TagIDs = v.selected
	}

	tasks, err := v.svc.ListTasks(v.ctx, f)
	if err != nil {
		return errMsg{err}
	}
	return tasksLoadedMsg{tasks: tasks}
}

func (v *TaskListView) loadTags() tea.Msg {
	tags, err := v.svc.LoadCatalog(v.ctx)
	if err != nil {
		return errMsg{err}
	}
	return tagsLoadedMsg{tags: tags}
}

func (v *TaskListView) loadFilters() tea.Msg {
	filters, err := v.svc.Filters(v.ctx)
	if err != nil {
		return errMsg{err}
	}
	return filtersLoadedMsg{filters: filters}
}

func (v *TaskListView) loadExplain() tea.Msg {
	task, ok := v.current()
	if !ok {
		return nil
	}
	matches, err := v.svc.Explain(v.ctx, task.ID)
	if err != nil {
		return errMsg{err}
	}
	minutes, err := v.svc.FocusMinutes(v.ctx, task.ID)
	if err != nil {
		return errMsg{err}
	}
	return explainLoadedMsg{matches: matches, minutes: minutes}
}

func (v *TaskListView) current() (models.Task, bool) {
	if v.cursor < 0 || v.cursor >= len(v.tasks) {
		return models.Task{}, false
	}
	return v.tasks[v.cursor], true
}

// Update handles messages
func (v *TaskListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(v.width)
		v.editDesc.SetWidth(clamp(contentWidth-10, 20, 50))
		return v, nil

	case errMsg:
		v.err = msg.err
		return v, nil

	case tasksLoadedMsg:
		v.tasks = msg.tasks
		if v.cursor >= len(v.tasks) {
			v.cursor = max(0, len(v.tasks)-1)
		}
		// Close tag assignment if the task was filtered out
		if v.assigningTags && v.assigningTaskID != "" {
			found := false
			for _, t := range v.tasks {
				if t.ID == v.assigningTaskID {
					found = true
					break
				}
			}
			if !found {
				v.assigningTags = false
				v.assigningTaskID = ""
			}
		}
		return v, nil

	case tagsLoadedMsg:
		v.tags = msg.tags
		return v, nil

	case filtersLoadedMsg:
		v.filters = msg.filters
		return v, nil

	case explainLoadedMsg:
		v.viewMatches = msg.matches
		v.viewFocusMin = msg.minutes
		return v, nil

	case tea.KeyMsg:
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}

		v.err = nil

		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}

		if v.editing {
			return v.updateEditing(msg)
		}

		if v.viewingTask {
			return v.updateViewingTask(msg)
		}

		if v.assigningTags {
			return v.updateAssigningTags(msg)
		}

		if v.tagDropdownOpen {
			return v.updateTagDropdown(msg)
		}

		return v.updateNormal(msg)
	}

	return v, nil
}

func (v *TaskListView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Don't process hotkeys while typing a search
	if v.focus == FocusSearchInput {
		switch {
		case key.Matches(msg, v.keys.Back):
			v.searchInput.Blur()
			v.focus = FocusTaskList
			return v, nil
		case key.Matches(msg, v.keys.Enter):
			v.searchInput.Blur()
			v.focus = FocusTaskList
			return v, v.loadTasks
		default:
			var cmd tea.Cmd
			v.searchInput, cmd = v.searchInput.Update(msg)
			return v, tea.Batch(cmd, v.loadTasks)
		}
	}

	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Back):
		return v, backToMenu

	case key.Matches(msg, v.keys.Tab):
		v.cycleFocus(1)
		return v, nil

	case msg.String() == "shift+tab":
		v.cycleFocus(-1)
		return v, nil

	case key.Matches(msg, v.keys.Up):
		if v.focus == FocusTaskList && v.cursor > 0 {
			v.cursor--
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.focus == FocusTaskList && v.cursor < len(v.tasks)-1 {
			v.cursor++
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		switch v.focus {
		case FocusBackButton:
			return v, backToMenu
		case FocusTagDropdown:
			v.tagDropdownOpen = true
			v.tagCursor = 0
			return v, nil
		case FocusTaskList:
			if len(v.tasks) > 0 {
				v.viewingTask = true
				v.viewMatches = nil
				return v, v.loadExplain
			}
		}
		return v, nil

	case key.Matches(msg, v.keys.Edit):
		if task, ok := v.current(); ok && v.focus == FocusTaskList {
			v.startEditTask(task)
			return v, textinput.Blink
		}
		return v, nil

	case key.Matches(msg, v.keys.New):
		v.startNewTask()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Delete):
		if task, ok := v.current(); ok && v.focus == FocusTaskList {
			v.confirmingDelete = true
			v.deleteTargetID = task.ID
		}
		return v, nil

	case key.Matches(msg, v.keys.Complete):
		if task, ok := v.current(); ok && v.focus == FocusTaskList {
			return v, v.toggleComplete(task.ID)
		}
		return v, nil

	case key.Matches(msg, v.keys.Search):
		v.focus = FocusSearchInput
		v.searchInput.Focus()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Filter):
		v.focus = FocusTagDropdown
		v.tagDropdownOpen = true
		v.tagCursor = 0
		return v, nil

	case msg.String() == "t":
		if task, ok := v.current(); ok && v.focus == FocusTaskList {
			v.assigningTags = true
			v.assignTagCursor = 0
			v.assigningTaskID = task.ID
		}
		return v, nil

	case msg.String() == "p":
		if task, ok := v.current(); ok && v.focus == FocusTaskList {
			return v, func() tea.Msg { return StartFocus{Task: task} }
		}
		return v, nil

	case key.Matches(msg, v.keys.Help):
		v.showHelpPopup = true
		return v, nil

	case key.Matches(msg, v.keys.ShowCompleted):
		v.showingCompleted = !v.showingCompleted
		v.cursor = 0
		v.scrollY = 0
		return v, v.loadTasks
	}

	return v, nil
}

func (v *TaskListView) toggleComplete(id string) tea.Cmd {
	return func() tea.Msg {
		if _, err := v.svc.ToggleComplete(v.ctx, id); err != nil {
			return errMsg{err}
		}
		return v.loadTasks()
	}
}

func (v *TaskListView) updateTagDropdown(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.tagDropdownOpen = false
		return v, nil

	case key.Matches(msg, v.keys.Up):
		if v.tagCursor > 0 {
			v.tagCursor--
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.tagCursor < len(filterOptions(v.tags, v.filters)) { // +1 for "None" option
			v.tagCursor++
		}
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		options := filterOptions(v.tags, v.filters)
		if v.tagCursor == 0 || v.tagCursor > len(options) {
			v.selected, v.selectedLabel = nil, ""
		} else {
			opt := options[v.tagCursor-1]
			v.selected, v.selectedLabel = opt.tagIDs, opt.name
		}
		v.tagDropdownOpen = false
		v.cursor = 0
		return v, v.loadTasks
	}

	return v, nil
}

func (v *TaskListView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.confirmingDelete = false
		v.viewingTask = false
		id := v.deleteTargetID
		return v, func() tea.Msg {
			if err := v.svc.DeleteTask(v.ctx, id); err != nil {
				return errMsg{err}
			}
			return v.loadTasks()
		}
	case "n", "N", "esc":
		v.confirmingDelete = false
		return v, nil
	}
	return v, nil
}

func (v *TaskListView) updateViewingTask(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	task, ok := v.current()
	if !ok {
		v.viewingTask = false
		return v, nil
	}

	switch {
	case key.Matches(msg, v.keys.Back):
		v.viewingTask = false
		v.viewMatches = nil
		return v, nil
	case key.Matches(msg, v.keys.Edit):
		v.viewingTask = false
		v.startEditTask(task)
		return v, textinput.Blink
	case key.Matches(msg, v.keys.Delete):
		v.confirmingDelete = true
		v.deleteTargetID = task.ID
		return v, nil
	case key.Matches(msg, v.keys.Complete):
		return v, v.toggleComplete(task.ID)
	case msg.String() == "t":
		v.viewingTask = false
		v.assigningTags = true
		v.assignTagCursor = 0
		v.assigningTaskID = task.ID
		return v, nil
	case msg.String() == "p":
		return v, func() tea.Msg { return StartFocus{Task: task} }
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit
	}
	return v, nil
}

func (v *TaskListView) updateAssigningTags(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.assigningTags = false
		return v, nil

	case key.Matches(msg, v.keys.Up):
		if v.assignTagCursor > 0 {
			v.assignTagCursor--
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.assignTagCursor < len(v.tags)-1 {
			v.assignTagCursor++
		}
		return v, nil

	case key.Matches(msg, v.keys.Enter), msg.String() == " ":
		task, ok := v.current()
		if !ok || v.assignTagCursor >= len(v.tags) {
			return v, nil
		}
		tag := v.tags[v.assignTagCursor]
		return v, func() tea.Msg {
			var err error
			if task.HasTag(tag.ID) {
				_, err = v.svc.RemoveTag(v.ctx, task.ID, tag.ID)
			} else {
				_, err = v.svc.AddTag(v.ctx, task.ID, tag.ID)
			}
			if err != nil {
				return errMsg{err}
			}
			return v.loadTasks()
		}
	}

	return v, nil
}

func (v *TaskListView) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.editing = false
		return v, nil

	case msg.String() == "ctrl+s":
		return v, v.saveTask()

	case key.Matches(msg, v.keys.Tab):
		v.editFocusIdx = (v.editFocusIdx + 1) % editFieldCount
		v.updateEditFocus()
		return v, nil

	case msg.String() == "shift+tab":
		v.editFocusIdx = (v.editFocusIdx + editFieldCount - 1) % editFieldCount
		v.updateEditFocus()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		switch v.editFocusIdx {
		case editFieldTitle, editFieldDue:
			v.editFocusIdx++
			v.updateEditFocus()
			return v, nil
		case editFieldSave:
			return v, v.saveTask()
		}
		// Enter in the description inserts a newline
	}

	var cmd tea.Cmd
	switch v.editFocusIdx {
	case editFieldTitle:
		v.editTitle, cmd = v.editTitle.Update(msg)
	case editFieldDesc:
		v.editDesc, cmd = v.editDesc.Update(msg)
	case editFieldDue:
		v.editDue, cmd = v.editDue.Update(msg)
	}
	return v, cmd
}

func (v *TaskListView) cycleFocus(dir int) {
	v.searchInput.Blur()
	v.focus = FocusArea((int(v.focus) + dir + 4) % 4)
	if v.focus == FocusSearchInput {
		v.searchInput.Focus()
	}
}

func (v *TaskListView) ensureVisible() {
	visibleItems := v.visibleItems()
	if v.cursor < v.scrollY {
		v.scrollY = v.cursor
	} else if v.cursor >= v.scrollY+visibleItems {
		v.scrollY = v.cursor - visibleItems + 1
	}
}

// Each task item is 2 lines (title + tags) + 1 margin = 3 lines
func (v *TaskListView) visibleItems() int {
	availableHeight := max(v.height-12, 3)
	return max(availableHeight/3, 1)
}

func (v *TaskListView) startNewTask() {
	v.editing = true
	v.editingNew = true
	v.editFocusIdx = editFieldTitle
	v.editTitle.Reset()
	v.editDesc.Reset()
	v.editDue.Reset()
	v.updateEditFocus()
}

func (v *TaskListView) startEditTask(task models.Task) {
	v.editing = true
	v.editingNew = false
	v.editFocusIdx = editFieldTitle
	v.editTitle.SetValue(task.Title)
	v.editDesc.SetValue(task.Description)
	v.editDue.SetValue(task.DueString())
	v.updateEditFocus()
}

func (v *TaskListView) updateEditFocus() {
	v.editTitle.Blur()
	v.editDesc.Blur()
	v.editDue.Blur()

	switch v.editFocusIdx {
	case editFieldTitle:
		v.editTitle.Focus()
	case editFieldDesc:
		v.editDesc.Focus()
	case editFieldDue:
		v.editDue.Focus()
	}
}

func (v *TaskListView) saveTask() tea.Cmd {
	due, err := tagging.ParseDueDate(v.editDue.Value())
	if err != nil {
		v.err = err
		v.editFocusIdx = editFieldDue
		v.updateEditFocus()
		return nil
	}
	p := service.TaskParams{
		Title:       v.editTitle.Value(),
		Description: v.editDesc.Value(),
		DueDate:     due,
	}
	if strings.TrimSpace(p.Title) == "" {
		v.editing = false
		return nil
	}

	var taskID string
	if !v.editingNew {
		task, ok := v.current()
		if !ok {
			v.editing = false
			return nil
		}
		taskID = task.ID
	}

	v.editing = false
	return func() tea.Msg {
		var err error
		if taskID == "" {
			_, err = v.svc.CreateTask(v.ctx, p)
		} else {
			_, err = v.svc.UpdateTask(v.ctx, taskID, p)
		}
		if err != nil {
			return errMsg{err}
		}
		return v.loadTasks()
	}
}

// View renders the view
func (v *TaskListView) View() string {
	if v.showHelpPopup {
		return v.renderHelpPopup()
	}

	if v.confirmingDelete {
		return renderConfirm(v.styles, "Delete Task?", v.width, v.height)
	}

	if v.editing {
		return v.renderEditForm()
	}

	if v.viewingTask {
		return v.renderTaskView()
	}

	if v.assigningTags {
		return v.renderTagAssignment()
	}

	var b strings.Builder
	b.WriteString(v.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(v.renderTaskList())
	b.WriteString("\n")
	if v.err != nil {
		b.WriteString(statusLine(v.styles, v.err))
		b.WriteString("\n")
	}
	b.WriteString(v.renderHelp())

	return styles.CenterView(b.String(), v.width, v.height)
}

func (v *TaskListView) renderHeader() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	isNarrow := contentWidth < 60

	searchStyle := s.Input
	if v.focus == FocusSearchInput {
		searchStyle = s.InputFocused
	}
	searchWidth := clamp(contentWidth-8, 10, 30)
	v.searchInput.Placeholder = "Search..."
	searchBox := searchStyle.Width(searchWidth).Render(v.searchInput.View())

	tagStyle := s.Button
	if v.focus == FocusTagDropdown {
		tagStyle = s.ButtonFocused
	}
	tagLabel := "All"
	if len(v.selected) > 0 {
		tagLabel = v.selectedLabel
	}
	if !isNarrow {
		tagLabel = "Tags: " + tagLabel
	}
	tagBtn := tagStyle.Render(tagLabel + " ▼")

	titleText := "Tasks"
	if v.showingCompleted {
		titleText = "Tasks (Completed)"
	}
	title := s.Title.Render(titleText)

	var header string
	if isNarrow {
		header = lipgloss.JoinVertical(lipgloss.Left, searchBox, tagBtn)
	} else {
		backStyle := s.Button
		if v.focus == FocusBackButton {
			backStyle = s.ButtonFocused
		}
		backBtn := backStyle.Render("← Menu")

		header = lipgloss.JoinHorizontal(lipgloss.Center,
			backBtn, "  ", searchBox, "  ", tagBtn,
		)
	}

	dropdown := ""
	if v.tagDropdownOpen {
		dropdown = "\n" + v.renderTagDropdown()
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, header+dropdown)
}

func (v *TaskListView) renderTagDropdown() string {
	s := v.styles
	var items []string

	noneStyle := s.ListItem
	if v.tagCursor == 0 {
		noneStyle = s.ListSelected
	}
	items = append(items, noneStyle.Render("None"))

	for i, opt := range filterOptions(v.tags, v.filters) {
		itemStyle := s.ListItem
		if v.tagCursor == i+1 {
			itemStyle = s.ListSelected
		}
		label := styles.TagColor(opt.color).Render("●") + " " + opt.name
		if opt.saved {
			label = opt.label()
		}
		items = append(items, itemStyle.Render(label))
	}

	return s.FilterBar.Render(lipgloss.JoinVertical(lipgloss.Left, items...))
}

func (v *TaskListView) renderTaskList() string {
	s := v.styles

	if len(v.tasks) == 0 {
		return s.TitleMuted.Render("No tasks. Press 'n' to create one.")
	}

	var items []string
	endIdx := min(v.scrollY+v.visibleItems(), len(v.tasks))
	for i := v.scrollY; i < endIdx; i++ {
		items = append(items, v.renderTaskItem(v.tasks[i], i == v.cursor && v.focus == FocusTaskList))
	}

	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

func (v *TaskListView) renderTaskItem(task models.Task, selected bool) string {
	s := v.styles
	width := max(styles.ContentWidth(v.width)-4, 20)

	titleLine := s.TaskTitle.Render(task.Title)
	if task.Completed {
		titleLine = s.TaskDone.Render(task.Title)
	}
	if due := dueLabel(s, v.svc.Now(), task); due != "" {
		titleLine += "  " + due
	}

	tagsLine := tagChips(task, v.tags)
	if tagsLine == "" {
		tagsLine = s.TitleMuted.Render("no tags")
	}

	itemStyle := s.ListItem
	if selected {
		itemStyle = s.ListSelected
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		itemStyle.Width(width).Render(titleLine),
		itemStyle.Width(width).Render(tagsLine),
	) + "\n"
}

func (v *TaskListView) renderEditForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	formTitle := "New Task"
	if !v.editingNew {
		formTitle = "Edit Task"
	}

	titleStyle := s.Input
	descStyle := s.Input
	dueStyle := s.Input
	btnStyle := s.Button

	switch v.editFocusIdx {
	case editFieldTitle:
		titleStyle = s.InputFocused
	case editFieldDesc:
		descStyle = s.InputFocused
	case editFieldDue:
		dueStyle = s.InputFocused
	case editFieldSave:
		btnStyle = s.ButtonFocused
	}

	inputWidth := clamp(contentWidth-6, 20, 50)

	form := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render(formTitle),
		"",
		"Title:",
		titleStyle.Width(inputWidth).Render(v.editTitle.View()),
		"",
		"Description:",
		descStyle.Render(v.editDesc.View()),
		"",
		"Due date:",
		dueStyle.Width(16).Render(v.editDue.View()),
		"",
		btnStyle.Render(" Save "),
		"",
		statusLine(s, v.err),
		s.TitleMuted.Render("Tags are picked from keywords and the due date on save."),
		s.TitleMuted.Render("Tab: next • Ctrl+S: save • Esc: cancel"),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *TaskListView) renderHelp() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	if contentWidth > 0 && contentWidth < 50 {
		return s.Help.Render(s.HelpKey.Render("?") + " help")
	}

	completedLabel := "completed"
	if v.showingCompleted {
		completedLabel = "open"
	}
	return helpLine(s,
		"↵", "view", "e", "edit", "n", "new", "x", "done", "d", "del",
		"/", "search", "f", "filter", "t", "tags", "c", completedLabel, "esc", "menu",
	)
}

func (v *TaskListView) renderHelpPopup() string {
	s := v.styles

	completedLabel := "show completed"
	if v.showingCompleted {
		completedLabel = "show open"
	}

	return renderHelpPopup(s, []string{
		s.HelpKey.Render("↵") + "      view task",
		s.HelpKey.Render("e") + "      edit task",
		s.HelpKey.Render("n") + "      new task",
		s.HelpKey.Render("x") + "      toggle done",
		s.HelpKey.Render("d") + "      delete task",
		s.HelpKey.Render("/") + "      search",
		s.HelpKey.Render("f") + "      filter by tag",
		s.HelpKey.Render("t") + "      assign tags",
		s.HelpKey.Render("p") + "      focus timer",
		s.HelpKey.Render("c") + "      " + completedLabel,
		s.HelpKey.Render("esc") + "    menu",
		s.HelpKey.Render("q") + "      quit",
	}, v.width, v.height)
}

func (v *TaskListView) renderTagAssignment() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	task, ok := v.current()
	if !ok {
		return ""
	}

	var items []string
	for i, tag := range v.tags {
		itemStyle := s.ListItem
		if i == v.assignTagCursor {
			itemStyle = s.ListSelected
		}

		checkbox := "[ ]"
		if task.HasTag(tag.ID) {
			checkbox = "[x]"
		}
		items = append(items, itemStyle.Render(checkbox+" "+styles.TagColor(tag.Color).Render("●")+" "+tag.Name))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Assign Tags to: "+task.Title),
		"",
		lipgloss.JoinVertical(lipgloss.Left, items...),
		"",
		statusLine(s, v.err),
		s.TitleMuted.Render("Enter/Space: toggle • Esc: done"),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		s.FilterBar.Render(content),
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *TaskListView) renderTaskView() string {
	task, ok := v.current()
	if !ok {
		return ""
	}

	s := v.styles
	textWidth := clamp(styles.ContentWidth(v.width)-10, 20, 70)
	labelStyle := s.TitleMuted

	descText := task.Description
	if descText == "" {
		descText = s.TitleMuted.Render("No description")
	}

	dueText := s.TitleMuted.Render("No due date")
	if task.DueDate != nil {
		dueText = task.DueString() + "  " + dueLabel(s, v.svc.Now(), task)
	}

	tagsLine := tagChips(task, v.tags)
	if tagsLine == "" {
		tagsLine = "None"
	}

	var reasons []string
	for _, m := range v.viewMatches {
		var why []string
		if m.Keyword {
			why = append(why, "keyword")
		}
		if m.Date {
			why = append(why, "due date")
		}
		reasons = append(reasons, styles.TagColor(m.Tag.Color).Render("#"+m.Tag.Name)+" "+s.TitleMuted.Render(strings.Join(why, ", ")))
	}
	rules := s.TitleMuted.Render("No rule matches")
	if len(reasons) > 0 {
		rules = lipgloss.JoinVertical(lipgloss.Left, reasons...)
	}

	status := "Open"
	if task.Completed {
		status = "Completed"
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.MarginBottom(1).Render(task.Title),
		labelStyle.Render("Status"),
		status,
		"",
		labelStyle.Render("Due"),
		dueText,
		"",
		labelStyle.Render("Tags"),
		tagsLine,
		"",
		labelStyle.Render("Matching rules"),
		rules,
		"",
		labelStyle.Render("Description"),
		lipgloss.NewStyle().Width(textWidth).Render(descText),
		"",
		labelStyle.Render("Focus time"),
		fmt.Sprintf("%d min", v.viewFocusMin),
		"",
		statusLine(s, v.err),
		helpLine(s, "e", "edit", "t", "tags", "x", "done", "p", "focus", "d", "delete", "esc", "back"),
	)

	padded := lipgloss.NewStyle().Padding(1, 2).Render(content)
	return styles.CenterView(padded, v.width, v.height)
}
