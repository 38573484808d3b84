package tui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
	"github.com/xvierd/todo-cli/internal/config"
	"github.com/xvierd/todo-cli/internal/domain"
	"github.com/xvierd/todo-cli/internal/ports"
)

const (
	appTitle         = "Todo App"
	draftPlaceholder = "Add a new task..."
	inputCharLimit   = 256
	minInputWidth    = 10
)

// focusArea is the part of the home screen receiving keys.
type focusArea int

const (
	focusInput focusArea = iota
	focusList
)

// HomeModel is the task list screen. It renders snapshots of a ports.TaskList
// and turns key presses into operations on it.
type HomeModel struct {
	list     ports.TaskList
	snapshot domain.State

	draft     textinput.Model
	editor    textinput.Model
	filter    textinput.Model
	filtering bool

	cursor int
	focus  focusArea

	keys   keyMap
	help   help.Model
	styles styles
	theme  config.ThemeConfig
	width  int
	height int
}

// NewHomeModel creates the home screen for list.
func NewHomeModel(list ports.TaskList, theme *config.ThemeConfig) HomeModel {
	resolved := resolveTheme(theme)

	draft := textinput.New()
	draft.Placeholder = draftPlaceholder
	draft.Prompt = ""
	draft.CharLimit = inputCharLimit
	draft.Width = 40

	editor := textinput.New()
	editor.Prompt = ""
	editor.CharLimit = inputCharLimit
	editor.Width = 40

	filter := textinput.New()
	filter.Prompt = "/ "
	filter.Placeholder = "filter tasks"
	filter.CharLimit = 64

	m := HomeModel{
		list:   list,
		draft:  draft,
		editor: editor,
		filter: filter,
		keys:   defaultKeyMap(),
		help:   help.New(),
		styles: newStyles(resolved),
		theme:  resolved,
	}

	m.refresh()
	m.draft.SetValue(m.snapshot.DraftText)
	m.draft.CursorEnd()
	if m.snapshot.IsEditing() {
		m.focus = focusList
		m.cursor = max(m.snapshot.IndexOf(m.snapshot.EditingID), 0)
		m.editor.SetValue(m.snapshot.EditingDraft)
		m.editor.CursorEnd()
		m.editor.Focus()
	} else {
		m.draft.Focus()
	}
	return m
}

// Init initializes the screen.
func (m HomeModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and updates the model.
func (m HomeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.setSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch {
		case m.snapshot.IsEditing():
			return m.updateEditing(msg)
		case m.filtering:
			return m.updateFilter(msg)
		case m.focus == focusInput:
			return m.updateDraft(msg)
		default:
			return m.updateList(msg)
		}
	}

	// Cursor blink and other input messages go to the focused field.
	var cmd tea.Cmd
	switch {
	case m.snapshot.IsEditing():
		m.editor, cmd = m.editor.Update(msg)
	case m.filtering:
		m.filter, cmd = m.filter.Update(msg)
	case m.focus == focusInput:
		m.draft, cmd = m.draft.Update(msg)
	}
	return m, cmd
}

func (m HomeModel) updateDraft(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Add):
		m.list.SetDraftText(m.draft.Value())
		m.list.CommitDraft()
		m.refresh()
		m.draft.SetValue(m.snapshot.DraftText)
		m.draft.CursorEnd()
		return m, nil
	case key.Matches(msg, m.keys.Focus), key.Matches(msg, m.keys.Cancel):
		m.focus = focusList
		m.draft.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.draft, cmd = m.draft.Update(msg)
	m.list.SetDraftText(m.draft.Value())
	m.refresh()
	return m, cmd
}

func (m HomeModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	visible := m.visibleTasks()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(visible)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Edit):
		if len(visible) == 0 {
			return m, nil
		}
		m.list.StartEditing(visible[m.cursor].ID)
		m.refresh()
		m.editor.SetValue(m.snapshot.EditingDraft)
		m.editor.CursorEnd()
		cmd := m.editor.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Delete):
		if len(visible) == 0 {
			return m, nil
		}
		m.list.DeleteTask(visible[m.cursor].ID)
		m.refresh()
	case key.Matches(msg, m.keys.Filter):
		m.filtering = true
		cmd := m.filter.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Cancel):
		if m.filter.Value() != "" {
			m.filter.SetValue("")
			m.clampCursor()
		}
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Focus):
		m.focus = focusInput
		cmd := m.draft.Focus()
		return m, cmd
	}
	return m, nil
}

func (m HomeModel) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Save):
		m.list.CommitEdit()
		m.editor.Blur()
		m.refresh()
		return m, nil
	case key.Matches(msg, m.keys.Cancel):
		m.list.CancelEdit()
		m.editor.Blur()
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	m.list.UpdateEditingDraft(m.editor.Value())
	m.refresh()
	return m, cmd
}

func (m HomeModel) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filter.SetValue("")
		m.filter.Blur()
		m.filtering = false
		m.clampCursor()
		return m, nil
	case tea.KeyEnter:
		m.filter.Blur()
		m.filtering = false
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.cursor = 0
	return m, cmd
}

// refresh re-reads the snapshot after an operation.
func (m *HomeModel) refresh() {
	m.snapshot = m.list.Snapshot()
	m.clampCursor()
}

func (m *HomeModel) clampCursor() {
	n := len(m.visibleTasks())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *HomeModel) setSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width
	m.draft.Width = max(width-12, minInputWidth)
	m.editor.Width = max(width-16, minInputWidth)
}

// taskSource adapts a task slice to fuzzy.Source.
type taskSource []domain.Task

func (s taskSource) String(i int) string { return s[i].Text }
func (s taskSource) Len() int            { return len(s) }

// visibleTasks returns the tasks matching the filter, in list order.
func (m HomeModel) visibleTasks() []domain.Task {
	query := strings.TrimSpace(m.filter.Value())
	if query == "" {
		return m.snapshot.Tasks
	}

	matches := fuzzy.FindFrom(query, taskSource(m.snapshot.Tasks))
	indexes := make([]int, 0, len(matches))
	for _, match := range matches {
		indexes = append(indexes, match.Index)
	}
	sort.Ints(indexes)

	visible := make([]domain.Task, 0, len(indexes))
	for _, i := range indexes {
		visible = append(visible, m.snapshot.Tasks[i])
	}
	return visible
}

// View renders the screen.
func (m HomeModel) View() string {
	var b strings.Builder

	b.WriteString(m.styles.title.Render(appTitle) + "\n")

	inputStyle := m.styles.input
	if m.focus == focusInput && !m.snapshot.IsEditing() {
		inputStyle = m.styles.inputActive
	}
	inputBox := inputStyle.Render(m.draft.View())
	addButton := m.styles.addButton.Render(m.theme.IconAdd)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, inputBox, addButton) + "\n\n")

	if m.filtering || m.filter.Value() != "" {
		b.WriteString(m.filter.View() + "\n\n")
	}

	visible := m.visibleTasks()
	switch {
	case len(m.snapshot.Tasks) == 0:
		b.WriteString(m.styles.muted.Render("No tasks yet.") + "\n")
	case len(visible) == 0:
		b.WriteString(m.styles.muted.Render("No matching tasks.") + "\n")
	}
	for i, t := range visible {
		b.WriteString(m.renderRow(i, t) + "\n")
	}

	b.WriteString("\n" + m.help.View(m.keys))
	return b.String()
}

func (m HomeModel) renderRow(i int, t domain.Task) string {
	style := m.styles.row
	if m.focus == focusList && i == m.cursor {
		style = m.styles.rowActive
	}

	if m.snapshot.EditingID == t.ID {
		return style.Render(m.editor.View() + m.styles.save.Render(m.theme.IconSave))
	}

	return style.Render(
		m.styles.taskText.Render(t.Text) +
			m.styles.edit.Render(m.theme.IconEdit) +
			m.styles.delete.Render(m.theme.IconDelete),
	)
}
