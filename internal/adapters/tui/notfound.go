package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/todo-cli/internal/config"
)

const notFoundText = "404 - Page Not Found"

// NotFoundModel is the static screen shown for unknown routes.
type NotFoundModel struct {
	route  string
	styles styles
	width  int
	height int
}

// NewNotFoundModel creates the fallback screen for route.
func NewNotFoundModel(route string, theme *config.ThemeConfig) NotFoundModel {
	return NotFoundModel{
		route:  route,
		styles: newStyles(resolveTheme(theme)),
	}
}

// Route returns the route that could not be matched.
func (m NotFoundModel) Route() string {
	return m.route
}

// Init initializes the screen.
func (m NotFoundModel) Init() tea.Cmd { return nil }

// Update quits on q, esc, enter or ctrl+c.
func (m NotFoundModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "enter", "ctrl+c":
			return m, tea.Quit
		}
	}
	return m, nil
}

// View renders the message centered in the window.
func (m NotFoundModel) View() string {
	content := lipgloss.JoinVertical(lipgloss.Center,
		m.styles.notFound.Render(notFoundText),
		"",
		m.styles.muted.Render(m.route),
		m.styles.muted.Render("q to quit"),
	)
	if m.width <= 0 || m.height <= 0 {
		return content + "\n"
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}
