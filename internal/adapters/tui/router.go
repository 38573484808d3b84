// Package tui provides the terminal user interface implementation
// using the Bubbletea framework.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"
	"github.com/xvierd/todo-cli/internal/config"
	"github.com/xvierd/todo-cli/internal/ports"
)

// RouteHome is the route of the task list screen.
const RouteHome = "/"

var homeRoutes = map[string]bool{
	"/":      true,
	"/index": true,
}

// NormalizeRoute trims the route and gives it a single leading slash and no
// trailing slash. An empty route is the home route.
func NormalizeRoute(route string) string {
	r := strings.Trim(strings.TrimSpace(route), "/")
	return "/" + r
}

// IsHomeRoute reports whether route shows the task list.
func IsHomeRoute(route string) bool {
	return homeRoutes[NormalizeRoute(route)]
}

// NewScreen returns the model for route: the home screen, or the not-found
// screen for anything unrecognized.
func NewScreen(route string, list ports.TaskList, theme *config.ThemeConfig) tea.Model {
	if IsHomeRoute(route) {
		return NewHomeModel(list, theme)
	}
	return NewNotFoundModel(NormalizeRoute(route), theme)
}

// Run shows the screen for route and blocks until the user quits or ctx is
// cancelled.
func Run(ctx context.Context, route string, list ports.TaskList, theme *config.ThemeConfig) error {
	model := NewScreen(route, list, theme)

	// Size the first frame before the program reports the window size.
	if w, h, ok := terminalSize(); ok {
		switch m := model.(type) {
		case HomeModel:
			m.setSize(w, h)
			model = m
		case NotFoundModel:
			m.width, m.height = w, h
			model = m
		}
	}

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

// terminalSize returns the size of stdout if it is a terminal.
func terminalSize() (int, int, bool) {
	fd := os.Stdout.Fd()
	if !term.IsTerminal(fd) {
		return 0, 0, false
	}
	w, h, err := term.GetSize(fd)
	if err != nil || w <= 0 || h <= 0 {
		return 0, 0, false
	}
	return w, h, true
}
