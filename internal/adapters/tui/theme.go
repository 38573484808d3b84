package tui

import (
	"reflect"

	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/todo-cli/internal/config"
)

// resolveTheme fills any empty string fields in the given ThemeConfig with defaults.
// If theme is nil, returns the full default theme.
func resolveTheme(theme *config.ThemeConfig) config.ThemeConfig {
	defaults := config.DefaultThemeConfig()
	if theme == nil {
		return defaults
	}
	resolved := *theme
	rv := reflect.ValueOf(&resolved).Elem()
	dv := reflect.ValueOf(defaults)
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if f.Kind() == reflect.String && f.String() == "" {
			f.SetString(dv.Field(i).String())
		}
	}
	return resolved
}

// styles holds the lipgloss styles derived from a theme.
type styles struct {
	title       lipgloss.Style
	input       lipgloss.Style
	inputActive lipgloss.Style
	addButton   lipgloss.Style
	row         lipgloss.Style
	rowActive   lipgloss.Style
	taskText    lipgloss.Style
	edit        lipgloss.Style
	delete      lipgloss.Style
	save        lipgloss.Style
	muted       lipgloss.Style
	notFound    lipgloss.Style
}

func newStyles(t config.ThemeConfig) styles {
	border := lipgloss.Color(t.ColorBorder)
	primary := lipgloss.Color(t.ColorPrimary)

	return styles{
		title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(t.ColorText)).MarginBottom(1),
		input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1),
		inputActive: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primary).
			Padding(0, 1),
		addButton: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			Background(primary).
			Padding(0, 1).
			MarginLeft(1),
		row: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(border).
			PaddingLeft(1),
		rowActive: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder(), false, false, false, true).
			BorderForeground(primary).
			PaddingLeft(1),
		taskText: lipgloss.NewStyle().Foreground(lipgloss.Color(t.ColorText)),
		edit:     lipgloss.NewStyle().Foreground(primary).MarginLeft(1),
		delete:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.ColorDanger)).MarginLeft(1),
		save:     lipgloss.NewStyle().Foreground(lipgloss.Color(t.ColorSuccess)).MarginLeft(1),
		muted:    lipgloss.NewStyle().Foreground(lipgloss.Color(t.ColorMuted)),
		notFound: lipgloss.NewStyle().Foreground(lipgloss.Color(t.ColorDanger)).Bold(true),
	}
}
