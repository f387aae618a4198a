package styles

import (
	"dataviz/internal/config"

	"github.com/charmbracelet/lipgloss"
)

// Theme holds the styles used by the dashboard views
type Theme struct {
	App       lipgloss.Style
	Title     lipgloss.Style
	Label     lipgloss.Style
	Focused   lipgloss.Style
	Unfocused lipgloss.Style
	Button    lipgloss.Style
	ButtonOn  lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Info      lipgloss.Style
	Help      lipgloss.Style
	Header    lipgloss.Style
	Cell      lipgloss.Style
	Border    lipgloss.Color
	Emphasis  lipgloss.Style
}

// NewTheme builds the styles from the theme section of cfg
func NewTheme(cfg *config.Config) Theme {
	t := cfg.Theme
	border := lipgloss.Color(t.Border)
	return Theme{
		App: lipgloss.NewStyle().
			Padding(1, 2),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(cfg.Chart.TitleColor)).
			MarginBottom(1),
		Label: lipgloss.NewStyle().
			Width(12).
			Foreground(lipgloss.Color(t.Info)),
		Focused: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Primary)).
			Bold(true),
		Unfocused: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA")),
		Button: lipgloss.NewStyle().
			Padding(0, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border),
		ButtonOn: lipgloss.NewStyle().
			Padding(0, 2).
			Bold(true).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Primary)).
			Foreground(lipgloss.Color(t.Primary)),
		Warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Warning)).
			Bold(true),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Error)),
		Info: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Info)),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5A9")),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(t.Emphasis)).
			Padding(0, 1),
		Cell: lipgloss.NewStyle().
			Padding(0, 1),
		Border: border,
		Emphasis: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Emphasis)),
	}
}
