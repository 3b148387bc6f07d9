package tui

import "github.com/charmbracelet/lipgloss"

type Theme struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Help     lipgloss.Style
	Card     lipgloss.Style

	Panel    lipgloss.Style
	Negative lipgloss.Style
	Warning  lipgloss.Style
	Prompt   lipgloss.Style
}

func DefaultTheme() Theme {
	return Theme{
		Title:    lipgloss.NewStyle().Bold(true),
		Subtitle: lipgloss.NewStyle().Faint(true),
		Help:     lipgloss.NewStyle().Faint(true),
		Card: lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")),
		Panel: lipgloss.NewStyle().
			Padding(0, 1).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")),
		Negative: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Warning:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Prompt:   lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true),
	}
}
