package shell

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Theme holds the console styles.
type Theme struct {
	Title   lipgloss.Style
	Menu    lipgloss.Style
	Label   lipgloss.Style
	Header  lipgloss.Style
	Cell    lipgloss.Style
	Border  lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Card    lipgloss.Style
}

// DefaultTheme renders against w, so colors are dropped when w is not a
// terminal.
func DefaultTheme(w io.Writer) Theme {
	r := lipgloss.NewRenderer(w)
	return Theme{
		Title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("220")),
		Menu:    r.NewStyle().PaddingLeft(2),
		Label:   r.NewStyle().Foreground(lipgloss.Color("9")),
		Header:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("9")).Padding(0, 1),
		Cell:    r.NewStyle().Padding(0, 1),
		Border:  r.NewStyle().Foreground(lipgloss.Color("240")),
		Success: r.NewStyle().Foreground(lipgloss.Color("42")),
		Error:   r.NewStyle().Foreground(lipgloss.Color("196")),
		Card: r.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")),
	}
}
