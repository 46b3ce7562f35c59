// Package tui provides the interactive appointment board.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/turno/internal/tui/theme"
)

// Styles holds all lipgloss styles for the board, derived from a theme.
type Styles struct {
	Title       lipgloss.Style
	Tab         lipgloss.Style
	ActiveTab   lipgloss.Style
	Row         lipgloss.Style
	SelectedRow lipgloss.Style
	Slot        lipgloss.Style
	Muted       lipgloss.Style
	Status      lipgloss.Style
	Error       lipgloss.Style
}

// NewStyles builds the board styles from a palette.
func NewStyles(p *theme.Palette) Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Accent).
			MarginBottom(1),
		Tab: lipgloss.NewStyle().
			Foreground(p.FgMuted).
			Padding(0, 1),
		ActiveTab: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.TextOnAccent).
			Background(p.Accent).
			Padding(0, 1),
		Row: lipgloss.NewStyle().
			Foreground(p.Fg),
		SelectedRow: lipgloss.NewStyle().
			Foreground(p.Fg).
			Background(p.BgSelection).
			Bold(true),
		Slot: lipgloss.NewStyle().
			Foreground(p.Booked),
		Muted: lipgloss.NewStyle().
			Foreground(p.FgMuted).
			Italic(true),
		Status: lipgloss.NewStyle().
			Foreground(p.Accent),
		Error: lipgloss.NewStyle().
			Foreground(p.Warning).
			Bold(true),
	}
}
