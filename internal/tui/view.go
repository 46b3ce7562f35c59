package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/turno/internal/appointment"
)

// View renders the board.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("turno · appointments"))
	b.WriteString("\n")
	b.WriteString(m.fit(m.renderTabs()))
	b.WriteString("\n\n")
	b.WriteString(m.renderRows())
	b.WriteString("\n")

	if line := m.renderStatus(); line != "" {
		b.WriteString(m.fit(line))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))

	return b.String()
}

func (m Model) renderTabs() string {
	if len(m.doctors) == 0 {
		return m.styles.Muted.Render("No doctors configured.")
	}
	tabs := make([]string, len(m.doctors))
	for i, d := range m.doctors {
		if i == m.tab {
			tabs[i] = m.styles.ActiveTab.Render(d)
		} else {
			tabs[i] = m.styles.Tab.Render(d)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderRows() string {
	if m.loading && len(m.rows) == 0 {
		return m.styles.Muted.Render("Loading...")
	}
	if len(m.rows) == 0 {
		return m.styles.Muted.Render("No appointments.")
	}

	lines := make([]string, len(m.rows))
	for i, r := range m.rows {
		if i == m.cursor {
			lines[i] = m.fit(m.styles.SelectedRow.Render("> " + rowLine(r)))
			continue
		}
		lines[i] = m.fit("  " + m.styles.Slot.Render(r.Slot.String()) +
			m.styles.Row.Render("  "+patientName(r.Patient)))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderStatus() string {
	if m.err != nil {
		return m.styles.Error.Render("Error: " + m.err.Error())
	}
	if m.status != "" {
		return m.styles.Status.Render(m.status)
	}
	return ""
}

// fit truncates a styled line to the terminal width.
func (m Model) fit(s string) string {
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}
	return ansi.Truncate(s, width, "…")
}

// rowLine formats a reservation as shown on the board.
func rowLine(r *appointment.Reservation) string {
	return fmt.Sprintf("%s  %s", r.Slot, patientName(r.Patient))
}

// copyLine formats a reservation for the clipboard.
func copyLine(r *appointment.Reservation) string {
	return fmt.Sprintf("%s, %s, %s", r.Doctor, r.Slot, patientName(r.Patient))
}

func patientName(p appointment.Patient) string {
	name := strings.TrimSpace(p.FirstName + " " + p.LastName)
	if name == "" {
		return "<" + p.Email + ">"
	}
	return name + " <" + p.Email + ">"
}
