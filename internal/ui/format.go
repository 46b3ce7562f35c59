package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/javiermolinar/turno/internal/appointment"
)

// RowOpts selects the columns printed for a reservation.
type RowOpts struct {
	ShowDoctor  bool
	ShowPatient bool
	ShowID      bool
}

// FormatReservationRow formats a reservation as a single list line.
func FormatReservationRow(r *appointment.Reservation, opts RowOpts) string {
	var b strings.Builder
	b.WriteString("  ")
	// Widest slot is "10:00 AM - 11:00 AM".
	fmt.Fprintf(&b, "%s%s", formatSlot(r.Slot.String()), strings.Repeat(" ", max(0, 19-len(r.Slot.String()))))
	b.WriteString("  ")
	b.WriteString(formatMuted(FormatDuration(r.Slot.Duration())))

	if opts.ShowDoctor {
		b.WriteString("  ")
		b.WriteString(formatDoctor(r.Doctor))
	}
	if opts.ShowPatient {
		b.WriteString("  ")
		b.WriteString(patientLabel(r.Patient))
	}
	if opts.ShowID {
		b.WriteString("  ")
		b.WriteString(formatMuted(r.ID))
	}
	return b.String()
}

// PlainReservationRow formats a reservation without color, for the clipboard.
func PlainReservationRow(r *appointment.Reservation) string {
	return fmt.Sprintf("%s\t%s\t%s", r.Slot, r.Doctor, patientLabel(r.Patient))
}

// PrintReservations prints a titled list of reservations.
func PrintReservations(w io.Writer, title string, list []*appointment.Reservation, opts RowOpts) {
	fmt.Fprintln(w, formatHeader(title))
	fmt.Fprintln(w, formatMuted(rule(len(title))))
	for _, r := range list {
		fmt.Fprintln(w, FormatReservationRow(r, opts))
	}
}

func patientLabel(p appointment.Patient) string {
	name := strings.TrimSpace(p.FirstName + " " + p.LastName)
	if name == "" {
		return p.Email
	}
	return fmt.Sprintf("%s <%s>", name, p.Email)
}

// rule returns a horizontal line at least n wide, capped at the terminal width.
func rule(n int) string {
	return strings.Repeat("─", min(max(n, 20), termWidth()))
}

// FormatDuration formats minutes as a human-readable duration.
func FormatDuration(minutes int) string {
	if minutes == 0 {
		return "0m"
	}
	hours := minutes / 60
	mins := minutes % 60
	if hours == 0 {
		return fmt.Sprintf("%dm", mins)
	}
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh%dm", hours, mins)
}
