package tui

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/turno/internal/appointment"
)

// loadedMsg carries a doctor's reservations in start-time order.
type loadedMsg struct {
	doctor string
	rows   []*appointment.Reservation
}

// canceledMsg is sent after a reservation was canceled.
type canceledMsg struct {
	reservation *appointment.Reservation
}

// copiedMsg is sent after text was copied to the clipboard.
type copiedMsg struct {
	text string
}

// errMsg is sent when a command fails.
type errMsg struct {
	err error
}

func loadDoctor(svc *appointment.Service, doctor string) tea.Cmd {
	return func() tea.Msg {
		rows, err := svc.ListByDoctor(context.Background(), doctor)
		if err != nil {
			return errMsg{err: fmt.Errorf("loading %s: %w", doctor, err)}
		}
		sortByStart(rows)
		return loadedMsg{doctor: doctor, rows: rows}
	}
}

func cancelReservation(svc *appointment.Service, r *appointment.Reservation) tea.Cmd {
	return func() tea.Msg {
		removed, err := svc.CancelByID(context.Background(), r.ID)
		if err != nil {
			return errMsg{err: err}
		}
		return canceledMsg{reservation: removed}
	}
}

func copyText(write func(string) error, text string) tea.Cmd {
	return func() tea.Msg {
		if err := write(text); err != nil {
			return errMsg{err: fmt.Errorf("copying to clipboard: %w", err)}
		}
		return copiedMsg{text: text}
	}
}

// sortByStart orders reservations by start then end, keeping booking order
// for identical slots.
func sortByStart(rows []*appointment.Reservation) {
	slices.SortStableFunc(rows, func(a, b *appointment.Reservation) int {
		if c := cmp.Compare(a.Slot.Start, b.Slot.Start); c != 0 {
			return c
		}
		return cmp.Compare(a.Slot.End, b.Slot.End)
	})
}
