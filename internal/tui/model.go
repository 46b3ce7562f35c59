package tui

import (
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/turno/internal/appointment"
	"github.com/javiermolinar/turno/internal/tui/theme"
)

const defaultWidth = 80

// Model is the bubbletea model for the appointment board.
type Model struct {
	svc     *appointment.Service
	doctors []string

	tab    int
	cursor int
	rows   []*appointment.Reservation

	loading bool
	status  string
	err     error

	width  int
	height int

	keys   keyMap
	help   help.Model
	styles Styles

	clipboard func(string) error
}

// New creates a board over svc using the named theme.
func New(svc *appointment.Service, themeName string) Model {
	th, _ := theme.Load(themeName)
	return Model{
		svc:       svc,
		doctors:   svc.Doctors(),
		loading:   true,
		width:     defaultWidth,
		keys:      defaultKeyMap(),
		help:      help.New(),
		styles:    NewStyles(theme.NewPalette(th)),
		clipboard: clipboard.WriteAll,
	}
}

// Run starts the board and blocks until the user quits.
func Run(svc *appointment.Service, themeName string) error {
	p := tea.NewProgram(New(svc, themeName), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init loads the first doctor's reservations.
func (m Model) Init() tea.Cmd {
	return m.reload()
}

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case loadedMsg:
		if msg.doctor != m.currentDoctor() {
			return m, nil // stale response after a tab switch
		}
		m.loading = false
		m.rows = msg.rows
		m.cursor = clamp(m.cursor, 0, len(m.rows)-1)
		return m, nil

	case canceledMsg:
		m.status = "Canceled " + msg.reservation.Slot.String() + " for " + msg.reservation.Patient.Email
		m.err = nil
		cmd := m.reload()
		return m, cmd

	case copiedMsg:
		m.status = "Copied to clipboard"
		m.err = nil
		return m, nil

	case errMsg:
		m.loading = false
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Next):
		return m.switchTab(1)

	case key.Matches(msg, m.keys.Prev):
		return m.switchTab(-1)

	case key.Matches(msg, m.keys.Reload):
		m.status = ""
		cmd := m.reload()
		return m, cmd

	case key.Matches(msg, m.keys.Cancel):
		if r := m.selected(); r != nil {
			return m, cancelReservation(m.svc, r)
		}

	case key.Matches(msg, m.keys.Copy):
		if r := m.selected(); r != nil {
			return m, copyText(m.clipboard, copyLine(r))
		}
	}

	return m, nil
}

func (m Model) switchTab(delta int) (tea.Model, tea.Cmd) {
	if len(m.doctors) == 0 {
		return m, nil
	}
	m.tab = (m.tab + delta + len(m.doctors)) % len(m.doctors)
	m.cursor = 0
	m.rows = nil
	m.status = ""
	m.err = nil
	cmd := m.reload()
	return m, cmd
}

func (m *Model) reload() tea.Cmd {
	if len(m.doctors) == 0 {
		m.loading = false
		return nil
	}
	m.loading = true
	return loadDoctor(m.svc, m.currentDoctor())
}

func (m Model) currentDoctor() string {
	if len(m.doctors) == 0 {
		return ""
	}
	return m.doctors[m.tab]
}

func (m Model) selected() *appointment.Reservation {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	return m.rows[m.cursor]
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return max(lo, min(v, hi))
}
