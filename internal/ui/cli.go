package ui

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/javiermolinar/turno/internal/appointment"
	"github.com/javiermolinar/turno/internal/config"
	"github.com/javiermolinar/turno/internal/db"
	"github.com/javiermolinar/turno/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// ErrNotPersistent is returned by one-shot commands when bookings would be
// lost as soon as the command exits.
var ErrNotPersistent = errors.New(`this command needs storage.backend = "sqlite"; the memory backend only lives inside "turno serve"`)

// App holds the CLI application state.
type App struct {
	config *config.Config
	logger *zap.Logger
	repo   appointment.Repository
	svc    *appointment.Service
	root   *cobra.Command

	noColor bool
	copy    func(string) error
}

// NewApp creates a new CLI application with the given config and logger.
func NewApp(cfg *config.Config, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{config: cfg, logger: logger, copy: clipboard.WriteAll}

	a.root = &cobra.Command{
		Use:   "turno",
		Short: "Book doctor appointments",
		Long: `Turno books, cancels and reschedules doctor appointments.

Run "turno serve" to expose the HTTP API, or use the one-shot
commands against the local database. With no arguments it opens
the interactive board.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return a.runBoard()
		},
	}

	a.root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable colored output")
	a.root.PersistentPreRun = func(_ *cobra.Command, _ []string) {
		if a.noColor {
			DisableColor()
		}
	}

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.serveCmd())
	a.root.AddCommand(a.bookCmd())
	a.root.AddCommand(a.cancelCmd())
	a.root.AddCommand(a.rescheduleCmd())
	a.root.AddCommand(a.listCmd())
	a.root.AddCommand(a.doctorsCmd())
	a.root.AddCommand(a.boardCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "turno %s (commit: %s)\n", Version, Commit)
		},
	}
}

func (a *App) boardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Open the interactive appointment board",
		Long: `Open a per-doctor board of today's appointments.

Keys: ←/→ switch doctor, ↑/↓ select, x cancel, y copy, r reload, ? help, q quit.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return a.runBoard()
		},
	}
}

func (a *App) runBoard() error {
	svc, err := a.service(nil, true)
	if err != nil {
		return err
	}
	return tui.Run(svc, a.config.UI.Theme)
}

// service opens the configured store on first use and returns the
// appointment service over it. One-shot commands pass persistent=true.
func (a *App) service(observer appointment.Observer, persistent bool) (*appointment.Service, error) {
	if a.svc != nil {
		return a.svc, nil
	}
	if persistent && !a.config.IsPersistent() {
		return nil, ErrNotPersistent
	}

	repo, err := openRepo(a.config.Storage)
	if err != nil {
		return nil, err
	}
	a.repo = repo
	a.svc = appointment.NewService(repo, appointment.Options{
		Doctors:  a.config.Booking.Doctors,
		Rules:    a.config.Rules(),
		Logger:   a.logger,
		Observer: observer,
	})
	return a.svc, nil
}

func openRepo(cfg config.StorageConfig) (appointment.Repository, error) {
	if cfg.Backend == config.BackendMemory {
		return db.NewMemory(), nil
	}
	repo, err := db.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}
	return repo, nil
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// Close releases the store, if one was opened.
func (a *App) Close() error {
	if a.repo == nil {
		return nil
	}
	return a.repo.Close()
}
