package main

import (
	"fmt"
	"os"

	"github.com/javiermolinar/turno/internal/config"
	"github.com/javiermolinar/turno/internal/logging"
	"github.com/javiermolinar/turno/internal/ui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, cleanup, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer cleanup()
	defer func() { _ = logger.Sync() }()

	app := ui.NewApp(cfg, logger)
	defer func() { _ = app.Close() }()
	return app.Execute()
}
