package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/turno/internal/appointment"
	"github.com/javiermolinar/turno/internal/config"
	"github.com/javiermolinar/turno/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.

Example:
  turno config`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInteractive(cmd.InOrStdin(), cmd.OutOrStdout(), path)
		},
	}

	cmd.Flags().StringVar(&path, "path", config.DefaultConfigPath(), "Config file to view or edit")

	return cmd
}

func runConfigInteractive(in io.Reader, out io.Writer, configPath string) error {
	fmt.Fprintf(out, "Config file: %s\n\n", configPath)

	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	_, fileErr := os.Stat(configPath)
	if os.IsNotExist(fileErr) {
		fmt.Fprintln(out, "No config file found. Creating with default values...")
		if err := cfg.SaveTo(configPath); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(out, "Created %s\n\n", configPath)
	}

	printConfig(out, cfg)

	reader := bufio.NewReader(in)
	if !promptYesNo(reader, out, "\nWould you like to edit the configuration?") {
		return nil
	}

	cfg.Server.Addr = promptValue(reader, out, "Listen address", cfg.Server.Addr)
	cfg.Booking.Doctors = promptSlice(reader, out, "Doctors (comma-separated)", cfg.Booking.Doctors)
	cfg.Booking.Policy = promptChoice(reader, out, "Conflict policy",
		cfg.Booking.Policy, string(appointment.PolicyExactMatch), string(appointment.PolicyIntervalOverlap))
	cfg.Booking.ZeroLength = promptChoice(reader, out, "Zero-length slots",
		cfg.Booking.ZeroLength, string(appointment.ZeroLengthReject), string(appointment.ZeroLengthAllow))
	cfg.Storage.Backend = promptChoice(reader, out, "Storage backend",
		cfg.Storage.Backend, config.BackendSQLite, config.BackendMemory)
	if cfg.Storage.Backend == config.BackendSQLite {
		cfg.Storage.DBPath = promptValue(reader, out, "Database path", cfg.Storage.DBPath)
	}
	cfg.Log.Level = promptValue(reader, out, "Log level", cfg.Log.Level)
	cfg.Log.Format = promptChoice(reader, out, "Log format", cfg.Log.Format, "console", "json")
	cfg.Log.Dir = promptValue(reader, out, "Log directory (empty for console only)", cfg.Log.Dir)
	cfg.UI.Theme = promptChoice(reader, out, "UI theme", cfg.UI.Theme, theme.Available()...)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.SaveTo(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintln(out, "\nConfiguration saved!")
	return nil
}

func printConfig(out io.Writer, cfg *config.Config) {
	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintln(out, "──────────────────────")
	fmt.Fprintln(out, "[server]")
	fmt.Fprintf(out, "  addr        = %s\n", cfg.Server.Addr)
	fmt.Fprintln(out, "\n[booking]")
	fmt.Fprintf(out, "  doctors     = %s\n", strings.Join(cfg.Booking.Doctors, ", "))
	fmt.Fprintf(out, "  policy      = %s\n", cfg.Booking.Policy)
	fmt.Fprintf(out, "  zero_length = %s\n", cfg.Booking.ZeroLength)
	fmt.Fprintln(out, "\n[storage]")
	fmt.Fprintf(out, "  backend     = %s\n", cfg.Storage.Backend)
	if cfg.Storage.Backend == config.BackendSQLite {
		fmt.Fprintf(out, "  db_path     = %s\n", cfg.Storage.DBPath)
	}
	fmt.Fprintln(out, "\n[log]")
	fmt.Fprintf(out, "  level       = %s\n", cfg.Log.Level)
	fmt.Fprintf(out, "  format      = %s\n", cfg.Log.Format)
	if cfg.Log.Dir != "" {
		fmt.Fprintf(out, "  dir         = %s\n", cfg.Log.Dir)
	}
	fmt.Fprintln(out, "\n[ui]")
	fmt.Fprintf(out, "  theme       = %s\n", cfg.UI.Theme)
}

func promptYesNo(reader *bufio.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func promptValue(reader *bufio.Reader, out io.Writer, label, current string) string {
	if current == "" {
		fmt.Fprintf(out, "  %s: ", label)
	} else {
		fmt.Fprintf(out, "  %s [%s]: ", label, current)
	}
	input, err := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" || (err != nil && err != io.EOF) {
		return current
	}
	return input
}

func promptSlice(reader *bufio.Reader, out io.Writer, label string, current []string) []string {
	input := promptValue(reader, out, label, strings.Join(current, ", "))
	parts := strings.Split(input, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// promptChoice asks until the answer is one of options. An exhausted
// reader keeps the current value.
func promptChoice(reader *bufio.Reader, out io.Writer, label, current string, options ...string) string {
	joined := strings.Join(options, ", ")
	label = fmt.Sprintf("%s (%s)", label, joined)
	for {
		value := strings.ToLower(promptValue(reader, out, label, current))
		for _, o := range options {
			if value == o {
				return value
			}
		}
		if _, err := reader.Peek(1); err != nil {
			return current
		}
		fmt.Fprintf(out, "  Invalid value %q. Available: %s\n", value, joined)
	}
}
