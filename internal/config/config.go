// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/javiermolinar/turno/internal/appointment"
	"github.com/javiermolinar/turno/internal/tui/theme"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Config holds the application configuration.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Booking BookingConfig `toml:"booking"`
	Storage StorageConfig `toml:"storage"`
	Log     LogConfig     `toml:"log"`
	UI      UIConfig      `toml:"ui"`
}

// UIConfig holds board settings.
type UIConfig struct {
	Theme string `toml:"theme"` // "mocha", "frappe", "latte"
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr string `toml:"addr"` // e.g., ":3000"
}

// BookingConfig holds the doctor roster and slot policies.
type BookingConfig struct {
	Doctors    []string `toml:"doctors"`
	Policy     string   `toml:"policy"`      // "exact-match", "interval-overlap"
	ZeroLength string   `toml:"zero_length"` // "reject", "allow"
}

// StorageConfig holds database settings.
type StorageConfig struct {
	Backend string `toml:"backend"` // "sqlite", "memory"
	DBPath  string `toml:"db_path"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level      string `toml:"level"`  // "debug", "info", "warn", "error"
	Format     string `toml:"format"` // "console", "json"
	Dir        string `toml:"dir"`    // info.log and error.log are written here when set
	Production bool   `toml:"production"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: ":3000",
		},
		Booking: BookingConfig{
			Doctors:    []string{"Dr. Smith", "Dr. Jones", "Dr. Brown"},
			Policy:     string(appointment.PolicyExactMatch),
			ZeroLength: string(appointment.ZeroLengthReject),
		},
		Storage: StorageConfig{
			Backend: BackendSQLite,
			DBPath:  defaultDBPath(),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		UI: UIConfig{
			Theme: "mocha",
		},
	}
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "turno.db"
	}
	return filepath.Join(home, ".local", "share", "turno", "turno.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "turno", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
// A .env file in the working directory is read first.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)
	cfg.Log.Dir = expandPath(cfg.Log.Dir)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) {
	// PORT mirrors the plain port setting most hosts inject.
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Addr = ":" + v
	}
	if v := os.Getenv("TURNO_ADDR"); v != "" {
		cfg.Server.Addr = v
	}

	if v := os.Getenv("TURNO_DOCTORS"); v != "" {
		cfg.Booking.Doctors = splitList(v)
	}
	if v := os.Getenv("TURNO_POLICY"); v != "" {
		cfg.Booking.Policy = v
	}
	if v := os.Getenv("TURNO_ZERO_LENGTH"); v != "" {
		cfg.Booking.ZeroLength = v
	}

	if v := os.Getenv("TURNO_STORAGE"); v != "" {
		cfg.Storage.Backend = v
	}
	if v := os.Getenv("TURNO_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}

	if v := os.Getenv("TURNO_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("TURNO_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("TURNO_LOG_DIR"); v != "" {
		cfg.Log.Dir = v
	}
	if os.Getenv("TURNO_ENV") == "production" {
		cfg.Log.Production = true
	}

	if v := os.Getenv("TURNO_UI_THEME"); v != "" {
		cfg.UI.Theme = v
	}
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("addr must be set")
	}

	if len(c.Booking.Doctors) == 0 {
		return errors.New("at least one doctor must be configured")
	}
	seen := make(map[string]bool, len(c.Booking.Doctors))
	for _, d := range c.Booking.Doctors {
		if strings.TrimSpace(d) == "" {
			return errors.New("doctor names must not be empty")
		}
		if seen[d] {
			return fmt.Errorf("duplicate doctor: %s", d)
		}
		seen[d] = true
	}
	if _, err := appointment.ParsePolicy(c.Booking.Policy); err != nil {
		return err
	}
	if _, err := appointment.ParseZeroLength(c.Booking.ZeroLength); err != nil {
		return err
	}

	switch c.Storage.Backend {
	case BackendSQLite:
		if c.Storage.DBPath == "" {
			return errors.New("db_path must be set")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("backend must be %q or %q, got %q", BackendSQLite, BackendMemory, c.Storage.Backend)
	}

	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log format must be \"console\" or \"json\", got %q", c.Log.Format)
	}

	if c.UI.Theme != "" && !theme.IsAvailable(c.UI.Theme) {
		return fmt.Errorf("unknown theme %q (available: %s)", c.UI.Theme, strings.Join(theme.Available(), ", "))
	}

	return nil
}

// Rules returns the booking policies as service rules.
// The values are assumed to have passed Validate.
func (c *Config) Rules() appointment.Rules {
	policy, _ := appointment.ParsePolicy(c.Booking.Policy)
	zero, _ := appointment.ParseZeroLength(c.Booking.ZeroLength)
	return appointment.Rules{Policy: policy, ZeroLength: zero}
}

// IsPersistent reports whether bookings survive the process.
func (c *Config) IsPersistent() bool {
	return c.Storage.Backend == BackendSQLite
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
