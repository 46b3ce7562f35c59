// Package logging builds the zap logger from the [log] configuration.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/javiermolinar/turno/internal/config"
)

// File names written under LogConfig.Dir.
const (
	InfoFile  = "info.log"
	ErrorFile = "error.log"
)

// New builds a logger that tees to up to three cores: info.log and error.log
// under cfg.Dir when set, and the console outside production. In production
// without a Dir it logs JSON to stderr. The returned cleanup closes the log
// files.
func New(cfg config.LogConfig) (*zap.Logger, func(), error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	var (
		cores   []zapcore.Core
		closers []func()
	)
	cleanup := func() {
		for _, c := range closers {
			c()
		}
	}

	if cfg.Dir != "" {
		if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("creating log directory: %w", err)
		}
		fileEnc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())

		for _, f := range []struct {
			name  string
			level zapcore.LevelEnabler
		}{
			{InfoFile, level},
			{ErrorFile, zapcore.ErrorLevel},
		} {
			ws, closeFile, err := zap.Open(filepath.Join(cfg.Dir, f.name))
			if err != nil {
				cleanup()
				return nil, nil, fmt.Errorf("opening %s: %w", f.name, err)
			}
			closers = append(closers, closeFile)
			cores = append(cores, zapcore.NewCore(fileEnc, ws, atLeast(level, f.level)))
		}
	}

	switch {
	case !cfg.Production:
		cores = append(cores, zapcore.NewCore(consoleEncoder(cfg.Format), zapcore.Lock(os.Stderr), level))
	case len(cores) == 0:
		// Production with no log files still reports to stderr, as JSON.
		cores = append(cores, zapcore.NewCore(consoleEncoder("json"), zapcore.Lock(os.Stderr), level))
	}

	logger := zap.New(zapcore.NewTee(cores...),
		zap.AddCaller(),
		// Stack traces for errors and above
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
	return logger, cleanup, nil
}

func consoleEncoder(format string) zapcore.Encoder {
	if format == "json" {
		return zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	}
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return zapcore.NewConsoleEncoder(encCfg)
}

// atLeast enables a level only when both enablers do.
func atLeast(a, b zapcore.LevelEnabler) zapcore.LevelEnabler {
	return zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return a.Enabled(l) && b.Enabled(l)
	})
}
