// Package logging builds the zap loggers used across careerpath.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects the logger's encoding, level and destination.
type Options struct {
	// Mode is "dev" (console encoding) or "prod" (JSON). Default: dev.
	Mode string

	// Level is a zap level name. Default: info.
	Level string

	// File, when set, receives the output instead of stderr. The TUI owns
	// the terminal, so interactive commands log to a file.
	File string
}

// OptionsFromEnv reads CAREERPATH_LOG_MODE and CAREERPATH_LOG_LEVEL.
func OptionsFromEnv() Options {
	return Options{
		Mode:  strings.TrimSpace(os.Getenv("CAREERPATH_LOG_MODE")),
		Level: strings.TrimSpace(os.Getenv("CAREERPATH_LOG_LEVEL")),
	}
}

// New builds a logger from opts.
func New(opts Options) (*zap.Logger, error) {
	var cfg zap.Config
	switch strings.ToLower(opts.Mode) {
	case "prod", "production", "json":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
		cfg.DisableStacktrace = true
	}

	level := zapcore.InfoLevel
	if opts.Level != "" {
		if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
			return nil, fmt.Errorf("log level %q: %w", opts.Level, err)
		}
	}
	cfg.Level = zap.NewAtomicLevelAt(level)

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		cfg.OutputPaths = []string{opts.File}
		cfg.ErrorOutputPaths = []string{opts.File}
	}

	return cfg.Build()
}
