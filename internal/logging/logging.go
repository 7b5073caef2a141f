// Package logging installs the process-wide slog logger. The terminal belongs
// to the game screen, so records go to a size-rotated file.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/lumberjack"

	"github.com/talgya/incremental/internal/config"
)

// ParseLevel maps a config level name to a slog level.
func ParseLevel(name string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(name))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level %q: %w", name, err)
	}
	return lvl, nil
}

// NewWriter returns the rotating file writer for cfg, or io.Discard when no
// file is configured.
func NewWriter(cfg config.LogConfig) (io.WriteCloser, error) {
	if cfg.File == "" {
		return nopCloser{io.Discard}, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	return &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    max(1, cfg.MaxSizeMB),
		MaxBackups: max(0, cfg.MaxBackups),
		MaxAge:     max(0, cfg.MaxAgeDays),
	}, nil
}

// New builds a text logger writing to w at the configured level.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}

// Setup installs the default logger. The returned closer flushes the file.
func Setup(cfg config.LogConfig) (io.Closer, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	w, err := NewWriter(cfg)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(New(w, level))
	return w, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
