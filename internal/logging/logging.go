// Package logging builds the service's named loggers. Each request surface
// gets its own logger with an independently adjustable level: request-logger
// for the HTTP layer, stack-logger for stack calculations, and
// independent-logger for independent calculations.
// Implements: prd005-named-loggers (R1-R4); rel01.1-uc001-dynamic-log-levels.
package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/lmittmann/tint"
)

// Logger names addressable through the level API.
const (
	RequestLogger     = "request-logger"
	StackLogger       = "stack-logger"
	IndependentLogger = "independent-logger"
)

// Log file names under the log directory.
const (
	requestFile     = "requests.log"
	stackFile       = "stack.log"
	independentFile = "independent.log"
)

// TimeFormat is the timestamp layout shared by every handler.
const TimeFormat = "02-01-2006 15:04:05.000"

// Standard errors returned by the level API.
var (
	ErrUnknownLogger = errors.New("unknown logger name")
	ErrUnknownLevel  = errors.New("unknown log level")
)

// ParseLevel converts a textual log level into a slog.Level. Matching is
// case-insensitive and accepts "warning" as an alias for "warn". Unlike the
// lenient parsers that default to info, an unrecognized value is an error so
// the level API can reject it.
func ParseLevel(value string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownLevel, value)
	}
}

// LevelName returns the canonical upper-case name for a level.
func LevelName(level slog.Level) string {
	switch level {
	case slog.LevelDebug:
		return "DEBUG"
	case slog.LevelWarn:
		return "WARN"
	case slog.LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// entry pairs a logger with the level variable its handler consults.
type entry struct {
	logger *slog.Logger
	level  *slog.LevelVar
}

// Registry holds the named loggers. Levels can be read and changed at
// runtime; the handlers consult them on every record.
type Registry struct {
	entries map[string]*entry
	files   []*os.File
}

// Open creates dir if needed and constructs the three named loggers writing
// to their log files. request-logger mirrors to stdout in addition to its
// file. Default levels are info for request-logger and stack-logger and
// debug for independent-logger.
func Open(dir string) (*Registry, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	r := &Registry{entries: make(map[string]*entry)}
	for _, spec := range []struct {
		name     string
		file     string
		level    slog.Level
		toStdout bool
	}{
		{RequestLogger, requestFile, slog.LevelInfo, true},
		{StackLogger, stackFile, slog.LevelInfo, false},
		{IndependentLogger, independentFile, slog.LevelDebug, false},
	} {
		f, err := os.OpenFile(filepath.Join(dir, spec.file), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			_ = r.Close()
			return nil, fmt.Errorf("open log file %s: %w", spec.file, err)
		}
		r.files = append(r.files, f)

		var w io.Writer = f
		if spec.toStdout {
			w = io.MultiWriter(f, os.Stdout)
		}

		lv := new(slog.LevelVar)
		lv.Set(spec.level)
		r.entries[spec.name] = &entry{
			logger: slog.New(tint.NewHandler(w, &tint.Options{
				Level:      lv,
				TimeFormat: TimeFormat,
				NoColor:    true,
			})),
			level: lv,
		}
	}
	return r, nil
}

// Logger returns the named logger, or a discarding logger when the name is
// not registered so call sites never have to nil-check.
func (r *Registry) Logger(name string) *slog.Logger {
	if e, ok := r.entries[name]; ok {
		return e.logger
	}
	return slog.New(slog.DiscardHandler)
}

// Level returns the canonical name of the named logger's current level.
func (r *Registry) Level(name string) (string, error) {
	e, ok := r.entries[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownLogger, name)
	}
	return LevelName(e.level.Level()), nil
}

// SetLevel changes the named logger's level and returns the canonical name
// of the level that was set. The logger name is validated before the level
// so an unknown logger is reported even when the level is also bad.
func (r *Registry) SetLevel(name, level string) (string, error) {
	e, ok := r.entries[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownLogger, name)
	}
	parsed, err := ParseLevel(level)
	if err != nil {
		return "", err
	}
	e.level.Set(parsed)
	return LevelName(parsed), nil
}

// Close closes the underlying log files.
func (r *Registry) Close() error {
	var errs []error
	for _, f := range r.files {
		if err := f.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	r.files = nil
	return errors.Join(errs...)
}
