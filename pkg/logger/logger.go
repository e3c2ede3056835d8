// Package logger wires zerolog into the SDK. Controllers and tools log
// through the leveled [Logger] interface so hosts can plug in their own
// backend; the [slog] subpackage provides a log/slog adapter.
package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

const logFilePermission = 0664

// Logger is the minimal leveled surface the SDK logs through. Args are
// alternating key/value pairs.
type Logger interface {
	Error(msg string, args ...any)
	Warn(msg string, args ...any)
	Info(msg string, args ...any)
	Debug(msg string, args ...any)
}

// Build configures a zerolog-backed Logger. Zero targets means stdout.
type Build struct {
	writer io.Writer
	path   string
}

// ZeroLogger is the zerolog-backed Logger implementation.
type ZeroLogger struct {
	// Logger is exposed for hosts that want the full zerolog API.
	Logger  zerolog.Logger
	logFile *os.File
}

func New() *Build {
	return &Build{}
}

// FromPath appends log lines to the file at path, creating it when missing.
func (b *Build) FromPath(path string) *Build {
	b.path = path
	return b
}

// FromBuffer writes log lines to w instead of a file.
func (b *Build) FromBuffer(w io.Writer) *Build {
	b.writer = w
	return b
}

// Make builds the logger with a timestamped zerolog backend.
func (b *Build) Make() (*ZeroLogger, error) {
	zl := &ZeroLogger{}
	writer := b.writer
	if writer == nil {
		writer = os.Stdout
	}
	if b.path != "" {
		f, err := os.OpenFile(b.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, logFilePermission)
		if err != nil {
			return nil, err
		}
		zl.logFile = f
		writer = zerolog.SyncWriter(f)
	}
	zl.Logger = zerolog.New(writer).With().Timestamp().Logger()
	return zl, nil
}

// Close releases the log file, if any.
func (z *ZeroLogger) Close() error {
	if z.logFile == nil {
		return nil
	}
	return z.logFile.Close()
}

func (z *ZeroLogger) Error(msg string, args ...any) { z.Logger.Error().Fields(args).Msg(msg) }
func (z *ZeroLogger) Warn(msg string, args ...any)  { z.Logger.Warn().Fields(args).Msg(msg) }
func (z *ZeroLogger) Info(msg string, args ...any)  { z.Logger.Info().Fields(args).Msg(msg) }
func (z *ZeroLogger) Debug(msg string, args ...any) { z.Logger.Debug().Fields(args).Msg(msg) }

type nopLogger struct{}

func (nopLogger) Error(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Debug(string, ...any) {}

// Nop returns a Logger that discards everything.
func Nop() Logger { return nopLogger{} }
