// Package logger provides leveled logging for dllup.
// Debug and Info messages are printed only in verbose mode; warnings and
// errors are always printed.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Logger writes "[LEVEL] message" lines to a writer. It is safe for
// concurrent use.
type Logger struct {
	mu      sync.Mutex // serializes writes
	out     io.Writer
	verbose bool
}

// New creates a logger writing to w.
func New(w io.Writer, verbose bool) *Logger {
	return &Logger{out: w, verbose: verbose}
}

// Stderr creates a logger writing to os.Stderr.
func Stderr(verbose bool) *Logger {
	return New(os.Stderr, verbose)
}

// Discard returns a logger that drops every message.
func Discard() *Logger {
	return New(io.Discard, false)
}

// Debug prints a message if verbose mode is enabled.
func (l *Logger) Debug(format string, args ...any) {
	l.print(true, "DEBUG", format, args)
}

// Info prints an informational message if verbose mode is enabled.
func (l *Logger) Info(format string, args ...any) {
	l.print(true, "INFO", format, args)
}

// Warn prints a warning.
func (l *Logger) Warn(format string, args ...any) {
	l.print(false, "WARN", format, args)
}

// Error prints an error.
func (l *Logger) Error(format string, args ...any) {
	l.print(false, "ERROR", format, args)
}

func (l *Logger) print(verboseOnly bool, level, format string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if verboseOnly && !l.verbose {
		return
	}
	fmt.Fprintf(l.out, "["+level+"] "+format+"\n", args...)
}
