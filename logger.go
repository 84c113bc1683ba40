package tunsup

import (
	"fmt"
	"os"
)

// Logger is the logging surface the supervisor and its collaborators use.
// Arguments are alternating key/value pairs.
type Logger interface {
	Info(msg string, args ...any)
	Error(msg string, args ...any)
}

// NewStderrLogger returns a Logger writing prefixed key=value lines to stderr.
func NewStderrLogger() Logger {
	return &stderrLogger{}
}

type stderrLogger struct{}

func (l *stderrLogger) Info(msg string, args ...any) {
	l.write("", msg, args)
}

func (l *stderrLogger) Error(msg string, args ...any) {
	l.write("ERROR: ", msg, args)
}

func (l *stderrLogger) write(level, msg string, args []any) {
	fmt.Fprintf(os.Stderr, "tunsup: %s%s", level, msg)
	for i := 0; i+1 < len(args); i += 2 {
		fmt.Fprintf(os.Stderr, " %v=%v", args[i], args[i+1])
	}
	fmt.Fprintln(os.Stderr)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
