// Package cli implements the meetingkit command-line interface.
//
// Commands build a client registry from the configuration (defaults, the
// --config TOML file, then MEETINGKIT_* environment variables) and either
// inspect it, call the meeting API through it, or serve it over HTTP.
//
// # Commands
//
//   - clients stats: create kinds and print registry counters
//   - clients batch: create several kinds, reporting each outcome
//   - meeting get, meeting list: query the meeting API
//   - config show: print the effective configuration with secrets masked
//   - serve: run the registry HTTP surface with Prometheus metrics
//   - cache: manage the file response cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger is
// attached to the command context by the root command.
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns a logger writing to w with "HH:MM:SS.ms" timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// stopwatch logs how long a command step took, e.g. "Created 3 clients (12ms)".
type stopwatch struct {
	logger *log.Logger
	start  time.Time
}

func startStopwatch(l *log.Logger) stopwatch {
	return stopwatch{logger: l, start: time.Now()}
}

// done logs the formatted message with the elapsed time rounded to milliseconds.
func (s stopwatch) done(format string, args ...any) {
	s.logger.Infof("%s (%s)", fmt.Sprintf(format, args...), time.Since(s.start).Round(time.Millisecond))
}

type loggerKey struct{}

// withLogger attaches l to ctx for the subcommands.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the attached logger, or log.Default() if there is none.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
