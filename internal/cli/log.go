// Package cli implements the topoviz command-line interface.
//
// The commands load a topology from a file, the dashboard backend, MongoDB
// or the built-in sample, run the force layout, and either write the result
// to disk, show it live in the terminal, or serve it over HTTP. The CLI is
// built using cobra and logs through charmbracelet/log.
//
// # Commands
//
//   - render: run the layout to convergence and write SVG, PNG, JSON or DOT
//   - view: interactive terminal view with drag, zoom and pan
//   - serve: HTTP API with a live scene stream
//   - config: create and inspect the settings file
//   - cache: manage cached source documents
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to commands.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger with "HH:MM:SS.ms" timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// componentLogger tags every line from l with a component name, so the
// frame loop, source polling and HTTP access logs can be told apart.
func componentLogger(l *log.Logger, component string) *log.Logger {
	return l.WithPrefix(component)
}

// quietLogger discards everything. Full-screen views use it because log
// lines would tear the alternate screen.
func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

// progress logs completion of an operation with its elapsed time.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Rendered 3 file(s) (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached by the root command, or
// log.Default() when none is attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
