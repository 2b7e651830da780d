// Package cli implements the beamsplit command-line interface.
//
// Commands are built with cobra. Human output goes through the lipgloss
// helpers in ui.go, diagnostics through a charmbracelet/log logger that
// writes to stderr. The logger travels on the command context so helpers
// deep in a command can log without extra parameters.
//
// # Commands
//
//   - solve: count splits and paths for one or more grid files
//   - batch: solve many grids concurrently and print a table
//   - export: write the traversal graph with path counts as JSON
//   - pick: choose a grid file interactively and solve it
//   - serve: run the HTTP API
//   - cache: inspect or clear the result cache
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns a logger writing to w at level, with "15:04:05.00"
// timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs how long an operation took, e.g. "Solved 12 grids (1.234s)".
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type loggerKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the logger stored by withLogger, or log.Default.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
