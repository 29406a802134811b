// Package notify carries short user-facing messages out of the core. The
// presentation layer decides how to surface them; the core only guarantees
// every mutation outcome produces one.
package notify

import "log/slog"

type Notifier interface {
	Success(msg string)
	Error(msg, detail string)
}

const genericDetail = "Something went wrong"

// Log surfaces notifications through the structured logger. Used when no
// presentation layer is attached.
type Log struct {
	log *slog.Logger
}

var _ Notifier = (*Log)(nil)

func NewLog(log *slog.Logger) *Log {
	return &Log{log: log}
}

func (l *Log) Success(msg string) {
	l.log.Info("notify", slog.String("msg", msg))
}

func (l *Log) Error(msg, detail string) {
	if detail == "" {
		detail = genericDetail
	}
	l.log.Error("notify", slog.String("msg", msg), slog.String("detail", detail))
}

// Noop drops every notification. For tests that only care about state.
type Noop struct{}

var _ Notifier = Noop{}

func (Noop) Success(string)       {}
func (Noop) Error(string, string) {}
