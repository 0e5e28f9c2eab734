package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/doclocate"
)

// Ensure LoggingLocator implements doclocate.Locator.
var _ doclocate.Locator = (*LoggingLocator)(nil)

// LoggingLocator wraps a Locator and logs a summary of each run.
type LoggingLocator struct {
	next   doclocate.Locator
	logger *slog.Logger
}

// NewLoggingLocator creates a new LoggingLocator.
func NewLoggingLocator(next doclocate.Locator, logger *slog.Logger) *LoggingLocator {
	return &LoggingLocator{next: next, logger: logger}
}

// Locate delegates to the wrapped locator and logs the outcome.
func (l *LoggingLocator) Locate(ctx context.Context) (res *doclocate.Result, err error) {
	defer func(begin time.Time) {
		attrs := []any{"duration", time.Since(begin)}
		if res != nil {
			attrs = append(attrs,
				"target", res.Target,
				"extensions", res.Extensions.String(),
				"visited", len(res.Visited),
				"located", len(res.Locations),
			)
		}
		if err != nil {
			l.logger.Error("locate failed", append(attrs, "err", err)...)
			return
		}
		l.logger.Info("locate", attrs...)
	}(time.Now())
	return l.next.Locate(ctx)
}
