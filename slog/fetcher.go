// Package slog provides log/slog decorators for doclocate services.
package slog

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/fwojciec/doclocate"
)

// Ensure LoggingFetcher implements doclocate.Fetcher.
var _ doclocate.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with debug logging of every request.
type LoggingFetcher struct {
	next   doclocate.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next doclocate.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the request.
func (f *LoggingFetcher) Fetch(ctx context.Context, rawURL string) (res *doclocate.Resource, err error) {
	defer func(begin time.Time) {
		f.logger.Debug("fetch",
			"url", rawURL,
			"bytes", resourceSize(res),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, rawURL)
}

// ContentType delegates to the wrapped fetcher and logs the HEAD request.
func (f *LoggingFetcher) ContentType(ctx context.Context, rawURL string) (contentType string, err error) {
	defer func(begin time.Time) {
		f.logger.Debug("content type",
			"url", rawURL,
			"content_type", contentType,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.ContentType(ctx, rawURL)
}

// Post delegates to the wrapped fetcher and logs the request.
func (f *LoggingFetcher) Post(ctx context.Context, rawURL string, form url.Values, header map[string]string) (res *doclocate.Resource, err error) {
	defer func(begin time.Time) {
		f.logger.Debug("post",
			"url", rawURL,
			"form", form.Encode(),
			"bytes", resourceSize(res),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Post(ctx, rawURL, form, header)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}

func resourceSize(res *doclocate.Resource) int {
	if res == nil {
		return 0
	}
	return len(res.Body)
}
