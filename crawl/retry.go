package crawl

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/fwojciec/doclocate"
)

// RetryDelays returns n backoff delays doubling from 1s: 1s, 2s, 4s, ...
func RetryDelays(n int) []time.Duration {
	delays := make([]time.Duration, 0, max(n, 0))
	d := time.Second
	for range n {
		delays = append(delays, d)
		d *= 2
	}
	return delays
}

// RetryFunc is called before each retry attempt.
type RetryFunc func(url string, attempt int, err error)

// WithRetry calls fn until it succeeds, returns a non-transient error, or
// the delays are exhausted. Only EUNAVAILABLE errors are retried; not found
// and invalid responses fail immediately. onRetry may be nil.
func WithRetry[T any](ctx context.Context, url string, fn func(context.Context) (T, error), onRetry RetryFunc, delays []time.Duration) (T, error) {
	var zero T
	maxAttempts := len(delays) + 1 // 1 initial + N retries

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err

		if doclocate.ErrorCode(err) != doclocate.EUNAVAILABLE {
			break
		}

		// Don't retry after the last attempt
		if attempt >= maxAttempts-1 {
			break
		}

		// Check context before sleeping
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		default:
		}

		if onRetry != nil {
			onRetry(url, attempt+2, err)
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return zero, lastErr
}

// Ensure RetryFetcher implements doclocate.Fetcher at compile time.
var _ doclocate.Fetcher = (*RetryFetcher)(nil)

// RetryFetcher wraps a Fetcher with bounded retry of transient failures.
type RetryFetcher struct {
	next    doclocate.Fetcher
	delays  []time.Duration
	onRetry RetryFunc
}

// NewRetryFetcher creates a RetryFetcher. Retry attempts are logged at warn
// level when logger is not nil.
func NewRetryFetcher(next doclocate.Fetcher, delays []time.Duration, logger *slog.Logger) *RetryFetcher {
	f := &RetryFetcher{next: next, delays: delays}
	if logger != nil {
		f.onRetry = func(url string, attempt int, err error) {
			logger.Warn("retry", "url", url, "attempt", attempt, "err", err)
		}
	}
	return f
}

// Fetch retries the wrapped Fetch.
func (f *RetryFetcher) Fetch(ctx context.Context, rawURL string) (*doclocate.Resource, error) {
	return WithRetry(ctx, rawURL, func(ctx context.Context) (*doclocate.Resource, error) {
		return f.next.Fetch(ctx, rawURL)
	}, f.onRetry, f.delays)
}

// ContentType retries the wrapped ContentType.
func (f *RetryFetcher) ContentType(ctx context.Context, rawURL string) (string, error) {
	return WithRetry(ctx, rawURL, func(ctx context.Context) (string, error) {
		return f.next.ContentType(ctx, rawURL)
	}, f.onRetry, f.delays)
}

// Post retries the wrapped Post.
func (f *RetryFetcher) Post(ctx context.Context, rawURL string, form url.Values, header map[string]string) (*doclocate.Resource, error) {
	return WithRetry(ctx, rawURL, func(ctx context.Context) (*doclocate.Resource, error) {
		return f.next.Post(ctx, rawURL, form, header)
	}, f.onRetry, f.delays)
}

// Close closes the wrapped fetcher.
func (f *RetryFetcher) Close() error {
	return f.next.Close()
}
