// Package http provides a net/http implementation of doclocate.Fetcher.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/doclocate"
)

// DefaultFetchTimeout is the default timeout for a single request,
// including reading the body.
const DefaultFetchTimeout = 30 * time.Second

// DefaultUserAgent is sent with every request unless overridden.
const DefaultUserAgent = "doclocate/1.0 (+https://github.com/fwojciec/doclocate)"

// Ensure Fetcher implements doclocate.Fetcher at compile time.
var _ doclocate.Fetcher = (*Fetcher)(nil)

// Fetcher performs GET, HEAD and form POST requests over HTTP.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for each request.
// Defaults to DefaultFetchTimeout if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:   DefaultFetchTimeout,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the body of the given URL.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*doclocate.Resource, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, doclocate.Errorf(doclocate.EINVALID, "invalid request for %s: %v", rawURL, err)
	}
	return f.do(req)
}

// ContentType sends a HEAD request, following redirects, and returns the
// Content-Type header of the final response.
func (f *Fetcher) ContentType(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return "", doclocate.Errorf(doclocate.EINVALID, "invalid request for %s: %v", rawURL, err)
	}
	f.setHeaders(req)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", transportError(ctx, rawURL, err)
	}
	defer resp.Body.Close()

	if err := statusError(resp, rawURL); err != nil {
		return "", err
	}
	return resp.Header.Get("Content-Type"), nil
}

// Post submits form urlencoded with the extra headers and returns the body.
func (f *Fetcher) Post(ctx context.Context, rawURL string, form url.Values, header map[string]string) (*doclocate.Resource, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, doclocate.Errorf(doclocate.EINVALID, "invalid request for %s: %v", rawURL, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	return f.do(req)
}

func (f *Fetcher) do(req *http.Request) (*doclocate.Resource, error) {
	f.setHeaders(req)
	rawURL := req.URL.String()

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, transportError(req.Context(), rawURL, err)
	}
	defer resp.Body.Close()

	if err := statusError(resp, rawURL); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(req.Context(), rawURL, err)
	}

	return &doclocate.Resource{
		URL:         rawURL,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

func (f *Fetcher) setHeaders(req *http.Request) {
	if f.userAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
}

// Close releases resources. For HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}

// statusError maps non-2xx responses to application error codes.
func statusError(resp *http.Response, rawURL string) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return doclocate.Errorf(doclocate.ENOTFOUND, "page not found: %s", rawURL)
	case resp.StatusCode >= 500:
		return doclocate.Errorf(doclocate.EUNAVAILABLE, "HTTP %d for %s", resp.StatusCode, rawURL)
	default:
		return doclocate.Errorf(doclocate.EINVALID, "bad response HTTP %d for %s", resp.StatusCode, rawURL)
	}
}

// transportError wraps a network failure. Context errors are returned
// unchanged so callers can recognise cancellation.
func transportError(ctx context.Context, rawURL string, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return fmt.Errorf("%w: %v", doclocate.Errorf(doclocate.EUNAVAILABLE, "could not retrieve %s", rawURL), err)
}
