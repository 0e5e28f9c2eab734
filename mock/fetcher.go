package mock

import (
	"context"
	"net/url"

	"github.com/fwojciec/doclocate"
)

var _ doclocate.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of doclocate.Fetcher.
type Fetcher struct {
	FetchFn       func(ctx context.Context, url string) (*doclocate.Resource, error)
	ContentTypeFn func(ctx context.Context, url string) (string, error)
	PostFn        func(ctx context.Context, url string, form url.Values, header map[string]string) (*doclocate.Resource, error)
	CloseFn       func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*doclocate.Resource, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) ContentType(ctx context.Context, url string) (string, error) {
	return f.ContentTypeFn(ctx, url)
}

func (f *Fetcher) Post(ctx context.Context, url string, form url.Values, header map[string]string) (*doclocate.Resource, error) {
	return f.PostFn(ctx, url, form, header)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}
