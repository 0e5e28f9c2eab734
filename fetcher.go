package doclocate

import (
	"context"
	"net/url"
)

// Resource is the body of a fetched URL.
type Resource struct {
	URL         string
	ContentType string
	Body        []byte
}

// Fetcher performs the blocking network calls used by locators and the
// download pipeline. Responses outside the 2xx range are returned as errors:
// ENOTFOUND for 404, EINVALID for other 4xx and EUNAVAILABLE for server and
// transport failures.
type Fetcher interface {
	// Fetch issues a GET request and returns the response body.
	Fetch(ctx context.Context, url string) (*Resource, error)

	// ContentType issues a HEAD request and returns the reported content type.
	ContentType(ctx context.Context, url string) (string, error)

	// Post submits form as an urlencoded POST body with the extra headers.
	Post(ctx context.Context, url string, form url.Values, header map[string]string) (*Resource, error)

	// Close releases resources held by the fetcher.
	Close() error
}
