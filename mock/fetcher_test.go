package mock_test

import (
	"context"
	"net/url"
	"testing"

	"github.com/fwojciec/doclocate"
	"github.com/fwojciec/doclocate/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher_Post(t *testing.T) {
	t.Parallel()

	t.Run("delegates to PostFn", func(t *testing.T) {
		t.Parallel()

		var gotForm url.Values
		f := &mock.Fetcher{
			PostFn: func(_ context.Context, u string, form url.Values, _ map[string]string) (*doclocate.Resource, error) {
				gotForm = form
				return &doclocate.Resource{URL: u, Body: []byte("[]")}, nil
			},
		}

		res, err := f.Post(context.Background(), "https://example.com/x", url.Values{"id": {"7"}}, nil)

		require.NoError(t, err)
		assert.Equal(t, "https://example.com/x", res.URL)
		assert.Equal(t, "7", gotForm.Get("id"))
	})
}
