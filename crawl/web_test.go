package crawl_test

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fwojciec/doclocate"
	"github.com/fwojciec/doclocate/crawl"
	dlhttp "github.com/fwojciec/doclocate/http"
	"github.com/fwojciec/doclocate/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// site serves a fixed set of HTML pages through a mock fetcher and records
// every request it receives.
type site struct {
	pages   map[string]string
	fetched []string
	headed  []string
}

func (s *site) fetcher() *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(_ context.Context, u string) (*doclocate.Resource, error) {
			s.fetched = append(s.fetched, u)
			body, ok := s.pages[u]
			if !ok {
				return nil, doclocate.Errorf(doclocate.ENOTFOUND, "not found: %s", u)
			}
			return &doclocate.Resource{URL: u, ContentType: "text/html; charset=utf-8", Body: []byte(body)}, nil
		},
		ContentTypeFn: func(_ context.Context, u string) (string, error) {
			s.headed = append(s.headed, u)
			if _, ok := s.pages[u]; ok {
				return "text/html; charset=utf-8", nil
			}
			return "application/octet-stream", nil
		},
	}
}

const formPage = `<html><body>
<h1>Form HA-4632</h1>
<a href="/forms">All forms</a>
<a href="ha-4632.pdf">Download PDF</a>
</body></html>`

func TestWebLocator_Locate(t *testing.T) {
	t.Parallel()

	t.Run("finds single pdf on form page", func(t *testing.T) {
		t.Parallel()

		// Given a form page linking to one PDF
		const target = "https://example.gov/forms/ha-4632.html"
		s := &site{pages: map[string]string{target: formPage}}
		l := crawl.NewWebLocator(target, doclocate.NewExtensionSet(".pdf"), s.fetcher())

		// When locating
		res, err := l.Locate(context.Background())

		// Then the PDF is the only location
		require.NoError(t, err)
		require.Len(t, res.Locations, 1)
		loc := res.Locations[0]
		assert.Equal(t, "https://example.gov/forms/ha-4632.pdf", loc.DocURL)
		assert.Equal(t, ".pdf", loc.DocExt)
		assert.Equal(t, target, loc.Source)
		assert.Equal(t, target, loc.Target)
		assert.Equal(t, []string{target}, res.Visited)
	})

	t.Run("finds nothing when filter does not match", func(t *testing.T) {
		t.Parallel()

		const target = "https://example.gov/forms/ha-4632.html"
		s := &site{pages: map[string]string{target: formPage}}
		l := crawl.NewWebLocator(target, doclocate.NewExtensionSet(".xls"), s.fetcher())

		res, err := l.Locate(context.Background())

		require.NoError(t, err)
		assert.Empty(t, res.Locations)
		assert.Equal(t, []string{target}, res.Visited)
	})

	t.Run("follows subpages depth first", func(t *testing.T) {
		t.Parallel()

		s := &site{pages: map[string]string{
			"https://example.gov/docs/index.html":          `<a href="/docs/index.html/a.html">a</a><a href="/docs/index.html/b.html">b</a>`,
			"https://example.gov/docs/index.html/a.html":   `<a href="/docs/index.html/a/c.html">c</a><a href="one.pdf">1</a>`,
			"https://example.gov/docs/index.html/a/c.html": `<a href="two.pdf">2</a>`,
			"https://example.gov/docs/index.html/b.html":   `<a href="three.pdf">3</a>`,
		}}
		l := crawl.NewWebLocator("https://example.gov/docs/index.html", doclocate.NewExtensionSet(".pdf"), s.fetcher())

		res, err := l.Locate(context.Background())

		require.NoError(t, err)
		assert.Equal(t, []string{
			"https://example.gov/docs/index.html",
			"https://example.gov/docs/index.html/a.html",
			"https://example.gov/docs/index.html/a/c.html",
			"https://example.gov/docs/index.html/b.html",
		}, res.Visited)
		var urls []string
		for _, loc := range res.Locations {
			urls = append(urls, loc.DocURL)
		}
		assert.Equal(t, []string{
			"https://example.gov/docs/index.html/one.pdf",
			"https://example.gov/docs/index.html/a/two.pdf",
			"https://example.gov/docs/index.html/three.pdf",
		}, urls)
	})

	t.Run("follows subpages breadth first", func(t *testing.T) {
		t.Parallel()

		s := &site{pages: map[string]string{
			"https://example.gov/docs/index.html":          `<a href="/docs/index.html/a.html">a</a><a href="/docs/index.html/b.html">b</a>`,
			"https://example.gov/docs/index.html/a.html":   `<a href="/docs/index.html/a/c.html">c</a>`,
			"https://example.gov/docs/index.html/a/c.html": `<p>c</p>`,
			"https://example.gov/docs/index.html/b.html":   `<p>b</p>`,
		}}
		l := crawl.NewWebLocator("https://example.gov/docs/index.html", doclocate.NewExtensionSet(".pdf"), s.fetcher())
		l.Order = crawl.BreadthFirst

		res, err := l.Locate(context.Background())

		require.NoError(t, err)
		assert.Equal(t, []string{
			"https://example.gov/docs/index.html",
			"https://example.gov/docs/index.html/a.html",
			"https://example.gov/docs/index.html/b.html",
			"https://example.gov/docs/index.html/a/c.html",
		}, res.Visited)
	})

	t.Run("never visits more than the limit", func(t *testing.T) {
		t.Parallel()

		// Given a directory landing page leading into an endless chain of
		// distinct pages
		const target = "https://example.gov/site/"
		pages := map[string]string{
			target: `<a href="/site/p0.html">start</a><a href="/site/p1.html">next</a>`,
		}
		for i := range 50 {
			pages[fmt.Sprintf("https://example.gov/site/p%d.html", i)] = fmt.Sprintf(
				`<h1>%d</h1><a href="/site/p%d.html">next</a><a href="/site/p%d.html">skip</a>`, i, i+1, i+2)
		}
		s := &site{pages: pages}
		l := crawl.NewWebLocator(target, doclocate.NewExtensionSet(".pdf"), s.fetcher())
		l.Policy.Limit = 5

		// When locating
		res, err := l.Locate(context.Background())

		// Then exactly the limit is visited and fetched
		require.NoError(t, err)
		require.Len(t, res.Visited, 5)
		assert.Equal(t, target, res.Visited[0])
		assert.Len(t, s.fetched, 5)
	})

	t.Run("skips links outside target", func(t *testing.T) {
		t.Parallel()

		s := &site{pages: map[string]string{
			"https://example.gov/site/index.html": `<a href="/other/page.html">other</a><a href="https://elsewhere.org/">away</a>`,
			"https://example.gov/other/page.html": `<a href="x.pdf">x</a>`,
		}}
		l := crawl.NewWebLocator("https://example.gov/site/index.html", doclocate.NewExtensionSet(".pdf"), s.fetcher())

		res, err := l.Locate(context.Background())

		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.gov/site/index.html"}, res.Visited)
		assert.Empty(t, res.Locations)
	})

	t.Run("treats http and https variants as subpages", func(t *testing.T) {
		t.Parallel()

		s := &site{pages: map[string]string{
			"https://example.gov/site/index.html":          `<a href="http://example.gov/site/index.html/more.html">more</a>`,
			"http://example.gov/site/index.html/more.html": `<a href="m.pdf">m</a>`,
		}}
		l := crawl.NewWebLocator("https://example.gov/site/index.html", doclocate.NewExtensionSet(".pdf"), s.fetcher())

		res, err := l.Locate(context.Background())

		require.NoError(t, err)
		assert.Len(t, res.Visited, 2)
		require.Len(t, res.Locations, 1)
		assert.Equal(t, "http://example.gov/site/index.html/m.pdf", res.Locations[0].DocURL)
	})

	t.Run("skips crawl loops without fetching", func(t *testing.T) {
		t.Parallel()

		const loop = "https://example.gov/site/index.html/a/a/a/page.html"
		s := &site{pages: map[string]string{
			"https://example.gov/site/index.html": `<a href="/site/index.html/a/a/a/page.html">loop</a>`,
			loop:                                  `<a href="x.pdf">x</a>`,
		}}
		l := crawl.NewWebLocator("https://example.gov/site/index.html", doclocate.NewExtensionSet(".pdf"), s.fetcher())

		res, err := l.Locate(context.Background())

		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.gov/site/index.html"}, res.Visited)
		assert.NotContains(t, s.fetched, loop)
	})

	t.Run("ignores pages with duplicate content", func(t *testing.T) {
		t.Parallel()

		// Given two mirror URLs rendering the same page
		mirror := `<a href="/site/index.html/report.pdf">report</a><a href="/site/index.html/b.html">b</a>`
		s := &site{pages: map[string]string{
			"https://example.gov/site/index.html":        `<a href="/site/index.html/a.html">a</a><a href="/site/index.html/b.html">b</a>`,
			"https://example.gov/site/index.html/a.html": mirror,
			"https://example.gov/site/index.html/b.html": mirror,
		}}
		var logs bytes.Buffer
		l := crawl.NewWebLocator("https://example.gov/site/index.html", doclocate.NewExtensionSet(".pdf"), s.fetcher())
		l.Logger = slog.New(slog.NewTextHandler(&logs, nil))

		// When locating
		res, err := l.Locate(context.Background())

		// Then both are visited but documents are collected once
		require.NoError(t, err)
		assert.Len(t, res.Visited, 3)
		require.Len(t, res.Locations, 1)
		assert.Equal(t, "https://example.gov/site/index.html/a.html", res.Locations[0].Source)
		assert.Regexp(t, `msg="completed locating" visited=3 located=1 distinct_pages=[12]\n`, logs.String())
	})

	t.Run("continues after fetch failure", func(t *testing.T) {
		t.Parallel()

		s := &site{pages: map[string]string{
			"https://example.gov/site/index.html":         `<a href="/site/index.html/gone.html">gone</a><a href="/site/index.html/ok.html">ok</a>`,
			"https://example.gov/site/index.html/ok.html": `<a href="ok.pdf">ok</a>`,
		}}
		l := crawl.NewWebLocator("https://example.gov/site/index.html", doclocate.NewExtensionSet(".pdf"), s.fetcher())

		res, err := l.Locate(context.Background())

		require.NoError(t, err)
		assert.Len(t, res.Visited, 3)
		require.Len(t, res.Locations, 1)
		assert.Equal(t, "https://example.gov/site/index.html/ok.pdf", res.Locations[0].DocURL)
	})

	t.Run("does not fetch documents as pages", func(t *testing.T) {
		t.Parallel()

		s := &site{pages: map[string]string{
			"https://example.gov/site/index.html": `<a href="/site/index.html/r.pdf">r</a><a href="/site/index.html/disk.iso">iso</a>`,
		}}
		l := crawl.NewWebLocator("https://example.gov/site/index.html", doclocate.NewExtensionSet(".pdf"), s.fetcher())

		res, err := l.Locate(context.Background())

		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.gov/site/index.html"}, s.fetched)
		assert.Empty(t, s.headed)
		assert.Len(t, res.Locations, 1)
	})

	t.Run("returns context error when canceled", func(t *testing.T) {
		t.Parallel()

		s := &site{pages: map[string]string{"https://example.gov/index.html": formPage}}
		l := crawl.NewWebLocator("https://example.gov/index.html", doclocate.NewExtensionSet(".pdf"), s.fetcher())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := l.Locate(ctx)

		require.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, s.fetched)
	})

	t.Run("crawls a live server", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/portal", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = fmt.Fprint(w, `<a href="forms">forms</a><a href="files/a.XLSX">a</a>`)
		})
		mux.HandleFunc("/portal/forms", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = fmt.Fprint(w, `<a href="b.xlsx?v=2">b</a>`)
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		fetcher := dlhttp.NewFetcher()
		defer fetcher.Close()
		l := crawl.NewWebLocator(server.URL+"/portal", doclocate.NewExtensionSet(".xlsx"), fetcher)

		res, err := l.Locate(context.Background())

		require.NoError(t, err)
		assert.Equal(t, []string{server.URL + "/portal", server.URL + "/portal/forms"}, res.Visited)
		var urls []string
		for _, loc := range res.Locations {
			urls = append(urls, loc.DocURL)
		}
		assert.Equal(t, []string{
			server.URL + "/portal/files/a.XLSX",
			server.URL + "/portal/forms/b.xlsx?v=2",
		}, urls)
	})
}

func TestWebLocator_IsVisitable(t *testing.T) {
	t.Parallel()

	headFails := func(t *testing.T) *mock.Fetcher {
		return &mock.Fetcher{
			ContentTypeFn: func(_ context.Context, u string) (string, error) {
				t.Errorf("unexpected HEAD of %s", u)
				return "", nil
			},
		}
	}

	t.Run("page-like extensions need no HEAD request", func(t *testing.T) {
		t.Parallel()

		l := crawl.NewWebLocator("https://example.gov", doclocate.NewExtensionSet(".pdf"), headFails(t))

		assert.True(t, l.IsVisitable(context.Background(), "https://example.gov"))
		assert.True(t, l.IsVisitable(context.Background(), "https://example.gov/a/Page.ASPX"))
		assert.True(t, l.IsVisitable(context.Background(), "https://example.gov/index.php?id=2"))
	})

	t.Run("binary extensions are never visited", func(t *testing.T) {
		t.Parallel()

		l := crawl.NewWebLocator("https://example.gov", doclocate.NewExtensionSet(".pdf"), headFails(t))

		assert.False(t, l.IsVisitable(context.Background(), "https://example.gov/disk.iso"))
		assert.False(t, l.IsVisitable(context.Background(), "https://example.gov/setup.EXE"))
		assert.False(t, l.IsVisitable(context.Background(), "https://example.gov/r.xlsx"))
	})

	t.Run("crawl loops are never visited", func(t *testing.T) {
		t.Parallel()

		l := crawl.NewWebLocator("https://example.gov", doclocate.NewExtensionSet(".pdf"), headFails(t))

		assert.False(t, l.IsVisitable(context.Background(), "https://example.gov/home/home/home/index.html"))
	})

	t.Run("ambiguous URLs are checked with HEAD", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/page" {
				w.Header().Set("Content-Type", "text/html; charset=utf-8")
				return
			}
			w.Header().Set("Content-Type", "application/octet-stream")
		}))
		defer server.Close()

		fetcher := dlhttp.NewFetcher()
		defer fetcher.Close()
		l := crawl.NewWebLocator(server.URL, doclocate.NewExtensionSet(".pdf"), fetcher)

		assert.True(t, l.IsVisitable(context.Background(), server.URL+"/page"))
		assert.False(t, l.IsVisitable(context.Background(), server.URL+"/download"))
		assert.False(t, l.IsVisitable(context.Background(), server.URL+"/v1.2"))
	})

	t.Run("failed HEAD is not visitable", func(t *testing.T) {
		t.Parallel()

		f := &mock.Fetcher{
			ContentTypeFn: func(context.Context, string) (string, error) {
				return "", doclocate.Errorf(doclocate.EUNAVAILABLE, "connection refused")
			},
		}
		l := crawl.NewWebLocator("https://example.gov", doclocate.NewExtensionSet(".pdf"), f)

		assert.False(t, l.IsVisitable(context.Background(), "https://example.gov/download"))
	})

	t.Run("zero limit allows nothing", func(t *testing.T) {
		t.Parallel()

		l := crawl.NewWebLocator("https://example.gov", doclocate.NewExtensionSet(".pdf"), headFails(t))
		l.Policy.Limit = 0

		assert.False(t, l.IsVisitable(context.Background(), "https://example.gov/index.html"))
	})
}
