// Package crawl implements the network-backed locators: a bounded generic
// web crawler and a document center portal walker.
package crawl

import (
	"context"
	"log/slog"
	"strings"

	"github.com/fwojciec/doclocate"
	"github.com/fwojciec/doclocate/bloom"
	"github.com/fwojciec/doclocate/goquery"
)

// Ensure WebLocator implements doclocate.Locator at compile time.
var _ doclocate.Locator = (*WebLocator)(nil)

// WebLocator crawls pages under Target and collects links to documents
// matching Extensions. Outgoing links are followed only when they lie
// under Target (ignoring scheme) and pass the VisitPolicy.
type WebLocator struct {
	Target     string
	Extensions doclocate.ExtensionSet
	Fetcher    doclocate.Fetcher
	Policy     VisitPolicy
	Order      Order
	Logger     *slog.Logger
}

// NewWebLocator creates a WebLocator with the default visit policy,
// depth-first order and no logging.
func NewWebLocator(target string, exts doclocate.ExtensionSet, fetcher doclocate.Fetcher) *WebLocator {
	return &WebLocator{
		Target:     target,
		Extensions: exts,
		Fetcher:    fetcher,
		Policy:     DefaultVisitPolicy(doclocate.DefaultDoctypes()),
		Order:      DepthFirst,
	}
}

// Locate crawls from Target until the frontier is empty or the visit limit
// is reached. Fetch and parse failures are logged and end only their own
// branch. Returns the context error if ctx is canceled.
func (l *WebLocator) Locate(ctx context.Context) (*doclocate.Result, error) {
	c := &webCrawl{
		WebLocator: l,
		logger:     loggerOrDiscard(l.Logger),
		visited:    make(map[string]struct{}),
		skipped:    make(map[string]struct{}),
		seen:       bloom.NewFilter(fingerprintExpectedPages, fingerprintFalsePositiveRate),
		result: &doclocate.Result{
			Target:     l.Target,
			Extensions: l.Extensions,
		},
	}
	c.logger.Info("starting locator", "target", l.Target, "extensions", l.Extensions.String())

	frontier := NewFrontier[string](l.Order)
	frontier.Push(l.Target)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pageURL, ok := frontier.Pop()
		if !ok {
			break
		}
		if c.isVisited(pageURL) {
			continue
		}
		// Safety limit to prevent runaway crawls
		if len(c.result.Visited) >= l.Policy.Limit {
			c.logger.Info("visit limit reached", "limit", l.Policy.Limit, "pending", frontier.Len()+1)
			break
		}

		var next []string
		for _, link := range c.visit(ctx, pageURL) {
			if !c.isVisited(link) && doclocate.IsSubpage(l.Target, link) {
				next = append(next, link)
			}
		}
		frontier.Push(next...)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.logger.Info("completed locating",
		"visited", len(c.result.Visited),
		"located", len(c.result.Locations),
		"distinct_pages", c.seen.EstimatedCount(),
	)
	return c.result, nil
}

// IsVisitable reports whether rawURL would be fetched as a page by a fresh
// crawl: it is not a crawl loop, and its extension is page-like, or it is
// neither page-like nor binary and a HEAD request reports HTML.
func (l *WebLocator) IsVisitable(ctx context.Context, rawURL string) bool {
	c := &webCrawl{
		WebLocator: l,
		logger:     loggerOrDiscard(l.Logger),
		visited:    make(map[string]struct{}),
		skipped:    make(map[string]struct{}),
		result:     &doclocate.Result{},
	}
	return c.isVisitable(ctx, rawURL)
}

// webCrawl holds the state of a single Locate call.
type webCrawl struct {
	*WebLocator
	logger  *slog.Logger
	visited map[string]struct{}
	skipped map[string]struct{}
	seen    *bloom.Filter
	result  *doclocate.Result
}

func (c *webCrawl) isVisited(u string) bool {
	_, ok := c.visited[u]
	return ok
}

func (c *webCrawl) isVisitable(ctx context.Context, u string) bool {
	if len(c.result.Visited) >= c.Policy.Limit {
		return false
	}
	if _, ok := c.skipped[u]; ok {
		return false
	}
	if doclocate.IsCrawlLoop(u, c.Policy.LoopThreshold) {
		return false
	}

	switch c.Policy.classify(u) {
	case verdictPage:
		return true
	case verdictBinary:
		return false
	}

	contentType, err := c.Fetcher.ContentType(ctx, u)
	if err != nil {
		c.logger.Warn("could not check content type of URL", "url", u, "err", err)
		return false
	}
	return strings.Contains(contentType, "text/html")
}

// visit processes one page and returns its outgoing links.
func (c *webCrawl) visit(ctx context.Context, u string) []string {
	if !c.isVisitable(ctx, u) {
		c.skipped[u] = struct{}{}
		c.logger.Debug("skipping visit", "url", u)
		return nil
	}

	c.visited[u] = struct{}{}
	c.result.Visited = append(c.result.Visited, u)
	c.logger.Info("visiting page",
		"page", len(c.result.Visited),
		"limit", c.Policy.Limit,
		"url", u,
	)

	res, err := c.Fetcher.Fetch(ctx, u)
	if err != nil {
		c.logger.Error("could not visit URL", "url", u, "err", err)
		return nil
	}
	page, err := goquery.ParsePage(res)
	if err != nil {
		c.logger.Error("could not parse page", "url", u, "err", err)
		return nil
	}

	fp, err := Fingerprint(page)
	if err != nil {
		c.logger.Error("could not fingerprint page", "url", u, "err", err)
		return nil
	}
	if c.seen.TestAndAdd(fp) {
		c.logger.Debug("duplicate content", "url", u)
		return nil
	}

	for _, link := range page.DocumentLinks(c.Extensions) {
		c.result.Locations = append(c.result.Locations, doclocate.NewLocation(c.Target, u, link.URL, link.Ext))
	}
	c.logger.Info("current total found doc locations", "located", len(c.result.Locations))

	return page.Anchors()
}

func loggerOrDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return logger
}
