package crawl

import (
	"net/url"
	"path"
	"strings"

	"github.com/fwojciec/doclocate"
)

// DefaultVisitLimit is the maximum number of pages a WebLocator fetches.
const DefaultVisitLimit = 250

// VisitPolicy decides which URLs a WebLocator may fetch as pages.
// It is independent of the document filter: a URL can be collectible as a
// document and still never be visited as a page.
type VisitPolicy struct {
	// Limit caps the number of visited pages.
	Limit int

	// LoopThreshold is passed to doclocate.IsCrawlLoop.
	LoopThreshold int

	// PageExtensions are treated as HTML without a network round trip.
	PageExtensions doclocate.ExtensionSet

	// BinaryExtensions are never fetched as pages.
	BinaryExtensions doclocate.ExtensionSet
}

// DefaultVisitPolicy returns the default limits and tables. Every extension
// in the doctype table is treated as binary.
func DefaultVisitPolicy(doctypes doclocate.DoctypeTable) VisitPolicy {
	binary := append([]string{".iso", ".exe", ".dmg"}, doctypes.AllExtensions()...)
	return VisitPolicy{
		Limit:         DefaultVisitLimit,
		LoopThreshold: doclocate.DefaultLoopThreshold,
		PageExtensions: doclocate.NewExtensionSet(
			".com", ".net", ".org", ".gov",
			".html", ".htm", ".php", ".asp", ".aspx",
		),
		BinaryExtensions: doclocate.NewExtensionSet(binary...),
	}
}

// verdict is the outcome of classifying a URL by its extension alone.
type verdict int

const (
	verdictHead verdict = iota
	verdictPage
	verdictBinary
)

func (p VisitPolicy) classify(rawURL string) verdict {
	ext := apparentExtension(rawURL)
	switch {
	case p.PageExtensions.Contains(ext):
		return verdictPage
	case p.BinaryExtensions.Contains(ext):
		return verdictBinary
	}
	return verdictHead
}

// apparentExtension returns the lowercase extension of the last segment of
// host and path, so a bare "https://example.gov" yields ".gov".
func apparentExtension(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return strings.ToLower(path.Ext(rawURL))
	}
	return strings.ToLower(path.Ext(u.Host + u.Path))
}
