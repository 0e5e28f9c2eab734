// Package goquery extracts anchors, document links and document center tree
// nodes from HTML pages using github.com/PuerkitoBio/goquery.
package goquery

import (
	"bytes"
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/doclocate"
	"golang.org/x/net/html/charset"
)

// Page is a parsed HTML page.
type Page struct {
	URL string
	doc *goquery.Document
}

// DocumentLink is a link to a document whose path extension matched the filter.
type DocumentLink struct {
	URL string
	Ext string
}

// TreeNode is a top-level folder listed on a document center landing page.
type TreeNode struct {
	Label string
	ID    string
}

// ParsePage parses res as HTML. The body is decoded to UTF-8 using the
// charset from the Content-Type header or the document's meta tags.
func ParsePage(res *doclocate.Resource) (*Page, error) {
	r, err := charset.NewReader(bytes.NewReader(res.Body), res.ContentType)
	if err != nil {
		return nil, doclocate.Errorf(doclocate.EINVALID, "failed to decode %s: %v", res.URL, err)
	}

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, doclocate.Errorf(doclocate.EINVALID, "failed to parse HTML: %v", err)
	}
	return &Page{URL: res.URL, doc: doc}, nil
}

// HTML renders the parsed document back to HTML.
func (p *Page) HTML() (string, error) {
	return p.doc.Html()
}

// Anchors returns the absolute URL of every anchor on the page in document
// order. Fragments are removed and non-HTTP links (javascript:, mailto:,
// tel:, data:) are skipped.
func (p *Page) Anchors() []string {
	var links []string
	p.doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if href == "" || isNonHTTPLink(href) {
			return
		}

		resolved := doclocate.ResolveURL(p.URL, href)
		if i := strings.IndexByte(resolved, '#'); i >= 0 {
			resolved = resolved[:i]
		}
		if resolved == "" {
			return
		}
		links = append(links, resolved)
	})
	return links
}

// DocumentLinks returns links to documents with one of the given extensions.
// An anchor is a candidate when its href contains an extension in any case;
// it is kept only when the path of the resolved URL ends with that extension.
// Each URL is reported once per page, in document order.
func (p *Page) DocumentLinks(exts doclocate.ExtensionSet) []DocumentLink {
	seen := make(map[string]struct{})
	var links []DocumentLink

	p.doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if !containsAny(strings.ToLower(href), exts) {
			return
		}

		resolved := doclocate.ResolveURL(p.URL, href)
		if resolved == "" {
			return
		}
		u, err := url.Parse(resolved)
		if err != nil {
			return
		}

		ext := strings.ToLower(path.Ext(u.Path))
		if !exts.Contains(ext) {
			return
		}
		if _, ok := seen[resolved]; ok {
			return
		}
		seen[resolved] = struct{}{}
		links = append(links, DocumentLink{URL: resolved, Ext: ext})
	})
	return links
}

// TreeNodes returns the folders of a document center tree view. Each node is
// a div.t-mid holding its label in span.t-in and its id in input.t-input.
// Nodes without an id are skipped.
func (p *Page) TreeNodes() []TreeNode {
	var nodes []TreeNode
	p.doc.Find("div.t-mid").Each(func(_ int, sel *goquery.Selection) {
		id, ok := sel.Find("input.t-input").First().Attr("value")
		if !ok {
			return
		}
		nodes = append(nodes, TreeNode{
			Label: strings.TrimSpace(sel.Find("span.t-in").First().Text()),
			ID:    id,
		})
	})
	return nodes
}

func containsAny(s string, exts doclocate.ExtensionSet) bool {
	for _, ext := range exts {
		if strings.Contains(s, ext) {
			return true
		}
	}
	return false
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}
