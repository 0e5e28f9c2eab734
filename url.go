package doclocate

import (
	"net/url"
	"path"
	"strings"
)

// DefaultLoopThreshold is the repeat threshold used by IsCrawlLoop callers
// that have no specific requirement.
const DefaultLoopThreshold = 3

// ResolveURL resolves ref against base and returns an absolute URL string.
//
// A ref with a scheme or host is already absolute and is returned as given
// (a host without scheme inherits the scheme of base). A relative ref is
// resolved in one of four ways:
//
//   - an empty path returns base with trailing slashes removed
//   - a path starting with "/" replaces the path of base
//   - when the last segment of base has a file extension, ref replaces it
//   - otherwise base is a directory and ref is appended to it; dot segments
//     and duplicate slashes are cleaned and a trailing slash on ref is kept
//
// The query of a relative ref is kept, its fragment is dropped. Returns ""
// when either argument cannot be parsed.
func ResolveURL(base, ref string) string {
	ref = strings.TrimSpace(ref)
	base = strings.TrimSpace(base)

	r, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	b, err := url.Parse(base)
	if err != nil {
		return ""
	}

	if r.Scheme != "" {
		return ref
	}
	if r.Host != "" {
		return b.Scheme + ":" + ref
	}

	if r.Path == "" {
		return strings.TrimRight(base, "/")
	}

	origin := (&url.URL{Scheme: b.Scheme, User: b.User, Host: b.Host}).String()
	refPath := r.EscapedPath()
	query := ""
	if r.RawQuery != "" {
		query = "?" + r.RawQuery
	}

	// Root-relative.
	if strings.HasPrefix(refPath, "/") {
		return strings.TrimRight(origin+refPath, "/") + query
	}

	// Sibling of a file-like base.
	if path.Ext(b.Path) != "" {
		baseOnly := &url.URL{Path: b.Path, RawPath: b.RawPath}
		refOnly := &url.URL{Path: r.Path, RawPath: r.RawPath}
		joined := baseOnly.ResolveReference(refOnly).EscapedPath()
		return strings.TrimRight(origin+joined, "/") + query
	}

	// Child of a directory-like base.
	joined := path.Clean(b.EscapedPath() + "/" + refPath)
	if strings.HasSuffix(refPath, "/") && !strings.HasSuffix(joined, "/") {
		joined += "/"
	}
	return origin + joined + query
}

// RemoveScheme reduces rawURL to its host and path so that http and https
// variants of the same page compare equal.
func RemoveScheme(rawURL string) string {
	s, _ := removeScheme(rawURL)
	return s
}

func removeScheme(rawURL string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", false
	}
	return u.Host + u.Path, true
}

// IsSubpage reports whether pageURL lies under baseURL, ignoring scheme.
func IsSubpage(baseURL, pageURL string) bool {
	base, ok := removeScheme(baseURL)
	if !ok {
		return false
	}
	page, ok := removeScheme(pageURL)
	if !ok {
		return false
	}
	return strings.HasPrefix(page, base)
}

// IsCrawlLoop reports whether the path of rawURL repeats the same segment
// contiguously threshold-1 times, the signature of sites that generate
// ever-deeper self-referential links. Repeats interrupted by another
// segment reset the count.
func IsCrawlLoop(rawURL string, threshold int) bool {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	} else if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}

	repeats := 0
	prev := ""
	for _, seg := range strings.Split(p, "/") {
		if seg == "" {
			continue
		}
		if seg == prev {
			repeats++
			if repeats >= threshold-1 {
				return true
			}
		} else {
			repeats = 0
		}
		prev = seg
	}
	return false
}
