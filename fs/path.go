// Package fs provides file-backed locators, location-file storage and the
// document download pipeline.
package fs

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/fwojciec/doclocate"
)

// unsafeSegment replaces path segments that sanitize to nothing or to a
// directory reference.
const unsafeSegment = "_"

// invalidFilenameChars are rejected in file names by at least one common
// filesystem. Control characters are rejected as well.
const invalidFilenameChars = `/\:*?"<>|`

// SanitizeFilename replaces every character of name that is not allowed in
// a file name with replacement. Everything else, including dots,
// underscores, letter case and non-ASCII letters, is kept as is.
func SanitizeFilename(name, replacement string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if r < 0x20 || r == 0x7f || strings.ContainsRune(invalidFilenameChars, r) {
			b.WriteString(replacement)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// LocationPath returns the file path under baseDir where the document of
// loc is stored: <baseDir>/<scheme>___<host>/<path segments>. Each segment
// is sanitized for the filesystem and a query string is folded into the
// last segment. DocExt is appended unless the path already ends with it in
// any case, so ".../ds1664.PDF" is kept while ".../ds1664" gains ".pdf".
func LocationPath(baseDir string, loc *doclocate.Location) (string, error) {
	u, err := url.Parse(loc.DocURL)
	if err != nil {
		return "", doclocate.Errorf(doclocate.EINVALID, "invalid document URL %q: %v", loc.DocURL, err)
	}
	if u.Host == "" {
		return "", doclocate.Errorf(doclocate.EINVALID, "document URL %q has no host", loc.DocURL)
	}

	parts := []string{safeSegment(u.Scheme) + "___" + safeSegment(u.Host)}
	for _, seg := range strings.Split(u.Path, "/") {
		if seg == "" {
			continue
		}
		parts = append(parts, safeSegment(seg))
	}
	if u.RawQuery != "" {
		last := len(parts) - 1
		parts[last] = safeSegment(parts[last] + "-" + u.RawQuery)
	}

	rel := filepath.Join(parts...)
	if ext := loc.DocExt; ext != "" && !strings.HasSuffix(strings.ToLower(rel), strings.ToLower(ext)) {
		rel += ext
	}
	return filepath.Join(baseDir, rel), nil
}

func safeSegment(s string) string {
	s = SanitizeFilename(s, unsafeSegment)
	if s == "" || s == "." || s == ".." {
		return unsafeSegment
	}
	return s
}
