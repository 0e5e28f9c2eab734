package crawl

import (
	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/doclocate/goquery"
)

// Fingerprint configuration for content deduplication.
const (
	// fingerprintExpectedPages sizes the Bloom filter of seen fingerprints.
	fingerprintExpectedPages = 10000
	// fingerprintFalsePositiveRate is the acceptable false positive rate.
	fingerprintFalsePositiveRate = 0.001
)

// Fingerprint hashes the rendered document with xxhash. Pages reached
// through different URLs that render identically share a fingerprint.
// This is a heuristic: collisions are possible and pages that differ only
// in incidental markup are not recognised as equal.
func Fingerprint(page *goquery.Page) (uint64, error) {
	html, err := page.HTML()
	if err != nil {
		return 0, err
	}
	return xxhash.Sum64String(html), nil
}
