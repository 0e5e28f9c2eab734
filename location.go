package doclocate

import "strings"

// Location is one discovered document reference.
// A Location is never modified after it is appended to a Result.
type Location struct {
	Target string            `json:"target"`
	Source string            `json:"source"`
	DocURL string            `json:"docurl"`
	DocExt string            `json:"docext"`
	Extra  map[string]string `json:"extra"`
}

// NewLocation returns a Location with an empty Extra map.
func NewLocation(target, source, docURL, docExt string) *Location {
	return &Location{
		Target: target,
		Source: source,
		DocURL: docURL,
		DocExt: docExt,
		Extra:  map[string]string{},
	}
}

// Validate returns an error if the location contains invalid fields.
func (l *Location) Validate() error {
	if l.DocURL == "" {
		return Errorf(EINVALID, "location document URL required")
	}
	if l.DocExt == "" || !strings.HasPrefix(l.DocExt, ".") || l.DocExt != strings.ToLower(l.DocExt) {
		return Errorf(EINVALID, "location extension %q must be lowercase and dot-prefixed", l.DocExt)
	}
	return nil
}

// UniqueLocations returns the first Location for each distinct DocURL,
// preserving the order in which they were encountered.
func UniqueLocations(locations []*Location) []*Location {
	seen := make(map[string]struct{}, len(locations))
	unique := make([]*Location, 0, len(locations))
	for _, loc := range locations {
		if _, ok := seen[loc.DocURL]; ok {
			continue
		}
		seen[loc.DocURL] = struct{}{}
		unique = append(unique, loc)
	}
	return unique
}
