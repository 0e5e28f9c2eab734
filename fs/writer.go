package fs

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/fwojciec/doclocate"
)

// WriteLocations writes locs to path as a JSON array indented with four
// spaces, creating parent directories as needed. The file is written to a
// temporary sibling and renamed into place so readers never observe a
// partial file.
func WriteLocations(path string, locs []*doclocate.Location) error {
	out := make([]*doclocate.Location, 0, len(locs))
	for _, loc := range locs {
		if loc.Extra == nil {
			c := *loc
			c.Extra = map[string]string{}
			loc = &c
		}
		out = append(out, loc)
	}

	data, err := json.MarshalIndent(out, "", "    ")
	if err != nil {
		return doclocate.Errorf(doclocate.EINTERNAL, "failed to encode locations: %v", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
