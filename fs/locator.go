package fs

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/fwojciec/doclocate"
)

// Ensure the file locators implement doclocate.Locator at compile time.
var (
	_ doclocate.Locator = (*JSONLocator)(nil)
	_ doclocate.Locator = (*TxtLocator)(nil)
)

// JSONLocator replays a location file written by WriteLocations, keeping
// the records whose extension is in Extensions.
type JSONLocator struct {
	Path       string
	Extensions doclocate.ExtensionSet
	Logger     *slog.Logger
}

// NewJSONLocator creates a JSONLocator without logging.
func NewJSONLocator(path string, exts doclocate.ExtensionSet) *JSONLocator {
	return &JSONLocator{Path: path, Extensions: exts}
}

// Locate reads the file. Returns ENOTFOUND if the file does not exist and
// EINVALID if it is not a JSON array of locations.
func (l *JSONLocator) Locate(ctx context.Context) (*doclocate.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	target, err := normalizePath(l.Path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(target)
	if err != nil {
		return nil, readError(target, err)
	}

	var records []*doclocate.Location
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, doclocate.Errorf(doclocate.EINVALID, "invalid location file %s: %v", target, err)
	}

	logger := loggerOrDiscard(l.Logger)
	result := &doclocate.Result{Target: target, Extensions: l.Extensions}
	for i, loc := range records {
		if loc == nil {
			continue
		}
		loc.DocExt = doclocate.NormalizeExtension(loc.DocExt)
		if err := loc.Validate(); err != nil {
			logger.Warn("skipping invalid location", "index", i, "docurl", loc.DocURL, "err", doclocate.ErrorMessage(err))
			continue
		}
		if !l.Extensions.Contains(loc.DocExt) {
			continue
		}
		if loc.Extra == nil {
			loc.Extra = map[string]string{}
		}
		result.Locations = append(result.Locations, loc)
	}

	logger.Info("completed locating",
		"target", target,
		"records", len(records),
		"located", len(result.Locations),
	)
	return result, nil
}

// TxtLocator reads one document URL per line. Blank lines are skipped and
// the extension of each URL path decides whether it is kept.
type TxtLocator struct {
	Path       string
	Extensions doclocate.ExtensionSet
	Logger     *slog.Logger
}

// NewTxtLocator creates a TxtLocator without logging.
func NewTxtLocator(path string, exts doclocate.ExtensionSet) *TxtLocator {
	return &TxtLocator{Path: path, Extensions: exts}
}

// Locate reads the file. Returns ENOTFOUND if the file does not exist.
func (l *TxtLocator) Locate(ctx context.Context) (*doclocate.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logger := loggerOrDiscard(l.Logger)

	target, err := normalizePath(l.Path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(target)
	if err != nil {
		return nil, readError(target, err)
	}
	defer f.Close()

	result := &doclocate.Result{Target: target, Extensions: l.Extensions}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		u, err := url.Parse(line)
		if err != nil {
			logger.Warn("skipping invalid URL", "url", line, "err", err)
			continue
		}
		ext := strings.ToLower(path.Ext(u.Path))
		if !l.Extensions.Contains(ext) {
			continue
		}
		result.Locations = append(result.Locations, doclocate.NewLocation(target, target, line, ext))
	}
	if err := scanner.Err(); err != nil {
		return nil, doclocate.Errorf(doclocate.EINVALID, "failed to read %s: %v", target, err)
	}

	logger.Info("completed locating", "target", target, "located", len(result.Locations))
	return result, nil
}

// normalizePath returns the absolute, symlink-resolved form of p.
func normalizePath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", doclocate.Errorf(doclocate.EINVALID, "invalid path %q: %v", p, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", readError(abs, err)
	}
	return resolved, nil
}

func readError(p string, err error) error {
	if errors.Is(err, os.ErrNotExist) {
		return doclocate.Errorf(doclocate.ENOTFOUND, "file not found: %s", p)
	}
	return doclocate.Errorf(doclocate.EINVALID, "failed to read %s: %v", p, err)
}

func loggerOrDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return logger
}
