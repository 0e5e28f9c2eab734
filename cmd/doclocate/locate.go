package main

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/doclocate"
	"github.com/fwojciec/doclocate/crawl"
	"github.com/fwojciec/doclocate/fs"
	dlslog "github.com/fwojciec/doclocate/slog"
)

// documentCenterPath is the URL path that selects the document center walker.
const documentCenterPath = "documentcenter"

// Run executes the locate command.
func (c *LocateCmd) Run(deps *Dependencies) error {
	exts, err := deps.extensions()
	if err != nil {
		return err
	}

	res, err := deps.locate(c.Target, exts)
	if err != nil || res == nil {
		return err
	}

	for _, loc := range res.Locations {
		fmt.Fprintln(deps.Stdout, loc.DocURL)
	}
	return nil
}

// extensions resolves the --doctype and --ext flags. Unknown doctypes are
// logged and ignored.
func (d *Dependencies) extensions() (doclocate.ExtensionSet, error) {
	exts, unknown := d.Doctypes.Extensions(d.Config.Doctype, d.Config.Ext)
	for _, name := range unknown {
		d.Logger.Warn("unknown doctype", "doctype", name, "known", strings.Join(d.Doctypes.Names(), " "))
	}
	if len(exts) == 0 {
		return nil, doclocate.Errorf(doclocate.EINVALID, "no extensions selected; use --doctype or --ext")
	}
	return exts, nil
}

// locate runs the locator chosen for target and writes the location file
// for URL targets. A locator error is logged and yields a nil result; only
// cancellation is returned as an error.
func (d *Dependencies) locate(target string, exts doclocate.ExtensionSet) (*doclocate.Result, error) {
	locator := dlslog.NewLoggingLocator(d.newLocator(target, exts), d.Logger)
	res, err := locator.Locate(d.Ctx)
	if err != nil {
		if d.Ctx.Err() != nil {
			return nil, d.Ctx.Err()
		}
		return nil, nil
	}

	if isFileTarget(target) {
		return res, nil
	}
	outfile := formatOutfile(d.Config.LocateOutfile, exts, target)
	if info, err := os.Stat(outfile); err == nil && info.IsDir() {
		d.Logger.Warn("location file is a directory, not writing", "path", outfile)
		return res, nil
	}
	if err := fs.WriteLocations(outfile, res.Locations); err != nil {
		d.Logger.Error("could not write location file", "path", outfile, "err", err)
		return res, nil
	}
	d.Logger.Info("wrote location file", "path", outfile, "located", len(res.Locations))
	return res, nil
}

// newLocator picks the locator for target: a JSON location file, a text
// file of URLs, a document center portal or a generic web crawl.
func (d *Dependencies) newLocator(target string, exts doclocate.ExtensionSet) doclocate.Locator {
	if isFileTarget(target) {
		if strings.EqualFold(filepath.Ext(target), ".json") {
			return &fs.JSONLocator{Path: target, Extensions: exts, Logger: d.Logger}
		}
		return &fs.TxtLocator{Path: target, Extensions: exts, Logger: d.Logger}
	}

	if isDocumentCenter(target) {
		return &crawl.DocumentCenterLocator{
			Target:     target,
			Extensions: exts,
			Fetcher:    d.Fetcher,
			Logger:     d.Logger,
		}
	}

	l := crawl.NewWebLocator(target, exts, d.Fetcher)
	l.Policy = crawl.DefaultVisitPolicy(d.Doctypes)
	l.Policy.Limit = d.Config.VisitedLimit
	l.Order = d.Order
	l.Logger = d.Logger
	return l
}

// isFileTarget reports whether target names a local file: an existing
// regular file, or anything that is not an http(s) URL.
func isFileTarget(target string) bool {
	if info, err := os.Stat(target); err == nil {
		return info.Mode().IsRegular()
	}
	u, err := url.Parse(target)
	if err != nil {
		return true
	}
	return u.Scheme != "http" && u.Scheme != "https"
}

func isDocumentCenter(target string) bool {
	u, err := url.Parse(target)
	if err != nil {
		return false
	}
	return strings.ToLower(strings.Trim(u.Path, "/")) == documentCenterPath
}

// formatOutfile expands {exts} to the extensions without dots joined by "_"
// and {target} to a file-name-safe form of target.
func formatOutfile(pattern string, exts doclocate.ExtensionSet, target string) string {
	names := make([]string, len(exts))
	for i, ext := range exts {
		names[i] = strings.TrimPrefix(ext, ".")
	}
	return strings.NewReplacer(
		"{exts}", strings.Join(names, "_"),
		"{target}", fs.SanitizeFilename(strings.ReplaceAll(target, "/", "-"), "_"),
	).Replace(pattern)
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.Mode().IsRegular()
}
