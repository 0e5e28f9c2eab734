package main

import (
	"fmt"

	"github.com/fwojciec/doclocate"
	"github.com/fwojciec/doclocate/fs"
)

// Run executes the download command. For URL targets an existing location
// file is replayed unless --relocate is set.
func (c *DownloadCmd) Run(deps *Dependencies) error {
	exts, err := deps.extensions()
	if err != nil {
		return err
	}

	var res *doclocate.Result
	if !isFileTarget(c.Target) && !c.Relocate {
		res, err = deps.replay(c.Target, exts)
		if err != nil {
			return err
		}
	}
	if res == nil {
		res, err = deps.locate(c.Target, exts)
		if err != nil {
			return err
		}
	}
	if res == nil {
		return nil
	}

	d := &fs.Downloader{
		Fetcher: deps.Fetcher,
		BaseDir: deps.Config.DownloadOutdir,
		Logger:  deps.Logger,
	}
	dres, err := d.Download(deps.Ctx, res.Locations)
	if err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "Downloaded %d documents (%d bytes) to %s\n", dres.Saved, dres.Bytes, deps.Config.DownloadOutdir)
	if dres.Failed > 0 {
		fmt.Fprintf(deps.Stdout, "Failed: %d\n", dres.Failed)
	}
	return nil
}

// replay reads the location file of an earlier locate run for target.
// Returns a nil result when there is no usable file.
func (d *Dependencies) replay(target string, exts doclocate.ExtensionSet) (*doclocate.Result, error) {
	outfile := formatOutfile(d.Config.LocateOutfile, exts, target)
	if !fileExists(outfile) {
		return nil, nil
	}

	res, err := fs.NewJSONLocator(outfile, exts).Locate(d.Ctx)
	if err != nil {
		if d.Ctx.Err() != nil {
			return nil, d.Ctx.Err()
		}
		d.Logger.Warn("could not replay location file, locating again", "path", outfile, "err", err)
		return nil, nil
	}
	d.Logger.Info("replaying location file", "path", outfile, "located", len(res.Locations))
	return res, nil
}
