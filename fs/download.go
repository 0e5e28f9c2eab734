package fs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"cloudeng.io/errors"
	"github.com/fwojciec/doclocate"
)

// Downloader saves located documents under BaseDir at their LocationPath.
type Downloader struct {
	Fetcher doclocate.Fetcher
	BaseDir string
	Logger  *slog.Logger
}

// DownloadResult summarizes a Download batch.
type DownloadResult struct {
	// Saved is the number of documents written.
	Saved int

	// Failed is the number of documents that could not be fetched or written.
	Failed int

	// Bytes is the total size of the documents written.
	Bytes int64

	// Err collects the per-document failures, or is nil if there were none.
	Err error
}

// Download fetches each distinct document in locs and writes it to disk,
// overwriting existing files. A failed document is logged and recorded in
// the result; the batch continues. Only cancellation of ctx stops the batch
// early, in which case the context error is returned.
func (d *Downloader) Download(ctx context.Context, locs []*doclocate.Location) (*DownloadResult, error) {
	logger := loggerOrDiscard(d.Logger)
	unique := doclocate.UniqueLocations(locs)
	logger.Info("starting download", "locations", len(locs), "unique", len(unique), "dir", d.BaseDir)

	result := &DownloadResult{}
	var errs errors.M
	for i, loc := range unique {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		n, p, err := d.save(ctx, loc)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			result.Failed++
			errs.Append(fmt.Errorf("%s: %w", loc.DocURL, err))
			logger.Warn("could not download document", "url", loc.DocURL, "err", err)
			continue
		}
		result.Saved++
		result.Bytes += n
		logger.Info("downloaded document",
			"n", i+1,
			"total", len(unique),
			"url", loc.DocURL,
			"path", p,
			"bytes", n,
		)
	}
	result.Err = errs.Err()

	logger.Info("completed download",
		"saved", result.Saved,
		"failed", result.Failed,
		"bytes", result.Bytes,
	)
	return result, nil
}

func (d *Downloader) save(ctx context.Context, loc *doclocate.Location) (int64, string, error) {
	p, err := LocationPath(d.BaseDir, loc)
	if err != nil {
		return 0, "", err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return 0, p, err
	}
	res, err := d.Fetcher.Fetch(ctx, loc.DocURL)
	if err != nil {
		return 0, p, err
	}
	if err := os.WriteFile(p, res.Body, 0644); err != nil {
		return 0, p, err
	}
	return int64(len(res.Body)), p, nil
}
