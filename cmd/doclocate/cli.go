package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/doclocate"
	"github.com/fwojciec/doclocate/crawl"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *slog.Logger
	Fetcher  doclocate.Fetcher
	Config   *Config
	Doctypes doclocate.DoctypeTable
	Order    crawl.Order
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config `embed:""`

	Locate     LocateCmd     `cmd:"" help:"Locate documents reachable from a URL, JSON location file or URL list"`
	Download   DownloadCmd   `cmd:"" help:"Locate documents and download them"`
	Extensions ExtensionsCmd `cmd:"" help:"Print the extensions selected by --doctype and --ext"`
	Doctypes   DoctypesCmd   `cmd:"" help:"List known doctypes and their extensions"`
}

// Config holds the flags shared by all commands.
type Config struct {
	Doctype        []string      `short:"d" default:"pdf" env:"DOCLOCATE_DOCTYPE" help:"Doctype to locate (repeatable)"`
	Ext            []string      `short:"e" env:"DOCLOCATE_EXT" help:"Additional file extension to locate (repeatable)"`
	LogLevel       string        `default:"info" enum:"debug,info,warning,error,none" env:"DOCLOCATE_LOG_LEVEL" help:"Log level (${enum})"`
	Timeout        time.Duration `default:"30s" env:"DOCLOCATE_TIMEOUT" help:"Timeout for a single request"`
	VisitedLimit   int           `default:"250" env:"DOCLOCATE_VISITED_LIMIT" help:"Maximum number of pages a web crawl visits"`
	Order          string        `default:"dfs" enum:"dfs,bfs" env:"DOCLOCATE_ORDER" help:"Web crawl order (${enum})"`
	Retries        int           `default:"3" env:"DOCLOCATE_RETRIES" help:"Retries for transient request failures"`
	UserAgent      string        `default:"${user_agent}" env:"DOCLOCATE_USER_AGENT" help:"User-Agent header sent with requests"`
	LocateOutfile  string        `default:"__output__/locations-{exts}-{target}.json" env:"DOCLOCATE_LOCATE_OUTFILE" help:"Location file written by locate; {exts} and {target} are expanded"`
	DownloadOutdir string        `default:"__output__" env:"DOCLOCATE_DOWNLOAD_OUTDIR" help:"Directory downloaded documents are saved under"`
}

// LocateCmd is the "locate" subcommand.
type LocateCmd struct {
	Target string `arg:"" help:"URL, JSON location file or text file of URLs"`
}

// DownloadCmd is the "download" subcommand.
type DownloadCmd struct {
	Target   string `arg:"" help:"URL, JSON location file or text file of URLs"`
	Relocate bool   `help:"Locate again even if the location file already exists"`
}

// ExtensionsCmd is the "extensions" subcommand.
type ExtensionsCmd struct{}

// DoctypesCmd is the "doctypes" subcommand.
type DoctypesCmd struct{}
