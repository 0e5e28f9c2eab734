package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/doclocate"
	"github.com/fwojciec/doclocate/crawl"
	dlhttp "github.com/fwojciec/doclocate/http"
	dlslog "github.com/fwojciec/doclocate/slog"
	"github.com/google/uuid"
	"github.com/lmittmann/tint"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Fetcher replaces the HTTP fetcher. Set before calling Run().
	Fetcher doclocate.Fetcher

	// Doctypes is the doctype table used to resolve --doctype.
	Doctypes doclocate.DoctypeTable
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		Doctypes: doclocate.DefaultDoctypes(),
	}
}

// Run executes the CLI with the given arguments. It returns an error only
// for invalid usage or when ctx is canceled; failures while locating or
// downloading are logged.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	deps := &Dependencies{
		Ctx:      ctx,
		Stdout:   stdout,
		Stderr:   stderr,
		Config:   &cli.Config,
		Doctypes: m.Doctypes,
	}

	parser, err := kong.New(cli,
		kong.Name("doclocate"),
		kong.Description("Locate and download documents linked from web pages, document centers and URL lists"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
		kong.Vars{"user_agent": dlhttp.DefaultUserAgent},
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'doclocate --help' to see available commands")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	order, err := crawl.ParseOrder(cli.Order)
	if err != nil {
		return err
	}
	deps.Order = order

	deps.Logger = newLogger(stderr, cli.LogLevel).With("run", uuid.NewString())

	fetcher := m.Fetcher
	if fetcher == nil {
		fetcher = dlhttp.NewFetcher(
			dlhttp.WithTimeout(cli.Timeout),
			dlhttp.WithUserAgent(cli.UserAgent),
		)
	}
	deps.Fetcher = dlslog.NewLoggingFetcher(
		crawl.NewRetryFetcher(fetcher, crawl.RetryDelays(cli.Retries), deps.Logger),
		deps.Logger,
	)
	defer deps.Fetcher.Close()

	err = kongCtx.Run(deps)
	if ctx.Err() != nil {
		deps.Logger.Error("exiting due to user request")
		return ctx.Err()
	}
	return err
}

// newLogger returns a tint logger writing to w at the given level name.
// The level "none" disables logging.
func newLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "none":
		return slog.New(slog.DiscardHandler)
	case "debug":
		lvl = slog.LevelDebug
	case "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      lvl,
		TimeFormat: time.TimeOnly,
		NoColor:    !isTerminal(w),
	}))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
