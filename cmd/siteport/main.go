package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/siteport"
	"github.com/joho/godotenv"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Values already in the environment win over both files.
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	m := NewMain()
	err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	if closeErr := m.Close(); closeErr != nil {
		fmt.Fprintln(os.Stderr, closeErr)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Services for end-to-end testing. Run builds the ones left nil from
	// flags and the environment.
	Fetcher siteport.Fetcher
	Store   siteport.ManifestStore
	Entries siteport.EntryService
	Assets  siteport.AssetService
	AI      siteport.AIActionService

	closers []func() error
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close releases the browser, database, and anything else Run opened, in
// reverse order.
func (m *Main) Close() error {
	var firstErr error
	for i := len(m.closers) - 1; i >= 0; i-- {
		if err := m.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	m.closers = nil
	return firstErr
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("siteport"),
		kong.Description("Harvest marketing sites and load them into a headless CMS"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'siteport --help' to see available commands")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	deps := &Dependencies{
		Ctx:      ctx,
		Stdout:   stdout,
		Stderr:   stderr,
		Logger:   newLogger(stderr, cli.Verbose),
		ReadFile: os.ReadFile,
	}
	w := &wiring{main: m, cli: cli, deps: deps}

	// Wire command-specific dependencies. Failures here are pre-flight
	// errors: nothing has been fetched or written yet.
	switch command := strings.Fields(kongCtx.Command())[0]; command {
	case "harvest":
		err = w.harvest(&cli.Harvest.HarvestFlags)
	case "load":
		err = w.manifests(cli.Load.Input)
		if err == nil {
			err = w.cms(&cli.Load.CMSFlags, cli.Load.SEO || cli.Load.GEO)
		}
	case "enrich":
		err = w.cms(&cli.Enrich.CMSFlags, true)
	case "run":
		err = w.harvest(&cli.Run.HarvestFlags)
		if err == nil {
			err = w.cms(&cli.Run.CMSFlags, cli.Run.SEO || cli.Run.GEO)
		}
	case "detect":
		w.detect()
	}
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", siteport.ErrorMessage(err))
		return err
	}

	return kongCtx.Run(deps)
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
