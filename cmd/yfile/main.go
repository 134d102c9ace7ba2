package main

import (
	"context"
	stdErrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	yerrors "git.home.luguber.info/inful/yfile/internal/errors"
	"git.home.luguber.info/inful/yfile/internal/version"
)

// CLI holds every flag yfile accepts.
type CLI struct {
	Input        string        `short:"i" help:"Input document path" placeholder:"PATH"`
	Output       string        `short:"o" help:"Output document path" placeholder:"PATH"`
	Verbose      bool          `short:"v" help:"Enable verbose logging"`
	LogFormat    string        `name:"log-format" help:"Log output format (${enum})" enum:"text,json" default:"text"`
	FetchTimeout time.Duration `name:"fetch-timeout" help:"Upper bound for each remote fetch (0 means no limit)" default:"0s"`
	Report       string        `help:"Write a YAML run report to this path" placeholder:"PATH"`
	MetricsFile  string        `name:"metrics-file" help:"Write Prometheus textfile metrics to this path" placeholder:"PATH"`
	Watch        bool          `help:"Re-run whenever the input or an included local file changes"`
	Version      bool          `name:"version" help:"Show version and exit"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply(stderr io.Writer) error {
	slog.SetDefault(newLogger(stderr, c.Verbose, c.LogFormat))
	return nil
}

func newLogger(w io.Writer, verbose bool, format string) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// exitRequest carries an exit code raised by kong (help) out of Parse.
type exitRequest int

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) (code int) {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("yfile"),
		kong.Description("Expand <?yfile include=\"...\"?> directives into the referenced file or URL contents."),
		kong.Writers(stderr, stderr),
		kong.BindTo(stderr, (*io.Writer)(nil)),
		kong.Exit(func(c int) { panic(exitRequest(c)) }),
	)
	if err != nil {
		fmt.Fprintf(stderr, "FATAL: %v\n", err)
		return yerrors.ExitFailure
	}

	defer func() {
		if r := recover(); r != nil {
			req, ok := r.(exitRequest)
			if !ok {
				panic(r)
			}
			code = int(req)
		}
	}()

	adapter := yerrors.NewCLIErrorAdapterWithWriter(false, slog.New(slog.NewTextHandler(stderr, nil)), stderr)

	kctx, err := parser.Parse(args)
	if err != nil {
		var perr *kong.ParseError
		if stdErrors.As(err, &perr) && perr.Context != nil {
			_ = perr.Context.PrintUsage(false)
			fmt.Fprintln(stderr)
		}
		return adapter.Handle(yerrors.UsageError(err.Error()))
	}

	if cli.Version {
		fmt.Fprintln(stdout, version.String())
		return 0
	}

	adapter = yerrors.NewCLIErrorAdapterWithWriter(cli.Verbose, slog.Default(), stderr)

	opts := cli.options()
	if err := opts.Validate(); err != nil {
		_ = kctx.PrintUsage(false)
		fmt.Fprintln(stderr)
		return adapter.Handle(err)
	}

	app := newApp(cli, slog.Default())
	if cli.Watch {
		return adapter.Handle(app.watch(ctx))
	}
	return adapter.Handle(app.runOnce(ctx))
}

// ignoredPaths lists files yfile writes itself; they never trigger a re-run.
func (c *CLI) ignoredPaths() []string {
	var paths []string
	for _, p := range []string{c.Output, c.Report, c.MetricsFile} {
		if strings.TrimSpace(p) != "" {
			paths = append(paths, p)
		}
	}
	return paths
}
