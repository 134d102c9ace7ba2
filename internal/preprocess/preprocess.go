// Package preprocess expands yfile include directives in a document.
//
// The input is read once, top to bottom. Lines that are not directives are
// copied unchanged. A directive line is replaced by a blank line, the
// referenced content and another blank line. Inserted content is never
// re-scanned for directives.
package preprocess

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"git.home.luguber.info/inful/yfile/internal/directive"
	yerrors "git.home.luguber.info/inful/yfile/internal/errors"
	"git.home.luguber.info/inful/yfile/internal/logfields"
	"git.home.luguber.info/inful/yfile/internal/metrics"
	"git.home.luguber.info/inful/yfile/internal/reference"
	"git.home.luguber.info/inful/yfile/internal/report"
	"git.home.luguber.info/inful/yfile/internal/source"
)

// Options is the configuration of a single run.
type Options struct {
	Input  string
	Output string
}

// Validate checks that both paths are set.
func (o Options) Validate() error {
	if o.Input == "" || o.Output == "" {
		return yerrors.UsageError("must specify input and output filenames")
	}
	return nil
}

// Loader retrieves the content of a resolved reference.
type Loader interface {
	Load(ctx context.Context, t reference.Target) (*source.Content, error)
}

// Processor runs the splice engine for one input/output pair.
type Processor struct {
	opts     Options
	loader   Loader
	recorder metrics.Recorder
	logger   *slog.Logger
}

// Option configures a Processor.
type Option func(*Processor)

// WithLoader replaces the content loader.
func WithLoader(l Loader) Option {
	return func(p *Processor) {
		if l != nil {
			p.loader = l
		}
	}
}

// WithRecorder injects a metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(p *Processor) {
		if r != nil {
			p.recorder = r
		}
	}
}

// WithLogger sets the logger used for progress messages.
func WithLogger(l *slog.Logger) Option {
	return func(p *Processor) {
		if l != nil {
			p.logger = l
		}
	}
}

// New creates a Processor with a default loader, no metrics and the default logger.
func New(opts Options, options ...Option) *Processor {
	p := &Processor{
		opts:     opts,
		loader:   source.NewLoader(),
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
	}
	for _, o := range options {
		o(p)
	}
	return p
}

// Run expands the input into the output. The returned report is never nil
// and describes the run even when it failed. On failure, output written
// before the failing line is kept.
func (p *Processor) Run(ctx context.Context) (rep *report.Report, err error) {
	rep = report.New(p.opts.Input, p.opts.Output)
	start := time.Now()
	defer func() {
		rep.Finish(err)
		p.recorder.ObserveRunDuration(time.Since(start))
		if err != nil {
			p.recorder.IncRunOutcome(metrics.OutcomeFailed)
			return
		}
		p.recorder.IncRunOutcome(metrics.OutcomeSuccess)
	}()

	if err = p.opts.Validate(); err != nil {
		return rep, err
	}
	if sameFile(p.opts.Input, p.opts.Output) {
		err = yerrors.UsageError("input and output must be different files")
		return rep, err
	}

	in, err := os.Open(p.opts.Input)
	if err != nil {
		return rep, yerrors.InputOpenFailed(p.opts.Input, err)
	}
	defer func() {
		_ = in.Close()
	}()

	resolver, err := reference.NewResolver(p.opts.Input)
	if err != nil {
		return rep, err
	}
	rep.BaseDir = resolver.BaseDir()

	out, err := os.Create(p.opts.Output)
	if err != nil {
		return rep, yerrors.OutputOpenFailed(p.opts.Output, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = yerrors.OutputWriteFailed(p.opts.Output, cerr)
		}
	}()

	p.logger.Info("Expanding includes",
		logfields.Input(p.opts.Input),
		logfields.Output(p.opts.Output),
		logfields.BaseDir(resolver.BaseDir()))

	w := bufio.NewWriter(out)
	err = p.expand(ctx, in, w, resolver, rep)
	// Flush on every path so lines before a failure stay in the output.
	if ferr := w.Flush(); ferr != nil && err == nil {
		err = yerrors.OutputWriteFailed(p.opts.Output, ferr)
	}
	if err != nil {
		return rep, err
	}

	p.logger.Info("Includes expanded",
		logfields.Output(p.opts.Output),
		slog.Int("directives", len(rep.Splices)),
		logfields.Lines(rep.LinesCopied))
	return rep, nil
}

func (p *Processor) expand(ctx context.Context, r io.Reader, w io.Writer, resolver *reference.Resolver, rep *report.Report) error {
	br := bufio.NewReader(r)
	ew := &errWriter{w: w}
	lineNo := 0
	for {
		line, rerr := br.ReadString('\n')
		if len(line) > 0 {
			lineNo++
			if d, ok := directive.Parse(line, lineNo); ok {
				if err := p.splice(ctx, ew, d, resolver, rep); err != nil {
					return err
				}
			} else {
				ew.writeString(line)
				rep.LinesCopied++
			}
			if ew.err != nil {
				return yerrors.OutputWriteFailed(p.opts.Output, ew.err)
			}
		}
		if rerr == io.EOF {
			return nil
		}
		if rerr != nil {
			return yerrors.InputReadFailed(p.opts.Input, rerr)
		}
	}
}

func (p *Processor) splice(ctx context.Context, ew *errWriter, d directive.Directive, resolver *reference.Resolver, rep *report.Report) error {
	target, err := resolver.Resolve(d.Reference)
	if err != nil {
		return withLine(err, d.Line)
	}

	content, err := p.loader.Load(ctx, target)
	if err != nil {
		return withLine(err, d.Line)
	}

	ew.writeString("\n")
	for _, l := range content.Lines {
		ew.writeString(l)
	}
	ew.writeString("\n")

	kind := string(target.Kind)
	p.recorder.IncDirective(kind)
	p.recorder.AddSplice(len(content.Lines), content.Bytes)
	if target.Kind == reference.KindRemote {
		p.recorder.ObserveFetchDuration(content.Duration)
	}
	rep.AddSplice(report.Splice{
		Line:       d.Line,
		Reference:  d.Reference,
		Kind:       kind,
		Location:   target.Location(),
		Lines:      len(content.Lines),
		Bytes:      content.Bytes,
		Status:     content.Status,
		DurationMS: float64(content.Duration) / float64(time.Millisecond),
	})

	attrs := []any{
		logfields.Line(d.Line),
		logfields.Reference(d.Reference),
		logfields.Kind(kind),
	}
	if target.Kind == reference.KindRemote {
		attrs = append(attrs, logfields.URL(target.URL), logfields.Status(content.Status))
	} else {
		attrs = append(attrs, logfields.Path(target.Path))
	}
	attrs = append(attrs,
		logfields.Lines(len(content.Lines)),
		logfields.Bytes(content.Bytes),
		logfields.Duration(content.Duration))
	p.logger.Debug("Spliced reference", attrs...)
	return nil
}

// sameFile reports whether a and b name the same existing file. Creating the
// output would otherwise truncate the input before it is read.
func sameFile(a, b string) bool {
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}

func withLine(err error, line int) error {
	if yfe, ok := yerrors.As(err); ok {
		return yfe.WithContext("line", line)
	}
	return err
}

// errWriter keeps the first write error so the copy loop stays linear.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) writeString(s string) {
	if e.err != nil {
		return
	}
	_, e.err = io.WriteString(e.w, s)
}
