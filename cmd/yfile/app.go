package main

import (
	"context"
	"log/slog"

	prom "github.com/prometheus/client_golang/prometheus"

	yerrors "git.home.luguber.info/inful/yfile/internal/errors"
	"git.home.luguber.info/inful/yfile/internal/logfields"
	"git.home.luguber.info/inful/yfile/internal/metrics"
	"git.home.luguber.info/inful/yfile/internal/preprocess"
	"git.home.luguber.info/inful/yfile/internal/report"
	"git.home.luguber.info/inful/yfile/internal/source"
	"git.home.luguber.info/inful/yfile/internal/watch"
)

func (c *CLI) options() preprocess.Options {
	return preprocess.Options{Input: c.Input, Output: c.Output}
}

// app wires one CLI invocation to the processor. The recorder and loader are
// shared by every run so watch mode accumulates metrics across re-runs.
type app struct {
	cli      CLI
	logger   *slog.Logger
	loader   *source.Loader
	recorder metrics.Recorder
	registry *prom.Registry
}

func newApp(cli CLI, logger *slog.Logger) *app {
	a := &app{
		cli:      cli,
		logger:   logger,
		loader:   source.NewLoader(source.WithFetchTimeout(cli.FetchTimeout)),
		recorder: metrics.NoopRecorder{},
	}
	if cli.MetricsFile != "" {
		a.registry = prom.NewRegistry()
		a.recorder = metrics.NewPrometheusRecorder(a.registry)
	}
	return a
}

func (a *app) runOnce(ctx context.Context) error {
	_, err := a.execute(ctx)
	return err
}

// execute runs the processor once and writes the report and metrics files,
// also after a failed run. It returns the local files the run read.
func (a *app) execute(ctx context.Context) ([]string, error) {
	p := preprocess.New(a.cli.options(),
		preprocess.WithLoader(a.loader),
		preprocess.WithRecorder(a.recorder),
		preprocess.WithLogger(a.logger))
	rep, err := p.Run(ctx)

	if werr := a.writeReport(rep); werr != nil {
		if err == nil {
			err = werr
		} else {
			a.logger.Warn("Failed to write run report", logfields.Error(werr))
		}
	}
	if werr := a.writeMetrics(); werr != nil {
		if err == nil {
			err = werr
		} else {
			a.logger.Warn("Failed to write metrics textfile", logfields.Error(werr))
		}
	}

	return append([]string{a.cli.Input}, rep.LocalPaths()...), err
}

func (a *app) writeReport(rep *report.Report) error {
	if a.cli.Report == "" {
		return nil
	}
	if err := rep.WriteFile(a.cli.Report); err != nil {
		return yerrors.ReportWriteFailed(a.cli.Report, err)
	}
	a.logger.Debug("Run report written", logfields.Path(a.cli.Report))
	return nil
}

func (a *app) writeMetrics() error {
	if a.registry == nil {
		return nil
	}
	if err := metrics.WriteTextfile(a.cli.MetricsFile, a.registry); err != nil {
		return yerrors.MetricsWriteFailed(a.cli.MetricsFile, err)
	}
	a.logger.Debug("Metrics textfile written", logfields.Path(a.cli.MetricsFile))
	return nil
}

// watch runs until ctx is cancelled. Errors of individual runs are logged by
// the watcher; only a watcher setup failure is returned.
func (a *app) watch(ctx context.Context) error {
	w := watch.New(a.execute,
		watch.WithIgnore(a.cli.ignoredPaths()...),
		watch.WithLogger(a.logger))
	if err := w.Run(ctx); err != nil {
		return yerrors.InternalError("watch failed", err)
	}
	return nil
}
