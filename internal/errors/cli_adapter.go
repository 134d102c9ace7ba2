package errors

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// ExitFailure is the exit code for every usage or I/O failure.
const ExitFailure = 1

// CLIErrorAdapter handles error presentation and exit code determination for the CLI.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
	out     io.Writer
}

// NewCLIErrorAdapter creates a new CLI error adapter writing to stderr.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	return NewCLIErrorAdapterWithWriter(verbose, logger, os.Stderr)
}

// NewCLIErrorAdapterWithWriter creates a CLI error adapter that writes messages to out.
func NewCLIErrorAdapterWithWriter(verbose bool, logger *slog.Logger, out io.Writer) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	if out == nil {
		out = os.Stderr
	}
	return &CLIErrorAdapter{
		verbose: verbose,
		logger:  logger,
		out:     out,
	}
}

// ExitCodeFor determines the exit code for an error. Failures are not
// distinguished by kind.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	return ExitFailure
}

// FormatError formats an error as the single FATAL line shown to users.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}

	if yfe, ok := As(err); ok {
		return a.formatYFile(yfe)
	}

	return fmt.Sprintf("FATAL: %v", err)
}

func (a *CLIErrorAdapter) formatYFile(err *YFileError) string {
	if a.verbose {
		return "FATAL: " + err.Error()
	}

	detail := ""
	switch {
	case err.Cause != nil:
		detail = err.Cause.Error()
	case err.Context["reason"] != nil:
		detail = fmt.Sprint(err.Context["reason"])
	}
	if detail == "" {
		return "FATAL: " + err.Message
	}
	return fmt.Sprintf("FATAL: %s (%s)", err.Message, detail)
}

// Handle reports err to the user and returns the exit code the process should use.
func (a *CLIErrorAdapter) Handle(err error) int {
	if err == nil {
		return 0
	}

	if a.shouldLog(err) {
		a.logError(err)
	}

	fmt.Fprintln(a.out, a.FormatError(err))
	return a.ExitCodeFor(err)
}

// HandleError processes an error and exits the program with the matching code.
func (a *CLIErrorAdapter) HandleError(err error) {
	if err == nil {
		return
	}
	os.Exit(a.Handle(err))
}

func (a *CLIErrorAdapter) shouldLog(err error) bool {
	if a.verbose {
		return true
	}
	return GetCategory(err) == CategoryInternal
}

func (a *CLIErrorAdapter) logError(err error) {
	if yfe, ok := As(err); ok {
		attrs := []slog.Attr{
			slog.String("category", string(yfe.Category)),
			slog.String("severity", string(yfe.Severity)),
		}
		for k, v := range yfe.Context {
			attrs = append(attrs, slog.Any(k, v))
		}
		if yfe.Cause != nil {
			attrs = append(attrs, slog.String("error", yfe.Cause.Error()))
		}
		a.logger.LogAttrs(context.Background(), a.slogLevel(yfe.Severity), yfe.Message, attrs...)
		return
	}

	a.logger.Error("Unclassified error", "error", err)
}

func (a *CLIErrorAdapter) slogLevel(severity ErrorSeverity) slog.Level {
	switch severity {
	case SeverityWarning:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
