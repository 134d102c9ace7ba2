package metrics

import "time"

// RunOutcome enumerates final run results for counters.
type RunOutcome string

const (
	OutcomeSuccess RunOutcome = "success"
	OutcomeFailed  RunOutcome = "failed"
)

// Recorder defines observability hooks for preprocessing runs.
type Recorder interface {
	IncDirective(kind string)
	AddSplice(lines int, bytes int64)
	ObserveFetchDuration(d time.Duration)
	IncRunOutcome(outcome RunOutcome)
	ObserveRunDuration(d time.Duration)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncDirective(string)                {}
func (NoopRecorder) AddSplice(int, int64)               {}
func (NoopRecorder) ObserveFetchDuration(time.Duration) {}
func (NoopRecorder) IncRunOutcome(RunOutcome)           {}
func (NoopRecorder) ObserveRunDuration(time.Duration)   {}
