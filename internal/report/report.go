// Package report records what a preprocessing run did and writes it as YAML.
package report

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/yfile/internal/reference"
	"git.home.luguber.info/inful/yfile/internal/version"
)

// Outcome is the final state of a run.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailed  Outcome = "failed"
)

// Splice describes one expanded directive.
type Splice struct {
	Line       int     `yaml:"line"`
	Reference  string  `yaml:"reference"`
	Kind       string  `yaml:"kind"`
	Location   string  `yaml:"location"`
	Lines      int     `yaml:"lines"`
	Bytes      int64   `yaml:"bytes"`
	Status     int     `yaml:"status,omitempty"`
	DurationMS float64 `yaml:"duration_ms"`
}

// Report is the YAML run report.
type Report struct {
	ID          string    `yaml:"id"`
	Version     string    `yaml:"version"`
	Input       string    `yaml:"input"`
	Output      string    `yaml:"output"`
	BaseDir     string    `yaml:"base_dir"`
	StartedAt   time.Time `yaml:"started_at"`
	DurationMS  float64   `yaml:"duration_ms"`
	Outcome     Outcome   `yaml:"outcome"`
	Error       string    `yaml:"error,omitempty"`
	LinesCopied int       `yaml:"lines_copied"`
	Splices     []Splice  `yaml:"splices"`
}

// New starts a report for one run.
func New(input, output string) *Report {
	return &Report{
		ID:        uuid.New().String(),
		Version:   version.Version,
		Input:     input,
		Output:    output,
		StartedAt: time.Now().UTC(),
		Splices:   []Splice{},
	}
}

// AddSplice appends a splice record.
func (r *Report) AddSplice(s Splice) {
	r.Splices = append(r.Splices, s)
}

// Finish stamps duration and outcome. A nil err marks success.
func (r *Report) Finish(err error) {
	r.DurationMS = float64(time.Since(r.StartedAt)) / float64(time.Millisecond)
	if err != nil {
		r.Outcome = OutcomeFailed
		r.Error = err.Error()
		return
	}
	r.Outcome = OutcomeSuccess
	r.Error = ""
}

// LocalPaths returns the local files spliced during the run, in order, without duplicates.
func (r *Report) LocalPaths() []string {
	seen := make(map[string]struct{}, len(r.Splices))
	var out []string
	for _, s := range r.Splices {
		if s.Kind == string(reference.KindRemote) {
			continue
		}
		if _, ok := seen[s.Location]; ok {
			continue
		}
		seen[s.Location] = struct{}{}
		out = append(out, s.Location)
	}
	return out
}

// Marshal renders the report as YAML.
func (r *Report) Marshal() ([]byte, error) {
	return yaml.Marshal(r)
}

// WriteFile writes the YAML report to path.
func (r *Report) WriteFile(path string) error {
	data, err := r.Marshal()
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// Load reads a YAML report from path.
func Load(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	var r Report
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("unmarshal report: %w", err)
	}
	return &r, nil
}
