// Package source retrieves the content referenced by include directives.
package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	yerrors "git.home.luguber.info/inful/yfile/internal/errors"
	"git.home.luguber.info/inful/yfile/internal/reference"
)

// Content is retrieved reference content split into lines.
type Content struct {
	Lines    []string
	Bytes    int64
	Status   int // HTTP status for remote targets, 0 otherwise
	Duration time.Duration
}

// Loader reads local targets from disk and fetches remote targets over HTTP.
type Loader struct {
	client  *http.Client
	timeout time.Duration
}

// Option configures a Loader.
type Option func(*Loader)

// WithHTTPClient replaces the client used for remote targets.
func WithHTTPClient(c *http.Client) Option {
	return func(l *Loader) {
		if c != nil {
			l.client = c
		}
	}
}

// WithFetchTimeout bounds each remote fetch. Zero means no bound.
func WithFetchTimeout(d time.Duration) Option {
	return func(l *Loader) { l.timeout = d }
}

// NewLoader creates a Loader. Remote fetches have no timeout and no retries
// unless configured.
func NewLoader(opts ...Option) *Loader {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	l := &Loader{client: &http.Client{Transport: transport}}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load retrieves the content of t.
func (l *Loader) Load(ctx context.Context, t reference.Target) (*Content, error) {
	start := time.Now()
	var (
		c   *Content
		err error
	)
	if t.Kind == reference.KindRemote {
		c, err = l.fetch(ctx, t)
	} else {
		c, err = l.readLocal(t)
	}
	if err != nil {
		return nil, err
	}
	c.Duration = time.Since(start)
	return c, nil
}

func (l *Loader) readLocal(t reference.Target) (*Content, error) {
	f, err := os.Open(t.Path)
	if err != nil {
		return nil, yerrors.ReferenceOpenFailed(t.Reference, t.Path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, yerrors.ReferenceOpenFailed(t.Reference, t.Path, err)
	}
	return &Content{Lines: SplitLines(data), Bytes: int64(len(data))}, nil
}

func (l *Loader) fetch(ctx context.Context, t reference.Target) (*Content, error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.URL, nil)
	if err != nil {
		return nil, yerrors.FetchFailed(t.URL, err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, yerrors.FetchFailed(t.URL, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, yerrors.FetchFailed(t.URL, fmt.Errorf("unexpected status %s", resp.Status)).
			WithContext("status", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, yerrors.FetchFailed(t.URL, err)
	}
	return &Content{Lines: SplitLines(data), Bytes: int64(len(data)), Status: resp.StatusCode}, nil
}

// SplitLines splits data after each '\n', keeping terminators. A final
// fragment without a terminator is kept as-is, so joining the result
// reproduces data exactly.
func SplitLines(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	lines := make([]string, 0, bytes.Count(data, []byte{'\n'})+1)
	for len(data) > 0 {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			lines = append(lines, string(data))
			break
		}
		lines = append(lines, string(data[:i+1]))
		data = data[i+1:]
	}
	return lines
}
