// Package reference classifies include references and resolves them into
// local paths or remote URLs.
package reference

import (
	"path/filepath"
	"regexp"
	"strings"

	yerrors "git.home.luguber.info/inful/yfile/internal/errors"
)

// Kind identifies how a reference is retrieved.
type Kind string

const (
	KindRemote   Kind = "remote"   // http:// or https://
	KindFileURL  Kind = "file-url" // file:// prefix, stripped
	KindRelative Kind = "relative" // joined onto the base directory
	KindAbsolute Kind = "absolute" // read as given
)

// Local reports whether targets of this kind are read from the local filesystem.
func (k Kind) Local() bool {
	return k == KindFileURL || k == KindRelative || k == KindAbsolute
}

const fileScheme = "file://"

var remoteRe = regexp.MustCompile(`^https?://`)

// Target is a resolved reference.
type Target struct {
	Kind      Kind
	Reference string // as written in the directive
	Path      string // local path for local kinds
	URL       string // request URL for KindRemote
}

// Location returns the path or URL the target is read from.
func (t Target) Location() string {
	if t.Kind == KindRemote {
		return t.URL
	}
	return t.Path
}

// Resolver resolves references against a fixed base directory.
type Resolver struct {
	baseDir string
}

// NewResolver returns a resolver whose base is the directory containing inputPath.
// The base is computed once; nested includes do not change it.
func NewResolver(inputPath string) (*Resolver, error) {
	abs, err := filepath.Abs(inputPath)
	if err != nil {
		return nil, yerrors.InternalError("could not determine input directory", err).
			WithContext("path", inputPath)
	}
	return &Resolver{baseDir: filepath.Dir(abs)}, nil
}

// BaseDir returns the resolution base directory.
func (r *Resolver) BaseDir() string {
	return r.baseDir
}

// Resolve classifies ref; the first matching rule wins:
// remote URL, file:// URL, relative path, absolute path.
func (r *Resolver) Resolve(ref string) (Target, error) {
	switch {
	case remoteRe.MatchString(ref):
		return Target{Kind: KindRemote, Reference: ref, URL: ref}, nil
	case strings.HasPrefix(ref, fileScheme):
		p := strings.TrimPrefix(ref, fileScheme)
		if p == "" {
			return Target{}, yerrors.UnresolvableReference(ref, "empty file:// path")
		}
		return Target{Kind: KindFileURL, Reference: ref, Path: p}, nil
	case ref == "":
		return Target{}, yerrors.UnresolvableReference(ref, "empty reference")
	case !filepath.IsAbs(ref):
		return Target{Kind: KindRelative, Reference: ref, Path: filepath.Join(r.baseDir, ref)}, nil
	default:
		return Target{Kind: KindAbsolute, Reference: ref, Path: ref}, nil
	}
}
