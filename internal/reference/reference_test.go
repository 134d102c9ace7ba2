package reference

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	yerrors "git.home.luguber.info/inful/yfile/internal/errors"
)

func TestNewResolver_BaseDir(t *testing.T) {
	r, err := NewResolver("/a/b/doc.txt")
	require.NoError(t, err)
	assert.Equal(t, "/a/b", r.BaseDir())

	wd, err := os.Getwd()
	require.NoError(t, err)
	r, err = NewResolver(filepath.Join("docs", "draft.xml"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wd, "docs"), r.BaseDir())
}

func TestResolve(t *testing.T) {
	r, err := NewResolver("/a/b/doc.txt")
	require.NoError(t, err)

	tests := []struct {
		name string
		ref  string
		want Target
	}{
		{
			name: "relative resolves against input directory",
			ref:  "c/d.txt",
			want: Target{Kind: KindRelative, Reference: "c/d.txt", Path: "/a/b/c/d.txt"},
		},
		{
			name: "relative with parent segment",
			ref:  "../shared/x.yang",
			want: Target{Kind: KindRelative, Reference: "../shared/x.yang", Path: "/a/shared/x.yang"},
		},
		{
			name: "absolute is read as given",
			ref:  "/tmp/x.txt",
			want: Target{Kind: KindAbsolute, Reference: "/tmp/x.txt", Path: "/tmp/x.txt"},
		},
		{
			name: "file scheme is stripped",
			ref:  "file:///tmp/x.txt",
			want: Target{Kind: KindFileURL, Reference: "file:///tmp/x.txt", Path: "/tmp/x.txt"},
		},
		{
			name: "file scheme with relative remainder is not rebased",
			ref:  "file://x.txt",
			want: Target{Kind: KindFileURL, Reference: "file://x.txt", Path: "x.txt"},
		},
		{
			name: "https",
			ref:  "https://example.test/f.txt",
			want: Target{Kind: KindRemote, Reference: "https://example.test/f.txt", URL: "https://example.test/f.txt"},
		},
		{
			name: "http",
			ref:  "http://example.test/f.txt?x=1",
			want: Target{Kind: KindRemote, Reference: "http://example.test/f.txt?x=1", URL: "http://example.test/f.txt?x=1"},
		},
		{
			name: "other scheme falls through to relative",
			ref:  "ftp://example.test/f.txt",
			want: Target{Kind: KindRelative, Reference: "ftp://example.test/f.txt", Path: "/a/b/ftp:/example.test/f.txt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(tt.ref)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_Unresolvable(t *testing.T) {
	r, err := NewResolver("/a/b/doc.txt")
	require.NoError(t, err)

	for _, ref := range []string{"", "file://"} {
		_, err := r.Resolve(ref)
		require.Error(t, err, "reference %q", ref)
		assert.True(t, yerrors.IsCategory(err, yerrors.CategoryValidation))
	}
}

func TestTargetLocation(t *testing.T) {
	assert.Equal(t, "https://x.test/a", Target{Kind: KindRemote, URL: "https://x.test/a"}.Location())
	assert.Equal(t, "/tmp/a", Target{Kind: KindAbsolute, Path: "/tmp/a"}.Location())
	assert.True(t, KindRelative.Local())
	assert.False(t, KindRemote.Local())
}
