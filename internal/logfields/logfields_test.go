package logfields

import (
	"errors"
	"log/slog"
	"testing"
	"time"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"Input", KeyInput, "draft.xml", Input("draft.xml")},
		{"Output", KeyOutput, "out.xml", Output("out.xml")},
		{"BaseDir", KeyBaseDir, "/a/b", BaseDir("/a/b")},
		{"Reference", KeyReference, "c/d.yang", Reference("c/d.yang")},
		{"Kind", KeyKind, "relative", Kind("relative")},
		{"Path", KeyPath, "/tmp/x", Path("/tmp/x")},
		{"URL", KeyURL, "http://example", URL("http://example")},
		{"Op", KeyOp, "WRITE", Op("WRITE")},
	}

	for _, tc := range cases {
		if tc.attr.Key != tc.attrKey {
			// Key drift would break log ingestion schemas.
			t.Fatalf("%s: expected key %s, got %s", tc.name, tc.attrKey, tc.attr.Key)
		}
		if got := tc.attr.Value.String(); got != tc.attrVal {
			t.Fatalf("%s: expected value %s, got %v", tc.name, tc.attrVal, got)
		}
	}
}

// TestNumericHelpers verifies keys for numeric helpers.
func TestNumericHelpers(t *testing.T) {
	if v := Line(3); v.Key != KeyLine || v.Value.Int64() != 3 {
		t.Fatalf("Line mismatch: %v", v)
	}
	if v := Lines(7); v.Key != KeyLines || v.Value.Int64() != 7 {
		t.Fatalf("Lines mismatch: %v", v)
	}
	if v := Bytes(42); v.Key != KeyBytes || v.Value.Int64() != 42 {
		t.Fatalf("Bytes mismatch: %v", v)
	}
	if v := Status(404); v.Key != KeyStatus || v.Value.Int64() != 404 {
		t.Fatalf("Status mismatch: %v", v)
	}
	if v := Duration(1500 * time.Microsecond); v.Key != KeyDurationMS || v.Value.Float64() != 1.5 {
		t.Fatalf("Duration mismatch: %v", v)
	}
}

func TestError(t *testing.T) {
	if v := Error(nil); v.Value.String() != "" {
		t.Fatalf("nil error should render empty, got %q", v.Value.String())
	}
	if v := Error(errors.New("boom")); v.Key != KeyError || v.Value.String() != "boom" {
		t.Fatalf("Error mismatch: %v", v)
	}
}
