package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyInput      = "input"
	KeyOutput     = "output"
	KeyBaseDir    = "base_dir"
	KeyReference  = "reference"
	KeyKind       = "kind"
	KeyPath       = "path"
	KeyURL        = "url"
	KeyLine       = "line"
	KeyLines      = "lines"
	KeyBytes      = "bytes"
	KeyStatus     = "status"
	KeyDurationMS = "duration_ms"
	KeyOp         = "op"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Input(p string) slog.Attr     { return slog.String(KeyInput, p) }
func Output(p string) slog.Attr    { return slog.String(KeyOutput, p) }
func BaseDir(p string) slog.Attr   { return slog.String(KeyBaseDir, p) }
func Reference(r string) slog.Attr { return slog.String(KeyReference, r) }
func Kind(k string) slog.Attr      { return slog.String(KeyKind, k) }
func Path(p string) slog.Attr      { return slog.String(KeyPath, p) }
func URL(u string) slog.Attr       { return slog.String(KeyURL, u) }
func Line(n int) slog.Attr         { return slog.Int(KeyLine, n) }
func Lines(n int) slog.Attr        { return slog.Int(KeyLines, n) }
func Bytes(n int64) slog.Attr      { return slog.Int64(KeyBytes, n) }
func Status(code int) slog.Attr    { return slog.Int(KeyStatus, code) }
func Op(op string) slog.Attr       { return slog.String(KeyOp, op) }

// Duration reports d in milliseconds under the duration_ms key.
func Duration(d time.Duration) slog.Attr {
	return slog.Float64(KeyDurationMS, float64(d)/float64(time.Millisecond))
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
