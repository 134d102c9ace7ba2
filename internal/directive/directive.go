// Package directive recognizes yfile include directives in document lines.
//
// A directive occupies a whole line:
//
//	<?yfile include="REFERENCE"?>
//
// optionally indented and with optional blanks before the closing "?>".
// The reference is taken verbatim; a double quote inside it is not supported.
package directive

import "regexp"

var includeRe = regexp.MustCompile(`^[ \t]*<\?yfile include="([^"]*)"[ \t]*\?>[ \t]*(?:\r?\n)?$`)

// Directive is a matched include directive.
type Directive struct {
	// Reference is the quoted value of the include attribute.
	Reference string
	// Line is the 1-based input line number the directive was found on.
	Line int
}

// Parse reports whether line is an include directive and returns it.
// line may carry its terminator.
func Parse(line string, lineNo int) (Directive, bool) {
	m := includeRe.FindStringSubmatch(line)
	if m == nil {
		return Directive{}, false
	}
	return Directive{Reference: m[1], Line: lineNo}, true
}

// Format renders the canonical directive line for reference, without terminator.
func Format(reference string) string {
	return `<?yfile include="` + reference + `"?>`
}
