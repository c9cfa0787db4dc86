package diag

import (
	"caret/internal/source"
)

// Code is a stable machine-readable identifier such as "parse::unexpected".
// An empty code means the diagnostic has none.
type Code string

func (c Code) String() string {
	return string(c)
}

// Diagnostic is the central record: one finding against one source file,
// with any number of labeled spans pointing into it. Related diagnostics
// form a tree that renderers walk recursively.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Help     string
	URL      string
	File     source.FileID
	Labels   []source.LabeledSpan
	Causes   []string
	Related  []Diagnostic
}

// PrimaryLabel returns the anchor label: the first label marked primary, or
// the earliest-starting label otherwise.
func (d *Diagnostic) PrimaryLabel() (source.LabeledSpan, bool) {
	if len(d.Labels) == 0 {
		return source.LabeledSpan{}, false
	}
	best := d.Labels[0]
	for _, l := range d.Labels[1:] {
		if l.Primary && !best.Primary {
			best = l
			continue
		}
		if l.Primary == best.Primary && l.Offset < best.Offset {
			best = l
		}
	}
	return best, true
}
