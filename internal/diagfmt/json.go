package diagfmt

import (
	"encoding/json"
	"io"

	"caret/internal/diag"
	"caret/internal/source"
)

// LabelJSON is a labeled span with its resolved line/column positions.
type LabelJSON struct {
	Label     string `json:"label,omitempty"`
	Primary   bool   `json:"primary,omitempty"`
	Offset    uint32 `json:"offset"`
	Length    uint32 `json:"length"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

// DiagnosticJSON mirrors Diagnostic with positions resolved against the
// file set, for tooling that consumes diagnostics instead of reading them.
type DiagnosticJSON struct {
	Severity string           `json:"severity"`
	Code     string           `json:"code,omitempty"`
	Message  string           `json:"message"`
	Help     string           `json:"help,omitempty"`
	URL      string           `json:"url,omitempty"`
	File     string           `json:"file,omitempty"`
	Labels   []LabelJSON      `json:"labels,omitempty"`
	Causes   []string         `json:"causes,omitempty"`
	Related  []DiagnosticJSON `json:"related,omitempty"`
}

// Output is the root structure of the JSON rendering.
type Output struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

func makeLabel(fs *source.FileSet, id source.FileID, l source.LabeledSpan) LabelJSON {
	out := LabelJSON{
		Label:   l.Label,
		Primary: l.Primary,
		Offset:  l.Offset,
		Length:  l.Length,
	}
	if f := fs.Get(id); f != nil && int(l.End()) <= len(f.Content) {
		start, end := fs.Resolve(id, l.Span)
		out.StartLine, out.StartCol = start.Line, start.Col
		out.EndLine, out.EndCol = end.Line, end.Col
	}
	return out
}

func makeDiagnostic(fs *source.FileSet, d *diag.Diagnostic, depth int) DiagnosticJSON {
	out := DiagnosticJSON{
		Severity: d.Severity.String(),
		Code:     string(d.Code),
		Message:  d.Message,
		Help:     d.Help,
		URL:      d.URL,
		Causes:   d.Causes,
	}
	if f := fs.Get(d.File); f != nil {
		out.File = f.Path
	}
	for _, l := range d.Labels {
		out.Labels = append(out.Labels, makeLabel(fs, d.File, l))
	}
	if depth < maxRelatedDepth {
		for i := range d.Related {
			out.Related = append(out.Related, makeDiagnostic(fs, &d.Related[i], depth+1))
		}
	}
	return out
}

// WriteJSON renders the bag as an indented JSON document.
func WriteJSON(w io.Writer, fs *source.FileSet, bag *diag.Bag) error {
	items := bag.Items()
	out := Output{
		Diagnostics: make([]DiagnosticJSON, 0, len(items)),
		Count:       len(items),
	}
	for i := range items {
		out.Diagnostics = append(out.Diagnostics, makeDiagnostic(fs, &items[i], 0))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
