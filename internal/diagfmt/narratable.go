package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"caret/internal/diag"
	"caret/internal/source"
)

// Narratable renders diagnostics as plain prose with no layout characters,
// for screen readers and other contexts where box drawing is noise. Every
// fact the graphical renderer draws is spoken instead: snippet position,
// numbered source lines, and the column range of every label.
type Narratable struct {
	opts Options
}

func NewNarratable(opts Options) *Narratable {
	return &Narratable{opts: opts}
}

func (n *Narratable) RenderBag(w io.Writer, fs *source.FileSet, bag *diag.Bag) error {
	var b strings.Builder
	for i, d := range bag.Items() {
		if i > 0 {
			b.WriteByte('\n')
		}
		n.renderReport(&b, fs, &d, 0)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func (n *Narratable) RenderReport(w io.Writer, fs *source.FileSet, d *diag.Diagnostic) error {
	var b strings.Builder
	n.renderReport(&b, fs, d, 0)
	_, err := io.WriteString(w, b.String())
	return err
}

func (n *Narratable) renderReport(b *strings.Builder, fs *source.FileSet, d *diag.Diagnostic, depth int) {
	if depth > maxRelatedDepth {
		return
	}
	b.WriteString(d.Message)
	b.WriteByte('\n')
	for _, cause := range d.Causes {
		b.WriteString("    Caused by: " + cause + "\n")
	}
	if f := fs.Get(d.File); f != nil && len(d.Labels) > 0 {
		n.renderSnippets(b, f, d.Labels)
	}
	b.WriteString("diagnostic severity: " + d.Severity.String() + "\n")
	if d.Code != "" {
		b.WriteString("diagnostic code: " + string(d.Code) + "\n")
	}
	if d.Help != "" {
		b.WriteString("diagnostic help: " + d.Help + "\n")
	}
	if d.URL != "" {
		b.WriteString("For details, see " + d.URL + "\n")
	}
	for i := range d.Related {
		b.WriteByte('\n')
		n.renderReport(b, fs, &d.Related[i], depth+1)
	}
}

func (n *Narratable) renderSnippets(b *strings.Builder, f *source.File, labels []source.LabeledSpan) {
	windows, failed := buildWindows(f.Content, labels, n.opts.ContextBefore, n.opts.ContextAfter)
	for _, l := range failed {
		name := l.Label
		if name == "" {
			name = "<none>"
		}
		fmt.Fprintf(b, "Failed to read contents for label '%s' (offset: %d, length: %d): %v\n",
			name, l.Offset, l.Length, source.ErrOutOfBounds)
	}
	for i := range windows {
		n.renderWindow(b, f, &windows[i])
	}
}

func (n *Narratable) renderWindow(b *strings.Builder, f *source.File, win *window) {
	lines := scanLines(win.contents)
	tab := n.opts.tabWidth()

	// Column is only nonzero for zero-context windows, which start at the
	// span offset instead of a line boundary.
	first := lines[0]
	fmt.Fprintf(b, "Begin snippet for %s starting at line %d, column %d\n",
		f.Path, first.number, win.contents.Column+1)
	for _, ln := range lines {
		fmt.Fprintf(b, "snippet line %d: %s\n", ln.number, expandTabs(ln.text, tab))
		for _, l := range win.labels {
			switch classify(ln, l.Span) {
			case relContained:
				startCol := Column(ln.text, int(l.Offset-ln.offset), tab, true)
				endCol := Column(ln.text, int(l.End()-ln.offset), tab, false)
				if endCol < startCol {
					endCol = startCol
				}
				n.speakLabel(b, ln.number, startCol, endCol, l.Label)
			case relStarts:
				startCol := Column(ln.text, int(l.Offset-ln.offset), tab, true)
				fmt.Fprintf(b, "    label starting at line %d, column %d", ln.number, startCol)
				n.speakText(b, l.Label)
			case relEnds:
				endCol := Column(ln.text, int(l.End()-ln.offset), tab, false)
				fmt.Fprintf(b, "    label ending at line %d, column %d", ln.number, endCol)
				n.speakText(b, l.Label)
			}
		}
	}
}

func (n *Narratable) speakLabel(b *strings.Builder, lineNum, startCol, endCol int, label string) {
	if startCol == endCol {
		fmt.Fprintf(b, "    label at line %d, column %d", lineNum, startCol)
	} else {
		fmt.Fprintf(b, "    label at line %d, columns %d to %d", lineNum, startCol, endCol)
	}
	n.speakText(b, label)
}

func (n *Narratable) speakText(b *strings.Builder, label string) {
	if label != "" {
		b.WriteString(": " + strings.ReplaceAll(label, "\n", " "))
	}
	b.WriteByte('\n')
}
