package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"caret/internal/diag"
	"caret/internal/source"
)

// WriteShort renders one compact line per diagnostic in the classic
// compiler format:
//
//	severity[ code] path:line:col: message
//
// Diagnostics without a resolvable position omit the location. Related
// diagnostics are flattened underneath with an indent.
func WriteShort(w io.Writer, fs *source.FileSet, bag *diag.Bag) error {
	var b strings.Builder
	for i := range bag.Items() {
		writeShortLine(&b, fs, &bag.Items()[i], 0)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeShortLine(b *strings.Builder, fs *source.FileSet, d *diag.Diagnostic, depth int) {
	if depth > maxRelatedDepth {
		return
	}
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(d.Severity.String())
	if d.Code != "" {
		b.WriteString(" " + string(d.Code))
	}
	if f := fs.Get(d.File); f != nil {
		if anchor, ok := d.PrimaryLabel(); ok && int(anchor.End()) <= len(f.Content) {
			pos, _ := fs.Resolve(d.File, anchor.Span)
			fmt.Fprintf(b, " %s:%d:%d", f.Path, pos.Line, pos.Col)
		} else {
			b.WriteString(" " + f.Path)
		}
	}
	b.WriteString(": " + d.Message + "\n")
	for i := range d.Related {
		writeShortLine(b, fs, &d.Related[i], depth+1)
	}
}
