package diagfmt

import (
	"strings"

	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/wordwrap"
)

// fill wraps text to width and prefixes the first line with first and every
// following line with rest. The wrapping itself is reflow's job; this only
// computes the inner width from the indent widths, which may carry ANSI
// styling.
func fill(text string, width int, first, rest string) string {
	indent := ansi.PrintableRuneWidth(first)
	if r := ansi.PrintableRuneWidth(rest); r > indent {
		indent = r
	}
	inner := width - indent
	if inner < 1 {
		inner = 1
	}
	wrapped := wordwrap.String(text, inner)
	lines := strings.Split(wrapped, "\n")
	var b strings.Builder
	for i, l := range lines {
		if i == 0 {
			b.WriteString(first)
		} else {
			b.WriteByte('\n')
			b.WriteString(rest)
		}
		b.WriteString(l)
	}
	return b.String()
}
