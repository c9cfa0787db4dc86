package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"caret/internal/diag"
	"caret/internal/source"
)

// maxRelatedDepth caps recursion into related diagnostics so an
// accidentally self-referential tree cannot run away.
const maxRelatedDepth = 8

// Graphical renders diagnostics as annotated source snippets with context
// lines, gutters for multi-line spans, underlines and label connectors.
type Graphical struct {
	opts  Options
	theme Theme
}

func NewGraphical(opts Options) *Graphical {
	return &Graphical{opts: opts, theme: NewTheme(opts.ASCII, opts.Color)}
}

// Theme returns the active theme, mainly so callers can reuse its styles.
func (g *Graphical) Theme() Theme {
	return g.theme
}

// RenderBag renders every diagnostic of the bag in order, separated by
// blank lines.
func (g *Graphical) RenderBag(w io.Writer, fs *source.FileSet, bag *diag.Bag) error {
	var b strings.Builder
	for i, d := range bag.Items() {
		if i > 0 {
			b.WriteByte('\n')
		}
		g.renderReport(&b, fs, &d, 0)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// RenderReport renders a single diagnostic, including its related
// sub-diagnostics, to w.
func (g *Graphical) RenderReport(w io.Writer, fs *source.FileSet, d *diag.Diagnostic) error {
	var b strings.Builder
	g.renderReport(&b, fs, d, 0)
	_, err := io.WriteString(w, b.String())
	return err
}

func (g *Graphical) renderReport(b *strings.Builder, fs *source.FileSet, d *diag.Diagnostic, depth int) {
	if depth > maxRelatedDepth {
		return
	}
	g.renderHeader(b, d)
	g.renderMessage(b, d)
	if f := fs.Get(d.File); f != nil && len(d.Labels) > 0 {
		b.WriteByte('\n')
		g.renderSnippets(b, f, d.Labels)
	}
	g.renderFooter(b, d)
	for i := range d.Related {
		b.WriteByte('\n')
		g.renderReport(b, fs, &d.Related[i], depth+1)
	}
}

// renderHeader draws the horizontal rule with the diagnostic code boxed
// into it, optionally linkified.
func (g *Graphical) renderHeader(b *strings.Builder, d *diag.Diagnostic) {
	chars := g.theme.Chars
	_, sevStyle := g.theme.severityCell(d.Severity)

	used := 4
	b.WriteString(strings.Repeat(chars.HBar, 4))
	if d.Code != "" {
		code := sevStyle.Render(string(d.Code))
		if g.opts.Links && d.URL != "" {
			code = linkify(d.URL, code)
		}
		b.WriteString("[")
		b.WriteString(code)
		b.WriteString("]")
		used += runewidth.StringWidth(string(d.Code)) + 2
	}
	if n := g.opts.width() - used - 7; n > 0 {
		b.WriteString(strings.Repeat(chars.HBar, n))
	}
	b.WriteString("\n\n")
}

func linkify(url, text string) string {
	return "\x1b]8;;" + url + "\x1b\\" + text + "\x1b]8;;\x1b\\"
}

// renderMessage writes the severity icon, the wrapped message, and the
// cause chain with elbow connectors.
func (g *Graphical) renderMessage(b *strings.Builder, d *diag.Diagnostic) {
	chars := g.theme.Chars
	icon, style := g.theme.severityCell(d.Severity)
	width := g.opts.width() - 2

	first := "  " + style.Render(icon) + " "
	rest := "  " + style.Render(chars.VBar) + " "
	b.WriteString(fill(d.Message, width, first, rest))
	b.WriteByte('\n')

	for i, cause := range d.Causes {
		corner := chars.LCross
		if i == len(d.Causes)-1 {
			corner = chars.LBot
		}
		first := "  " + style.Render(corner+chars.HBar+chars.RArrow) + " "
		rest := "  " + style.Render(chars.VBar) + "   "
		b.WriteString(fill(cause, width, first, rest))
		b.WriteByte('\n')
	}
}

func (g *Graphical) renderFooter(b *strings.Builder, d *diag.Diagnostic) {
	if d.Help == "" {
		return
	}
	b.WriteByte('\n')
	first := "  " + g.theme.Styles.Help.Render("help:") + " "
	b.WriteString(fill(d.Help, g.opts.width()-4, first, "        "))
	b.WriteByte('\n')
}

// renderSnippets merges the labels into display windows and renders each
// window once. Labels whose spans cannot be read degrade to an inline
// notice instead of failing their siblings.
func (g *Graphical) renderSnippets(b *strings.Builder, f *source.File, labels []source.LabeledSpan) {
	windows, failed := buildWindows(f.Content, labels, g.opts.ContextBefore, g.opts.ContextAfter)
	for _, l := range failed {
		name := l.Label
		if name == "" {
			name = "<none>"
		}
		fmt.Fprintf(b, "  Failed to read contents for label '%s' (offset: %d, length: %d): %v\n",
			name, l.Offset, l.Length, source.ErrOutOfBounds)
	}
	for i := range windows {
		g.renderWindow(b, f, &windows[i])
	}
}

// fancySpan is a labeled span with its assigned highlight style.
type fancySpan struct {
	source.LabeledSpan
	style Style
}

func (g *Graphical) renderWindow(b *strings.Builder, f *source.File, win *window) {
	chars := g.theme.Chars
	lines := scanLines(win.contents)
	spans := make([]fancySpan, len(win.labels))
	for i, l := range win.labels {
		spans[i] = fancySpan{LabeledSpan: l, style: g.theme.highlight(i)}
	}
	gutterMax := maxGutter(lines, win.labels)
	linumWidth := len(strconv.Itoa(lines[len(lines)-1].number))
	indent := strings.Repeat(" ", linumWidth+2)

	aLine, aCol := g.anchorPos(lines, win)
	fmt.Fprintf(b, "%s%s%s[%s:%d:%d]\n", indent, chars.LTop, chars.HBar, f.Path, aLine, aCol)
	b.WriteString(indent + chars.VBar + "\n")

	for _, ln := range lines {
		g.renderSourceLine(b, ln, spans, gutterMax, linumWidth)
	}

	b.WriteString(indent + chars.VBar + "\n")
	b.WriteString(indent + chars.LBot + strings.Repeat(chars.HBar, 4) + "\n")
}

// anchorPos locates the window's anchor label for the snippet header,
// 1-based in both line and display column.
func (g *Graphical) anchorPos(lines []line, win *window) (int, int) {
	anchor := win.anchor()
	for _, ln := range lines {
		if anchor.Offset >= ln.offset && (anchor.Offset < ln.end() || (ln.atEOF && anchor.Offset <= ln.end())) {
			return ln.number, Column(ln.text, int(anchor.Offset-ln.offset), g.opts.tabWidth(), true)
		}
	}
	return win.contents.Line + 1, win.contents.Column + 1
}

func (g *Graphical) renderSourceLine(b *strings.Builder, ln line, spans []fancySpan, gutterMax, linumWidth int) {
	chars := g.theme.Chars

	numText := fmt.Sprintf("%*d", linumWidth, ln.number)
	b.WriteString(" " + g.theme.Styles.LineNumber.Render(numText) + " " + chars.VBar + " ")
	b.WriteString(g.lineGutter(ln, spans, gutterMax))
	b.WriteString(g.renderText(ln.text))
	b.WriteByte('\n')

	var contained []fancySpan
	for _, hl := range spans {
		if classify(ln, hl.Span) == relContained {
			contained = append(contained, hl)
		}
	}
	if len(contained) > 0 {
		g.writeNoLinum(b, linumWidth)
		b.WriteString(g.underGutter(ln, spans, gutterMax))
		g.renderUnderlines(b, ln, contained)
		for _, hl := range contained {
			if hl.Label == "" {
				continue
			}
			g.renderLabel(b, ln, hl, spans, gutterMax, linumWidth)
		}
	}
	for i, hl := range spans {
		if classify(ln, hl.Span) == relEnds && hl.Label != "" {
			g.renderMultiLineEnd(b, ln, i, spans, gutterMax, linumWidth)
		}
	}
}

func (g *Graphical) renderText(text string) string {
	expanded := expandTabs(text, g.opts.tabWidth())
	if g.opts.Highlighter == nil {
		return expanded
	}
	var b strings.Builder
	for _, run := range g.opts.Highlighter.Highlight(expanded) {
		b.WriteString(run.Style.Render(run.Text))
	}
	return b.String()
}

func (g *Graphical) writeNoLinum(b *strings.Builder, linumWidth int) {
	b.WriteString(" " + strings.Repeat(" ", linumWidth) + " " + g.theme.Chars.VBarBreak + " ")
}

// lineGutter draws the connector cell in front of a source line: a corner
// plus arrow on the line a span starts or ends on, vertical bars for
// pass-through spans, blanks otherwise. The cell is gutterMax+3 wide so
// every line of the window aligns.
func (g *Graphical) lineGutter(ln line, spans []fancySpan, gutterMax int) string {
	if gutterMax == 0 {
		return ""
	}
	chars := g.theme.Chars
	var b strings.Builder
	width := 0
	i := 0
	for _, hl := range spans {
		rel := classify(ln, hl.Span)
		if !rel.multiline() {
			continue
		}
		if rel == relFlyby {
			b.WriteString(hl.style.Render(chars.VBar))
			width++
			i++
			continue
		}
		corner := chars.LTop
		if rel == relEnds {
			corner = chars.LBot
			if hl.Label != "" {
				corner = chars.LCross
			}
		}
		n := gutterMax - i
		if n < 1 {
			n = 1
		}
		b.WriteString(hl.style.Render(corner + strings.Repeat(chars.HBar, n) + chars.RArrow))
		width += n + 2
		break
	}
	if cell := gutterMax + 3; width < cell {
		b.WriteString(strings.Repeat(" ", cell-width))
	}
	return b.String()
}

// underGutter draws the connector cell for underline and label rows:
// vertical bars for every multi-line span still open below this line.
func (g *Graphical) underGutter(ln line, spans []fancySpan, gutterMax int) string {
	if gutterMax == 0 {
		return ""
	}
	var b strings.Builder
	width := 0
	for _, hl := range spans {
		switch classify(ln, hl.Span) {
		case relStarts, relFlyby:
			b.WriteString(hl.style.Render(g.theme.Chars.VBar))
			width++
		case relEnds:
			b.WriteString(" ")
			width++
		}
	}
	if cell := gutterMax + 3; width < cell {
		b.WriteString(strings.Repeat(" ", cell-width))
	}
	return b.String()
}

// renderUnderlines draws one row of underline runs for the contained spans
// of a line. Runs never double-draw: each one only claims columns to the
// right of the highest column claimed so far.
func (g *Graphical) renderUnderlines(b *strings.Builder, ln line, contained []fancySpan) {
	chars := g.theme.Chars
	tab := g.opts.tabWidth()
	cursor := 0
	for _, hl := range contained {
		startCol := displayColumn(ln.text, int(hl.Offset-ln.offset), tab)
		endCol := displayColumn(ln.text, int(hl.End()-ln.offset), tab)
		width := endCol - startCol
		if width < 1 {
			width = 1
		}
		end := startCol + width
		start := startCol
		if cursor > start {
			start = cursor
		}
		if start >= end {
			continue
		}
		b.WriteString(strings.Repeat(" ", start-cursor))
		mid := startCol + width/2
		var run strings.Builder
		for c := start; c < end; c++ {
			switch {
			case hl.Empty() && c == startCol:
				run.WriteString(chars.UArrow)
			case hl.Label != "" && c == mid:
				run.WriteString(chars.Underbar)
			default:
				run.WriteString(chars.Underline)
			}
		}
		b.WriteString(hl.style.Render(run.String()))
		cursor = end
	}
	b.WriteByte('\n')
}

// renderLabel draws the elbow connector from an underline's midpoint to
// its label text, plus one continuation row per extra label line.
func (g *Graphical) renderLabel(b *strings.Builder, ln line, hl fancySpan, spans []fancySpan, gutterMax, linumWidth int) {
	chars := g.theme.Chars
	tab := g.opts.tabWidth()

	startCol := displayColumn(ln.text, int(hl.Offset-ln.offset), tab)
	endCol := displayColumn(ln.text, int(hl.End()-ln.offset), tab)
	width := endCol - startCol
	if width < 1 {
		width = 1
	}
	mid := startCol + width/2
	numRight := startCol + width - mid - 1

	for k, part := range strings.Split(hl.Label, "\n") {
		g.writeNoLinum(b, linumWidth)
		b.WriteString(g.underGutter(ln, spans, gutterMax))
		b.WriteString(strings.Repeat(" ", mid))
		if k == 0 {
			b.WriteString(hl.style.Render(chars.LBot + strings.Repeat(chars.HBar, numRight+1)))
		} else {
			b.WriteString(hl.style.Render(chars.VBar) + strings.Repeat(" ", numRight+1))
		}
		b.WriteString(" " + hl.style.Render(part) + "\n")
	}
}

// renderMultiLineEnd draws the trailing label row for a multi-line span on
// its terminal line.
func (g *Graphical) renderMultiLineEnd(b *strings.Builder, ln line, idx int, spans []fancySpan, gutterMax, linumWidth int) {
	chars := g.theme.Chars
	hl := spans[idx]
	g.writeNoLinum(b, linumWidth)

	j := 0
	for k := range spans {
		rel := classify(ln, spans[k].Span)
		if !rel.multiline() {
			continue
		}
		if k == idx {
			b.WriteString(hl.style.Render(chars.LBot + strings.Repeat(chars.HBar, gutterMax-j+2)))
			break
		}
		switch rel {
		case relStarts, relFlyby:
			b.WriteString(spans[k].style.Render(chars.VBar))
		case relEnds:
			b.WriteString(" ")
		}
		j++
	}
	parts := strings.Split(hl.Label, "\n")
	b.WriteString(" " + hl.style.Render(parts[0]) + "\n")
	for _, part := range parts[1:] {
		g.writeNoLinum(b, linumWidth)
		b.WriteString(strings.Repeat(" ", gutterMax+4))
		b.WriteString(hl.style.Render(part) + "\n")
	}
}
