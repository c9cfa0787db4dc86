package diagfmt

// Options configures snippet rendering.
type Options struct {
	// Width is the terminal width reports are wrapped to. Zero means 100.
	Width int
	// ContextBefore and ContextAfter are the number of whole context lines
	// extracted around each span.
	ContextBefore int
	ContextAfter  int
	// TabWidth is the number of spaces a tab expands to. Zero means 4.
	TabWidth int
	// Color enables styled output. Off renders plain text.
	Color bool
	// ASCII selects the ASCII glyph set instead of unicode drawing chars.
	ASCII bool
	// Links renders diagnostic codes as terminal hyperlinks when a URL is
	// present.
	Links bool
	// Highlighter optionally styles source line text. Nil leaves lines
	// plain; this package never tokenizes source itself.
	Highlighter Highlighter
}

// DefaultOptions is what the CLI ships with: one context line on each
// side, four-column tabs, a 100 column wrap.
func DefaultOptions() Options {
	return Options{
		Width:         100,
		ContextBefore: 1,
		ContextAfter:  1,
		TabWidth:      4,
	}
}

func (o Options) width() int {
	if o.Width <= 0 {
		return 100
	}
	return o.Width
}

func (o Options) tabWidth() int {
	if o.TabWidth <= 0 {
		return 4
	}
	return o.TabWidth
}

// StyledRun is one styled substring of a source line, produced by an
// external Highlighter.
type StyledRun struct {
	Text  string
	Style Style
}

// Highlighter supplies styled sub-runs for a single line of source text.
// Implementations live outside this package; the renderer only feeds them
// line boundaries.
type Highlighter interface {
	Highlight(line string) []StyledRun
}
