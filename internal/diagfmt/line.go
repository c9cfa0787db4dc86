package diagfmt

import (
	"fortio.org/safecast"

	"caret/internal/source"
)

// line is one display line of an extracted window, in absolute source
// coordinates.
type line struct {
	// number is the 1-based global line number, stable across merges.
	number int
	// offset is the byte offset of the line start in the whole source.
	offset uint32
	// length is the byte length of the line including its terminator.
	length uint32
	// text is the decoded line content without the terminator.
	text string
	// atEOF marks the final line of a window whose last byte is not a line
	// terminator.
	atEOF bool
}

func (l line) end() uint32 {
	return l.offset + l.length
}

// scanLines splits an extracted window into lines. Numbering continues the
// resolver's count instead of restarting per window: the first line gets
// contents.Line + 1.
func scanLines(contents source.SpanContents) []line {
	data := contents.Data
	base := contents.Window.Offset
	lines := make([]line, 0, contents.LineCount)

	lineStart := 0
	for i := 0; i < len(data); {
		adv := 1
		if data[i] == '\r' && i+1 < len(data) && data[i+1] == '\n' {
			adv = 2
		} else if data[i] != '\n' {
			i++
			continue
		}
		text := string(data[lineStart:i])
		i += adv
		lines = append(lines, line{
			number: contents.Line + 1 + len(lines),
			offset: base + mustU32(lineStart),
			length: mustU32(i - lineStart),
			text:   text,
		})
		lineStart = i
	}
	// Trailing data becomes the final line. The resolver may also have
	// counted an empty line past the window's last terminator (a span at
	// end of input); materialize it so such spans have a line to land on.
	if lineStart < len(data) || len(lines) < contents.LineCount {
		lines = append(lines, line{
			number: contents.Line + 1 + len(lines),
			offset: base + mustU32(lineStart),
			length: mustU32(len(data) - lineStart),
			text:   string(data[lineStart:]),
			atEOF:  true,
		})
	}
	return lines
}

func mustU32(v int) uint32 {
	u, err := safecast.Conv[uint32](v)
	if err != nil {
		panic(err)
	}
	return u
}

// relation classifies how a span relates to one line.
type relation uint8

const (
	relNone relation = iota
	// relContained: the span lies fully within the line (single-line span,
	// drawn as an underline; zero-length spans draw a point marker).
	relContained
	// relStarts: first line of a multi-line span.
	relStarts
	// relEnds: last line of a multi-line span.
	relEnds
	// relFlyby: a middle line the span passes through without starting or
	// ending there; contributes only a vertical connector.
	relFlyby
)

// classify places a span in exactly one relation to a line. A span that
// both starts and ends on the line is always relContained.
func classify(l line, s source.Span) relation {
	ls, le := l.offset, l.end()
	start, end := s.Offset, s.End()
	switch {
	case start >= ls && end <= le && (start < le || (l.atEOF && start == le)):
		return relContained
	case start >= ls && start < le && end > le:
		return relStarts
	case start < ls && end > ls && (end <= le || l.atEOF):
		return relEnds
	case start < ls && end > le:
		return relFlyby
	default:
		return relNone
	}
}

// multiline reports whether the relation consumes a gutter column.
// Contained spans render as underlines and never do.
func (r relation) multiline() bool {
	return r == relStarts || r == relEnds || r == relFlyby
}

// maxGutter is the widest simultaneous set of multi-line connectors over
// the window; it fixes the gutter indentation for every rendered line.
func maxGutter(lines []line, spans []source.LabeledSpan) int {
	most := 0
	for _, l := range lines {
		n := 0
		for _, s := range spans {
			if classify(l, s.Span).multiline() {
				n++
			}
		}
		if n > most {
			most = n
		}
	}
	return most
}
