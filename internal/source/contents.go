package source

import (
	"errors"
)

// ErrOutOfBounds reports a span whose byte range exceeds the source it was
// resolved against. It is the only domain error in this package; callers are
// expected to recover from it per span rather than abort a whole report.
var ErrOutOfBounds = errors.New("OutOfBounds")

// SpanContents is the result of extracting a window of context around a span.
// The window may be larger than the span itself when context lines were
// requested; it always covers the span in full.
type SpanContents struct {
	// Data holds the extracted bytes of the window.
	Data []byte
	// Window is the extracted range in absolute source offsets.
	Window Span
	// Line is the 0-based line index of the window's first line.
	Line int
	// Column is the 0-based column of the span's start. It is only nonzero
	// when no context lines before were requested; a widened window always
	// begins at a line boundary.
	Column int
	// LineCount is the number of lines covered by the window.
	LineCount int
}

// ReadSpan resolves span against src and extracts a window with up to
// `before` whole lines of leading context and `after` whole lines of
// trailing context. Line boundaries are "\n" or "\r\n" (consumed as one
// boundary); a lone "\r" is ordinary content. Returns ErrOutOfBounds when
// the span's byte range does not fit inside src.
func ReadSpan(src []byte, span Span, before, after int) (SpanContents, error) {
	end64 := uint64(span.Offset) + uint64(span.Length)
	if end64 > uint64(len(src)) {
		return SpanContents{}, ErrOutOfBounds
	}
	spanEnd := uint32(end64)
	n := uint32(len(src))

	var (
		// starts of the most recent `before` lines that lie fully before
		// the span's first line, oldest first
		retained      []uint32
		lineStart     uint32
		line          int
		spanLine      = -1
		spanLineStart uint32
		spanCol       int
		winEnd        = n
		afterSeen     int
	)

	for i := uint32(0); i < n; {
		c := src[i]
		adv := uint32(1)
		if c == '\r' && i+1 < n && src[i+1] == '\n' {
			adv = 2
		} else if c != '\n' {
			i++
			continue
		}
		i += adv
		// a line [lineStart, i) just ended
		if i <= span.Offset {
			retained = append(retained, lineStart)
			if len(retained) > before {
				retained = retained[1:]
			}
		} else {
			if spanLine < 0 {
				spanLine = line
				spanLineStart = lineStart
				spanCol = int(span.Offset - lineStart)
			}
			if i >= spanEnd {
				if afterSeen >= after {
					winEnd = i
					lineStart = i
					line++
					break
				}
				afterSeen++
			}
		}
		lineStart = i
		line++
	}
	if spanLine < 0 {
		// span starts on the final, unterminated line (or at end of input)
		spanLine = line
		spanLineStart = lineStart
		spanCol = int(span.Offset - lineStart)
	}

	var winStart uint32
	startLine := spanLine
	startCol := 0
	switch {
	case before == 0:
		winStart = span.Offset
		startCol = spanCol
	case len(retained) > 0:
		winStart = retained[0]
		startLine = spanLine - len(retained)
	default:
		winStart = spanLineStart
	}

	data := src[winStart:winEnd]
	lineCount := countLines(data)
	if spanLineStart == winEnd && winEnd > winStart {
		// The span sits on the empty line after the window's trailing
		// terminator at end of input (an "unexpected EOF" position). That
		// line holds no bytes, so countLines cannot see it; count it here
		// and let the line scanner materialize it.
		lineCount++
	}
	return SpanContents{
		Data:      data,
		Window:    Span{Offset: winStart, Length: winEnd - winStart},
		Line:      startLine,
		Column:    startCol,
		LineCount: lineCount,
	}, nil
}

// countLines counts display lines in a window. A trailing terminator closes
// the final line instead of opening an empty one.
func countLines(data []byte) int {
	if len(data) == 0 {
		return 1
	}
	count := 0
	terminated := false
	for i := 0; i < len(data); {
		if data[i] == '\n' {
			count++
			terminated = true
			i++
		} else if data[i] == '\r' && i+1 < len(data) && data[i+1] == '\n' {
			count++
			terminated = true
			i += 2
		} else {
			terminated = false
			i++
		}
	}
	if !terminated {
		count++
	}
	return count
}
