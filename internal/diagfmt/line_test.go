package diagfmt

import (
	"testing"

	"caret/internal/source"
)

func mustRead(t *testing.T, src string, sp source.Span, before, after int) source.SpanContents {
	t.Helper()
	c, err := source.ReadSpan([]byte(src), sp, before, after)
	if err != nil {
		t.Fatalf("ReadSpan(%v): %v", sp, err)
	}
	return c
}

func TestScanLines(t *testing.T) {
	src := "alpha\nbeta\r\ngamma"
	c := mustRead(t, src, source.NewSpan(0, uint32(len(src))), 0, 0)
	lines := scanLines(c)
	want := []line{
		{number: 1, offset: 0, length: 6, text: "alpha"},
		{number: 2, offset: 6, length: 6, text: "beta"},
		{number: 3, offset: 12, length: 5, text: "gamma", atEOF: true},
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d", len(lines), len(want))
	}
	for i, w := range want {
		if lines[i] != w {
			t.Errorf("line %d = %+v, want %+v", i, lines[i], w)
		}
	}
}

func TestScanLines_NumberingContinuesAcrossWindow(t *testing.T) {
	src := "l0\nl1\nl2\nl3\n"
	c := mustRead(t, src, source.NewSpan(6, 2), 1, 0)
	lines := scanLines(c)
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0].number != 2 || lines[1].number != 3 {
		t.Errorf("line numbers = %d, %d, want 2, 3", lines[0].number, lines[1].number)
	}
}

func TestScanLines_RoundTrip(t *testing.T) {
	// Rejoining the scanned lines by their recorded offsets and lengths
	// must reproduce the window bytes exactly, for both terminator styles.
	for _, src := range []string{"foo\nbar\nbaz\n", "foo\r\nbar\r\nbaz\r\n", "one\ntwo"} {
		c := mustRead(t, src, source.NewSpan(0, uint32(len(src))), 0, 0)
		lines := scanLines(c)
		var rejoined []byte
		for _, ln := range lines {
			start := ln.offset - c.Window.Offset
			rejoined = append(rejoined, c.Data[start:start+ln.length]...)
		}
		if string(rejoined) != src {
			t.Errorf("round trip of %q gave %q", src, rejoined)
		}
	}
}

func TestScanLines_EmptyFinalLineAfterTerminator(t *testing.T) {
	// A point span past the final terminator lives on an empty line the
	// window data cannot show; the scanner must materialize it.
	c := mustRead(t, "foo\n", source.NewSpan(4, 0), 1, 1)
	lines := scanLines(c)
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	want := line{number: 2, offset: 4, length: 0, text: "", atEOF: true}
	if lines[1] != want {
		t.Errorf("final line = %+v, want %+v", lines[1], want)
	}
	if got := classify(lines[1], source.NewSpan(4, 0)); got != relContained {
		t.Errorf("classify on empty final line = %d, want %d", got, relContained)
	}
}

func TestScanLines_EmptyWindow(t *testing.T) {
	c := mustRead(t, "", source.NewSpan(0, 0), 0, 0)
	lines := scanLines(c)
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	if !lines[0].atEOF || lines[0].text != "" {
		t.Errorf("empty window line = %+v", lines[0])
	}
}

func TestClassify(t *testing.T) {
	// One window over "abc\ndefg\nhi\n": lines at [0,4), [4,9), [9,12).
	l1 := line{number: 1, offset: 0, length: 4, text: "abc"}
	l2 := line{number: 2, offset: 4, length: 5, text: "defg"}
	l3 := line{number: 3, offset: 9, length: 3, text: "hi"}
	eof := line{number: 3, offset: 9, length: 2, text: "hi", atEOF: true}

	tests := []struct {
		name string
		ln   line
		span source.Span
		want relation
	}{
		{"inside one line", l2, source.NewSpan(5, 2), relContained},
		{"whole line incl terminator", l2, source.NewSpan(4, 5), relContained},
		{"point span", l2, source.NewSpan(6, 0), relContained},
		{"point at terminator", l2, source.NewSpan(8, 0), relContained},
		{"starts here", l1, source.NewSpan(1, 6), relStarts},
		{"middle line", l2, source.NewSpan(1, 9), relFlyby},
		{"ends here", l2, source.NewSpan(1, 4), relEnds},
		{"ends exactly at line start stays previous", l2, source.NewSpan(1, 3), relNone},
		{"before the line", l3, source.NewSpan(0, 3), relNone},
		{"after the line", l1, source.NewSpan(5, 2), relNone},
		{"ends past eof line", eof, source.NewSpan(1, 11), relEnds},
		{"point at eof", eof, source.NewSpan(11, 0), relContained},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classify(tt.ln, tt.span); got != tt.want {
				t.Errorf("classify(line %d, %v) = %d, want %d", tt.ln.number, tt.span, got, tt.want)
			}
		})
	}
}

func TestMaxGutter(t *testing.T) {
	l1 := line{number: 1, offset: 0, length: 4}
	l2 := line{number: 2, offset: 4, length: 5}
	l3 := line{number: 3, offset: 9, length: 3}
	lines := []line{l1, l2, l3}

	spans := []source.LabeledSpan{
		source.Labeled("a", source.NewSpan(0, 10)),  // spans all three lines
		source.Labeled("b", source.NewSpan(1, 5)),   // lines 1..2
		source.Labeled("c", source.NewSpan(5, 2)),   // contained in line 2
	}
	if got := maxGutter(lines, spans); got != 2 {
		t.Errorf("maxGutter = %d, want 2", got)
	}
	if got := maxGutter(lines, spans[2:]); got != 0 {
		t.Errorf("maxGutter with only contained spans = %d, want 0", got)
	}
}
