package source

import (
	"fmt"
)

// Span is a half-open byte range [Offset, Offset+Length) over a source's
// bytes. A zero Length is valid and denotes a point location.
type Span struct {
	Offset uint32
	Length uint32
}

func NewSpan(offset, length uint32) Span {
	return Span{Offset: offset, Length: length}
}

// End returns the exclusive end offset of the span.
func (s Span) End() uint32 {
	return s.Offset + s.Length
}

func (s Span) Empty() bool {
	return s.Length == 0
}

func (s Span) String() string {
	return fmt.Sprintf("%d-%d", s.Offset, s.End())
}

// Cover returns the smallest span that contains both s and other.
func (s Span) Cover(other Span) Span {
	start := s.Offset
	if other.Offset < start {
		start = other.Offset
	}
	end := s.End()
	if other.End() > end {
		end = other.End()
	}
	return Span{Offset: start, Length: end - start}
}

// Intersects reports whether the two byte ranges share at least one byte.
func (s Span) Intersects(other Span) bool {
	return s.Offset < other.End() && other.Offset < s.End()
}

// LabeledSpan attaches an optional label and a primary marker to a span.
// An empty Label means the span is unlabeled. Primary spans win tie-breaks
// when several spans compete to anchor a display window.
type LabeledSpan struct {
	Span
	Label   string
	Primary bool
}

func Labeled(label string, span Span) LabeledSpan {
	return LabeledSpan{Span: span, Label: label}
}

func Underline(span Span) LabeledSpan {
	return LabeledSpan{Span: span}
}

func (l LabeledSpan) Labeled() bool {
	return l.Label != ""
}
