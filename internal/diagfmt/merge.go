package diagfmt

import (
	"sort"

	"caret/internal/source"
)

// window is one contiguous region of source chosen for one rendered
// snippet block, together with the labels that fall inside it.
type window struct {
	// context is the merged span the window was extracted around: the
	// union of the byte ranges of every member label.
	context  source.Span
	contents source.SpanContents
	labels   []source.LabeledSpan
}

// anchor returns the label that decides the window's reported position:
// the first primary label if any, the earliest-starting one otherwise.
func (w *window) anchor() source.LabeledSpan {
	for _, l := range w.labels {
		if l.Primary {
			return l
		}
	}
	return w.labels[0]
}

// buildWindows groups labeled spans over one source into display windows.
// Spans are resolved independently first; a span whose window of lines
// intersects or abuts the previous window's is absorbed into it, provided
// extracting the merged byte range succeeds. A failed merged extraction
// abandons the merge and opens a fresh window. Labels that cannot be
// resolved at all are returned separately so the renderer can report them
// inline without dropping their siblings.
//
// Spans whose lines overlap but whose byte ranges are disjoint still merge:
// the merged range is the union [min(starts), max(ends)).
func buildWindows(src []byte, labels []source.LabeledSpan, before, after int) (windows []window, failed []source.LabeledSpan) {
	sorted := make([]source.LabeledSpan, len(labels))
	copy(sorted, labels)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Offset < sorted[j].Offset
	})

	var cur *window
	for _, l := range sorted {
		contents, err := source.ReadSpan(src, l.Span, before, after)
		if err != nil {
			failed = append(failed, l)
			continue
		}
		if cur != nil && cur.contents.Line+cur.contents.LineCount >= contents.Line {
			merged := cur.context.Cover(l.Span)
			if mc, merr := source.ReadSpan(src, merged, before, after); merr == nil {
				cur.context = merged
				cur.contents = mc
				cur.labels = append(cur.labels, l)
				continue
			}
		}
		if cur != nil {
			windows = append(windows, *cur)
		}
		cur = &window{
			context:  l.Span,
			contents: contents,
			labels:   []source.LabeledSpan{l},
		}
	}
	if cur != nil {
		windows = append(windows, *cur)
	}
	return windows, failed
}
