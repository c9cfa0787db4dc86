package diagfmt

import (
	"strings"
	"testing"

	"caret/internal/diag"
	"caret/internal/source"
)

func asciiOptions() Options {
	opts := DefaultOptions()
	opts.Width = 40
	opts.ASCII = true
	return opts
}

func renderToString(t *testing.T, opts Options, fs *source.FileSet, d diag.Diagnostic) string {
	t.Helper()
	var b strings.Builder
	if err := NewGraphical(opts).RenderReport(&b, fs, &d); err != nil {
		t.Fatalf("RenderReport: %v", err)
	}
	return b.String()
}

func TestGraphical_SingleLineReport(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("main.src", []byte("fn main() {\n    return 1;\n}\n"))
	d := diag.NewError("E0001", id, "bad return").
		WithPrimaryLabel("not allowed here", source.NewSpan(16, 6))

	got := renderToString(t, asciiOptions(), fs, d)
	want := "----[E0001]----------------------\n" +
		"\n" +
		"  x bad return\n" +
		"\n" +
		"   ,-[main.src:2:5]\n" +
		"   |\n" +
		" 1 | fn main() {\n" +
		" 2 |     return 1;\n" +
		"   :     ^^^|^^\n" +
		"   :        `--- not allowed here\n" +
		" 3 | }\n" +
		"   |\n" +
		"   `----\n"
	if got != want {
		t.Errorf("render mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestGraphical_MultiLineSpan(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("flow.src", []byte("if cond {\n  a();\n  b();\n}\n"))
	d := diag.NewError("E0002", id, "block never exits").
		WithPrimaryLabel("block", source.NewSpan(8, 17))

	got := renderToString(t, asciiOptions(), fs, d)
	if !strings.Contains(got, ",-> if cond {") {
		t.Errorf("missing start connector:\n%s", got)
	}
	if !strings.Contains(got, "|   ") || !strings.Contains(got, "  a();") {
		t.Errorf("missing pass-through bar on middle lines:\n%s", got)
	}
	if !strings.Contains(got, "`--- block") {
		t.Errorf("missing end label row:\n%s", got)
	}
}

func TestGraphical_ZeroLengthSpanDrawsPointMarker(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("p.src", []byte("let x = ;\n"))
	d := diag.NewError("E0003", id, "missing expression").
		WithPrimaryLabel("expected a value", source.NewSpan(8, 0))

	opts := DefaultOptions()
	opts.Width = 40
	got := renderToString(t, opts, fs, d)
	if !strings.Contains(got, "▲") {
		t.Errorf("zero-length span should draw a point marker:\n%s", got)
	}
	if strings.Contains(got, "──▲") || strings.Contains(got, "▲─") {
		t.Errorf("point marker should occupy exactly one column:\n%s", got)
	}
}

func TestGraphical_PointSpanAtEndOfSource(t *testing.T) {
	tests := []struct {
		name       string
		src        string
		offset     uint32
		wantAnchor string
	}{
		// The marker lands on the empty line after the final terminator.
		{"after trailing terminator", "foo\n", 4, "eof.src:2:1"},
		{"unterminated final line", "foo\nbar", 7, "eof.src:2:4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := source.NewFileSet()
			id := fs.AddVirtual("eof.src", []byte(tt.src))
			d := diag.NewError("E0010", id, "unexpected end of input").
				WithPrimaryLabel("expected more input", source.NewSpan(tt.offset, 0))

			opts := DefaultOptions()
			opts.Width = 40
			got := renderToString(t, opts, fs, d)
			if !strings.Contains(got, "▲") {
				t.Errorf("point span at end of source should draw a marker:\n%s", got)
			}
			if !strings.Contains(got, "expected more input") {
				t.Errorf("label text missing:\n%s", got)
			}
			if !strings.Contains(got, tt.wantAnchor) {
				t.Errorf("snippet header should anchor at %s:\n%s", tt.wantAnchor, got)
			}
		})
	}
}

func TestGraphical_OutOfBoundsLabelDegradesInline(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("s.src", []byte("short\n"))
	d := diag.NewError("E0004", id, "broken span").
		WithPrimaryLabel("fine", source.NewSpan(0, 5)).
		WithLabel("oops", source.NewSpan(100, 5))

	got := renderToString(t, asciiOptions(), fs, d)
	notice := "Failed to read contents for label 'oops' (offset: 100, length: 5): OutOfBounds"
	if !strings.Contains(got, notice) {
		t.Errorf("missing out-of-bounds notice:\n%s", got)
	}
	if !strings.Contains(got, "fine") || !strings.Contains(got, "short") {
		t.Errorf("healthy sibling label was dropped:\n%s", got)
	}
}

func TestGraphical_UnlabeledOutOfBoundsUsesPlaceholder(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("s.src", []byte("short\n"))
	d := diag.NewError("E0004", id, "broken span").
		WithUnderline(source.NewSpan(50, 2))

	got := renderToString(t, asciiOptions(), fs, d)
	if !strings.Contains(got, "Failed to read contents for label '<none>' (offset: 50, length: 2): OutOfBounds") {
		t.Errorf("missing placeholder notice:\n%s", got)
	}
}

func TestGraphical_OverlappingUnderlinesNeverDoubleDraw(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("o.src", []byte("abcdefghij"))
	d := diag.NewError("E0005", id, "overlap").
		WithUnderline(source.NewSpan(2, 4)).
		WithUnderline(source.NewSpan(4, 4))

	opts := asciiOptions()
	opts.ContextBefore = 0
	opts.ContextAfter = 0
	got := renderToString(t, opts, fs, d)
	if !strings.Contains(got, "   : ^^^^^^\n") {
		t.Errorf("overlapping spans should merge into one six-column run:\n%s", got)
	}
}

func TestGraphical_RelatedRecursionCapped(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("r.src", []byte("x\n"))
	d := diag.NewError("E0006", id, "deep diagnostics")
	for i := 0; i < 11; i++ {
		d = diag.NewError("E0006", id, "deep diagnostics").WithRelated(d)
	}

	got := renderToString(t, asciiOptions(), fs, d)
	if n := strings.Count(got, "deep diagnostics"); n != maxRelatedDepth+1 {
		t.Errorf("rendered %d nested diagnostics, want %d", n, maxRelatedDepth+1)
	}
}

func TestGraphical_WrapsLongMessages(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("w.src", []byte("x\n"))
	msg := "this message is considerably longer than the configured terminal width and must wrap"
	d := diag.NewError("E0007", id, msg)

	opts := asciiOptions()
	opts.Width = 30
	got := renderToString(t, opts, fs, d)
	if !strings.Contains(got, "\n  | ") {
		t.Errorf("wrapped message lines should continue under a bar:\n%s", got)
	}
}

func TestGraphical_CausesAndHelp(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("c.src", []byte("x\n"))
	d := diag.NewError("E0008", id, "top level failure").
		WithCause("middle layer gave up").
		WithCause("root cause").
		WithHelp("try turning it off and on again")

	got := renderToString(t, asciiOptions(), fs, d)
	if !strings.Contains(got, "|-> middle layer gave up") {
		t.Errorf("missing chained cause connector:\n%s", got)
	}
	if !strings.Contains(got, "`-> root cause") {
		t.Errorf("last cause should use the closing corner:\n%s", got)
	}
	if !strings.Contains(got, "help: try turning it off and on again") {
		t.Errorf("missing help footer:\n%s", got)
	}
}

func TestGraphical_RenderBagSeparatesReports(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("b.src", []byte("x\n"))
	bag := diag.NewBag(16)
	bag.Add(diag.NewError("E1", id, "first report"))
	bag.Add(diag.NewWarning("W1", id, "second report"))

	var b strings.Builder
	if err := NewGraphical(asciiOptions()).RenderBag(&b, fs, bag); err != nil {
		t.Fatalf("RenderBag: %v", err)
	}
	got := b.String()
	first := strings.Index(got, "first report")
	second := strings.Index(got, "second report")
	if first < 0 || second < 0 || second < first {
		t.Errorf("bag rendering out of order:\n%s", got)
	}
	if !strings.Contains(got, "!") {
		t.Errorf("warning icon missing:\n%s", got)
	}
}
