package diagfmt

import "testing"

func TestDisplayColumn(t *testing.T) {
	tests := []struct {
		name string
		text string
		off  int
		tab  int
		want int
	}{
		{"start", "hello", 0, 4, 0},
		{"ascii mid", "hello", 3, 4, 3},
		{"past end clamps", "hi", 10, 4, 2},
		{"negative clamps", "hi", -1, 4, 0},
		{"tab expands", "\tx", 1, 4, 4},
		{"tab width honored", "\tx", 1, 8, 8},
		{"two tabs", "\t\tx", 2, 4, 8},
		{"wide cjk", "日本語", 6, 4, 4},
		{"cjk end", "日本語", 9, 4, 6},
		{"emoji", "🙂x", 4, 4, 2},
		{"mid-rune lands after it", "日x", 1, 4, 2},
		{"mixed tab and wide", "\t日x", 4, 4, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := displayColumn(tt.text, tt.off, tt.tab); got != tt.want {
				t.Errorf("displayColumn(%q, %d, %d) = %d, want %d", tt.text, tt.off, tt.tab, got, tt.want)
			}
		})
	}
}

func TestColumn(t *testing.T) {
	// Starts are 1-based inclusive, ends 1-based exclusive.
	if got := Column("hello", 0, 4, true); got != 1 {
		t.Errorf("start column = %d, want 1", got)
	}
	if got := Column("hello", 5, 4, false); got != 5 {
		t.Errorf("end column = %d, want 5", got)
	}
	if got := Column("日本", 3, 4, true); got != 3 {
		t.Errorf("cjk start column = %d, want 3", got)
	}
}

func TestExpandTabs(t *testing.T) {
	if got := expandTabs("a\tb", 4); got != "a    b" {
		t.Errorf("expandTabs = %q, want %q", got, "a    b")
	}
	if got := expandTabs("plain", 4); got != "plain" {
		t.Errorf("expandTabs without tabs = %q, want unchanged", got)
	}
}
