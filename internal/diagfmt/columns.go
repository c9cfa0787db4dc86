package diagfmt

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// expandTabs replaces every tab with tabWidth spaces. Line text is expanded
// before display and before any column measurement, so underlines stay
// aligned with what the terminal actually shows.
func expandTabs(text string, tabWidth int) string {
	if !strings.ContainsRune(text, '\t') {
		return text
	}
	return strings.ReplaceAll(text, "\t", strings.Repeat(" ", tabWidth))
}

// displayColumn returns the 0-based display column of byte offset off in
// text: the summed display width of everything before it, with wide runes
// counting 2 and tabs counting tabWidth. Offsets that fall inside a
// multi-byte rune (a span cut mid-character upstream) take the slow walk
// and land after the rune containing them; nothing panics.
func displayColumn(text string, off, tabWidth int) int {
	if off <= 0 {
		return 0
	}
	if off >= len(text) {
		return lineWidth(text, tabWidth)
	}
	if utf8.RuneStart(text[off]) {
		return lineWidth(text[:off], tabWidth)
	}
	w := 0
	for i, r := range text {
		if i >= off {
			break
		}
		w += runeCell(r, tabWidth)
	}
	return w
}

// Column returns the 1-based display column for a byte offset within a
// line. Span starts are inclusive and get the extra +1; span ends are
// exclusive and do not.
func Column(text string, off, tabWidth int, isStart bool) int {
	c := displayColumn(text, off, tabWidth)
	if isStart {
		c++
	}
	return c
}

func lineWidth(text string, tabWidth int) int {
	w := 0
	for _, r := range text {
		w += runeCell(r, tabWidth)
	}
	return w
}

func runeCell(r rune, tabWidth int) int {
	if r == '\t' {
		return tabWidth
	}
	return runewidth.RuneWidth(r)
}
