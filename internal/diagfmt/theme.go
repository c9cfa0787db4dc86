package diagfmt

import (
	"github.com/charmbracelet/lipgloss"

	"caret/internal/diag"
)

// Style aliases the lipgloss style type so collaborators (highlighters)
// do not need to import lipgloss themselves.
type Style = lipgloss.Style

// Characters is the glyph set used to draw snippet scaffolding.
type Characters struct {
	HBar      string
	VBar      string
	VBarBreak string

	UArrow string
	RArrow string

	LTop   string
	RTop   string
	LBot   string
	RBot   string
	LCross string

	Underbar  string
	Underline string

	ErrorIcon   string
	WarningIcon string
	AdviceIcon  string
}

// UnicodeCharacters draws with box-drawing glyphs.
func UnicodeCharacters() Characters {
	return Characters{
		HBar:        "─",
		VBar:        "│",
		VBarBreak:   "·",
		UArrow:      "▲",
		RArrow:      "▶",
		LTop:        "╭",
		RTop:        "╮",
		LBot:        "╰",
		RBot:        "╯",
		LCross:      "├",
		Underbar:    "┬",
		Underline:   "─",
		ErrorIcon:   "×",
		WarningIcon: "⚠",
		AdviceIcon:  "☞",
	}
}

// ASCIICharacters draws with plain ASCII, for dumb terminals and tests.
func ASCIICharacters() Characters {
	return Characters{
		HBar:        "-",
		VBar:        "|",
		VBarBreak:   ":",
		UArrow:      "^",
		RArrow:      ">",
		LTop:        ",",
		RTop:        ".",
		LBot:        "`",
		RBot:        "'",
		LCross:      "|",
		Underbar:    "|",
		Underline:   "^",
		ErrorIcon:   "x",
		WarningIcon: "!",
		AdviceIcon:  ">",
	}
}

// Styles carries the lipgloss styles for every rendered element. Zero-value
// styles render text unchanged, which is how colorless output works.
type Styles struct {
	Error      Style
	Warning    Style
	Advice     Style
	Help       Style
	Link       Style
	LineNumber Style
	Highlights []Style
}

func ColorStyles() Styles {
	return Styles{
		Error:      lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		Warning:    lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		Advice:     lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		Help:       lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		Link:       lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Underline(true),
		LineNumber: lipgloss.NewStyle().Faint(true),
		Highlights: []Style{
			lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
			lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
			lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
			lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		},
	}
}

func PlainStyles() Styles {
	return Styles{
		Highlights: []Style{{}},
	}
}

// Theme couples a glyph set with styles. Severity mapping is a fixed
// lookup, the severity set being closed.
type Theme struct {
	Chars  Characters
	Styles Styles
}

func NewTheme(ascii, color bool) Theme {
	chars := UnicodeCharacters()
	if ascii {
		chars = ASCIICharacters()
	}
	styles := PlainStyles()
	if color {
		styles = ColorStyles()
	}
	return Theme{Chars: chars, Styles: styles}
}

// severityCell returns the icon and style for a severity.
func (t Theme) severityCell(sev diag.Severity) (string, Style) {
	switch sev {
	case diag.SevWarning:
		return t.Chars.WarningIcon, t.Styles.Warning
	case diag.SevAdvice:
		return t.Chars.AdviceIcon, t.Styles.Advice
	default:
		return t.Chars.ErrorIcon, t.Styles.Error
	}
}

// highlight cycles through the highlight styles, one per label.
func (t Theme) highlight(i int) Style {
	if len(t.Styles.Highlights) == 0 {
		return Style{}
	}
	return t.Styles.Highlights[i%len(t.Styles.Highlights)]
}
