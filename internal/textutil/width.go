package textutil

import (
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
)

const DefaultTabWidth = 4

const ellipsis = "…"

// RuneWidth is the number of terminal columns r occupies. Zero-width runes
// such as combining marks report 0.
func RuneWidth(r rune) int {
	w := runewidth.RuneWidth(r)
	if w < 0 {
		return 0
	}
	return w
}

// DisplayWidth reports the printable width of text accounting for wide runes.
// Dropped runes (see Printable) do not count.
func DisplayWidth(text string) int {
	width := 0
	for _, r := range text {
		if !Printable(r) {
			continue
		}
		width += RuneWidth(r)
	}
	return width
}

// Printable reports whether r may be written to the terminal as is. Control
// characters and bidi overrides are dropped so file content cannot move the
// cursor or reorder the line.
func Printable(r rune) bool {
	if r == '\t' {
		return false
	}
	if unicode.IsControl(r) || r == 0xfeff {
		return false
	}
	return !unicode.Is(unicode.Bidi_Control, r)
}

// ExpandTabs replaces tab characters with spaces respecting terminal column width.
func ExpandTabs(text string, tabWidth int) string {
	if tabWidth <= 0 || !strings.ContainsRune(text, '\t') {
		return text
	}

	var builder strings.Builder
	column := 0
	for _, ru := range text {
		if ru == '\t' {
			spaces := tabWidth - (column % tabWidth)
			builder.WriteString(strings.Repeat(" ", spaces))
			column += spaces
			continue
		}
		builder.WriteRune(ru)
		column += RuneWidth(ru)
	}
	return builder.String()
}

// FitWidth returns line rewritten to occupy exactly width columns: tabs are
// expanded to DefaultTabWidth stops, unprintable runes are dropped, the text
// is cut before any rune that would overflow and the remainder is padded with
// spaces. A wide rune that does not fit is replaced by padding, never split.
func FitWidth(line string, width int) string {
	if width <= 0 {
		return ""
	}

	var b strings.Builder
	b.Grow(width)
	column := 0
	for _, r := range line {
		if r == '\t' {
			spaces := DefaultTabWidth - (column % DefaultTabWidth)
			if column+spaces > width {
				break
			}
			b.WriteString(strings.Repeat(" ", spaces))
			column += spaces
			continue
		}
		if !Printable(r) {
			continue
		}
		w := RuneWidth(r)
		if column+w > width {
			break
		}
		b.WriteRune(r)
		column += w
	}
	if column < width {
		b.WriteString(strings.Repeat(" ", width-column))
	}
	return b.String()
}

// Blank returns a line of width spaces.
func Blank(width int) string {
	if width <= 0 {
		return ""
	}
	return strings.Repeat(" ", width)
}

// Truncate shortens text to at most width columns, marking the cut with an
// ellipsis. Unprintable runes are dropped. No padding is added.
func Truncate(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if DisplayWidth(text) <= width {
		return clean(text)
	}
	if width == 1 {
		return ellipsis
	}

	available := width - 1
	var b strings.Builder
	column := 0
	for _, r := range text {
		if !Printable(r) {
			continue
		}
		w := RuneWidth(r)
		if column+w > available {
			break
		}
		b.WriteRune(r)
		column += w
	}
	b.WriteString(ellipsis)
	return b.String()
}

func clean(text string) string {
	for _, r := range text {
		if !Printable(r) {
			return strings.Map(func(r rune) rune {
				if !Printable(r) {
					return -1
				}
				return r
			}, text)
		}
	}
	return text
}
