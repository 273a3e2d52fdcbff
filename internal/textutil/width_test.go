package textutil

import (
	"strings"
	"testing"
)

func TestFitWidthProducesExactWidth(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		width int
		want  string
	}{
		{"pads short ascii", "abc", 6, "abc   "},
		{"cuts long ascii", "abcdefgh", 4, "abcd"},
		{"tab to next stop", "a\tb", 8, "a   b   "},
		{"tab at stop boundary", "abcd\tx", 6, "abcd  "},
		{"tab that would overflow stops", "ab\tc", 3, "ab "},
		{"control bytes dropped", "a\x1b[31mb\r", 6, "a[31mb"},
		{"bidi override dropped", "a\u202eb", 3, "ab "},
		{"wide rune fits", "日本", 4, "日本"},
		{"wide rune not split", "日本", 3, "日 "},
		{"wide rune at edge", "a日", 2, "a "},
		{"empty input", "", 3, "   "},
		{"zero width", "abc", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FitWidth(tt.line, tt.width)
			if got != tt.want {
				t.Fatalf("FitWidth(%q, %d) = %q, want %q", tt.line, tt.width, got, tt.want)
			}
			if w := DisplayWidth(got); w != tt.width {
				t.Fatalf("FitWidth(%q, %d) has width %d", tt.line, tt.width, w)
			}
		})
	}
}

func TestFitWidthNeverContainsControlCharacters(t *testing.T) {
	inputs := []string{"\x00\x01\x02", "tab\there", "nl\nnl", "del\x7f", "\ufeffbom"}
	for _, in := range inputs {
		got := FitWidth(in, 10)
		for _, r := range got {
			if r < 0x20 || r == 0x7f {
				t.Fatalf("FitWidth(%q) kept control rune %U", in, r)
			}
		}
		if DisplayWidth(got) != 10 {
			t.Fatalf("FitWidth(%q) width = %d", in, DisplayWidth(got))
		}
	}
}

func TestExpandTabs(t *testing.T) {
	if got := ExpandTabs("a\tbc\td", 4); got != "a   bc  d" {
		t.Fatalf("ExpandTabs = %q", got)
	}
	if got := ExpandTabs("plain", 4); got != "plain" {
		t.Fatalf("ExpandTabs changed text without tabs: %q", got)
	}
	if got := ExpandTabs("\t", 0); got != "\t" {
		t.Fatalf("non-positive width should leave tabs, got %q", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		text  string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly", 7, "exactly"},
		{"toolongname", 6, "toolo…"},
		{"日本語テキスト", 5, "日本…"},
		{"abc", 1, "…"},
		{"abc", 0, ""},
		{"bad\x1bname", 20, "badname"},
	}
	for _, tt := range tests {
		got := Truncate(tt.text, tt.width)
		if got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.text, tt.width, got, tt.want)
		}
		if DisplayWidth(got) > tt.width {
			t.Errorf("Truncate(%q, %d) overflows: %d", tt.text, tt.width, DisplayWidth(got))
		}
	}
}

func TestBlank(t *testing.T) {
	if Blank(3) != "   " || Blank(0) != "" || Blank(-1) != "" {
		t.Fatalf("unexpected Blank output")
	}
	if strings.TrimSpace(Blank(5)) != "" {
		t.Fatalf("Blank should only contain spaces")
	}
}
