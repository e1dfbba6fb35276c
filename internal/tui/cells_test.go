package tui

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
)

func TestPadSymbolWidths(t *testing.T) {
	if got := padSymbol("🔺"); runewidth.StringWidth(got) != symbolCellWidth {
		t.Fatalf("emoji cell width %d, expected %d", runewidth.StringWidth(got), symbolCellWidth)
	}
	if got := padSymbol("·"); runewidth.StringWidth(got) != symbolCellWidth {
		t.Fatalf("placeholder cell width %d, expected %d", runewidth.StringWidth(got), symbolCellWidth)
	}
}

func TestRenderSlots(t *testing.T) {
	out := renderSlots([]string{"🔺"}, 3)
	if !strings.Contains(out, "🔺") {
		t.Fatalf("expected the chosen symbol, got %q", out)
	}
	if strings.Count(out, emptySlot) != 2 {
		t.Fatalf("expected 2 placeholders, got %q", out)
	}
}

func TestRenderSymbolRowAligned(t *testing.T) {
	row := renderSymbolRow([]string{"🔺", "🔷", "🔴"})
	// Three two-wide cells joined by single spaces.
	if runewidth.StringWidth(row) != 3*symbolCellWidth+2 {
		t.Fatalf("unexpected row width %d for %q", runewidth.StringWidth(row), row)
	}
}

func TestKeypadDigit(t *testing.T) {
	if idx, ok := keypadDigit("1", 7); !ok || idx != 0 {
		t.Fatalf("expected key 1 to map to index 0, got %d %v", idx, ok)
	}
	if idx, ok := keypadDigit("9", 12); !ok || idx != 8 {
		t.Fatalf("expected key 9 to map to index 8, got %d %v", idx, ok)
	}
	if idx, ok := keypadDigit("0", 12); !ok || idx != 9 {
		t.Fatalf("expected key 0 to map to index 9, got %d %v", idx, ok)
	}
	if _, ok := keypadDigit("8", 7); ok {
		t.Fatalf("key beyond the shape count must not map")
	}
	if _, ok := keypadDigit("enter", 7); ok {
		t.Fatalf("non-digit keys must not map")
	}
}

func TestKeypadHint(t *testing.T) {
	if got := keypadHint(0); got != "1" {
		t.Fatalf("expected 1, got %q", got)
	}
	if got := keypadHint(9); got != "0" {
		t.Fatalf("expected 0, got %q", got)
	}
	if got := keypadHint(10); got != " " {
		t.Fatalf("expected blank hint, got %q", got)
	}
}
