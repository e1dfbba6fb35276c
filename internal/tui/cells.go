package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// symbolCellWidth is the display width every token is padded to, so rows
// stay aligned whether a token is a double-width emoji or a placeholder.
const symbolCellWidth = 2

const emptySlot = "·"

func padSymbol(token string) string {
	w := runewidth.StringWidth(token)
	if w >= symbolCellWidth {
		return token
	}
	return token + strings.Repeat(" ", symbolCellWidth-w)
}

// renderSymbolRow lays tokens out in fixed-width cells.
func renderSymbolRow(tokens []string) string {
	cells := make([]string, 0, len(tokens))
	for _, token := range tokens {
		cells = append(cells, padSymbol(token))
	}
	return strings.Join(cells, " ")
}

// renderSlots shows the input so far with placeholders for the remainder.
func renderSlots(input []string, length int) string {
	cells := make([]string, 0, length)
	for i := 0; i < length; i++ {
		if i < len(input) {
			cells = append(cells, padSymbol(input[i]))
		} else {
			cells = append(cells, padSymbol(emptySlot))
		}
	}
	return strings.Join(cells, " ")
}

// renderKeypad shows the level's shape set with the cursor highlighted and
// number-key hints underneath.
func renderKeypad(shapes []string, cursor int) string {
	cells := make([]string, 0, len(shapes))
	hints := make([]string, 0, len(shapes))
	for i, shape := range shapes {
		cell := padSymbol(shape)
		if i == cursor {
			cell = cursorCell.Render(cell)
		}
		cells = append(cells, cell)
		hints = append(hints, padSymbol(keypadHint(i)))
	}
	return strings.Join(cells, " ") + "\n" + footerStyle.Render(strings.Join(hints, " "))
}

// keypadHint returns the shortcut label for a keypad position: 1-9, then 0
// for the tenth shape, blank beyond that.
func keypadHint(index int) string {
	switch {
	case index < 9:
		return string(rune('1' + index))
	case index == 9:
		return "0"
	default:
		return " "
	}
}

// keypadDigit maps a pressed key to a keypad position.
func keypadDigit(key string, count int) (int, bool) {
	if len(key) != 1 {
		return 0, false
	}
	ch := key[0]
	var idx int
	switch {
	case ch >= '1' && ch <= '9':
		idx = int(ch - '1')
	case ch == '0':
		idx = 9
	default:
		return 0, false
	}
	if idx >= count {
		return 0, false
	}
	return idx, true
}

// renderMarks shows the player's input with a correctness mark per position.
func renderMarks(input []string, marks []bool) string {
	cells := make([]string, 0, len(marks))
	ticks := make([]string, 0, len(marks))
	for i := range marks {
		token := emptySlot
		if i < len(input) {
			token = input[i]
		}
		cells = append(cells, padSymbol(token))
		if marks[i] {
			ticks = append(ticks, passStyle.Render(padSymbol("✓")))
		} else {
			ticks = append(ticks, failStyle.Render(padSymbol("✗")))
		}
	}
	return strings.Join(cells, " ") + "\n" + strings.Join(ticks, " ")
}
