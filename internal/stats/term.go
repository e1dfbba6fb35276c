package stats

import (
	"os"

	"golang.org/x/term"
)

const terminalWidthFallback = 80

// TerminalWidth probes stdout's width for plain-text rendering.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthFallback
	}
	return width
}

// IsTerminal reports whether the file is attached to a terminal.
func IsTerminal(file *os.File) bool {
	return term.IsTerminal(int(file.Fd()))
}
