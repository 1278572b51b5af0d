package stringutils

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// IndentString prefixes each line of the string with indent.
func IndentString(str, indent string) string {
	spl := strings.SplitAfter(str, "\n")
	return strings.Join(append([]string{""}, spl...), indent)
}

// PadRight appends spaces to str until it occupies width terminal cells.
// Strings that are wider are returned unchanged.
func PadRight(str string, width int) string {
	w := runewidth.StringWidth(str)
	if w < width {
		return str + strings.Repeat(" ", width-w)
	}

	return str
}

// Truncate shortens str to at most width terminal cells, a shortened string
// ends with "…".
func Truncate(str string, width int) string {
	return runewidth.Truncate(str, width, "…")
}

// Width returns the number of terminal cells str occupies.
func Width(str string) int {
	return runewidth.StringWidth(str)
}
