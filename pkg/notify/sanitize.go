package notify

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/x/ansi"
)

// PlainText makes message safe to print on a terminal while keeping its text
// literal: escape sequences are removed, line breaks and tabs become spaces
// and other control characters are dropped. Markup-looking text such as
// "<unknown>" or "&amp;" is left exactly as the server sent it.
func PlainText(message string) string {
	stripped := ansi.Strip(message)
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			return ' '
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, stripped)
	return strings.TrimSpace(cleaned)
}
