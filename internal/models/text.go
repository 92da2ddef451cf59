package models

import "strings"

// CleanText makes s safe for XML 1.0 character data: invalid UTF-8 becomes
// U+FFFD and control characters other than tab, newline and carriage return
// are dropped.
func CleanText(s string) string {
	s = strings.ToValidUTF8(s, "\uFFFD")
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
			return r
		case r < 0x20, r == 0xFFFE, r == 0xFFFF:
			return -1
		}
		return r
	}, s)
}
