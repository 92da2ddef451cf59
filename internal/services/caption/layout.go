// Package caption lays out caption text and builds the SVG overlay that the
// raster engine composites onto the source image.
//
// Widths are estimated from the font size alone. There is no font-metric
// measurement, shaping or kerning.
package caption

import (
	"math"
	"strings"
	"unicode/utf8"
)

const (
	// Average glyph advance as a fraction of the font size.
	glyphWidthRatio = 0.6
	lineHeightRatio = 1.35
	// Share of the image width available to caption text.
	textWidthRatio = 0.7
	strokeRatio    = 0.06
	outlineColor   = "black"
)

// MaxChars is the per-line character budget for the given width and font size.
// It is never less than 1.
func MaxChars(maxWidthPx, fontSizePx int) int {
	avgGlyph := float64(fontSizePx) * glyphWidthRatio
	if avgGlyph <= 0 {
		return 1
	}
	return max(1, int(math.Floor(float64(maxWidthPx)/avgGlyph)))
}

// WrapCaption greedily packs whitespace-separated tokens into lines of at most
// MaxChars characters. Tokens longer than the budget are hard-split into
// budget-sized chunks, one per line. Whitespace-only text yields no lines.
func WrapCaption(text string, maxWidthPx, fontSizePx int) []string {
	maxChars := MaxChars(maxWidthPx, fontSizePx)

	var lines []string
	line := ""
	lineLen := 0

	for _, word := range strings.Fields(text) {
		wordLen := utf8.RuneCountInString(word)

		tentative := wordLen
		if lineLen > 0 {
			tentative = lineLen + 1 + wordLen
		}

		if tentative <= maxChars {
			if lineLen > 0 {
				line += " "
			}
			line += word
			lineLen = tentative
			continue
		}

		if lineLen > 0 {
			lines = append(lines, line)
		}

		if wordLen > maxChars {
			lines = append(lines, hardSplit(word, maxChars)...)
			line, lineLen = "", 0
		} else {
			line, lineLen = word, wordLen
		}
	}

	if lineLen > 0 {
		lines = append(lines, line)
	}

	return lines
}

// hardSplit chunks word into pieces of size runes, the last one possibly shorter.
func hardSplit(word string, size int) []string {
	runes := []rune(word)
	chunks := make([]string, 0, (len(runes)+size-1)/size)
	for i := 0; i < len(runes); i += size {
		end := min(i+size, len(runes))
		chunks = append(chunks, string(runes[i:end]))
	}
	return chunks
}
