package caption

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/phambaophuc/image-captioning/internal/models"
)

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
)

// OverlayStyle is the visual part of a caption request.
type OverlayStyle struct {
	FontSize   int
	TextColor  string
	Margin     int
	FontFamily string
	Outline    bool
}

// StyleFromOptions expects normalized options.
func StyleFromOptions(opts models.CaptionOptions) OverlayStyle {
	return OverlayStyle{
		FontSize:   opts.FontSize,
		TextColor:  opts.TextColor,
		Margin:     opts.Margin,
		FontFamily: opts.FontFamily,
		Outline:    opts.OutlineEnabled(),
	}
}

// Layout is the geometry of a caption block on an image.
type Layout struct {
	Lines      []string
	MaxWidth   int
	MaxChars   int
	LineHeight int
	X          int
	// FirstBaseline is the y of the top line. The last line sits at
	// height - margin. It goes negative when the block is taller than the
	// image; the overflow is kept, not clipped.
	FirstBaseline int
	// StrokeWidth is zero when the outline is disabled.
	StrokeWidth int
}

func ComputeLayout(width, height int, caption string, style OverlayStyle) Layout {
	caption = models.CleanText(caption)
	maxWidth := int(math.Floor(float64(width) * textWidthRatio))
	lines := WrapCaption(caption, maxWidth, style.FontSize)
	lineHeight := int(math.Floor(float64(style.FontSize) * lineHeightRatio))

	layout := Layout{
		Lines:         lines,
		MaxWidth:      maxWidth,
		MaxChars:      MaxChars(maxWidth, style.FontSize),
		LineHeight:    lineHeight,
		X:             style.Margin,
		FirstBaseline: height - style.Margin - max(0, len(lines)-1)*lineHeight,
	}
	if style.Outline {
		layout.StrokeWidth = max(1, int(math.Round(float64(style.FontSize)*strokeRatio)))
	}
	return layout
}

// BuildOverlay renders the caption as a standalone SVG document of exactly
// width x height: one left-aligned <text> anchored to the bottom margin with a
// <tspan> per wrapped line.
func BuildOverlay(width, height int, caption string, style OverlayStyle) []byte {
	layout := ComputeLayout(width, height, caption, style)

	var spans strings.Builder
	for i, line := range layout.Lines {
		dy := 0
		if i > 0 {
			dy = layout.LineHeight
		}
		fmt.Fprintf(&spans, `<tspan x="%d" dy="%d">%s</tspan>`, layout.X, dy, EscapeText(line))
	}

	stroke := ""
	if layout.StrokeWidth > 0 {
		stroke = fmt.Sprintf(` stroke="%s" stroke-width="%d" paint-order="stroke"`, outlineColor, layout.StrokeWidth)
	}

	buf := &bytes.Buffer{}
	fmt.Fprintf(buf, `<svg width="%d" height="%d" viewBox="0 0 %d %d" xmlns="http://www.w3.org/2000/svg">`+"\n",
		width, height, width, height)
	fmt.Fprintf(buf, `  <text x="%d" y="%d" font-family="%s" font-size="%d" fill="%s"%s xml:space="preserve">%s</text>`+"\n",
		layout.X, layout.FirstBaseline,
		escapeAttr(style.FontFamily), style.FontSize, escapeAttr(style.TextColor),
		stroke, spans.String())
	buf.WriteString("</svg>")

	return buf.Bytes()
}

// EscapeText escapes the XML metacharacters & < > in character data. Runes
// XML cannot carry are removed first.
func EscapeText(s string) string {
	return textEscaper.Replace(models.CleanText(s))
}

func escapeAttr(s string) string {
	return attrEscaper.Replace(models.CleanText(s))
}
