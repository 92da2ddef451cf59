package processor

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// drawText paints one overlay <text>: the stroke pass first, then the fill,
// matching paint-order="stroke".
func (p *ImageProcessor) drawText(dst draw.Image, text overlayText) error {
	if text.FontSize <= 0 || len(text.Spans) == 0 {
		return nil
	}

	face, err := p.fonts.face(text.FontFamily, text.FontSize)
	if err != nil {
		return err
	}
	defer face.Close()

	fill, ok := parseColor(text.Fill)
	if !ok {
		p.logger.Debug("Unknown fill colour, using white", zap.String("fill", text.Fill))
		fill = color.White
	}

	lines := text.lines()

	if stroke, ok := parseColor(text.Stroke); ok && stroke != nil && text.StrokeWidth > 0 {
		offsets := strokeOffsets(text.StrokeWidth)
		for _, line := range lines {
			for _, off := range offsets {
				drawString(dst, face, stroke, line.x+off.X, line.y+off.Y, line.text)
			}
		}
	}

	if fill != nil {
		for _, line := range lines {
			drawString(dst, face, fill, line.x, line.y, line.text)
		}
	}

	return nil
}

func drawString(dst draw.Image, face font.Face, c color.Color, x, y int, s string) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(s)
}

// strokeOffsets approximates a centred stroke of the given width by stamping
// the glyphs at every offset within half the width. The outer half is what
// shows once the fill is painted on top.
func strokeOffsets(width float64) []image.Point {
	radius := max(1, int(math.Round(width/2)))
	limit := radius*radius + radius

	var offsets []image.Point
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if (dx == 0 && dy == 0) || dx*dx+dy*dy > limit {
				continue
			}
			offsets = append(offsets, image.Point{X: dx, Y: dy})
		}
	}
	return offsets
}
