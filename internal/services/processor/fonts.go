package processor

import (
	"fmt"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// fontSet holds parsed fonts. Parsed fonts are safe to share; faces are not,
// so a new face is created for every draw.
type fontSet struct {
	regular *opentype.Font
	bold    *opentype.Font
	mono    *opentype.Font
}

func loadFonts() (*fontSet, error) {
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse regular: %w", err)
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse bold: %w", err)
	}
	mono, err := opentype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse mono: %w", err)
	}
	return &fontSet{regular: regular, bold: bold, mono: mono}, nil
}

// match picks a font for a CSS-style family list.
func (fs *fontSet) match(family string) *opentype.Font {
	f := strings.ToLower(family)
	switch {
	case strings.Contains(f, "mono"), strings.Contains(f, "courier"):
		return fs.mono
	case strings.Contains(f, "bold"), strings.Contains(f, "black"), strings.Contains(f, "impact"):
		return fs.bold
	default:
		return fs.regular
	}
}

// face sizes at 72 DPI so one point is one pixel.
func (fs *fontSet) face(family string, sizePx float64) (font.Face, error) {
	return opentype.NewFace(fs.match(family), &opentype.FaceOptions{
		Size:    sizePx,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}
