package processor

import (
	"bytes"
	"encoding/xml"
	"fmt"
)

// overlayDocument is the subset of SVG the caption overlay uses.
type overlayDocument struct {
	XMLName xml.Name      `xml:"svg"`
	Width   int           `xml:"width,attr"`
	Height  int           `xml:"height,attr"`
	Texts   []overlayText `xml:"text"`
}

type overlayText struct {
	X           float64       `xml:"x,attr"`
	Y           float64       `xml:"y,attr"`
	FontFamily  string        `xml:"font-family,attr"`
	FontSize    float64       `xml:"font-size,attr"`
	Fill        string        `xml:"fill,attr"`
	Stroke      string        `xml:"stroke,attr"`
	StrokeWidth float64       `xml:"stroke-width,attr"`
	PaintOrder  string        `xml:"paint-order,attr"`
	Spans       []overlaySpan `xml:"tspan"`
}

type overlaySpan struct {
	X    *float64 `xml:"x,attr"`
	DY   float64  `xml:"dy,attr"`
	Text string   `xml:",chardata"`
}

func parseOverlay(data []byte) (*overlayDocument, error) {
	var doc overlayDocument
	decoder := xml.NewDecoder(bytes.NewReader(data))
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOverlay, err)
	}
	if doc.Width <= 0 || doc.Height <= 0 {
		return nil, fmt.Errorf("%w: missing width or height", ErrInvalidOverlay)
	}
	return &doc, nil
}

type placedLine struct {
	text string
	x, y int
}

// lines resolves tspan positions: each span inherits the text x unless it sets
// its own, and dy accumulates from the text baseline.
func (t overlayText) lines() []placedLine {
	placed := make([]placedLine, 0, len(t.Spans))
	y := t.Y
	for _, span := range t.Spans {
		x := t.X
		if span.X != nil {
			x = *span.X
		}
		y += span.DY
		placed = append(placed, placedLine{text: span.Text, x: int(x), y: int(y)})
	}
	return placed
}
