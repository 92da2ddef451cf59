package processor

import (
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// parseColor understands #rgb, #rrggbb, rgb()/rgba() functional notation and
// SVG colour keywords. ok is false for unrecognised values; "none" yields a
// nil colour with ok true.
func parseColor(value string) (color.Color, bool) {
	v := strings.ToLower(strings.TrimSpace(value))

	switch {
	case v == "none" || v == "transparent":
		return nil, true
	case strings.HasPrefix(v, "#"):
		c, err := colorful.Hex(v)
		if err != nil {
			return nil, false
		}
		return c, true
	case strings.HasPrefix(v, "rgb"):
		return parseRGBFunc(v)
	}

	if c, ok := colornames.Map[v]; ok {
		return c, true
	}
	return nil, false
}

// parseRGBFunc reads rgb(r, g, b) and rgba(r, g, b, a). Channels are 0-255 or
// percentages; alpha is 0-1 or a percentage. Out-of-range values are clamped.
func parseRGBFunc(v string) (color.Color, bool) {
	var args string
	switch {
	case strings.HasPrefix(v, "rgba(") && strings.HasSuffix(v, ")"):
		args = v[len("rgba(") : len(v)-1]
	case strings.HasPrefix(v, "rgb(") && strings.HasSuffix(v, ")"):
		args = v[len("rgb(") : len(v)-1]
	default:
		return nil, false
	}

	parts := strings.Split(args, ",")
	if len(parts) != 3 && len(parts) != 4 {
		return nil, false
	}

	var channels [3]uint8
	for i := 0; i < 3; i++ {
		f, ok := parseComponent(parts[i], 255)
		if !ok {
			return nil, false
		}
		channels[i] = uint8(math.Round(f))
	}

	alpha := uint8(255)
	if len(parts) == 4 {
		f, ok := parseComponent(parts[3], 1)
		if !ok {
			return nil, false
		}
		alpha = uint8(math.Round(f * 255))
	}

	return color.NRGBA{R: channels[0], G: channels[1], B: channels[2], A: alpha}, true
}

// parseComponent returns a number or percentage of scale, clamped to [0, scale].
func parseComponent(s string, scale float64) (float64, bool) {
	s = strings.TrimSpace(s)
	percent := strings.HasSuffix(s, "%")
	s = strings.TrimSuffix(s, "%")

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if percent {
		f = f / 100 * scale
	}
	return math.Max(0, math.Min(scale, f)), true
}
