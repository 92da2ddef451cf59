package models

import "strings"

type OutputFormat string

const (
	FormatWebP OutputFormat = "webp"
	FormatJPEG OutputFormat = "jpeg"
	FormatPNG  OutputFormat = "png"
)

const (
	DefaultFontSize   = 22
	DefaultTextColor  = "#FFFFFF"
	DefaultMargin     = 16
	DefaultFontFamily = "DejaVu Sans, Arial, Helvetica, sans-serif"
	DefaultOutline    = true
	DefaultFormat     = FormatWebP
	DefaultQuality    = 92
)

// ParseOutputFormat matches case-insensitively and falls back to webp.
func ParseOutputFormat(value string) OutputFormat {
	switch OutputFormat(strings.ToLower(strings.TrimSpace(value))) {
	case FormatJPEG:
		return FormatJPEG
	case FormatPNG:
		return FormatPNG
	default:
		return FormatWebP
	}
}

func (f OutputFormat) ContentType() string {
	return "image/" + string(f)
}

// Extension is the filename suffix, "jpg" for jpeg.
func (f OutputFormat) Extension() string {
	if f == FormatJPEG {
		return "jpg"
	}
	return string(f)
}

func (f OutputFormat) Filename() string {
	return "captioned." + f.Extension()
}

type CaptionOptions struct {
	Caption    string       `json:"caption" yaml:"-"`
	FontSize   int          `json:"font_size,omitempty" yaml:"font_size"`
	TextColor  string       `json:"text_color,omitempty" yaml:"text_color"`
	Margin     int          `json:"margin,omitempty" yaml:"margin"`
	FontFamily string       `json:"font_family,omitempty" yaml:"font_family"`
	Outline    *bool        `json:"outline,omitempty" yaml:"outline"`
	Output     OutputFormat `json:"output,omitempty" yaml:"output"`
	Quality    int          `json:"quality,omitempty" yaml:"quality"`
}

// DefaultCaptionOptions returns the documented defaults with an empty caption.
func DefaultCaptionOptions() CaptionOptions {
	outline := DefaultOutline
	return CaptionOptions{
		FontSize:   DefaultFontSize,
		TextColor:  DefaultTextColor,
		Margin:     DefaultMargin,
		FontFamily: DefaultFontFamily,
		Outline:    &outline,
		Output:     DefaultFormat,
		Quality:    DefaultQuality,
	}
}

// Normalize fills unset or invalid fields from defaults, cleans text fields
// with CleanText and trims the caption.
func (o CaptionOptions) Normalize(defaults CaptionOptions) CaptionOptions {
	n := o
	n.Caption = strings.TrimSpace(CleanText(o.Caption))
	n.TextColor = CleanText(o.TextColor)
	n.FontFamily = CleanText(o.FontFamily)

	if n.FontSize <= 0 {
		n.FontSize = defaults.FontSize
	}
	if n.Margin < 0 {
		n.Margin = defaults.Margin
	}
	if strings.TrimSpace(n.TextColor) == "" {
		n.TextColor = defaults.TextColor
	}
	if strings.TrimSpace(n.FontFamily) == "" {
		n.FontFamily = defaults.FontFamily
	}
	if n.Outline == nil {
		outline := DefaultOutline
		if defaults.Outline != nil {
			outline = *defaults.Outline
		}
		n.Outline = &outline
	}
	if n.Output == "" {
		n.Output = defaults.Output
	}
	n.Output = ParseOutputFormat(string(n.Output))

	if n.Quality == 0 {
		n.Quality = defaults.Quality
	}
	n.Quality = min(100, max(1, n.Quality))

	return n
}

func (o CaptionOptions) OutlineEnabled() bool {
	return o.Outline == nil || *o.Outline
}

type ImageDimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type CaptionResult struct {
	Data       []byte
	Format     OutputFormat
	Dimensions ImageDimensions
	Lines      int
}
