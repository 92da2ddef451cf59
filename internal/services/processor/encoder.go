package processor

import (
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/phambaophuc/image-captioning/internal/models"
)

// Encode writes img in the requested format. Quality applies to webp and jpeg;
// png is always lossless.
func (p *ImageProcessor) Encode(w io.Writer, img image.Image, format models.OutputFormat, quality int) error {
	quality = min(100, max(1, quality))

	var err error
	switch format {
	case models.FormatJPEG:
		err = imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(quality))
	case models.FormatPNG:
		err = imaging.Encode(w, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression))
	default:
		err = webp.Encode(w, img, &webp.Options{Quality: float32(quality)})
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", format, err)
	}
	return nil
}
