// Package processor is the raster engine: it decodes source images with
// orientation correction, rasterises caption overlays and encodes results.
package processor

import (
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
	"github.com/phambaophuc/image-captioning/internal/models"
	"go.uber.org/zap"

	_ "golang.org/x/image/webp"
)

var (
	ErrUnreadableImage = errors.New("unable to read image dimensions")
	ErrFileTooLarge    = errors.New("file too large")
	ErrInvalidOverlay  = errors.New("invalid overlay")
)

// Source is a decoded, orientation-corrected input image.
type Source struct {
	Image      image.Image
	Dimensions models.ImageDimensions
}

type ImageProcessor struct {
	fonts  *fontSet
	logger *zap.Logger
}

func NewImageProcessor(logger *zap.Logger) (*ImageProcessor, error) {
	fonts, err := loadFonts()
	if err != nil {
		return nil, fmt.Errorf("failed to load fonts: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImageProcessor{fonts: fonts, logger: logger}, nil
}

// Probe decodes the image, applying any EXIF orientation, and reports its size.
func (p *ImageProcessor) Probe(r io.Reader) (*Source, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableImage, err)
	}

	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, fmt.Errorf("%w: empty image", ErrUnreadableImage)
	}

	return &Source{
		Image: img,
		Dimensions: models.ImageDimensions{
			Width:  bounds.Dx(),
			Height: bounds.Dy(),
		},
	}, nil
}

// Composite draws the SVG overlay onto a copy of the source image.
func (p *ImageProcessor) Composite(src *Source, overlay []byte) (image.Image, error) {
	doc, err := parseOverlay(overlay)
	if err != nil {
		return nil, err
	}

	if doc.Width > src.Dimensions.Width || doc.Height > src.Dimensions.Height {
		return nil, fmt.Errorf("%w: overlay %dx%d exceeds image %dx%d", ErrInvalidOverlay,
			doc.Width, doc.Height, src.Dimensions.Width, src.Dimensions.Height)
	}

	canvas := imaging.Clone(src.Image)
	for _, text := range doc.Texts {
		if err := p.drawText(canvas, text); err != nil {
			return nil, fmt.Errorf("failed to draw caption: %w", err)
		}
	}

	return canvas, nil
}
