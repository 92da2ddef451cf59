// Package captioner runs a caption request through validation, probing,
// composition and encoding.
package captioner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/phambaophuc/image-captioning/internal/models"
	"github.com/phambaophuc/image-captioning/internal/services/caption"
	"github.com/phambaophuc/image-captioning/internal/services/processor"
	"go.uber.org/zap"
)

var (
	ErrMissingFile  = errors.New("file is required")
	ErrBlankCaption = errors.New("caption is required")
)

// Engine is the raster engine the pipeline delegates to.
type Engine interface {
	ValidateSize(size, maxSize int64) error
	Probe(r io.Reader) (*processor.Source, error)
	Composite(src *processor.Source, overlay []byte) (image.Image, error)
	Encode(w io.Writer, img image.Image, format models.OutputFormat, quality int) error
}

type Service struct {
	engine      Engine
	defaults    models.CaptionOptions
	maxFileSize int64
	logger      *zap.Logger
}

func NewService(engine Engine, defaults models.CaptionOptions, maxFileSize int64, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		engine:      engine,
		defaults:    defaults.Normalize(models.DefaultCaptionOptions()),
		maxFileSize: maxFileSize,
		logger:      logger,
	}
}

// Defaults are the options applied to fields a request leaves unset.
func (s *Service) Defaults() models.CaptionOptions {
	return s.defaults
}

// Normalize applies the service defaults to opts.
func (s *Service) Normalize(opts models.CaptionOptions) models.CaptionOptions {
	return opts.Normalize(s.defaults)
}

// Caption draws opts.Caption onto src and encodes the result. Stages run
// strictly in order; a cancelled context stops the pipeline between stages
// and nothing partial is returned.
func (s *Service) Caption(ctx context.Context, src []byte, opts models.CaptionOptions) (*models.CaptionResult, error) {
	// Validate
	if len(src) == 0 {
		return nil, ErrMissingFile
	}
	opts = s.Normalize(opts)
	if opts.Caption == "" {
		return nil, ErrBlankCaption
	}
	if err := s.engine.ValidateSize(int64(len(src)), s.maxFileSize); err != nil {
		return nil, err
	}

	// Probe
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	source, err := s.engine.Probe(bytes.NewReader(src))
	if err != nil {
		return nil, err
	}
	dims := source.Dimensions
	s.logger.Debug("Probed source image",
		zap.Int("width", dims.Width),
		zap.Int("height", dims.Height))

	// Compose
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	style := caption.StyleFromOptions(opts)
	layout := caption.ComputeLayout(dims.Width, dims.Height, opts.Caption, style)
	if layout.FirstBaseline < 0 {
		s.logger.Debug("Caption block extends above the top edge",
			zap.Int("lines", len(layout.Lines)),
			zap.Int("first_baseline", layout.FirstBaseline))
	}

	overlay := caption.BuildOverlay(dims.Width, dims.Height, opts.Caption, style)
	composited, err := s.engine.Composite(source, overlay)
	if err != nil {
		return nil, fmt.Errorf("failed to composite caption: %w", err)
	}

	// Encode
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	buffer := &bytes.Buffer{}
	if err := s.engine.Encode(buffer, composited, opts.Output, opts.Quality); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &models.CaptionResult{
		Data:       buffer.Bytes(),
		Format:     opts.Output,
		Dimensions: dims,
		Lines:      len(layout.Lines),
	}, nil
}

// IsClientError reports whether err was caused by the request itself.
func IsClientError(err error) bool {
	return errors.Is(err, ErrMissingFile) ||
		errors.Is(err, ErrBlankCaption) ||
		errors.Is(err, processor.ErrUnreadableImage) ||
		errors.Is(err, processor.ErrFileTooLarge)
}
