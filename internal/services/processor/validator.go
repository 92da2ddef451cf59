package processor

import "fmt"

// ValidateSize rejects empty payloads and payloads above maxSize.
// A non-positive maxSize disables the upper bound.
func (p *ImageProcessor) ValidateSize(size, maxSize int64) error {
	if size <= 0 {
		return fmt.Errorf("%w: empty file", ErrUnreadableImage)
	}
	if maxSize > 0 && size > maxSize {
		return fmt.Errorf("%w: %d bytes exceeds maximum allowed size %d", ErrFileTooLarge, size, maxSize)
	}
	return nil
}
