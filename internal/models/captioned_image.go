package models

import "time"

// CaptionedImage describes a published result.
type CaptionedImage struct {
	ID           string          `json:"id"`
	OriginalName string          `json:"original_name"`
	ProcessedAt  time.Time       `json:"processed_at"`
	Dimensions   ImageDimensions `json:"dimensions"`
	Format       OutputFormat    `json:"format"`
	URL          string          `json:"url"`
	FileSize     int64           `json:"file_size"`
	Lines        int             `json:"lines"`
}
