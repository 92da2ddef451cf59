package models

import "time"

type CaptionJobRequest struct {
	ImageURL string         `json:"image_url" binding:"required,url"`
	Options  CaptionOptions `json:"options"`
}

type CaptionJob struct {
	ID          string          `json:"id"`
	ImageURL    string          `json:"image_url"`
	Options     CaptionOptions  `json:"options"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	Result      *CaptionedImage `json:"result,omitempty"`
	Error       string          `json:"error,omitempty"`
}

const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)
