package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/phambaophuc/image-captioning/internal/models"
	"github.com/phambaophuc/image-captioning/pkg/utils"
	"go.uber.org/zap"
)

// runJob moves a job through processing to completed or failed, saving its
// state at each step. Failures are recorded on the job, never retried.
func (q *QueueService) runJob(ctx context.Context, job *models.CaptionJob) {
	job.Status = models.StatusProcessing
	q.saveJob(ctx, job)

	result, err := q.processJob(ctx, job)
	now := time.Now()
	job.CompletedAt = &now

	if err != nil {
		job.Status = models.StatusFailed
		job.Error = err.Error()
		q.logger.Error("Job processing failed",
			zap.String("job_id", job.ID),
			zap.Error(err))
	} else {
		job.Status = models.StatusCompleted
		job.Result = result
		q.logger.Info("Job completed successfully",
			zap.String("job_id", job.ID),
			zap.String("url", result.URL))
	}

	q.saveJob(ctx, job)
}

func (q *QueueService) processJob(ctx context.Context, job *models.CaptionJob) (*models.CaptionedImage, error) {
	imageData, _, err := q.download(ctx, job.ImageURL, q.maxFileSize)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}

	result, err := q.captioner.Caption(ctx, imageData, job.Options)
	if err != nil {
		return nil, fmt.Errorf("failed to caption image: %w", err)
	}

	filename := utils.CaptionedFilename(job.ImageURL, result.Format.Extension())
	url, err := q.store.Upload(ctx, result.Data, filename, result.Format.ContentType())
	if err != nil {
		return nil, fmt.Errorf("failed to save captioned image: %w", err)
	}

	return &models.CaptionedImage{
		ID:           job.ID,
		OriginalName: job.ImageURL,
		ProcessedAt:  time.Now(),
		Dimensions:   result.Dimensions,
		Format:       result.Format,
		URL:          url,
		FileSize:     int64(len(result.Data)),
		Lines:        result.Lines,
	}, nil
}

func (q *QueueService) saveJob(ctx context.Context, job *models.CaptionJob) {
	if err := q.store.SaveJob(ctx, job); err != nil {
		q.logger.Warn("Failed to save job state",
			zap.String("job_id", job.ID),
			zap.String("status", job.Status),
			zap.Error(err))
	}
}
