package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/phambaophuc/image-captioning/internal/models"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// NewJob builds a pending job for the request.
func NewJob(req models.CaptionJobRequest) *models.CaptionJob {
	return &models.CaptionJob{
		ID:        uuid.New().String(),
		ImageURL:  req.ImageURL,
		Options:   req.Options,
		Status:    models.StatusPending,
		CreatedAt: time.Now(),
	}
}

// PublishJob records the job as pending and hands it to the workers.
func (q *QueueService) PublishJob(ctx context.Context, job *models.CaptionJob) error {
	if err := q.store.SaveJob(ctx, job); err != nil {
		return fmt.Errorf("failed to save job: %w", err)
	}

	jobBytes, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	err = q.channel.Publish(
		"",          // exchange
		q.queueName, // routing key
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    job.ID,
			Body:         jobBytes,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish job: %w", err)
	}

	q.logger.Info("Job published to queue", zap.String("job_id", job.ID))
	return nil
}
