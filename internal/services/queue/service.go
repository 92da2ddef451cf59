// Package queue runs caption jobs asynchronously over RabbitMQ: images are
// fetched by URL, captioned and published to storage.
package queue

import (
	"context"
	"fmt"

	"github.com/phambaophuc/image-captioning/internal/models"
	"github.com/phambaophuc/image-captioning/pkg/utils"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

type Captioner interface {
	Caption(ctx context.Context, src []byte, opts models.CaptionOptions) (*models.CaptionResult, error)
}

// JobStore persists job state and published results.
type JobStore interface {
	SaveJob(ctx context.Context, job *models.CaptionJob) error
	Upload(ctx context.Context, data []byte, filename, contentType string) (string, error)
}

type downloadFunc func(ctx context.Context, imageURL string, maxSize int64) ([]byte, string, error)

type QueueService struct {
	conn        *amqp.Connection
	channel     *amqp.Channel
	logger      *zap.Logger
	queueName   string
	captioner   Captioner
	store       JobStore
	download    downloadFunc
	maxFileSize int64
}

func NewQueueService(
	rabbitmqURL string,
	queueName string,
	captioner Captioner,
	store JobStore,
	maxFileSize int64,
	logger *zap.Logger,
) (*QueueService, error) {
	conn, err := amqp.Dial(rabbitmqURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	// Declare queue
	_, err = channel.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	// One unacked job per consumer; captioning is CPU bound.
	if err := channel.Qos(1, 0, false); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to set qos: %w", err)
	}

	return &QueueService{
		conn:        conn,
		channel:     channel,
		logger:      logger,
		queueName:   queueName,
		captioner:   captioner,
		store:       store,
		download:    utils.DownloadImage,
		maxFileSize: maxFileSize,
	}, nil
}

// Close closes the queue connection
func (q *QueueService) Close() error {
	if q.channel != nil {
		q.channel.Close()
	}
	if q.conn != nil {
		return q.conn.Close()
	}
	return nil
}
