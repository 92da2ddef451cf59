// Package app assembles the caption server from configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/image-captioning/internal/config"
	"github.com/phambaophuc/image-captioning/internal/http/handlers"
	"github.com/phambaophuc/image-captioning/internal/http/routes"
	"github.com/phambaophuc/image-captioning/internal/services/captioner"
	"github.com/phambaophuc/image-captioning/internal/services/processor"
	"github.com/phambaophuc/image-captioning/internal/services/queue"
	"github.com/phambaophuc/image-captioning/internal/services/storage"
	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

// NewLogger returns a development logger for APP_ENV=development and a
// production logger otherwise.
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// NewCaptioner builds the caption pipeline on the raster engine.
func NewCaptioner(cfg *config.Config, logger *zap.Logger) (*captioner.Service, error) {
	engine, err := processor.NewImageProcessor(logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize image processor: %w", err)
	}
	return captioner.NewService(engine, cfg.Caption, cfg.Storage.MaxFileSize, logger), nil
}

type Server struct {
	cfg     *config.Config
	logger  *zap.Logger
	storage *storage.StorageService
	queue   *queue.QueueService
	http    *http.Server
}

// NewServer wires services, handlers and routes. The job queue is optional:
// a RabbitMQ failure is logged and the server runs without async jobs.
func NewServer(cfg *config.Config, logger *zap.Logger) (*Server, error) {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	captionService, err := NewCaptioner(cfg, logger)
	if err != nil {
		return nil, err
	}

	storageService := storage.NewStorageService(cfg)

	s := &Server{
		cfg:     cfg,
		logger:  logger,
		storage: storageService,
	}

	var jobs handlers.JobQueue
	if cfg.RabbitMQ.Enabled {
		q, err := queue.NewQueueService(
			cfg.RabbitMQ.URL,
			cfg.RabbitMQ.Queue,
			captionService,
			storageService,
			cfg.Storage.MaxFileSize,
			logger,
		)
		if err != nil {
			logger.Warn("Failed to initialize queue service", zap.Error(err))
		} else {
			s.queue = q
			jobs = q
		}
	}

	captionHandler := handlers.NewCaptionHandler(captionService, storageService, jobs, logger)
	router := routes.NewRouter(captionHandler, logger, cfg.Storage.MaxFileSize)

	s.http = &http.Server{
		Addr:         ":" + cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		Handler:      router.SetupRoutes(),
	}
	return s, nil
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	workerCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()

	if s.queue != nil {
		for i := 1; i <= s.cfg.RabbitMQ.Workers; i++ {
			if err := s.queue.StartWorker(workerCtx, i); err != nil {
				s.logger.Error("Failed to start worker", zap.Int("worker_id", i), zap.Error(err))
			}
		}
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting server", zap.String("addr", s.http.Addr))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			s.close()
			return fmt.Errorf("server failed to start: %w", err)
		}
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server...")
	stopWorkers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.http.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("Server forced to shutdown", zap.Error(err))
	}
	s.close()

	s.logger.Info("Server exited")
	return nil
}

func (s *Server) close() {
	if s.queue != nil {
		if err := s.queue.Close(); err != nil {
			s.logger.Warn("Failed to close queue", zap.Error(err))
		}
	}
	if err := s.storage.Close(); err != nil {
		s.logger.Warn("Failed to close storage", zap.Error(err))
	}
}
