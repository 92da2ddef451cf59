package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/phambaophuc/image-captioning/internal/models"
	"github.com/phambaophuc/image-captioning/internal/services/captioner"
	"github.com/phambaophuc/image-captioning/internal/services/queue"
	"github.com/phambaophuc/image-captioning/internal/services/storage"
	"go.uber.org/zap"
)

const (
	fileParamKey     = "file"
	internalErrorMsg = "failed to caption image"
)

// Captioner renders captions onto uploaded images.
type Captioner interface {
	Caption(ctx context.Context, src []byte, opts models.CaptionOptions) (*models.CaptionResult, error)
	Defaults() models.CaptionOptions
	Normalize(opts models.CaptionOptions) models.CaptionOptions
}

// Store is the result cache, job store and publisher. Every method must be
// safe to call when its backend is not configured.
type Store interface {
	CacheEnabled() bool
	PublishingEnabled() bool
	GenerateCacheKey(src []byte, opts models.CaptionOptions) string
	GetFromCache(ctx context.Context, cacheKey string) ([]byte, error)
	SetCache(ctx context.Context, cacheKey string, data []byte) error
	Upload(ctx context.Context, data []byte, filename, contentType string) (string, error)
	GetJob(ctx context.Context, id string) (*models.CaptionJob, error)
	HealthCheck(ctx context.Context) map[string]string
	GetCacheStats(ctx context.Context) (map[string]interface{}, error)
}

type JobQueue interface {
	PublishJob(ctx context.Context, job *models.CaptionJob) error
	HealthCheck() string
	GetQueueStats() (map[string]interface{}, error)
}

type CaptionHandler struct {
	captioner Captioner
	storage   Store
	queue     JobQueue
	logger    *zap.Logger
	startedAt time.Time
}

// NewCaptionHandler wires the handler. jobs may be nil when async jobs are
// disabled.
func NewCaptionHandler(c Captioner, s Store, jobs JobQueue, logger *zap.Logger) *CaptionHandler {
	return &CaptionHandler{
		captioner: c,
		storage:   s,
		queue:     jobs,
		logger:    logger,
		startedAt: time.Now(),
	}
}

// === MAIN API ENDPOINTS ===

// CaptionImage accepts a multipart upload and responds with the captioned
// image bytes.
func (h *CaptionHandler) CaptionImage(c *gin.Context) {
	src, filename, err := h.readUpload(c)
	if err != nil {
		h.respondCaptionError(c, err)
		return
	}

	opts := h.captioner.Normalize(h.parseCaptionForm(c))
	ctx := c.Request.Context()

	// Blank captions never reach the cache. Cached entries hold bytes only, so
	// URL responses, which report dimensions and line count, always render.
	var cacheKey string
	if opts.Caption != "" && h.storage.CacheEnabled() {
		cacheKey = h.storage.GenerateCacheKey(src, opts)
		if !wantsURL(c) {
			if cached, found := h.tryGetFromCache(ctx, cacheKey); found {
				h.respondWithCaption(c, &models.CaptionResult{Data: cached, Format: opts.Output}, filename)
				return
			}
		}
	}

	result, err := h.captioner.Caption(ctx, src, opts)
	if err != nil {
		h.respondCaptionError(c, err)
		return
	}

	if cacheKey != "" {
		h.setCacheData(ctx, cacheKey, result.Data)
	}

	h.respondWithCaption(c, result, filename)
}

// CreateJob queues a caption job for an image fetched by URL.
func (h *CaptionHandler) CreateJob(c *gin.Context) {
	if h.queue == nil {
		h.respondError(c, http.StatusServiceUnavailable, "job queue not configured")
		return
	}

	// Options absent from the body keep the service defaults.
	req := models.CaptionJobRequest{Options: h.defaultOptions()}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, http.StatusBadRequest, "invalid job request: "+err.Error())
		return
	}
	if h.captioner.Normalize(req.Options).Caption == "" {
		h.respondError(c, http.StatusBadRequest, captioner.ErrBlankCaption.Error())
		return
	}

	job := queue.NewJob(req)
	if err := h.queue.PublishJob(c.Request.Context(), job); err != nil {
		h.logger.Error("Failed to publish job", zap.String("job_id", job.ID), zap.Error(err))
		h.respondError(c, http.StatusInternalServerError, "failed to queue job")
		return
	}

	c.JSON(http.StatusAccepted, models.APIResponse{
		Success: true,
		Data:    job,
	})
}

func (h *CaptionHandler) GetJob(c *gin.Context) {
	job, err := h.storage.GetJob(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, storage.ErrJobNotFound):
		h.respondError(c, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, storage.ErrNotConfigured):
		h.respondError(c, http.StatusServiceUnavailable, "job store not configured")
		return
	case err != nil:
		h.logger.Error("Failed to load job", zap.String("job_id", c.Param("id")), zap.Error(err))
		h.respondError(c, http.StatusInternalServerError, "failed to load job")
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    job,
	})
}

// HealthCheck
func (h *CaptionHandler) HealthCheck(c *gin.Context) {
	services := h.storage.HealthCheck(c.Request.Context())
	if h.queue != nil {
		services["rabbitmq"] = h.queue.HealthCheck()
	} else {
		services["rabbitmq"] = "not configured"
	}
	overall := h.calculateOverallHealth(services)

	statusCode := http.StatusOK
	if overall == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	health := models.HealthCheck{
		Status:    overall,
		Timestamp: time.Now(),
		Uptime:    time.Since(h.startedAt).Round(time.Second).String(),
		Services:  services,
	}
	h.attachStats(c.Request.Context(), &health)

	c.JSON(statusCode, models.APIResponse{
		Success: overall == "healthy",
		Data:    health,
	})
}

// defaultOptions returns a copy of the defaults that is safe to decode into.
func (h *CaptionHandler) defaultOptions() models.CaptionOptions {
	opts := h.captioner.Defaults()
	if opts.Outline != nil {
		outline := *opts.Outline
		opts.Outline = &outline
	}
	return opts
}

func (h *CaptionHandler) newCaptionedImage(result *models.CaptionResult, originalName, url string) models.CaptionedImage {
	return models.CaptionedImage{
		ID:           uuid.New().String(),
		OriginalName: originalName,
		ProcessedAt:  time.Now(),
		Dimensions:   result.Dimensions,
		Format:       result.Format,
		URL:          url,
		FileSize:     int64(len(result.Data)),
		Lines:        result.Lines,
	}
}
