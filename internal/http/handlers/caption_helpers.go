package handlers

import (
	"context"
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/image-captioning/internal/models"
	"github.com/phambaophuc/image-captioning/internal/services/captioner"
	"github.com/phambaophuc/image-captioning/internal/services/processor"
	"github.com/phambaophuc/image-captioning/pkg/utils"
	"go.uber.org/zap"
)

// === REQUEST PARSING ===

// parseCaptionForm reads the form fields. Numeric fields that do not parse
// keep their defaults; outline is on unless the field is present and not
// exactly "true".
func (h *CaptionHandler) parseCaptionForm(c *gin.Context) models.CaptionOptions {
	defaults := h.captioner.Defaults()

	opts := models.CaptionOptions{
		Caption:    c.PostForm("caption"),
		FontSize:   h.parseInt(c.PostForm("fontSize"), defaults.FontSize),
		TextColor:  c.PostForm("textColor"),
		Margin:     h.parseInt(c.PostForm("margin"), defaults.Margin),
		FontFamily: c.PostForm("fontFamily"),
		Output:     models.ParseOutputFormat(c.PostForm("output")),
		Quality:    h.parseInt(c.PostForm("quality"), defaults.Quality),
	}

	if value, ok := c.GetPostForm("outline"); ok {
		outline := value == "true"
		opts.Outline = &outline
	}

	return opts
}

// parseInt accepts any finite decimal number and floors it, so "40.5"
// means 40.
func (h *CaptionHandler) parseInt(value string, fallback int) int {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return fallback
	}
	f = math.Floor(f)
	if f > math.MaxInt32 || f < math.MinInt32 {
		return fallback
	}
	return int(f)
}

// === FILE OPERATIONS ===

func (h *CaptionHandler) readUpload(c *gin.Context) ([]byte, string, error) {
	file, header, err := c.Request.FormFile(fileParamKey)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, "", processor.ErrFileTooLarge
		}
		return nil, "", captioner.ErrMissingFile
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", captioner.ErrMissingFile
	}
	return data, header.Filename, nil
}

// === RESPONSE HANDLING ===

func (h *CaptionHandler) respondError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, models.APIResponse{
		Success: false,
		Error:   message,
	})
}

// respondCaptionError maps pipeline errors to 400 or 500. Server-side
// details stay in the log.
func (h *CaptionHandler) respondCaptionError(c *gin.Context, err error) {
	if captioner.IsClientError(err) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	h.logger.Error("Caption failed",
		zap.String("path", c.Request.URL.Path),
		zap.Error(err))
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: internalErrorMsg})
}

func (h *CaptionHandler) respondWithCaption(c *gin.Context, result *models.CaptionResult, originalName string) {
	if wantsURL(c) {
		h.respondWithURL(c, result, originalName)
		return
	}

	c.Header("Content-Disposition", `inline; filename="`+result.Format.Filename()+`"`)
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, result.Format.ContentType(), result.Data)
}

func wantsURL(c *gin.Context) bool {
	return c.Query("return_url") == "true"
}

func (h *CaptionHandler) respondWithURL(c *gin.Context, result *models.CaptionResult, originalName string) {
	if !h.storage.PublishingEnabled() {
		h.respondError(c, http.StatusServiceUnavailable, "storage not configured")
		return
	}

	filename := utils.CaptionedFilename(originalName, result.Format.Extension())
	url, err := h.storage.Upload(c.Request.Context(), result.Data, filename, result.Format.ContentType())
	if err != nil {
		h.logger.Error("Failed to upload to Storage", zap.Error(err))
		h.respondError(c, http.StatusInternalServerError, "failed to publish image")
		return
	}

	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    h.newCaptionedImage(result, originalName, url),
	})
}

// === UTILITY METHODS ===

func (h *CaptionHandler) calculateOverallHealth(services map[string]string) string {
	for _, status := range services {
		if status != "healthy" && status != "not configured" {
			return "unhealthy"
		}
	}
	return "healthy"
}

// attachStats adds cache and queue statistics for configured backends.
func (h *CaptionHandler) attachStats(ctx context.Context, health *models.HealthCheck) {
	if health.Services["redis"] == "healthy" {
		cacheStats, err := h.storage.GetCacheStats(ctx)
		if err != nil {
			h.logger.Warn("Failed to get cache stats", zap.Error(err))
		} else {
			health.Cache = cacheStats
		}
	}

	if h.queue != nil && health.Services["rabbitmq"] == "healthy" {
		queueStats, err := h.queue.GetQueueStats()
		if err != nil {
			h.logger.Warn("Failed to get queue stats", zap.Error(err))
		} else {
			health.Queue = queueStats
		}
	}
}

// === CACHE OPERATIONS ===

func (h *CaptionHandler) tryGetFromCache(ctx context.Context, cacheKey string) ([]byte, bool) {
	cachedData, err := h.storage.GetFromCache(ctx, cacheKey)
	if err != nil {
		h.logger.Warn("Cache lookup failed", zap.String("cache_key", cacheKey), zap.Error(err))
		return nil, false
	}
	if cachedData == nil {
		return nil, false
	}

	h.logger.Info("Cache hit", zap.String("cache_key", cacheKey))
	return cachedData, true
}

func (h *CaptionHandler) setCacheData(ctx context.Context, cacheKey string, data []byte) {
	if err := h.storage.SetCache(ctx, cacheKey, data); err != nil {
		h.logger.Warn("Failed to cache data", zap.String("cache_key", cacheKey), zap.Error(err))
	}
}
