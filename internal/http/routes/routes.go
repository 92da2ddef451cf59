package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/image-captioning/internal/http/handlers"
	"github.com/phambaophuc/image-captioning/internal/http/middleware"
	"go.uber.org/zap"
)

// multipartOverhead is headroom for form fields and boundaries on top of
// the file size limit.
const multipartOverhead = 1 << 20

type Router struct {
	captionHandler *handlers.CaptionHandler
	logger         *zap.Logger
	maxFileSize    int64
}

func NewRouter(
	captionHandler *handlers.CaptionHandler,
	logger *zap.Logger,
	maxFileSize int64,
) *Router {
	return &Router{
		captionHandler: captionHandler,
		logger:         logger,
		maxFileSize:    maxFileSize,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(r.logger))
	router.Use(middleware.ErrorHandler(r.logger))
	router.Use(middleware.CORS())
	router.Use(middleware.SecurityHeaders())

	// A non-positive file limit means no limit, so the body is not capped.
	var bodyLimit int64
	if r.maxFileSize > 0 {
		bodyLimit = r.maxFileSize + multipartOverhead
	}
	upload := []gin.HandlerFunc{
		middleware.MaxBodySize(bodyLimit),
		middleware.RequireMultipart(),
		r.captionHandler.CaptionImage,
	}

	router.POST("/api/caption", upload...)

	// API version 1
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", r.captionHandler.HealthCheck)

		captions := v1.Group("/captions")
		{
			captions.POST("", upload...)
			captions.POST("/jobs", r.captionHandler.CreateJob)
			captions.GET("/jobs/:id", r.captionHandler.GetJob)
		}
	}

	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"status":  "OK",
			"message": "Image captioning is running",
		})
	})

	return router
}
