package storage

import (
	"errors"
	"time"

	"github.com/phambaophuc/image-captioning/internal/config"
	"github.com/redis/go-redis/v9"
	storage_go "github.com/supabase-community/storage-go"
)

var (
	ErrNotConfigured = errors.New("storage not configured")
	ErrJobNotFound   = errors.New("job not found")
)

const (
	CacheKeyPrefix = "caption_cache:"
	JobKeyPrefix   = "caption_job:"
	jobTTL         = 24 * time.Hour
)

// StorageService fronts Redis (result cache, job state) and Supabase Storage
// (published results). Either backend may be absent.
type StorageService struct {
	sbClient      *storage_go.Client
	redisClient   *redis.Client
	bucket        string
	cacheEnabled  bool
	cacheDuration time.Duration
}

func NewStorageService(cfg *config.Config) *StorageService {
	s := &StorageService{
		bucket:        cfg.Supabase.BUCKET,
		cacheEnabled:  cfg.Storage.CacheEnabled,
		cacheDuration: cfg.Storage.CacheDuration,
	}

	if cfg.Supabase.Enabled() {
		s.sbClient = storage_go.NewClient(cfg.Supabase.URL+"/storage/v1", cfg.Supabase.KEY, nil)
	}

	if cfg.Storage.CacheEnabled || cfg.RabbitMQ.Enabled {
		s.redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	return s
}

func (s *StorageService) CacheEnabled() bool {
	return s.cacheEnabled && s.redisClient != nil
}

func (s *StorageService) PublishingEnabled() bool {
	return s.sbClient != nil
}

func (s *StorageService) Close() error {
	if s.redisClient != nil {
		return s.redisClient.Close()
	}
	return nil
}
