package storage

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/phambaophuc/image-captioning/internal/models"
	"github.com/redis/go-redis/v9"
)

// GetFromCache returns nil without error on a miss or when caching is off.
func (s *StorageService) GetFromCache(ctx context.Context, cacheKey string) ([]byte, error) {
	if !s.CacheEnabled() {
		return nil, nil
	}
	data, err := s.redisClient.Get(ctx, cacheKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Cache miss
		}
		return nil, fmt.Errorf("cache get error: %w", err)
	}
	return data, nil
}

func (s *StorageService) SetCache(ctx context.Context, cacheKey string, data []byte) error {
	if !s.CacheEnabled() {
		return nil
	}
	return s.redisClient.Set(ctx, cacheKey, data, s.cacheDuration).Err()
}

// GenerateCacheKey hashes the source bytes with every option that affects the
// rendered output. Options must already be normalized.
func (s *StorageService) GenerateCacheKey(src []byte, opts models.CaptionOptions) string {
	hash := sha256.New()
	hash.Write(src)
	fmt.Fprintf(hash, "|caption=%q|size=%d|color=%q|margin=%d|family=%q|outline=%t|output=%s|quality=%d",
		opts.Caption, opts.FontSize, opts.TextColor, opts.Margin, opts.FontFamily,
		opts.OutlineEnabled(), opts.Output, opts.Quality)

	return fmt.Sprintf("%s%x", CacheKeyPrefix, hash.Sum(nil))
}

func (s *StorageService) SaveJob(ctx context.Context, job *models.CaptionJob) error {
	if s.redisClient == nil {
		return ErrNotConfigured
	}
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}
	return s.redisClient.Set(ctx, JobKeyPrefix+job.ID, data, jobTTL).Err()
}

func (s *StorageService) GetJob(ctx context.Context, id string) (*models.CaptionJob, error) {
	if s.redisClient == nil {
		return nil, ErrNotConfigured
	}
	data, err := s.redisClient.Get(ctx, JobKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("job get error: %w", err)
	}

	var job models.CaptionJob
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job: %w", err)
	}
	return &job, nil
}

func (s *StorageService) GetCacheStats(ctx context.Context) (map[string]interface{}, error) {
	if s.redisClient == nil {
		return nil, ErrNotConfigured
	}

	pipeline := s.redisClient.Pipeline()
	dbSizeCmd := pipeline.DBSize(ctx)
	cacheKeysCmd := pipeline.Keys(ctx, CacheKeyPrefix+"*")

	if _, err := pipeline.Exec(ctx); err != nil {
		return nil, fmt.Errorf("pipeline error: %w", err)
	}

	return map[string]interface{}{
		"db_keys":       dbSizeCmd.Val(),
		"cached_images": len(cacheKeysCmd.Val()),
		"enabled":       s.CacheEnabled(),
	}, nil
}
