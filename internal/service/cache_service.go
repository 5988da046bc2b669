package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jengzang/contour-backend/internal/cache"
	"github.com/jengzang/contour-backend/internal/models"
)

// Purger removes expired cache entries
type Purger interface {
	Purge(ctx context.Context) (int64, error)
}

// StatsReporter summarises a cache
type StatsReporter interface {
	Stats(ctx context.Context) (*models.CacheStats, error)
}

// CacheService handles business logic for cache maintenance
type CacheService struct {
	cache cache.Cache
}

// NewCacheService creates a new cache service
func NewCacheService(c cache.Cache) *CacheService {
	return &CacheService{cache: c}
}

// Flush empties the cache
func (s *CacheService) Flush(ctx context.Context) error {
	if err := s.cache.Flush(ctx); err != nil {
		return fmt.Errorf("failed to flush cache: %w", err)
	}
	log.Printf("Cache flushed")
	return nil
}

// Stats returns the cache summary, or nil when the cache keeps none
func (s *CacheService) Stats(ctx context.Context) (*models.CacheStats, error) {
	r, ok := s.cache.(StatsReporter)
	if !ok {
		return nil, nil
	}
	stats, err := r.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get cache stats: %w", err)
	}
	return stats, nil
}

// Purge removes expired entries when the cache supports it
func (s *CacheService) Purge(ctx context.Context) (int64, error) {
	p, ok := s.cache.(Purger)
	if !ok {
		return 0, nil
	}
	n, err := p.Purge(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to purge cache: %w", err)
	}
	return n, nil
}

// RunPurger purges expired entries every interval until ctx is done
func (s *CacheService) RunPurger(ctx context.Context, interval time.Duration) {
	if _, ok := s.cache.(Purger); !ok || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.Purge(ctx)
			if err != nil {
				log.Printf("Warning: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("Purged %d expired cache entries", n)
			}
		}
	}
}
