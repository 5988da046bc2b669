package service

import (
	"context"
	"fmt"

	"github.com/jengzang/contour-backend/internal/fetch"
)

// Fetcher downloads and processes remote files through the cache
type Fetcher interface {
	Fetch(ctx context.Context, rawURL, op string, process func([]byte) ([]byte, error)) (*fetch.Resource, error)
}

// ProxyService handles business logic for the file proxy
type ProxyService struct {
	fetcher Fetcher
}

// NewProxyService creates a new proxy service
func NewProxyService(fetcher Fetcher) *ProxyService {
	return &ProxyService{fetcher: fetcher}
}

// File downloads the file at url unchanged
func (s *ProxyService) File(ctx context.Context, url string) (*fetch.Resource, error) {
	res, err := s.fetcher.Fetch(ctx, url, "file", fetch.Identity)
	if err != nil {
		return nil, fmt.Errorf("failed to get file: %w", err)
	}
	return res, nil
}
