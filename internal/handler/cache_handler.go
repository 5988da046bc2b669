package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jengzang/contour-backend/internal/service"
	"github.com/jengzang/contour-backend/pkg/response"
)

// CacheHandler handles HTTP requests for cache maintenance
type CacheHandler struct {
	cacheService *service.CacheService
}

// NewCacheHandler creates a new cache handler
func NewCacheHandler(cacheService *service.CacheService) *CacheHandler {
	return &CacheHandler{
		cacheService: cacheService,
	}
}

// Flush handles DELETE /cache/
func (h *CacheHandler) Flush(c *gin.Context) {
	if err := h.cacheService.Flush(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, nil)
}

// Stats handles GET /cache/
func (h *CacheHandler) Stats(c *gin.Context) {
	stats, err := h.cacheService.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, stats)
}
