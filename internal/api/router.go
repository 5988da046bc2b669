package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/contour-backend/internal/config"
	"github.com/jengzang/contour-backend/internal/handler"
	"github.com/jengzang/contour-backend/internal/middleware"
	"github.com/jengzang/contour-backend/pkg/response"
)

// Handlers 路由依赖的处理器
type Handlers struct {
	File    *handler.FileHandler
	Contour *handler.ContourHandler
	Comment *handler.CommentHandler
	Cache   *handler.CacheHandler
}

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, h *Handlers, limiter *middleware.RateLimiter) (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())

	// CORS 中间件
	cors, err := middleware.CORS(cfg.AllowedOrigins, cfg.AllowedOriginPattern)
	if err != nil {
		return nil, err
	}
	r.Use(cors)

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Contour Backend API is running",
		})
	})

	// 文件代理与等值线
	r.GET("/get/", h.File.GetFile)
	r.GET("/get_contour/", middleware.RateLimit(limiter), h.Contour.GetContour)

	// 需要鉴权的接口
	auth := middleware.Auth(cfg.JWTSecret)
	r.POST("/comment/", auth, h.Comment.PostComment)

	cache := r.Group("/cache", auth)
	{
		cache.GET("/", h.Cache.Stats)
		cache.DELETE("/", h.Cache.Flush)
	}

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "Route not found: "+c.Request.URL.Path)
	})

	return r, nil
}
