package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jengzang/contour-backend/internal/api"
	"github.com/jengzang/contour-backend/internal/cache"
	"github.com/jengzang/contour-backend/internal/config"
	"github.com/jengzang/contour-backend/internal/database"
	"github.com/jengzang/contour-backend/internal/fetch"
	"github.com/jengzang/contour-backend/internal/github"
	"github.com/jengzang/contour-backend/internal/handler"
	"github.com/jengzang/contour-backend/internal/middleware"
	"github.com/jengzang/contour-backend/internal/repository"
	"github.com/jengzang/contour-backend/internal/service"
)

func main() {
	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 初始化缓存: DB_PATH 为空时使用内存缓存
	var store cache.Cache
	if cfg.DBPath == "" {
		log.Printf("Using in-memory cache")
		store = cache.NewMemory(cfg.CacheTTL)
	} else {
		db, err := database.Open(database.Config{Path: cfg.DBPath})
		if err != nil {
			log.Fatal("Failed to initialize database:", err)
		}
		defer db.Close()
		store = repository.NewCacheRepository(db, cfg.CacheTTL)
	}

	// 初始化服务
	fetcher := fetch.NewFetcher(nil, store, cfg.FetchTimeout, cfg.MaxDownloadBytes)
	ghClient := github.NewClient(&http.Client{Timeout: cfg.FetchTimeout}, cfg.GitHubAPIURL, cfg.GitHubToken)
	if cfg.GitHubToken == "" {
		log.Printf("Warning: GITHUB_TOKEN is not set, comments will be rejected by GitHub")
	}

	cacheService := service.NewCacheService(store)
	go cacheService.RunPurger(ctx, cfg.CacheTTL)

	handlers := &api.Handlers{
		File:    handler.NewFileHandler(service.NewProxyService(fetcher)),
		Contour: handler.NewContourHandler(service.NewContourService(fetcher, cfg.DefaultNInterp, cfg.MaxNInterp, cfg.ComputeTimeout)),
		Comment: handler.NewCommentHandler(service.NewCommentService(ghClient)),
		Cache:   handler.NewCacheHandler(cacheService),
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
	defer limiter.Stop()

	// 初始化路由
	router, err := api.SetupRouter(cfg, handlers, limiter)
	if err != nil {
		log.Fatal("Failed to set up router:", err)
	}

	srv := &http.Server{
		Addr:    cfg.Port,
		Handler: router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server:", err)
		}
	}()

	<-ctx.Done()
	log.Printf("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown failed: %v", err)
	}
}
