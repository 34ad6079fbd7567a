package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"penned/internal/pkg/config"
	"penned/internal/pkg/middleware"
	"penned/internal/pkg/push"
	"penned/internal/pkg/registry"
	"penned/internal/pkg/uploader"
	"penned/internal/pkg/worker"
	"penned/pkg/cache"
	"penned/pkg/database"
	"penned/pkg/logger"
	"penned/pkg/metrics"
	"penned/pkg/response"

	// 领域模块通过 init() 自注册
	_ "penned/internal/domain/admin"
	_ "penned/internal/domain/board"
	_ "penned/internal/domain/common"
	_ "penned/internal/domain/post"
	_ "penned/internal/domain/series"
	_ "penned/internal/domain/subscription"
	_ "penned/internal/domain/user"

	_ "penned/docs"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// @title Penned API
// @version 1.0
// @description 内容发布平台：文章、系列、招聘/课程/比赛与人工审批的付费订阅
// @BasePath /
func main() {
	// 1. 配置与日志
	config.LoadConfig()
	logger.Init(config.GlobalConfig.Server.Mode, config.GlobalConfig.App.Debug)
	defer logger.Sync()

	// 2. 基础设施
	db := database.InitDatabase()
	rdb := database.InitRedis()
	cacheService := cache.NewRedisCache(rdb)

	poolMonitor := database.NewPoolMonitor(db, metrics.GetGlobalCollector(), time.Second*15)
	defer poolMonitor.Close()

	// 3. 对象存储与清理队列
	var janitor *worker.Janitor
	if err := uploader.InitUploader(); err != nil {
		logger.Log.Warn("Uploader not configured, image upload disabled", zap.Error(err))
	} else {
		janitor = worker.NewJanitor(uploader.GlobalUploader, 4, 256)
		janitor.Start()
	}

	// 4. 推送未配置时降级为只发邮件
	if err := push.InitPushService(); err != nil {
		logger.Log.Warn("Push service not configured, notifications degrade to email only", zap.Error(err))
	}

	// 5. HTTP 引擎与全局中间件
	gin.SetMode(config.GlobalConfig.Server.Mode)
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.TraceMiddleware(),
		middleware.LoggerMiddleware(),
		middleware.MetricsMiddleware(),
		middleware.RateLimitMiddleware(),
		cors.New(cors.Config{
			AllowOrigins:     []string{"*"},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}),
	)

	router.GET("/health", func(c *gin.Context) {
		response.Success(c, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 6. 按优先级初始化领域模块
	moduleCtx := &registry.ModuleContext{
		DB:      db,
		Redis:   rdb,
		Router:  router,
		Cache:   cacheService,
		Janitor: janitor,
	}
	if err := registry.InitModules(moduleCtx); err != nil {
		logger.Log.Fatal("Failed to initialize modules", zap.Error(err))
	}

	// 7. 启动与优雅退出
	srv := &http.Server{
		Addr:    ":" + config.GlobalConfig.Server.Port,
		Handler: router,
	}

	go func() {
		logger.Log.Info("Server listening", zap.String("port", config.GlobalConfig.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Forced shutdown", zap.Error(err))
	}
	logger.Log.Info("Server exited")
}
