package series

import (
	"penned/internal/domain/series/handler"
	"penned/internal/domain/series/repository"
	"penned/internal/domain/series/service"
	"penned/internal/pkg/middleware"
	"penned/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// SeriesModule 系列模块
type SeriesModule struct{}

func init() {
	registry.Register(&SeriesModule{})
}

func (m *SeriesModule) Name() string {
	return "series"
}

func (m *SeriesModule) Priority() int {
	return 11
}

func (m *SeriesModule) Init(ctx *registry.ModuleContext) error {
	// 1. 依赖注入
	seriesRepo := repository.NewSeriesRepository(ctx.DB)
	seriesService := service.NewSeriesService(seriesRepo, ctx.Janitor)
	seriesHandler := handler.NewSeriesHandler(seriesService)

	// 2. 路由注册
	setupRoutes(ctx.Router, seriesHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.SeriesHandler) {
	// 公开读取
	seriesGroup := r.Group("/series")
	{
		seriesGroup.GET("", h.GetSeriesList)
		seriesGroup.GET("/:id", h.GetSeries)
	}

	// 需要登录
	authed := r.Group("/series")
	authed.Use(middleware.AuthMiddleware())
	{
		authed.POST("", h.CreateSeries)
		authed.PUT("/:id", h.UpdateSeries)
		authed.DELETE("/:id", h.DeleteSeries)
		authed.POST("/:id/episodes", h.AddEpisode)
		authed.PUT("/:id/episodes/:episodeId", h.UpdateEpisode)
		authed.DELETE("/:id/episodes/:episodeId", h.DeleteEpisode)
	}
}
