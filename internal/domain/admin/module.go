package admin

import (
	"penned/internal/domain/admin/handler"
	"penned/internal/domain/admin/service"
	boardRepository "penned/internal/domain/board/repository"
	postRepository "penned/internal/domain/post/repository"
	seriesRepository "penned/internal/domain/series/repository"
	userRepository "penned/internal/domain/user/repository"
	"penned/internal/pkg/middleware"
	"penned/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// AdminModule 管理后台模块，聚合其他模块的仓库做搜索与汇总
type AdminModule struct{}

func init() {
	registry.Register(&AdminModule{})
}

func (m *AdminModule) Name() string {
	return "admin"
}

func (m *AdminModule) Priority() int {
	// 依赖所有领域模块的表，放最后
	return 90
}

func (m *AdminModule) Init(ctx *registry.ModuleContext) error {
	// 1. 依赖注入
	adminService := service.NewAdminService(
		ctx.DB,
		userRepository.NewUserRepository(ctx.DB),
		postRepository.NewPostRepository(ctx.DB),
		seriesRepository.NewSeriesRepository(ctx.DB),
		boardRepository.NewBoardRepository(ctx.DB),
	)
	adminHandler := handler.NewAdminHandler(adminService)

	// 2. 路由注册
	setupRoutes(ctx.Router, adminHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.AdminHandler) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		adminGroup.GET("/search", h.Search)
		adminGroup.GET("/dashboard", h.Dashboard)
	}
}
