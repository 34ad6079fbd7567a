package board

import (
	"penned/internal/domain/board/handler"
	"penned/internal/domain/board/repository"
	"penned/internal/domain/board/service"
	"penned/internal/pkg/middleware"
	"penned/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// BoardModule 招聘/课程/比赛模块
type BoardModule struct{}

func init() {
	registry.Register(&BoardModule{})
}

func (m *BoardModule) Name() string {
	return "board"
}

func (m *BoardModule) Priority() int {
	return 12
}

func (m *BoardModule) Init(ctx *registry.ModuleContext) error {
	// 1. 依赖注入
	boardRepo := repository.NewBoardRepository(ctx.DB)
	boardService := service.NewBoardService(boardRepo, ctx.Janitor)
	boardHandler := handler.NewBoardHandler(boardService)

	// 2. 路由注册
	setupRoutes(ctx.Router, boardHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.BoardHandler) {
	// 公开读取
	r.GET("/jobs", h.GetJobs)
	r.GET("/jobs/:id", h.GetJob)
	r.GET("/courses", h.GetCourses)
	r.GET("/courses/:id", h.GetCourse)
	r.GET("/competitions", h.GetCompetitions)
	r.GET("/competitions/:id", h.GetCompetition)

	// 报名需要登录
	entryGroup := r.Group("/competitions")
	entryGroup.Use(middleware.AuthMiddleware())
	{
		entryGroup.POST("/:id/enter", h.EnterCompetition)
	}

	// 列表维护仅管理员
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		adminGroup.POST("/jobs", h.CreateJob)
		adminGroup.PUT("/jobs/:id", h.UpdateJob)
		adminGroup.DELETE("/jobs/:id", h.DeleteJob)

		adminGroup.POST("/courses", h.CreateCourse)
		adminGroup.PUT("/courses/:id", h.UpdateCourse)
		adminGroup.DELETE("/courses/:id", h.DeleteCourse)

		adminGroup.POST("/competitions", h.CreateCompetition)
		adminGroup.PUT("/competitions/:id", h.UpdateCompetition)
		adminGroup.PUT("/competitions/:id/status", h.SetCompetitionStatus)
		adminGroup.DELETE("/competitions/:id", h.DeleteCompetition)
		adminGroup.GET("/competitions/:id/entries", h.GetEntries)
	}
}
