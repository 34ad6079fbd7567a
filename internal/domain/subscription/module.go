package subscription

import (
	"penned/internal/domain/subscription/handler"
	"penned/internal/domain/subscription/repository"
	"penned/internal/domain/subscription/service"
	"penned/internal/pkg/mailer"
	"penned/internal/pkg/middleware"
	"penned/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// SubscriptionModule 订阅模块
type SubscriptionModule struct{}

func init() {
	registry.Register(&SubscriptionModule{})
}

func (m *SubscriptionModule) Name() string {
	return "subscription"
}

func (m *SubscriptionModule) Priority() int {
	return 20
}

func (m *SubscriptionModule) Init(ctx *registry.ModuleContext) error {
	// 1. 依赖注入
	subRepo := repository.NewSubscriptionRepository(ctx.DB)
	subService := service.NewSubscriptionService(subRepo, mailer.NewMailer(), ctx.Janitor)
	subHandler := handler.NewSubscriptionHandler(subService)

	// 2. 路由注册
	setupRoutes(ctx.Router, subHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.SubscriptionHandler) {
	// 用户侧
	subGroup := r.Group("/subscription")
	subGroup.Use(middleware.AuthMiddleware())
	{
		subGroup.POST("/receipt", h.UploadReceipt)
		subGroup.GET("/status", h.GetStatus)
		subGroup.GET("/history", h.GetHistory)
	}

	// 管理员审批
	adminGroup := r.Group("/admin/receipts")
	adminGroup.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		adminGroup.GET("", h.ListPending)
		adminGroup.POST("/:userId/approve", h.Approve)
		adminGroup.POST("/:userId/reject", h.Reject)
	}
}
