package user

import (
	"penned/internal/domain/user/handler"
	"penned/internal/domain/user/repository"
	"penned/internal/domain/user/service"
	"penned/internal/pkg/mailer"
	"penned/internal/pkg/middleware"
	"penned/internal/pkg/registry"
	"penned/internal/pkg/verify"

	"github.com/gin-gonic/gin"
)

// UserModule 用户模块
type UserModule struct{}

func init() {
	// 自动注册模块
	registry.Register(&UserModule{})
}

func (m *UserModule) Name() string {
	return "user"
}

func (m *UserModule) Priority() int {
	// 用户模块优先级最高，其他模块依赖它
	return 1
}

func (m *UserModule) Init(ctx *registry.ModuleContext) error {
	// 1. 依赖注入
	userRepo := repository.NewUserRepository(ctx.DB)
	tokens := verify.NewTokenService(ctx.Redis)
	mail := mailer.NewMailer()
	userService := service.NewUserService(userRepo, tokens, mail, ctx.Cache)
	userHandler := handler.NewUserHandler(userService)

	// 2. 路由注册
	setupRoutes(ctx.Router, userHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.UserHandler) {
	// 公开路由
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.GET("/verify", h.VerifyEmail)
		authGroup.POST("/reset/request", h.RequestPasswordReset)
		authGroup.POST("/reset/confirm", h.ConfirmPasswordReset)
	}

	// 受保护的路由
	userGroup := r.Group("/users")
	userGroup.Use(middleware.AuthMiddleware())
	{
		userGroup.GET("/me", h.Me)
		userGroup.PUT("/me", h.UpdateMe)
		userGroup.GET("/:id", h.GetUser)
	}

	// 管理员
	adminGroup := r.Group("/admin/users")
	adminGroup.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		adminGroup.GET("", h.GetUsers)
	}
}
