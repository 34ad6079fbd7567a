package post

import (
	"penned/internal/domain/post/handler"
	"penned/internal/domain/post/repository"
	"penned/internal/domain/post/service"
	userRepository "penned/internal/domain/user/repository"
	"penned/internal/pkg/middleware"
	"penned/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// PostModule 内容模块（文章/博客/评论）
type PostModule struct{}

func init() {
	registry.Register(&PostModule{})
}

func (m *PostModule) Name() string {
	return "post"
}

func (m *PostModule) Priority() int {
	return 10
}

func (m *PostModule) Init(ctx *registry.ModuleContext) error {
	// 1. 依赖注入
	postRepo := repository.NewPostRepository(ctx.DB)
	userRepo := userRepository.NewUserRepository(ctx.DB)
	postService := service.NewPostService(postRepo, userRepo, ctx.Cache, ctx.Janitor)
	postHandler := handler.NewPostHandler(postService)

	// 2. 路由注册
	setupRoutes(ctx.Router, postHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.PostHandler) {
	// 公开读取
	postGroup := r.Group("/posts")
	{
		postGroup.GET("", h.GetFeed)
		postGroup.GET("/:id", h.GetPost)
		postGroup.GET("/:id/comments", h.GetComments)
	}

	// 需要登录
	authed := r.Group("/posts")
	authed.Use(middleware.AuthMiddleware())
	{
		authed.POST("", h.CreatePost)
		authed.PUT("/:id", h.UpdatePost)
		authed.DELETE("/:id", h.DeletePost)
		authed.POST("/:id/upvote", h.ToggleUpvote)
		authed.POST("/:id/comments", h.AddComment)
		authed.DELETE("/:id/comments/:commentId", h.DeleteComment)
	}

	blogGroup := r.Group("/blogs")
	{
		blogGroup.GET("", h.GetBlogs)
		blogGroup.GET("/:id", h.GetBlog)
	}

	blogAuthed := r.Group("/blogs")
	blogAuthed.Use(middleware.AuthMiddleware())
	{
		blogAuthed.POST("", h.CreateBlog)
		blogAuthed.PUT("/:id", h.UpdateBlog)
		blogAuthed.DELETE("/:id", h.DeleteBlog)
	}
}
