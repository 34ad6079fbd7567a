package handler

import (
	"errors"
	"net/http"

	"penned/internal/domain/post/service"
	userHandler "penned/internal/domain/user/handler"
	userModel "penned/internal/domain/user/model"
	"penned/pkg/response"
	"penned/pkg/utils"

	"github.com/gin-gonic/gin"
)

// PostHandler 文章处理器
type PostHandler struct {
	service service.PostService
}

// NewPostHandler 创建处理器
func NewPostHandler(s service.PostService) *PostHandler {
	return &PostHandler{service: s}
}

// PostInput 文章/博客输入
type PostInput struct {
	Title    string `json:"title" binding:"required"`
	Content  string `json:"content" binding:"required"`
	ImageURL string `json:"imageUrl"`
}

// CommentInput 评论输入
type CommentInput struct {
	Text string `json:"text" binding:"required"`
}

// CreatePost 发布文章
// @Summary 发布文章
// @Tags Post
// @Accept json
// @Produce json
// @Param input body PostInput true "文章内容"
// @Success 200 {object} response.Response
// @Router /posts [post]
func (h *PostHandler) CreatePost(c *gin.Context) {
	var input PostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	post, err := h.service.CreatePost(userHandler.GetUserID(c), input.Title, input.Content, input.ImageURL)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, post)
}

// GetFeed 文章信息流，游标分页
// @Summary 文章信息流
// @Tags Post
// @Param cursor query string false "上一页返回的游标"
// @Param limit query int false "条数"
// @Success 200 {object} utils.CursorResult
// @Router /posts [get]
func (h *PostHandler) GetFeed(c *gin.Context) {
	var p utils.Pagination
	c.ShouldBindQuery(&p)

	result, err := h.service.GetFeed(p.Cursor, p.GetLimit())
	if err != nil {
		if errors.Is(err, utils.ErrInvalidCursor) {
			response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, result)
}

// GetPost 获取单篇文章
func (h *PostHandler) GetPost(c *gin.Context) {
	post, err := h.service.GetPost(c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			response.NotFound(c, response.ErrPostNotFound, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, post)
}

// UpdatePost 更新文章（作者或管理员）
func (h *PostHandler) UpdatePost(c *gin.Context) {
	var input PostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	post, err := h.service.UpdatePost(userHandler.GetUserID(c), isAdmin(c),
		c.Param("id"), input.Title, input.Content, input.ImageURL)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, post)
}

// DeletePost 删除文章（作者或管理员）
func (h *PostHandler) DeletePost(c *gin.Context) {
	if err := h.service.DeletePost(userHandler.GetUserID(c), isAdmin(c), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, nil)
}

// ToggleUpvote 点赞/取消点赞
// @Summary 点赞开关
// @Tags Post
// @Param id path string true "文章ID"
// @Success 200 {object} service.UpvoteResult
// @Router /posts/{id}/upvote [post]
func (h *PostHandler) ToggleUpvote(c *gin.Context) {
	result, err := h.service.ToggleUpvote(userHandler.GetUserID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			response.NotFound(c, response.ErrPostNotFound, err.Error())
			return
		}
		// 重试耗尽的冲突也走这里，客户端可直接重放
		response.Error(c, http.StatusConflict, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, result)
}

// CreateBlog 发布博客
func (h *PostHandler) CreateBlog(c *gin.Context) {
	var input PostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	blog, err := h.service.CreateBlog(userHandler.GetUserID(c), input.Title, input.Content, input.ImageURL)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, blog)
}

// GetBlogs 博客列表
func (h *PostHandler) GetBlogs(c *gin.Context) {
	var p utils.Pagination
	c.ShouldBindQuery(&p)

	blogs, total, err := h.service.GetBlogs(p.Page, p.Limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, utils.PageResult{List: blogs, Total: total, Page: p.Page, Limit: p.Limit})
}

// GetBlog 获取单篇博客
func (h *PostHandler) GetBlog(c *gin.Context) {
	blog, err := h.service.GetBlog(c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrBlogNotFound) {
			response.NotFound(c, response.ErrPostNotFound, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, blog)
}

// UpdateBlog 更新博客（作者或管理员）
func (h *PostHandler) UpdateBlog(c *gin.Context) {
	var input PostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	blog, err := h.service.UpdateBlog(userHandler.GetUserID(c), isAdmin(c),
		c.Param("id"), input.Title, input.Content, input.ImageURL)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, blog)
}

// DeleteBlog 删除博客（作者或管理员）
func (h *PostHandler) DeleteBlog(c *gin.Context) {
	if err := h.service.DeleteBlog(userHandler.GetUserID(c), isAdmin(c), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, nil)
}

// AddComment 发表评论
func (h *PostHandler) AddComment(c *gin.Context) {
	var input CommentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	comment, err := h.service.AddComment(userHandler.GetUserID(c), c.Param("id"), input.Text)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, comment)
}

// GetComments 文章评论列表
func (h *PostHandler) GetComments(c *gin.Context) {
	var p utils.Pagination
	c.ShouldBindQuery(&p)

	comments, total, err := h.service.GetComments(c.Param("id"), p.Page, p.Limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, utils.PageResult{List: comments, Total: total, Page: p.Page, Limit: p.Limit})
}

// DeleteComment 删除评论（作者或管理员）
func (h *PostHandler) DeleteComment(c *gin.Context) {
	if err := h.service.DeleteComment(userHandler.GetUserID(c), isAdmin(c), c.Param("commentId")); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, nil)
}

// writeError 按领域错误映射响应
func (h *PostHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPostNotFound),
		errors.Is(err, service.ErrBlogNotFound),
		errors.Is(err, service.ErrCommentNotFound):
		response.NotFound(c, response.ErrPostNotFound, err.Error())
	case errors.Is(err, service.ErrUpvoterNotFound):
		response.NotFound(c, response.ErrUserNotFound, err.Error())
	case errors.Is(err, service.ErrNotOwner):
		response.Forbidden(c, err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
	}
}

// isAdmin 从 JWT 声明读取角色
func isAdmin(c *gin.Context) bool {
	val, _ := c.Get("role")
	role, ok := val.(int)
	return ok && role == userModel.RoleAdmin
}
