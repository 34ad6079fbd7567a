package handler

import (
	"errors"
	"net/http"

	"penned/internal/domain/user/service"
	"penned/pkg/response"
	"penned/pkg/utils"

	"github.com/gin-gonic/gin"
)

// UserHandler 用户处理器
type UserHandler struct {
	service service.UserService
}

// NewUserHandler 创建处理器
func NewUserHandler(s service.UserService) *UserHandler {
	return &UserHandler{service: s}
}

// RegisterInput 注册输入
type RegisterInput struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	DisplayName string `json:"displayName" binding:"required"`
}

// LoginInput 登录输入
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ResetRequestInput 重置密码请求输入
type ResetRequestInput struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetConfirmInput 重置密码确认输入
type ResetConfirmInput struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// ProfileInput 资料更新输入
type ProfileInput struct {
	DisplayName string `json:"displayName" binding:"required"`
	Bio         string `json:"bio"`
	AvatarURL   string `json:"avatarUrl"`
}

// Register 注册
// @Summary 注册新用户
// @Tags User
// @Accept json
// @Produce json
// @Param input body RegisterInput true "注册信息"
// @Success 200 {object} response.Response
// @Router /auth/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	user, err := h.service.Register(input.Email, input.Password, input.DisplayName)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			response.Fail(c, response.ErrUserExists, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, gin.H{"id": user.ID, "email": user.Email})
}

// Login 登录
// @Summary 登录，返回 JWT
// @Tags User
// @Accept json
// @Produce json
// @Param input body LoginInput true "登录信息"
// @Success 200 {object} response.Response
// @Router /auth/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	token, profile, err := h.service.Login(input.Email, input.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			response.Error(c, http.StatusUnauthorized, response.ErrAuthFailed, err.Error())
		case errors.Is(err, service.ErrEmailNotVerified):
			response.Error(c, http.StatusForbidden, response.ErrEmailNotVerified, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		}
		return
	}

	response.Success(c, gin.H{"token": token, "user": profile})
}

// VerifyEmail 邮箱验证回调
// @Summary 验证邮箱
// @Tags User
// @Param token query string true "验证令牌"
// @Success 200 {object} response.Response
// @Router /auth/verify [get]
func (h *UserHandler) VerifyEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "token is required")
		return
	}

	if err := h.service.VerifyEmail(token); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrTokenInvalid, err.Error())
		return
	}
	response.Success(c, "email verified")
}

// RequestPasswordReset 发送重置邮件
func (h *UserHandler) RequestPasswordReset(c *gin.Context) {
	var input ResetRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	if err := h.service.RequestPasswordReset(input.Email); err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, "reset email sent if the address exists")
}

// ConfirmPasswordReset 用令牌设置新密码
func (h *UserHandler) ConfirmPasswordReset(c *gin.Context) {
	var input ResetConfirmInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	if err := h.service.ResetPassword(input.Token, input.Password); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrTokenInvalid, err.Error())
		return
	}
	response.Success(c, "password updated")
}

// Me 当前用户资料（含派生订阅状态）
// @Summary 当前用户
// @Tags User
// @Success 200 {object} model.ProfileView
// @Router /users/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	profile, err := h.service.GetProfile(GetUserID(c))
	if err != nil {
		response.NotFound(c, response.ErrUserNotFound, "User not found")
		return
	}
	response.Success(c, profile)
}

// GetUser 获取单个用户
func (h *UserHandler) GetUser(c *gin.Context) {
	profile, err := h.service.GetProfile(c.Param("id"))
	if err != nil {
		response.NotFound(c, response.ErrUserNotFound, "User not found")
		return
	}
	response.Success(c, profile)
}

// UpdateMe 更新当前用户资料
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var input ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	user, err := h.service.UpdateProfile(GetUserID(c), input.DisplayName, input.Bio, input.AvatarURL)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, user)
}

// GetUsers 用户列表 (管理员)
// @Summary 用户列表
// @Tags User
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Success 200 {object} utils.PageResult
// @Router /users [get]
func (h *UserHandler) GetUsers(c *gin.Context) {
	var p utils.Pagination
	c.ShouldBindQuery(&p)

	users, total, err := h.service.GetUsers(p.Page, p.Limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, utils.PageResult{
		List:  users,
		Total: total,
		Page:  p.Page,
		Limit: p.Limit,
	})
}

// GetUserID 从上下文取当前登录用户 ID
func GetUserID(c *gin.Context) string {
	val, _ := c.Get("userID")
	if str, ok := val.(string); ok {
		return str
	}
	return ""
}
