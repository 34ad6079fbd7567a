package handler

import (
	"errors"
	"net/http"

	"penned/internal/domain/admin/service"
	"penned/pkg/response"

	"github.com/gin-gonic/gin"
)

// AdminHandler 管理后台处理器
type AdminHandler struct {
	service service.AdminService
}

// NewAdminHandler 创建处理器
func NewAdminHandler(s service.AdminService) *AdminHandler {
	return &AdminHandler{service: s}
}

// Search 跨集合搜索
// @Summary 管理后台跨集合搜索
// @Tags Admin
// @Param q query string true "关键词"
// @Success 200 {object} service.SearchResult
// @Router /admin/search [get]
func (h *AdminHandler) Search(c *gin.Context) {
	result, err := h.service.Search(c.Query("q"))
	if err != nil {
		if errors.Is(err, service.ErrEmptyQuery) {
			response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, result)
}

// Dashboard 管理面板汇总
// @Summary 管理面板汇总计数
// @Tags Admin
// @Success 200 {object} service.Dashboard
// @Router /admin/dashboard [get]
func (h *AdminHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.service.GetDashboard()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, dashboard)
}
