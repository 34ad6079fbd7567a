package handler

import (
	"errors"
	"net/http"

	"penned/internal/domain/series/service"
	userHandler "penned/internal/domain/user/handler"
	userModel "penned/internal/domain/user/model"
	"penned/pkg/response"
	"penned/pkg/utils"

	"github.com/gin-gonic/gin"
)

// SeriesHandler 系列处理器
type SeriesHandler struct {
	service service.SeriesService
}

// NewSeriesHandler 创建处理器
func NewSeriesHandler(s service.SeriesService) *SeriesHandler {
	return &SeriesHandler{service: s}
}

// SeriesInput 系列输入
type SeriesInput struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	CoverURL    string `json:"coverUrl"`
}

// EpisodeInput 单集输入
type EpisodeInput struct {
	Title    string `json:"title" binding:"required"`
	Content  string `json:"content" binding:"required"`
	ImageURL string `json:"imageUrl"`
}

// CreateSeries 创建系列
// @Summary 创建系列
// @Tags Series
// @Accept json
// @Produce json
// @Param input body SeriesInput true "系列信息"
// @Success 200 {object} response.Response
// @Router /series [post]
func (h *SeriesHandler) CreateSeries(c *gin.Context) {
	var input SeriesInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	series, err := h.service.CreateSeries(userHandler.GetUserID(c), input.Title, input.Description, input.CoverURL)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, series)
}

// GetSeriesList 系列列表
func (h *SeriesHandler) GetSeriesList(c *gin.Context) {
	var p utils.Pagination
	c.ShouldBindQuery(&p)

	list, total, err := h.service.GetSeriesList(p.Page, p.Limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, utils.PageResult{List: list, Total: total, Page: p.Page, Limit: p.Limit})
}

// GetSeries 系列详情，单集按顺序返回
func (h *SeriesHandler) GetSeries(c *gin.Context) {
	view, err := h.service.GetSeries(c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, view)
}

// UpdateSeries 更新系列（作者或管理员）
func (h *SeriesHandler) UpdateSeries(c *gin.Context) {
	var input SeriesInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	series, err := h.service.UpdateSeries(userHandler.GetUserID(c), isAdmin(c),
		c.Param("id"), input.Title, input.Description, input.CoverURL)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, series)
}

// DeleteSeries 删除系列（作者或管理员），级联删除单集
func (h *SeriesHandler) DeleteSeries(c *gin.Context) {
	if err := h.service.DeleteSeries(userHandler.GetUserID(c), isAdmin(c), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, nil)
}

// AddEpisode 追加单集
func (h *SeriesHandler) AddEpisode(c *gin.Context) {
	var input EpisodeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	episode, err := h.service.AddEpisode(userHandler.GetUserID(c), isAdmin(c),
		c.Param("id"), input.Title, input.Content, input.ImageURL)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, episode)
}

// UpdateEpisode 更新单集
func (h *SeriesHandler) UpdateEpisode(c *gin.Context) {
	var input EpisodeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	episode, err := h.service.UpdateEpisode(userHandler.GetUserID(c), isAdmin(c),
		c.Param("episodeId"), input.Title, input.Content, input.ImageURL)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, episode)
}

// DeleteEpisode 删除单集
func (h *SeriesHandler) DeleteEpisode(c *gin.Context) {
	if err := h.service.DeleteEpisode(userHandler.GetUserID(c), isAdmin(c), c.Param("episodeId")); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, nil)
}

func (h *SeriesHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSeriesNotFound), errors.Is(err, service.ErrEpisodeNotFound):
		response.NotFound(c, response.ErrSeriesNotFound, err.Error())
	case errors.Is(err, service.ErrNotOwner):
		response.Forbidden(c, err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
	}
}

func isAdmin(c *gin.Context) bool {
	val, _ := c.Get("role")
	role, ok := val.(int)
	return ok && role == userModel.RoleAdmin
}
