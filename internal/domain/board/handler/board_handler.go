package handler

import (
	"errors"
	"net/http"

	"penned/internal/domain/board/service"
	userHandler "penned/internal/domain/user/handler"
	"penned/pkg/response"
	"penned/pkg/utils"

	"github.com/gin-gonic/gin"
)

// BoardHandler 招聘/课程/比赛处理器
type BoardHandler struct {
	service service.BoardService
}

// NewBoardHandler 创建处理器
func NewBoardHandler(s service.BoardService) *BoardHandler {
	return &BoardHandler{service: s}
}

// JobInput 招聘输入
type JobInput struct {
	Title       string `json:"title" binding:"required"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Description string `json:"description"`
	ApplyURL    string `json:"applyUrl"`
	ImageURL    string `json:"imageUrl"`
}

// CourseInput 课程输入
type CourseInput struct {
	Title       string `json:"title" binding:"required"`
	Provider    string `json:"provider"`
	Description string `json:"description"`
	CourseURL   string `json:"courseUrl"`
	ImageURL    string `json:"imageUrl"`
}

// CompetitionInput 比赛输入
type CompetitionInput struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Prize       string `json:"prize"`
	ImageURL    string `json:"imageUrl"`
}

// StatusInput 比赛状态输入
type StatusInput struct {
	Status string `json:"status" binding:"required"`
}

// CreateJob 发布招聘信息（管理员）
// @Summary 发布招聘信息
// @Tags Board
// @Accept json
// @Produce json
// @Param input body JobInput true "招聘信息"
// @Success 200 {object} response.Response
// @Router /jobs [post]
func (h *BoardHandler) CreateJob(c *gin.Context) {
	var input JobInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	job, err := h.service.CreateJob(userHandler.GetUserID(c), service.JobInput(input))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, job)
}

// GetJobs 招聘列表
func (h *BoardHandler) GetJobs(c *gin.Context) {
	var p utils.Pagination
	c.ShouldBindQuery(&p)

	jobs, total, err := h.service.GetJobs(p.Page, p.Limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, utils.PageResult{List: jobs, Total: total, Page: p.Page, Limit: p.Limit})
}

// GetJob 招聘详情
func (h *BoardHandler) GetJob(c *gin.Context) {
	job, err := h.service.GetJob(c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, job)
}

// UpdateJob 更新招聘信息（管理员）
func (h *BoardHandler) UpdateJob(c *gin.Context) {
	var input JobInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	job, err := h.service.UpdateJob(c.Param("id"), service.JobInput(input))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, job)
}

// DeleteJob 删除招聘信息（管理员）
func (h *BoardHandler) DeleteJob(c *gin.Context) {
	if err := h.service.DeleteJob(c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, nil)
}

// CreateCourse 发布课程（管理员）
func (h *BoardHandler) CreateCourse(c *gin.Context) {
	var input CourseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	course, err := h.service.CreateCourse(userHandler.GetUserID(c), service.CourseInput(input))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, course)
}

// GetCourses 课程列表
func (h *BoardHandler) GetCourses(c *gin.Context) {
	var p utils.Pagination
	c.ShouldBindQuery(&p)

	courses, total, err := h.service.GetCourses(p.Page, p.Limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, utils.PageResult{List: courses, Total: total, Page: p.Page, Limit: p.Limit})
}

// GetCourse 课程详情
func (h *BoardHandler) GetCourse(c *gin.Context) {
	course, err := h.service.GetCourse(c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, course)
}

// UpdateCourse 更新课程（管理员）
func (h *BoardHandler) UpdateCourse(c *gin.Context) {
	var input CourseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	course, err := h.service.UpdateCourse(c.Param("id"), service.CourseInput(input))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, course)
}

// DeleteCourse 删除课程（管理员）
func (h *BoardHandler) DeleteCourse(c *gin.Context) {
	if err := h.service.DeleteCourse(c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, nil)
}

// CreateCompetition 发布比赛（管理员）
func (h *BoardHandler) CreateCompetition(c *gin.Context) {
	var input CompetitionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	competition, err := h.service.CreateCompetition(userHandler.GetUserID(c), service.CompetitionInput(input))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, competition)
}

// GetCompetitions 比赛列表，?status=ongoing|past 筛选
// @Summary 比赛列表
// @Tags Board
// @Param status query string false "ongoing 或 past"
// @Success 200 {object} utils.PageResult
// @Router /competitions [get]
func (h *BoardHandler) GetCompetitions(c *gin.Context) {
	var p utils.Pagination
	c.ShouldBindQuery(&p)

	competitions, total, err := h.service.GetCompetitions(c.Query("status"), p.Page, p.Limit)
	if err != nil {
		if errors.Is(err, service.ErrInvalidStatus) {
			response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, utils.PageResult{List: competitions, Total: total, Page: p.Page, Limit: p.Limit})
}

// GetCompetition 比赛详情，登录用户附带报名状态
func (h *BoardHandler) GetCompetition(c *gin.Context) {
	view, err := h.service.GetCompetition(c.Param("id"), userHandler.GetUserID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, view)
}

// UpdateCompetition 更新比赛（管理员）
func (h *BoardHandler) UpdateCompetition(c *gin.Context) {
	var input CompetitionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	competition, err := h.service.UpdateCompetition(c.Param("id"), service.CompetitionInput(input))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, competition)
}

// SetCompetitionStatus 切换比赛状态（管理员）
func (h *BoardHandler) SetCompetitionStatus(c *gin.Context) {
	var input StatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	competition, err := h.service.SetCompetitionStatus(c.Param("id"), input.Status)
	if err != nil {
		if errors.Is(err, service.ErrInvalidStatus) {
			response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
			return
		}
		h.writeError(c, err)
		return
	}
	response.Success(c, competition)
}

// DeleteCompetition 删除比赛（管理员）
func (h *BoardHandler) DeleteCompetition(c *gin.Context) {
	if err := h.service.DeleteCompetition(c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, nil)
}

// EntryInput 报名请求体
type EntryInput struct {
	Statement string `json:"statement"`
	FileURL   string `json:"fileUrl"`
}

// EnterCompetition 报名比赛，每人一次
// @Summary 报名比赛
// @Tags Board
// @Param id path string true "比赛ID"
// @Param request body EntryInput false "报名材料"
// @Success 200 {object} response.Response
// @Router /competitions/{id}/enter [post]
func (h *BoardHandler) EnterCompetition(c *gin.Context) {
	var input EntryInput
	c.ShouldBindJSON(&input)

	entry, err := h.service.EnterCompetition(c.Param("id"), userHandler.GetUserID(c), service.EntryInput(input))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAlreadyEntered):
			response.Fail(c, response.ErrEntryExists, err.Error())
		case errors.Is(err, service.ErrCompetitionClosed):
			response.Error(c, http.StatusConflict, response.ErrEntryExists, err.Error())
		default:
			h.writeError(c, err)
		}
		return
	}
	response.Success(c, entry)
}

// GetEntries 比赛报名列表（管理员）
func (h *BoardHandler) GetEntries(c *gin.Context) {
	var p utils.Pagination
	c.ShouldBindQuery(&p)

	entries, total, err := h.service.GetEntries(c.Param("id"), p.Page, p.Limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, utils.PageResult{List: entries, Total: total, Page: p.Page, Limit: p.Limit})
}

func (h *BoardHandler) writeError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrListingNotFound) {
		response.NotFound(c, response.ErrListingNotFound, err.Error())
		return
	}
	response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
}
