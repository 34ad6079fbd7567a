package handler

import (
	"errors"
	"net/http"

	"penned/internal/domain/subscription/service"
	userHandler "penned/internal/domain/user/handler"
	"penned/internal/pkg/uploader"
	"penned/pkg/response"
	"penned/pkg/utils"

	"github.com/gin-gonic/gin"
)

// SubscriptionHandler 订阅处理器
type SubscriptionHandler struct {
	service service.SubscriptionService
}

// NewSubscriptionHandler 创建处理器
func NewSubscriptionHandler(s service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{service: s}
}

// RejectInput 拒绝理由输入
type RejectInput struct {
	Note string `json:"note"`
}

// UploadReceipt 上传付款收据
// @Summary 上传付款收据
// @Tags Subscription
// @Accept multipart/form-data
// @Param receipt formData file true "收据图片 (PNG/JPEG, 最大 5MB)"
// @Success 200 {object} response.Response
// @Router /subscription/receipt [post]
func (h *SubscriptionHandler) UploadReceipt(c *gin.Context) {
	file, err := c.FormFile("receipt")
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "receipt file is required")
		return
	}

	url, err := h.service.UploadReceipt(userHandler.GetUserID(c), file)
	if err != nil {
		switch {
		case errors.Is(err, uploader.ErrFileTooLarge), errors.Is(err, uploader.ErrUnsupportedType):
			response.Error(c, http.StatusBadRequest, response.ErrUploadRejected, err.Error())
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, response.ErrUserNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		}
		return
	}
	response.Success(c, gin.H{"receiptUrl": url})
}

// GetStatus 当前订阅状态
// @Summary 订阅状态
// @Tags Subscription
// @Success 200 {object} model.StatusView
// @Router /subscription/status [get]
func (h *SubscriptionHandler) GetStatus(c *gin.Context) {
	status, err := h.service.GetStatus(userHandler.GetUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, response.ErrUserNotFound, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, status)
}

// GetHistory 当前用户的审批历史
func (h *SubscriptionHandler) GetHistory(c *gin.Context) {
	var p utils.Pagination
	c.ShouldBindQuery(&p)

	records, total, err := h.service.GetHistory(userHandler.GetUserID(c), p.Page, p.Limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, utils.PageResult{List: records, Total: total, Page: p.Page, Limit: p.Limit})
}

// ListPending 待审批队列（管理员）
// @Summary 待审批收据队列
// @Tags Subscription
// @Success 200 {object} utils.PageResult
// @Router /admin/receipts [get]
func (h *SubscriptionHandler) ListPending(c *gin.Context) {
	var p utils.Pagination
	c.ShouldBindQuery(&p)

	pending, total, err := h.service.ListPending(p.Page, p.Limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, utils.PageResult{List: pending, Total: total, Page: p.Page, Limit: p.Limit})
}

// Approve 批准收据（管理员）
func (h *SubscriptionHandler) Approve(c *gin.Context) {
	record, err := h.service.Approve(c.Param("userId"), userHandler.GetUserID(c))
	if err != nil {
		h.writeDecisionError(c, err)
		return
	}
	response.Success(c, record)
}

// Reject 拒绝收据（管理员）
func (h *SubscriptionHandler) Reject(c *gin.Context) {
	var input RejectInput
	c.ShouldBindJSON(&input)

	record, err := h.service.Reject(c.Param("userId"), userHandler.GetUserID(c), input.Note)
	if err != nil {
		h.writeDecisionError(c, err)
		return
	}
	response.Success(c, record)
}

func (h *SubscriptionHandler) writeDecisionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, response.ErrUserNotFound, err.Error())
	case errors.Is(err, service.ErrNoPendingReceipt):
		// 另一个管理员先处理了，或用户从未上传
		response.Error(c, http.StatusConflict, response.ErrReceiptNotFound, err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
	}
}
