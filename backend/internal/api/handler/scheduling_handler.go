package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"oilsafe-hub/backend/internal/dto"
	"oilsafe-hub/backend/internal/service"
	pkgerrors "oilsafe-hub/backend/pkg/errors"
	"oilsafe-hub/backend/pkg/response"
)

// SchedulingHandler 排程记录模块 HTTP 处理器
type SchedulingHandler struct {
	schedSvc service.SchedulingService
}

// NewSchedulingHandler 创建 SchedulingHandler
func NewSchedulingHandler(schedSvc service.SchedulingService) *SchedulingHandler {
	return &SchedulingHandler{schedSvc: schedSvc}
}

// ListRecords 获取排程记录列表（分页，起始日降序）
// GET /api/v1/scheduling-records?page=&page_size=
func (h *SchedulingHandler) ListRecords(c *gin.Context) {
	page, pageSize := parsePagination(c)

	list, total, err := h.schedSvc.List(c.Request.Context(), page, pageSize)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, page, pageSize)
}

// GetRecord 获取排程记录详情
// GET /api/v1/scheduling-records/:id
func (h *SchedulingHandler) GetRecord(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "排程记录ID不能为空")
		return
	}

	rec, err := h.schedSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleSchedulingError(c, err)
		return
	}

	response.OK(c, rec)
}

// CreateRecord 创建排程记录
// POST /api/v1/scheduling-records
func (h *SchedulingHandler) CreateRecord(c *gin.Context) {
	var req dto.CreateSchedulingRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	rec, err := h.schedSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleSchedulingError(c, err)
		return
	}

	response.Created(c, rec)
}

// UpdateRecord 更新排程记录
// PUT /api/v1/scheduling-records/:id
func (h *SchedulingHandler) UpdateRecord(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "排程记录ID不能为空")
		return
	}

	var req dto.UpdateSchedulingRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	rec, err := h.schedSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleSchedulingError(c, err)
		return
	}

	response.OK(c, rec)
}

// DeleteRecord 删除排程记录（软删除）
// DELETE /api/v1/scheduling-records/:id
func (h *SchedulingHandler) DeleteRecord(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "排程记录ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.schedSvc.Delete(c.Request.Context(), id, callerID); err != nil {
		h.handleSchedulingError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleSchedulingError 统一处理排程记录模块业务错误
func (h *SchedulingHandler) handleSchedulingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSchedulingRecordNotFound):
		response.NotFound(c, 16001, "排程记录不存在")
	case errors.Is(err, service.ErrSchedulingInvalidDate):
		response.BadRequest(c, 16002, "日期格式无效，应为 YYYY-MM-DD")
	case errors.Is(err, service.ErrSchedulingInvalidSpan):
		response.BadRequest(c, 16003, "日期跨度无效：start_date 必须不晚于 end_date")
	case errors.Is(err, service.ErrTechnicianNotFound):
		response.NotFound(c, 12001, "技师不存在")
	case errors.Is(err, service.ErrJobNotFound):
		response.NotFound(c, 14001, "工单不存在")
	case errors.Is(err, service.ErrClientNotFound):
		response.NotFound(c, 13001, "客户不存在")
	case errors.Is(err, service.ErrReportNotFound):
		response.NotFound(c, 15001, "服务报告不存在")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 10003, "数据已被其他人修改，请刷新后重试")
	default:
		response.InternalError(c)
	}
}
