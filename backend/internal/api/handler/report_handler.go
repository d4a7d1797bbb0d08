package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"oilsafe-hub/backend/internal/dto"
	"oilsafe-hub/backend/internal/service"
	pkgerrors "oilsafe-hub/backend/pkg/errors"
	"oilsafe-hub/backend/pkg/response"
)

// ReportHandler 服务报告模块 HTTP 处理器
type ReportHandler struct {
	reportSvc service.ReportService
}

// NewReportHandler 创建 ReportHandler
func NewReportHandler(reportSvc service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

// ListReports 获取服务报告列表（分页，流水号降序）
// GET /api/v1/reports?page=&page_size=
func (h *ReportHandler) ListReports(c *gin.Context) {
	page, pageSize := parsePagination(c)

	list, total, err := h.reportSvc.List(c.Request.Context(), page, pageSize)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, page, pageSize)
}

// GetReport 获取服务报告详情
// GET /api/v1/reports/:id
func (h *ReportHandler) GetReport(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "报告ID不能为空")
		return
	}

	rep, err := h.reportSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleReportError(c, err)
		return
	}

	response.OK(c, rep)
}

// CreateReport 创建服务报告（自动分配流水号）
// POST /api/v1/reports
func (h *ReportHandler) CreateReport(c *gin.Context) {
	var req dto.CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	rep, err := h.reportSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleReportError(c, err)
		return
	}

	response.Created(c, rep)
}

// UpdateReport 更新服务报告
// PUT /api/v1/reports/:id
func (h *ReportHandler) UpdateReport(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "报告ID不能为空")
		return
	}

	var req dto.UpdateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	rep, err := h.reportSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleReportError(c, err)
		return
	}

	response.OK(c, rep)
}

// DeleteReport 删除服务报告（软删除，流水号不复用）
// DELETE /api/v1/reports/:id
func (h *ReportHandler) DeleteReport(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "报告ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.reportSvc.Delete(c.Request.Context(), id, callerID); err != nil {
		h.handleReportError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleReportError 统一处理服务报告模块业务错误
func (h *ReportHandler) handleReportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrReportNotFound):
		response.NotFound(c, 15001, "服务报告不存在")
	case errors.Is(err, service.ErrJobNotFound):
		response.NotFound(c, 14001, "工单不存在")
	case errors.Is(err, service.ErrClientNotFound):
		response.NotFound(c, 13001, "客户不存在")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 10003, "数据已被其他人修改，请刷新后重试")
	default:
		response.InternalError(c)
	}
}
