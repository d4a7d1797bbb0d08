package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"oilsafe-hub/backend/internal/dto"
	"oilsafe-hub/backend/internal/service"
	pkgerrors "oilsafe-hub/backend/pkg/errors"
	"oilsafe-hub/backend/pkg/response"
)

// JobHandler 工单模块 HTTP 处理器
type JobHandler struct {
	jobSvc service.JobService
}

// NewJobHandler 创建 JobHandler
func NewJobHandler(jobSvc service.JobService) *JobHandler {
	return &JobHandler{jobSvc: jobSvc}
}

// ListJobs 获取工单列表（分页，支持编号/描述搜索）
// GET /api/v1/jobs?search=&page=&page_size=
func (h *JobHandler) ListJobs(c *gin.Context) {
	page, pageSize := parsePagination(c)
	search := c.Query("search")

	list, total, err := h.jobSvc.List(c.Request.Context(), search, page, pageSize)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, page, pageSize)
}

// GetJob 获取工单详情
// GET /api/v1/jobs/:id
func (h *JobHandler) GetJob(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "工单ID不能为空")
		return
	}

	job, err := h.jobSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleJobError(c, err)
		return
	}

	response.OK(c, job)
}

// CreateJob 创建工单
// POST /api/v1/jobs
func (h *JobHandler) CreateJob(c *gin.Context) {
	var req dto.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	job, err := h.jobSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleJobError(c, err)
		return
	}

	response.Created(c, job)
}

// UpdateJob 更新工单
// PUT /api/v1/jobs/:id
func (h *JobHandler) UpdateJob(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "工单ID不能为空")
		return
	}

	var req dto.UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	job, err := h.jobSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleJobError(c, err)
		return
	}

	response.OK(c, job)
}

// DeleteJob 删除工单（软删除）
// DELETE /api/v1/jobs/:id
func (h *JobHandler) DeleteJob(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "工单ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.jobSvc.Delete(c.Request.Context(), id, callerID); err != nil {
		h.handleJobError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleJobError 统一处理工单模块业务错误
func (h *JobHandler) handleJobError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrJobNotFound):
		response.NotFound(c, 14001, "工单不存在")
	case errors.Is(err, service.ErrJobCodeExists):
		response.BadRequest(c, 14002, "工单编号已存在")
	case errors.Is(err, service.ErrClientNotFound):
		response.NotFound(c, 13001, "客户不存在")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 10003, "数据已被其他人修改，请刷新后重试")
	default:
		response.InternalError(c)
	}
}
