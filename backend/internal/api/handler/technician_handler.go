package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"oilsafe-hub/backend/internal/dto"
	"oilsafe-hub/backend/internal/service"
	pkgerrors "oilsafe-hub/backend/pkg/errors"
	"oilsafe-hub/backend/pkg/response"
)

// TechnicianHandler 技师档案模块 HTTP 处理器
type TechnicianHandler struct {
	techSvc service.TechnicianService
}

// NewTechnicianHandler 创建 TechnicianHandler
func NewTechnicianHandler(techSvc service.TechnicianService) *TechnicianHandler {
	return &TechnicianHandler{techSvc: techSvc}
}

// ListTechnicians 获取技师列表
// GET /api/v1/technicians?only_active=true
func (h *TechnicianHandler) ListTechnicians(c *gin.Context) {
	onlyActive := c.Query("only_active") == "true"

	list, err := h.techSvc.List(c.Request.Context(), onlyActive)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// GetTechnician 获取技师详情
// GET /api/v1/technicians/:id
func (h *TechnicianHandler) GetTechnician(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "技师ID不能为空")
		return
	}

	tech, err := h.techSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleTechnicianError(c, err)
		return
	}

	response.OK(c, tech)
}

// CreateTechnician 创建技师
// POST /api/v1/technicians
func (h *TechnicianHandler) CreateTechnician(c *gin.Context) {
	var req dto.CreateTechnicianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	tech, err := h.techSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleTechnicianError(c, err)
		return
	}

	response.Created(c, tech)
}

// UpdateTechnician 更新技师
// PUT /api/v1/technicians/:id
func (h *TechnicianHandler) UpdateTechnician(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "技师ID不能为空")
		return
	}

	var req dto.UpdateTechnicianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	tech, err := h.techSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleTechnicianError(c, err)
		return
	}

	response.OK(c, tech)
}

// DeleteTechnician 删除技师（软删除）
// DELETE /api/v1/technicians/:id
func (h *TechnicianHandler) DeleteTechnician(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "技师ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.techSvc.Delete(c.Request.Context(), id, callerID); err != nil {
		h.handleTechnicianError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleTechnicianError 统一处理技师模块业务错误
func (h *TechnicianHandler) handleTechnicianError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTechnicianNotFound):
		response.NotFound(c, 12001, "技师不存在")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 10003, "数据已被其他人修改，请刷新后重试")
	default:
		response.InternalError(c)
	}
}
