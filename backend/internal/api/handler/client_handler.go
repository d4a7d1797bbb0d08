package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"oilsafe-hub/backend/internal/dto"
	"oilsafe-hub/backend/internal/service"
	pkgerrors "oilsafe-hub/backend/pkg/errors"
	"oilsafe-hub/backend/pkg/response"
)

// ClientHandler 客户模块 HTTP 处理器
type ClientHandler struct {
	clientSvc service.ClientService
}

// NewClientHandler 创建 ClientHandler
func NewClientHandler(clientSvc service.ClientService) *ClientHandler {
	return &ClientHandler{clientSvc: clientSvc}
}

// ListClients 获取客户列表（分页，支持名称搜索）
// GET /api/v1/clients?search=&page=&page_size=
func (h *ClientHandler) ListClients(c *gin.Context) {
	page, pageSize := parsePagination(c)
	search := c.Query("search")

	list, total, err := h.clientSvc.List(c.Request.Context(), search, page, pageSize)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, page, pageSize)
}

// GetClient 获取客户详情
// GET /api/v1/clients/:id
func (h *ClientHandler) GetClient(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "客户ID不能为空")
		return
	}

	client, err := h.clientSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleClientError(c, err)
		return
	}

	response.OK(c, client)
}

// CreateClient 创建客户
// POST /api/v1/clients
func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req dto.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	client, err := h.clientSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleClientError(c, err)
		return
	}

	response.Created(c, client)
}

// UpdateClient 更新客户
// PUT /api/v1/clients/:id
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "客户ID不能为空")
		return
	}

	var req dto.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	client, err := h.clientSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleClientError(c, err)
		return
	}

	response.OK(c, client)
}

// DeleteClient 删除客户（软删除）
// DELETE /api/v1/clients/:id
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "客户ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.clientSvc.Delete(c.Request.Context(), id, callerID); err != nil {
		h.handleClientError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleClientError 统一处理客户模块业务错误
func (h *ClientHandler) handleClientError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrClientNotFound):
		response.NotFound(c, 13001, "客户不存在")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 10003, "数据已被其他人修改，请刷新后重试")
	default:
		response.InternalError(c)
	}
}
