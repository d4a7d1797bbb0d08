package handler

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"oilsafe-hub/backend/internal/dto"
	"oilsafe-hub/backend/internal/service"
	pkgerrors "oilsafe-hub/backend/pkg/errors"
	"oilsafe-hub/backend/pkg/response"
)

// CalendarHandler 日历聚合模块 HTTP 处理器
type CalendarHandler struct {
	calSvc service.CalendarService
}

// NewCalendarHandler 创建 CalendarHandler
func NewCalendarHandler(calSvc service.CalendarService) *CalendarHandler {
	return &CalendarHandler{calSvc: calSvc}
}

// Events 月/周视图的扁平事件列表
// GET /api/v1/calendar/events?from=&to=&statuses=programmato,confermato
func (h *CalendarHandler) Events(c *gin.Context) {
	from, to, ok := parseWindow(c)
	if !ok {
		return
	}

	// 过滤掉空元素：?statuses=, 等价于未传，回落到默认状态集
	var statuses []string
	for _, s := range strings.Split(c.Query("statuses"), ",") {
		if s = strings.TrimSpace(s); s != "" {
			statuses = append(statuses, s)
		}
	}

	events, err := h.calSvc.Events(c.Request.Context(), from, to, statuses)
	if err != nil {
		h.handleCalendarError(c, err)
		return
	}

	response.OK(c, gin.H{"list": events})
}

// Agenda 议程视图：日 → 工单组 → 时段
// GET /api/v1/calendar/agenda?from=&to=
func (h *CalendarHandler) Agenda(c *gin.Context) {
	from, to, ok := parseWindow(c)
	if !ok {
		return
	}

	agenda, err := h.calSvc.Agenda(c.Request.Context(), from, to)
	if err != nil {
		h.handleCalendarError(c, err)
		return
	}

	response.OK(c, agenda)
}

// Timeline 时间线视图：技师 × 日 矩阵
// GET /api/v1/calendar/timeline?from=&to=
func (h *CalendarHandler) Timeline(c *gin.Context) {
	from, to, ok := parseWindow(c)
	if !ok {
		return
	}

	timeline, err := h.calSvc.Timeline(c.Request.Context(), from, to)
	if err != nil {
		h.handleCalendarError(c, err)
		return
	}

	response.OK(c, timeline)
}

// Relocate 拖拽迁移排程记录到（技师, 日）
// POST /api/v1/calendar/relocate
func (h *CalendarHandler) Relocate(c *gin.Context) {
	var req dto.RelocateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	operatorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.calSvc.Relocate(c.Request.Context(), &req, operatorID)
	if err != nil {
		h.handleCalendarError(c, err)
		return
	}

	response.OK(c, result)
}

// ListRelocations 迁移审计日志（分页，新→旧）
// GET /api/v1/calendar/relocations?page=&page_size=
func (h *CalendarHandler) ListRelocations(c *gin.Context) {
	page, pageSize := parsePagination(c)

	list, total, err := h.calSvc.ListRelocations(c.Request.Context(), page, pageSize)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, page, pageSize)
}

// handleCalendarError 统一处理日历模块业务错误
func (h *CalendarHandler) handleCalendarError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCalendarInvalidWindow):
		response.BadRequest(c, 17001, "日期窗口无效：from 必须不晚于 to")
	case errors.Is(err, service.ErrCalendarInvalidDay):
		response.BadRequest(c, 17002, "目标日期格式无效，应为 YYYY-MM-DD")
	case errors.Is(err, service.ErrCalendarRecordNotFound):
		response.NotFound(c, 16001, "排程记录不存在")
	case errors.Is(err, service.ErrCalendarTechnicianNotFound):
		response.NotFound(c, 17003, "目标技师不存在或已停用")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 10003, "数据已被其他人修改，请刷新后重试")
	default:
		response.InternalError(c)
	}
}
