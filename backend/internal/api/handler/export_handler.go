package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"oilsafe-hub/backend/internal/service"
	"oilsafe-hub/backend/pkg/response"
)

// ExportHandler 导出模块 HTTP 处理器（Excel 下载 + ICS 订阅）
type ExportHandler struct {
	exportSvc service.ExportService
	icsSvc    service.ICSService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService, icsSvc service.ICSService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc, icsSvc: icsSvc}
}

// ExportTimeline 导出时间线网格为 Excel
// GET /api/v1/export/timeline.xlsx?from=&to=
func (h *ExportHandler) ExportTimeline(c *gin.Context) {
	from, to, ok := parseWindow(c)
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportTimeline(c.Request.Context(), from, to)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	// 设置下载响应头
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// TechnicianCalendar 导出某技师的排程为 ICS 订阅源
// GET /api/v1/export/technicians/:id/calendar.ics?from=&to=
func (h *ExportHandler) TechnicianCalendar(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "技师ID不能为空")
		return
	}

	from, to, ok := parseWindow(c)
	if !ok {
		return
	}

	content, filename, err := h.icsSvc.TechnicianCalendar(c.Request.Context(), id, from, to)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(content))
}

// handleExportError 统一处理导出模块业务错误
func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportInvalidWindow),
		errors.Is(err, service.ErrCalendarInvalidWindow):
		response.BadRequest(c, 18001, "日期窗口无效：from 必须不晚于 to")
	case errors.Is(err, service.ErrICSTechnicianNotFound):
		response.NotFound(c, 12001, "技师不存在")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}
