package dto

import "time"

// ── 日历模块 DTO ──
//
// CalendarEvent 为派生的内存结构：每次聚合重算时全量重建，从不持久化。
// 对排程的修改（拖拽迁移等）只通过排程记录回写，不直接修改事件。

// EventResource 事件携带的解析后展示字段
type EventResource struct {
	RecordID       string  `json:"record_id"`
	TechnicianID   string  `json:"technician_id"` // 空串表示未分配占位
	TechnicianName string  `json:"technician_name"`
	JobID          string  `json:"job_id,omitempty"`
	JobCode        string  `json:"job_code,omitempty"`
	JobDescription string  `json:"job_description,omitempty"`
	ClientName     string  `json:"client_name,omitempty"`
	ReportID       *string `json:"report_id,omitempty"`
	ReportNumber   *int    `json:"report_number,omitempty"`
	Status         string  `json:"status"`
}

// CalendarEvent 日历事件 — 每个（排程记录 × 分配技师）对产生一条；
// 无技师分配的记录产生一条技师为空的占位事件。
type CalendarEvent struct {
	Title    string        `json:"title"`
	Start    time.Time     `json:"start"` // 当天 00:00:00
	End      time.Time     `json:"end"`   // 当天 23:59:59
	Color    string        `json:"color"`
	Resource EventResource `json:"resource"`
}

// ── 议程视图（日 → 工单组 → 时段）──

// AgendaSlot 议程时段：一条排程记录在议程中的展示单元。
// 同一记录的多技师事件在此合并为一个时段（技师拼接展示）。
type AgendaSlot struct {
	RecordID     string        `json:"record_id"`
	StartDate    string        `json:"start_date"`
	EndDate      string        `json:"end_date"`
	Technicians  string        `json:"technicians"`
	ReportNumber *int          `json:"report_number,omitempty"`
	Status       string        `json:"status"`
	ClientName   string        `json:"client_name,omitempty"`
	Event        CalendarEvent `json:"event"` // 选中回调用的原始事件
}

// AgendaJobGroup 议程工单组（首见顺序稳定）
type AgendaJobGroup struct {
	JobKey         string       `json:"job_key"` // 工单 ID，缺失时为 "no-job"
	JobCode        string       `json:"job_code,omitempty"`
	JobDescription string       `json:"job_description,omitempty"`
	Color          string       `json:"color"`
	Slots          []AgendaSlot `json:"slots"`
}

// AgendaDay 议程中的一天（仅包含至少有一个时段的天）
type AgendaDay struct {
	Day    string           `json:"day"` // "2026-06-02"
	Groups []AgendaJobGroup `json:"groups"`
}

// AgendaResponse 议程视图响应（天按日期升序）
type AgendaResponse struct {
	Days []AgendaDay `json:"days"`
}

// ── 时间线视图（技师 × 日 矩阵）──

// TimelineCell 时间线单元格：某技师某天的事件列表。
// 跨越多天的事件会出现在其覆盖的每一个单元格中。
type TimelineCell struct {
	Day    string          `json:"day"`
	Events []CalendarEvent `json:"events"`
}

// TimelineRow 时间线的一行（一位技师）
type TimelineRow struct {
	TechnicianID   string         `json:"technician_id"`
	TechnicianName string         `json:"technician_name"`
	Color          string         `json:"color"`
	Cells          []TimelineCell `json:"cells"` // 与 Days 一一对齐，含空单元格
}

// TimelineResponse 时间线视图响应
type TimelineResponse struct {
	Days []string      `json:"days"`
	Rows []TimelineRow `json:"rows"`
}

// ── 拖拽迁移 ──

// RelocateRequest 迁移请求：把一条排程记录整体移动到（技师, 日）。
// 原跨度长度保持不变；技师分配被替换为单元素列表。
type RelocateRequest struct {
	RecordID     string `json:"record_id"     binding:"required,uuid"`
	TechnicianID string `json:"technician_id" binding:"required,uuid"`
	Day          string `json:"day"           binding:"required"` // 目标起始日 "2026-06-02"
}

// RelocateResponse 迁移响应
type RelocateResponse struct {
	Record SchedulingRecordResponse `json:"record"`
}
