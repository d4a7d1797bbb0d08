package model

import "time"

// ── 排程记录状态枚举 ──

const (
	SchedulingStatusDraft      = "bozza"
	SchedulingStatusPlanned    = "programmato"
	SchedulingStatusConfirmed  = "confermato"
	SchedulingStatusInProgress = "in_corso"
	SchedulingStatusCompleted  = "completato"
	SchedulingStatusCancelled  = "annullato"
)

// CalendarStatuses 日历展示可见的状态子集
var CalendarStatuses = []string{
	SchedulingStatusPlanned,
	SchedulingStatusConfirmed,
	SchedulingStatusInProgress,
}

// SchedulingRecord 排程记录表 — 对应 scheduling_records
// 描述一段计划工作：日期跨度（天粒度，StartDate <= EndDate）、
// 分配的技师列表、关联的工单/客户/服务报告。
type SchedulingRecord struct {
	RecordID      string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"  json:"record_id"`
	StartDate     time.Time   `gorm:"type:date;not null"                              json:"start_date"`
	EndDate       time.Time   `gorm:"type:date;not null"                              json:"end_date"`
	Status        string      `gorm:"type:varchar(20);not null;default:'programmato'" json:"status"`
	TechnicianIDs StringArray `gorm:"type:uuid[]"                                     json:"technician_ids"`
	JobID         *string     `gorm:"type:uuid"                                       json:"job_id,omitempty"`
	ClientID      *string     `gorm:"type:uuid"                                       json:"client_id,omitempty"`
	ReportID      *string     `gorm:"type:uuid"                                       json:"report_id,omitempty"`
	Notes         string      `gorm:"type:varchar(1000)"                              json:"notes,omitempty"`
	VersionedModel

	// 关联
	Job    *Job           `gorm:"foreignKey:JobID;references:JobID"          json:"job,omitempty"`
	Client *Client        `gorm:"foreignKey:ClientID;references:ClientID"    json:"client,omitempty"`
	Report *ServiceReport `gorm:"foreignKey:ReportID;references:ReportID"    json:"report,omitempty"`
}

// TableName 指定表名
func (SchedulingRecord) TableName() string { return "scheduling_records" }

// RelocationLog 排程迁移记录表 — 对应 relocation_logs（纯审计日志）
// 记录时间线视图上的拖拽迁移：迁移前的技师分配与日期跨度均快照保存，
// 多技师分配被折叠为单技师时可据此追溯。
type RelocationLog struct {
	RelocationLogID   string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"relocation_log_id"`
	RecordID          string      `gorm:"type:uuid;not null"                             json:"record_id"`
	PreviousTechIDs   StringArray `gorm:"type:uuid[]"                                    json:"previous_technician_ids"`
	NewTechnicianID   string      `gorm:"type:uuid;not null"                             json:"new_technician_id"`
	PreviousStartDate time.Time   `gorm:"type:date;not null"                             json:"previous_start_date"`
	PreviousEndDate   time.Time   `gorm:"type:date;not null"                             json:"previous_end_date"`
	NewStartDate      time.Time   `gorm:"type:date;not null"                             json:"new_start_date"`
	NewEndDate        time.Time   `gorm:"type:date;not null"                             json:"new_end_date"`
	OperatorID        string      `gorm:"type:uuid;not null"                             json:"operator_id"`
	CreatedAt         time.Time   `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (RelocationLog) TableName() string { return "relocation_logs" }
