package model

import "time"

// ── 服务报告状态枚举 ──

const (
	ReportStatusDraft    = "bozza"
	ReportStatusFilled   = "compilato"
	ReportStatusSigned   = "firmato"
	ReportStatusInvoiced = "fatturato"
)

// ServiceReport 服务报告（foglio）表 — 对应 service_reports
// 携带面向客户的流水号（ReportNumber），与工单、客户关联。
// 排程记录缺失工单/客户引用时，会回退从关联的报告继承。
type ServiceReport struct {
	ReportID     string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"report_id"`
	ReportNumber int        `gorm:"not null;uniqueIndex"                           json:"report_number"`
	JobID        *string    `gorm:"type:uuid"                                      json:"job_id,omitempty"`
	ClientID     *string    `gorm:"type:uuid"                                      json:"client_id,omitempty"`
	Description  string     `gorm:"type:varchar(1000)"                             json:"description,omitempty"`
	Status       string     `gorm:"type:varchar(20);not null;default:'bozza'"      json:"status"` // bozza | compilato | firmato | fatturato
	SignedAt     *time.Time `json:"signed_at,omitempty"`
	VersionedModel

	// 关联
	Job    *Job    `gorm:"foreignKey:JobID;references:JobID"       json:"job,omitempty"`
	Client *Client `gorm:"foreignKey:ClientID;references:ClientID" json:"client,omitempty"`
}

// TableName 指定表名
func (ServiceReport) TableName() string { return "service_reports" }
