package model

// ── 工单状态枚举 ──

const (
	JobStatusOpen      = "aperta"
	JobStatusClosed    = "chiusa"
	JobStatusSuspended = "sospesa"
)

// Job 商务工单（commessa）表 — 对应 jobs
// 排程记录与服务报告都挂在工单之下，是计费工作的基本单位。
type Job struct {
	JobID       string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"job_id"`
	Code        string  `gorm:"type:varchar(50);not null;uniqueIndex"          json:"code"`
	Description string  `gorm:"type:varchar(500)"                              json:"description,omitempty"`
	ClientID    *string `gorm:"type:uuid"                                      json:"client_id,omitempty"`
	Status      string  `gorm:"type:varchar(20);not null;default:'aperta'"     json:"status"` // aperta | chiusa | sospesa
	VersionedModel

	// 关联
	Client *Client `gorm:"foreignKey:ClientID;references:ClientID" json:"client,omitempty"`
}

// TableName 指定表名
func (Job) TableName() string { return "jobs" }
