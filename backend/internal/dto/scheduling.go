package dto

// ── 排程记录模块 DTO ──

// CreateSchedulingRecordRequest 创建排程记录请求
type CreateSchedulingRecordRequest struct {
	StartDate     string   `json:"start_date" binding:"required"` // "2026-06-02"
	EndDate       string   `json:"end_date"   binding:"required"`
	Status        string   `json:"status"     binding:"omitempty,oneof=bozza programmato confermato in_corso completato annullato"`
	TechnicianIDs []string `json:"technician_ids" binding:"omitempty,dive,uuid"`
	JobID         *string  `json:"job_id"     binding:"omitempty,uuid"`
	ClientID      *string  `json:"client_id"  binding:"omitempty,uuid"`
	ReportID      *string  `json:"report_id"  binding:"omitempty,uuid"`
	Notes         string   `json:"notes"      binding:"omitempty,max=1000"`
}

// UpdateSchedulingRecordRequest 更新排程记录请求
type UpdateSchedulingRecordRequest struct {
	StartDate     *string   `json:"start_date"`
	EndDate       *string   `json:"end_date"`
	Status        *string   `json:"status" binding:"omitempty,oneof=bozza programmato confermato in_corso completato annullato"`
	TechnicianIDs *[]string `json:"technician_ids" binding:"omitempty,dive,uuid"`
	JobID         *string   `json:"job_id"    binding:"omitempty,uuid"`
	ClientID      *string   `json:"client_id" binding:"omitempty,uuid"`
	ReportID      *string   `json:"report_id" binding:"omitempty,uuid"`
	Notes         *string   `json:"notes"     binding:"omitempty,max=1000"`
}

// SchedulingRecordResponse 排程记录响应
type SchedulingRecordResponse struct {
	ID            string   `json:"id"`
	StartDate     string   `json:"start_date"`
	EndDate       string   `json:"end_date"`
	Status        string   `json:"status"`
	TechnicianIDs []string `json:"technician_ids"`
	JobID         *string  `json:"job_id,omitempty"`
	JobCode       string   `json:"job_code,omitempty"`
	ClientID      *string  `json:"client_id,omitempty"`
	ClientName    string   `json:"client_name,omitempty"`
	ReportID      *string  `json:"report_id,omitempty"`
	ReportNumber  *int     `json:"report_number,omitempty"`
	Notes         string   `json:"notes,omitempty"`
	Version       int      `json:"version"`
}

// RelocationLogResponse 排程迁移记录响应
type RelocationLogResponse struct {
	ID                string   `json:"id"`
	RecordID          string   `json:"record_id"`
	PreviousTechIDs   []string `json:"previous_technician_ids"`
	NewTechnicianID   string   `json:"new_technician_id"`
	PreviousStartDate string   `json:"previous_start_date"`
	PreviousEndDate   string   `json:"previous_end_date"`
	NewStartDate      string   `json:"new_start_date"`
	NewEndDate        string   `json:"new_end_date"`
	OperatorID        string   `json:"operator_id"`
	CreatedAt         string   `json:"created_at"`
}
