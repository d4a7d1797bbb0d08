package dto

// ── 基础档案模块 DTO（技师 / 客户 / 工单 / 服务报告）──

// CreateTechnicianRequest 创建技师请求
type CreateTechnicianRequest struct {
	Name    string `json:"name"    binding:"required,min=1,max=100"`
	Surname string `json:"surname" binding:"required,min=1,max=100"`
	Email   string `json:"email"   binding:"omitempty,email"`
	Phone   string `json:"phone"   binding:"omitempty,max=50"`
}

// UpdateTechnicianRequest 更新技师请求
type UpdateTechnicianRequest struct {
	Name     *string `json:"name"      binding:"omitempty,min=1,max=100"`
	Surname  *string `json:"surname"   binding:"omitempty,min=1,max=100"`
	Email    *string `json:"email"     binding:"omitempty,email"`
	Phone    *string `json:"phone"     binding:"omitempty,max=50"`
	IsActive *bool   `json:"is_active"`
}

// TechnicianResponse 技师信息响应
type TechnicianResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	FullName string `json:"full_name"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	IsActive bool   `json:"is_active"`
	Color    string `json:"color"` // 会话内稳定的展示颜色
}

// CreateClientRequest 创建客户请求
type CreateClientRequest struct {
	Name    string `json:"name"     binding:"required,min=1,max=255"`
	VATCode string `json:"vat_code" binding:"omitempty,max=20"`
	Address string `json:"address"  binding:"omitempty,max=500"`
	City    string `json:"city"     binding:"omitempty,max=100"`
	Phone   string `json:"phone"    binding:"omitempty,max=50"`
	Email   string `json:"email"    binding:"omitempty,email"`
}

// UpdateClientRequest 更新客户请求
type UpdateClientRequest struct {
	Name    *string `json:"name"     binding:"omitempty,min=1,max=255"`
	VATCode *string `json:"vat_code" binding:"omitempty,max=20"`
	Address *string `json:"address"  binding:"omitempty,max=500"`
	City    *string `json:"city"     binding:"omitempty,max=100"`
	Phone   *string `json:"phone"    binding:"omitempty,max=50"`
	Email   *string `json:"email"    binding:"omitempty,email"`
}

// ClientResponse 客户信息响应
type ClientResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	VATCode string `json:"vat_code,omitempty"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
}

// CreateJobRequest 创建工单请求
type CreateJobRequest struct {
	Code        string  `json:"code"        binding:"required,min=1,max=50"`
	Description string  `json:"description" binding:"omitempty,max=500"`
	ClientID    *string `json:"client_id"   binding:"omitempty,uuid"`
}

// UpdateJobRequest 更新工单请求
type UpdateJobRequest struct {
	Code        *string `json:"code"        binding:"omitempty,min=1,max=50"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	ClientID    *string `json:"client_id"   binding:"omitempty,uuid"`
	Status      *string `json:"status"      binding:"omitempty,oneof=aperta chiusa sospesa"`
}

// JobResponse 工单信息响应
type JobResponse struct {
	ID          string  `json:"id"`
	Code        string  `json:"code"`
	Description string  `json:"description,omitempty"`
	ClientID    *string `json:"client_id,omitempty"`
	ClientName  string  `json:"client_name,omitempty"`
	Status      string  `json:"status"`
	Color       string  `json:"color"`
}

// CreateReportRequest 创建服务报告请求
type CreateReportRequest struct {
	JobID       *string `json:"job_id"      binding:"omitempty,uuid"`
	ClientID    *string `json:"client_id"   binding:"omitempty,uuid"`
	Description string  `json:"description" binding:"omitempty,max=1000"`
}

// UpdateReportRequest 更新服务报告请求
type UpdateReportRequest struct {
	JobID       *string `json:"job_id"      binding:"omitempty,uuid"`
	ClientID    *string `json:"client_id"   binding:"omitempty,uuid"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	Status      *string `json:"status"      binding:"omitempty,oneof=bozza compilato firmato fatturato"`
}

// ReportResponse 服务报告响应
type ReportResponse struct {
	ID           string  `json:"id"`
	ReportNumber int     `json:"report_number"`
	JobID        *string `json:"job_id,omitempty"`
	JobCode      string  `json:"job_code,omitempty"`
	ClientID     *string `json:"client_id,omitempty"`
	ClientName   string  `json:"client_name,omitempty"`
	Description  string  `json:"description,omitempty"`
	Status       string  `json:"status"`
}
