package handler

import "oilsafe-hub/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth       *AuthHandler
	Technician *TechnicianHandler
	Client     *ClientHandler
	Job        *JobHandler
	Report     *ReportHandler
	Scheduling *SchedulingHandler
	Calendar   *CalendarHandler
	Export     *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth),
		Technician: NewTechnicianHandler(svc.Technician),
		Client:     NewClientHandler(svc.Client),
		Job:        NewJobHandler(svc.Job),
		Report:     NewReportHandler(svc.Report),
		Scheduling: NewSchedulingHandler(svc.Scheduling),
		Calendar:   NewCalendarHandler(svc.Calendar),
		Export:     NewExportHandler(svc.Export, svc.ICS),
	}
}
