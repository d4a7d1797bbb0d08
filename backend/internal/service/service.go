package service

import (
	"go.uber.org/zap"

	"oilsafe-hub/backend/config"
	"oilsafe-hub/backend/internal/repository"
	"oilsafe-hub/backend/pkg/jwt"
	"oilsafe-hub/backend/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth       AuthService
	Technician TechnicianService
	Client     ClientService
	Job        JobService
	Report     ReportService
	Scheduling SchedulingService
	Calendar   CalendarService
	Export     ExportService
	ICS        ICSService
}

// NewService 创建 Service 聚合
// rdb 为 nil 时认证模块的黑名单功能降级为空操作
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:       NewAuthService(cfg, repo, jwtMgr, rdb, logger),
		Technician: NewTechnicianService(repo, logger),
		Client:     NewClientService(repo, logger),
		Job:        NewJobService(repo, logger),
		Report:     NewReportService(repo, logger),
		Scheduling: NewSchedulingService(repo, logger),
		Calendar:   NewCalendarService(repo, logger),
		Export:     NewExportService(repo, logger),
		ICS:        NewICSService(repo, logger),
	}
}
