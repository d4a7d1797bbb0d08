package repository

import (
	"gorm.io/gorm"

	"oilsafe-hub/backend/internal/telemetry"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User             UserRepository
	Technician       TechnicianRepository
	Client           ClientRepository
	Job              JobRepository
	Report           ServiceReportRepository
	SchedulingRecord SchedulingRecordRepository
	RelocationLog    RelocationLogRepository
}

// NewRepository 创建 Repository 聚合
// rec 为 nil 时查询耗时统计被禁用（测试场景）
func NewRepository(db *gorm.DB, rec *telemetry.Recorder) *Repository {
	return &Repository{
		User:             NewUserRepo(db),
		Technician:       NewTechnicianRepo(db),
		Client:           NewClientRepo(db),
		Job:              NewJobRepo(db),
		Report:           NewServiceReportRepo(db),
		SchedulingRecord: NewSchedulingRecordRepo(db, rec),
		RelocationLog:    NewRelocationLogRepo(db),
	}
}
