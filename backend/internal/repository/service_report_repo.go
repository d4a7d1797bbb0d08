package repository

import (
	"context"

	"gorm.io/gorm"

	"oilsafe-hub/backend/internal/model"
	pkgerrors "oilsafe-hub/backend/pkg/errors"
)

// ServiceReportRepository 服务报告数据访问接口
type ServiceReportRepository interface {
	Create(ctx context.Context, rep *model.ServiceReport) error
	GetByID(ctx context.Context, id string) (*model.ServiceReport, error)
	List(ctx context.Context, offset, limit int) ([]model.ServiceReport, int64, error)
	NextReportNumber(ctx context.Context) (int, error)
	Update(ctx context.Context, rep *model.ServiceReport) error
	Delete(ctx context.Context, id string, deletedBy string) error
}

type serviceReportRepo struct {
	db *gorm.DB
}

// NewServiceReportRepo 创建 ServiceReportRepository 实例
func NewServiceReportRepo(db *gorm.DB) ServiceReportRepository {
	return &serviceReportRepo{db: db}
}

func (r *serviceReportRepo) Create(ctx context.Context, rep *model.ServiceReport) error {
	return r.db.WithContext(ctx).Create(rep).Error
}

func (r *serviceReportRepo) GetByID(ctx context.Context, id string) (*model.ServiceReport, error) {
	var rep model.ServiceReport
	err := r.db.WithContext(ctx).
		Preload("Job").
		Preload("Client").
		Where("report_id = ?", id).
		First(&rep).Error
	if err != nil {
		return nil, err
	}
	return &rep, nil
}

func (r *serviceReportRepo) List(ctx context.Context, offset, limit int) ([]model.ServiceReport, int64, error) {
	var list []model.ServiceReport
	var total int64

	q := r.db.WithContext(ctx).Model(&model.ServiceReport{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("Job").
		Preload("Client").
		Offset(offset).Limit(limit).
		Order("report_number DESC").
		Find(&list).Error
	return list, total, err
}

// NextReportNumber 分配下一个面向客户的流水号
// 含软删除记录，保证流水号单调且不复用
func (r *serviceReportRepo) NextReportNumber(ctx context.Context) (int, error) {
	var max int
	err := r.db.WithContext(ctx).
		Model(&model.ServiceReport{}).
		Unscoped().
		Select("COALESCE(MAX(report_number), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}

func (r *serviceReportRepo) Update(ctx context.Context, rep *model.ServiceReport) error {
	oldVersion := rep.Version
	result := r.db.WithContext(ctx).
		Model(rep).
		Where("report_id = ? AND version = ?", rep.ReportID, oldVersion).
		Updates(map[string]interface{}{
			"job_id":      rep.JobID,
			"client_id":   rep.ClientID,
			"description": rep.Description,
			"status":      rep.Status,
			"signed_at":   rep.SignedAt,
			"updated_by":  rep.UpdatedBy,
			"version":     oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	rep.Version = oldVersion + 1
	return nil
}

func (r *serviceReportRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.ServiceReport{}).
		Where("report_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}
