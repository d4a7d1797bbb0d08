package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"oilsafe-hub/backend/internal/model"
	"oilsafe-hub/backend/internal/telemetry"
	pkgerrors "oilsafe-hub/backend/pkg/errors"
)

// SchedulingRecordRepository 排程记录数据访问接口
type SchedulingRecordRepository interface {
	Create(ctx context.Context, rec *model.SchedulingRecord) error
	GetByID(ctx context.Context, id string) (*model.SchedulingRecord, error)
	// ListByWindow 返回与 [from, to] 日期窗口相交、状态在 statuses 内的记录，
	// 按 start_date 升序（日历聚合依赖该自然顺序保证输出确定性）。
	// statuses 为空时不过滤状态。
	ListByWindow(ctx context.Context, from, to time.Time, statuses []string) ([]model.SchedulingRecord, error)
	List(ctx context.Context, offset, limit int) ([]model.SchedulingRecord, int64, error)
	Update(ctx context.Context, rec *model.SchedulingRecord) error
	Delete(ctx context.Context, id string, deletedBy string) error
}

// RelocationLogRepository 排程迁移审计日志数据访问接口
type RelocationLogRepository interface {
	Create(ctx context.Context, log *model.RelocationLog) error
	List(ctx context.Context, offset, limit int) ([]model.RelocationLog, int64, error)
}

// ── SchedulingRecord Repository 实现 ──

type schedulingRecordRepo struct {
	db  *gorm.DB
	rec *telemetry.Recorder
}

// NewSchedulingRecordRepo 创建 SchedulingRecordRepository 实例
// 排程记录是日历视图的热路径，查询耗时通过 telemetry.Recorder 显式上报。
func NewSchedulingRecordRepo(db *gorm.DB, rec *telemetry.Recorder) SchedulingRecordRepository {
	return &schedulingRecordRepo{db: db, rec: rec}
}

// timed 包裹一次数据库操作并上报耗时
func (r *schedulingRecordRepo) timed(op string, fn func() error) error {
	start := time.Now()
	err := fn()
	if r.rec != nil {
		r.rec.Observe("scheduling_records", op, time.Since(start), err)
	}
	return err
}

func (r *schedulingRecordRepo) Create(ctx context.Context, rec *model.SchedulingRecord) error {
	return r.timed("insert", func() error {
		return r.db.WithContext(ctx).Create(rec).Error
	})
}

func (r *schedulingRecordRepo) GetByID(ctx context.Context, id string) (*model.SchedulingRecord, error) {
	var record model.SchedulingRecord
	err := r.timed("select", func() error {
		return r.db.WithContext(ctx).
			Preload("Job").Preload("Job.Client").
			Preload("Client").
			Preload("Report").Preload("Report.Job").Preload("Report.Client").
			Where("record_id = ?", id).
			First(&record).Error
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *schedulingRecordRepo) ListByWindow(ctx context.Context, from, to time.Time, statuses []string) ([]model.SchedulingRecord, error) {
	var records []model.SchedulingRecord
	err := r.timed("select", func() error {
		q := r.db.WithContext(ctx).
			Preload("Job").Preload("Job.Client").
			Preload("Client").
			Preload("Report").Preload("Report.Job").Preload("Report.Client").
			Where("start_date <= ? AND end_date >= ?", to, from)
		if len(statuses) > 0 {
			q = q.Where("status IN ?", statuses)
		}
		return q.Order("start_date ASC, created_at ASC").Find(&records).Error
	})
	return records, err
}

func (r *schedulingRecordRepo) List(ctx context.Context, offset, limit int) ([]model.SchedulingRecord, int64, error) {
	var records []model.SchedulingRecord
	var total int64

	err := r.timed("select", func() error {
		q := r.db.WithContext(ctx).Model(&model.SchedulingRecord{})
		if err := q.Count(&total).Error; err != nil {
			return err
		}
		return q.Preload("Job").Preload("Client").Preload("Report").
			Offset(offset).Limit(limit).
			Order("start_date DESC").
			Find(&records).Error
	})
	return records, total, err
}

func (r *schedulingRecordRepo) Update(ctx context.Context, rec *model.SchedulingRecord) error {
	return r.timed("update", func() error {
		oldVersion := rec.Version
		result := r.db.WithContext(ctx).
			Model(rec).
			Where("record_id = ? AND version = ?", rec.RecordID, oldVersion).
			Updates(map[string]interface{}{
				"start_date":     rec.StartDate,
				"end_date":       rec.EndDate,
				"status":         rec.Status,
				"technician_ids": rec.TechnicianIDs,
				"job_id":         rec.JobID,
				"client_id":      rec.ClientID,
				"report_id":      rec.ReportID,
				"notes":          rec.Notes,
				"updated_by":     rec.UpdatedBy,
				"version":        oldVersion + 1,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return pkgerrors.ErrOptimisticLock
		}
		rec.Version = oldVersion + 1
		return nil
	})
}

func (r *schedulingRecordRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.timed("delete", func() error {
		return r.db.WithContext(ctx).
			Model(&model.SchedulingRecord{}).
			Where("record_id = ?", id).
			Updates(map[string]interface{}{
				"deleted_by": deletedBy,
				"deleted_at": gorm.Expr("NOW()"),
			}).Error
	})
}

// ── RelocationLog Repository 实现 ──

type relocationLogRepo struct {
	db *gorm.DB
}

// NewRelocationLogRepo 创建 RelocationLogRepository 实例
func NewRelocationLogRepo(db *gorm.DB) RelocationLogRepository {
	return &relocationLogRepo{db: db}
}

func (r *relocationLogRepo) Create(ctx context.Context, log *model.RelocationLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *relocationLogRepo) List(ctx context.Context, offset, limit int) ([]model.RelocationLog, int64, error) {
	var logs []model.RelocationLog
	var total int64

	q := r.db.WithContext(ctx).Model(&model.RelocationLog{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&logs).Error
	return logs, total, err
}
