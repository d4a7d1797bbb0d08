package repository

import (
	"context"

	"gorm.io/gorm"

	"oilsafe-hub/backend/internal/model"
	pkgerrors "oilsafe-hub/backend/pkg/errors"
)

// JobRepository 工单数据访问接口
type JobRepository interface {
	Create(ctx context.Context, j *model.Job) error
	GetByID(ctx context.Context, id string) (*model.Job, error)
	GetByCode(ctx context.Context, code string) (*model.Job, error)
	List(ctx context.Context, search string, offset, limit int) ([]model.Job, int64, error)
	ListAll(ctx context.Context) ([]model.Job, error)
	Update(ctx context.Context, j *model.Job) error
	Delete(ctx context.Context, id string, deletedBy string) error
}

type jobRepo struct {
	db *gorm.DB
}

// NewJobRepo 创建 JobRepository 实例
func NewJobRepo(db *gorm.DB) JobRepository {
	return &jobRepo{db: db}
}

func (r *jobRepo) Create(ctx context.Context, j *model.Job) error {
	return r.db.WithContext(ctx).Create(j).Error
}

func (r *jobRepo) GetByID(ctx context.Context, id string) (*model.Job, error) {
	var j model.Job
	err := r.db.WithContext(ctx).
		Preload("Client").
		Where("job_id = ?", id).
		First(&j).Error
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func (r *jobRepo) GetByCode(ctx context.Context, code string) (*model.Job, error) {
	var j model.Job
	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&j).Error
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func (r *jobRepo) List(ctx context.Context, search string, offset, limit int) ([]model.Job, int64, error) {
	var list []model.Job
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Job{})
	if search != "" {
		q = q.Where("code ILIKE ? OR description ILIKE ?", "%"+search+"%", "%"+search+"%")
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("Client").
		Offset(offset).Limit(limit).
		Order("code ASC").
		Find(&list).Error
	return list, total, err
}

// ListAll 返回全部工单（日历聚合的参照集合）
func (r *jobRepo) ListAll(ctx context.Context) ([]model.Job, error) {
	var list []model.Job
	err := r.db.WithContext(ctx).
		Preload("Client").
		Order("code ASC").
		Find(&list).Error
	return list, err
}

func (r *jobRepo) Update(ctx context.Context, j *model.Job) error {
	oldVersion := j.Version
	result := r.db.WithContext(ctx).
		Model(j).
		Where("job_id = ? AND version = ?", j.JobID, oldVersion).
		Updates(map[string]interface{}{
			"code":        j.Code,
			"description": j.Description,
			"client_id":   j.ClientID,
			"status":      j.Status,
			"updated_by":  j.UpdatedBy,
			"version":     oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	j.Version = oldVersion + 1
	return nil
}

func (r *jobRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Job{}).
		Where("job_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}
