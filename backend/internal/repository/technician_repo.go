package repository

import (
	"context"

	"gorm.io/gorm"

	"oilsafe-hub/backend/internal/model"
	pkgerrors "oilsafe-hub/backend/pkg/errors"
)

// TechnicianRepository 技师档案数据访问接口
type TechnicianRepository interface {
	Create(ctx context.Context, t *model.Technician) error
	GetByID(ctx context.Context, id string) (*model.Technician, error)
	List(ctx context.Context, onlyActive bool) ([]model.Technician, error)
	Update(ctx context.Context, t *model.Technician) error
	Delete(ctx context.Context, id string, deletedBy string) error
}

type technicianRepo struct {
	db *gorm.DB
}

// NewTechnicianRepo 创建 TechnicianRepository 实例
func NewTechnicianRepo(db *gorm.DB) TechnicianRepository {
	return &technicianRepo{db: db}
}

func (r *technicianRepo) Create(ctx context.Context, t *model.Technician) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *technicianRepo) GetByID(ctx context.Context, id string) (*model.Technician, error) {
	var t model.Technician
	err := r.db.WithContext(ctx).
		Where("technician_id = ?", id).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *technicianRepo) List(ctx context.Context, onlyActive bool) ([]model.Technician, error) {
	var list []model.Technician
	q := r.db.WithContext(ctx).Order("surname ASC, name ASC")
	if onlyActive {
		q = q.Where("is_active = ?", true)
	}
	err := q.Find(&list).Error
	return list, err
}

func (r *technicianRepo) Update(ctx context.Context, t *model.Technician) error {
	oldVersion := t.Version
	result := r.db.WithContext(ctx).
		Model(t).
		Where("technician_id = ? AND version = ?", t.TechnicianID, oldVersion).
		Updates(map[string]interface{}{
			"name":       t.Name,
			"surname":    t.Surname,
			"email":      t.Email,
			"phone":      t.Phone,
			"is_active":  t.IsActive,
			"updated_by": t.UpdatedBy,
			"version":    oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	t.Version = oldVersion + 1
	return nil
}

func (r *technicianRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Technician{}).
		Where("technician_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}
