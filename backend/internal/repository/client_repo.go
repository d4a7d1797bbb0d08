package repository

import (
	"context"

	"gorm.io/gorm"

	"oilsafe-hub/backend/internal/model"
	pkgerrors "oilsafe-hub/backend/pkg/errors"
)

// ClientRepository 客户数据访问接口
type ClientRepository interface {
	Create(ctx context.Context, c *model.Client) error
	GetByID(ctx context.Context, id string) (*model.Client, error)
	List(ctx context.Context, search string, offset, limit int) ([]model.Client, int64, error)
	Update(ctx context.Context, c *model.Client) error
	Delete(ctx context.Context, id string, deletedBy string) error
}

type clientRepo struct {
	db *gorm.DB
}

// NewClientRepo 创建 ClientRepository 实例
func NewClientRepo(db *gorm.DB) ClientRepository {
	return &clientRepo{db: db}
}

func (r *clientRepo) Create(ctx context.Context, c *model.Client) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *clientRepo) GetByID(ctx context.Context, id string) (*model.Client, error) {
	var c model.Client
	err := r.db.WithContext(ctx).
		Where("client_id = ?", id).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *clientRepo) List(ctx context.Context, search string, offset, limit int) ([]model.Client, int64, error) {
	var list []model.Client
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Client{})
	if search != "" {
		q = q.Where("name ILIKE ?", "%"+search+"%")
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Offset(offset).Limit(limit).
		Order("name ASC").
		Find(&list).Error
	return list, total, err
}

func (r *clientRepo) Update(ctx context.Context, c *model.Client) error {
	oldVersion := c.Version
	result := r.db.WithContext(ctx).
		Model(c).
		Where("client_id = ? AND version = ?", c.ClientID, oldVersion).
		Updates(map[string]interface{}{
			"name":       c.Name,
			"vat_code":   c.VATCode,
			"address":    c.Address,
			"city":       c.City,
			"phone":      c.Phone,
			"email":      c.Email,
			"updated_by": c.UpdatedBy,
			"version":    oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	c.Version = oldVersion + 1
	return nil
}

func (r *clientRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Client{}).
		Where("client_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}
