package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"oilsafe-hub/backend/internal/dto"
	"oilsafe-hub/backend/internal/model"
	"oilsafe-hub/backend/internal/repository"
)

// ── 技师模块业务错误 ──

var ErrTechnicianNotFound = errors.New("技师不存在")

// TechnicianService 技师档案业务接口
type TechnicianService interface {
	Create(ctx context.Context, req *dto.CreateTechnicianRequest, callerID string) (*dto.TechnicianResponse, error)
	GetByID(ctx context.Context, id string) (*dto.TechnicianResponse, error)
	List(ctx context.Context, onlyActive bool) ([]dto.TechnicianResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateTechnicianRequest, callerID string) (*dto.TechnicianResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
}

type technicianService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTechnicianService 创建 TechnicianService 实例
func NewTechnicianService(repo *repository.Repository, logger *zap.Logger) TechnicianService {
	return &technicianService{repo: repo, logger: logger}
}

func (s *technicianService) Create(ctx context.Context, req *dto.CreateTechnicianRequest, callerID string) (*dto.TechnicianResponse, error) {
	t := &model.Technician{
		Name:     req.Name,
		Surname:  req.Surname,
		Email:    req.Email,
		Phone:    req.Phone,
		IsActive: true,
	}
	t.CreatedBy = &callerID
	t.UpdatedBy = &callerID

	if err := s.repo.Technician.Create(ctx, t); err != nil {
		s.logger.Error("创建技师失败", zap.Error(err))
		return nil, err
	}

	return toTechnicianResponse(t), nil
}

func (s *technicianService) GetByID(ctx context.Context, id string) (*dto.TechnicianResponse, error) {
	t, err := s.repo.Technician.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTechnicianNotFound
		}
		s.logger.Error("查询技师失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toTechnicianResponse(t), nil
}

func (s *technicianService) List(ctx context.Context, onlyActive bool) ([]dto.TechnicianResponse, error) {
	list, err := s.repo.Technician.List(ctx, onlyActive)
	if err != nil {
		s.logger.Error("列出技师失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.TechnicianResponse, 0, len(list))
	for i := range list {
		result = append(result, *toTechnicianResponse(&list[i]))
	}
	return result, nil
}

func (s *technicianService) Update(ctx context.Context, id string, req *dto.UpdateTechnicianRequest, callerID string) (*dto.TechnicianResponse, error) {
	t, err := s.repo.Technician.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTechnicianNotFound
		}
		s.logger.Error("查询技师失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	// 应用更新
	if req.Name != nil {
		t.Name = *req.Name
	}
	if req.Surname != nil {
		t.Surname = *req.Surname
	}
	if req.Email != nil {
		t.Email = *req.Email
	}
	if req.Phone != nil {
		t.Phone = *req.Phone
	}
	if req.IsActive != nil {
		t.IsActive = *req.IsActive
	}
	t.UpdatedBy = &callerID

	if err := s.repo.Technician.Update(ctx, t); err != nil {
		s.logger.Error("更新技师失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toTechnicianResponse(t), nil
}

func (s *technicianService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := s.repo.Technician.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTechnicianNotFound
		}
		s.logger.Error("查询技师失败", zap.String("id", id), zap.Error(err))
		return err
	}

	if err := s.repo.Technician.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("删除技师失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ── 响应转换器 ──

func toTechnicianResponse(t *model.Technician) *dto.TechnicianResponse {
	return &dto.TechnicianResponse{
		ID:       t.TechnicianID,
		Name:     t.Name,
		Surname:  t.Surname,
		FullName: t.FullName(),
		Email:    t.Email,
		Phone:    t.Phone,
		IsActive: t.IsActive,
		Color:    ColorFor(t.TechnicianID),
	}
}
