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

// ── 工单模块业务错误 ──

var (
	ErrJobNotFound   = errors.New("工单不存在")
	ErrJobCodeExists = errors.New("工单编号已存在")
)

// JobService 工单业务接口
type JobService interface {
	Create(ctx context.Context, req *dto.CreateJobRequest, callerID string) (*dto.JobResponse, error)
	GetByID(ctx context.Context, id string) (*dto.JobResponse, error)
	List(ctx context.Context, search string, page, pageSize int) ([]dto.JobResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateJobRequest, callerID string) (*dto.JobResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
}

type jobService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewJobService 创建 JobService 实例
func NewJobService(repo *repository.Repository, logger *zap.Logger) JobService {
	return &jobService{repo: repo, logger: logger}
}

func (s *jobService) Create(ctx context.Context, req *dto.CreateJobRequest, callerID string) (*dto.JobResponse, error) {
	// 检查编号唯一性
	existing, err := s.repo.Job.GetByCode(ctx, req.Code)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询工单失败", zap.Error(err))
		return nil, err
	}
	if existing != nil {
		return nil, ErrJobCodeExists
	}

	if req.ClientID != nil {
		if _, err := s.repo.Client.GetByID(ctx, *req.ClientID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrClientNotFound
			}
			return nil, err
		}
	}

	j := &model.Job{
		Code:        req.Code,
		Description: req.Description,
		ClientID:    req.ClientID,
		Status:      model.JobStatusOpen,
	}
	j.CreatedBy = &callerID
	j.UpdatedBy = &callerID

	if err := s.repo.Job.Create(ctx, j); err != nil {
		s.logger.Error("创建工单失败", zap.Error(err))
		return nil, err
	}

	// 回读以附带客户关联
	created, err := s.repo.Job.GetByID(ctx, j.JobID)
	if err != nil {
		return toJobResponse(j), nil
	}
	return toJobResponse(created), nil
}

func (s *jobService) GetByID(ctx context.Context, id string) (*dto.JobResponse, error) {
	j, err := s.repo.Job.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		s.logger.Error("查询工单失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toJobResponse(j), nil
}

func (s *jobService) List(ctx context.Context, search string, page, pageSize int) ([]dto.JobResponse, int64, error) {
	list, total, err := s.repo.Job.List(ctx, search, (page-1)*pageSize, pageSize)
	if err != nil {
		s.logger.Error("列出工单失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.JobResponse, 0, len(list))
	for i := range list {
		result = append(result, *toJobResponse(&list[i]))
	}
	return result, total, nil
}

func (s *jobService) Update(ctx context.Context, id string, req *dto.UpdateJobRequest, callerID string) (*dto.JobResponse, error) {
	j, err := s.repo.Job.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		s.logger.Error("查询工单失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	// 如果更新编号，检查唯一性
	if req.Code != nil && *req.Code != j.Code {
		existing, err := s.repo.Job.GetByCode(ctx, *req.Code)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if existing != nil {
			return nil, ErrJobCodeExists
		}
		j.Code = *req.Code
	}
	if req.Description != nil {
		j.Description = *req.Description
	}
	if req.ClientID != nil {
		if _, err := s.repo.Client.GetByID(ctx, *req.ClientID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrClientNotFound
			}
			return nil, err
		}
		j.ClientID = req.ClientID
	}
	if req.Status != nil {
		j.Status = *req.Status
	}
	j.UpdatedBy = &callerID

	if err := s.repo.Job.Update(ctx, j); err != nil {
		s.logger.Error("更新工单失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	updated, err := s.repo.Job.GetByID(ctx, id)
	if err != nil {
		return toJobResponse(j), nil
	}
	return toJobResponse(updated), nil
}

func (s *jobService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := s.repo.Job.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrJobNotFound
		}
		s.logger.Error("查询工单失败", zap.String("id", id), zap.Error(err))
		return err
	}

	if err := s.repo.Job.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("删除工单失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ── 响应转换器 ──

func toJobResponse(j *model.Job) *dto.JobResponse {
	resp := &dto.JobResponse{
		ID:          j.JobID,
		Code:        j.Code,
		Description: j.Description,
		ClientID:    j.ClientID,
		Status:      j.Status,
		Color:       ColorFor(j.JobID),
	}
	if j.Client != nil {
		resp.ClientName = j.Client.Name
	}
	return resp
}
