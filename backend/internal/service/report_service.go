package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"oilsafe-hub/backend/internal/dto"
	"oilsafe-hub/backend/internal/model"
	"oilsafe-hub/backend/internal/repository"
)

// ── 服务报告模块业务错误 ──

var ErrReportNotFound = errors.New("服务报告不存在")

// ReportService 服务报告业务接口
type ReportService interface {
	Create(ctx context.Context, req *dto.CreateReportRequest, callerID string) (*dto.ReportResponse, error)
	GetByID(ctx context.Context, id string) (*dto.ReportResponse, error)
	List(ctx context.Context, page, pageSize int) ([]dto.ReportResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateReportRequest, callerID string) (*dto.ReportResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
}

type reportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewReportService 创建 ReportService 实例
func NewReportService(repo *repository.Repository, logger *zap.Logger) ReportService {
	return &reportService{repo: repo, logger: logger}
}

func (s *reportService) Create(ctx context.Context, req *dto.CreateReportRequest, callerID string) (*dto.ReportResponse, error) {
	jobID := req.JobID
	clientID := req.ClientID

	if jobID != nil {
		job, err := s.repo.Job.GetByID(ctx, *jobID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrJobNotFound
			}
			return nil, err
		}
		// 未显式指定客户时继承工单客户
		if clientID == nil {
			clientID = job.ClientID
		}
	}
	if clientID != nil {
		if _, err := s.repo.Client.GetByID(ctx, *clientID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrClientNotFound
			}
			return nil, err
		}
	}

	number, err := s.repo.Report.NextReportNumber(ctx)
	if err != nil {
		s.logger.Error("分配报告流水号失败", zap.Error(err))
		return nil, err
	}

	rep := &model.ServiceReport{
		ReportNumber: number,
		JobID:        jobID,
		ClientID:     clientID,
		Description:  req.Description,
		Status:       model.ReportStatusDraft,
	}
	rep.CreatedBy = &callerID
	rep.UpdatedBy = &callerID

	if err := s.repo.Report.Create(ctx, rep); err != nil {
		s.logger.Error("创建服务报告失败", zap.Error(err))
		return nil, err
	}

	created, err := s.repo.Report.GetByID(ctx, rep.ReportID)
	if err != nil {
		return toReportResponse(rep), nil
	}
	return toReportResponse(created), nil
}

func (s *reportService) GetByID(ctx context.Context, id string) (*dto.ReportResponse, error) {
	rep, err := s.repo.Report.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		s.logger.Error("查询服务报告失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toReportResponse(rep), nil
}

func (s *reportService) List(ctx context.Context, page, pageSize int) ([]dto.ReportResponse, int64, error) {
	list, total, err := s.repo.Report.List(ctx, (page-1)*pageSize, pageSize)
	if err != nil {
		s.logger.Error("列出服务报告失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.ReportResponse, 0, len(list))
	for i := range list {
		result = append(result, *toReportResponse(&list[i]))
	}
	return result, total, nil
}

func (s *reportService) Update(ctx context.Context, id string, req *dto.UpdateReportRequest, callerID string) (*dto.ReportResponse, error) {
	rep, err := s.repo.Report.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		s.logger.Error("查询服务报告失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.JobID != nil {
		if _, err := s.repo.Job.GetByID(ctx, *req.JobID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrJobNotFound
			}
			return nil, err
		}
		rep.JobID = req.JobID
	}
	if req.ClientID != nil {
		if _, err := s.repo.Client.GetByID(ctx, *req.ClientID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrClientNotFound
			}
			return nil, err
		}
		rep.ClientID = req.ClientID
	}
	if req.Description != nil {
		rep.Description = *req.Description
	}
	if req.Status != nil {
		// 首次进入已签署状态时记录签署时间
		if *req.Status == model.ReportStatusSigned && rep.SignedAt == nil {
			now := time.Now()
			rep.SignedAt = &now
		}
		rep.Status = *req.Status
	}
	rep.UpdatedBy = &callerID

	if err := s.repo.Report.Update(ctx, rep); err != nil {
		s.logger.Error("更新服务报告失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	updated, err := s.repo.Report.GetByID(ctx, id)
	if err != nil {
		return toReportResponse(rep), nil
	}
	return toReportResponse(updated), nil
}

func (s *reportService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := s.repo.Report.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReportNotFound
		}
		s.logger.Error("查询服务报告失败", zap.String("id", id), zap.Error(err))
		return err
	}

	if err := s.repo.Report.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("删除服务报告失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ── 响应转换器 ──

func toReportResponse(rep *model.ServiceReport) *dto.ReportResponse {
	resp := &dto.ReportResponse{
		ID:           rep.ReportID,
		ReportNumber: rep.ReportNumber,
		JobID:        rep.JobID,
		ClientID:     rep.ClientID,
		Description:  rep.Description,
		Status:       rep.Status,
	}
	if rep.Job != nil {
		resp.JobCode = rep.Job.Code
	}
	if rep.Client != nil {
		resp.ClientName = rep.Client.Name
	}
	return resp
}
