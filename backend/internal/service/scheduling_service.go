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

// ── 排程记录模块业务错误 ──

var (
	ErrSchedulingRecordNotFound = errors.New("排程记录不存在")
	ErrSchedulingInvalidDate    = errors.New("日期格式无效，应为 YYYY-MM-DD")
	ErrSchedulingInvalidSpan    = errors.New("日期跨度无效：start_date 必须不晚于 end_date")
)

// SchedulingService 排程记录业务接口
type SchedulingService interface {
	Create(ctx context.Context, req *dto.CreateSchedulingRecordRequest, callerID string) (*dto.SchedulingRecordResponse, error)
	GetByID(ctx context.Context, id string) (*dto.SchedulingRecordResponse, error)
	List(ctx context.Context, page, pageSize int) ([]dto.SchedulingRecordResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateSchedulingRecordRequest, callerID string) (*dto.SchedulingRecordResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
}

type schedulingService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSchedulingService 创建 SchedulingService 实例
func NewSchedulingService(repo *repository.Repository, logger *zap.Logger) SchedulingService {
	return &schedulingService{repo: repo, logger: logger}
}

// validateRefs 校验排程记录引用的技师/工单/客户/报告均存在
func (s *schedulingService) validateRefs(ctx context.Context, techIDs []string, jobID, clientID, reportID *string) error {
	for _, techID := range techIDs {
		if _, err := s.repo.Technician.GetByID(ctx, techID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTechnicianNotFound
			}
			return err
		}
	}
	if jobID != nil {
		if _, err := s.repo.Job.GetByID(ctx, *jobID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrJobNotFound
			}
			return err
		}
	}
	if clientID != nil {
		if _, err := s.repo.Client.GetByID(ctx, *clientID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrClientNotFound
			}
			return err
		}
	}
	if reportID != nil {
		if _, err := s.repo.Report.GetByID(ctx, *reportID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReportNotFound
			}
			return err
		}
	}
	return nil
}

func (s *schedulingService) Create(ctx context.Context, req *dto.CreateSchedulingRecordRequest, callerID string) (*dto.SchedulingRecordResponse, error) {
	start, err := time.Parse(dayKeyLayout, req.StartDate)
	if err != nil {
		return nil, ErrSchedulingInvalidDate
	}
	end, err := time.Parse(dayKeyLayout, req.EndDate)
	if err != nil {
		return nil, ErrSchedulingInvalidDate
	}
	if end.Before(start) {
		return nil, ErrSchedulingInvalidSpan
	}

	if err := s.validateRefs(ctx, req.TechnicianIDs, req.JobID, req.ClientID, req.ReportID); err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = model.SchedulingStatusPlanned
	}

	rec := &model.SchedulingRecord{
		StartDate:     start,
		EndDate:       end,
		Status:        status,
		TechnicianIDs: model.StringArray(req.TechnicianIDs),
		JobID:         req.JobID,
		ClientID:      req.ClientID,
		ReportID:      req.ReportID,
		Notes:         req.Notes,
	}
	rec.CreatedBy = &callerID
	rec.UpdatedBy = &callerID

	if err := s.repo.SchedulingRecord.Create(ctx, rec); err != nil {
		s.logger.Error("创建排程记录失败", zap.Error(err))
		return nil, err
	}

	// 回读以附带工单/客户/报告关联
	created, err := s.repo.SchedulingRecord.GetByID(ctx, rec.RecordID)
	if err != nil {
		return toSchedulingRecordResponse(rec), nil
	}
	return toSchedulingRecordResponse(created), nil
}

func (s *schedulingService) GetByID(ctx context.Context, id string) (*dto.SchedulingRecordResponse, error) {
	rec, err := s.repo.SchedulingRecord.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSchedulingRecordNotFound
		}
		s.logger.Error("查询排程记录失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toSchedulingRecordResponse(rec), nil
}

func (s *schedulingService) List(ctx context.Context, page, pageSize int) ([]dto.SchedulingRecordResponse, int64, error) {
	list, total, err := s.repo.SchedulingRecord.List(ctx, (page-1)*pageSize, pageSize)
	if err != nil {
		s.logger.Error("列出排程记录失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.SchedulingRecordResponse, 0, len(list))
	for i := range list {
		result = append(result, *toSchedulingRecordResponse(&list[i]))
	}
	return result, total, nil
}

func (s *schedulingService) Update(ctx context.Context, id string, req *dto.UpdateSchedulingRecordRequest, callerID string) (*dto.SchedulingRecordResponse, error) {
	rec, err := s.repo.SchedulingRecord.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSchedulingRecordNotFound
		}
		s.logger.Error("查询排程记录失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.StartDate != nil {
		start, err := time.Parse(dayKeyLayout, *req.StartDate)
		if err != nil {
			return nil, ErrSchedulingInvalidDate
		}
		rec.StartDate = start
	}
	if req.EndDate != nil {
		end, err := time.Parse(dayKeyLayout, *req.EndDate)
		if err != nil {
			return nil, ErrSchedulingInvalidDate
		}
		rec.EndDate = end
	}
	if rec.EndDate.Before(rec.StartDate) {
		return nil, ErrSchedulingInvalidSpan
	}

	var techIDs []string
	if req.TechnicianIDs != nil {
		techIDs = *req.TechnicianIDs
	}
	if err := s.validateRefs(ctx, techIDs, req.JobID, req.ClientID, req.ReportID); err != nil {
		return nil, err
	}

	if req.Status != nil {
		rec.Status = *req.Status
	}
	if req.TechnicianIDs != nil {
		rec.TechnicianIDs = model.StringArray(*req.TechnicianIDs)
	}
	if req.JobID != nil {
		rec.JobID = req.JobID
	}
	if req.ClientID != nil {
		rec.ClientID = req.ClientID
	}
	if req.ReportID != nil {
		rec.ReportID = req.ReportID
	}
	if req.Notes != nil {
		rec.Notes = *req.Notes
	}
	rec.UpdatedBy = &callerID

	if err := s.repo.SchedulingRecord.Update(ctx, rec); err != nil {
		s.logger.Error("更新排程记录失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	updated, err := s.repo.SchedulingRecord.GetByID(ctx, id)
	if err != nil {
		return toSchedulingRecordResponse(rec), nil
	}
	return toSchedulingRecordResponse(updated), nil
}

func (s *schedulingService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := s.repo.SchedulingRecord.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSchedulingRecordNotFound
		}
		s.logger.Error("查询排程记录失败", zap.String("id", id), zap.Error(err))
		return err
	}

	if err := s.repo.SchedulingRecord.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("删除排程记录失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ── 响应转换器 ──

func toSchedulingRecordResponse(rec *model.SchedulingRecord) *dto.SchedulingRecordResponse {
	resp := &dto.SchedulingRecordResponse{
		ID:            rec.RecordID,
		StartDate:     rec.StartDate.Format(dayKeyLayout),
		EndDate:       rec.EndDate.Format(dayKeyLayout),
		Status:        rec.Status,
		TechnicianIDs: []string(rec.TechnicianIDs),
		JobID:         rec.JobID,
		ClientID:      rec.ClientID,
		ReportID:      rec.ReportID,
		Notes:         rec.Notes,
		Version:       rec.Version,
	}
	if resp.TechnicianIDs == nil {
		resp.TechnicianIDs = []string{}
	}
	if rec.Job != nil {
		resp.JobCode = rec.Job.Code
	}
	if rec.Client != nil {
		resp.ClientName = rec.Client.Name
	} else if rec.Job != nil && rec.Job.Client != nil {
		resp.ClientName = rec.Job.Client.Name
	}
	if rec.Report != nil {
		num := rec.Report.ReportNumber
		resp.ReportNumber = &num
	}
	return resp
}
