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

// ── 客户模块业务错误 ──

var ErrClientNotFound = errors.New("客户不存在")

// ClientService 客户业务接口
type ClientService interface {
	Create(ctx context.Context, req *dto.CreateClientRequest, callerID string) (*dto.ClientResponse, error)
	GetByID(ctx context.Context, id string) (*dto.ClientResponse, error)
	List(ctx context.Context, search string, page, pageSize int) ([]dto.ClientResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateClientRequest, callerID string) (*dto.ClientResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
}

type clientService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewClientService 创建 ClientService 实例
func NewClientService(repo *repository.Repository, logger *zap.Logger) ClientService {
	return &clientService{repo: repo, logger: logger}
}

func (s *clientService) Create(ctx context.Context, req *dto.CreateClientRequest, callerID string) (*dto.ClientResponse, error) {
	c := &model.Client{
		Name:    req.Name,
		VATCode: req.VATCode,
		Address: req.Address,
		City:    req.City,
		Phone:   req.Phone,
		Email:   req.Email,
	}
	c.CreatedBy = &callerID
	c.UpdatedBy = &callerID

	if err := s.repo.Client.Create(ctx, c); err != nil {
		s.logger.Error("创建客户失败", zap.Error(err))
		return nil, err
	}
	return toClientResponse(c), nil
}

func (s *clientService) GetByID(ctx context.Context, id string) (*dto.ClientResponse, error) {
	c, err := s.repo.Client.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		s.logger.Error("查询客户失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toClientResponse(c), nil
}

func (s *clientService) List(ctx context.Context, search string, page, pageSize int) ([]dto.ClientResponse, int64, error) {
	list, total, err := s.repo.Client.List(ctx, search, (page-1)*pageSize, pageSize)
	if err != nil {
		s.logger.Error("列出客户失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.ClientResponse, 0, len(list))
	for i := range list {
		result = append(result, *toClientResponse(&list[i]))
	}
	return result, total, nil
}

func (s *clientService) Update(ctx context.Context, id string, req *dto.UpdateClientRequest, callerID string) (*dto.ClientResponse, error) {
	c, err := s.repo.Client.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		s.logger.Error("查询客户失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.VATCode != nil {
		c.VATCode = *req.VATCode
	}
	if req.Address != nil {
		c.Address = *req.Address
	}
	if req.City != nil {
		c.City = *req.City
	}
	if req.Phone != nil {
		c.Phone = *req.Phone
	}
	if req.Email != nil {
		c.Email = *req.Email
	}
	c.UpdatedBy = &callerID

	if err := s.repo.Client.Update(ctx, c); err != nil {
		s.logger.Error("更新客户失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toClientResponse(c), nil
}

func (s *clientService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := s.repo.Client.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrClientNotFound
		}
		s.logger.Error("查询客户失败", zap.String("id", id), zap.Error(err))
		return err
	}

	if err := s.repo.Client.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("删除客户失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ── 响应转换器 ──

func toClientResponse(c *model.Client) *dto.ClientResponse {
	return &dto.ClientResponse{
		ID:      c.ClientID,
		Name:    c.Name,
		VATCode: c.VATCode,
		Address: c.Address,
		City:    c.City,
		Phone:   c.Phone,
		Email:   c.Email,
	}
}
