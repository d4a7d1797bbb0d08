package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"oilsafe-hub/backend/internal/dto"
)

func TestClientService_CRUD(t *testing.T) {
	repo := newMockRepository()
	svc := NewClientService(repo, zap.NewNop())

	created, err := svc.Create(context.Background(), &dto.CreateClientRequest{
		Name:    "Beta Srl",
		VATCode: "IT01234567890",
		City:    "Milano",
	}, "op-1")
	if err != nil {
		t.Fatalf("创建客户应成功: %v", err)
	}
	if created.Name != "Beta Srl" {
		t.Errorf("期望 Name=Beta Srl，实际=%s", created.Name)
	}

	newCity := "Torino"
	updated, err := svc.Update(context.Background(), created.ID, &dto.UpdateClientRequest{
		City: &newCity,
	}, "op-1")
	if err != nil {
		t.Fatalf("更新客户应成功: %v", err)
	}
	if updated.City != "Torino" {
		t.Errorf("期望 City=Torino，实际=%s", updated.City)
	}
	if updated.VATCode != "IT01234567890" {
		t.Errorf("部分更新不应清空其他字段，VATCode 实际=%s", updated.VATCode)
	}

	if err := svc.Delete(context.Background(), created.ID, "op-1"); err != nil {
		t.Fatalf("删除客户应成功: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), created.ID); !errors.Is(err, ErrClientNotFound) {
		t.Errorf("删除后查询应返回 ErrClientNotFound，实际: %v", err)
	}
}

func TestClientService_GetByID_NotFound(t *testing.T) {
	repo := newMockRepository()
	svc := NewClientService(repo, zap.NewNop())

	_, err := svc.GetByID(context.Background(), "nonexistent")
	if !errors.Is(err, ErrClientNotFound) {
		t.Errorf("期望 ErrClientNotFound，实际: %v", err)
	}
}
