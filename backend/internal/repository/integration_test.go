//go:build integration

package repository_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"oilsafe-hub/backend/internal/model"
	"oilsafe-hub/backend/internal/repository"
	pkgerrors "oilsafe-hub/backend/pkg/errors"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=oilsafe password=oilsafe_password dbname=oilsafe_hub_test sslmode=disable TimeZone=Europe/Rome"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法连接测试数据库: %v\n", err)
		os.Exit(1)
	}

	// 自动迁移测试表结构
	err = testDB.AutoMigrate(
		&model.User{},
		&model.Technician{},
		&model.Client{},
		&model.Job{},
		&model.ServiceReport{},
		&model.SchedulingRecord{},
		&model.RelocationLog{},
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "AutoMigrate 失败: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()
	os.Exit(code)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// setupTestData 创建基础测试数据并返回清理函数
func setupTestData(t *testing.T) (tech *model.Technician, client *model.Client, job *model.Job, cleanup func()) {
	t.Helper()
	ctx := context.Background()

	tech = &model.Technician{
		Name:     "Anna",
		Surname:  fmt.Sprintf("Bianchi-%d", time.Now().UnixNano()),
		IsActive: true,
	}
	if err := testDB.WithContext(ctx).Create(tech).Error; err != nil {
		t.Fatalf("创建技师失败: %v", err)
	}

	client = &model.Client{
		Name: fmt.Sprintf("Acme-%d", time.Now().UnixNano()),
	}
	if err := testDB.WithContext(ctx).Create(client).Error; err != nil {
		t.Fatalf("创建客户失败: %v", err)
	}

	job = &model.Job{
		Code:     fmt.Sprintf("C-%d", time.Now().UnixNano()),
		ClientID: &client.ClientID,
		Status:   model.JobStatusOpen,
	}
	if err := testDB.WithContext(ctx).Create(job).Error; err != nil {
		t.Fatalf("创建工单失败: %v", err)
	}

	cleanup = func() {
		testDB.Unscoped().Where("job_id = ?", job.JobID).Delete(&model.Job{})
		testDB.Unscoped().Where("client_id = ?", client.ClientID).Delete(&model.Client{})
		testDB.Unscoped().Where("technician_id = ?", tech.TechnicianID).Delete(&model.Technician{})
	}
	return
}

func createTestRecord(t *testing.T, tech *model.Technician, job *model.Job, start, end time.Time, status string) *model.SchedulingRecord {
	t.Helper()
	rec := &model.SchedulingRecord{
		StartDate:     start,
		EndDate:       end,
		Status:        status,
		TechnicianIDs: model.StringArray{tech.TechnicianID},
		JobID:         &job.JobID,
	}
	if err := testDB.Create(rec).Error; err != nil {
		t.Fatalf("创建排程记录失败: %v", err)
	}
	return rec
}

func deleteTestRecord(rec *model.SchedulingRecord) {
	testDB.Unscoped().Where("record_id = ?", rec.RecordID).Delete(&model.SchedulingRecord{})
}

// ═══════════════════════════════════════════════════════════
// Test: ListByWindow
// ═══════════════════════════════════════════════════════════

func TestSchedulingRecordRepo_ListByWindow(t *testing.T) {
	tech, _, job, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB, nil)
	ctx := context.Background()

	inside := createTestRecord(t, tech, job, day(2030, 6, 2), day(2030, 6, 4), model.SchedulingStatusPlanned)
	defer deleteTestRecord(inside)
	straddling := createTestRecord(t, tech, job, day(2030, 5, 30), day(2030, 6, 1), model.SchedulingStatusConfirmed)
	defer deleteTestRecord(straddling)
	outside := createTestRecord(t, tech, job, day(2030, 7, 1), day(2030, 7, 2), model.SchedulingStatusPlanned)
	defer deleteTestRecord(outside)
	cancelled := createTestRecord(t, tech, job, day(2030, 6, 3), day(2030, 6, 3), model.SchedulingStatusCancelled)
	defer deleteTestRecord(cancelled)

	records, err := repo.SchedulingRecord.ListByWindow(ctx, day(2030, 6, 1), day(2030, 6, 30), model.CalendarStatuses)
	if err != nil {
		t.Fatalf("ListByWindow 失败: %v", err)
	}

	ids := make(map[string]bool, len(records))
	for _, r := range records {
		ids[r.RecordID] = true
	}
	if !ids[inside.RecordID] {
		t.Error("窗口内记录应被返回")
	}
	if !ids[straddling.RecordID] {
		t.Error("跨窗口边界的记录应被返回（相交判定）")
	}
	if ids[outside.RecordID] {
		t.Error("窗口外记录不应被返回")
	}
	if ids[cancelled.RecordID] {
		t.Error("状态被过滤的记录不应被返回")
	}

	// start_date 升序
	for i := 1; i < len(records); i++ {
		if records[i].StartDate.Before(records[i-1].StartDate) {
			t.Error("记录应按 start_date 升序返回")
		}
	}
}

func TestSchedulingRecordRepo_ListByWindow_PreloadsRefs(t *testing.T) {
	tech, client, job, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB, nil)
	rec := createTestRecord(t, tech, job, day(2030, 6, 2), day(2030, 6, 2), model.SchedulingStatusPlanned)
	defer deleteTestRecord(rec)

	records, err := repo.SchedulingRecord.ListByWindow(context.Background(), day(2030, 6, 1), day(2030, 6, 7), nil)
	if err != nil {
		t.Fatalf("ListByWindow 失败: %v", err)
	}
	if len(records) == 0 {
		t.Fatal("期望至少1条记录")
	}

	var found *model.SchedulingRecord
	for i := range records {
		if records[i].RecordID == rec.RecordID {
			found = &records[i]
		}
	}
	if found == nil {
		t.Fatal("未找到测试记录")
	}
	if found.Job == nil || found.Job.Code != job.Code {
		t.Error("应预加载工单关联")
	}
	if found.Job.Client == nil || found.Job.Client.Name != client.Name {
		t.Error("应预加载工单的客户关联")
	}
}

// ═══════════════════════════════════════════════════════════
// Test: 乐观锁
// ═══════════════════════════════════════════════════════════

func TestSchedulingRecordRepo_Update_OptimisticLock(t *testing.T) {
	tech, _, job, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB, nil)
	ctx := context.Background()

	rec := createTestRecord(t, tech, job, day(2030, 6, 2), day(2030, 6, 2), model.SchedulingStatusPlanned)
	defer deleteTestRecord(rec)

	// 第一次更新成功，版本前进
	first, err := repo.SchedulingRecord.GetByID(ctx, rec.RecordID)
	if err != nil {
		t.Fatalf("GetByID 失败: %v", err)
	}
	first.Notes = "primo aggiornamento"
	if err := repo.SchedulingRecord.Update(ctx, first); err != nil {
		t.Fatalf("第一次更新应成功: %v", err)
	}

	// 带过期版本的更新应冲突
	stale := *rec
	stale.Notes = "aggiornamento concorrente"
	if err := repo.SchedulingRecord.Update(ctx, &stale); err != pkgerrors.ErrOptimisticLock {
		t.Errorf("期望 ErrOptimisticLock，实际: %v", err)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: 软删除
// ═══════════════════════════════════════════════════════════

func TestSchedulingRecordRepo_SoftDelete(t *testing.T) {
	tech, _, job, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB, nil)
	ctx := context.Background()

	rec := createTestRecord(t, tech, job, day(2030, 6, 2), day(2030, 6, 2), model.SchedulingStatusPlanned)
	defer deleteTestRecord(rec)

	operatorID := uuid.New().String()
	if err := repo.SchedulingRecord.Delete(ctx, rec.RecordID, operatorID); err != nil {
		t.Fatalf("软删除失败: %v", err)
	}

	if _, err := repo.SchedulingRecord.GetByID(ctx, rec.RecordID); err != gorm.ErrRecordNotFound {
		t.Errorf("软删除后 GetByID 应返回 ErrRecordNotFound，实际: %v", err)
	}

	records, err := repo.SchedulingRecord.ListByWindow(ctx, day(2030, 6, 1), day(2030, 6, 7), nil)
	if err != nil {
		t.Fatalf("ListByWindow 失败: %v", err)
	}
	for _, r := range records {
		if r.RecordID == rec.RecordID {
			t.Error("软删除记录不应出现在窗口查询中")
		}
	}

	// deleted_by 审计字段已写入
	var raw model.SchedulingRecord
	if err := testDB.Unscoped().Where("record_id = ?", rec.RecordID).First(&raw).Error; err != nil {
		t.Fatalf("Unscoped 查询失败: %v", err)
	}
	if raw.DeletedBy == nil || *raw.DeletedBy != operatorID {
		t.Error("软删除应记录 deleted_by")
	}
}

// ═══════════════════════════════════════════════════════════
// Test: 迁移审计日志
// ═══════════════════════════════════════════════════════════

func TestRelocationLogRepo_CreateAndList(t *testing.T) {
	tech, _, job, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB, nil)
	ctx := context.Background()

	rec := createTestRecord(t, tech, job, day(2030, 6, 2), day(2030, 6, 2), model.SchedulingStatusPlanned)
	defer deleteTestRecord(rec)

	log := &model.RelocationLog{
		RecordID:          rec.RecordID,
		PreviousTechIDs:   model.StringArray{tech.TechnicianID},
		NewTechnicianID:   tech.TechnicianID,
		PreviousStartDate: day(2030, 6, 2),
		PreviousEndDate:   day(2030, 6, 2),
		NewStartDate:      day(2030, 6, 10),
		NewEndDate:        day(2030, 6, 10),
		OperatorID:        uuid.New().String(),
	}
	if err := repo.RelocationLog.Create(ctx, log); err != nil {
		t.Fatalf("创建迁移日志失败: %v", err)
	}
	defer testDB.Unscoped().Where("relocation_log_id = ?", log.RelocationLogID).Delete(&model.RelocationLog{})

	logs, total, err := repo.RelocationLog.List(ctx, 0, 20)
	if err != nil {
		t.Fatalf("List 失败: %v", err)
	}
	if total < 1 {
		t.Fatal("期望至少1条日志")
	}

	var found *model.RelocationLog
	for i := range logs {
		if logs[i].RelocationLogID == log.RelocationLogID {
			found = &logs[i]
		}
	}
	if found == nil {
		t.Fatal("未找到刚创建的日志")
	}
	if len(found.PreviousTechIDs) != 1 || found.PreviousTechIDs[0] != tech.TechnicianID {
		t.Error("uuid[] 快照字段应完整往返")
	}
}
