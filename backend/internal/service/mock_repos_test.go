package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"oilsafe-hub/backend/internal/model"
	"oilsafe-hub/backend/internal/repository"
	pkgerrors "oilsafe-hub/backend/pkg/errors"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = "user-" + user.Email
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	u, ok := m.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

// ── Mock TechnicianRepository ──

type mockTechnicianRepo struct {
	technicians map[string]*model.Technician
}

func newMockTechnicianRepo() *mockTechnicianRepo {
	return &mockTechnicianRepo{technicians: make(map[string]*model.Technician)}
}

func (m *mockTechnicianRepo) Create(_ context.Context, t *model.Technician) error {
	if t.TechnicianID == "" {
		t.TechnicianID = "tech-" + t.Surname
	}
	m.technicians[t.TechnicianID] = t
	return nil
}

func (m *mockTechnicianRepo) GetByID(_ context.Context, id string) (*model.Technician, error) {
	if t, ok := m.technicians[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTechnicianRepo) List(_ context.Context, onlyActive bool) ([]model.Technician, error) {
	var result []model.Technician
	for _, t := range m.technicians {
		if onlyActive && !t.IsActive {
			continue
		}
		result = append(result, *t)
	}
	// 与真实仓储一致：姓、名排序
	sort.Slice(result, func(i, j int) bool {
		if result[i].Surname != result[j].Surname {
			return result[i].Surname < result[j].Surname
		}
		return result[i].Name < result[j].Name
	})
	return result, nil
}

func (m *mockTechnicianRepo) Update(_ context.Context, t *model.Technician) error {
	existing, ok := m.technicians[t.TechnicianID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if existing.Version != t.Version {
		return pkgerrors.ErrOptimisticLock
	}
	t.Version++
	m.technicians[t.TechnicianID] = t
	return nil
}

func (m *mockTechnicianRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.technicians, id)
	return nil
}

// ── Mock ClientRepository ──

type mockClientRepo struct {
	clients map[string]*model.Client
}

func newMockClientRepo() *mockClientRepo {
	return &mockClientRepo{clients: make(map[string]*model.Client)}
}

func (m *mockClientRepo) Create(_ context.Context, c *model.Client) error {
	if c.ClientID == "" {
		c.ClientID = "client-" + c.Name
	}
	m.clients[c.ClientID] = c
	return nil
}

func (m *mockClientRepo) GetByID(_ context.Context, id string) (*model.Client, error) {
	if c, ok := m.clients[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockClientRepo) List(_ context.Context, _ string, _, _ int) ([]model.Client, int64, error) {
	var result []model.Client
	for _, c := range m.clients {
		result = append(result, *c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, int64(len(result)), nil
}

func (m *mockClientRepo) Update(_ context.Context, c *model.Client) error {
	existing, ok := m.clients[c.ClientID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if existing.Version != c.Version {
		return pkgerrors.ErrOptimisticLock
	}
	c.Version++
	m.clients[c.ClientID] = c
	return nil
}

func (m *mockClientRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.clients, id)
	return nil
}

// ── Mock JobRepository ──

type mockJobRepo struct {
	jobs map[string]*model.Job
}

func newMockJobRepo() *mockJobRepo {
	return &mockJobRepo{jobs: make(map[string]*model.Job)}
}

func (m *mockJobRepo) Create(_ context.Context, j *model.Job) error {
	if j.JobID == "" {
		j.JobID = "job-" + j.Code
	}
	m.jobs[j.JobID] = j
	return nil
}

func (m *mockJobRepo) GetByID(_ context.Context, id string) (*model.Job, error) {
	if j, ok := m.jobs[id]; ok {
		return j, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockJobRepo) GetByCode(_ context.Context, code string) (*model.Job, error) {
	for _, j := range m.jobs {
		if j.Code == code {
			return j, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockJobRepo) List(_ context.Context, _ string, _, _ int) ([]model.Job, int64, error) {
	jobs, _ := m.ListAll(context.Background())
	return jobs, int64(len(jobs)), nil
}

func (m *mockJobRepo) ListAll(_ context.Context) ([]model.Job, error) {
	var result []model.Job
	for _, j := range m.jobs {
		result = append(result, *j)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Code < result[j].Code })
	return result, nil
}

func (m *mockJobRepo) Update(_ context.Context, j *model.Job) error {
	existing, ok := m.jobs[j.JobID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if existing.Version != j.Version {
		return pkgerrors.ErrOptimisticLock
	}
	j.Version++
	m.jobs[j.JobID] = j
	return nil
}

func (m *mockJobRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.jobs, id)
	return nil
}

// ── Mock ServiceReportRepository ──

type mockReportRepo struct {
	reports    map[string]*model.ServiceReport
	nextNumber int
}

func newMockReportRepo() *mockReportRepo {
	return &mockReportRepo{reports: make(map[string]*model.ServiceReport), nextNumber: 1}
}

func (m *mockReportRepo) Create(_ context.Context, rep *model.ServiceReport) error {
	if rep.ReportID == "" {
		rep.ReportID = fmt.Sprintf("report-%d", rep.ReportNumber)
	}
	m.reports[rep.ReportID] = rep
	if rep.ReportNumber >= m.nextNumber {
		m.nextNumber = rep.ReportNumber + 1
	}
	return nil
}

func (m *mockReportRepo) GetByID(_ context.Context, id string) (*model.ServiceReport, error) {
	if r, ok := m.reports[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockReportRepo) List(_ context.Context, _, _ int) ([]model.ServiceReport, int64, error) {
	var result []model.ServiceReport
	for _, r := range m.reports {
		result = append(result, *r)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ReportNumber > result[j].ReportNumber })
	return result, int64(len(result)), nil
}

func (m *mockReportRepo) NextReportNumber(_ context.Context) (int, error) {
	return m.nextNumber, nil
}

func (m *mockReportRepo) Update(_ context.Context, rep *model.ServiceReport) error {
	existing, ok := m.reports[rep.ReportID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if existing.Version != rep.Version {
		return pkgerrors.ErrOptimisticLock
	}
	rep.Version++
	m.reports[rep.ReportID] = rep
	return nil
}

func (m *mockReportRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.reports, id)
	return nil
}

// ── Mock SchedulingRecordRepository ──

type mockSchedulingRecordRepo struct {
	records map[string]*model.SchedulingRecord
	order   []string // 插入顺序，模拟 start_date ASC, created_at ASC 的次级排序
}

func newMockSchedulingRecordRepo() *mockSchedulingRecordRepo {
	return &mockSchedulingRecordRepo{records: make(map[string]*model.SchedulingRecord)}
}

func (m *mockSchedulingRecordRepo) Create(_ context.Context, rec *model.SchedulingRecord) error {
	if rec.RecordID == "" {
		rec.RecordID = fmt.Sprintf("rec-%d", len(m.order)+1)
	}
	m.records[rec.RecordID] = rec
	m.order = append(m.order, rec.RecordID)
	return nil
}

func (m *mockSchedulingRecordRepo) GetByID(_ context.Context, id string) (*model.SchedulingRecord, error) {
	if r, ok := m.records[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSchedulingRecordRepo) ListByWindow(_ context.Context, from, to time.Time, statuses []string) ([]model.SchedulingRecord, error) {
	statusSet := make(map[string]bool, len(statuses))
	for _, s := range statuses {
		statusSet[s] = true
	}

	var result []model.SchedulingRecord
	for _, id := range m.order {
		r := m.records[id]
		if len(statuses) > 0 && !statusSet[r.Status] {
			continue
		}
		if r.StartDate.After(to) || r.EndDate.Before(from) {
			continue
		}
		result = append(result, *r)
	}
	// start_date 升序，同日保持插入顺序
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].StartDate.Before(result[j].StartDate)
	})
	return result, nil
}

func (m *mockSchedulingRecordRepo) List(_ context.Context, _, _ int) ([]model.SchedulingRecord, int64, error) {
	var result []model.SchedulingRecord
	for _, id := range m.order {
		result = append(result, *m.records[id])
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].StartDate.After(result[j].StartDate)
	})
	return result, int64(len(result)), nil
}

func (m *mockSchedulingRecordRepo) Update(_ context.Context, rec *model.SchedulingRecord) error {
	existing, ok := m.records[rec.RecordID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if existing.Version != rec.Version {
		return pkgerrors.ErrOptimisticLock
	}
	rec.Version++
	m.records[rec.RecordID] = rec
	return nil
}

func (m *mockSchedulingRecordRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.records, id)
	return nil
}

// ── Mock RelocationLogRepository ──

type mockRelocationLogRepo struct {
	logs []model.RelocationLog
}

func newMockRelocationLogRepo() *mockRelocationLogRepo {
	return &mockRelocationLogRepo{}
}

func (m *mockRelocationLogRepo) Create(_ context.Context, log *model.RelocationLog) error {
	if log.RelocationLogID == "" {
		log.RelocationLogID = fmt.Sprintf("rl-%d", len(m.logs)+1)
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}
	m.logs = append(m.logs, *log)
	return nil
}

func (m *mockRelocationLogRepo) List(_ context.Context, _, _ int) ([]model.RelocationLog, int64, error) {
	// 新→旧
	result := make([]model.RelocationLog, 0, len(m.logs))
	for i := len(m.logs) - 1; i >= 0; i-- {
		result = append(result, m.logs[i])
	}
	return result, int64(len(m.logs)), nil
}

// ── 聚合构造 ──

func newMockRepository() *repository.Repository {
	return &repository.Repository{
		User:             newMockUserRepo(),
		Technician:       newMockTechnicianRepo(),
		Client:           newMockClientRepo(),
		Job:              newMockJobRepo(),
		Report:           newMockReportRepo(),
		SchedulingRecord: newMockSchedulingRecordRepo(),
		RelocationLog:    newMockRelocationLogRepo(),
	}
}
